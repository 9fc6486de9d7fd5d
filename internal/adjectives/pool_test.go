package adjectives_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindredapp/kindred-backend/internal/adjectives"
)

func TestParseGender(t *testing.T) {
	assert.Equal(t, adjectives.Male, adjectives.ParseGender("male"))
	assert.Equal(t, adjectives.Male, adjectives.ParseGender(" Male "))
	assert.Equal(t, adjectives.Female, adjectives.ParseGender("female"))
	assert.Equal(t, adjectives.Female, adjectives.ParseGender("F"))
	assert.Equal(t, adjectives.Unspecified, adjectives.ParseGender(""))
	assert.Equal(t, adjectives.Unspecified, adjectives.ParseGender("other"))
	assert.Equal(t, adjectives.Unspecified, adjectives.ParseGender("nonbinary"))
}

// TestResolvePool_SameGender checks that a same-gender pairing gets the
// gender-specific pool first, then the neutral pool, with no duplicates.
func TestResolvePool_SameGender(t *testing.T) {
	pool := adjectives.ResolvePool(adjectives.Male, adjectives.Male)
	require.Len(t, pool, 50)

	// gender-specific terms lead the list
	assert.Equal(t, "Handsome", pool[0])
	assert.Contains(t, pool[:25], "Charming")
	assert.Contains(t, pool[25:], "Kind")

	seen := map[string]bool{}
	for _, a := range pool {
		assert.False(t, seen[a], "duplicate adjective %q", a)
		seen[a] = true
	}

	female := adjectives.ResolvePool(adjectives.Female, adjectives.Female)
	require.Len(t, female, 50)
	assert.Equal(t, "Beautiful", female[0])
}

// TestResolvePool_MixedOrUnspecified checks that different genders, or any
// unspecified side, resolve to the neutral pool only.
func TestResolvePool_MixedOrUnspecified(t *testing.T) {
	cases := []struct {
		name   string
		viewer adjectives.Gender
		target adjectives.Gender
	}{
		{"male/female", adjectives.Male, adjectives.Female},
		{"female/male", adjectives.Female, adjectives.Male},
		{"male/unspecified", adjectives.Male, adjectives.Unspecified},
		{"unspecified/female", adjectives.Unspecified, adjectives.Female},
		{"both unspecified", adjectives.Unspecified, adjectives.Unspecified},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pool := adjectives.ResolvePool(tc.viewer, tc.target)
			require.Len(t, pool, 25)
			assert.NotContains(t, pool, "Handsome")
			assert.NotContains(t, pool, "Beautiful")
			assert.Contains(t, pool, "Kind")
		})
	}
}

func TestResolvePool_ReturnsCopy(t *testing.T) {
	a := adjectives.ResolvePool(adjectives.Male, adjectives.Female)
	a[0] = "mutated"
	b := adjectives.ResolvePool(adjectives.Male, adjectives.Female)
	assert.NotEqual(t, "mutated", b[0])
}

func TestInPool(t *testing.T) {
	assert.True(t, adjectives.InPool(adjectives.Male, adjectives.Female, "Kind"))
	assert.False(t, adjectives.InPool(adjectives.Male, adjectives.Female, "Handsome"))
	assert.True(t, adjectives.InPool(adjectives.Male, adjectives.Male, "Handsome"))
	assert.False(t, adjectives.InPool(adjectives.Male, adjectives.Male, "kind")) // exact match
}

func TestPromptFor(t *testing.T) {
	// curated entry
	assert.Contains(t, adjectives.PromptFor("Kind"), "kindness")

	// deterministic
	assert.Equal(t, adjectives.PromptFor("Funny"), adjectives.PromptFor("Funny"))

	// templated fallback for anything without a curated entry
	fallback := adjectives.PromptFor("Rugged")
	assert.True(t, strings.HasPrefix(fallback, "You both find each other Rugged!"))
}
