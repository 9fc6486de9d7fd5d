package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kindredapp/kindred-backend/internal/db"
	"github.com/kindredapp/kindred-backend/internal/repository"
)

func TestSessionGetValid(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSessionRepository(setupTestDB(t))

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &db.AdjectiveSession{
		ViewerID: 1, TargetID: 2, Token: "tok-live",
		Adjectives: `["Kind","Funny","Smart","Warm"]`,
		ExpiresAt:  now.Add(time.Hour),
	}))

	session, err := repo.GetValid(ctx, 1, 2, "tok-live", now)
	require.NoError(t, err)
	assert.Equal(t, `["Kind","Funny","Smart","Warm"]`, session.Adjectives)

	// token is scoped to the pair
	_, err = repo.GetValid(ctx, 1, 3, "tok-live", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// TestSessionExpiryCheckedAtRead ensures expired rows are treated as absent
// even before any sweep runs.
func TestSessionExpiryCheckedAtRead(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSessionRepository(setupTestDB(t))

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &db.AdjectiveSession{
		ViewerID: 1, TargetID: 2, Token: "tok-dead",
		Adjectives: `["Kind"]`,
		ExpiresAt:  now.Add(-time.Minute),
	}))

	_, err := repo.GetValid(ctx, 1, 2, "tok-dead", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionDeleteExpired(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSessionRepository(dbase)

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &db.AdjectiveSession{
		ViewerID: 1, TargetID: 2, Token: "a", Adjectives: "[]", ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &db.AdjectiveSession{
		ViewerID: 1, TargetID: 3, Token: "b", Adjectives: "[]", ExpiresAt: now.Add(-time.Second),
	}))
	require.NoError(t, repo.Create(ctx, &db.AdjectiveSession{
		ViewerID: 1, TargetID: 4, Token: "c", Adjectives: "[]", ExpiresAt: now.Add(time.Hour),
	}))

	swept, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), swept)

	var count int64
	dbase.Model(&db.AdjectiveSession{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
