package adjectives

import "strings"

// Gender is the tri-state gender used for pool resolution.
// Anything that is not explicitly male or female resolves as Unspecified.
type Gender int

const (
	Unspecified Gender = iota
	Male
	Female
)

// ParseGender maps a stored gender string onto the tri-state enum.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male
	case "female", "f":
		return Female
	default:
		return Unspecified
	}
}

// The three vocabularies are static and non-overlapping. Gender-specific
// terms are only ever shown when both users share the same specified gender.
var malePool = []string{
	"Handsome", "Charming", "Confident", "Ambitious", "Athletic",
	"Adventurous", "Chivalrous", "Witty", "Rugged", "Dapper",
	"Protective", "Driven", "Easygoing", "Gallant", "Sporty",
	"Daring", "Suave", "Bold", "Dependable", "Hardworking",
	"Loyal", "Humble", "Spontaneous", "Courageous", "Charismatic",
}

var femalePool = []string{
	"Beautiful", "Graceful", "Elegant", "Radiant", "Lovely",
	"Gorgeous", "Stylish", "Vivacious", "Sweet", "Classy",
	"Enchanting", "Stunning", "Delightful", "Poised", "Dazzling",
	"Captivating", "Alluring", "Angelic", "Blissful", "Bubbly",
	"Sassy", "Serene", "Tender", "Vibrant", "Nurturing",
}

var neutralPool = []string{
	"Kind", "Funny", "Smart", "Creative", "Honest",
	"Caring", "Thoughtful", "Genuine", "Cheerful", "Curious",
	"Friendly", "Generous", "Optimistic", "Passionate", "Reliable",
	"Sincere", "Supportive", "Talented", "Warm", "Wise",
	"Playful", "Grounded", "Open-minded", "Energetic", "Compassionate",
}

// ResolvePool returns the adjective vocabulary allowed for a viewer/target
// pairing. Same specified gender gets the gender-specific pool first, then
// the neutral pool. Every other combination — different genders, or either
// side unspecified — gets the neutral pool only, so gender-specific language
// never leaks into mixed or unknown pairings.
//
// The returned slice is a fresh copy; callers may shuffle or trim it.
func ResolvePool(viewer, target Gender) []string {
	if viewer == target && viewer != Unspecified {
		var specific []string
		if viewer == Male {
			specific = malePool
		} else {
			specific = femalePool
		}
		pool := make([]string, 0, len(specific)+len(neutralPool))
		pool = append(pool, specific...)
		pool = append(pool, neutralPool...)
		return pool
	}
	pool := make([]string, len(neutralPool))
	copy(pool, neutralPool)
	return pool
}

// InPool reports whether adjective is a member of the resolved pool for the
// given pairing. Matching is exact; the client always submits a value it was
// handed by the session endpoint.
func InPool(viewer, target Gender, adjective string) bool {
	for _, a := range ResolvePool(viewer, target) {
		if a == adjective {
			return true
		}
	}
	return false
}
