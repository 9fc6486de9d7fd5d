package db

import (
	"time"
)

// User table
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	LastLoginAt  time.Time
	Gender       string    `gorm:"size:16;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// AdjectiveSelection is one user's declared adjective about another.
//
// Composite PK: (ViewerID, TargetID)
//   - At most one active selection per ordered pair; re-selecting overwrites
//     the adjective and resets Matched.
//
// Index:
//   - idx_selection_reverse(target_id, viewer_id) for the reciprocity lookup
//     performed on every new selection.
type AdjectiveSelection struct {
	ViewerID  uint64    `gorm:"primaryKey;index:idx_selection_reverse,priority:2"`
	TargetID  uint64    `gorm:"primaryKey;index:idx_selection_reverse,priority:1"`
	Adjective string    `gorm:"size:32;not null"`
	Matched   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// AdjectiveSession pins the candidate adjectives shown to a viewer for a
// target. While unexpired, repeated lookups by token return the identical
// list. Rows are never mutated; expired rows are rejected at read time and
// swept opportunistically.
type AdjectiveSession struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ViewerID   uint64    `gorm:"not null;index:idx_session_pair,priority:1"`
	TargetID   uint64    `gorm:"not null;index:idx_session_pair,priority:2"`
	Token      string    `gorm:"uniqueIndex;size:64;not null"`
	Adjectives string    `gorm:"size:512;not null"` // JSON array, ordered
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

// Match records a detected mutual selection.
//
// The pair is normalized (UserLowID < UserHighID) and the unique index on
// (user_low_id, user_high_id, mutual_adjective) closes the concurrent
// reciprocal-selection window: the second writer's insert is a no-op.
type Match struct {
	ID                uint64     `gorm:"primaryKey;autoIncrement"`
	UserLowID         uint64     `gorm:"not null;uniqueIndex:idx_pair_adjective,priority:1"`
	UserHighID        uint64     `gorm:"not null;uniqueIndex:idx_pair_adjective,priority:2;index"`
	MutualAdjective   string     `gorm:"size:32;not null;uniqueIndex:idx_pair_adjective,priority:3"`
	IceBreakingPrompt string     `gorm:"size:255;not null"`
	IsConnected       bool       `gorm:"not null;default:false"`
	MatchedAt         time.Time  `gorm:"autoCreateTime;index"`
	ConnectedAt       *time.Time
}

// Connection statuses. Unblock and remove delete the row, returning the
// pair to the implicit "none" state.
const (
	ConnectionRequested = "requested"
	ConnectionConnected = "connected"
	ConnectionBlocked   = "blocked"
	ConnectionRejected  = "rejected"
)

// Connection holds the single relationship row per unordered pair.
//
// Composite PK: (UserLowID, UserHighID), normalized low < high.
// RequestedBy records which user initiated the current status, so only the
// counterpart can accept or reject a pending request.
type Connection struct {
	UserLowID   uint64    `gorm:"primaryKey"`
	UserHighID  uint64    `gorm:"primaryKey"`
	Status      string    `gorm:"size:16;not null"`
	RequestedBy uint64    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Interaction is the generic first-write-wins marker that actor has engaged
// with target in some way. Recorded idempotently alongside every selection.
type Interaction struct {
	ActorID   uint64    `gorm:"primaryKey"`
	TargetID  uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message is a direct chat message. Sending is gated on the pair holding a
// Connection with status "connected".
type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	SenderID   uint64    `gorm:"not null;index:idx_message_pair,priority:1"`
	ReceiverID uint64    `gorm:"not null;index:idx_message_pair,priority:2"`
	Content    string    `gorm:"size:2000;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

// NormalizePair orders two user ids into the canonical (low, high) form used
// by Match and Connection keys.
func NormalizePair(a, b uint64) (low, high uint64) {
	if a < b {
		return a, b
	}
	return b, a
}
