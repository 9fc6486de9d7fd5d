package repository

import (
	"context"
	"time"

	"github.com/kindredapp/kindred-backend/internal/db"

	"gorm.io/gorm"
)

// SessionRepository provides data access methods for the AdjectiveSession
// model. Sessions are write-once; the expiry check happens at read time so a
// stale row can never leak a dead adjective list.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new repository bound to the given DB connection.
func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{db: database}
}

// Create persists a freshly generated session.
func (r *SessionRepository) Create(ctx context.Context, session *db.AdjectiveSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetValid returns the unexpired session for (viewer, target, token), or
// gorm.ErrRecordNotFound. Expired rows are treated as absent.
func (r *SessionRepository) GetValid(
	ctx context.Context,
	viewerID, targetID uint64,
	token string,
	now time.Time,
) (*db.AdjectiveSession, error) {
	var session db.AdjectiveSession
	err := r.db.WithContext(ctx).
		Where("viewer_id = ? AND target_id = ? AND token = ? AND expires_at > ?",
			viewerID, targetID, token, now).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteExpired removes every session past its expiry instant. Invoked
// probabilistically from the explore service, never on the hot path of every
// request.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&db.AdjectiveSession{})
	return res.RowsAffected, res.Error
}
