package repository

import (
	"context"

	"github.com/kindredapp/kindred-backend/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepository provides data access methods for the Connection model.
// One row per unordered pair; status transitions are the only mutation path.
type ConnectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new repository bound to the given DB connection.
func NewConnectionRepository(database *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: database}
}

// Get returns the connection row for the normalized pair, or
// gorm.ErrRecordNotFound when the pair is in state "none".
func (r *ConnectionRepository) Get(
	ctx context.Context,
	userLowID, userHighID uint64,
) (*db.Connection, error) {
	var conn db.Connection
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", userLowID, userHighID).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// Upsert inserts or overwrites the pair's connection row with the given
// status and initiator. Composite PK ensures at most one row per pair.
func (r *ConnectionRepository) Upsert(ctx context.Context, conn *db.Connection) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_low_id"}, {Name: "user_high_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "requested_by", "updated_at"}),
		}).
		Create(conn).Error
}

// Delete removes the pair's connection row, returning the pair to "none".
// Used by the remove and unblock actions.
func (r *ConnectionRepository) Delete(ctx context.Context, userLowID, userHighID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", userLowID, userHighID).
		Delete(&db.Connection{}).Error
}

// IsConnected reports whether the pair currently holds a Connection with
// status "connected". This is the chat-send gate.
func (r *ConnectionRepository) IsConnected(ctx context.Context, a, b uint64) (bool, error) {
	low, high := db.NormalizePair(a, b)
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Connection{}).
		Where("user_low_id = ? AND user_high_id = ? AND status = ?", low, high, db.ConnectionConnected).
		Count(&count).Error
	return count > 0, err
}
