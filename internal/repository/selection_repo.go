package repository

import (
	"context"

	"github.com/kindredapp/kindred-backend/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SelectionRepository provides data access methods for the AdjectiveSelection
// model. It encapsulates all queries of the selection ledger.
type SelectionRepository struct {
	db *gorm.DB
}

// NewSelectionRepository creates a new repository bound to the given DB connection.
func NewSelectionRepository(database *gorm.DB) *SelectionRepository {
	return &SelectionRepository{db: database}
}

// Get returns the active selection viewer → target, or gorm.ErrRecordNotFound.
func (r *SelectionRepository) Get(
	ctx context.Context,
	viewerID, targetID uint64,
) (*db.AdjectiveSelection, error) {
	var sel db.AdjectiveSelection
	err := r.db.WithContext(ctx).
		Where("viewer_id = ? AND target_id = ?", viewerID, targetID).
		First(&sel).Error
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

// Upsert inserts or overwrites the selection viewer → target.
//
// Behavior:
//   - If the (viewer_id, target_id) pair exists → adjective and timestamp are
//     overwritten and matched is reset to false.
//   - If it doesn't exist → a new row is inserted with matched = false.
//   - Composite PK ensures overwrite guarantee.
func (r *SelectionRepository) Upsert(
	ctx context.Context,
	viewerID, targetID uint64,
	adjective string,
) error {
	sel := db.AdjectiveSelection{
		ViewerID:  viewerID,
		TargetID:  targetID,
		Adjective: adjective,
		Matched:   false,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "viewer_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"adjective", "matched", "updated_at"}),
		}).
		Create(&sel).Error
}

// MarkMatched flips matched = true on both directions of a reciprocal pair.
func (r *SelectionRepository) MarkMatched(
	ctx context.Context,
	viewerID, targetID uint64,
) error {
	return r.db.WithContext(ctx).
		Model(&db.AdjectiveSelection{}).
		Where("(viewer_id = ? AND target_id = ?) OR (viewer_id = ? AND target_id = ?)",
			viewerID, targetID, targetID, viewerID).
		Update("matched", true).Error
}
