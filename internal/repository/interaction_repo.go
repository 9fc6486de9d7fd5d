package repository

import (
	"context"

	"github.com/kindredapp/kindred-backend/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository records the generic actor → target engagement marker.
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new repository bound to the given DB connection.
func NewInteractionRepository(database *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: database}
}

// Record stores the marker with first-write-wins semantics: no error and no
// mutation if the pair is already present.
func (r *InteractionRepository) Record(ctx context.Context, actorID, targetID uint64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.Interaction{ActorID: actorID, TargetID: targetID}).Error
}
