package repository

import (
	"context"

	"github.com/kindredapp/kindred-backend/internal/db"

	"gorm.io/gorm"
)

// UserRepository is the user-directory lookup used for id/gender resolution.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByID returns the user or gorm.ErrRecordNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPair resolves two users in one call. The lookups touch disjoint keys,
// failures surface in id order.
func (r *UserRepository) GetPair(ctx context.Context, a, b uint64) (*db.User, *db.User, error) {
	ua, err := r.GetByID(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	ub, err := r.GetByID(ctx, b)
	if err != nil {
		return nil, nil, err
	}
	return ua, ub, nil
}
