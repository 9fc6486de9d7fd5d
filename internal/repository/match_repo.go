package repository

import (
	"context"
	"time"

	"github.com/kindredapp/kindred-backend/internal/db"
	"github.com/kindredapp/kindred-backend/internal/utils/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateIfAbsent inserts a match unless one already exists for the same
// (user_low_id, user_high_id, mutual_adjective) key.
//
// The unique index makes the insert a no-op on conflict, which is what closes
// the concurrent reciprocal-selection race: both racers may attempt the
// insert, exactly one row results. Returns whether this call created the row.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, match *db.Match) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_low_id"}, {Name: "user_high_id"}, {Name: "mutual_adjective"},
			},
			DoNothing: true,
		}).
		Create(match)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetForPairAdjective returns the match row for the exact uniqueness key,
// or gorm.ErrRecordNotFound. Used to resolve the surviving row after a
// conflict-ignored insert.
func (r *MatchRepository) GetForPairAdjective(
	ctx context.Context,
	userLowID, userHighID uint64,
	adjective string,
) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ? AND mutual_adjective = ?",
			userLowID, userHighID, adjective).
		First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetLatestForPair returns the most recent match for the normalized pair,
// or gorm.ErrRecordNotFound. A pair can hold one match per adjective; the
// newest one is the state the clients show.
func (r *MatchRepository) GetLatestForPair(
	ctx context.Context,
	userLowID, userHighID uint64,
) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", userLowID, userHighID).
		Order("matched_at DESC, id DESC").
		First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListForUser returns the user's matches, newest first.
//
// Behavior:
//   - Ordered by matched_at DESC, id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *MatchRepository) ListForUser(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]db.Match, *string, error) {
	var matches []db.Match

	// decode cursor if provided
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("matched_at DESC, id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.LastID > 0 && cursor.UnixMillis > 0 {
		ts := time.UnixMilli(cursor.UnixMillis)
		query = query.Where(
			"(matched_at < ? OR (matched_at = ? AND id < ?))",
			ts, ts, cursor.LastID,
		)
	}

	if err := query.Find(&matches).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(matches) > limit {
		last := matches[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			LastID:     last.ID,
			UnixMillis: last.MatchedAt.UnixMilli(),
		})
		nextToken = &token
		matches = matches[:limit]
	}

	return matches, nextToken, nil
}

// CountForUser returns how many matches the user holds.
// Used in conjunction with the Redis cache (DB is fallback).
func (r *MatchRepository) CountForUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SetConnected marks every match of the normalized pair connected at the
// given instant. A no-op when the pair has no matches (the request/accept
// flow is allowed to run without one).
func (r *MatchRepository) SetConnected(
	ctx context.Context,
	userLowID, userHighID uint64,
	at time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_low_id = ? AND user_high_id = ?", userLowID, userHighID).
		Updates(map[string]interface{}{
			"is_connected": true,
			"connected_at": at,
		}).Error
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
