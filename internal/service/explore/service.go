package explore

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kindredapp/kindred-backend/internal/adjectives"
	"github.com/kindredapp/kindred-backend/internal/app"
	"github.com/kindredapp/kindred-backend/internal/db"
	svcErr "github.com/kindredapp/kindred-backend/internal/errors"
	"github.com/kindredapp/kindred-backend/internal/repository"
)

const (
	// sessionValidity is the window during which a session token returns the
	// identical adjective list.
	sessionValidity = 24 * time.Hour

	// sessionAdjectiveCount is how many candidates a session presents.
	sessionAdjectiveCount = 4

	// sweepProbability is the chance a request triggers the expired-session
	// sweep. Expired rows are always rejected at read time, so the sweep
	// only bounds storage bloat.
	sweepProbability = 0.1

	matchPageSize = 20
)

// Service implements the explore surface: adjective sessions, the selection
// ledger, match detection and match listing. It contains the business logic
// on top of repository and cache layers.
type Service struct {
	appCtx          *app.AppContext
	userRepo        *repository.UserRepository
	selectionRepo   *repository.SelectionRepository
	sessionRepo     *repository.SessionRepository
	matchRepo       *repository.MatchRepository
	connectionRepo  *repository.ConnectionRepository
	interactionRepo *repository.InteractionRepository
}

// NewExploreService creates a new explore service with dependencies from AppContext.
func NewExploreService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:          appCtx,
		userRepo:        repository.NewUserRepository(appCtx.DB),
		selectionRepo:   repository.NewSelectionRepository(appCtx.DB),
		sessionRepo:     repository.NewSessionRepository(appCtx.DB),
		matchRepo:       repository.NewMatchRepository(appCtx.DB),
		connectionRepo:  repository.NewConnectionRepository(appCtx.DB),
		interactionRepo: repository.NewInteractionRepository(appCtx.DB),
	}
}

// AdjectivesResult is the session payload returned to the viewer.
type AdjectivesResult struct {
	Adjectives         []string
	SessionToken       string
	HasTargetSelection bool
	HasViewerSelection bool
}

// GetAdjectives returns the time-boxed candidate adjectives for
// (viewer, target).
//
// Behavior:
//   - With a valid, unexpired sessionToken the stored list is returned
//     unchanged (redis hot copy first, DB row as authority).
//   - Otherwise a new session is generated: if the target has already
//     selected an adjective about the viewer, that adjective leads the list
//     so the viewer can reciprocate; the rest is drawn uniformly without
//     replacement from the resolved pool.
//   - Opportunistically sweeps expired sessions with low probability.
func (s *Service) GetAdjectives(
	ctx context.Context,
	viewerID, targetID uint64,
	sessionToken string,
) (*AdjectivesResult, error) {
	s.appCtx.Logger.Debug("GetAdjectives called", "viewer", viewerID, "target", targetID, "token", sessionToken)

	if viewerID == targetID {
		return nil, svcErr.Validation("cannot view adjectives for yourself")
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, s.mapUserErr(err, "viewer not found")
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, s.mapUserErr(err, "target user not found")
	}

	s.maybeSweepSessions(ctx)

	targetSel := s.getSelection(ctx, targetID, viewerID)
	viewerSel := s.getSelection(ctx, viewerID, targetID)

	result := &AdjectivesResult{
		HasTargetSelection: targetSel != nil,
		HasViewerSelection: viewerSel != nil,
	}

	// An unexpired token returns the pinned list.
	if sessionToken != "" {
		if list, ok := s.lookupSession(ctx, viewerID, targetID, sessionToken); ok {
			result.Adjectives = list
			result.SessionToken = sessionToken
			return result, nil
		}
	}

	pool := adjectives.ResolvePool(
		adjectives.ParseGender(viewer.Gender),
		adjectives.ParseGender(target.Gender),
	)

	var list []string
	if targetSel != nil {
		list = append([]string{targetSel.Adjective},
			drawRandom(pool, sessionAdjectiveCount-1, targetSel.Adjective)...)
	} else {
		list = drawRandom(pool, sessionAdjectiveCount, "")
	}

	token := uuid.NewString()
	payload, err := json.Marshal(list)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	session := &db.AdjectiveSession{
		ViewerID:   viewerID,
		TargetID:   targetID,
		Token:      token,
		Adjectives: string(payload),
		ExpiresAt:  time.Now().Add(sessionValidity),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.appCtx.Logger.Error("failed to persist adjective session", "err", err)
		return nil, svcErr.Map(err)
	}

	// hot copy, same validity
	key := s.appCtx.RedisCache.KeyForSession(viewerID, targetID, token)
	_ = s.appCtx.RedisCache.Set(ctx, key, string(payload), sessionValidity)

	result.Adjectives = list
	result.SessionToken = token
	return result, nil
}

// SelectResult is the outcome of recording a selection.
type SelectResult struct {
	Matched           bool
	Match             *db.Match
	IsUpdate          bool
	PreviousAdjective string
}

// SelectAdjective records the viewer's adjective about the target and runs
// match detection.
//
// Behavior:
//   - Validates the adjective against the resolved pool for the pair.
//   - Rejects pairs that already hold a "connected" Connection.
//   - Overwrites any prior selection (resetting its matched flag) and
//     reports the previous adjective.
//   - On a reciprocal selection of the same adjective, creates the Match
//     (write-time uniqueness on pair+adjective) and flips both selections to
//     matched. The counterpart gets a best-effort "newMatch" push.
func (s *Service) SelectAdjective(
	ctx context.Context,
	viewerID, targetID uint64,
	adjective string,
) (*SelectResult, error) {
	s.appCtx.Logger.Debug("SelectAdjective called", "viewer", viewerID, "target", targetID, "adjective", adjective)

	if viewerID == targetID {
		return nil, svcErr.Validation("cannot select an adjective for yourself")
	}
	if adjective == "" {
		return nil, svcErr.Validation("adjective is required")
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, s.mapUserErr(err, "viewer not found")
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, s.mapUserErr(err, "target user not found")
	}

	if !adjectives.InPool(
		adjectives.ParseGender(viewer.Gender),
		adjectives.ParseGender(target.Gender),
		adjective,
	) {
		return nil, svcErr.Validation("adjective is not available for this pair")
	}

	low, high := db.NormalizePair(viewerID, targetID)
	if conn, err := s.connectionRepo.Get(ctx, low, high); err == nil && conn.Status == db.ConnectionConnected {
		return nil, svcErr.PreconditionFailed("users are already connected")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Map(err)
	}

	result := &SelectResult{}
	if prev := s.getSelection(ctx, viewerID, targetID); prev != nil {
		result.IsUpdate = true
		result.PreviousAdjective = prev.Adjective
	}

	if err := s.selectionRepo.Upsert(ctx, viewerID, targetID, adjective); err != nil {
		s.appCtx.Logger.Error("failed to upsert selection", "err", err)
		return nil, svcErr.Map(err)
	}

	if err := s.interactionRepo.Record(ctx, viewerID, targetID); err != nil {
		return nil, svcErr.Map(err)
	}

	// reciprocity check
	reversed := s.getSelection(ctx, targetID, viewerID)
	if reversed == nil || reversed.Adjective != adjective {
		return result, nil
	}

	match := &db.Match{
		UserLowID:         low,
		UserHighID:        high,
		MutualAdjective:   adjective,
		IceBreakingPrompt: adjectives.PromptFor(adjective),
	}
	created, err := s.matchRepo.CreateIfAbsent(ctx, match)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !created {
		// a concurrent reciprocal selection won the insert; reuse its row
		match, err = s.matchRepo.GetForPairAdjective(ctx, low, high, adjective)
		if err != nil {
			return nil, svcErr.Map(err)
		}
	}

	if err := s.selectionRepo.MarkMatched(ctx, viewerID, targetID); err != nil {
		return nil, svcErr.Map(err)
	}

	if created {
		for _, id := range []uint64{viewerID, targetID} {
			key := s.appCtx.RedisCache.KeyForMatchCount(id)
			_, _ = s.appCtx.RedisCache.Incr(ctx, key)
			_ = s.appCtx.RedisCache.Client.Expire(ctx, key, time.Hour).Err()
		}

		s.appCtx.Notifier.EmitToUser(targetID, "newMatch", map[string]any{
			"userId":            viewerID,
			"mutualAdjective":   match.MutualAdjective,
			"iceBreakingPrompt": match.IceBreakingPrompt,
		})
		s.appCtx.Logger.Info("match created", "low", low, "high", high, "adjective", adjective)
	}

	result.Matched = true
	result.Match = match
	return result, nil
}

// GetMatchState returns the latest match for the pair, or nil when the pair
// has never matched.
func (s *Service) GetMatchState(ctx context.Context, viewerID, targetID uint64) (*db.Match, error) {
	low, high := db.NormalizePair(viewerID, targetID)
	match, err := s.matchRepo.GetLatestForPair(ctx, low, high)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return match, nil
}

// ListMatches returns the user's matches, newest first, cursor-paginated.
func (s *Service) ListMatches(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
) ([]db.Match, *string, error) {
	matches, next, err := s.matchRepo.ListForUser(ctx, userID, paginationToken, matchPageSize)
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}
	return matches, next, nil
}

// CountMatches returns how many matches the user holds.
// Cache-first strategy:
//  1. Attempts to read from Redis (matches:count:userID).
//  2. On cache miss, falls back to the DB and updates Redis with a 1h TTL.
func (s *Service) CountMatches(ctx context.Context, userID uint64) (int64, error) {
	if n, ok, err := s.appCtx.RedisCache.GetMatchCount(ctx, userID); err == nil && ok {
		return n, nil
	}

	count, err := s.matchRepo.CountForUser(ctx, userID)
	if err != nil {
		return 0, svcErr.Map(err)
	}

	_ = s.appCtx.RedisCache.UpdateMatchCount(ctx, userID, count)
	return count, nil
}

// --- helpers ---

// getSelection loads a selection, treating not-found as nil. Other errors
// are logged and treated as nil; the caller's subsequent writes surface
// persistent failures.
func (s *Service) getSelection(ctx context.Context, viewerID, targetID uint64) *db.AdjectiveSelection {
	sel, err := s.selectionRepo.Get(ctx, viewerID, targetID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.appCtx.Logger.Error("selection lookup failed", "err", err)
		}
		return nil
	}
	return sel
}

// lookupSession resolves a token to its pinned adjective list, redis first,
// DB row as authority. Returns ok=false for unknown or expired tokens.
func (s *Service) lookupSession(ctx context.Context, viewerID, targetID uint64, token string) ([]string, bool) {
	key := s.appCtx.RedisCache.KeyForSession(viewerID, targetID, token)

	if cached, _ := s.appCtx.RedisCache.Get(ctx, key); cached != "" {
		var list []string
		if err := json.Unmarshal([]byte(cached), &list); err == nil {
			return list, true
		}
	}

	session, err := s.sessionRepo.GetValid(ctx, viewerID, targetID, token, time.Now())
	if err != nil {
		return nil, false
	}

	var list []string
	if err := json.Unmarshal([]byte(session.Adjectives), &list); err != nil {
		s.appCtx.Logger.Error("corrupt session payload", "token", token, "err", err)
		return nil, false
	}

	// backfill the hot copy for the remaining validity
	if ttl := time.Until(session.ExpiresAt); ttl > 0 {
		_ = s.appCtx.RedisCache.Set(ctx, key, session.Adjectives, ttl)
	}
	return list, true
}

func (s *Service) maybeSweepSessions(ctx context.Context) {
	if rand.Float64() >= sweepProbability {
		return
	}
	n, err := s.sessionRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.appCtx.Logger.Error("expired session sweep failed", "err", err)
		return
	}
	if n > 0 {
		s.appCtx.Logger.Debug("swept expired adjective sessions", "count", n)
	}
}

// drawRandom picks n distinct adjectives uniformly from pool, skipping the
// excluded one.
func drawRandom(pool []string, n int, exclude string) []string {
	candidates := make([]string, 0, len(pool))
	for _, a := range pool {
		if a != exclude {
			candidates = append(candidates, a)
		}
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

func (s *Service) mapUserErr(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound(notFoundMsg)
	}
	return svcErr.Map(err)
}
