package connection

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kindredapp/kindred-backend/internal/app"
	"github.com/kindredapp/kindred-backend/internal/db"
	svcErr "github.com/kindredapp/kindred-backend/internal/errors"
	"github.com/kindredapp/kindred-backend/internal/repository"
)

// Push event names emitted to the counterpart user. Delivery is
// best-effort; failures never affect the transition.
const (
	eventRequested = "connectionRequested"
	eventAccepted  = "connectionAccepted"
	eventRejected  = "connectionRejected"
)

// Service implements the connection lifecycle:
//
//	none → requested → connected
//
// with a blocked side-branch reachable from any state and reversible only by
// unblock (which deletes the row, back to none). "Connect after match" is
// the shortcut that jumps straight to connected.
type Service struct {
	appCtx    *app.AppContext
	userRepo  *repository.UserRepository
	connRepo  *repository.ConnectionRepository
	matchRepo *repository.MatchRepository
}

// NewConnectionService creates a new connection service with dependencies
// from AppContext.
func NewConnectionService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		userRepo:  repository.NewUserRepository(appCtx.DB),
		connRepo:  repository.NewConnectionRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
	}
}

// ConnectAfterMatch formalizes an existing match directly into a connected
// pair, bypassing the request/accept handshake.
//
// Behavior:
//   - Requires a Match between the pair (not-found otherwise).
//   - Fails with precondition-failed when already connected.
//   - Writes the Connection row with status connected and stamps the match
//     rows connected as well.
func (s *Service) ConnectAfterMatch(ctx context.Context, viewerID, targetID uint64) (*db.Connection, error) {
	s.appCtx.Logger.Debug("ConnectAfterMatch called", "viewer", viewerID, "target", targetID)

	if viewerID == targetID {
		return nil, svcErr.Validation("cannot connect with yourself")
	}
	if _, _, err := s.userRepo.GetPair(ctx, viewerID, targetID); err != nil {
		return nil, s.mapUserErr(err)
	}

	low, high := db.NormalizePair(viewerID, targetID)

	if _, err := s.matchRepo.GetLatestForPair(ctx, low, high); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.NotFound("no match found between these users")
		}
		return nil, svcErr.Map(err)
	}

	if existing, err := s.connRepo.Get(ctx, low, high); err == nil {
		switch existing.Status {
		case db.ConnectionConnected:
			return nil, svcErr.PreconditionFailed("users are already connected")
		case db.ConnectionBlocked:
			return nil, svcErr.PreconditionFailed("connection is blocked")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Map(err)
	}

	conn := &db.Connection{
		UserLowID:   low,
		UserHighID:  high,
		Status:      db.ConnectionConnected,
		RequestedBy: viewerID,
	}
	if err := s.connRepo.Upsert(ctx, conn); err != nil {
		return nil, svcErr.Map(err)
	}
	if err := s.matchRepo.SetConnected(ctx, low, high, time.Now()); err != nil {
		return nil, svcErr.Map(err)
	}

	s.emit(targetID, eventAccepted, viewerID)
	s.appCtx.Logger.Info("pair connected after match", "low", low, "high", high)
	return conn, nil
}

// Manage applies a connection-management action on the pair.
// Actions: connect, accept, reject, remove, block, unblock.
// Returns the resulting row (nil when the pair fell back to "none") and a
// human-readable message.
func (s *Service) Manage(ctx context.Context, viewerID, targetID uint64, action string) (*db.Connection, string, error) {
	s.appCtx.Logger.Debug("Manage called", "viewer", viewerID, "target", targetID, "action", action)

	if viewerID == targetID {
		return nil, "", svcErr.Validation("cannot manage a connection with yourself")
	}
	if _, _, err := s.userRepo.GetPair(ctx, viewerID, targetID); err != nil {
		return nil, "", s.mapUserErr(err)
	}

	low, high := db.NormalizePair(viewerID, targetID)
	existing, err := s.connRepo.Get(ctx, low, high)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", svcErr.Map(err)
	}

	switch action {
	case "connect":
		return s.connect(ctx, existing, low, high, viewerID, targetID)
	case "accept":
		return s.accept(ctx, existing, low, high, viewerID, targetID)
	case "reject":
		return s.reject(ctx, existing, low, high, viewerID, targetID)
	case "remove":
		if existing == nil {
			return nil, "", svcErr.NotFound("no connection found between these users")
		}
		if err := s.connRepo.Delete(ctx, low, high); err != nil {
			return nil, "", svcErr.Map(err)
		}
		return nil, "connection removed", nil
	case "block":
		conn := &db.Connection{UserLowID: low, UserHighID: high, Status: db.ConnectionBlocked, RequestedBy: viewerID}
		if err := s.connRepo.Upsert(ctx, conn); err != nil {
			return nil, "", svcErr.Map(err)
		}
		return conn, "user blocked", nil
	case "unblock":
		if existing == nil || existing.Status != db.ConnectionBlocked {
			return nil, "", svcErr.NotFound("no blocked connection found")
		}
		if err := s.connRepo.Delete(ctx, low, high); err != nil {
			return nil, "", svcErr.Map(err)
		}
		return nil, "user unblocked", nil
	default:
		return nil, "", svcErr.Validation("unknown action: " + action)
	}
}

// State returns the pair's connection row, nil when the pair is in "none".
func (s *Service) State(ctx context.Context, viewerID, targetID uint64) (*db.Connection, error) {
	low, high := db.NormalizePair(viewerID, targetID)
	conn, err := s.connRepo.Get(ctx, low, high)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return conn, nil
}

func (s *Service) connect(ctx context.Context, existing *db.Connection, low, high, viewerID, targetID uint64) (*db.Connection, string, error) {
	if existing != nil {
		switch existing.Status {
		case db.ConnectionRequested:
			// idempotent no-op
			return existing, "connection already requested", nil
		case db.ConnectionConnected:
			return existing, "users are already connected", nil
		case db.ConnectionBlocked:
			return nil, "", svcErr.PreconditionFailed("connection is blocked")
		}
		// a rejected pair may be re-requested
	}

	conn := &db.Connection{UserLowID: low, UserHighID: high, Status: db.ConnectionRequested, RequestedBy: viewerID}
	if err := s.connRepo.Upsert(ctx, conn); err != nil {
		return nil, "", svcErr.Map(err)
	}

	s.emit(targetID, eventRequested, viewerID)
	return conn, "connection requested", nil
}

func (s *Service) accept(ctx context.Context, existing *db.Connection, low, high, viewerID, targetID uint64) (*db.Connection, string, error) {
	if existing == nil || existing.Status != db.ConnectionRequested {
		return nil, "", svcErr.NotFound("no pending connection request")
	}
	if existing.RequestedBy == viewerID {
		return nil, "", svcErr.PreconditionFailed("cannot accept your own request")
	}

	conn := &db.Connection{UserLowID: low, UserHighID: high, Status: db.ConnectionConnected, RequestedBy: existing.RequestedBy}
	if err := s.connRepo.Upsert(ctx, conn); err != nil {
		return nil, "", svcErr.Map(err)
	}
	// the general flow also runs without a match; stamping is best-effort
	if err := s.matchRepo.SetConnected(ctx, low, high, time.Now()); err != nil {
		s.appCtx.Logger.Error("failed to stamp match connected", "err", err)
	}

	s.emit(targetID, eventAccepted, viewerID)
	return conn, "connection accepted", nil
}

func (s *Service) reject(ctx context.Context, existing *db.Connection, low, high, viewerID, targetID uint64) (*db.Connection, string, error) {
	if existing == nil || existing.Status != db.ConnectionRequested {
		return nil, "", svcErr.NotFound("no pending connection request")
	}
	if existing.RequestedBy == viewerID {
		return nil, "", svcErr.PreconditionFailed("cannot reject your own request")
	}

	conn := &db.Connection{UserLowID: low, UserHighID: high, Status: db.ConnectionRejected, RequestedBy: existing.RequestedBy}
	if err := s.connRepo.Upsert(ctx, conn); err != nil {
		return nil, "", svcErr.Map(err)
	}

	s.emit(targetID, eventRejected, viewerID)
	return conn, "connection rejected", nil
}

// emit pushes an event to the counterpart, fire-and-forget.
func (s *Service) emit(userID uint64, event string, fromID uint64) {
	s.appCtx.Notifier.EmitToUser(userID, event, map[string]any{"userId": fromID})
}

func (s *Service) mapUserErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("user not found")
	}
	return svcErr.Map(err)
}
