package connection_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kindredapp/kindred-backend/internal/app"
	"github.com/kindredapp/kindred-backend/internal/cache"
	"github.com/kindredapp/kindred-backend/internal/config"
	"github.com/kindredapp/kindred-backend/internal/db"
	svcErr "github.com/kindredapp/kindred-backend/internal/errors"
	"github.com/kindredapp/kindred-backend/internal/repository"
	"github.com/kindredapp/kindred-backend/internal/service/connection"
)

type pushRecorder struct {
	events []pushEvent
}

type pushEvent struct {
	UserID uint64
	Event  string
}

func (r *pushRecorder) EmitToUser(userID uint64, event string, _ any) bool {
	r.events = append(r.events, pushEvent{UserID: userID, Event: event})
	return true
}

func (r *pushRecorder) IsUserOnline(uint64) bool { return true }

type fixture struct {
	svc      *connection.Service
	dbase    *gorm.DB
	recorder *pushRecorder
}

func setupService(t *testing.T) *fixture {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))
	require.NoError(t, db.SeedMinimalTestData(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	recorder := &pushRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(dbase, cache.NewRedisCache(cfg), recorder, logger)

	return &fixture{
		svc:      connection.NewConnectionService(appCtx),
		dbase:    dbase,
		recorder: recorder,
	}
}

// seedMatch places a match row between the pair so connect-after-match has
// something to formalize.
func seedMatch(t *testing.T, dbase *gorm.DB, a, b uint64) {
	t.Helper()
	low, high := db.NormalizePair(a, b)
	repo := repository.NewMatchRepository(dbase)
	_, err := repo.CreateIfAbsent(context.Background(), &db.Match{
		UserLowID: low, UserHighID: high, MutualAdjective: "Kind", IceBreakingPrompt: "p",
	})
	require.NoError(t, err)
}

func TestConnectAfterMatch(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	seedMatch(t, f.dbase, 1, 2)

	conn, err := f.svc.ConnectAfterMatch(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, db.ConnectionConnected, conn.Status)

	// match rows are stamped connected
	match, err := repository.NewMatchRepository(f.dbase).GetLatestForPair(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, match.IsConnected)

	// counterpart was notified
	require.NotEmpty(t, f.recorder.events)
	assert.Equal(t, pushEvent{UserID: 2, Event: "connectionAccepted"}, f.recorder.events[0])
}

func TestConnectAfterMatchRequiresMatch(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.ConnectAfterMatch(ctx, 1, 2)
	require.Error(t, err)
	assert.Equal(t, 404, svcErr.Status(err))
}

func TestConnectAfterMatchAlreadyConnected(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	seedMatch(t, f.dbase, 1, 2)

	_, err := f.svc.ConnectAfterMatch(ctx, 1, 2)
	require.NoError(t, err)

	_, err = f.svc.ConnectAfterMatch(ctx, 2, 1)
	require.Error(t, err)
	assert.Equal(t, 400, svcErr.Status(err))
	assert.Contains(t, err.Error(), "already connected")
}

// TestRequestAcceptFlow walks the handshake: connect creates a request, the
// counterpart accepts, the pair ends up connected.
func TestRequestAcceptFlow(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	conn, msg, err := f.svc.Manage(ctx, 1, 2, "connect")
	require.NoError(t, err)
	assert.Equal(t, db.ConnectionRequested, conn.Status)
	assert.Equal(t, "connection requested", msg)

	// idempotent no-op on repeat
	conn, msg, err = f.svc.Manage(ctx, 1, 2, "connect")
	require.NoError(t, err)
	assert.Equal(t, db.ConnectionRequested, conn.Status)
	assert.Equal(t, "connection already requested", msg)

	// requester cannot accept their own request
	_, _, err = f.svc.Manage(ctx, 1, 2, "accept")
	require.Error(t, err)
	assert.Equal(t, 400, svcErr.Status(err))

	conn, _, err = f.svc.Manage(ctx, 2, 1, "accept")
	require.NoError(t, err)
	assert.Equal(t, db.ConnectionConnected, conn.Status)

	assert.Equal(t, []pushEvent{
		{UserID: 2, Event: "connectionRequested"},
		{UserID: 1, Event: "connectionAccepted"},
	}, f.recorder.events)
}

func TestRejectIsTerminalForRequest(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, _, err := f.svc.Manage(ctx, 1, 2, "connect")
	require.NoError(t, err)

	conn, _, err := f.svc.Manage(ctx, 2, 1, "reject")
	require.NoError(t, err)
	assert.Equal(t, db.ConnectionRejected, conn.Status)

	// accept after reject finds no pending request
	_, _, err = f.svc.Manage(ctx, 2, 1, "accept")
	require.Error(t, err)
	assert.Equal(t, 404, svcErr.Status(err))

	// but the pair may be re-requested later
	conn, _, err = f.svc.Manage(ctx, 1, 2, "connect")
	require.NoError(t, err)
	assert.Equal(t, db.ConnectionRequested, conn.Status)
}

// TestBlockUnblockReturnsToNone covers the blocked side-branch: unblock
// deletes the row and the pair reads back as state "none".
func TestBlockUnblockReturnsToNone(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	conn, _, err := f.svc.Manage(ctx, 1, 2, "block")
	require.NoError(t, err)
	assert.Equal(t, db.ConnectionBlocked, conn.Status)

	// blocked pairs cannot be requested
	_, _, err = f.svc.Manage(ctx, 2, 1, "connect")
	require.Error(t, err)
	assert.Equal(t, 400, svcErr.Status(err))

	result, _, err := f.svc.Manage(ctx, 1, 2, "unblock")
	require.NoError(t, err)
	assert.Nil(t, result)

	state, err := f.svc.State(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, state)

	// block and unblock never push
	assert.Empty(t, f.recorder.events)
}

func TestRemoveConnection(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	seedMatch(t, f.dbase, 1, 2)

	_, err := f.svc.ConnectAfterMatch(ctx, 1, 2)
	require.NoError(t, err)

	result, msg, err := f.svc.Manage(ctx, 1, 2, "remove")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "connection removed", msg)

	_, _, err = f.svc.Manage(ctx, 1, 2, "remove")
	require.Error(t, err)
	assert.Equal(t, 404, svcErr.Status(err))
}

func TestManageRejectsUnknownAction(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, _, err := f.svc.Manage(ctx, 1, 2, "poke")
	require.Error(t, err)
	assert.Equal(t, 400, svcErr.Status(err))
}

func TestManageUnknownUser(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, _, err := f.svc.Manage(ctx, 1, 99, "connect")
	require.Error(t, err)
	assert.Equal(t, 404, svcErr.Status(err))
}
