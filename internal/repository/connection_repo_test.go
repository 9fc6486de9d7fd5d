package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kindredapp/kindred-backend/internal/db"
	"github.com/kindredapp/kindred-backend/internal/repository"
)

func TestConnectionUpsertTransitions(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewConnectionRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, &db.Connection{
		UserLowID: 1, UserHighID: 2, Status: db.ConnectionRequested, RequestedBy: 1,
	}))

	conn, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, db.ConnectionRequested, conn.Status)

	// status transition overwrites the same row
	require.NoError(t, repo.Upsert(ctx, &db.Connection{
		UserLowID: 1, UserHighID: 2, Status: db.ConnectionConnected, RequestedBy: 1,
	}))

	conn, err = repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, db.ConnectionConnected, conn.Status)

	var count int64
	dbase.Model(&db.Connection{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestConnectionDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewConnectionRepository(setupTestDB(t))

	require.NoError(t, repo.Upsert(ctx, &db.Connection{
		UserLowID: 1, UserHighID: 2, Status: db.ConnectionBlocked, RequestedBy: 2,
	}))
	require.NoError(t, repo.Delete(ctx, 1, 2))

	_, err := repo.Get(ctx, 1, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestConnectionIsConnected(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewConnectionRepository(setupTestDB(t))

	connected, err := repo.IsConnected(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, connected)

	require.NoError(t, repo.Upsert(ctx, &db.Connection{
		UserLowID: 1, UserHighID: 2, Status: db.ConnectionConnected, RequestedBy: 1,
	}))

	// argument order must not matter
	connected, err = repo.IsConnected(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, connected)

	require.NoError(t, repo.Upsert(ctx, &db.Connection{
		UserLowID: 1, UserHighID: 2, Status: db.ConnectionBlocked, RequestedBy: 1,
	}))

	connected, err = repo.IsConnected(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, connected)
}
