package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/maxkhm/SageBot/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestLimiter(t *testing.T) (*Limiter, *time.Time) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	clock := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	l := NewLimiter(db)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestIncrement_CountsWithinWindow(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		quota, err := l.Increment(ctx, 100, 3, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, i, quota.MessageCount)
	}

	_, err := l.Increment(ctx, 100, 3, 1, 0)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	used, err := l.Usage(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, used)
}

func TestIncrement_NewWindowResetsCounter(t *testing.T) {
	l, clock := newTestLimiter(t)
	ctx := context.Background()

	_, err := l.Increment(ctx, 100, 1, 1, 0)
	require.NoError(t, err)
	_, err = l.Increment(ctx, 100, 1, 1, 0)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	*clock = clock.Add(time.Hour)

	quota, err := l.Increment(ctx, 100, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, quota.MessageCount)
}

func TestIncrement_UsersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()

	_, err := l.Increment(ctx, 100, 1, 1, 0)
	require.NoError(t, err)

	quota, err := l.Increment(ctx, 200, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, quota.MessageCount)
}

func TestIncrement_TracksToolCalls(t *testing.T) {
	l, _ := newTestLimiter(t)

	quota, err := l.Increment(context.Background(), 100, 10, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, quota.MessageCount)
	assert.Equal(t, 2, quota.ToolCallCount)
}
