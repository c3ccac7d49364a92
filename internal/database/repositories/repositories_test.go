package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/maxkhm/SageBot/internal/database"
	"github.com/maxkhm/SageBot/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func TestConsumeCard_BurnsCardOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewCardRepository(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	card := &models.SubscriptionCard{
		ID:     uuid.NewString(),
		Code:   "SAGE-TEST-0001",
		PlanID: 1,
		Status: models.CardNew,
	}
	require.NoError(t, db.Create(card).Error)

	got, err := repo.ConsumeCard(db, "SAGE-TEST-0001", 100, now)
	require.NoError(t, err)
	assert.Equal(t, models.CardRedeemed, got.Status)
	require.NotNil(t, got.RedeemedByUserID)
	assert.Equal(t, int64(100), *got.RedeemedByUserID)

	_, err = repo.ConsumeCard(db, "SAGE-TEST-0001", 200, now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestConsumeCard_RejectsExpiredCard(t *testing.T) {
	db := newTestDB(t)
	repo := NewCardRepository(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expired := now.Add(-time.Hour)
	card := &models.SubscriptionCard{
		ID:        uuid.NewString(),
		Code:      "SAGE-TEST-0002",
		PlanID:    1,
		Status:    models.CardNew,
		ExpiresAt: &expired,
	}
	require.NoError(t, db.Create(card).Error)

	_, err := repo.ConsumeCard(db, "SAGE-TEST-0002", 100, now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateCard_GeneratesUniqueCodes(t *testing.T) {
	db := newTestDB(t)
	repo := NewCardRepository(db)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		card, err := repo.CreateCard(ctx, 1, 30, nil)
		require.NoError(t, err)
		assert.Regexp(t, `^SAGE-[0-9A-F]{4}-[0-9A-F]{4}$`, card.Code)
		assert.False(t, seen[card.Code], "duplicate code %s", card.Code)
		seen[card.Code] = true
	}
}

func TestConversation_AppendTrimsOldestTurns(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	conv, err := repo.GetOrCreate(ctx, 100)
	require.NoError(t, err)

	// Again for the same user returns the same row.
	again, err := repo.GetOrCreate(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	tokensOf := func(s string) int { return len(s) }

	err = repo.AppendTurns(ctx, conv, []Turn{
		{Role: "user", Content: "aaaa"},
		{Role: "assistant", Content: "bbbb"},
		{Role: "user", Content: "cccc"},
	}, tokensOf, 8)
	require.NoError(t, err)

	turns, err := repo.Turns(conv)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "bbbb", turns[0].Content)
	assert.Equal(t, "cccc", turns[1].Content)
	assert.Equal(t, 8, conv.TokenEstimate)
	assert.Equal(t, 2, conv.MessageCount)
	require.NotNil(t, conv.LastInteractionAt)
}

func TestUpsertUser_UpdatesExistingRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertUser(ctx, &models.User{UserId: 100, FirstName: "Ada"}))
	require.NoError(t, repo.UpsertUser(ctx, &models.User{UserId: 100, FirstName: "Ada", Username: "ada_l"}))

	got, err := repo.GetUserById(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "ada_l", got.Username)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
