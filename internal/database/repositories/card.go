package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maxkhm/SageBot/internal/database/models"
	"gorm.io/gorm"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// ConsumeCard marks an unredeemed, unexpired card as redeemed by the given
// user. The row is selected under lock so two concurrent redemptions of the
// same code cannot both succeed. Must run inside the caller's transaction.
func (r *CardRepository) ConsumeCard(tx *gorm.DB, code string, userID int64, now time.Time) (*models.SubscriptionCard, error) {
	var card models.SubscriptionCard
	err := forUpdate(tx).
		Where("code = ? AND status = ?", code, models.CardNew).
		Where("expires_at IS NULL OR expires_at > ?", now).
		First(&card).Error
	if err != nil {
		return nil, err
	}

	card.Status = models.CardRedeemed
	card.RedeemedByUserID = &userID
	card.RedeemedAt = &now
	if err := tx.Save(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) CreateCard(ctx context.Context, planID uint, validDays int, expiresAt *time.Time) (*models.SubscriptionCard, error) {
	card := models.SubscriptionCard{
		ID:        uuid.NewString(),
		Code:      newCardCode(),
		PlanID:    planID,
		Status:    models.CardNew,
		ValidDays: validDays,
		ExpiresAt: expiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) GetCardByCode(ctx context.Context, code string) (*models.SubscriptionCard, error) {
	var card models.SubscriptionCard
	err := r.db.WithContext(ctx).Preload("Plan").First(&card, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func newCardCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("SAGE-%s-%s", raw[:4], raw[4:8])
}
