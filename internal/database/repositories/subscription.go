package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/maxkhm/SageBot/internal/database/models"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetLiveGrants returns the user's grants in {active, pending} under lock,
// highest priority first. Must run inside the caller's transaction.
func (r *SubscriptionRepository) GetLiveGrants(tx *gorm.DB, userID int64) ([]*models.UserSubscription, error) {
	var grants []*models.UserSubscription
	err := forUpdate(tx).
		Where("user_id = ? AND status IN ?", userID, []string{models.SubscriptionActive, models.SubscriptionPending}).
		Order("priority DESC, starts_at ASC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// GetLiveGrantForPlan returns the user's active or pending grant for one
// plan, under lock. There is at most one by construction.
func (r *SubscriptionRepository) GetLiveGrantForPlan(tx *gorm.DB, userID int64, planID uint) (*models.UserSubscription, error) {
	var grant models.UserSubscription
	err := forUpdate(tx).
		Where("user_id = ? AND plan_id = ? AND status IN ?", userID, planID,
			[]string{models.SubscriptionActive, models.SubscriptionPending}).
		First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// GetEffectiveGrant returns the highest-priority active grant whose window
// covers now, ties broken by the latest expiry. Read-only, no lock.
func (r *SubscriptionRepository) GetEffectiveGrant(ctx context.Context, userID int64, now time.Time) (*models.UserSubscription, error) {
	var grant models.UserSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("priority DESC, expires_at DESC NULLS LAST").
		Preload("Plan").
		First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &grant, nil
}

// GetGrantHistory returns all of the user's grants, newest window first.
func (r *SubscriptionRepository) GetGrantHistory(ctx context.Context, userID int64) ([]models.UserSubscription, error) {
	var grants []models.UserSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Preload("Plan").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}
