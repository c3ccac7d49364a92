// Package ratelimit tracks per-user message counters bucketed by clock hour.
// The limit itself comes from the user's effective subscription plan.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maxkhm/SageBot/internal/database/models"
	"gorm.io/gorm"
)

var ErrLimitExceeded = errors.New("hourly message limit reached")

type Limiter struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLimiter(db *gorm.DB) *Limiter {
	return &Limiter{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Increment charges the current hour window and fails with ErrLimitExceeded
// when the charge would push the counter past hourlyLimit. The check and the
// update run in one transaction.
func (l *Limiter) Increment(ctx context.Context, userID int64, hourlyLimit, messages, toolCalls int) (*models.UsageHourlyQuota, error) {
	var quota *models.UsageHourlyQuota
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := l.now()
		windowStart := now.Truncate(time.Hour)

		var row models.UsageHourlyQuota
		err := tx.Where("user_id = ? AND window_start = ?", userID, windowStart).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.UsageHourlyQuota{
				ID:          uuid.NewString(),
				UserID:      userID,
				WindowStart: windowStart,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if row.MessageCount+messages > hourlyLimit {
			return fmt.Errorf("%w: %d/%d", ErrLimitExceeded, row.MessageCount, hourlyLimit)
		}

		row.MessageCount += messages
		row.ToolCallCount += toolCalls
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		quota = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quota, nil
}

// Usage reports the consumed message count for the current hour window.
func (l *Limiter) Usage(ctx context.Context, userID int64) (int, error) {
	windowStart := l.now().Truncate(time.Hour)

	var row models.UsageHourlyQuota
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND window_start = ?", userID, windowStart).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.MessageCount, nil
}
