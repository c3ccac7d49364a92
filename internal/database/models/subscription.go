package models

import "time"

// Subscription plans (reference data, seeded on startup)
type SubscriptionPlan struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Code               string    `gorm:"uniqueIndex" json:"code"` // Ex: "FREE", "PLUS"
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	HourlyMessageLimit int       `json:"hourlyMessageLimit"`
	Priority           int       `json:"priority"` // higher wins
	MonthlyPrice       float64   `json:"monthlyPrice"`
	IsDefault          bool      `gorm:"default:false" json:"isDefault"`
	IsActive           bool      `gorm:"default:true" json:"isActive"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// One-time activation cards
type SubscriptionCard struct {
	ID               string           `gorm:"type:text;primaryKey" json:"id"`
	Code             string           `gorm:"uniqueIndex" json:"code"` // Ex: SAGE-XXXX-YYYY
	PlanID           uint             `json:"planId"`
	Status           string           `json:"status"`    // new, redeemed, expired, disabled
	ValidDays        int              `json:"validDays"` // 0 = use the configured default duration
	ExpiresAt        *time.Time       `json:"expiresAt,omitempty"`
	RedeemedByUserID *int64           `json:"redeemedByUserId,omitempty"`
	RedeemedAt       *time.Time       `json:"redeemedAt,omitempty"`
	Plan             SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// A user's grant on a plan. Priority is copied from the plan when the grant
// is written so later plan edits never reorder existing grants.
type UserSubscription struct {
	ID           string           `gorm:"type:text;primaryKey" json:"id"`
	UserID       int64            `gorm:"index" json:"userId"`
	PlanID       uint             `json:"planId"`
	SourceCardID *string          `json:"sourceCardId,omitempty"`
	Status       string           `json:"status"` // active, pending, cancelled, expired
	Priority     int              `json:"priority"`
	ActivatedAt  *time.Time       `json:"activatedAt,omitempty"`
	StartsAt     *time.Time       `json:"startsAt,omitempty"`
	ExpiresAt    *time.Time       `json:"expiresAt,omitempty"` // nil = never, default tier only
	CancelledAt  *time.Time       `json:"cancelledAt,omitempty"`
	Plan         SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

const (
	SubscriptionActive    = "active"
	SubscriptionPending   = "pending"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"

	CardNew      = "new"
	CardRedeemed = "redeemed"
	CardExpired  = "expired"
	CardDisabled = "disabled"
)
