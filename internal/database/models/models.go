package models

import "time"

type User struct {
	UserId       int64     `gorm:"primaryKey" json:"id"` // Telegram ID
	FirstName    string    `json:"firstName"`
	Username     string    `json:"username"`
	LanguageCode string    `json:"languageCode"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// One rolling conversation per user; history is the raw turn list handed
// back to the agent as context.
type Conversation struct {
	ID                string     `gorm:"type:text;primaryKey" json:"id"`
	UserID            int64      `gorm:"index" json:"userId"`
	History           string     `json:"history"` // JSON array of {role, content}
	TokenEstimate     int        `json:"tokenEstimate"`
	MessageCount      int        `json:"messageCount"`
	LastInteractionAt *time.Time `json:"lastInteractionAt,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Per-user message counters bucketed by clock hour.
type UsageHourlyQuota struct {
	ID            string    `gorm:"type:text;primaryKey" json:"id"`
	UserID        int64     `gorm:"uniqueIndex:uq_quota_user_window" json:"userId"`
	WindowStart   time.Time `gorm:"uniqueIndex:uq_quota_user_window" json:"windowStart"`
	MessageCount  int       `gorm:"default:0" json:"messageCount"`
	ToolCallCount int       `gorm:"default:0" json:"toolCallCount"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
