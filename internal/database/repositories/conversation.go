package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maxkhm/SageBot/internal/database/models"
	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

func (r *ConversationRepository) GetOrCreate(ctx context.Context, userID int64) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).First(&conv, "user_id = ?", userID).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = models.Conversation{
		ID:      uuid.NewString(),
		UserID:  userID,
		History: "[]",
	}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepository) Turns(conv *models.Conversation) ([]Turn, error) {
	var turns []Turn
	if conv.History == "" {
		return turns, nil
	}
	if err := json.Unmarshal([]byte(conv.History), &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// AppendTurns adds turns to the rolling history, dropping the oldest ones
// once the token estimate crosses maxTokens.
func (r *ConversationRepository) AppendTurns(ctx context.Context, conv *models.Conversation, added []Turn, tokensOf func(string) int, maxTokens int) error {
	turns, err := r.Turns(conv)
	if err != nil {
		return err
	}
	turns = append(turns, added...)

	total := 0
	for _, t := range turns {
		total += tokensOf(t.Content)
	}
	for len(turns) > 0 && total > maxTokens {
		total -= tokensOf(turns[0].Content)
		turns = turns[1:]
	}

	data, err := json.Marshal(turns)
	if err != nil {
		return err
	}

	now := time.Now()
	conv.History = string(data)
	conv.TokenEstimate = total
	conv.MessageCount = len(turns)
	conv.LastInteractionAt = &now
	return r.db.WithContext(ctx).Save(conv).Error
}
