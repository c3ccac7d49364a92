package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionManager keeps short-lived conversational state that must survive
// between updates, like "/activate was sent without a code and the next
// message should be treated as one".
type SessionManager struct{}

func NewSessionManager() *SessionManager {
	GetRedisClient()
	return &SessionManager{}
}

const awaitCodeTTL = 5 * time.Minute

func awaitCodeKey(userID int64) string {
	return fmt.Sprintf("await_code:%d", userID)
}

func (sm *SessionManager) SetAwaitCodeSession(ctx context.Context, userID int64) error {
	client := GetRedisClient()
	return client.Set(ctx, awaitCodeKey(userID), 1, awaitCodeTTL).Err()
}

func (sm *SessionManager) HasAwaitCodeSession(ctx context.Context, userID int64) (bool, error) {
	client := GetRedisClient()
	_, err := client.Get(ctx, awaitCodeKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}
	return true, nil
}

func (sm *SessionManager) DeleteAwaitCodeSession(ctx context.Context, userID int64) error {
	client := GetRedisClient()
	return client.Del(ctx, awaitCodeKey(userID)).Err()
}
