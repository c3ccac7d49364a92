package agent

import (
	"context"
	"fmt"
	"time"
)

// Provider is the narrow seam between the bot and whichever chat model backs
// it. Conversation context travels with every request; the provider holds no
// per-user state.
type Provider interface {
	Reply(ctx context.Context, req Request) (*Reply, error)
}

// Turn is one utterance in a conversation.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request carries the new message plus the rolling history.
type Request struct {
	UserID  int64
	Message string
	History []Turn
}

// Reply is the model's answer with usage accounting for logging.
type Reply struct {
	Text  string
	Usage UsageInfo
}

// UsageInfo tracks token consumption per request.
type UsageInfo struct {
	Model        string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// WrapError adds operation context to provider errors.
func WrapError(op string, err error) error {
	return fmt.Errorf("agent: %s: %w", op, err)
}
