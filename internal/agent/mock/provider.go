// Package mock provides a canned agent.Provider for tests and for running
// the bot without an API key.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/maxkhm/SageBot/internal/agent"
)

type Provider struct {
	// FixedReply overrides the default echo behaviour when set.
	FixedReply string

	// Err is returned by every call when set.
	Err error

	// Calls records the requests received, in order.
	Calls []agent.Request
}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Reply(ctx context.Context, req agent.Request) (*agent.Reply, error) {
	p.Calls = append(p.Calls, req)

	if p.Err != nil {
		return nil, p.Err
	}

	text := p.FixedReply
	if text == "" {
		text = fmt.Sprintf("You said: %s", req.Message)
	}

	return &agent.Reply{
		Text: text,
		Usage: agent.UsageInfo{
			Model:        "mock",
			InputTokens:  len(req.Message),
			OutputTokens: len(text),
			Duration:     time.Millisecond,
		},
	}, nil
}
