// Package anthropic implements agent.Provider against the Anthropic
// Messages API over plain HTTP.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maxkhm/SageBot/internal/agent"
)

const (
	// APIBaseURL is the base URL for the Anthropic API
	APIBaseURL = "https://api.anthropic.com/v1/messages"

	// APIVersion is the Anthropic API version
	APIVersion = "2023-06-01"

	// DefaultModel is the default model to use
	DefaultModel = "claude-3-5-haiku-20241022"

	systemPrompt = "You are SageBot, a helpful Telegram assistant. Answer " +
		"concisely and use plain text suited for chat messages."
)

type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	MaxTokens      int
	MaxRetries     int
	RetryBaseDelay time.Duration
	RequestTimeout time.Duration
}

type Provider struct {
	config Config
	client *http.Client
}

func New(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = APIBaseURL
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryBaseDelay == 0 {
		config.RetryBaseDelay = 1 * time.Second
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 60 * time.Second
	}

	return &Provider{
		config: config,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}, nil
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) Reply(ctx context.Context, req agent.Request) (*agent.Reply, error) {
	startTime := time.Now()

	messages := make([]apiMessage, 0, len(req.History)+1)
	for _, turn := range req.History {
		messages = append(messages, apiMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, apiMessage{Role: "user", Content: req.Message})

	body, err := json.Marshal(apiRequest{
		Model:     p.config.Model,
		MaxTokens: p.config.MaxTokens,
		System:    systemPrompt,
		Messages:  messages,
	})
	if err != nil {
		return nil, agent.WrapError("build request", err)
	}

	resp, err := p.executeWithRetry(ctx, body)
	if err != nil {
		return nil, agent.WrapError("execute request", err)
	}

	if resp.Error != nil {
		return nil, agent.WrapError("api error", fmt.Errorf("%s: %s", resp.Error.Type, resp.Error.Message))
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, agent.WrapError("parse response", fmt.Errorf("empty completion"))
	}

	return &agent.Reply{
		Text: text,
		Usage: agent.UsageInfo{
			Model:        p.config.Model,
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			Duration:     time.Since(startTime),
		},
	}, nil
}

func (p *Provider) executeWithRetry(ctx context.Context, body []byte) (*apiResponse, error) {
	var lastErr error

	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.config.RetryBaseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", p.config.APIKey)
		req.Header.Set("anthropic-version", APIVersion)

		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		// Retry only on rate limiting and server-side failures.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, data)
			continue
		}

		var parsed apiResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if resp.StatusCode != http.StatusOK && parsed.Error == nil {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, data)
		}
		return &parsed, nil
	}

	return nil, fmt.Errorf("all %d attempts failed, last error: %w", p.config.MaxRetries, lastErr)
}
