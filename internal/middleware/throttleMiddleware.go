package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	tgbotModels "github.com/go-telegram/bot/models"
	"github.com/maxkhm/SageBot/pkg/parser"
)

// slidingWindow counts recent events per user and rejects bursts. State is
// in-process on purpose: losing it on restart only briefly relaxes the
// anti-flood guard, while the hourly quota stays in the database.
type slidingWindow struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	events map[int64][]time.Time
}

func newSlidingWindow(window time.Duration, max int) *slidingWindow {
	return &slidingWindow{
		window: window,
		max:    max,
		events: make(map[int64][]time.Time),
	}
}

func (w *slidingWindow) Allow(userID int64, now time.Time) bool {
	if w.max <= 0 {
		return true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	bucket := w.events[userID]
	kept := bucket[:0]
	for _, at := range bucket {
		if now.Sub(at) <= w.window {
			kept = append(kept, at)
		}
	}

	if len(kept) >= w.max {
		w.events[userID] = kept
		return false
	}

	w.events[userID] = append(kept, now)
	return true
}

// ThrottleMiddleware drops rapid-fire updates from a single user before they
// reach any handler.
func ThrottleMiddleware(window time.Duration, maxRequests int) bot.Middleware {
	limiter := newSlidingWindow(window, maxRequests)

	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *tgbotModels.Update) {
			msg := update.Message
			if msg == nil || msg.From == nil {
				next(ctx, b, update)
				return
			}

			if !limiter.Allow(msg.From.ID, time.Now()) {
				text, _ := parser.GetMessage("throttled", nil)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID:    msg.Chat.ID,
					Text:      text,
					ParseMode: "HTML",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
