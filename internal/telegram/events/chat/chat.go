package chat

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/maxkhm/SageBot/internal/agent"
	"github.com/maxkhm/SageBot/internal/container"
	"github.com/maxkhm/SageBot/internal/database/repositories"
	"github.com/maxkhm/SageBot/internal/ratelimit"
	"github.com/maxkhm/SageBot/internal/telegram/commands/activate"
	"github.com/maxkhm/SageBot/internal/utils"
	"github.com/maxkhm/SageBot/pkg/parser"
)

// maxHistoryTokens caps how much rolling conversation history is replayed to
// the model on each turn.
const maxHistoryTokens = 4000

// Handler is the default handler: every plain text message that is not a
// command becomes an assistant turn.
func Handler(c *container.AppContainer) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil || msg.From == nil || msg.Text == "" || strings.HasPrefix(msg.Text, "/") {
			return
		}
		userID := msg.From.ID

		// An open /activate session means this message is a code, not a
		// question for the assistant.
		awaiting, err := c.SessionManager.HasAwaitCodeSession(ctx, userID)
		if err != nil {
			log.Printf("Failed to check await-code session for %d: %v", userID, err)
		}
		if awaiting {
			c.SessionManager.DeleteAwaitCodeSession(ctx, userID)
			text, button := activate.Redeem(ctx, c, userID, strings.TrimSpace(msg.Text))
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:      msg.Chat.ID,
				Text:        text,
				ReplyMarkup: button,
				ParseMode:   "HTML",
			})
			return
		}

		if _, err := c.Scheduler.EnsureDefault(ctx, userID); err != nil {
			log.Printf("Failed to ensure default plan for %d: %v", userID, err)
			sendTemplate(ctx, b, msg.Chat.ID, "generic_error", nil)
			return
		}

		capacity, err := c.Scheduler.GetEffectiveCapacity(ctx, userID)
		if err != nil {
			log.Printf("Failed to resolve capacity for %d: %v", userID, err)
			sendTemplate(ctx, b, msg.Chat.ID, "generic_error", nil)
			return
		}

		if _, err := c.Limiter.Increment(ctx, userID, capacity, 1, 0); err != nil {
			if errors.Is(err, ratelimit.ErrLimitExceeded) {
				sendTemplate(ctx, b, msg.Chat.ID, "limit_exceeded", map[string]string{
					"capacity": strconv.Itoa(capacity),
				})
				return
			}
			log.Printf("Failed to count usage for %d: %v", userID, err)
			sendTemplate(ctx, b, msg.Chat.ID, "generic_error", nil)
			return
		}

		conv, err := c.ConversationRepo.GetOrCreate(ctx, userID)
		if err != nil {
			log.Printf("Failed to load conversation for %d: %v", userID, err)
			sendTemplate(ctx, b, msg.Chat.ID, "generic_error", nil)
			return
		}
		turns, err := c.ConversationRepo.Turns(conv)
		if err != nil {
			log.Printf("Failed to decode conversation history for %d: %v", userID, err)
			turns = nil
		}

		history := make([]agent.Turn, 0, len(turns))
		for _, t := range turns {
			history = append(history, agent.Turn{Role: t.Role, Content: t.Content})
		}

		b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: msg.Chat.ID,
			Action: models.ChatActionTyping,
		})

		reply, err := c.Agent.Reply(ctx, agent.Request{
			UserID:  userID,
			Message: msg.Text,
			History: history,
		})
		if err != nil {
			log.Printf("Agent reply failed for %d: %v", userID, err)
			sendTemplate(ctx, b, msg.Chat.ID, "generic_error", nil)
			return
		}

		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   reply.Text,
			ReplyParameters: &models.ReplyParameters{
				MessageID: msg.ID,
			},
		})

		err = c.ConversationRepo.AppendTurns(ctx, conv, []repositories.Turn{
			{Role: "user", Content: msg.Text},
			{Role: "assistant", Content: reply.Text},
		}, utils.EstimateTokens, maxHistoryTokens)
		if err != nil {
			log.Printf("Failed to persist conversation for %d: %v", userID, err)
		}
	}
}

func sendTemplate(ctx context.Context, b *bot.Bot, chatID int64, key string, params map[string]string) {
	text, button := parser.GetMessage(key, params)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: button,
		ParseMode:   "HTML",
	})
}
