package plan

import (
	"context"
	"log"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/maxkhm/SageBot/internal/container"
	"github.com/maxkhm/SageBot/pkg/parser"
)

// Summary renders the current plan card for a user. Shared between the /plan
// command and the my-plan callback.
func Summary(ctx context.Context, c *container.AppContainer, userID int64) (string, *models.InlineKeyboardMarkup, error) {
	if _, err := c.Scheduler.EnsureDefault(ctx, userID); err != nil {
		return "", nil, err
	}

	grant, err := c.Scheduler.GetEffectiveGrant(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	used, err := c.Limiter.Usage(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	planName := "—"
	capacity := 0
	validUntil := "∞"

	if grant != nil {
		planName = grant.Plan.Name
		capacity = grant.Plan.HourlyMessageLimit
		if grant.ExpiresAt != nil {
			validUntil = grant.ExpiresAt.Format("02 Jan 2006 15:04 MST")
		}
	} else {
		defaultPlan, err := c.PlanRepo.GetDefaultPlan(ctx)
		if err != nil {
			return "", nil, err
		}
		planName = defaultPlan.Name
		capacity = defaultPlan.HourlyMessageLimit
	}

	text, button := parser.GetMessage("my_plan", map[string]string{
		"planName":   planName,
		"capacity":   strconv.Itoa(capacity),
		"used":       strconv.Itoa(used),
		"validUntil": validUntil,
	})
	return text, button, nil
}

func Handler(c *container.AppContainer) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		text, button, err := Summary(ctx, c, update.Message.From.ID)
		if err != nil {
			log.Printf("Failed to build plan summary for %d: %v", update.Message.From.ID, err)
			text, button = parser.GetMessage("generic_error", nil)
		}

		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      update.Message.Chat.ID,
			Text:        text,
			ReplyMarkup: button,
			ParseMode:   "HTML",
			ReplyParameters: &models.ReplyParameters{
				MessageID: update.Message.ID,
			},
		})
	}
}
