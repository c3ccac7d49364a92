package activate

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/maxkhm/SageBot/internal/container"
	dbmodels "github.com/maxkhm/SageBot/internal/database/models"
	"github.com/maxkhm/SageBot/internal/subscription"
	"github.com/maxkhm/SageBot/pkg/parser"
)

// Redeem burns an activation code for the user and renders the outcome
// message. Used by the /activate command and by the chat handler when the
// user replies to the "send me your code" prompt.
func Redeem(ctx context.Context, c *container.AppContainer, userID int64, code string) (string, *models.InlineKeyboardMarkup) {
	grant, err := c.Scheduler.RedeemCode(ctx, userID, code)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrCodeNotFound):
			text, button := parser.GetMessage("code_invalid", nil)
			return text, button
		case errors.Is(err, subscription.ErrPlanUnavailable),
			errors.Is(err, subscription.ErrInvalidDuration):
			text, button := parser.GetMessage("plan_unavailable", nil)
			return text, button
		default:
			log.Printf("Failed to redeem code for %d: %v", userID, err)
			text, button := parser.GetMessage("generic_error", nil)
			return text, button
		}
	}

	plan, err := c.PlanRepo.GetPlanByID(ctx, grant.PlanID)
	planName := "?"
	if err == nil {
		planName = plan.Name
	}

	if grant.Status == dbmodels.SubscriptionPending && grant.StartsAt != nil {
		text, button := parser.GetMessage("activate_queued", map[string]string{
			"planName": planName,
			"startsAt": grant.StartsAt.Format("02 Jan 2006 15:04 MST"),
		})
		return text, button
	}

	validUntil := "∞"
	if grant.ExpiresAt != nil {
		validUntil = grant.ExpiresAt.Format("02 Jan 2006 15:04 MST")
	}
	text, button := parser.GetMessage("activate_success", map[string]string{
		"planName":   planName,
		"validUntil": validUntil,
	})
	return text, button
}

func Handler(c *container.AppContainer) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		userID := update.Message.From.ID
		code := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/activate"))

		var text string
		var button *models.InlineKeyboardMarkup

		if code == "" {
			// No code given, remember that the next message is one.
			if err := c.SessionManager.SetAwaitCodeSession(ctx, userID); err != nil {
				log.Printf("Failed to open await-code session for %d: %v", userID, err)
			}
			text, button = parser.GetMessage("ask_code", nil)
		} else {
			text, button = Redeem(ctx, c, userID, code)
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
