package admin

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/maxkhm/SageBot/internal/container"
	"github.com/maxkhm/SageBot/pkg/config"
	"github.com/maxkhm/SageBot/pkg/parser"
)

// NewCardHandler mints an activation card from chat: /newcard PLANCODE [days].
// Owner only; everyone else is ignored.
func NewCardHandler(c *container.AppContainer) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message.From.ID != config.OwnerID {
			return
		}

		args := strings.Fields(update.Message.Text)
		if len(args) < 2 {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   "Usage: /newcard PLANCODE [days]",
			})
			return
		}

		planCode := strings.ToUpper(args[1])
		validDays := 0
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil || n < 0 {
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: update.Message.Chat.ID,
					Text:   "Days must be a non-negative number.",
				})
				return
			}
			validDays = n
		}

		plan, err := c.PlanRepo.GetPlanByCode(ctx, planCode)
		if err != nil || !plan.IsActive {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   "Unknown or retired plan: " + planCode,
			})
			return
		}

		card, err := c.CardRepo.CreateCard(ctx, plan.ID, validDays, nil)
		if err != nil {
			log.Printf("Failed to create card for plan %s: %v", planCode, err)
			text, _ := parser.GetMessage("generic_error", nil)
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    update.Message.Chat.ID,
				Text:      text,
				ParseMode: "HTML",
			})
			return
		}

		text, button := parser.GetMessage("card_created", map[string]string{
			"code":     card.Code,
			"planName": plan.Name,
		})
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      update.Message.Chat.ID,
			Text:        text,
			ReplyMarkup: button,
			ParseMode:   "HTML",
		})
	}
}
