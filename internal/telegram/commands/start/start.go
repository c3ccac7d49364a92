package start

import (
	"context"
	"log"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/maxkhm/SageBot/internal/container"
	"github.com/maxkhm/SageBot/internal/utils"
	"github.com/maxkhm/SageBot/pkg/parser"
)

func Handler(c *container.AppContainer) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		// Every user gets the default tier on first contact.
		if _, err := c.Scheduler.EnsureDefault(ctx, update.Message.From.ID); err != nil {
			log.Printf("Failed to ensure default plan for %d: %v", update.Message.From.ID, err)
		}

		text, button := parser.GetMessage("start", map[string]string{
			"firstName": utils.RemoveHTMLTags(update.Message.From.FirstName),
		})

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
