package myplan

import (
	"context"
	"log"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/maxkhm/SageBot/internal/container"
	"github.com/maxkhm/SageBot/internal/telegram/commands/plan"
	"github.com/maxkhm/SageBot/pkg/parser"
)

func Handler(c *container.AppContainer) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		userID := update.CallbackQuery.From.ID

		text, button, err := plan.Summary(ctx, c, userID)
		if err != nil {
			log.Printf("Failed to build plan summary for %d: %v", userID, err)
			text, button = parser.GetMessage("generic_error", nil)
		}

		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      update.CallbackQuery.Message.Message.Chat.ID,
			MessageID:   update.CallbackQuery.Message.Message.ID,
			Text:        text,
			ReplyMarkup: button,
			ParseMode:   "HTML",
		})

		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
