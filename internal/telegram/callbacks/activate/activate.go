package activate

import (
	"context"
	"log"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/maxkhm/SageBot/internal/container"
	"github.com/maxkhm/SageBot/pkg/parser"
)

func Handler(c *container.AppContainer) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		userID := update.CallbackQuery.From.ID

		if err := c.SessionManager.SetAwaitCodeSession(ctx, userID); err != nil {
			log.Printf("Failed to open await-code session for %d: %v", userID, err)
		}

		text, _ := parser.GetMessage("ask_code", nil)

		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    update.CallbackQuery.Message.Message.Chat.ID,
			Text:      text,
			ParseMode: "HTML",
		})

		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
