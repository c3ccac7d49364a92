package middleware

import (
	"context"
	"log"

	"github.com/go-telegram/bot"
	tgbotModels "github.com/go-telegram/bot/models"
	"github.com/maxkhm/SageBot/internal/database/models"
	"github.com/maxkhm/SageBot/internal/database/repositories"
	"gorm.io/gorm"
)

func SaveUserMiddleware(db *gorm.DB) bot.Middleware {
	userRepo := repositories.NewUserRepository(db)

	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *tgbotModels.Update) {
			var from *tgbotModels.User

			if update.Message != nil && update.Message.From != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			} else if update.InlineQuery != nil && update.InlineQuery.From != nil {
				from = update.InlineQuery.From
			}

			if from != nil && from.ID != 0 {
				user := &models.User{
					UserId:       from.ID,
					FirstName:    from.FirstName,
					Username:     from.Username,
					LanguageCode: from.LanguageCode,
				}

				if err := userRepo.UpsertUser(ctx, user); err != nil {
					log.Printf("Failed to upsert user %d: %v", from.ID, err)
				}
			}

			next(ctx, b, update)
		}
	}
}
