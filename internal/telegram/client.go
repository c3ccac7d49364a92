package telegram

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/go-telegram/bot"
	"github.com/maxkhm/SageBot/internal/agent"
	"github.com/maxkhm/SageBot/internal/agent/anthropic"
	"github.com/maxkhm/SageBot/internal/agent/mock"
	"github.com/maxkhm/SageBot/internal/cache"
	"github.com/maxkhm/SageBot/internal/container"
	"github.com/maxkhm/SageBot/internal/middleware"
	"github.com/maxkhm/SageBot/internal/telegram/callbacks"
	"github.com/maxkhm/SageBot/internal/telegram/commands"
	"github.com/maxkhm/SageBot/internal/telegram/events/chat"
	"github.com/maxkhm/SageBot/pkg/config"
	"gorm.io/gorm"
)

func StartBot(db *gorm.DB) error {
	cache.GetRedisClient()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var provider agent.Provider
	if config.AgentAPIKey == "" {
		// No key configured; echo replies so the rest of the bot stays usable.
		log.Println("AGENT_API_KEY not set, using the mock agent")
		provider = mock.New()
	} else {
		p, err := anthropic.New(anthropic.Config{
			APIKey: config.AgentAPIKey,
			Model:  config.AgentModel,
		})
		if err != nil {
			return err
		}
		provider = p
	}
	app := container.NewAppContainer(db, provider, config.DefaultCardDuration)

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.SaveUserMiddleware(db),
			middleware.ThrottleMiddleware(config.ThrottleWindow, config.ThrottleMaxRequests),
		),
		bot.WithDefaultHandler(chat.Handler(app)),
	}

	b, err := bot.New(config.TelegramBotToken, opts...)
	if err != nil {
		return err
	}

	commands.LoadCommandHandlers(b, app)
	callbacks.LoadCallbacksHandlers(b, app)

	log.Println("Bot started...")

	go func() {
		<-ctx.Done()
		log.Println("Shutting down gracefully...")
		if err := cache.CloseRedis(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}()

	b.Start(ctx)
	return nil
}
