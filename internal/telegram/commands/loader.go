package commands

import (
	"github.com/go-telegram/bot"
	"github.com/maxkhm/SageBot/internal/container"
	"github.com/maxkhm/SageBot/internal/telegram/commands/activate"
	"github.com/maxkhm/SageBot/internal/telegram/commands/admin"
	"github.com/maxkhm/SageBot/internal/telegram/commands/help"
	"github.com/maxkhm/SageBot/internal/telegram/commands/plan"
	"github.com/maxkhm/SageBot/internal/telegram/commands/start"
)

func LoadCommandHandlers(b *bot.Bot, c *container.AppContainer) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, start.Handler(c))
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, help.Handler())
	b.RegisterHandler(bot.HandlerTypeMessageText, "/plan", bot.MatchTypeExact, plan.Handler(c))
	b.RegisterHandler(bot.HandlerTypeMessageText, "/activate", bot.MatchTypePrefix, activate.Handler(c))
	b.RegisterHandler(bot.HandlerTypeMessageText, "/newcard", bot.MatchTypePrefix, admin.NewCardHandler(c))
}
