package callbacks

import (
	"github.com/go-telegram/bot"
	"github.com/maxkhm/SageBot/internal/container"
	"github.com/maxkhm/SageBot/internal/telegram/callbacks/activate"
	"github.com/maxkhm/SageBot/internal/telegram/callbacks/help"
	myplan "github.com/maxkhm/SageBot/internal/telegram/callbacks/my_plan"
	"github.com/maxkhm/SageBot/internal/telegram/callbacks/start"
)

func LoadCallbacksHandlers(b *bot.Bot, c *container.AppContainer) {
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "start", bot.MatchTypeExact, start.Handler())
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "help", bot.MatchTypeExact, help.Handler())
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "my-plan", bot.MatchTypeExact, myplan.Handler(c))
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "activate", bot.MatchTypeExact, activate.Handler(c))
}
