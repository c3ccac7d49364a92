package container

import (
	"time"

	"github.com/maxkhm/SageBot/internal/agent"
	"github.com/maxkhm/SageBot/internal/cache"
	"github.com/maxkhm/SageBot/internal/database/repositories"
	"github.com/maxkhm/SageBot/internal/ratelimit"
	"github.com/maxkhm/SageBot/internal/subscription"
	"gorm.io/gorm"
)

type AppContainer struct {
	DB               *gorm.DB
	UserRepo         *repositories.UserRepository
	PlanRepo         *repositories.PlanRepository
	CardRepo         *repositories.CardRepository
	ConversationRepo *repositories.ConversationRepository

	Scheduler *subscription.Scheduler
	Limiter   *ratelimit.Limiter
	Agent     agent.Provider

	// ## CACHE ## \\
	SessionManager *cache.SessionManager
}

func NewAppContainer(db *gorm.DB, provider agent.Provider, defaultCardDuration time.Duration) *AppContainer {
	return &AppContainer{
		DB:               db,
		UserRepo:         repositories.NewUserRepository(db),
		PlanRepo:         repositories.NewPlanRepository(db),
		CardRepo:         repositories.NewCardRepository(db),
		ConversationRepo: repositories.NewConversationRepository(db),

		Scheduler: subscription.NewScheduler(db, defaultCardDuration),
		Limiter:   ratelimit.NewLimiter(db),
		Agent:     provider,

		SessionManager: cache.NewSessionManager(),
	}
}
