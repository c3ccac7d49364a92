package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/maxkhm/SageBot/internal/api/auth"
	"github.com/maxkhm/SageBot/internal/api/handlers"
	"github.com/maxkhm/SageBot/internal/database/repositories"
	"github.com/maxkhm/SageBot/internal/subscription"
	"github.com/maxkhm/SageBot/pkg/config"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	planRepo := repositories.NewPlanRepository(db)
	cardRepo := repositories.NewCardRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)
	sched := subscription.NewScheduler(db, config.DefaultCardDuration)

	api := r.Group("/api")
	{
		api.GET("/ping", handlers.PingHandler(db))
		api.POST("/auth/token", handlers.GenerateJWTHandler())

		admin := api.Group("", auth.AuthMiddlewareJWT())
		{
			admin.GET("/plans", handlers.ListPlansHandler(planRepo))
			admin.POST("/cards", handlers.CreateCardsHandler(planRepo, cardRepo))
			admin.GET("/users/:id/subscription", handlers.UserSubscriptionHandler(sched, subRepo))
		}
	}
}
