package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/maxkhm/SageBot/internal/api/routes"
	"github.com/maxkhm/SageBot/pkg/config"
	"gorm.io/gorm"
)

func StartApi(db *gorm.DB) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(router, db)

	srv := &http.Server{
		Addr:    config.APIListenAddr,
		Handler: router,
	}

	go func() {
		log.Printf("Admin API listening on %s", config.APIListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down API...")

	return srv.Shutdown(context.Background())
}
