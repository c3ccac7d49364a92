package main

import (
	"log"

	"github.com/maxkhm/SageBot/internal/api"
	"github.com/maxkhm/SageBot/internal/database"
	"github.com/maxkhm/SageBot/internal/telegram"
	"github.com/maxkhm/SageBot/pkg/config"
)

// Send any text message to the bot after the bot has been started

func main() {
	db := database.InitDB(config.DatabaseURL)

	go func() {
		if err := api.StartApi(db); err != nil {
			log.Printf("API stopped: %v", err)
		}
	}()

	if err := telegram.StartBot(db); err != nil {
		log.Fatal(err)
	}
}
