package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	TelegramBotToken string
	DatabaseURL      string
	RedisAddr        string
	OwnerID          int64

	AgentAPIKey string
	AgentModel  string

	APISecret     string
	APIListenAddr string

	// Applied when a redeemed card carries no validity of its own.
	DefaultCardDuration time.Duration

	ThrottleWindow      time.Duration
	ThrottleMaxRequests int
)

func init() {
	// Load .env only when present, for local development.
	_ = godotenv.Load()

	TelegramBotToken = mustGetEnv("TELEGRAM_BOT_TOKEN")
	RedisAddr = mustGetEnv("REDIS_HOST")
	DatabaseURL = os.Getenv("DATABASE_URL") // optional, falls back to a local sqlite file
	OwnerID = mustGetEnvInt64("OWNER_ID")

	AgentAPIKey = os.Getenv("AGENT_API_KEY")
	AgentModel = os.Getenv("AGENT_MODEL")

	APISecret = mustGetEnv("API_SECRET")
	APIListenAddr = getEnvDefault("API_LISTEN_ADDR", ":7000")

	DefaultCardDuration = 24 * time.Hour * time.Duration(getEnvIntDefault("DEFAULT_CARD_DAYS", 30))
	ThrottleWindow = time.Duration(getEnvIntDefault("THROTTLE_WINDOW_SECONDS", 10)) * time.Second
	ThrottleMaxRequests = getEnvIntDefault("THROTTLE_MAX_REQUESTS", 5)
}

func mustGetEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("Environment variable %s is required", key)
	}
	return v
}

func mustGetEnvInt64(key string) int64 {
	v := mustGetEnv(key)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("Environment variable %s must be an integer: %v", key, err)
	}
	return n
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Environment variable %s must be an integer: %v", key, err)
	}
	return n
}
