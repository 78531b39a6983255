package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL string
	ServerPort string

	HTTPTimeout time.Duration

	LogLevel  string
	LogPretty bool

	// FeedbackTTL is how long an outcome message stays visible.
	FeedbackTTL time.Duration

	// ActivityRefreshInterval throttles unread-count refreshes triggered by
	// general session activity.
	ActivityRefreshInterval time.Duration
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	backendURL := strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8080"), "/")

	return &Config{
		BackendURL: backendURL,
		ServerPort: getEnv("SERVER_PORT", "8090"),

		HTTPTimeout: time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		FeedbackTTL:             time.Duration(getEnvAsInt("FEEDBACK_TTL_SECONDS", 4)) * time.Second,
		ActivityRefreshInterval: time.Duration(getEnvAsInt("ACTIVITY_REFRESH_SECONDS", 30)) * time.Second,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt falls back to the default for missing, malformed or non-positive values.
func getEnvAsInt(key string, defaultVal int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultVal
	}
	return value
}

func getEnvAsBool(key string, defaultVal bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return value
}
