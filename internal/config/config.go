package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	Provider      string // "perplexity", "openai", "mock"
	Model         string
	PerplexityKey string
	OpenAIKey     string
}

// APIKey returns the key matching the selected provider.
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIKey
	case "mock":
		return ""
	default:
		return c.PerplexityKey
	}
}

type ChatConfig struct {
	PersistTopic        string
	DedupWindow         time.Duration
	SimilarityThreshold float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8080"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8080"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:      getEnv("LLM_PROVIDER", "perplexity"),
			Model:         getEnv("LLM_MODEL", "sonar"),
			PerplexityKey: getEnv("PERPLEXITY_API_KEY", ""),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		},
		Chat: ChatConfig{
			PersistTopic:        getEnv("PERSIST_MESSAGE_TOPIC_NAME", "PERSIST_CHAT_MESSAGE"),
			DedupWindow:         getEnvAsDuration("DEDUP_WINDOW", 5*time.Minute),
			SimilarityThreshold: getEnvAsFloat("RESPONSE_SIMILARITY_THRESHOLD", 0.8),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
