package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Server
	Port    string
	BaseURL string
	AppEnv  string

	// Logging
	LogLevel  string
	LogFormat string // "console" or "json"

	// Database
	DBDriver      string // "sqlite", "postgres" or "redis"
	DBPath        string // SQLite file path
	DBURL         string // PostgreSQL connection string
	RedisAddr     string
	RedisPassword string

	// Game loop
	SaveSchedule      string // cron expression
	TickInterval      time.Duration
	AutoStartInterval time.Duration
	MinOffline        time.Duration
	OfflineCatchUp    bool

	// Narrative
	LLMProvider          string
	LLMAPIKey            string
	LLMModel             string
	NarrativeRateSeconds int
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to read .env file")
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:8080"),
		AppEnv:               getEnv("APP_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		DBDriver:             getEnv("DB_DRIVER", "sqlite"),
		DBPath:               getEnv("DB_PATH", "./data/skylog.db"),
		DBURL:                getEnv("DATABASE_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		SaveSchedule:         getEnv("SAVE_SCHEDULE", "@every 30s"),
		TickInterval:         getEnvDuration("TICK_INTERVAL", time.Second),
		AutoStartInterval:    getEnvDuration("AUTO_START_INTERVAL", 5*time.Second),
		MinOffline:           getEnvDuration("MIN_OFFLINE", 5*time.Minute),
		OfflineCatchUp:       getEnvBool("OFFLINE_CATCHUP", true),
		LLMProvider:          strings.ToLower(getEnv("LLM_PROVIDER", "anthropic")),
		LLMAPIKey:            getEnv("LLM_API_KEY", ""),
		LLMModel:             getEnv("LLM_MODEL", ""),
		NarrativeRateSeconds: getEnvInt("NARRATIVE_RATE_SECONDS", 10),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	val = strings.ToLower(val)
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
