package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Karlson54/TelegramBot/internal/store"
)

// Config carries everything main needs to wire the process. Empty backend
// settings mean "run on the in-memory fallback" for that concern.
type Config struct {
	HTTPAddr        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	Postgres store.Credentials

	MongoURI  string
	MongoDB   string
	RedisAddr string

	KafkaBrokers []string
}

// Load reads configuration from the environment, with a best-effort .env
// file on top. Missing .env is fine.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		Postgres: store.Credentials{
			Host:              getEnv("POSTGRES_HOST", ""),
			Port:              getInt("POSTGRES_PORT", 5432),
			User:              getEnv("POSTGRES_USER", "shop"),
			Password:          getEnv("POSTGRES_PASSWORD", "shop"),
			DBName:            getEnv("POSTGRES_DB", "shop"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},

		MongoURI:  getEnv("MONGO_URI", ""),
		MongoDB:   getEnv("MONGO_DB", "shop"),
		RedisAddr: getEnv("REDIS_ADDR", ""),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
