package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string
	MySQLDSN  string
	RedisAddr string

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel string

	NotifierWorkers   int
	NotifierQueueSize int

	SummaryCacheTTL time.Duration
}

// Load reads configuration from the environment, after loading .env if one
// is present.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		MySQLDSN:          getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/stockroom?parseTime=true"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTTTL:            getDuration("JWT_TTL", 24*time.Hour),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		NotifierWorkers:   getInt("NOTIFIER_WORKERS", 4),
		NotifierQueueSize: getInt("NOTIFIER_QUEUE_SIZE", 1024),
		SummaryCacheTTL:   getDuration("SUMMARY_CACHE_TTL", 30*time.Second),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
