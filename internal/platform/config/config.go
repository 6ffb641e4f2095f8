package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything main needs to wire the service. Values come from
// the environment so no component reads process-wide state on its own.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string
	KafkaTopic   string

	JWTSigningKey string
	TokenTTL      time.Duration

	BcryptCost    int
	MatcherLimit  int
	OutboxBuffer  int
	NotifyWorkers int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("BADBAADO_ADDR", ":3005"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaTopic:    getenv("KAFKA_NOTIFY_TOPIC", "badbaado.notifications"),
		JWTSigningKey: os.Getenv("JWT_SECRET"),
		TokenTTL:      7 * 24 * time.Hour,
		BcryptCost:    getint("BCRYPT_COST", 12),
		MatcherLimit:  getint("MATCHER_LIMIT", 50),
		OutboxBuffer:  getint("NOTIFY_OUTBOX_BUFFER", 256),
		NotifyWorkers: getint("NOTIFY_WORKERS", 4),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if cfg.JWTSigningKey == "" {
		// Development fallback; must be overridden in production.
		cfg.JWTSigningKey = "badbaado-dev-secret-change-me"
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
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
