package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresDSN        string
	MongoURI           string
	RedisAddr          string
	RabbitURL          string
	HTTPAddr           string
	HoldBackend        string // "redis" or "memory"
	HoldTTL            time.Duration
	DefaultDurationMin int
	OTLPEndpoint       string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	holdTTL, _ := time.ParseDuration(os.Getenv("HOLD_TTL"))
	if holdTTL == 0 {
		holdTTL = 5 * time.Minute
	}

	duration, _ := strconv.Atoi(os.Getenv("DEFAULT_DURATION_MIN"))
	if duration == 0 {
		duration = 90
	}

	backend := os.Getenv("HOLD_BACKEND")
	if backend == "" {
		backend = "redis"
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return &Config{
		PostgresDSN:        os.Getenv("PG_DSN"),
		MongoURI:           os.Getenv("MONGO_URI"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RabbitURL:          os.Getenv("RABBIT_URL"),
		HTTPAddr:           addr,
		HoldBackend:        backend,
		HoldTTL:            holdTTL,
		DefaultDurationMin: duration,
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}
