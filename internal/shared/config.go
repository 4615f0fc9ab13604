package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	HotelsBase   string
	RapidAPIKey  string
	CurrencyCode string

	GeminiKey   string
	GeminiModel string

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string

	SeedWorkers   int
	CheckpointTTL time.Duration
}

func Load() Config {
	// optional .env, same convenience the rest of the tooling expects
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/bling?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		HotelsBase:   env("HOTELS_BASE_URL", "https://booking-com15.p.rapidapi.com"),
		RapidAPIKey:  env("RAPIDAPI_KEY", ""),
		CurrencyCode: env("CURRENCY_CODE", "AED"),

		GeminiKey:   env("GEMINI_API_KEY", ""),
		GeminiModel: env("GEMINI_MODEL", "models/gemini-1.5-pro"),

		SMTPHost:     env("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     atoi("SMTP_PORT", 587),
		SMTPEmail:    env("SMTP_EMAIL", ""),
		SMTPPassword: env("SMTP_PASSWORD", ""),

		SeedWorkers:   atoi("SEED_WORKERS", 8),
		CheckpointTTL: time.Duration(atoi("CHECKPOINT_TTL_SECONDS", 86400)) * time.Second,
	}
	if c.RapidAPIKey == "" {
		log.Warn().Msg("RAPIDAPI_KEY is empty")
	}
	if c.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
