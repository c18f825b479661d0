package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	OrdersPath      string
	AdsURL          string
	AdsFallbackPath string
	ReportsDir      string

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	Schedule   string // cron expression, empty disables scheduled runs
	RunOnStart bool

	Port        string
	HTTPTimeout time.Duration
	LogLevel    slog.Level
}

func FromEnv() Config {
	to := 20 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		OrdersPath:      envOr("ORDERS_CSV_PATH", "data/orders_messy.csv"),
		AdsURL:          os.Getenv("ADS_CSV_URL"),
		AdsFallbackPath: envOr("ADS_CSV_FALLBACK_PATH", "data/ads_spend_messy.csv"),
		ReportsDir:      envOr("REPORTS_DIR", "reports"),
		LLMBaseURL:      envOr("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMAPIKey:       os.Getenv("GROQ_API_KEY"),
		LLMModel:        envOr("LLM_MODEL", "openai/gpt-oss-120b"),
		Schedule:        os.Getenv("CRON_SCHEDULE"),
		RunOnStart:      os.Getenv("RUN_ON_START") != "false",
		Port:            envOr("PORT", "8080"),
		HTTPTimeout:     to,
		LogLevel:        lvl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
