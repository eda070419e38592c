package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-sourced settings for the caching core.
type Config struct {
	// RedisAddr is the host:port of the backing store.
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// RedisPassword may reference other variables as ${VAR}; see Load.
	RedisPassword string `env:"REDIS_PASSWORD"`

	// RedisDB selects the Redis logical database.
	RedisDB int `env:"REDIS_DB" envDefault:"0"`

	// StoreTimeout bounds each store round-trip.
	StoreTimeout time.Duration `env:"CACHE_STORE_TIMEOUT" envDefault:"2s"`

	// AnalysisTTL is the retention for AI analysis results.
	AnalysisTTL time.Duration `env:"CACHE_ANALYSIS_TTL" envDefault:"720h"`

	// TestTTL is the retention for short-lived test entries.
	TestTTL time.Duration `env:"CACHE_TEST_TTL" envDefault:"30s"`

	// AnalysisLimit and AnalysisWindow override the AI analysis rate budget.
	AnalysisLimit  int           `env:"RATELIMIT_ANALYSIS_LIMIT" envDefault:"10"`
	AnalysisWindow time.Duration `env:"RATELIMIT_ANALYSIS_WINDOW" envDefault:"1h"`

	// JanitorSchedule is the cron spec for test-entry cleanup sweeps.
	// Empty disables the janitor.
	JanitorSchedule string `env:"CACHE_JANITOR_SCHEDULE"`

	// LogLevel controls the structured logger: debug|info|warn|error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment. Values containing ${VAR}
// references are expanded; a reference to a missing variable is an error so
// a half-configured credential fails fast instead of authenticating with a
// literal "${...}" string.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	expanded, err := ExpandEnvStrict(cfg.RedisPassword)
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_PASSWORD: %w", err)
	}
	cfg.RedisPassword = expanded

	return cfg, nil
}
