package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the desk.
type Config struct {
	App        AppConfig
	Logger     LoggerConfig
	Latency    LatencyConfig
	Suggestion SuggestionConfig
}

// AppConfig identifies the running application.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// LoggerConfig configures logging behavior. Development enables
// zap's development mode (DPanic panics, caller info) outside
// production runs.
type LoggerConfig struct {
	Level       string
	Development bool
}

// LatencyConfig controls the simulated network latency applied by the
// mock service layer. Enabled=false turns the waits off entirely
// (tests); ScalePercent stretches or shrinks every per-operation delay.
type LatencyConfig struct {
	Enabled      bool
	ScalePercent int
}

// SuggestionConfig tunes the similar-ticket suggestion pipeline.
type SuggestionConfig struct {
	DebounceMillis int
	Limit          int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")
	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "support-desk"),
			Env:     env,
			Version: getEnv("APP_VERSION", "dev"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: env != "production",
		},
		Latency: LatencyConfig{
			Enabled:      getEnvAsBool("SIMULATED_LATENCY", true),
			ScalePercent: getEnvAsInt("LATENCY_SCALE_PERCENT", 100),
		},
		Suggestion: SuggestionConfig{
			DebounceMillis: getEnvAsInt("DEBOUNCE_MS", 300),
			Limit:          getEnvAsInt("SUGGESTION_LIMIT", 5),
		},
	}

	return cfg, nil
}

// Debounce returns the quiet period before similar-ticket suggestions run.
func (s SuggestionConfig) Debounce() time.Duration {
	if s.DebounceMillis <= 0 {
		return 0
	}
	return time.Duration(s.DebounceMillis) * time.Millisecond
}
