package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct for the demo entry point
// and the push-order validation harness.
type Config struct {
	App      AppConfig
	Validate ValidateConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

// ValidateConfig controls order-independence validation runs.
type ValidateConfig struct {
	Manifest string // path to the push-order manifest
	Shuffles int    // number of random orderings per run
	Seed     int64  // base seed for shuffled orderings
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "LateBind"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
		},
		Validate: ValidateConfig{
			Manifest: env("PUSH_MANIFEST", "pushorder.toml"),
			Shuffles: envInt("VALIDATE_SHUFFLES", 8),
			Seed:     envInt64("VALIDATE_SEED", 1),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	return envInt(key, defaultVal)
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
