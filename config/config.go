package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and passed into every component.
// Nothing outside this package reads environment variables.
type Config struct {
	Port        string
	DatabaseURL string

	DBMaxOpenConns int

	// Credential pool; LegacyAPIKey is the single-key fallback slot.
	APIKeys      []string
	LegacyAPIKey string

	PrimaryModel  string
	FallbackModel string

	// Extended-thinking token budgets per model tier; 0 disables thinking.
	ThinkingBudgetPrimary  int64
	ThinkingBudgetFallback int64

	CountTiny  int
	CountSmall int
	CountLarge int

	FetchTimeout  time.Duration
	DefaultUserID int
}

func Load() *Config {
	godotenv.Load()

	legacyModel := envString("GENAI_MODEL", "claude-sonnet-4-20250514")

	return &Config{
		Port:                   envString("PORT", "8080"),
		DatabaseURL:            os.Getenv("DB_URL"),
		DBMaxOpenConns:         envInt("DB_MAX_OPEN_CONNS", 3),
		APIKeys:                splitKeys(os.Getenv("GENAI_API_KEYS")),
		LegacyAPIKey:           strings.TrimSpace(os.Getenv("GENAI_API_KEY")),
		PrimaryModel:           envString("GENAI_MODEL_1", legacyModel),
		FallbackModel:          envString("GENAI_MODEL_2", legacyModel),
		ThinkingBudgetPrimary:  envInt64("THINKING_BUDGET_PRIMARY", 4096),
		ThinkingBudgetFallback: envInt64("THINKING_BUDGET_FALLBACK", 0),
		CountTiny:              envInt("COUNT_TINY", 5),
		CountSmall:             envInt("COUNT_SMALL", 25),
		CountLarge:             envInt("COUNT_LARGE", 50),
		FetchTimeout:           time.Duration(envInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		DefaultUserID:          envInt("DEFAULT_USER_ID", 1),
	}
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
