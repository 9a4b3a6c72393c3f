package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	AppName           string
	APIPrefix         string
	AppPort           string
	CORSAllowOrigins  []string
	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiModels      []string
	AIMaxOutputTokens int
	AITimeoutSeconds  int
	HistoryTurnLimit  int
}

func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		AppEnv:    getEnv("APP_ENV", "local"),
		AppName:   getEnv("APP_NAME", "MannMitra API"),
		APIPrefix: getEnv("API_PREFIX", "/api/v1"),
		AppPort:   getEnv("APP_PORT", "8000"),
		CORSAllowOrigins: getEnvCSV(
			"CORS_ALLOW_ORIGINS",
			[]string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"},
		),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModels: getEnvCSV(
			"GEMINI_MODELS",
			[]string{"gemini-1.5-flash", "gemini-1.5-flash-8b", "gemini-pro"},
		),
		AIMaxOutputTokens: getEnvInt("AI_MAX_OUTPUT_TOKENS", 600),
		AITimeoutSeconds:  getEnvInt("AI_TIMEOUT_SECONDS", 20),
		HistoryTurnLimit:  getEnvInt("HISTORY_TURN_LIMIT", 6),
	}
}

// Validate checks config consistency. A missing API key is not an error:
// the service degrades to its offline responder instead of refusing to boot.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AppPort) == "" {
		return errors.New("APP_PORT is required")
	}
	if len(c.GeminiModels) == 0 {
		return errors.New("GEMINI_MODELS must list at least one model candidate")
	}
	if strings.TrimSpace(c.GeminiAPIKey) != "" && strings.TrimSpace(c.GeminiBaseURL) == "" {
		return errors.New("GEMINI_BASE_URL is required when GEMINI_API_KEY is set")
	}
	if c.AITimeoutSeconds <= 0 {
		return errors.New("AI_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvCSV(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, item := range parts {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
