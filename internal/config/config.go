package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// LLM Configuration
	DefaultModel      string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterSiteURL string // Sent as HTTP-Referer for OpenRouter attribution
	OpenRouterAppName string // Sent as X-Title for OpenRouter attribution
	AnthropicAPIKey   string
	AnthropicBaseURL  string // Empty = SDK default
	RequestTimeout    time.Duration
	LoremDelay        time.Duration
	// Persona file overriding the embedded default (empty = embedded)
	PersonaFile string
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:8080"),
		// LLM Configuration
		DefaultModel:      getEnv("DEFAULT_MODEL", getDefaultModel()),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterSiteURL: getEnv("OPENROUTER_SITE_URL", ""),
		OpenRouterAppName: getEnv("OPENROUTER_APP_NAME", "parley"),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL:  getEnv("ANTHROPIC_BASE_URL", ""),
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 60*time.Second),
		LoremDelay:        getDuration("LOREM_DELAY", 2*time.Second),
		PersonaFile:       getEnv("PERSONA_FILE", ""),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),
	}
}

// getDefaultModel falls back to the offline lorem model when no OpenRouter key is set,
// so a fresh checkout can serve chats without credentials.
func getDefaultModel() string {
	if os.Getenv("OPENROUTER_API_KEY") == "" {
		return "lorem-medium"
	}
	return "openrouter/deepseek/deepseek-chat-v3-0324:free"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
