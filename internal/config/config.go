package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
// The service is stateless: there is no database and no user store.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API Keys
	OpenAIAPIKey string // OpenAI API key for GPT models
	GeminiAPIKey string // Google Gemini API key

	// Model invocation
	LLMProvider      string        // "openai", "gemini" or empty to infer from the model name
	LLMModel         string        // Model used for every flow
	LLMReasoningMode string        // Reasoning effort for models that support it
	LLMTimeout       time.Duration // Upper bound for a single model call
	LLMMaxAttempts   int           // 1 disables retries

	// Source resolution
	SourceResolutionEnabled bool
	SourceFetchTimeout      time.Duration

	// HTTP
	CORSAllowedOrigins []string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
	CloudWatchEnabled bool   // Publish generation metrics outside production

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from an upstream gateway
	AuthMode string
}

func Load() *Config {
	return &Config{
		Environment:             getEnv("ENVIRONMENT", "development"),
		Port:                    getEnv("PORT", "8080"),
		OpenAIAPIKey:            getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		LLMProvider:             getEnv("LLM_PROVIDER", ""),
		LLMModel:                getEnv("LLM_MODEL", "gpt-5-mini"),
		LLMReasoningMode:        getEnv("LLM_REASONING_MODE", "low"),
		LLMTimeout:              getDuration("LLM_TIMEOUT", 120*time.Second),
		LLMMaxAttempts:          getInt("LLM_MAX_ATTEMPTS", 1),
		SourceResolutionEnabled: getBool("SOURCE_RESOLUTION_ENABLED", true),
		SourceFetchTimeout:      getDuration("SOURCE_FETCH_TIMEOUT", 15*time.Second),
		CORSAllowedOrigins:      getList("CORS_ALLOWED_ORIGINS"),
		SentryDSN:               getEnv("SENTRY_DSN", ""),
		LangfusePublicKey:       getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:       getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:            getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:         getBool("LANGFUSE_ENABLED", false),
		CloudWatchEnabled:       getBool("CLOUDWATCH_ENABLED", false),
		AuthMode:                getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v < 1 {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsGatewayMode returns true if running behind an authenticating gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
