package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Chatbot identity
	ChatbotName string
	ChatbotRole string

	// LLM provider selection: gemini, bedrock, or mock
	LLMProvider        string
	GeminiAPIKey       string
	GeminiModelID      string
	BedrockModelID     string
	LLMMaxTokens       int
	LLMTemperature     float64
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Session lifecycle
	SessionTimeout     time.Duration
	MaxHistoryTurns    int
	SessionSweepPeriod time.Duration

	// Clinic policy
	SaturdayCloseHour int

	// Optional transcript mirror
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// HTTP surface
	CORSAllowedOrigins []string
	ChatRatePerSecond  float64
	ChatRateBurst      int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8001"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ChatbotName: getEnv("CHATBOT_NAME", "DentalBot"),
		ChatbotRole: getEnv("CHATBOT_ROLE", "friendly dental assistant"),

		LLMProvider:        strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "mock"))),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:      getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID:     getEnv("BEDROCK_MODEL_ID", ""),
		LLMMaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 1000),
		LLMTemperature:     getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		SessionTimeout:     getEnvAsDuration("SESSION_TIMEOUT", 30*time.Minute),
		MaxHistoryTurns:    getEnvAsInt("MAX_CONVERSATION_HISTORY", 10),
		SessionSweepPeriod: getEnvAsDuration("SESSION_SWEEP_PERIOD", 5*time.Minute),

		SaturdayCloseHour: getEnvAsInt("SATURDAY_CLOSE_HOUR", 14),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ChatRatePerSecond:  getEnvAsFloat("CHAT_RATE_PER_SECOND", 5),
		ChatRateBurst:      getEnvAsInt("CHAT_RATE_BURST", 10),
	}
}

// getEnvAsSlice retrieves a comma-separated environment variable or returns
// a default value
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
