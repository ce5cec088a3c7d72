package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Vapi voice vendor credentials. All three are required to place
	// outbound calls; webhooks and status reads work without them.
	VapiAPIKey        string
	VapiAssistantID   string
	VapiPhoneNumberID string
	VapiBaseURL       string

	// Gemini transcript analysis. Empty API key falls back to the
	// simulated analyzer.
	GeminiAPIKey  string
	GeminiModelID string

	// Store backend: "memory" or "redis".
	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Demo dataset sizes used when the store is bootstrapped empty.
	SeedPatients     int
	SeedAppointments int

	// CallRetention enables eviction of completed call records after the
	// given duration. Zero disables eviction and records accumulate for
	// the process lifetime.
	CallRetention time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "3001"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		VapiAPIKey:        getEnv("VAPI_API_KEY", ""),
		VapiAssistantID:   getEnv("VAPI_ASSISTANT_ID", ""),
		VapiPhoneNumberID: getEnv("VAPI_PHONE_NUMBER_ID", ""),
		VapiBaseURL:       getEnv("VAPI_BASE_URL", ""),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		StoreBackend:  strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "memory"))),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SeedPatients:     getEnvAsInt("SEED_PATIENTS", 50),
		SeedAppointments: getEnvAsInt("SEED_APPOINTMENTS", 120),

		CallRetention: getEnvAsDuration("CALL_RETENTION", 0),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// VapiWebhookURL is the externally reachable webhook endpoint to register
// with the Vapi assistant, or empty when PUBLIC_BASE_URL is unset.
func (c *Config) VapiWebhookURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	if base == "" {
		return ""
	}
	return base + "/api/webhooks/vapi"
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

func getEnvAsList(key string, defaultValue []string) []string {
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
