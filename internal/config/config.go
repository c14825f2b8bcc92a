package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Lead store selection: "airtable", "postgres" or "memory".
	LeadStore       string
	AirtableAPIKey  string
	AirtableBaseID  string
	AirtableTableID string
	DatabaseURL     string

	// reCAPTCHA Enterprise. Optional: an empty secret disables the risk check.
	RecaptchaSecretKey string
	RecaptchaSiteKey   string
	RecaptchaProjectID string
	RecaptchaMinScore  float64

	DuplicateWindowHours int

	// Content generation
	ClaudeAPIKey   string
	ClaudeModel    string
	ClaudeTimeout  time.Duration
	MakeWebhookURL string

	// SendGrid lead notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	LeadNotifyEmail   string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		LeadStore:       strings.ToLower(strings.TrimSpace(getEnv("LEAD_STORE", "airtable"))),
		AirtableAPIKey:  getEnv("AIRTABLE_API_KEY", ""),
		AirtableBaseID:  getEnv("AIRTABLE_BASE_ID", ""),
		AirtableTableID: getEnv("AIRTABLE_TABLE_ID", "tbl7V4S7GZ25PXLo9"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),

		RecaptchaSecretKey: getEnv("RECAPTCHA_SECRET_KEY", ""),
		RecaptchaSiteKey:   getEnv("RECAPTCHA_SITE_KEY", ""),
		RecaptchaProjectID: getEnv("RECAPTCHA_PROJECT_ID", ""),
		RecaptchaMinScore:  getEnvAsFloat("RECAPTCHA_MIN_SCORE", 0.5),

		DuplicateWindowHours: getEnvAsInt("DUPLICATE_WINDOW_HOURS", 24),

		ClaudeAPIKey:   getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:    getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		ClaudeTimeout:  getEnvAsDuration("CLAUDE_TIMEOUT", 60*time.Second),
		MakeWebhookURL: getEnv("MAKE_WEBHOOK_URL", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "RemodelGrid"),
		LeadNotifyEmail:   getEnv("LEAD_NOTIFY_EMAIL", ""),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
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

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
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

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
