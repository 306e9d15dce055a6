package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	DataDir      string
	DatabasePath string
	LogLevel     string

	PlacesBaseURL string
	PlacesAPIKey  string
	PlacesTimeout time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	WhatsAppEnabled    bool
	WhatsAppDataDir    string
	DefaultCountryCode string
	SearchDefaultLimit int
}

// LoadConfig loads configuration from environment variables or defaults.
// A .env file in the working directory is read first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	dataDir := getEnv("CRM_DATA_DIR", "data")
	return &Config{
		DataDir:      dataDir,
		DatabasePath: getEnv("CRM_DATABASE_PATH", dataDir+"/contacts.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		PlacesBaseURL: getEnv("GOOGLE_PLACES_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesAPIKey:  getEnv("GOOGLE_PLACES_API_KEY", ""),
		PlacesTimeout: getDurationEnv("GOOGLE_PLACES_TIMEOUT", 10*time.Second),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getIntEnv("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@localhost"),

		WhatsAppEnabled:    getBoolEnv("WHATSAPP_ENABLED", false),
		WhatsAppDataDir:    getEnv("WHATSAPP_DATA_DIR", dataDir),
		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "256"),
		SearchDefaultLimit: getIntEnv("SEARCH_DEFAULT_LIMIT", 20),
	}
}

// MailEnabled reports whether SMTP delivery is configured
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
