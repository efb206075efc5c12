package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port         string
	DatabasePath string
	JWTSecret    string
	LogLevel     string
	UploadDir    string
	ClientURL    string

	EmailHost string
	EmailPort string
	EmailUser string
	EmailPass string
	EmailFrom string

	ReminderHour   int
	ReminderMinute int
}

// Load loads configuration from environment variables, reading a .env file
// first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		DatabasePath: getEnvOrDefault("DATABASE_PATH", "bytecart.sqlite3"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		UploadDir:    getEnvOrDefault("UPLOAD_DIR", "uploads"),
		ClientURL:    os.Getenv("CLIENT_URL"),

		EmailHost: os.Getenv("EMAIL_HOST"),
		EmailPort: getEnvOrDefault("EMAIL_PORT", "587"),
		EmailUser: os.Getenv("EMAIL_USER"),
		EmailPass: os.Getenv("EMAIL_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),
	}

	if cfg.JWTSecret = os.Getenv("JWT_SECRET"); cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	var err error
	cfg.ReminderHour, err = getEnvInt("REMINDER_HOUR", 9)
	if err != nil {
		return nil, err
	}
	cfg.ReminderMinute, err = getEnvInt("REMINDER_MINUTE", 0)
	if err != nil {
		return nil, err
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 || cfg.ReminderMinute < 0 || cfg.ReminderMinute > 59 {
		return nil, fmt.Errorf("REMINDER_HOUR/REMINDER_MINUTE out of range: %d:%d", cfg.ReminderHour, cfg.ReminderMinute)
	}

	return cfg, nil
}

// getEnvOrDefault returns an environment variable value or a default if not
// set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
