package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port           string
	DatabasePath   string
	LogLevel       string
	MigrationsPath string

	// Request handling
	MaxUploadSizeBytes int64
	RateLimitRPS       float64
	RateLimitBurst     int
	AllowedOrigins     []string

	// Dashboard memoization
	CacheExpiration      time.Duration
	CacheCleanupInterval time.Duration

	// Scheduled jobs (robfig/cron expressions)
	SnapshotCron string
	ReminderCron string

	// SMTP settings for ritmo reminders
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
	SenderName   string

	// Finance defaults
	DefaultMinimumCash string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// Default returns the built-in configuration without reading the environment.
func Default() *AppConfig {
	return &AppConfig{
		Port:                 "8080",
		DatabasePath:         "./focoagora.db",
		LogLevel:             "info",
		MigrationsPath:       "db/migrations",
		MaxUploadSizeBytes:   10 * 1024 * 1024,
		RateLimitRPS:         10,
		RateLimitBurst:       20,
		AllowedOrigins:       []string{"http://localhost:3000"},
		CacheExpiration:      15 * time.Minute,
		CacheCleanupInterval: 30 * time.Minute,
		SnapshotCron:         "0 6 * * 1",
		ReminderCron:         "0 8 * * 1-5",
		SMTPPort:             587,
		SenderEmail:          "noreply@focoagora.app",
		SenderName:           "FocoAgora",
	}
}

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = FromEnv()
	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, Migrations=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.MigrationsPath)
}

// FromEnv builds a config from the process environment over the defaults.
func FromEnv() *AppConfig {
	d := Default()
	return &AppConfig{
		Port:           getEnv("PORT", d.Port),
		DatabasePath:   getEnv("DATABASE_PATH", d.DatabasePath),
		LogLevel:       getEnv("LOG_LEVEL", d.LogLevel),
		MigrationsPath: getEnv("MIGRATIONS_PATH", d.MigrationsPath),

		MaxUploadSizeBytes: getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", d.MaxUploadSizeBytes),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", d.RateLimitRPS),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", d.RateLimitBurst),
		AllowedOrigins:     getEnvAsList("ALLOWED_ORIGINS", d.AllowedOrigins),

		CacheExpiration:      getEnvAsDuration("CACHE_EXPIRATION", d.CacheExpiration),
		CacheCleanupInterval: getEnvAsDuration("CACHE_CLEANUP_INTERVAL", d.CacheCleanupInterval),

		SnapshotCron: getEnv("SNAPSHOT_CRON", d.SnapshotCron),
		ReminderCron: getEnv("REMINDER_CRON", d.ReminderCron),

		SMTPServer:   getEnv("SMTP_SERVER", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", d.SMTPPort),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", d.SenderEmail),
		SenderName:   getEnv("SENDER_NAME", d.SenderName),

		DefaultMinimumCash: getEnv("DEFAULT_MINIMUM_CASH", ""),
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid number for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
