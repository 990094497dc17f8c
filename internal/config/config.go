package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	CORSOrigins string // Comma-separated allowed origins
	APIToken    string // Bearer token required on mutating routes; empty disables auth

	// Storage
	DatabaseURL string
	RedisURL    string // Optional; backs the rate limiter when set

	// Normalization policy
	MatchThreshold       float64 // env: MATCH_THRESHOLD, default: 0.7
	AutoApproveThreshold float64 // env: AUTO_APPROVE_THRESHOLD, default: 0.9
	VocabCacheTTL        time.Duration

	// Model
	ModelPath        string        // env: MODEL_PATH
	MinTrainingPairs int           // env: MIN_TRAINING_PAIRS, default: 5
	RetrainInterval  time.Duration // env: RETRAIN_INTERVAL, 0 disables scheduled retraining

	// Ingestion
	IngestWorkers int

	// Logging
	LogLevel  string
	LogFormat string // "json" or "text"; empty picks by environment
	LogFile   string // Optional rotated log file

	// Seeds
	SeedFile string

	// Reviewer email notifications
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	SMTPFrom             string
	SMTPFromName         string
	SMTPTLS              string   // "none", "starttls" or "tls"
	ReviewerEmails       []string // env: REVIEWER_EMAILS, comma-separated
	BacklogAlertSize     int      // env: BACKLOG_ALERT_SIZE, 0 disables backlog alerts
	BacklogCheckInterval time.Duration
}

// Default threshold values.
const (
	DefaultMatchThreshold       = 0.7
	DefaultAutoApproveThreshold = 0.9
	DefaultMinTrainingPairs     = 5
)

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":8000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		APIToken:    getEnv("API_TOKEN", ""),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/catalognorm?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),

		MatchThreshold:       getEnvFloat("MATCH_THRESHOLD", DefaultMatchThreshold),
		AutoApproveThreshold: getEnvFloat("AUTO_APPROVE_THRESHOLD", DefaultAutoApproveThreshold),
		VocabCacheTTL:        getEnvDuration("VOCAB_CACHE_TTL", 5*time.Minute),

		ModelPath:        getEnv("MODEL_PATH", "data/normalization_model.json"),
		MinTrainingPairs: getEnvInt("MIN_TRAINING_PAIRS", DefaultMinTrainingPairs),
		RetrainInterval:  getEnvDuration("RETRAIN_INTERVAL", 0),

		IngestWorkers: getEnvInt("INGEST_WORKERS", 4),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),
		LogFile:   getEnv("LOG_FILE", ""),

		SeedFile: getEnv("SEED_FILE", "seed.yaml"),

		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:             getEnv("SMTP_FROM", ""),
		SMTPFromName:         getEnv("SMTP_FROM_NAME", "catalognorm"),
		SMTPTLS:              getEnv("SMTP_TLS", "starttls"),
		ReviewerEmails:       getEnvList("REVIEWER_EMAILS"),
		BacklogAlertSize:     getEnvInt("BACKLOG_ALERT_SIZE", 0),
		BacklogCheckInterval: getEnvDuration("BACKLOG_CHECK_INTERVAL", 15*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || v < 0 || v > 1 {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// AuthEnabled returns true if mutating routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.APIToken != ""
}

// IsEmailEnabled returns true if SMTP is configured and there is someone to notify.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != "" && len(c.ReviewerEmails) > 0
}
