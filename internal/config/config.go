package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/greifwand/systemboard/internal/security"
	"github.com/joho/godotenv"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Config carries every tunable the components need; it is built once in
// main and passed into constructors instead of living in package globals.
type Config struct {
	Port            string
	DatabasePath    string
	BaseURL         string
	SessionDuration time.Duration
	SegmentsPerWall int
	SearchLimit     int
	Argon2          security.Argon2Params
	SMTP            SMTPConfig
}

func Default() Config {
	return Config{
		Port:            "8080",
		DatabasePath:    "data/systemboard.db",
		BaseURL:         "http://localhost:8080",
		SessionDuration: time.Hour,
		SegmentsPerWall: 3,
		SearchLimit:     18,
		Argon2:          security.DefaultArgon2Params(),
	}
}

// Load reads a .env file when present and applies environment overrides on
// top of the defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("env file not loaded: %v", err)
	}

	cfg := Default()
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabasePath = getEnv("DB_PATH", cfg.DatabasePath)
	cfg.BaseURL = getEnv("BASE_URL", cfg.BaseURL)
	cfg.SessionDuration = getEnvDuration("SESSION_DURATION", cfg.SessionDuration)
	cfg.SegmentsPerWall = getEnvInt("SEGMENTS_PER_WALL", cfg.SegmentsPerWall)
	cfg.SearchLimit = getEnvInt("SEARCH_LIMIT", cfg.SearchLimit)

	cfg.SMTP = SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     getEnv("SMTP_PORT", "587"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnv("MAIL_FROM", "systemboard@localhost"),
		FromName: getEnv("MAIL_FROM_NAME", "Systemboard"),
	}

	return cfg
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("invalid %s value %q, using %d", key, raw, fallback)
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Printf("invalid %s value %q, using %s", key, raw, fallback)
		return fallback
	}
	return value
}
