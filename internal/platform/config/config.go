package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration for the document gateway.
type Server struct {
	Addr          string
	JWTSigningKey string

	// PostgresDSN selects the durable document/reminder stores. Empty means
	// in-memory stores (development and tests).
	PostgresDSN string

	// RedisAddr selects the redis cooldown ledger. Empty means the in-memory
	// reminder log doubles as the cooldown source.
	RedisAddr string

	// KafkaBrokers enables the status-changed event publisher when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Collaborator base URLs. An empty URL selects the built-in mock client
	// for that collaborator.
	WalletServiceURL  string
	ProfileServiceURL string
	NotifyServiceURL  string

	Reminder   Reminder
	Classifier Classifier
}

// Reminder holds dispatch engine tuning.
type Reminder struct {
	Cooldown    time.Duration
	MaxInFlight int
	SendTimeout time.Duration
}

// Classifier holds the expiration bucket thresholds in days.
// Defaults are the contract; deployments overriding them must treat the new
// values as part of their tested behavior.
type Classifier struct {
	CriticalDays int
	WarningDays  int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              envOr("DOCGATE_ADDR", ":8080"),
		JWTSigningKey:     envOr("DOCGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PostgresDSN:       os.Getenv("DOCGATE_POSTGRES_DSN"),
		RedisAddr:         os.Getenv("DOCGATE_REDIS_ADDR"),
		KafkaTopic:        envOr("DOCGATE_KAFKA_TOPIC", "docgate.document-events"),
		WalletServiceURL:  os.Getenv("DOCGATE_WALLET_SERVICE_URL"),
		ProfileServiceURL: os.Getenv("DOCGATE_PROFILE_SERVICE_URL"),
		NotifyServiceURL:  os.Getenv("DOCGATE_NOTIFY_SERVICE_URL"),
		Reminder: Reminder{
			Cooldown:    envDurationOr("DOCGATE_REMINDER_COOLDOWN", 24*time.Hour),
			MaxInFlight: envIntOr("DOCGATE_REMINDER_MAX_IN_FLIGHT", 10),
			SendTimeout: envDurationOr("DOCGATE_REMINDER_SEND_TIMEOUT", 10*time.Second),
		},
		Classifier: Classifier{
			CriticalDays: envIntOr("DOCGATE_EXPIRY_CRITICAL_DAYS", 7),
			WarningDays:  envIntOr("DOCGATE_EXPIRY_WARNING_DAYS", 30),
		},
	}
	if brokers := os.Getenv("DOCGATE_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
