package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/imaginify/webhook-service/internal/shared/envconfig"
)

// Config encapsulates the runtime configuration for the webhook service.
type Config struct {
	Port         string    `validate:"required"`
	GCPProjectID string
	DataStore    DataStore `validate:"required"`
	LogLevel     string
	Clerk        ClerkConfig
	Firestore    FirestoreConfig
	Postgres     PostgresConfig
	RateLimit    RateLimitConfig
}

// DataStore enumerates supported persistence backends.
type DataStore string

const (
	// DataStoreMemory keeps users in-memory (useful for local development/testing).
	DataStoreMemory DataStore = "memory"
	// DataStoreFirestore stores users in Google Cloud Firestore.
	DataStoreFirestore DataStore = "firestore"
	// DataStorePostgres stores users in PostgreSQL.
	DataStorePostgres DataStore = "postgres"
)

// ClerkConfig holds the webhook signing secret and Backend API credentials.
type ClerkConfig struct {
	WebhookSecret string `validate:"required"`
	// SecretKey enables metadata write-back when set.
	SecretKey string
	APIURL    string `validate:"omitempty,url"`
	// Tolerance bounds svix-timestamp drift in either direction.
	Tolerance time.Duration `validate:"gt=0"`
}

// FirestoreConfig tailors Firestore client behavior.
type FirestoreConfig struct {
	EmulatorHost string
}

// PostgresConfig carries the connection string for DataStorePostgres.
type PostgresConfig struct {
	DSN string
}

// RateLimitConfig throttles the webhook route; PerSecond 0 disables it.
type RateLimitConfig struct {
	PerSecond int `validate:"gte=0"`
	Burst     int `validate:"gte=0"`
}

// Load reads environment variables into Config with validation.
func Load() (Config, error) {
	perSecond, err := envconfig.GetInt("WEBHOOK_RATE_LIMIT", 0)
	if err != nil {
		return Config{}, err
	}
	burst, err := envconfig.GetInt("WEBHOOK_RATE_BURST", 0)
	if err != nil {
		return Config{}, err
	}
	tolerance, err := envconfig.GetDuration("WEBHOOK_TOLERANCE", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:         envconfig.Get("PORT", "8080"),
		GCPProjectID: envconfig.Get("GCP_PROJECT_ID", ""),
		DataStore:    DataStore(strings.ToLower(envconfig.Get("DATASTORE", string(DataStoreMemory)))),
		LogLevel:     envconfig.Get("LOG_LEVEL", "info"),
		Clerk: ClerkConfig{
			WebhookSecret: envconfig.Get("CLERK_WEBHOOK_SECRET", envconfig.Get("WEBHOOK_SECRET", "")),
			SecretKey:     envconfig.Get("CLERK_SECRET_KEY", ""),
			APIURL:        envconfig.Get("CLERK_API_URL", "https://api.clerk.com"),
			Tolerance:     tolerance,
		},
		Firestore: FirestoreConfig{
			EmulatorHost: envconfig.Get("FIRESTORE_EMULATOR_HOST", ""),
		},
		Postgres: PostgresConfig{
			DSN: envconfig.Get("DATABASE_DSN", ""),
		},
		RateLimit: RateLimitConfig{
			PerSecond: perSecond,
			Burst:     burst,
		},
	}

	if err := envconfig.Validate(cfg); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.DataStore {
	case DataStoreMemory:
		// no-op
	case DataStoreFirestore:
		if cfg.GCPProjectID == "" {
			return fmt.Errorf("GCP_PROJECT_ID is required when DATASTORE=firestore")
		}
	case DataStorePostgres:
		if cfg.Postgres.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when DATASTORE=postgres")
		}
	default:
		return fmt.Errorf("unsupported datastore: %s", cfg.DataStore)
	}
	return nil
}
