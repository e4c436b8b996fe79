package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Built from environment
// variables so main stays lean.
type Server struct {
	Addr          string
	PostgresURL   string
	RedisURL      string
	DocumentPath  string
	KafkaBrokers  []string
	KafkaTopic    string
	JWTSigningKey string

	// ShareBaseURL prefixes the verification links handed to third parties.
	ShareBaseURL string

	// ShareTokenDefaultTTL is applied when a mint request omits the TTL.
	// ShareTokenMaxTTL bounds every token lifetime so no capability lives
	// indefinitely.
	ShareTokenDefaultTTL time.Duration
	ShareTokenMaxTTL     time.Duration

	// StorageTimeout bounds every call to the record/document/token
	// collaborators so a slow store cannot wedge the verification path.
	StorageTimeout time.Duration

	// JanitorInterval paces the expired share token sweep.
	JanitorInterval time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:                 envOr("CERTIVAULT_ADDR", ":8080"),
		PostgresURL:          os.Getenv("CERTIVAULT_POSTGRES_URL"),
		RedisURL:             os.Getenv("CERTIVAULT_REDIS_URL"),
		DocumentPath:         envOr("CERTIVAULT_DOCUMENT_PATH", "data/documents"),
		KafkaTopic:           envOr("CERTIVAULT_KAFKA_TOPIC", "certivault.audit"),
		JWTSigningKey:        envOr("CERTIVAULT_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		ShareBaseURL:         envOr("CERTIVAULT_SHARE_BASE_URL", "https://certivault.app/verify"),
		ShareTokenDefaultTTL: durationOr("CERTIVAULT_SHARE_TTL_DEFAULT", 24*time.Hour),
		ShareTokenMaxTTL:     durationOr("CERTIVAULT_SHARE_TTL_MAX", 7*24*time.Hour),
		StorageTimeout:       durationOr("CERTIVAULT_STORAGE_TIMEOUT", 5*time.Second),
		JanitorInterval:      durationOr("CERTIVAULT_JANITOR_INTERVAL", time.Minute),
	}
	if brokers := os.Getenv("CERTIVAULT_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
