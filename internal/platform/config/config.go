package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean; defaults suit local development.
type Server struct {
	Addr          string
	JWTSigningKey string

	// PostgresURL enables the durable stores when set; empty means the
	// in-memory stores (dev/test only).
	PostgresURL string

	// RedisURL enables the title-lookup cache when set.
	RedisURL      string
	TitleCacheTTL time.Duration

	// KafkaBrokers enables the audit event stream when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	// ScoringURL is the base URL of the external similarity oracle. Empty
	// switches to the in-process reference scorer.
	ScoringURL     string
	ScoringTimeout time.Duration

	// ContentStoreURL is the base URL of the bulk content store. Empty
	// switches to the in-memory store.
	ContentStoreURL string

	// GateVersionUpdates applies the plagiarism gate to version submissions
	// as well as new titles. Off by default: the observed contract gates
	// only new-title submissions.
	GateVersionUpdates bool

	// AllowUncheckedOnScoringOutage lets a submission proceed without a
	// similarity score when the oracle is unreachable. Every use of this
	// path is audit-logged. Never enabled by default.
	AllowUncheckedOnScoringOutage bool
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:                          getenv("OPUS_ADDR", ":8080"),
		JWTSigningKey:                 getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PostgresURL:                   os.Getenv("POSTGRES_URL"),
		RedisURL:                      os.Getenv("REDIS_URL"),
		TitleCacheTTL:                 getduration("TITLE_CACHE_TTL", 5*time.Minute),
		KafkaTopic:                    getenv("KAFKA_AUDIT_TOPIC", "opus.audit"),
		ScoringURL:                    os.Getenv("SCORING_URL"),
		ScoringTimeout:                getduration("SCORING_TIMEOUT", 15*time.Second),
		ContentStoreURL:               os.Getenv("CONTENT_STORE_URL"),
		GateVersionUpdates:            os.Getenv("GATE_VERSION_UPDATES") == "true",
		AllowUncheckedOnScoringOutage: os.Getenv("ALLOW_UNCHECKED_ON_SCORING_OUTAGE") == "true",
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
