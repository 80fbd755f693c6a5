package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures gateway configuration. FromEnv builds it from environment
// variables so main stays lean.
type Config struct {
	Addr        string
	UpstreamURL string

	Session SessionConfig
	Redis   RedisConfig
	Audit   AuditConfig
}

// SessionConfig controls session token validation and storage.
type SessionConfig struct {
	// SigningKey verifies the HS256 session tokens issued by the auth provider.
	SigningKey string
	// TTL bounds how long a session record is kept after issuance.
	TTL time.Duration
	// FingerprintKey keys the device fingerprint hash so fingerprints are not
	// comparable across deployments.
	FingerprintKey string
}

// RedisConfig holds Redis connection parameters for the session store.
// An empty URL means Redis is not configured and the in-memory store is used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig wires the access-decision audit trail. Kafka and Postgres are
// both optional; with neither configured events stay in the in-memory sink.
type AuditConfig struct {
	KafkaBrokers []string
	KafkaTopic   string
	PostgresDSN  string
	BufferSize   int
}

// FromEnv builds a Config from environment variables, applying development
// defaults where unset.
func FromEnv() Config {
	cfg := Config{
		Addr:        envOr("TALENTGATE_ADDR", ":8080"),
		UpstreamURL: envOr("TALENTGATE_UPSTREAM_URL", "http://localhost:3000"),
		Session: SessionConfig{
			SigningKey:     envOr("SESSION_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TTL:            envDuration("SESSION_TTL", 30*24*time.Hour),
			FingerprintKey: envOr("DEVICE_FINGERPRINT_KEY", "dev-fingerprint-key"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			KafkaTopic:  envOr("AUDIT_KAFKA_TOPIC", "talentgate.access-events"),
			PostgresDSN: os.Getenv("AUDIT_POSTGRES_DSN"),
			BufferSize:  envInt("AUDIT_BUFFER_SIZE", 10000),
		},
	}

	if brokers := os.Getenv("AUDIT_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Audit.KafkaBrokers = append(cfg.Audit.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
