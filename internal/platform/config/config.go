package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"claimbank/pkg/domain"
)

// Registry captures the settlement registry's construction-time
// configuration. Fee settings are fixed for the process lifetime;
// there is no runtime mutation surface.
type Registry struct {
	Name           string
	FeeCollector   domain.Party
	FeeBasisPoints int64
	BatchLimit     int
}

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	Registry Registry
}

const (
	defaultAddr       = ":8080"
	defaultBatchLimit = 20
	defaultCacheTTL   = 5 * time.Minute
	defaultKafkaTopic = "claim-events"
)

// FromEnv builds a Server config from environment variables so main
// stays lean. Fee configuration is validated here because an out-of-range
// basis-point rate must never reach the fee policy.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:          envOr("CLAIMBANK_ADDR", defaultAddr),
		JWTSigningKey: os.Getenv("CLAIMBANK_JWT_SIGNING_KEY"),
		DatabaseURL:   os.Getenv("CLAIMBANK_DATABASE_URL"),
		RedisURL:      os.Getenv("CLAIMBANK_REDIS_URL"),
		CacheTTL:      defaultCacheTTL,
		KafkaTopic:    envOr("CLAIMBANK_KAFKA_TOPIC", defaultKafkaTopic),
		Registry: Registry{
			Name:           envOr("CLAIMBANK_REGISTRY_NAME", "claimbank"),
			FeeCollector:   domain.Party(os.Getenv("CLAIMBANK_FEE_COLLECTOR")),
			FeeBasisPoints: 0,
			BatchLimit:     defaultBatchLimit,
		},
	}

	if cfg.JWTSigningKey == "" {
		// Development default; override in any real deployment.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	if brokers := os.Getenv("CLAIMBANK_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if raw := os.Getenv("CLAIMBANK_FEE_BASIS_POINTS"); raw != "" {
		bps, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Server{}, fmt.Errorf("parse CLAIMBANK_FEE_BASIS_POINTS: %w", err)
		}
		cfg.Registry.FeeBasisPoints = bps
	}
	if cfg.Registry.FeeBasisPoints < 0 || cfg.Registry.FeeBasisPoints > 10000 {
		return Server{}, fmt.Errorf("fee basis points must be in [0, 10000], got %d", cfg.Registry.FeeBasisPoints)
	}

	if raw := os.Getenv("CLAIMBANK_BATCH_LIMIT"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return Server{}, fmt.Errorf("parse CLAIMBANK_BATCH_LIMIT: %w", err)
		}
		if limit <= 0 {
			return Server{}, fmt.Errorf("batch limit must be positive, got %d", limit)
		}
		cfg.Registry.BatchLimit = limit
	}

	if raw := os.Getenv("CLAIMBANK_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Server{}, fmt.Errorf("parse CLAIMBANK_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
