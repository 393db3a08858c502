package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores job consumer settings. Empty brokers disable the consumer.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Catalog stores product catalog gateway settings.
type Catalog struct {
	BaseURL     string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RateLimit stores settings for the batch trigger rate limiter.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Generation stores the order generation sweeper settings.
type Generation struct {
	SweepInterval time.Duration
}

// PprofConfig stores the debug pprof server settings.
type PprofConfig struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Config stores all service settings.
type Config struct {
	Port       int
	DB         DB
	Kafka      Kafka
	Catalog    Catalog
	RateLimit  RateLimit
	Generation Generation
	Pprof      PprofConfig
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:       defaultPort,
		DB:         DefaultDB(),
		Catalog:    DefaultCatalog(),
		RateLimit:  DefaultRateLimit(),
		Generation: DefaultGeneration(),
		Pprof:      DefaultPprof(),
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Port = p
	}

	readDBEnv(&cfg.DB)
	readKafkaEnv(&cfg.Kafka)
	if err := readCatalogEnv(&cfg.Catalog); err != nil {
		return nil, err
	}
	if err := readRateLimitEnv(&cfg.RateLimit); err != nil {
		return nil, err
	}
	if err := readGenerationEnv(&cfg.Generation); err != nil {
		return nil, err
	}
	if err := readPprofEnv(&cfg.Pprof); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT %q: %w", cfg.DB.Port, err)
	}
	if cfg.Generation.SweepInterval <= 0 {
		return nil, fmt.Errorf("invalid generation sweep interval: %s", cfg.Generation.SweepInterval)
	}
	return cfg, nil
}

func readDBEnv(db *DB) {
	setIfPresent(&db.Host, "POSTGRES_HOST")
	setIfPresent(&db.Port, "POSTGRES_PORT")
	setIfPresent(&db.User, "POSTGRES_USER")
	setIfPresent(&db.Pass, "POSTGRES_PASSWORD")
	setIfPresent(&db.Name, "POSTGRES_DB")
}

func readKafkaEnv(k *Kafka) {
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				k.Brokers = append(k.Brokers, b)
			}
		}
	}
	setIfPresent(&k.GroupID, "KAFKA_GROUP_ID")
	setIfPresent(&k.Topic, "KAFKA_JOBS_TOPIC")
}

func readCatalogEnv(c *Catalog) error {
	setIfPresent(&c.BaseURL, "CATALOG_BASE_URL")
	if err := intEnv(&c.MaxAttempts, "CATALOG_MAX_ATTEMPTS"); err != nil {
		return err
	}
	if err := durationEnv(&c.BaseDelay, "CATALOG_BASE_DELAY"); err != nil {
		return err
	}
	return durationEnv(&c.MaxDelay, "CATALOG_MAX_DELAY")
}

func readRateLimitEnv(rl *RateLimit) error {
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_ENABLED %q: %w", v, err)
		}
		rl.Enabled = b
	}
	if v := os.Getenv("RATE_LIMIT_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RATE %q: %w", v, err)
		}
		rl.Rate = f
	}
	if err := intEnv(&rl.Burst, "RATE_LIMIT_BURST"); err != nil {
		return err
	}
	if err := durationEnv(&rl.TTL, "RATE_LIMIT_TTL"); err != nil {
		return err
	}
	return intEnv(&rl.MaxBuckets, "RATE_LIMIT_MAX_BUCKETS")
}

func readGenerationEnv(g *Generation) error {
	return durationEnv(&g.SweepInterval, "GENERATION_SWEEP_INTERVAL")
}

func readPprofEnv(p *PprofConfig) error {
	if v := os.Getenv("PPROF_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PPROF_ENABLED %q: %w", v, err)
		}
		p.Enabled = b
	}
	setIfPresent(&p.Addr, "PPROF_ADDR")
	setIfPresent(&p.User, "PPROF_USER")
	setIfPresent(&p.Pass, "PPROF_PASS")
	return nil
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func intEnv(dst *int, key string) error {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

func durationEnv(dst *time.Duration, key string) error {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = d
	}
	return nil
}
