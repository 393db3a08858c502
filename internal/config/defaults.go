package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "fulfillment_db",
}

var defaultCatalog = Catalog{
	BaseURL:     "http://localhost:8081",
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       1,
	Burst:      3,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultGeneration = Generation{
	SweepInterval: time.Hour,
}

var defaultPprof = PprofConfig{
	Enabled: false,
	Addr:    "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultCatalog returns the default product catalog gateway settings.
func DefaultCatalog() Catalog {
	return defaultCatalog
}

// DefaultRateLimit returns the default rate limiter settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultGeneration returns the default generation sweeper settings.
func DefaultGeneration() Generation {
	return defaultGeneration
}

// DefaultPprof returns the default pprof server settings.
func DefaultPprof() PprofConfig {
	return defaultPprof
}
