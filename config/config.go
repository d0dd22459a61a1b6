// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the knobs for the HTTP server and the storage engine.
type Config struct {
	HTTPAddr         string
	DatabaseURL      string
	EmbeddedPGPort   int
	EmbeddedPGDir    string
	DefaultPageLimit int
	ShutdownTimeout  time.Duration
}

// UseEmbeddedPG reports whether the service should boot its own embedded
// Postgres instead of connecting to an external one.
func (c Config) UseEmbeddedPG() bool {
	return c.DatabaseURL == ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getenv("DATABASE_URL", ""),
		EmbeddedPGPort:   atoienv("EMBEDDED_PG_PORT", 5433),
		EmbeddedPGDir:    getenv("EMBEDDED_PG_DIR", ".catalog-pg"),
		DefaultPageLimit: atoienv("DEFAULT_PAGE_LIMIT", 10),
		ShutdownTimeout:  durenvs("SHUTDOWN_TIMEOUT", 10),
	}
}
