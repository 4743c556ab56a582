// Package config centralizes environment-derived settings, the way the
// teacher's main/main.go loads a .env file with godotenv before reading
// individual os.Getenv values (main/db/db.go's DATABASE_URL). This
// package generalizes that pattern into typed accessors so callers
// don't repeat parse-and-fallback boilerplate at each call site.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads a .env file into the process environment if one is
// present. A missing .env is not an error: production deployments are
// expected to set real environment variables instead.
func Load() {
	_ = godotenv.Load()
}

// String returns the environment variable key, or fallback if unset or
// empty.
func String(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Int returns the environment variable key parsed as an integer, or
// fallback if unset or unparsable.
func Int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Float returns the environment variable key parsed as a float64, or
// fallback if unset or unparsable.
func Float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Bool returns the environment variable key parsed as a bool, or
// fallback if unset or unparsable.
func Bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// DatabaseDSN returns DATABASE_URL whole-string if it is set (the
// teacher's main/db/db.go convention); otherwise it assembles a Postgres
// DSN from discrete PG* environment variables, using local defaults
// suitable for development for any that are unset.
func DatabaseDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := String("PGHOST", "localhost")
	port := String("PGPORT", "5432")
	user := String("PGUSER", "postgres")
	pass := String("PGPASSWORD", "")
	name := String("PGDATABASE", "tones")
	sslmode := String("PGSSLMODE", "disable")
	return "host=" + host + " port=" + port + " user=" + user +
		" password=" + pass + " dbname=" + name + " sslmode=" + sslmode
}
