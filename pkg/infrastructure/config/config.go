// Package config loads portal configuration from environment variables, with
// a best-effort .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"
)

const (
	defaultAddr               = ":8080"
	defaultMirrorDBPath       = "./erp_mirror.db"
	defaultEnv                = "dev"
	defaultPackagingPrefix    = "PKG-"
	defaultForecastBufferDays = 2
)

// Config holds portal configuration sourced from environment variables.
type Config struct {
	Addr               string
	MirrorDBPath       string
	Env                string
	PackagingPrefix    string
	ForecastBufferDays int
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables. Missing file is
	// fine; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		Addr:               os.Getenv("PORTAL_ADDR"),
		MirrorDBPath:       os.Getenv("ERP_MIRROR_DB"),
		Env:                os.Getenv("PORTAL_ENV"),
		PackagingPrefix:    os.Getenv("PACKAGING_PREFIX"),
		ForecastBufferDays: intEnv("FORECAST_BUFFER_DAYS", defaultForecastBufferDays),
	}

	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.MirrorDBPath == "" {
		cfg.MirrorDBPath = defaultMirrorDBPath
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.PackagingPrefix == "" {
		cfg.PackagingPrefix = defaultPackagingPrefix
	}

	return cfg
}

// IsDev reports whether the portal runs in development mode (migrations and
// seed data applied on startup).
func (c Config) IsDev() bool {
	return c.Env == "dev"
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warning: %s is not an integer, using %d", key, def)
		return def
	}
	return n
}
