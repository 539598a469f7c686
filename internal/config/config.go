// Package config reads server settings from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the environment win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server settings.
type Config struct {
	Port               int
	DatabaseURL        string // empty keeps run history in memory
	RateLimitRPS       int
	RateLimitBurst     int
	SessionMaxAge      time.Duration
	SessionIdleTimeout time.Duration
	DefaultTarget      string
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Port:               8080,
		RateLimitRPS:       20,
		RateLimitBurst:     40,
		SessionMaxAge:      24 * time.Hour,
		SessionIdleTimeout: 30 * time.Minute,
		DefaultTarget:      "python",
	}
}

// Load reads the optional env files (".env" if none are named) and then the
// environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("config: load env file: %w", err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a variable lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Defaults()
	var err error

	if cfg.Port, err = intVar(lookup, "PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.DatabaseURL = v
	}
	if cfg.RateLimitRPS, err = intVar(lookup, "RATE_LIMIT_RPS", cfg.RateLimitRPS); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = intVar(lookup, "RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return Config{}, err
	}
	if cfg.SessionMaxAge, err = durationVar(lookup, "SESSION_MAX_AGE", cfg.SessionMaxAge); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdleTimeout, err = durationVar(lookup, "SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout); err != nil {
		return Config{}, err
	}
	if v, ok := lookup("DEFAULT_TARGET"); ok && v != "" {
		cfg.DefaultTarget = v
	}
	return cfg, nil
}

func intVar(lookup func(string) (string, bool), name string, def int) (int, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", name, err)
	}
	return n, nil
}

func durationVar(lookup func(string) (string, bool), name string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", name, err)
	}
	return d, nil
}
