package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds run configuration for the pricing engine.
type Config struct {
	InputFile    string
	OutputFile   string
	OutputFormat string // csv, json, or dual
	Engine       string // browser or static
	DelayMin     time.Duration
	DelayMax     time.Duration
	Timeout      time.Duration
	UserAgent    string
	UserDataDir  string // Chrome user-data-dir for the browser engine
	ProfileDir   string // Chrome profile-directory for the browser engine
	CacheSize    int
	MetricsAddr  string
	Verbose      bool
}

// DefaultConfig returns the standing defaults. The delay window matches the
// politeness contract for consecutive marketplace searches.
func DefaultConfig() *Config {
	return &Config{
		OutputFormat: "csv",
		Engine:       "browser",
		DelayMin:     15 * time.Second,
		DelayMax:     40 * time.Second,
		Timeout:      19 * time.Second,
		UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		CacheSize:    128,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.DelayMin < 0 {
		return fmt.Errorf("delay min cannot be negative")
	}
	if c.DelayMax < c.DelayMin {
		return fmt.Errorf("delay max (%s) cannot be below delay min (%s)", c.DelayMax, c.DelayMin)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.Engine != "browser" && c.Engine != "static" {
		return fmt.Errorf("engine must be browser or static")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}

// EnvString reads a string override from the environment.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer override from the environment.
func EnvInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}
