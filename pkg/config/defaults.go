package config

import (
	"os"
	"strconv"
)

// Default values for configuration.
const (
	DefaultConcurrency = 4
	DefaultFormat      = OutputText
)

// Environment variable names.
const (
	EnvConcurrency  = "SITELOG_CONCURRENCY"
	EnvOutputFormat = "SITELOG_OUTPUT_FORMAT"
	EnvMetricsFile  = "SITELOG_METRICS_FILE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sources:     []string{},
		Concurrency: DefaultConcurrency,
		Equipment:   EquipmentConfig{Builtin: true},
		Output:      OutputConfig{Format: DefaultFormat},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.Format = OutputFormat(v)
	}
	if v := os.Getenv(EnvMetricsFile); v != "" {
		c.Metrics.Textfile = v
	}
}
