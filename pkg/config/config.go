package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/sitelog/pkg/binder"
	"github.com/ccollicutt/sitelog/pkg/equipment"
	"github.com/ccollicutt/sitelog/pkg/vocab"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns the validated defaults when path is
// empty.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
func Validate(cfg *Config) error {
	for i, src := range cfg.Sources {
		if strings.TrimSpace(src) == "" {
			return fmt.Errorf("sources[%d]: empty pattern", i)
		}
	}

	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency: must be >= 0, got %d", cfg.Concurrency)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	switch cfg.Output.Format {
	case "":
		cfg.Output.Format = DefaultFormat
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output.format: invalid format %q (must be text or json)", cfg.Output.Format)
	}

	if err := validateEquipment(&cfg.Equipment); err != nil {
		return fmt.Errorf("equipment.%w", err)
	}

	if err := validateVocabularies(cfg.Vocabularies); err != nil {
		return fmt.Errorf("vocabularies.%w", err)
	}

	cfg.Metrics.Textfile = expandEnvVar(cfg.Metrics.Textfile)

	return nil
}

func validateEquipment(eq *EquipmentConfig) error {
	if _, err := equipment.New(eq.Entries()); err != nil {
		return err
	}
	if !eq.Builtin && len(eq.Antennas)+len(eq.Radomes)+len(eq.Receivers) == 0 {
		return errors.New("builtin: disabling the built-in registry requires models to be listed")
	}
	return nil
}

func validateVocabularies(vs map[string]VocabularyConfig) error {
	if len(vs) == 0 {
		return nil
	}
	set, err := vocab.Default()
	if err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(vs)) {
		v, ok := set.Get(name)
		if !ok {
			return fmt.Errorf("%s: unknown vocabulary (known: %s)", name, strings.Join(set.Names(), ", "))
		}
		if _, err := v.WithAliases(vs[name].Aliases); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Registry builds the equipment registry the configuration describes.
func (c *Config) Registry() (*equipment.Registry, error) {
	entries := c.Equipment.Entries()
	if c.Equipment.Builtin {
		builtin, err := equipment.Builtin()
		if err != nil {
			return nil, err
		}
		entries = builtin.Merge(entries)
	}
	return equipment.New(entries)
}

// VocabularySet returns the built-in vocabularies with configured aliases
// applied.
func (c *Config) VocabularySet() (*vocab.Set, error) {
	set, err := vocab.Default()
	if err != nil {
		return nil, err
	}
	for _, name := range slices.Sorted(maps.Keys(c.Vocabularies)) {
		v, ok := set.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown vocabulary %s", name)
		}
		extended, err := v.WithAliases(c.Vocabularies[name].Aliases)
		if err != nil {
			return nil, err
		}
		set = set.With(extended)
	}
	return set, nil
}

// Table builds the binder translation tables from the configured
// vocabularies and equipment.
func (c *Config) Table() (*binder.Table, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("equipment: %w", err)
	}
	vs, err := c.VocabularySet()
	if err != nil {
		return nil, fmt.Errorf("vocabularies: %w", err)
	}
	return binder.DefaultTable(binder.Lookups{Vocabularies: vs, Equipment: reg})
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
