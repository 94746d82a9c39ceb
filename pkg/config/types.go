// Package config provides configuration loading and validation for sitelog.
package config

import (
	"github.com/ccollicutt/sitelog/pkg/equipment"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Sources are the globs checked when no paths are given on the command
	// line.
	Sources []string `yaml:"sources"`

	// SiteNameFromFilename derives the expected site name from the file
	// name prefix, e.g. ABCD00USA_20240101.log.
	SiteNameFromFilename bool `yaml:"site_name_from_filename"`

	// Concurrency is the number of documents checked in parallel.
	Concurrency int `yaml:"concurrency"`

	Equipment    EquipmentConfig             `yaml:"equipment"`
	Vocabularies map[string]VocabularyConfig `yaml:"vocabularies,omitempty"`
	Output       OutputConfig                `yaml:"output"`
	Metrics      MetricsConfig               `yaml:"metrics"`
}

// EquipmentConfig extends or replaces the built-in equipment registry.
type EquipmentConfig struct {
	// Builtin starts from the embedded registry. Defaults to true.
	Builtin bool `yaml:"builtin"`

	Antennas         []string          `yaml:"antennas,omitempty"`
	Radomes          []string          `yaml:"radomes,omitempty"`
	Receivers        []string          `yaml:"receivers,omitempty"`
	SatelliteSystems []equipment.Model `yaml:"satellite_systems,omitempty"`
}

// Entries returns the configured models.
func (e EquipmentConfig) Entries() equipment.Entries {
	return equipment.Entries{
		Antennas:         e.Antennas,
		Radomes:          e.Radomes,
		Receivers:        e.Receivers,
		SatelliteSystems: e.SatelliteSystems,
	}
}

// VocabularyConfig adds aliases to a built-in vocabulary, keyed by the
// stored value they resolve to.
type VocabularyConfig struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// OutputFormat selects the report renderer.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format OutputFormat `yaml:"format"`
	// Verbose includes Ignored findings and bound values in reports.
	Verbose bool `yaml:"verbose"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition after
	// each run. ${VAR} references are expanded.
	Textfile string `yaml:"textfile,omitempty"`
}
