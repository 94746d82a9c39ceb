package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sitelog/pkg/config"
	"github.com/ccollicutt/sitelog/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a sitelog configuration file without checking any site logs.

Checks:
  - YAML syntax
  - Concurrency and output settings
  - Equipment model lists
  - Vocabulary alias targets
  - Source pattern matches (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	registry, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	vocabularies, err := cfg.VocabularySet()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	table, err := cfg.Table()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Sources:     %d pattern(s)\n", len(cfg.Sources))
	fmt.Fprintf(w, "  Concurrency: %d\n", cfg.Concurrency)
	fmt.Fprintf(w, "  Output:      %s\n", cfg.Output.Format)
	fmt.Fprintf(w, "  Sections:    %d translation tables\n", len(table.Headings()))

	fmt.Fprintf(w, "\nEquipment:\n")
	fmt.Fprintf(w, "  Antennas:          %d\n", registry.Antennas().Len())
	fmt.Fprintf(w, "  Radomes:           %d\n", registry.Radomes().Len())
	fmt.Fprintf(w, "  Receivers:         %d\n", registry.Receivers().Len())
	fmt.Fprintf(w, "  Satellite systems: %d\n", registry.SatelliteSystems().Len())

	fmt.Fprintf(w, "\nVocabularies:\n")
	for _, name := range vocabularies.Names() {
		v, _ := vocabularies.Get(name)
		fmt.Fprintf(w, "  %-24s %d\n", name, v.Len())
	}

	if len(cfg.Sources) == 0 {
		return nil
	}
	files, err := parser.ExpandGlobs(cfg.Sources)
	switch {
	case err != nil:
		fmt.Fprintf(w, "\nWarning: Error expanding source patterns: %v\n", err)
	case len(files) == 0:
		fmt.Fprintf(w, "\nWarning: No files match source patterns\n")
	default:
		fmt.Fprintf(w, "\nSite logs matched: %d\n", len(files))
		for _, f := range files {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}

	return nil
}
