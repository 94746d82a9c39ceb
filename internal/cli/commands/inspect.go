package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sitelog/pkg/checker"
	"github.com/ccollicutt/sitelog/pkg/config"
	"github.com/ccollicutt/sitelog/pkg/finding"
	"github.com/ccollicutt/sitelog/pkg/parser"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	Config   string
	Output   string
	SiteName string
	Bind     bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <site-log>",
		Short: "Show how a site log is parsed",
		Long: `Print the section tree recovered from a site log, the trailing antenna
graphic and every finding, each next to the line it refers to.

With --bind the document is also bound and the typed values of every
section are shown.

Example:
  sitelog inspect abcd00usa_20240101.log
  sitelog inspect --bind -o json abcd00usa_20240101.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.SiteName, "site-name", "", "Expected site name")
	cmd.Flags().BoolVar(&opts.Bind, "bind", false, "Bind the document and show typed values")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	path := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	lines, err := parser.ReadFile(ctx, path)
	if err != nil {
		return err
	}

	var log *parser.SiteLog
	if opts.Bind {
		cfg, err := config.LoadOrDefault(ctx, opts.Config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		table, err := cfg.Table()
		if err != nil {
			return fmt.Errorf("building translation table: %w", err)
		}
		c := checker.New(table, checker.WithLogger(logger), checker.WithSiteName(opts.SiteName))
		log = c.CheckLines(ctx, path, lines).Log
	} else {
		popts := []parser.Option{parser.WithLogger(logger)}
		if opts.SiteName != "" {
			popts = append(popts, parser.WithSiteName(strings.ToUpper(opts.SiteName)))
		}
		log = parser.ParseLines(lines, popts...)
	}

	switch opts.Output {
	case "json":
		return outputInspectJSON(cmd.OutOrStdout(), log)
	case "text":
		outputInspectText(cmd.OutOrStdout(), path, log, opts.Bind)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputInspectText(w io.Writer, path string, log *parser.SiteLog, bind bool) {
	fmt.Fprintln(w, "=== Site Log Structure ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", path)
	if log.SiteName != "" {
		fmt.Fprintf(w, "Site: %s (%s)\n", log.SiteName, log.NameMatch)
	}
	fmt.Fprintf(w, "Sections: %d\n", len(log.Sections))
	fmt.Fprintln(w)

	for _, sec := range log.Ordered() {
		fmt.Fprint(w, sec.String())
		if bind && sec.Binding() != nil {
			for _, name := range sec.BoundFields() {
				v, _ := sec.Value(name)
				fmt.Fprintf(w, "\t  %s = %v\n", name, v)
			}
		}
	}

	if log.Graphic != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Graphic:")
		fmt.Fprintln(w, log.Graphic)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d errors, %d warnings, %d ignored\n",
		log.Findings.Count(finding.Error),
		log.Findings.Count(finding.Warning),
		log.Findings.Count(finding.Ignored))
	for _, f := range log.Findings.All() {
		fmt.Fprintln(w, f.Format(log.Lines))
	}
}

type inspectParameter struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Line    int    `json:"line"`
	LineEnd int    `json:"line_end"`
}

type inspectSection struct {
	Index      string             `json:"index"`
	Header     string             `json:"header"`
	Line       int                `json:"line"`
	LineEnd    int                `json:"line_end"`
	Parameters []inspectParameter `json:"parameters"`
	Values     map[string]any     `json:"values,omitempty"`
}

type inspectDocument struct {
	SiteName  string            `json:"site_name,omitempty"`
	NameMatch parser.NameMatch  `json:"name_match"`
	Valid     bool              `json:"valid"`
	Sections  []inspectSection  `json:"sections"`
	Graphic   string            `json:"graphic,omitempty"`
	Findings  []finding.Finding `json:"findings"`
}

func outputInspectJSON(w io.Writer, log *parser.SiteLog) error {
	doc := inspectDocument{
		SiteName:  log.SiteName,
		NameMatch: log.NameMatch,
		Valid:     log.IsValid(),
		Sections:  []inspectSection{},
		Graphic:   log.Graphic,
		Findings:  log.Findings.All(),
	}
	if doc.Findings == nil {
		doc.Findings = []finding.Finding{}
	}
	for _, sec := range log.Ordered() {
		s := inspectSection{
			Index:   sec.IndexString(),
			Header:  sec.Header,
			Line:    sec.Line,
			LineEnd: sec.LineEnd,
			Values:  sec.Binding(),
		}
		for _, p := range sec.Parameters() {
			s.Parameters = append(s.Parameters, inspectParameter{
				Name:    p.Name,
				Value:   p.Value(),
				Line:    p.Line,
				LineEnd: p.LineEnd,
			})
		}
		doc.Sections = append(doc.Sections, s)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
