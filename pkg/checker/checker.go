package checker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/sitelog/pkg/binder"
	"github.com/ccollicutt/sitelog/pkg/metrics"
	"github.com/ccollicutt/sitelog/pkg/parser"
)

// Checker parses and binds site logs against a translation table.
type Checker struct {
	binder *binder.Binder

	logger           *slog.Logger
	metrics          *metrics.Metrics
	concurrency      int
	nameFromFilename bool
	siteName         string
}

// Option configures checker behavior.
type Option func(*Checker)

// WithLogger sets the logger. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// WithMetrics records each check on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Checker) { c.metrics = m }
}

// WithConcurrency bounds how many files CheckFiles works on at once.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithSiteNameFromFilename derives the expected site name from each file
// name when no explicit name is set.
func WithSiteNameFromFilename(v bool) Option {
	return func(c *Checker) { c.nameFromFilename = v }
}

// WithSiteName checks every document against name.
func WithSiteName(name string) Option {
	return func(c *Checker) { c.siteName = strings.ToUpper(strings.TrimSpace(name)) }
}

// New creates a checker for table.
func New(table *binder.Table, opts ...Option) *Checker {
	c := &Checker{concurrency: 1}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	bopts := []binder.Option{binder.WithLogger(c.logger)}
	if c.metrics != nil {
		bopts = append(bopts, binder.WithRecorder(c.metrics))
	}
	c.binder = binder.New(table, bopts...)
	return c
}

// SiteNameFromPath returns the site name encoded in a file name such as
// ABCD00USA_20240101.log, or "" when the prefix before the first
// underscore or dot is not 4 or 9 characters long.
func SiteNameFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexAny(base, "_."); i >= 0 {
		base = base[:i]
	}
	if len(base) != 4 && len(base) != 9 {
		return ""
	}
	return strings.ToUpper(base)
}

func (c *Checker) expectedName(path string) string {
	if c.siteName != "" {
		return c.siteName
	}
	if c.nameFromFilename {
		return SiteNameFromPath(path)
	}
	return ""
}

// CheckLines parses and binds an in-memory document. name labels the
// result and may be used to derive the expected site name.
func (c *Checker) CheckLines(_ context.Context, name string, lines []string) *Result {
	start := time.Now()
	res := &Result{Path: name, ExpectedName: c.expectedName(name)}

	popts := []parser.Option{parser.WithLogger(c.logger.With("file", name))}
	if res.ExpectedName != "" {
		popts = append(popts, parser.WithSiteName(res.ExpectedName))
	}
	res.Log = parser.ParseLines(lines, popts...)
	parsed := time.Now()
	c.metrics.ObservePhase("parse", parsed.Sub(start))

	res.Stats = c.binder.Bind(res.Log)
	c.metrics.ObservePhase("bind", time.Since(parsed))
	c.metrics.ObserveUnexpected(res.Stats.Unexpected)

	res.Duration = time.Since(start)
	result := metrics.ResultValid
	if !res.Valid() {
		result = metrics.ResultInvalid
	}
	c.metrics.ObserveDocument(result, res.Log.Findings)

	c.logger.Info("checked site log",
		"file", name,
		"site", res.Log.SiteName,
		"valid", res.Valid(),
		"errors", len(res.Log.Findings.Errors()),
		"warnings", len(res.Log.Findings.Warnings()),
		"duration", res.Duration)
	return res
}

// CheckFile reads and checks one file. Only read failures are returned as
// errors; problems in the document are findings.
func (c *Checker) CheckFile(ctx context.Context, path string) (*Result, error) {
	lines, err := parser.ReadFile(ctx, path)
	if err != nil {
		c.metrics.ObserveDocument(metrics.ResultFailed, nil)
		return nil, err
	}
	return c.CheckLines(ctx, path, lines), nil
}

// CheckFiles checks paths concurrently. A file that cannot be read yields
// a Result with Err set; the returned error is only set when ctx ends.
func (c *Checker) CheckFiles(ctx context.Context, paths []string) (*Run, error) {
	run := &Run{Results: make([]*Result, len(paths)), StartTime: time.Now()}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := c.CheckFile(gctx, path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				c.logger.Warn("could not check site log", "file", path, "error", err)
				res = &Result{Path: path, ExpectedName: c.expectedName(path), Err: err}
			}
			run.Results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("checking site logs: %w", err)
	}

	run.EndTime = time.Now()
	c.metrics.MarkRun(run.EndTime)
	return run, nil
}
