// Package modscope wires diff strategy selection, change extraction,
// relevance filtering, and module resolution into a single pipeline that
// yields a deterministic, deduplicated module list for CI build scoping.
package modscope

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/modscope/modscope/pkg/changeset"
	"github.com/modscope/modscope/pkg/diffstrategy"
	"github.com/modscope/modscope/pkg/modresolve"
	"github.com/modscope/modscope/pkg/relevance"
)

// ErrNoExtractor indicates Run was called without a change extractor.
var ErrNoExtractor = errors.New("no change extractor configured")

// Options configures a pipeline run.
type Options struct {
	// RepoDir is the repository root; "." when unset.
	RepoDir string

	// Strategy carries the CI context for diff strategy selection.
	Strategy diffstrategy.Context

	// Rules are the relevance conventions; zero value selects defaults.
	Rules relevance.Rules

	// Extractor produces the changed-file list.
	Extractor *changeset.Extractor

	// Prober answers manifest probes; nil selects the on-disk prober at RepoDir.
	Prober modresolve.Prober

	// Logger receives degradation warnings and the per-file trace; nil discards.
	Logger *slog.Logger

	// Tracer records per-stage spans; nil disables.
	Tracer trace.Tracer

	// Meter records pipeline counters; nil disables.
	Meter metric.Meter
}

// FileTrace records how one changed file moved through the pipeline.
type FileTrace struct {
	Path     string `yaml:"path"`
	Rule     string `yaml:"rule"`
	Relevant bool   `yaml:"relevant"`
	Module   string `yaml:"module,omitempty"`
}

// Result is the outcome of a pipeline run. Modules is the authoritative
// output; everything else is an observability side channel.
type Result struct {
	// Modules is the sorted, duplicate-free affected module list. The root
	// sentinel never appears. Empty is a valid terminal outcome.
	Modules []string

	// Strategy is the label of the diff strategy that fired.
	Strategy string

	// DiffArgs are the git arguments used for the diff.
	DiffArgs []string

	// Changed are the raw changed paths from the diff.
	Changed []string

	// Files traces each changed file's classification and resolution.
	Files []FileTrace

	// Degraded holds the diff failure diagnostic when extraction failed and
	// the run fell back to an empty change set.
	Degraded string
}

// Run executes the pipeline. A failed diff invocation degrades to an empty
// change set after a warning; only misconfiguration yields an error.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Extractor == nil {
		return Result{}, ErrNoExtractor
	}

	repoDir := opts.RepoDir
	if repoDir == "" {
		repoDir = "."
	}

	rules := opts.Rules
	if rules.Manifest == "" {
		rules = relevance.DefaultRules()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("modscope")
	}

	meter := opts.Meter
	if meter == nil {
		meter = noopmetric.NewMeterProvider().Meter("modscope")
	}

	counters := newCounters(meter)

	ctx, span := tracer.Start(ctx, "modscope.run")
	defer span.End()

	req := diffstrategy.Select(opts.Strategy)
	result := Result{Strategy: req.Label, DiffArgs: append([]string{"git"}, req.Args()...)}
	span.SetAttributes(attribute.String("modscope.strategy", req.Label))

	changed := extractChanged(ctx, tracer, logger, opts.Extractor, repoDir, req, &result)
	result.Changed = changed
	counters.changed.Add(ctx, int64(len(changed)))

	prober := opts.Prober
	if prober == nil {
		prober = modresolve.OSProber{Root: repoDir, Manifest: rules.Manifest}
	}

	resolver := modresolve.New(prober)

	_, resolveSpan := tracer.Start(ctx, "modscope.resolve")
	seen := make(map[string]struct{})

	for _, filePath := range changed {
		class := rules.Classify(filePath)
		entry := FileTrace{Path: filePath, Rule: class.Rule, Relevant: class.Relevant}

		if class.Relevant {
			counters.relevant.Add(ctx, 1)

			if module, ok := resolver.Resolve(filePath); ok {
				entry.Module = module
				seen[module] = struct{}{}
			}
		}

		logger.DebugContext(ctx, "classified changed file",
			"path", filePath, "rule", entry.Rule, "relevant", entry.Relevant, "module", entry.Module)

		result.Files = append(result.Files, entry)
	}

	resolveSpan.End()

	result.Modules = sortedModules(seen)
	counters.resolved.Add(ctx, int64(len(result.Modules)))
	logger.DebugContext(ctx, "resolved affected modules", "modules", result.Modules)

	return result, nil
}

// extractChanged runs the diff and maps any invocation fault to an empty
// change set, keeping the degrade-never-abort contract at the call site.
func extractChanged(
	ctx context.Context,
	tracer trace.Tracer,
	logger *slog.Logger,
	extractor *changeset.Extractor,
	repoDir string,
	req diffstrategy.Request,
	result *Result,
) []string {
	ctx, span := tracer.Start(ctx, "modscope.extract")
	defer span.End()

	changed, err := extractor.Extract(ctx, repoDir, req)
	if err != nil {
		result.Degraded = err.Error()

		var diffErr *changeset.DiffError
		if errors.As(err, &diffErr) {
			logger.WarnContext(ctx, "git diff failed, degrading to empty change set",
				"args", diffErr.Args, "exit_code", diffErr.ExitCode, "stderr", diffErr.Stderr)
		} else {
			logger.WarnContext(ctx, "git diff failed, degrading to empty change set", "error", err)
		}

		return nil
	}

	return changed
}

func sortedModules(seen map[string]struct{}) []string {
	modules := make([]string, 0, len(seen))
	for module := range seen {
		modules = append(modules, module)
	}

	sort.Strings(modules)

	return modules
}

type counters struct {
	changed  metric.Int64Counter
	relevant metric.Int64Counter
	resolved metric.Int64Counter
}

func newCounters(meter metric.Meter) counters {
	changed, err := meter.Int64Counter("modscope.files.changed",
		metric.WithDescription("Changed files reported by the diff."))
	if err != nil {
		changed = noopmetric.Int64Counter{}
	}

	relevant, err := meter.Int64Counter("modscope.files.relevant",
		metric.WithDescription("Changed files classified as build-relevant."))
	if err != nil {
		relevant = noopmetric.Int64Counter{}
	}

	resolved, err := meter.Int64Counter("modscope.modules.resolved",
		metric.WithDescription("Distinct modules resolved from the change set."))
	if err != nil {
		resolved = noopmetric.Int64Counter{}
	}

	return counters{changed: changed, relevant: relevant, resolved: resolved}
}
