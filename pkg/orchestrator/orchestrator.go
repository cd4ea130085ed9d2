package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-cassie/internal/logging"
	"github.com/goliatone/go-cassie/pkg/generate"
	"github.com/goliatone/go-cassie/pkg/plan"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry replaces the default generator registry.
func WithRegistry(registry *Registry) Option {
	return func(o *Orchestrator) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// WithLogger overrides the logger taken from the context.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithSink routes every artifact through sink instead of the filesystem.
func WithSink(sink generate.Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithDryRun renders every section without writing.
func WithDryRun(enabled bool) Option {
	return func(o *Orchestrator) {
		o.dryRun = enabled
	}
}

// WithMkdir creates each section's output directory before writing.
func WithMkdir(enabled bool) Option {
	return func(o *Orchestrator) {
		o.mkdir = enabled
	}
}

// Orchestrator runs plan sections through their generators.
type Orchestrator struct {
	registry *Registry
	logger   *zap.Logger
	sink     generate.Sink
	dryRun   bool
	mkdir    bool
}

// New constructs an Orchestrator with the default registry unless one is
// supplied.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	return o
}

// Request selects what to generate.
type Request struct {
	// Plan supplies every section's settings. Required.
	Plan *plan.Plan

	// Sections restricts the pass. When empty, every section present in the
	// plan runs, in plan.Sections order.
	Sections []plan.Section
}

// Generate validates every requested section, then writes them in order.
// Results for sections that completed are returned alongside any error.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]generate.Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Plan == nil {
		return nil, errors.New("orchestrator: plan is required")
	}

	logger := o.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	sections := req.Sections
	if len(sections) == 0 {
		sections = req.Plan.Present()
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("orchestrator: %s has no sections to generate", sourceName(req.Plan))
	}

	generators := make([]Generator, 0, len(sections))
	for _, section := range sections {
		factory, err := o.registry.Get(section)
		if err != nil {
			return nil, err
		}
		gen, err := factory(req.Plan)
		if err != nil {
			return nil, err
		}
		generators = append(generators, gen)
	}

	if o.mkdir && !o.dryRun {
		for _, gen := range generators {
			if err := generate.EnsureDir(gen.OutputDir()); err != nil {
				return nil, fmt.Errorf("orchestrator: %w", err)
			}
		}
	}

	options := []generate.Option{
		generate.WithLogger(logger),
		generate.WithDryRun(o.dryRun),
		generate.WithSink(o.sink),
	}
	results := make([]generate.Result, 0, len(generators))
	for _, gen := range generators {
		result, err := gen.Generate(ctx, options...)
		if len(result.Artifacts) > 0 || err == nil {
			results = append(results, result)
		}
		if err != nil {
			return results, err
		}
	}

	logger.Info("plan complete",
		zap.String("plan", sourceName(req.Plan)),
		zap.Int("sections", len(results)),
		zap.Bool("dry_run", o.dryRun),
	)
	return results, nil
}

func sourceName(p *plan.Plan) string {
	if p.Source != "" {
		return p.Source
	}
	return "plan"
}
