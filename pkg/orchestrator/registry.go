package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-cassie/pkg/coupler"
	"github.com/goliatone/go-cassie/pkg/generate"
	"github.com/goliatone/go-cassie/pkg/hydrology"
	"github.com/goliatone/go-cassie/pkg/jobscript"
	"github.com/goliatone/go-cassie/pkg/plan"
)

// Generator is the surface shared by the coupler, jobscript and hydrology
// generators.
type Generator interface {
	OutputDir() string
	Generate(ctx context.Context, options ...generate.Option) (generate.Result, error)
}

// Factory builds a validated Generator from a plan.
type Factory func(p *plan.Plan) (Generator, error)

// Registry stores generator factories by section name.
type Registry struct {
	mu        sync.RWMutex
	factories map[plan.Section]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[plan.Section]Factory),
	}
}

// DefaultRegistry registers the coupler, jobs and hydrology generators.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(plan.SectionCoupler, func(p *plan.Plan) (Generator, error) {
		cfg, err := p.CouplerConfig()
		if err != nil {
			return nil, err
		}
		return coupler.New(cfg)
	})
	r.MustRegister(plan.SectionJobs, func(p *plan.Plan) (Generator, error) {
		cfg, err := p.JobsConfig()
		if err != nil {
			return nil, err
		}
		return jobscript.New(cfg)
	})
	r.MustRegister(plan.SectionHydrology, func(p *plan.Plan) (Generator, error) {
		cfg, err := p.HydrologyConfig()
		if err != nil {
			return nil, err
		}
		return hydrology.New(cfg)
	})
	return r
}

// Register adds a factory for section. Duplicate names return an error.
func (r *Registry) Register(section plan.Section, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("orchestrator: factory is required")
	}
	key := normalizeSection(section)
	if key == "" {
		return fmt.Errorf("orchestrator: section name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("orchestrator: section %q already registered", key)
	}
	r.factories[key] = factory
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(section plan.Section, factory Factory) {
	if err := r.Register(section, factory); err != nil {
		panic(err)
	}
}

// Get retrieves the factory for section.
func (r *Registry) Get(section plan.Section) (Factory, error) {
	key := normalizeSection(section)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: section name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: section %q not registered", key)
	}
	return factory, nil
}

// List returns the registered section names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for section := range r.factories {
		names = append(names, string(section))
	}
	sort.Strings(names)
	return names
}

func normalizeSection(section plan.Section) plan.Section {
	return plan.Section(strings.ToLower(strings.TrimSpace(string(section))))
}
