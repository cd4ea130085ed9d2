// Package cassie generates the input files for Cassandra coupled GCAM,
// Xanthos and fldgen runs: coupler configs, SLURM job scripts and Xanthos
// configs. The functions here are the quick entry points; the pkg/ packages
// expose the full generators.
package cassie

import (
	"context"

	"github.com/goliatone/go-cassie/pkg/coupler"
	"github.com/goliatone/go-cassie/pkg/generate"
	"github.com/goliatone/go-cassie/pkg/hydrology"
	"github.com/goliatone/go-cassie/pkg/jobscript"
	"github.com/goliatone/go-cassie/pkg/orchestrator"
	"github.com/goliatone/go-cassie/pkg/plan"
)

// CouplerConfig aliases coupler.Config.
type CouplerConfig = coupler.Config

// JobScriptConfig aliases jobscript.Config.
type JobScriptConfig = jobscript.Config

// HydrologyConfig aliases hydrology.Config.
type HydrologyConfig = hydrology.Config

// Result aliases generate.Result.
type Result = generate.Result

// BuildCouplerConfigs writes one coupler config per scenario, model and run.
func BuildCouplerConfigs(ctx context.Context, cfg CouplerConfig, options ...generate.Option) (Result, error) {
	gen, err := coupler.New(cfg)
	if err != nil {
		return Result{Component: coupler.Component}, err
	}
	return gen.Generate(ctx, options...)
}

// BuildJobScripts writes one SLURM script per model and scenario.
func BuildJobScripts(ctx context.Context, cfg JobScriptConfig, options ...generate.Option) (Result, error) {
	gen, err := jobscript.New(cfg)
	if err != nil {
		return Result{Component: jobscript.Component}, err
	}
	return gen.Generate(ctx, options...)
}

// BuildHydrologyConfigs writes one Xanthos config per model, scenario and
// run.
func BuildHydrologyConfigs(ctx context.Context, cfg HydrologyConfig, options ...generate.Option) (Result, error) {
	gen, err := hydrology.New(cfg)
	if err != nil {
		return Result{Component: hydrology.Component}, err
	}
	return gen.Generate(ctx, options...)
}

// RunPlan loads the plan file at path and runs every section it carries.
func RunPlan(ctx context.Context, path string, options ...orchestrator.Option) ([]Result, error) {
	p, err := plan.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{Plan: p})
}
