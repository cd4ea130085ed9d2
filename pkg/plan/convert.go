package plan

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-cassie/pkg/coupler"
	"github.com/goliatone/go-cassie/pkg/hydrology"
	"github.com/goliatone/go-cassie/pkg/jobscript"
)

// ErrSectionMissing reports that a plan lacks a requested section.
var ErrSectionMissing = errors.New("plan: section missing")

func missing(p *Plan, section Section) error {
	source := p.Source
	if source == "" {
		source = "plan"
	}
	return fmt.Errorf("%w: %s has no %q section", ErrSectionMissing, source, section)
}

// CouplerConfig merges the coupler section onto coupler.DefaultConfig.
func (p *Plan) CouplerConfig() (coupler.Config, error) {
	if !p.Has(SectionCoupler) {
		return coupler.Config{}, missing(p, SectionCoupler)
	}
	s := p.Coupler
	cfg := coupler.DefaultConfig()
	cfg.Models = pick(s.Models, p.Models)
	cfg.Scenarios = pick(s.Scenarios, p.Scenarios)
	setValue(&cfg.OutputDir, s.OutputDir)
	setValue(&cfg.RunsPerConfig, s.RunsPerConfig)
	setValue(&cfg.ModelInterfaceJar, s.ModelInterfaceJar)
	setValue(&cfg.DBXMLLib, s.DBXMLLib)
	setValue(&cfg.InputDir, s.InputDir)
	setValue(&cfg.RegionConfig, s.RegionConfig)

	if x := s.Xanthos; x != nil {
		setValue(&cfg.Xanthos.Enabled, x.Enabled)
		setValue(&cfg.Xanthos.ConfigDir, x.ConfigDir)
		setValue(&cfg.Xanthos.MPIWeight, x.MPIWeight)
		x.Abbreviations.apply(&cfg.Xanthos.Abbreviations)
	}
	if f := s.Fldgen; f != nil {
		setValue(&cfg.Fldgen.Enabled, f.Enabled)
		setValue(&cfg.Fldgen.NGrids, f.NGrids)
		setValue(&cfg.Fldgen.StartYear, f.StartYear)
		setValue(&cfg.Fldgen.ThroughYear, f.ThroughYear)
		setValue(&cfg.Fldgen.MPIWeight, f.MPIWeight)
		setValue(&cfg.Fldgen.LoadPackages, f.LoadPackages)
		setValue(&cfg.Fldgen.PackageDir, f.PackageDir)
		setValue(&cfg.Fldgen.EmulatorDir, f.EmulatorDir)
		setValue(&cfg.Fldgen.TgavDir, f.TgavDir)
	}
	return cfg, nil
}

// JobsConfig merges the jobs section onto jobscript.DefaultConfig.
func (p *Plan) JobsConfig() (jobscript.Config, error) {
	if !p.Has(SectionJobs) {
		return jobscript.Config{}, missing(p, SectionJobs)
	}
	s := p.Jobs
	cfg := jobscript.DefaultConfig()
	cfg.Models = pick(s.Models, p.Models)
	cfg.Scenarios = pick(s.Scenarios, p.Scenarios)
	setValue(&cfg.OutputDir, s.OutputDir)
	setValue(&cfg.CassandraConfigDir, s.CassandraConfigDir)
	setValue(&cfg.CassandraLogDir, s.CassandraLogDir)
	setValue(&cfg.CassandraMainScript, s.CassandraMainScript)
	setValue(&cfg.Account, s.Account)
	setValue(&cfg.Partition, s.Partition)
	setValue(&cfg.Walltime, s.Walltime)
	setValue(&cfg.NTasks, s.NTasks)
	setValue(&cfg.Nodes, s.Nodes)
	setValue(&cfg.JobName, s.JobName)
	setValue(&cfg.LogDir, s.LogDir)
	setValue(&cfg.TemplatePath, s.Template)
	return cfg, nil
}

// HydrologyConfig merges the hydrology section onto hydrology.DefaultConfig.
func (p *Plan) HydrologyConfig() (hydrology.Config, error) {
	if !p.Has(SectionHydrology) {
		return hydrology.Config{}, missing(p, SectionHydrology)
	}
	s := p.Hydrology
	cfg := hydrology.DefaultConfig()
	cfg.Models = pick(s.Models, p.Models)
	cfg.Scenarios = pick(s.Scenarios, p.Scenarios)
	setValue(&cfg.OutputDir, s.OutputDir)
	setValue(&cfg.NConfigs, s.NConfigs)
	setValue(&cfg.RootDir, s.RootDir)
	setValue(&cfg.ModelOutputDir, s.ModelOutputDir)
	setValue(&cfg.DroughtThresholdsDir, s.DroughtThresholdsDir)
	setValue(&cfg.OutputVariables, s.OutputVariables)
	setValue(&cfg.DroughtStats, s.DroughtStats)
	setValue(&cfg.TemplatePath, s.Template)
	s.Abbreviations.apply(&cfg.Abbreviations)
	return cfg, nil
}

// pick prefers a section's own list over the shared one. An explicit empty
// list in the section still overrides.
func pick(own, shared []string) []string {
	if own != nil {
		return slices.Clone(own)
	}
	return slices.Clone(shared)
}

func setValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
