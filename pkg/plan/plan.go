// Package plan describes a whole generation pass in one file. A plan lists
// the shared models and scenarios and carries optional coupler, jobs and
// hydrology sections. Unset fields fall back to each generator's defaults.
//
// Plans are written in YAML, JSON or HCL. The same schema applies to all
// three; HCL plans may also read environment variables through env.NAME and
// call upper, lower, format and join.
package plan

import (
	"slices"

	"github.com/goliatone/go-cassie/pkg/naming"
)

// Section names a plan section.
type Section string

const (
	SectionCoupler   Section = "coupler"
	SectionJobs      Section = "jobs"
	SectionHydrology Section = "hydrology"
)

// Sections lists every section in the order a full pass runs them.
var Sections = []Section{SectionCoupler, SectionJobs, SectionHydrology}

// Plan is the decoded form of a plan file.
type Plan struct {
	Models    []string `yaml:"models,omitempty" hcl:"models,optional"`
	Scenarios []string `yaml:"scenarios,omitempty" hcl:"scenarios,optional"`

	Coupler   *CouplerSection   `yaml:"coupler,omitempty" hcl:"coupler,block"`
	Jobs      *JobsSection      `yaml:"jobs,omitempty" hcl:"jobs,block"`
	Hydrology *HydrologySection `yaml:"hydrology,omitempty" hcl:"hydrology,block"`

	// Source records where the plan was read from.
	Source string `yaml:"-"`
}

// Names is a section's own model or scenario list. A nil list inherits the
// plan's shared list; an empty one overrides it and is kept on encode.
type Names []string

// IsZero reports whether the list is unset, so omitempty drops only nil.
func (n Names) IsZero() bool {
	return n == nil
}

// Abbreviations mirrors naming.Abbreviations for plan files.
type Abbreviations struct {
	PET    *string `yaml:"pet,omitempty" hcl:"pet,optional"`
	Runoff *string `yaml:"runoff,omitempty" hcl:"runoff,optional"`
	Router *string `yaml:"router,omitempty" hcl:"router,optional"`
}

func (a *Abbreviations) apply(dst *naming.Abbreviations) {
	if a == nil {
		return
	}
	setAbbrev(&dst.PET, a.PET)
	setAbbrev(&dst.Runoff, a.Runoff)
	setAbbrev(&dst.Router, a.Router)
}

// Prefix returns the run prefix the abbreviations produce.
func (a *Abbreviations) Prefix() string {
	var n naming.Abbreviations
	a.apply(&n)
	return n.Prefix()
}

// Clone returns a deep copy. A nil receiver yields nil.
func (a *Abbreviations) Clone() *Abbreviations {
	if a == nil {
		return nil
	}
	clone := func(v *string) *string {
		if v == nil {
			return nil
		}
		return Ptr(*v)
	}
	return &Abbreviations{PET: clone(a.PET), Runoff: clone(a.Runoff), Router: clone(a.Router)}
}

func setAbbrev(dst **string, src *string) {
	if src != nil {
		*dst = naming.Abbrev(*src)
	}
}

// CouplerSection configures the Cassandra coupler configs.
type CouplerSection struct {
	Models    Names `yaml:"models,omitempty" hcl:"models,optional"`
	Scenarios Names `yaml:"scenarios,omitempty" hcl:"scenarios,optional"`

	OutputDir         *string `yaml:"output_dir,omitempty" hcl:"output_dir,optional"`
	RunsPerConfig     *int    `yaml:"runs_per_config,omitempty" hcl:"runs_per_config,optional"`
	ModelInterfaceJar *string `yaml:"model_interface_jar,omitempty" hcl:"model_interface_jar,optional"`
	DBXMLLib          *string `yaml:"dbxml_lib,omitempty" hcl:"dbxml_lib,optional"`
	InputDir          *string `yaml:"input_dir,omitempty" hcl:"input_dir,optional"`
	RegionConfig      *string `yaml:"region_config,omitempty" hcl:"region_config,optional"`

	Xanthos *XanthosSection `yaml:"xanthos,omitempty" hcl:"xanthos,block"`
	Fldgen  *FldgenSection  `yaml:"fldgen,omitempty" hcl:"fldgen,block"`
}

// XanthosSection configures the XanthosComponent section of coupler configs.
type XanthosSection struct {
	Enabled       *bool          `yaml:"enabled,omitempty" hcl:"enabled,optional"`
	ConfigDir     *string        `yaml:"config_dir,omitempty" hcl:"config_dir,optional"`
	MPIWeight     *float64       `yaml:"mp_weight,omitempty" hcl:"mp_weight,optional"`
	Abbreviations *Abbreviations `yaml:"abbreviations,omitempty" hcl:"abbreviations,block"`
}

// FldgenSection configures the FldgenComponent section of coupler configs.
type FldgenSection struct {
	Enabled      *bool    `yaml:"enabled,omitempty" hcl:"enabled,optional"`
	NGrids       *int     `yaml:"ngrids,omitempty" hcl:"ngrids,optional"`
	StartYear    *int     `yaml:"start_year,omitempty" hcl:"start_year,optional"`
	ThroughYear  *int     `yaml:"through_year,omitempty" hcl:"through_year,optional"`
	MPIWeight    *float64 `yaml:"mp_weight,omitempty" hcl:"mp_weight,optional"`
	LoadPackages *bool    `yaml:"load_packages,omitempty" hcl:"load_packages,optional"`
	PackageDir   *string  `yaml:"package_dir,omitempty" hcl:"package_dir,optional"`
	EmulatorDir  *string  `yaml:"emulator_dir,omitempty" hcl:"emulator_dir,optional"`
	TgavDir      *string  `yaml:"tgav_dir,omitempty" hcl:"tgav_dir,optional"`
}

// JobsSection configures the SLURM job scripts.
type JobsSection struct {
	Models    Names `yaml:"models,omitempty" hcl:"models,optional"`
	Scenarios Names `yaml:"scenarios,omitempty" hcl:"scenarios,optional"`

	OutputDir           *string `yaml:"output_dir,omitempty" hcl:"output_dir,optional"`
	CassandraConfigDir  *string `yaml:"cassandra_config_dir,omitempty" hcl:"cassandra_config_dir,optional"`
	CassandraLogDir     *string `yaml:"cassandra_log_dir,omitempty" hcl:"cassandra_log_dir,optional"`
	CassandraMainScript *string `yaml:"cassandra_main_script,omitempty" hcl:"cassandra_main_script,optional"`
	Account             *string `yaml:"account,omitempty" hcl:"account,optional"`
	Partition           *string `yaml:"partition,omitempty" hcl:"partition,optional"`
	Walltime            *string `yaml:"walltime,omitempty" hcl:"walltime,optional"`
	NTasks              *int    `yaml:"ntasks,omitempty" hcl:"ntasks,optional"`
	Nodes               *int    `yaml:"nodes,omitempty" hcl:"nodes,optional"`
	JobName             *string `yaml:"job_name,omitempty" hcl:"job_name,optional"`
	LogDir              *string `yaml:"log_dir,omitempty" hcl:"log_dir,optional"`
	Template            *string `yaml:"template,omitempty" hcl:"template,optional"`
}

// HydrologySection configures the Xanthos configuration files.
type HydrologySection struct {
	Models    Names `yaml:"models,omitempty" hcl:"models,optional"`
	Scenarios Names `yaml:"scenarios,omitempty" hcl:"scenarios,optional"`

	OutputDir            *string        `yaml:"output_dir,omitempty" hcl:"output_dir,optional"`
	NConfigs             *int           `yaml:"nconfigs,omitempty" hcl:"nconfigs,optional"`
	RootDir              *string        `yaml:"root_dir,omitempty" hcl:"root_dir,optional"`
	ModelOutputDir       *string        `yaml:"model_output_dir,omitempty" hcl:"model_output_dir,optional"`
	DroughtThresholdsDir *string        `yaml:"drought_thresholds_dir,omitempty" hcl:"drought_thresholds_dir,optional"`
	OutputVariables      *string        `yaml:"output_vars,omitempty" hcl:"output_vars,optional"`
	DroughtStats         *int           `yaml:"drought_stats,omitempty" hcl:"drought_stats,optional"`
	Template             *string        `yaml:"template,omitempty" hcl:"template,optional"`
	Abbreviations        *Abbreviations `yaml:"abbreviations,omitempty" hcl:"abbreviations,block"`
}

// Has reports whether the plan carries the named section.
func (p *Plan) Has(section Section) bool {
	if p == nil {
		return false
	}
	switch section {
	case SectionCoupler:
		return p.Coupler != nil
	case SectionJobs:
		return p.Jobs != nil
	case SectionHydrology:
		return p.Hydrology != nil
	default:
		return false
	}
}

// Present lists the sections the plan carries, in run order.
func (p *Plan) Present() []Section {
	var out []Section
	for _, section := range Sections {
		if p.Has(section) {
			out = append(out, section)
		}
	}
	return out
}

// ParseSection maps a section name to a Section.
func ParseSection(name string) (Section, bool) {
	section := Section(name)
	return section, slices.Contains(Sections, section)
}

// Ptr returns a pointer to v. The wizard uses it to fill optional fields.
func Ptr[T any](v T) *T {
	return &v
}
