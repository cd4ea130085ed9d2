// Package jobscript generates SLURM batch scripts that run Cassandra, one per
// model and scenario, by token substitution into a shell template.
package jobscript

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-cassie/pkg/generate"
	"github.com/goliatone/go-cassie/pkg/naming"
	"github.com/goliatone/go-cassie/pkg/placeholder"
	"github.com/goliatone/go-cassie/pkg/templates"
)

// Component names this generator in errors and logs.
const Component = "jobs"

// Tokens lists the placeholders the generator fills.
var Tokens = []string{
	"model", "scenario", "account", "partition", "ntasks", "nodes",
	"walltime", "jobname", "logdir", "cassconfigdir", "casslogdir", "cassmainscript",
}

// Config enumerates every job script option. Start from DefaultConfig.
type Config struct {
	Models    []string
	Scenarios []string
	// OutputDir receives "run_{lower(model)}_{scenario}.sh". Required.
	OutputDir string

	// CassandraConfigDir holds the generated coupler configs. Required.
	CassandraConfigDir string
	// CassandraLogDir receives Cassandra run logs. Required.
	CassandraLogDir string
	// CassandraMainScript is the coupler entry point. Required.
	CassandraMainScript string

	// Account is the SLURM account to charge. Required.
	Account string
	// Partition defaults to "slurm".
	Partition string
	// Walltime defaults to "01:00:00".
	Walltime string
	// NTasks defaults to 3.
	NTasks int
	// Nodes defaults to 3.
	Nodes int
	// JobName defaults to "cassie".
	JobName string
	// LogDir receives SLURM stdout/stderr; defaults to ".".
	LogDir string

	// TemplatePath overrides the bundled sbatch template when set.
	TemplatePath string
}

// DefaultConfig returns a Config carrying every documented default.
func DefaultConfig() Config {
	return Config{
		Partition: "slurm",
		Walltime:  "01:00:00",
		NTasks:    3,
		Nodes:     3,
		JobName:   "cassie",
		LogDir:    ".",
	}
}

// Validate checks the configuration without touching the filesystem.
func (c Config) Validate() error {
	if err := generate.UniqueNames(Component, "Models", c.Models); err != nil {
		return err
	}
	if err := generate.UniqueNames(Component, "Scenarios", c.Scenarios); err != nil {
		return err
	}
	required := []struct {
		field string
		value string
	}{
		{"OutputDir", c.OutputDir},
		{"CassandraConfigDir", c.CassandraConfigDir},
		{"CassandraLogDir", c.CassandraLogDir},
		{"CassandraMainScript", c.CassandraMainScript},
		{"Account", c.Account},
		{"Partition", c.Partition},
		{"Walltime", c.Walltime},
		{"JobName", c.JobName},
		{"LogDir", c.LogDir},
	}
	for _, r := range required {
		if r.value == "" {
			return generate.Missing(Component, r.field, "")
		}
	}
	if c.NTasks < 1 {
		return generate.Invalid(Component, "NTasks", "must be at least 1")
	}
	if c.Nodes < 1 {
		return generate.Invalid(Component, "Nodes", "must be at least 1")
	}

	// Lowercasing model names must not fold two models onto one script.
	lowered := make(map[string]string, len(c.Models))
	for _, model := range c.Models {
		key := strings.ToLower(model)
		if other, dup := lowered[key]; dup {
			return generate.Invalid(Component, "Models", other+" and "+model+" map to the same script name")
		}
		lowered[key] = model
	}
	return nil
}

// Generator renders job scripts from a loaded template.
type Generator struct {
	cfg      Config
	template string
}

// New validates cfg and loads its template.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	text, err := templates.Load(cfg.TemplatePath, templates.SBatch)
	if err != nil {
		return nil, err
	}
	out := cfg
	out.Models = slices.Clone(cfg.Models)
	out.Scenarios = slices.Clone(cfg.Scenarios)
	return &Generator{cfg: out, template: text}, nil
}

// OutputDir returns the directory files are written to.
func (g *Generator) OutputDir() string {
	return g.cfg.OutputDir
}

// Template returns the template text in use.
func (g *Generator) Template() string {
	return g.template
}

// Identities lists every script in generation order: model, then scenario.
func (g *Generator) Identities() []naming.Identity {
	return naming.ModelMajor(g.cfg.Models, g.cfg.Scenarios, 1)
}

// Path returns the script path for id.
func (g *Generator) Path(id naming.Identity) string {
	return naming.Join(g.cfg.OutputDir, "run_"+strings.ToLower(id.Model)+"_"+id.Scenario+".sh")
}

// Values returns the token values for id.
func (g *Generator) Values(id naming.Identity) placeholder.Values {
	return placeholder.Values{
		"model":          id.Model,
		"scenario":       id.Scenario,
		"account":        g.cfg.Account,
		"partition":      g.cfg.Partition,
		"ntasks":         strconv.Itoa(g.cfg.NTasks),
		"nodes":          strconv.Itoa(g.cfg.Nodes),
		"walltime":       g.cfg.Walltime,
		"jobname":        g.cfg.JobName,
		"logdir":         g.cfg.LogDir,
		"cassconfigdir":  g.cfg.CassandraConfigDir,
		"casslogdir":     g.cfg.CassandraLogDir,
		"cassmainscript": g.cfg.CassandraMainScript,
	}
}

// Render builds every script without writing anything.
func (g *Generator) Render(ctx context.Context) ([]generate.Artifact, error) {
	ids := g.Identities()
	artifacts := make([]generate.Artifact, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, generate.Artifact{
			Path:     g.Path(id),
			Identity: id,
			Content:  []byte(placeholder.Render(g.template, g.Values(id))),
			Mode:     generate.ScriptMode,
		})
	}
	return artifacts, nil
}

// Generate renders and writes every script.
func (g *Generator) Generate(ctx context.Context, options ...generate.Option) (generate.Result, error) {
	artifacts, err := g.Render(ctx)
	if err != nil {
		return generate.Result{Component: Component}, err
	}
	return generate.Write(ctx, Component, artifacts, generate.NewSettings(ctx, options...))
}
