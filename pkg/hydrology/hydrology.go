// Package hydrology generates Xanthos configuration files for Cassandra runs
// by token substitution into an ini template. The bundled template runs
// Thornthwaite PET with the abcd runoff model and the drought module.
package hydrology

import (
	"context"
	"slices"
	"strconv"

	"github.com/goliatone/go-cassie/pkg/generate"
	"github.com/goliatone/go-cassie/pkg/naming"
	"github.com/goliatone/go-cassie/pkg/placeholder"
	"github.com/goliatone/go-cassie/pkg/templates"
)

// Component names this generator in errors and logs.
const Component = "hydrology"

// Tokens lists the placeholders the generator fills.
var Tokens = []string{
	"projectname", "outputnamestr", "rootdir", "outputvars", "model",
	"scenario", "task", "outdir", "thresholdsdir", "droughtstats",
}

// Config enumerates every Xanthos option. Start from DefaultConfig.
type Config struct {
	Models    []string
	Scenarios []string
	// OutputDir receives "{output_name}.ini". Required.
	OutputDir string
	// NConfigs is the number of configs per model/scenario pair; zero
	// produces no files.
	NConfigs int

	// RootDir is the Xanthos "RootDir". Required.
	RootDir string
	// ModelOutputDir is the Xanthos "OutputFolder". Required.
	ModelOutputDir string
	// DroughtThresholdsDir holds
	// "drought_thresholds_{model}_16610101-22991231.npy". Required.
	DroughtThresholdsDir string

	// OutputVariables defaults to "q".
	OutputVariables string
	// Abbreviations prefix the project name; all unset by default.
	Abbreviations naming.Abbreviations
	// DroughtStats is written verbatim as the drought statistics flag;
	// defaults to 0.
	DroughtStats int

	// TemplatePath overrides the bundled Xanthos template when set.
	TemplatePath string
}

// DefaultConfig returns a Config carrying every documented default.
func DefaultConfig() Config {
	return Config{
		OutputVariables: "q",
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
	switch {
	case c.OutputDir == "":
		return generate.Missing(Component, "OutputDir", "")
	case c.NConfigs < 0:
		return generate.Invalid(Component, "NConfigs", "must not be negative")
	case c.RootDir == "":
		return generate.Missing(Component, "RootDir", "")
	case c.ModelOutputDir == "":
		return generate.Missing(Component, "ModelOutputDir", "")
	case c.DroughtThresholdsDir == "":
		return generate.Missing(Component, "DroughtThresholdsDir", "")
	case c.OutputVariables == "":
		return generate.Missing(Component, "OutputVariables", "")
	}
	return nil
}

// Generator renders Xanthos configurations from a loaded template.
type Generator struct {
	cfg      Config
	prefix   string
	template string
}

// New validates cfg and loads its template.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	text, err := templates.Load(cfg.TemplatePath, templates.XanthosDrought)
	if err != nil {
		return nil, err
	}
	out := cfg
	out.Models = slices.Clone(cfg.Models)
	out.Scenarios = slices.Clone(cfg.Scenarios)
	out.Abbreviations = cfg.Abbreviations.Clone()
	return &Generator{cfg: out, prefix: cfg.Abbreviations.Prefix(), template: text}, nil
}

// OutputDir returns the directory files are written to.
func (g *Generator) OutputDir() string {
	return g.cfg.OutputDir
}

// Template returns the template text in use.
func (g *Generator) Template() string {
	return g.template
}

// Identities lists every config in generation order: model, scenario, index.
func (g *Generator) Identities() []naming.Identity {
	return naming.ModelMajor(g.cfg.Models, g.cfg.Scenarios, g.cfg.NConfigs)
}

// Names returns the project and output names for id.
func (g *Generator) Names(id naming.Identity) (project, output string) {
	project = naming.ProjectName(g.prefix, id.Model, id.Scenario)
	return project, naming.OutputName(project, id.Index)
}

// Path returns the config path for id.
func (g *Generator) Path(id naming.Identity) string {
	_, output := g.Names(id)
	return naming.Join(g.cfg.OutputDir, output+".ini")
}

// Values returns the token values for id.
func (g *Generator) Values(id naming.Identity) placeholder.Values {
	project, output := g.Names(id)
	return placeholder.Values{
		"projectname":   project,
		"outputnamestr": output,
		"rootdir":       g.cfg.RootDir,
		"outputvars":    g.cfg.OutputVariables,
		"model":         id.Model,
		"scenario":      id.Scenario,
		"task":          strconv.Itoa(id.Index),
		"outdir":        g.cfg.ModelOutputDir,
		"thresholdsdir": g.cfg.DroughtThresholdsDir,
		"droughtstats":  strconv.Itoa(g.cfg.DroughtStats),
	}
}

// Render builds every config without writing anything.
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
			Mode:     generate.FileMode,
		})
	}
	return artifacts, nil
}

// Generate renders and writes every config.
func (g *Generator) Generate(ctx context.Context, options ...generate.Option) (generate.Result, error) {
	artifacts, err := g.Render(ctx)
	if err != nil {
		return generate.Result{Component: Component}, err
	}
	return generate.Write(ctx, Component, artifacts, generate.NewSettings(ctx, options...))
}
