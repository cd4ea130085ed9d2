package coupler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-cassie/pkg/generate"
	"github.com/goliatone/go-cassie/pkg/naming"
	"github.com/goliatone/go-cassie/pkg/seed"
)

// Section names written by the generator.
const (
	SectionGlobal  = "Global"
	SectionXanthos = "XanthosComponent"
	SectionFldgen  = "FldgenComponent"
)

// Generator produces one Cassandra configuration per scenario, model, and run
// index. It holds a private copy of its Config and never mutates it.
type Generator struct {
	cfg Config
}

// New validates cfg and returns a Generator bound to a copy of it.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg.clone()}, nil
}

// Config returns a copy of the generator configuration.
func (g *Generator) Config() Config {
	return g.cfg.clone()
}

// OutputDir returns the directory configs are written to.
func (g *Generator) OutputDir() string {
	return g.cfg.OutputDir
}

// Identities lists every run in generation order: scenario, then model, then
// index.
func (g *Generator) Identities() []naming.Identity {
	return naming.ScenarioMajor(g.cfg.Models, g.cfg.Scenarios, g.cfg.RunsPerConfig)
}

// Path returns the output path for id.
func (g *Generator) Path(id naming.Identity) string {
	return naming.Join(g.cfg.OutputDir, fmt.Sprintf("%s_%s_%d.cfg", id.Model, id.Scenario, id.Index))
}

// Build assembles the document for a single run.
func (g *Generator) Build(id naming.Identity) (Document, error) {
	doc := Document{Path: g.Path(id)}

	global := doc.addSection(SectionGlobal)
	global.set("ModelInterface", g.cfg.ModelInterfaceJar)
	global.set("DBXMLlib", g.cfg.DBXMLLib)
	global.set("inputdir", g.cfg.InputDir)
	global.set("rgnconfig", g.cfg.RegionConfig)

	if g.cfg.Xanthos.Enabled {
		g.buildXanthos(doc.addSection(SectionXanthos), id)
	}
	if g.cfg.Fldgen.Enabled {
		if err := g.buildFldgen(doc.addSection(SectionFldgen), id, doc.Path); err != nil {
			return Document{}, err
		}
	}
	return doc, nil
}

func (g *Generator) buildXanthos(section *Section, id naming.Identity) {
	x := g.cfg.Xanthos
	project := naming.ProjectName(x.Abbreviations.Prefix(), id.Model, id.Scenario)
	output := naming.OutputName(project, id.Index)

	section.set("config_file", naming.Join(x.ConfigDir, output+".ini"))
	section.set("OutputNameStr", output)
	section.set("ProjectName", project)
	section.set("mp.weight", formatFloat(x.MPIWeight))
}

func (g *Generator) buildFldgen(section *Section, id naming.Identity, path string) error {
	f := g.cfg.Fldgen
	alpha, err := AlphaCoefficient(id.Model)
	if err != nil {
		return err
	}

	section.set("loadpkgs", formatBool(f.LoadPackages))
	section.set("pkgdir", f.PackageDir)
	section.set("emulator", naming.Join(f.EmulatorDir, "fldgen-"+id.Model+".rds"))
	section.set("tgav_file", naming.Join(f.TgavDir, "fldgen-"+id.Model+"_"+id.Scenario+".csv.gz"))
	section.set("ngrids", strconv.Itoa(f.NGrids))
	section.set("scenario", id.Scenario)
	section.set("a2mfrac", alpha)
	section.set("startyr", strconv.Itoa(f.StartYear))
	section.set("nyear", strconv.Itoa(f.Years()))
	section.set("RNGseed", strconv.FormatInt(int64(seed.FromPath(path)), 10))
	section.set("mp.weight", formatFloat(f.MPIWeight))
	return nil
}

// Documents builds every document in generation order.
func (g *Generator) Documents() ([]Document, error) {
	ids := g.Identities()
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		doc, err := g.Build(id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Render encodes every document into an artifact without writing anything.
func (g *Generator) Render(ctx context.Context) ([]generate.Artifact, error) {
	ids := g.Identities()
	artifacts := make([]generate.Artifact, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := g.Build(id)
		if err != nil {
			return nil, err
		}
		content, err := doc.Bytes()
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, generate.Artifact{
			Path:     doc.Path,
			Identity: id,
			Content:  content,
			Mode:     generate.FileMode,
		})
	}
	return artifacts, nil
}

// Generate renders and writes every configuration file.
func (g *Generator) Generate(ctx context.Context, options ...generate.Option) (generate.Result, error) {
	artifacts, err := g.Render(ctx)
	if err != nil {
		return generate.Result{Component: Component}, err
	}
	return generate.Write(ctx, Component, artifacts, generate.NewSettings(ctx, options...))
}
