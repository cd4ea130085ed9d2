// Package report renders a human-readable summary of generation passes. The
// CLI prints it after every run and in place of writing under --dry-run.
package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-cassie/pkg/generate"
)

//go:embed templates/*.tpl
var templateFiles embed.FS

const summaryTemplate = "summary.tpl"

// registerFilters installs the report's pongo2 filters once per process.
var registerFilters = sync.OnceValue(func() error {
	return registerFilter("filemode", filterFileMode)
})

func registerFilter(name string, fn pongo2.FilterFunction) error {
	if err := pongo2.RegisterFilter(name, fn); err != nil {
		return fmt.Errorf("report: register filter %s: %w", name, err)
	}
	return nil
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPreview includes the first lines of each artifact in the summary.
// Zero disables previews.
func WithPreview(lines int) Option {
	return func(r *Renderer) {
		if lines > 0 {
			r.preview = lines
		}
	}
}

// Renderer turns generate.Result values into text.
type Renderer struct {
	tmpl    *pongo2.Template
	preview int
}

// New loads the bundled summary template.
func New(options ...Option) (*Renderer, error) {
	if err := registerFilters(); err != nil {
		return nil, err
	}

	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("report: open templates: %w", err)
	}
	set := pongo2.NewSet("cassie-report", pongo2.NewFSLoader(sub))
	tmpl, err := set.FromFile(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: load %s: %w", summaryTemplate, err)
	}

	r := &Renderer{tmpl: tmpl}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Render writes the summary of results to w.
func (r *Renderer) Render(w io.Writer, results ...generate.Result) error {
	if r == nil || r.tmpl == nil {
		return errors.New("report: renderer is nil")
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteWriter(r.context(results), &buf); err != nil {
		return fmt.Errorf("report: execute: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// String returns the summary of results.
func (r *Renderer) String(results ...generate.Result) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, results...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) context(results []generate.Result) pongo2.Context {
	sections := make([]map[string]any, 0, len(results))
	total := 0
	for _, result := range results {
		artifacts := make([]map[string]any, 0, len(result.Artifacts))
		for _, artifact := range result.Artifacts {
			id := artifact.Identity
			artifacts = append(artifacts, map[string]any{
				"path":    artifact.Path,
				"mode":    artifact.Mode,
				"label":   id.Model + " " + id.Scenario + " #" + strconv.Itoa(id.Index),
				"preview": previewLines(artifact.Content, r.preview),
			})
		}
		total += len(artifacts)
		sections = append(sections, map[string]any{
			"component": result.Component,
			"pass_id":   result.PassID,
			"dry_run":   result.DryRun,
			"count":     len(artifacts),
			"artifacts": artifacts,
		})
	}
	return pongo2.Context{
		"sections": sections,
		"total":    total,
	}
}

func previewLines(content []byte, limit int) []string {
	if limit <= 0 || len(content) == 0 {
		return nil
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) > limit {
		lines = lines[:limit]
	}
	return lines
}

func filterFileMode(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	mode, ok := in.Interface().(fs.FileMode)
	if !ok || mode == 0 {
		mode = generate.FileMode
	}
	return pongo2.AsValue(fmt.Sprintf("%#o", mode.Perm())), nil
}
