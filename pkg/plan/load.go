package plan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-cassie/internal/logging"
)

// Format identifies a plan encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// ErrUnsupportedFormat reports a plan file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("plan: unsupported format")

// FormatFor picks the decoder for path by extension. JSON is decoded as YAML.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and decodes the plan file at path.
func Load(ctx context.Context, path string) (*Plan, error) {
	logger := logging.FromContext(ctx)
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: read %s: %w", path, err)
	}
	p, err := Decode(data, format, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("plan loaded",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Strings("sections", sectionNames(p.Present())),
	)
	return p, nil
}

// Decode parses data in the given format. source names the data in errors.
func Decode(data []byte, format Format, source string) (*Plan, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("plan: file %s is empty", source)
	}
	var (
		p   *Plan
		err error
	)
	switch format {
	case FormatYAML:
		p, err = decodeYAML(data, source)
	case FormatHCL:
		p, err = decodeHCL(data, source)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	p.Source = source
	return p, nil
}

func decodeYAML(data []byte, source string) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("plan: parse %s: %w", source, err)
	}
	return &p, nil
}

func decodeHCL(data []byte, source string) (*Plan, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, source)
	if diags.HasErrors() {
		return nil, fmt.Errorf("plan: parse %s: %s", source, diags.Error())
	}
	var p Plan
	if diags := gohcl.DecodeBody(file.Body, EvalContext(), &p); diags.HasErrors() {
		return nil, fmt.Errorf("plan: decode %s: %s", source, diags.Error())
	}
	return &p, nil
}

// EvalContext returns the HCL evaluation context plans are decoded with. It
// exposes the process environment as env and a small set of string functions.
func EvalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = cty.StringVal(value)
	}
	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
		},
	}
}

// Encode writes p as YAML.
func Encode(w io.Writer, p *Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("plan: encode: %w", err)
	}
	return enc.Close()
}

// Save writes p as YAML to path.
func Save(path string, p *Plan) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("plan: write %s: %w", path, err)
	}
	return nil
}

func sectionNames(sections []Section) []string {
	names := make([]string, len(sections))
	for i, section := range sections {
		names[i] = string(section)
	}
	return names
}
