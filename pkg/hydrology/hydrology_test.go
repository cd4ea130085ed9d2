package hydrology

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-cassie/pkg/generate"
	"github.com/goliatone/go-cassie/pkg/naming"
	"github.com/goliatone/go-cassie/pkg/placeholder"
	"github.com/goliatone/go-cassie/pkg/testsupport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(outputDir string) Config {
	cfg := DefaultConfig()
	cfg.Models = []string{"GFDL-ESM2M", "MIROC5"}
	cfg.Scenarios = []string{"rcp45", "rcp85"}
	cfg.OutputDir = outputDir
	cfg.NConfigs = 2
	cfg.RootDir = "/xanthos"
	cfg.ModelOutputDir = "output/trn_abcd_1000"
	cfg.DroughtThresholdsDir = "/thresholds"
	cfg.Abbreviations = naming.Abbreviations{PET: naming.Abbrev("trn"), Runoff: naming.Abbrev("abcd")}
	return cfg
}

func mustNew(t *testing.T, cfg Config) *Generator {
	t.Helper()
	gen, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return gen
}

func TestGenerateWritesEveryConfig(t *testing.T) {
	dir := t.TempDir()
	gen := mustNew(t, testConfig(dir))

	result, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := []string{
		"trn_abcd_GFDL-ESM2M_rcp45_0.ini",
		"trn_abcd_GFDL-ESM2M_rcp45_1.ini",
		"trn_abcd_GFDL-ESM2M_rcp85_0.ini",
		"trn_abcd_GFDL-ESM2M_rcp85_1.ini",
		"trn_abcd_MIROC5_rcp45_0.ini",
		"trn_abcd_MIROC5_rcp45_1.ini",
		"trn_abcd_MIROC5_rcp85_0.ini",
		"trn_abcd_MIROC5_rcp85_1.ini",
	}
	if diff := cmp.Diff(want, testsupport.ListDir(t, dir)); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if result.Artifacts[1].Identity != (naming.Identity{Model: "GFDL-ESM2M", Scenario: "rcp45", Index: 1}) {
		t.Fatalf("unexpected generation order: %+v", result.Artifacts[1].Identity)
	}
}

func TestBundledTemplateIsFullySubstituted(t *testing.T) {
	gen := mustNew(t, testConfig(t.TempDir()))
	artifacts, err := gen.Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, artifact := range artifacts {
		text := string(artifact.Content)
		if left := placeholder.Remaining(text, Tokens); len(left) > 0 {
			t.Fatalf("%s still contains tokens %v", artifact.Path, left)
		}
	}
	first := string(artifacts[0].Content)
	for _, want := range []string{
		"ProjectName = trn_abcd_GFDL-ESM2M_rcp45",
		"OutputNameStr = trn_abcd_GFDL-ESM2M_rcp45_0",
		"RootDir = /xanthos",
		"OutputFolder = output/trn_abcd_1000",
		"output_vars = q",
		"CalculateDroughtStats = 0",
		"/thresholds/drought_thresholds_GFDL-ESM2M_16610101-22991231.npy",
	} {
		if !strings.Contains(first, want) {
			t.Fatalf("expected %q in:\n%s", want, first)
		}
	}
}

func TestCustomTemplateGolden(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.TemplatePath = filepath.Join("testdata", "custom.ini.tpl")
	cfg.OutputVariables = "q,pet"
	cfg.DroughtStats = 1

	gen := mustNew(t, cfg)
	if _, err := gen.Generate(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	got := testsupport.MustReadFile(t, filepath.Join(dir, "trn_abcd_MIROC5_rcp85_1.ini"))
	testsupport.AssertGoldenText(t, filepath.Join("testdata", "custom_trn_abcd_miroc5_rcp85_1.golden"), got)
}

func TestNamesWithoutAbbreviations(t *testing.T) {
	cfg := testConfig("/out/")
	cfg.Abbreviations = naming.Abbreviations{}
	gen := mustNew(t, cfg)

	id := naming.Identity{Model: "GFDL-ESM2M", Scenario: "rcp45", Index: 3}
	project, output := gen.Names(id)
	if project != "GFDL-ESM2M_rcp45" || output != "GFDL-ESM2M_rcp45_3" {
		t.Fatalf("unexpected names %q, %q", project, output)
	}
	if got := gen.Path(id); got != "/out/GFDL-ESM2M_rcp45_3.ini" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "thresholds", mutate: func(c *Config) { c.DroughtThresholdsDir = "" }, want: generate.ErrMissingParameter},
		{name: "root", mutate: func(c *Config) { c.RootDir = "" }, want: generate.ErrMissingParameter},
		{name: "model output", mutate: func(c *Config) { c.ModelOutputDir = "" }, want: generate.ErrMissingParameter},
		{name: "output vars", mutate: func(c *Config) { c.OutputVariables = "" }, want: generate.ErrMissingParameter},
		{name: "negative count", mutate: func(c *Config) { c.NConfigs = -1 }, want: generate.ErrInvalidParameter},
		{name: "duplicate model", mutate: func(c *Config) { c.Models = []string{"A", "A"} }, want: generate.ErrInvalidParameter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t.TempDir())
			tc.mutate(&cfg)
			_, err := New(cfg)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	a, err := mustNew(t, testConfig(dir)).Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := mustNew(t, testConfig(dir)).Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("renders differ (-first +second):\n%s", diff)
	}
}
