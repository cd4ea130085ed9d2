package jobscript

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-cassie/pkg/generate"
	"github.com/goliatone/go-cassie/pkg/placeholder"
	"github.com/goliatone/go-cassie/pkg/testsupport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(outputDir string) Config {
	cfg := DefaultConfig()
	cfg.Models = []string{"GFDL-ESM2M", "MIROC5"}
	cfg.Scenarios = []string{"rcp26", "rcp45"}
	cfg.OutputDir = outputDir
	cfg.CassandraConfigDir = "/data/cfg"
	cfg.CassandraLogDir = "/data/caslogs"
	cfg.CassandraMainScript = "/opt/cassandra/main.py"
	cfg.Account = "GCAM"
	return cfg
}

func TestGenerateWritesOneScriptPerPair(t *testing.T) {
	dir := t.TempDir()
	gen, err := New(testConfig(dir))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := gen.Generate(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := []string{
		"run_gfdl-esm2m_rcp26.sh",
		"run_gfdl-esm2m_rcp45.sh",
		"run_miroc5_rcp26.sh",
		"run_miroc5_rcp45.sh",
	}
	if diff := cmp.Diff(want, testsupport.ListDir(t, dir)); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	info, err := os.Stat(filepath.Join(dir, want[0]))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != generate.ScriptMode {
		t.Fatalf("expected executable script, got %v", info.Mode().Perm())
	}
}

func TestDefaultTemplateLeavesNoKnownTokens(t *testing.T) {
	dir := t.TempDir()
	gen, err := New(testConfig(dir))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	artifacts, err := gen.Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, artifact := range artifacts {
		text := string(artifact.Content)
		if left := placeholder.Remaining(text, Tokens); len(left) > 0 {
			t.Fatalf("%s still contains tokens %v", artifact.Path, left)
		}
		if !strings.Contains(text, "#SBATCH -A GCAM") || !strings.Contains(text, "#SBATCH -n 3") {
			t.Fatalf("expected SLURM directives in %s:\n%s", artifact.Path, text)
		}
	}
}

func TestModelAndScenarioOnlyTemplate(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(t.TempDir(), "min.sh")
	if err := os.WriteFile(tpl, []byte("echo <model> <scenario>\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	cfg := testConfig(dir)
	cfg.Models = []string{"X"}
	cfg.Scenarios = []string{"y45"}
	cfg.TemplatePath = tpl

	gen, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := gen.Generate(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	got := testsupport.MustReadFile(t, filepath.Join(dir, "run_x_y45.sh"))
	if got != "echo X y45\n" {
		t.Fatalf("unexpected script %q", got)
	}
	if left := placeholder.Remaining(got, Tokens); len(left) != 0 {
		t.Fatalf("unexpected tokens left: %v", left)
	}
}

func TestCustomTemplateGolden(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Models = []string{"GFDL-ESM2M"}
	cfg.Scenarios = []string{"rcp45"}
	cfg.TemplatePath = filepath.Join("testdata", "custom.sh.tpl")
	cfg.Partition = "short"
	cfg.Walltime = "02:30:00"
	cfg.NTasks = 12
	cfg.Nodes = 2
	cfg.JobName = "cas"
	cfg.LogDir = "/logs"

	gen, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := gen.Generate(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	got := testsupport.MustReadFile(t, filepath.Join(dir, "run_gfdl-esm2m_rcp45.sh"))
	testsupport.AssertGoldenText(t, filepath.Join("testdata", "custom_gfdl_rcp45.golden"), got)
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "account", mutate: func(c *Config) { c.Account = "" }, want: generate.ErrMissingParameter},
		{name: "main script", mutate: func(c *Config) { c.CassandraMainScript = "" }, want: generate.ErrMissingParameter},
		{name: "output dir", mutate: func(c *Config) { c.OutputDir = "" }, want: generate.ErrMissingParameter},
		{name: "ntasks", mutate: func(c *Config) { c.NTasks = 0 }, want: generate.ErrInvalidParameter},
		{name: "nodes", mutate: func(c *Config) { c.Nodes = -2 }, want: generate.ErrInvalidParameter},
		{name: "duplicate scenario", mutate: func(c *Config) { c.Scenarios = []string{"rcp26", "rcp26"} }, want: generate.ErrInvalidParameter},
		{name: "case-folded models", mutate: func(c *Config) { c.Models = []string{"MIROC5", "miroc5"} }, want: generate.ErrInvalidParameter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t.TempDir())
			tc.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestMissingTemplateFile(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.TemplatePath = filepath.Join(t.TempDir(), "absent.sh")
	if _, err := New(cfg); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	gen, err := New(testConfig(dir))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	result, err := gen.Generate(context.Background(), generate.WithDryRun(true))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(result.Artifacts) != 4 {
		t.Fatalf("expected 4 planned scripts, got %d", len(result.Artifacts))
	}
	if files := testsupport.ListDir(t, dir); len(files) != 0 {
		t.Fatalf("expected no files, found %v", files)
	}
}
