package prompt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cassie/pkg/coupler"
	"github.com/goliatone/go-cassie/pkg/hydrology"
	"github.com/goliatone/go-cassie/pkg/jobscript"
	"github.com/goliatone/go-cassie/pkg/plan"
)

// stubDriver answers prompts by message, falling back to each prompt's
// default. Inputs may list several answers; invalid ones are rejected the
// way survey would re-ask.
type stubDriver struct {
	inputs   map[string][]string
	confirms map[string]bool
	selected []int
	abortOn  string

	infoMessages []string
	rejected     []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if cfg.Message == s.abortOn {
		return "", ErrAborted
	}
	answers := append(s.inputs[cfg.Message], cfg.Default)
	for _, answer := range answers {
		if cfg.Validator != nil {
			if err := cfg.Validator(answer); err != nil {
				s.rejected = append(s.rejected, cfg.Message+": "+answer)
				continue
			}
		}
		return answer, nil
	}
	return "", errors.New("stub: no valid answer for " + cfg.Message)
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if v, ok := s.confirms[cfg.Message]; ok {
		return v, nil
	}
	return cfg.Default, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	if s.selected != nil {
		return s.selected, nil
	}
	return cfg.Defaults, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func fullAnswers() *stubDriver {
	return &stubDriver{
		inputs: map[string][]string{
			"Models (comma separated)":             {"GFDL-ESM2M, MIROC5"},
			"Scenarios (comma separated)":          {"rcp26,rcp85"},
			"Config output directory":              {"/data/cfg"},
			"Runs per model and scenario":          {"two", "-1", "2"},
			"GCAM ModelInterface jar":              {"/opt/mi.jar"},
			"DBXML library directory":              {"/opt/dbxml"},
			"Xanthos config directory":             {"/data/xanthos"},
			"fldgen emulator directory":            {"/data/emu"},
			"Global temperature (tgav) directory":  {"/data/tgav"},
			"fldgen start year":                    {"1900"},
			"fldgen through year":                  {"1850", "2050"},
			"PET abbreviation (blank for none)":    {"trn"},
			"Runoff abbreviation (blank for none)": {"abcd"},
			"Job script output directory":          {"/data/jobs"},
			"Cassandra log directory":              {"/data/logs"},
			"Cassandra main script":                {"/opt/cassandra/main.py"},
			"SLURM account":                        {"", "GCAM"},
			"Xanthos root directory":               {"/xanthos"},
			"Xanthos output folder":                {"output"},
			"Drought thresholds directory":         {"/data/thresholds"},
		},
	}
}

func TestWizardBuildsLoadablePlan(t *testing.T) {
	driver := fullAnswers()
	tmpl := filepath.Join(t.TempDir(), "job.sh")
	if err := os.WriteFile(tmpl, []byte("#!/bin/bash\necho <model> <scenario>\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	driver.inputs["Custom sbatch template (blank for the bundled one)"] = []string{"/nonexistent/job.sh", tmpl}
	driver.confirms = map[string]bool{"Compute drought statistics?": true}
	p, err := NewWizard(driver).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if diff := cmp.Diff([]plan.Section{plan.SectionCoupler, plan.SectionJobs, plan.SectionHydrology}, p.Present()); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if len(driver.rejected) != 5 {
		t.Fatalf("expected five rejected answers, got %v", driver.rejected)
	}

	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := plan.Save(path, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := plan.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cc, err := loaded.CouplerConfig()
	if err != nil {
		t.Fatalf("coupler config: %v", err)
	}
	if _, err := coupler.New(cc); err != nil {
		t.Fatalf("coupler config does not validate: %v", err)
	}
	if cc.RunsPerConfig != 2 || cc.Xanthos.ConfigDir != "/data/xanthos" {
		t.Fatalf("unexpected coupler config: %+v", cc)
	}
	if cc.Fldgen.StartYear != 1900 || cc.Fldgen.ThroughYear != 2050 || cc.Fldgen.NGrids != 1 {
		t.Fatalf("unexpected fldgen years: %+v", cc.Fldgen)
	}

	jc, err := loaded.JobsConfig()
	if err != nil {
		t.Fatalf("jobs config: %v", err)
	}
	if _, err := jobscript.New(jc); err != nil {
		t.Fatalf("jobs config does not validate: %v", err)
	}
	if jc.CassandraConfigDir != "/data/cfg" || jc.Account != "GCAM" || jc.Partition != "slurm" {
		t.Fatalf("unexpected jobs config: %+v", jc)
	}
	if jc.TemplatePath != tmpl {
		t.Fatalf("custom template not recorded: %q", jc.TemplatePath)
	}

	hc, err := loaded.HydrologyConfig()
	if err != nil {
		t.Fatalf("hydrology config: %v", err)
	}
	if _, err := hydrology.New(hc); err != nil {
		t.Fatalf("hydrology config does not validate: %v", err)
	}
	if hc.OutputDir != "/data/xanthos" || hc.NConfigs != 2 {
		t.Fatalf("hydrology defaults not carried from coupler answers: %+v", hc)
	}
	if hc.DroughtStats != 1 || hc.TemplatePath != "" {
		t.Fatalf("unexpected hydrology options: %+v", hc)
	}

	// Both sections must name Xanthos projects identically.
	if got := cc.Xanthos.Abbreviations.Prefix(); got != "trn_abcd_" {
		t.Fatalf("coupler run prefix = %q", got)
	}
	if got := hc.Abbreviations.Prefix(); got != "trn_abcd_" {
		t.Fatalf("hydrology run prefix = %q", got)
	}
	if !slices.Contains(driver.infoMessages, "Using run prefix trn_abcd_") {
		t.Fatalf("expected the shared prefix to be reused, got %v", driver.infoMessages)
	}
}

func TestWizardWarnsAboutModelsWithoutAlpha(t *testing.T) {
	driver := fullAnswers()
	driver.inputs["Models (comma separated)"] = []string{"FakeModel"}
	driver.selected = []int{0}

	if _, err := NewWizard(driver).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	found := false
	for _, msg := range driver.infoMessages {
		if strings.Contains(msg, "FakeModel") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a warning for FakeModel, got %v", driver.infoMessages)
	}
}

func TestWizardSkipsDisabledComponents(t *testing.T) {
	driver := fullAnswers()
	driver.selected = []int{0}
	driver.confirms = map[string]bool{
		"Include the Xanthos component?": false,
		"Include the fldgen component?":  false,
	}

	p, err := NewWizard(driver).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if p.Coupler.Xanthos.ConfigDir != nil || p.Coupler.Xanthos.Abbreviations != nil || p.Coupler.Fldgen.EmulatorDir != nil {
		t.Fatalf("disabled components should not prompt for directories: %+v", p.Coupler)
	}
	if p.Jobs != nil || p.Hydrology != nil {
		t.Fatalf("unselected sections should be absent")
	}
}

func TestWizardAbort(t *testing.T) {
	driver := fullAnswers()
	driver.abortOn = "SLURM account"
	if _, err := NewWizard(driver).Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestWizardRequiresASection(t *testing.T) {
	driver := fullAnswers()
	driver.selected = []int{}
	if _, err := NewWizard(driver).Run(context.Background()); err == nil {
		t.Fatalf("expected error when nothing is selected")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, b ,,c ")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("split mismatch (-want +got):\n%s", diff)
	}
	if err := uniqueList("a,b,a"); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestWizardBlankAbbreviationsLeavePrefixUnset(t *testing.T) {
	driver := fullAnswers()
	driver.selected = []int{2}
	driver.inputs["Xanthos config output directory"] = []string{"/data/xanthos"}
	delete(driver.inputs, "PET abbreviation (blank for none)")
	delete(driver.inputs, "Runoff abbreviation (blank for none)")

	p, err := NewWizard(driver).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if p.Hydrology.Abbreviations != nil {
		t.Fatalf("expected no abbreviations, got %+v", p.Hydrology.Abbreviations)
	}
}
