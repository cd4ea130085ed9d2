// Package prompt builds plan files interactively. The Wizard asks for the
// shared models and scenarios, then for each selected section's required
// settings, and returns a plan.Plan ready to be saved.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-cassie/pkg/coupler"
	"github.com/goliatone/go-cassie/pkg/hydrology"
	"github.com/goliatone/go-cassie/pkg/jobscript"
	"github.com/goliatone/go-cassie/pkg/plan"
)

// DefaultScenarios seeds the scenario prompt.
var DefaultScenarios = []string{"rcp26", "rcp45", "rcp60", "rcp85"}

// Wizard walks a user through writing a plan.
type Wizard struct {
	driver Driver

	// abbrevs holds the run-prefix answers once asked, so the coupler and
	// hydrology sections name projects the same way.
	abbrevs *plan.Abbreviations
	asked   bool
}

// NewWizard returns a Wizard using driver, or a survey driver when nil.
func NewWizard(driver Driver) *Wizard {
	if driver == nil {
		driver = NewSurveyDriver(nil)
	}
	return &Wizard{driver: driver}
}

// Run asks every question and returns the resulting plan.
func (w *Wizard) Run(ctx context.Context) (*plan.Plan, error) {
	options := make([]string, len(plan.Sections))
	defaults := make([]int, len(plan.Sections))
	for i, section := range plan.Sections {
		options[i] = string(section)
		defaults[i] = i
	}
	picked, err := w.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Which files should the plan generate?",
		Options:  options,
		Defaults: defaults,
	})
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, errors.New("prompt: no sections selected")
	}

	w.abbrevs, w.asked = nil, false
	p := &plan.Plan{}
	if p.Models, err = w.list(ctx, "Models (comma separated)", coupler.AlphaModels()); err != nil {
		return nil, err
	}
	if p.Scenarios, err = w.list(ctx, "Scenarios (comma separated)", DefaultScenarios); err != nil {
		return nil, err
	}

	for _, idx := range picked {
		switch plan.Sections[idx] {
		case plan.SectionCoupler:
			p.Coupler, err = w.coupler(ctx, p.Models)
		case plan.SectionJobs:
			p.Jobs, err = w.jobs(ctx, p)
		case plan.SectionHydrology:
			p.Hydrology, err = w.hydrology(ctx, p)
		}
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (w *Wizard) coupler(ctx context.Context, models []string) (*plan.CouplerSection, error) {
	if err := w.driver.Info(ctx, "Cassandra coupler configs"); err != nil {
		return nil, err
	}
	defaults := coupler.DefaultConfig()
	s := &plan.CouplerSection{}
	var err error
	if s.OutputDir, err = w.text(ctx, "Config output directory", "", required); err != nil {
		return nil, err
	}
	if s.RunsPerConfig, err = w.number(ctx, "Runs per model and scenario", 1, 0); err != nil {
		return nil, err
	}
	if s.ModelInterfaceJar, err = w.text(ctx, "GCAM ModelInterface jar", "", required); err != nil {
		return nil, err
	}
	if s.DBXMLLib, err = w.text(ctx, "DBXML library directory", "", required); err != nil {
		return nil, err
	}
	if s.InputDir, err = w.text(ctx, "GCAM input directory", defaults.InputDir, required); err != nil {
		return nil, err
	}

	xanthos, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Include the Xanthos component?", Default: defaults.Xanthos.Enabled})
	if err != nil {
		return nil, err
	}
	s.Xanthos = &plan.XanthosSection{Enabled: plan.Ptr(xanthos)}
	if xanthos {
		if s.Xanthos.ConfigDir, err = w.text(ctx, "Xanthos config directory", "", required); err != nil {
			return nil, err
		}
		if s.Xanthos.Abbreviations, err = w.runPrefix(ctx); err != nil {
			return nil, err
		}
	}

	fldgen, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Include the fldgen component?", Default: defaults.Fldgen.Enabled})
	if err != nil {
		return nil, err
	}
	s.Fldgen = &plan.FldgenSection{Enabled: plan.Ptr(fldgen)}
	if fldgen {
		for _, model := range models {
			if _, err := coupler.AlphaCoefficient(model); err != nil {
				msg := fmt.Sprintf("warning: fldgen has no alpha coefficient for %s (known: %s)", model, strings.Join(coupler.AlphaModels(), ", "))
				if err := w.driver.Info(ctx, msg); err != nil {
					return nil, err
				}
			}
		}
		if s.Fldgen.EmulatorDir, err = w.text(ctx, "fldgen emulator directory", "", required); err != nil {
			return nil, err
		}
		if s.Fldgen.TgavDir, err = w.text(ctx, "Global temperature (tgav) directory", "", required); err != nil {
			return nil, err
		}
		if s.Fldgen.NGrids, err = w.number(ctx, "Fields per run (ngrids)", defaults.Fldgen.NGrids, 1); err != nil {
			return nil, err
		}
		if s.Fldgen.StartYear, err = w.number(ctx, "fldgen start year", defaults.Fldgen.StartYear, 0); err != nil {
			return nil, err
		}
		if s.Fldgen.ThroughYear, err = w.number(ctx, "fldgen through year", max(defaults.Fldgen.ThroughYear, *s.Fldgen.StartYear), *s.Fldgen.StartYear); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (w *Wizard) jobs(ctx context.Context, p *plan.Plan) (*plan.JobsSection, error) {
	if err := w.driver.Info(ctx, "SLURM job scripts"); err != nil {
		return nil, err
	}
	defaults := jobscript.DefaultConfig()
	configDir := ""
	if p.Coupler != nil && p.Coupler.OutputDir != nil {
		configDir = *p.Coupler.OutputDir
	}

	s := &plan.JobsSection{}
	var err error
	if s.OutputDir, err = w.text(ctx, "Job script output directory", "", required); err != nil {
		return nil, err
	}
	if s.CassandraConfigDir, err = w.text(ctx, "Directory holding the coupler configs", configDir, required); err != nil {
		return nil, err
	}
	if s.CassandraLogDir, err = w.text(ctx, "Cassandra log directory", "", required); err != nil {
		return nil, err
	}
	if s.CassandraMainScript, err = w.text(ctx, "Cassandra main script", "", required); err != nil {
		return nil, err
	}
	if s.Account, err = w.text(ctx, "SLURM account", "", required); err != nil {
		return nil, err
	}
	if s.Partition, err = w.text(ctx, "SLURM partition", defaults.Partition, required); err != nil {
		return nil, err
	}
	if s.Walltime, err = w.text(ctx, "Walltime", defaults.Walltime, required); err != nil {
		return nil, err
	}
	if s.NTasks, err = w.number(ctx, "Tasks", defaults.NTasks, 1); err != nil {
		return nil, err
	}
	if s.Nodes, err = w.number(ctx, "Nodes", defaults.Nodes, 1); err != nil {
		return nil, err
	}
	if s.Template, err = w.optional(ctx, "Custom sbatch template (blank for the bundled one)", readableFile); err != nil {
		return nil, err
	}
	return s, nil
}

func (w *Wizard) hydrology(ctx context.Context, p *plan.Plan) (*plan.HydrologySection, error) {
	if err := w.driver.Info(ctx, "Xanthos configs"); err != nil {
		return nil, err
	}
	defaults := hydrology.DefaultConfig()
	outputDir, runs := "", 1
	if c := p.Coupler; c != nil {
		if c.Xanthos != nil && c.Xanthos.ConfigDir != nil {
			outputDir = *c.Xanthos.ConfigDir
		}
		if c.RunsPerConfig != nil {
			runs = *c.RunsPerConfig
		}
	}

	s := &plan.HydrologySection{}
	var err error
	if s.OutputDir, err = w.text(ctx, "Xanthos config output directory", outputDir, required); err != nil {
		return nil, err
	}
	if s.NConfigs, err = w.number(ctx, "Configs per model and scenario", runs, 0); err != nil {
		return nil, err
	}
	if s.RootDir, err = w.text(ctx, "Xanthos root directory", "", required); err != nil {
		return nil, err
	}
	if s.ModelOutputDir, err = w.text(ctx, "Xanthos output folder", "", required); err != nil {
		return nil, err
	}
	if s.DroughtThresholdsDir, err = w.text(ctx, "Drought thresholds directory", "", required); err != nil {
		return nil, err
	}
	if s.OutputVariables, err = w.text(ctx, "Output variables", defaults.OutputVariables, required); err != nil {
		return nil, err
	}
	drought, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Compute drought statistics?", Default: defaults.DroughtStats != 0})
	if err != nil {
		return nil, err
	}
	if drought {
		s.DroughtStats = plan.Ptr(1)
	} else {
		s.DroughtStats = plan.Ptr(0)
	}
	if s.Abbreviations, err = w.runPrefix(ctx); err != nil {
		return nil, err
	}
	if s.Template, err = w.optional(ctx, "Custom Xanthos template (blank for the bundled one)", readableFile); err != nil {
		return nil, err
	}
	return s, nil
}

// runPrefix asks for the PET, runoff and router abbreviations the first time
// a section needs them and reuses the answers afterwards.
func (w *Wizard) runPrefix(ctx context.Context) (*plan.Abbreviations, error) {
	if w.asked {
		if w.abbrevs != nil {
			prefix := w.abbrevs.Prefix()
			if err := w.driver.Info(ctx, "Using run prefix "+prefix); err != nil {
				return nil, err
			}
		}
		return w.abbrevs.Clone(), nil
	}

	a := &plan.Abbreviations{}
	var err error
	if a.PET, err = w.optional(ctx, "PET abbreviation (blank for none)", nil); err != nil {
		return nil, err
	}
	if a.Runoff, err = w.optional(ctx, "Runoff abbreviation (blank for none)", nil); err != nil {
		return nil, err
	}
	if a.Router, err = w.optional(ctx, "Router abbreviation (blank for none)", nil); err != nil {
		return nil, err
	}
	if a.PET == nil && a.Runoff == nil && a.Router == nil {
		a = nil
	}
	w.abbrevs, w.asked = a, true
	return a.Clone(), nil
}

func (w *Wizard) text(ctx context.Context, message, def string, validate func(string) error) (*string, error) {
	answer, err := w.driver.Input(ctx, InputConfig{Message: message, Default: def, Validator: validate})
	if err != nil {
		return nil, err
	}
	return plan.Ptr(strings.TrimSpace(answer)), nil
}

// optional returns nil for a blank answer.
func (w *Wizard) optional(ctx context.Context, message string, validate func(string) error) (*string, error) {
	answer, err := w.driver.Input(ctx, InputConfig{Message: message, Validator: validate})
	if err != nil {
		return nil, err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return nil, nil
	}
	return plan.Ptr(answer), nil
}

func (w *Wizard) number(ctx context.Context, message string, def, floor int) (*int, error) {
	answer, err := w.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   strconv.Itoa(def),
		Validator: atLeast(floor),
	})
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return nil, fmt.Errorf("prompt: %s: %w", message, err)
	}
	return plan.Ptr(n), nil
}

func (w *Wizard) list(ctx context.Context, message string, def []string) ([]string, error) {
	answer, err := w.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   strings.Join(def, ","),
		Validator: uniqueList,
	})
	if err != nil {
		return nil, err
	}
	return splitList(answer), nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

func readableFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := os.Stat(s); err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	return nil
}

func atLeast(floor int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < floor {
			return fmt.Errorf("must be at least %d", floor)
		}
		return nil
	}
}

func uniqueList(s string) error {
	items := splitList(s)
	if len(items) == 0 {
		return errors.New("enter at least one name")
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			return fmt.Errorf("%s is listed twice", item)
		}
		seen[item] = struct{}{}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}
