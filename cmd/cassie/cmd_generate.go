package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-cassie/pkg/orchestrator"
	"github.com/goliatone/go-cassie/pkg/plan"
	"github.com/goliatone/go-cassie/pkg/report"
)

type runFlags struct {
	planPath string
	dryRun   bool
	mkdir    bool
	preview  int
	sections []string
}

func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.planPath, "plan", "p", "", "Plan file (.yaml, .yml, .json or .hcl)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Render and list files without writing them")
	cmd.Flags().BoolVar(&f.mkdir, "mkdir", false, "Create output directories before writing")
	cmd.Flags().IntVar(&f.preview, "preview", 0, "Show the first N lines of each file in the summary")
	_ = cmd.MarkFlagRequired("plan")
}

type sectionHelp struct {
	section plan.Section
	short   string
	long    string
}

var (
	sectionCoupler = sectionHelp{
		section: plan.SectionCoupler,
		short:   "Write Cassandra coupler configs",
		long: `Writes one "{model}_{scenario}_{i}.cfg" per scenario, model and run from the
plan's coupler section. Each config carries a Global section and, when
enabled, XanthosComponent and FldgenComponent sections.`,
	}
	sectionJobs = sectionHelp{
		section: plan.SectionJobs,
		short:   "Write SLURM job scripts",
		long: `Writes one "run_{model}_{scenario}.sh" per model and scenario from the plan's
jobs section, filling the sbatch template (or the plan's own template).`,
	}
	sectionHydrology = sectionHelp{
		section: plan.SectionHydrology,
		short:   "Write Xanthos configs",
		long: `Writes one "{project}_{i}.ini" per model, scenario and run from the plan's
hydrology section, filling the Xanthos template (or the plan's own template).`,
	}
)

func newGenerateCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run every section of a plan",
		Long: `Validates every section of the plan first, then writes coupler configs,
job scripts and Xanthos configs in that order. Use --section to run a subset.

Example:
  cassie generate --plan cassie.yaml --mkdir
  cassie generate --plan cassie.hcl --section jobs --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections := make([]plan.Section, 0, len(flags.sections))
			for _, name := range flags.sections {
				section, ok := plan.ParseSection(name)
				if !ok {
					return fmt.Errorf("unknown section %q (want coupler, jobs or hydrology)", name)
				}
				sections = append(sections, section)
			}
			return runPlan(cmd, flags, sections)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringSliceVarP(&flags.sections, "section", "s", nil, "Sections to run (default: every section in the plan)")
	return cmd
}

func newSectionCmd(help sectionHelp) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   string(help.section),
		Short: help.short,
		Long:  help.long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, flags, []plan.Section{help.section})
		},
	}
	flags.bind(cmd)
	return cmd
}

func runPlan(cmd *cobra.Command, flags runFlags, sections []plan.Section) error {
	ctx := cmd.Context()
	p, err := plan.Load(ctx, flags.planPath)
	if err != nil {
		return err
	}

	orch := orchestrator.New(
		orchestrator.WithDryRun(flags.dryRun),
		orchestrator.WithMkdir(flags.mkdir),
	)
	results, runErr := orch.Generate(ctx, orchestrator.Request{Plan: p, Sections: sections})

	if len(results) > 0 {
		renderer, err := report.New(report.WithPreview(flags.preview))
		if err != nil {
			return err
		}
		if err := renderer.Render(cmd.OutOrStdout(), results...); err != nil {
			return err
		}
	}
	return runErr
}
