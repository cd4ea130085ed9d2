package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-cassie/internal/logging"
	"github.com/goliatone/go-cassie/pkg/prompt"
)

// app carries global flags and collaborators shared by every command.
type app struct {
	// Global flags
	verbose   bool
	logFormat string

	logger    *zap.Logger
	newDriver func(out io.Writer) prompt.Driver
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	if a.newDriver == nil {
		a.newDriver = prompt.NewSurveyDriver
	}

	root := &cobra.Command{
		Use:   "cassie",
		Short: "Generate Cassandra coupler configs, SLURM job scripts and Xanthos configs",
		Long: `cassie writes the input files for coupled GCAM, Xanthos and fldgen runs
under the Cassandra coupler.

Describe a pass in a plan file (YAML, JSON or HCL), or create one with
"cassie init", then run "cassie generate --plan FILE".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger == nil {
				format, err := logging.ParseFormat(a.logFormat)
				if err != nil {
					return err
				}
				a.logger, err = logging.New(logging.Options{Verbose: a.verbose, Format: format})
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", string(logging.FormatConsole), "Log format: json or console")

	root.AddCommand(
		newGenerateCmd(),
		newSectionCmd(sectionCoupler),
		newSectionCmd(sectionJobs),
		newSectionCmd(sectionHydrology),
		newInitCmd(a),
		newTemplatesCmd(),
	)
	return root
}
