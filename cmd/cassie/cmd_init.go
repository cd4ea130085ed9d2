package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-cassie/pkg/plan"
	"github.com/goliatone/go-cassie/pkg/prompt"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a plan file interactively",
		Long: `Asks for models, scenarios and the settings of each section, then writes a
YAML plan that "cassie generate" can run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(out); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", out)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			p, err := prompt.NewWizard(a.newDriver(cmd.OutOrStdout())).Run(cmd.Context())
			if err != nil {
				if errors.Is(err, prompt.ErrAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted, no plan written.")
					return nil
				}
				return err
			}
			if err := plan.Save(out, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plan written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "cassie.yaml", "Where to write the plan")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing plan file")
	return cmd
}
