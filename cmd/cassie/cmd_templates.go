package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-cassie/pkg/templates"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates [name]",
		Short: "List or print the bundled templates",
		Long: `Without arguments, lists the bundled templates. With a name, prints the
template so it can be copied and customised.

Example:
  cassie templates sbatch_template.sh > my_job.sh`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range templates.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			text, err := templates.Default(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, text)
			return err
		},
	}
}
