package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

func init() {
	cmd := &cobra.Command{
		Use:   "merge [flags] IN_REQUIREMENTSFILES... >OUT_REQUIREMENTSFILE",
		Short: "Merge requirements files in to one",
		Long: "Read each of the given requirements files, merge requirements that " +
			"name the same project, and write the combined list to stdout in " +
			"canonical form.  Comments do not survive the merge.",
		Args: cliutil.WrapPositionalArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var reqs []requirements.Requirement
			for _, file := range args {
				result, err := requirements.Read(ctx, file)
				if err != nil {
					return err
				}
				reqs = append(reqs, result.Requirements...)
			}

			content := requirements.Format(requirements.Combine(reqs...), nil)
			if _, err := os.Stdout.Write(content); err != nil {
				return err
			}
			return nil
		},
	}
	argparserRequirements.AddCommand(cmd)
}
