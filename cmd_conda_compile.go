package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/conda"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

func init() {
	var flags struct {
		Extras []string
	}
	cmd := &cobra.Command{
		Use:   "compile [flags] REPODIR >OUT_REQUIREMENTSFILE",
		Short: "Compile a repository's requirements for a Conda recipe",
		Long: "Read REPODIR/requirements.txt and flatten it in to the list that a " +
			"Conda recipe can use: markers and extras stripped, URL requirements " +
			"dropped, duplicates merged.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := conda.CompileRequirements(cmd.Context(), args[0], flags.Extras)
			if err != nil {
				return err
			}
			content := requirements.Format(reqs, nil)
			if _, err := os.Stdout.Write(content); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&flags.Extras, "extra", nil,
		"Additionally require `REQUIREMENT` (repeatable)")
	argparserConda.AddCommand(cmd)
}
