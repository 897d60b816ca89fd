package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/pypi"
)

func init() {
	cmd := &cobra.Command{
		Use:   "latest [flags] PROJECTNAME",
		Short: "Print the version of a project's newest release",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var client pypi.Client
			latest, err := client.Latest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s\n", latest)
			return nil
		},
	}
	argparserPypi.AddCommand(cmd)
}
