package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/pypi"
)

func init() {
	var flags struct {
		Strict bool
	}
	cmd := &cobra.Command{
		Use:   "sdist-url [flags] PROJECTNAME VERSION",
		Short: "Print the URL of a release's source distribution",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var client pypi.Client
			sdistURL, err := client.SdistURL(cmd.Context(), args[0], args[1], flags.Strict)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s\n", sdistURL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.Strict, "strict", false,
		"Fail when the release has no .tar.gz, rather than falling back to another file")
	argparserPypi.AddCommand(cmd)
}
