package main

import (
	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/pypi"
)

func init() {
	var flags struct {
		Dest string
	}
	cmd := &cobra.Command{
		Use:   "download [flags] REQUIREMENTS...",
		Short: "Download the source distributions satisfying requirements",
		Long: "For each requirement, pick the newest PyPI release that satisfies its " +
			"version specifier, download that release's source distribution, and " +
			"verify its checksum.  Requirements that point at a URL are skipped.",
		Args: cliutil.WrapPositionalArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := ParseRequirements(args)
			if err != nil {
				return err
			}
			var client pypi.Client
			if err := client.Download(cmd.Context(), flags.Dest, reqs...); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.Dest, "dest", "d", ".",
		"Download into `DIR`")
	argparserPypi.AddCommand(cmd)
}
