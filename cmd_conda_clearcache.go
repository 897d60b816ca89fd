package main

import (
	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/conda"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear-cache [flags] [CHANNELS...]",
		Short: "Remove cached channel listings",
		Long: "Remove the cached package listings of the named channels, or of " +
			"every channel when none are named.",
		Args: cliutil.WrapPositionalArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var client conda.Client
			if err := client.ClearCache(args...); err != nil {
				return err
			}
			return nil
		},
	}
	argparserConda.AddCommand(cmd)
}
