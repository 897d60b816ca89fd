package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/conda"
)

func init() {
	cmd := &cobra.Command{
		Use:   "listing [flags] CHANNELS...",
		Short: "Print the packages available from Conda channels",
		Args:  cliutil.WrapPositionalArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var client conda.Client

			seen := make(map[string]struct{})
			for _, channel := range args {
				packages, err := client.ChannelListing(ctx, channel)
				if err != nil {
					return err
				}
				for _, pkg := range packages {
					seen[pkg] = struct{}{}
				}
			}

			union := make([]string, 0, len(seen))
			for pkg := range seen {
				union = append(union, pkg)
			}
			sort.Strings(union)
			for _, pkg := range union {
				fmt.Fprintf(os.Stdout, "%s\n", pkg)
			}
			return nil
		},
	}
	argparserConda.AddCommand(cmd)
}
