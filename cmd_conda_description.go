package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/conda"
)

func init() {
	var flags struct {
		Channels []string
	}
	cmd := &cobra.Command{
		Use:   "description [flags] SUMMARY",
		Short: "Print a Conda package description block",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := conda.Description(args[0], flags.Channels...)
			fmt.Fprintf(os.Stdout, "%s\n", strings.TrimSuffix(desc, "\n"))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&flags.Channels, "channel", "c", nil,
		"Mention `CHANNEL` in the description (repeatable)")
	argparserConda.AddCommand(cmd)
}
