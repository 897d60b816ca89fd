package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/conda"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

func init() {
	var flags struct {
		Channels []string
	}
	cmd := &cobra.Command{
		Use:   "validate [flags] REQUIREMENTSFILE",
		Short: "Check that requirements are available from Conda channels",
		Long: "Check that each requirement in the file can be satisfied from the " +
			"given Conda channels, and print the requirements with their names " +
			"rewritten to the channels' spelling.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			result, err := requirements.Read(ctx, args[0])
			if err != nil {
				return err
			}

			var client conda.Client
			valid, err := client.ValidateRequirements(ctx, result.Requirements, flags.Channels)
			if err != nil {
				return err
			}
			for _, req := range valid {
				fmt.Fprintf(os.Stdout, "%s\n", req.String())
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&flags.Channels, "channel", "c", nil,
		"Search `CHANNEL` for packages (repeatable)")
	if err := cmd.MarkFlagRequired("channel"); err != nil {
		panic(err)
	}
	argparserConda.AddCommand(cmd)
}
