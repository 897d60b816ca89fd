package main

import (
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/pypi"
)

func init() {
	var flags struct {
		Specifier string
		DryRun    bool
	}
	cmd := &cobra.Command{
		Use:   "bind [flags] REQUIREMENTSFILE",
		Short: "Pin unbound requirements to the newest release",
		Long: "Rewrite a requirements file in place, giving every requirement that " +
			"has neither a version specifier nor a URL a specifier naming the " +
			"newest release on PyPI.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var client pypi.Client

			if flags.DryRun {
				before, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				content, err := client.BindRequirementsContent(ctx, before, flags.Specifier)
				if err != nil {
					return err
				}
				if _, err := os.Stdout.Write(content); err != nil {
					return err
				}
				return nil
			}

			changed, err := client.BindRequirements(ctx, args[0], flags.Specifier)
			if err != nil {
				return err
			}
			if changed {
				dlog.Infof(ctx, "rewrote %q", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Specifier, "specifier", ">=",
		"Pin with `OPERATOR` rather than \">=\"")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Print the bound file to stdout instead of rewriting it")
	argparserRequirements.AddCommand(cmd)
}
