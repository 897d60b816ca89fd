package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

func init() {
	var flags struct {
		Flavour string
		Extra   string
	}
	cmd := &cobra.Command{
		Use:   "pyproject [flags] PYPROJECTFILE >OUT_REQUIREMENTSFILE",
		Short: "Extract requirements from a pyproject.toml",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			flavour := requirements.Flavour(flags.Flavour)
			switch flavour {
			case requirements.FlavourAuto, requirements.FlavourPEP621, requirements.FlavourFlit:
				// ok
			default:
				return fmt.Errorf("invalid flavour %q", flags.Flavour)
			}

			var reqs []requirements.Requirement
			if flags.Extra == "" {
				var err error
				reqs, err = requirements.PyprojectDependencies(args[0], flavour)
				if err != nil {
					return err
				}
			} else {
				extras, err := requirements.PyprojectExtras(args[0], flavour)
				if err != nil {
					return err
				}
				var ok bool
				reqs, ok = extras[flags.Extra]
				if !ok {
					return fmt.Errorf("%s: no extra %q", args[0], flags.Extra)
				}
			}

			content := requirements.Format(reqs, nil)
			if _, err := os.Stdout.Write(content); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Flavour, "flavour", "auto",
		"Read the file as `FLAVOUR`: \"auto\", \"pep621\", or \"flit\"")
	cmd.Flags().StringVar(&flags.Extra, "extra", "",
		"Print the requirements of `EXTRA` rather than the base requirements")
	cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		// Accept the American spelling too.
		if name == "flavor" {
			name = "flavour"
		}
		return pflag.NormalizedName(name)
	})
	argparserRequirements.AddCommand(cmd)
}
