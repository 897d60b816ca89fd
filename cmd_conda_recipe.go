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
		Meta         conda.RecipeMeta
		Requirements string
	}
	cmd := &cobra.Command{
		Use:   "recipe [flags] >meta.yaml",
		Short: "Render a conda-build meta.yaml recipe",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reqs []requirements.Requirement
			if flags.Requirements != "" {
				result, err := requirements.Read(cmd.Context(), flags.Requirements)
				if err != nil {
					return err
				}
				reqs = requirements.Combine(result.Requirements...)
			}

			recipe := conda.NewRecipe(flags.Meta, reqs...)
			content, err := recipe.Render()
			if err != nil {
				return err
			}
			if _, err := os.Stdout.Write(content); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Meta.Name, "name", "",
		"The project `NAME`")
	cmd.Flags().StringVar(&flags.Meta.Version, "version", "",
		"The release `VERSION` to package")
	cmd.Flags().StringVar(&flags.Meta.Summary, "summary", "",
		"A one-line `SUMMARY` of the project")
	cmd.Flags().StringVar(&flags.Meta.HomePage, "home", "",
		"The project's home page `URL`")
	cmd.Flags().StringVar(&flags.Meta.License, "license", "",
		"The project's `LICENSE` identifier")
	cmd.Flags().StringArrayVar(&flags.Meta.Maintainers, "maintainer", nil,
		"A recipe maintainer's `USERNAME` (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.Meta.Channels, "channel", "c", nil,
		"A `CHANNEL` that installation requires (repeatable)")
	cmd.Flags().StringVar(&flags.Requirements, "requirements", "",
		"Read the project's runtime requirements from `IN_REQUIREMENTSFILE`")
	for _, name := range []string{"name", "version"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	argparserConda.AddCommand(cmd)
}
