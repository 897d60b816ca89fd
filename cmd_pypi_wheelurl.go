package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/pypi"
	"github.com/datawire/shippinglabel/pkg/python/pep425"
)

func init() {
	var flags struct {
		TagsFile string
	}
	cmd := &cobra.Command{
		Use:   "wheel-url [flags] PROJECTNAME VERSION",
		Short: "Print the URL of a release's best-matching wheel",
		Long: "Print the URL of the release's wheel whose platform compatibility tag " +
			"the target installer likes best." +
			"\n\n" +
			"The --tags-file flag points at a YAML file holding the list of " +
			"compatibility tags that the target installer accepts, most preferred " +
			"first; `pip debug --verbose` prints such a list for a running Python.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			yamlBytes, err := os.ReadFile(flags.TagsFile)
			if err != nil {
				return err
			}
			var tagStrs []string
			if err := yaml.Unmarshal(yamlBytes, &tagStrs, yaml.DisallowUnknownFields); err != nil {
				return fmt.Errorf("%s: %w", flags.TagsFile, err)
			}
			prefs := make(pep425.Installer, 0, len(tagStrs))
			for _, str := range tagStrs {
				tag, err := pep425.ParseTag(str)
				if err != nil {
					return fmt.Errorf("%s: %w", flags.TagsFile, err)
				}
				prefs = append(prefs, *tag)
			}

			var client pypi.Client
			wheelURL, err := client.WheelURL(cmd.Context(), args[0], args[1], prefs)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s\n", wheelURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.TagsFile, "tags-file", "",
		"Read the accepted compatibility tags from `IN_YAML_FILE`")
	if err := cmd.MarkFlagRequired("tags-file"); err != nil {
		panic(err)
	}
	argparserPypi.AddCommand(cmd)
}
