package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/pypi"
	"github.com/datawire/shippinglabel/pkg/python"
)

func init() {
	var flags struct {
		Files bool
		NoPre bool
		NoDev bool
	}
	filter := func(versions []string) []string {
		if flags.NoPre {
			versions = python.NoPreVersions(versions)
		}
		if flags.NoDev {
			versions = python.NoDevVersions(versions)
		}
		return versions
	}
	cmd := &cobra.Command{
		Use:   "releases [flags] PROJECTNAME",
		Short: "Print a project's release versions, oldest first",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var client pypi.Client

			if !flags.Files {
				versions, err := client.Releases(ctx, args[0])
				if err != nil {
					return err
				}
				for _, version := range filter(versions) {
					fmt.Fprintf(os.Stdout, "%s\n", version)
				}
				return nil
			}

			releases, err := client.ReleasesWithDigests(ctx, args[0])
			if err != nil {
				return err
			}
			versions := make([]string, 0, len(releases))
			byVersion := make(map[string]pypi.Release, len(releases))
			for _, release := range releases {
				versions = append(versions, release.Version)
				byVersion[release.Version] = release
			}
			for _, version := range filter(versions) {
				release := byVersion[version]
				fmt.Fprintf(os.Stdout, "%s\n", release.Version)
				for _, file := range release.Files {
					fmt.Fprintf(os.Stdout, "  %s\n", file.URL)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.Files, "files", false,
		"Also print the files of each release")
	cmd.Flags().BoolVar(&flags.NoPre, "no-pre", false,
		"Leave out pre-release versions")
	cmd.Flags().BoolVar(&flags.NoDev, "no-dev", false,
		"Leave out versions ending in \"-dev\"")
	argparserPypi.AddCommand(cmd)
}
