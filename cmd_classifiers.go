package main

import (
	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
)

var argparserClassifiers = &cobra.Command{
	Use:   "classifiers {[flags]|SUBCOMMAND...}",
	Short: "Work with trove classifiers",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserClassifiers)
}
