package main

import (
	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
)

var argparserConda = &cobra.Command{
	Use:   "conda {[flags]|SUBCOMMAND...}",
	Short: "Work with Conda channels",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserConda)
}
