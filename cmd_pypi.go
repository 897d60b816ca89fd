package main

import (
	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
)

var argparserPypi = &cobra.Command{
	Use:   "pypi {[flags]|SUBCOMMAND...}",
	Short: "Query the Python Package Index",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserPypi)
}
