package main

import (
	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
)

var argparserPython = &cobra.Command{
	Use:   "python {[flags]|SUBCOMMAND...}",
	Short: "Inspect Python installations",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserPython)
}
