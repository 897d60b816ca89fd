package main

import (
	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
)

var argparserRequirements = &cobra.Command{
	Use:   "requirements {[flags]|SUBCOMMAND...}",
	Short: "Work with requirements.txt files",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserRequirements)
}
