// Command shippinglabel deals with Python packaging metadata: requirements
// files, the PyPI and Conda indices, checksums, and installed-distribution
// metadata.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
)

var argparser = &cobra.Command{
	Use:   "shippinglabel {[flags]|SUBCOMMAND...}",
	Short: "Deal with Python packaging metadata",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,

	SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
	SilenceUsage:  true, // our FlagErrorFunc will handle it
}

func init() {
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
}

func main() {
	ctx := context.Background()

	if err := argparser.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
