package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/datawire/shippinglabel/pkg/classifiers"
	"github.com/datawire/shippinglabel/pkg/cliutil"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate [flags] [CLASSIFIERSFILE]",
		Short: "Check classifiers against the published trove list",
		Long: "Check classifiers, one per line, against the list published at " +
			"https://pypi.org/classifiers/.  Unknown classifiers are errors; " +
			"deprecated classifiers are warnings.  Without a file argument the " +
			"classifiers are read from stdin.",
		Args: cliutil.WrapPositionalArgs(cobra.RangeArgs(0, 1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) == 1 {
				filename = args[0]
			}
			content, err := ReadInput(filename)
			if err != nil {
				return err
			}
			var list []string
			for _, line := range strings.Split(string(content), "\n") {
				line = strings.TrimSpace(line)
				if line != "" {
					list = append(list, line)
				}
			}

			ok, problems := classifiers.Validate(list)

			colorize := term.IsTerminal(int(os.Stdout.Fd()))
			for _, problem := range problems {
				severity := "error"
				color := "\033[31m"
				if problem.Deprecated {
					severity = "warning"
					color = "\033[33m"
				}
				if colorize {
					fmt.Fprintf(os.Stdout, "%s%s: %s\033[0m\n", color, severity, problem.Message())
				} else {
					fmt.Fprintf(os.Stdout, "%s: %s\n", severity, problem.Message())
				}
			}
			if !ok {
				return errors.New("invalid classifiers")
			}
			return nil
		},
	}
	argparserClassifiers.AddCommand(cmd)
}
