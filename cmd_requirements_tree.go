package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/python/distdb"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

func printTree(nodes []requirements.TreeNode, indent string) {
	for _, node := range nodes {
		fmt.Fprintf(os.Stdout, "%s%s\n", indent, node.Requirement.String())
		printTree(node.Deps, indent+"  ")
	}
}

func init() {
	var flags struct {
		Depth       int
		Interpreter string
		Path        []string
	}
	cmd := &cobra.Command{
		Use:   "tree [flags] DISTNAME",
		Short: "Print the dependency tree of an installed distribution",
		Long: "Print the dependency tree of a distribution that is installed in a " +
			"Python environment: the distribution's requirements, their " +
			"requirements, and so on.  The environment is found by asking an " +
			"interpreter for its sys.path, or is given directly with --path.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(flags.Path) > 0 && flags.Interpreter != "" {
				return fmt.Errorf("--python and --path are mutually exclusive")
			}
			searchPath := flags.Path
			if len(searchPath) == 0 {
				interpreter := flags.Interpreter
				if interpreter == "" {
					interpreter = "python3"
				}
				var err error
				searchPath, err = distdb.InterpreterPath(ctx, interpreter)
				if err != nil {
					return err
				}
			}

			nodes, err := requirements.Tree(args[0], flags.Depth, distdb.New(searchPath...))
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s\n", args[0])
			printTree(nodes, "  ")
			return nil
		},
	}
	cmd.Flags().IntVar(&flags.Depth, "depth", -1,
		"Descend `LEVELS` levels deep; negative means unlimited")
	cmd.Flags().StringVar(&flags.Interpreter, "python", "",
		"Ask `INTERPRETER` for its sys.path (default \"python3\")")
	cmd.Flags().StringArrayVar(&flags.Path, "path", nil,
		"Search `DIR` for installed distributions instead of asking an interpreter (repeatable)")
	argparserRequirements.AddCommand(cmd)
}
