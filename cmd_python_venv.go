package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/python"
)

func init() {
	cmd := &cobra.Command{
		Use:   "venv [flags] VENVDIR",
		Short: "Summarize a virtualenv's pyvenv.cfg",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := python.ReadPyvenvCfg(args[0])
			if err != nil {
				return err
			}

			// The stdlib venv module writes "version"; the virtualenv
			// tool writes "version_info".
			version := cfg["version"]
			if version == "" {
				version = cfg["version_info"]
			}
			fmt.Fprintf(os.Stdout, "version: %s\n", version)
			if prompt, ok := cfg["prompt"]; ok {
				fmt.Fprintf(os.Stdout, "prompt: %s\n", prompt)
			}
			fmt.Fprintf(os.Stdout, "base: %s\n", cfg["home"])
			return nil
		},
	}
	argparserPython.AddCommand(cmd)
}
