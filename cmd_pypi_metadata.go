package main

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/pypi"
)

func init() {
	cmd := &cobra.Command{
		Use:   "metadata [flags] PROJECTNAME [VERSION] >OUT_JSONFILE",
		Short: "Dump a project's JSON API document",
		Args:  cliutil.WrapPositionalArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var version string
			if len(args) == 2 {
				version = args[1]
			}

			var client pypi.Client
			raw, err := client.MetadataJSON(cmd.Context(), args[0], version)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := json.Indent(&buf, raw, "", "  "); err != nil {
				return err
			}
			buf.WriteByte('\n')
			if _, err := buf.WriteTo(os.Stdout); err != nil {
				return err
			}
			return nil
		},
	}
	argparserPypi.AddCommand(cmd)
}
