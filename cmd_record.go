package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/checksum"
	"github.com/datawire/shippinglabel/pkg/cliutil"
)

func init() {
	cmd := &cobra.Command{
		Use:   "record [flags] FILES... >OUT_RECORD",
		Short: "Print RECORD lines for files",
		Long: "Print a PEP 376 RECORD line (path, SHA-256 digest, size) for each " +
			"file, as found in a .dist-info directory.",
		Args: cliutil.WrapPositionalArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, file := range args {
				entry, err := checksum.RecordEntry(file)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s\n", entry.String())
			}
			return nil
		},
	}
	argparser.AddCommand(cmd)
}
