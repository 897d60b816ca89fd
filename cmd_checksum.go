package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/checksum"
	"github.com/datawire/shippinglabel/pkg/cliutil"
)

func init() {
	var flags struct {
		Algorithm string
	}
	cmd := &cobra.Command{
		Use:   "checksum [flags] FILES...",
		Short: "Print file digests",
		Long: "Print the digest of each file, in the \"HEXDIGEST  FILENAME\" shape " +
			"that the coreutils *sum tools use.  Any of Python's " +
			"hashlib.algorithms_guaranteed may be named as the algorithm.",
		Args: cliutil.WrapPositionalArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, file := range args {
				fileHash, err := checksum.Hash(file, flags.Algorithm)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s  %s\n", hex.EncodeToString(fileHash.Sum(nil)), file)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Algorithm, "algorithm", "sha256",
		"Digest with `ALGORITHM`")
	argparser.AddCommand(cmd)
}
