package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datawire/shippinglabel/pkg/classifiers"
	"github.com/datawire/shippinglabel/pkg/cliutil"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

func init() {
	var flags struct {
		Condensed bool
	}
	cmd := &cobra.Command{
		Use:   "suggest [flags] REQUIREMENTSFILE",
		Short: "Suggest classifiers implied by a project's requirements",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := requirements.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			suggestions := classifiers.Suggest(result.Requirements)

			if flags.Condensed {
				content, err := json.Marshal(suggestions)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s\n", content)
				return nil
			}
			for _, classifier := range suggestions {
				fmt.Fprintf(os.Stdout, "%s\n", classifier)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.Condensed, "condensed", false,
		"Print one JSON array rather than one classifier per line")
	argparserClassifiers.AddCommand(cmd)
}
