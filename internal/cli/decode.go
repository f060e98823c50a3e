package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WhileEndless/go-httpresult/pkg/response"
)

func newDecodeCmd(in *inputFlags) *cobra.Command {
	var (
		target string
		lossy  bool
	)

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Print the body converted into a target encoding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, flush, err := loadRecord(cmd, in, response.WithTargetEncoding(target))
			if err != nil {
				return err
			}
			defer flush()

			decode := rec.DecodedBody
			if lossy {
				decode = rec.InspectableBody
			}
			text, err := decode()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "UTF-8", "Target encoding")
	cmd.Flags().BoolVar(&lossy, "lossy", false, "Replace characters the target cannot represent with '?'")
	return cmd
}
