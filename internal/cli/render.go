package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridplace/pkg/design"
	"github.com/matzehuels/gridplace/pkg/errors"
	"github.com/matzehuels/gridplace/pkg/render/chaindot"
)

func newRenderCmd() *cobra.Command {
	var (
		output string
		format string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "render <design.toml>",
		Short: "Render the constraint forest as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			grid, nl, err := design.Load(args[0])
			if err != nil {
				return err
			}

			dot := chaindot.ToDOT(nl, chaindot.Options{All: all, Ctx: grid})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = chaindot.RenderSVG(dot)
				if err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeRenderFailed, "unknown format %q (want dot or svg)", format)
			}

			if output == "" || output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeRenderFailed, err, "writing %q", output)
			}
			logger.Info("Wrote diagram", "path", output, "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().BoolVar(&all, "all", false, "include unconstrained cells")
	return cmd
}
