package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridplace/pkg/design"
	"github.com/matzehuels/gridplace/pkg/device"
	"github.com/matzehuels/gridplace/pkg/device/generic"
)

func newGridCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grid <design.toml>",
		Short: "Show grid occupancy for a design's starting placement",
		Long: `Grid prints one character per tile: '.' for a free tile, otherwise the
first letter of an occupying cell coloured by its binding strength.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grid, _, err := design.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleTitle.Render(fmt.Sprintf("Grid %dx%d", grid.GridDimX(), grid.GridDimY())))
			for y := grid.GridDimY() - 1; y >= 0; y-- {
				for x := 0; x < grid.GridDimX(); x++ {
					fmt.Fprint(out, tileGlyph(grid, x, y))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

// tileGlyph renders one tile: the first occupied bel in the tile's z
// column decides the glyph and colour.
func tileGlyph(grid *generic.Grid, x, y int) string {
	for z := 0; z < grid.TileDimZ(x, y); z++ {
		bel := grid.BelAt(device.Loc{X: x, Y: y, Z: z})
		if !bel.Valid() {
			continue
		}
		if cell := grid.BoundCell(bel); cell != nil {
			return strengthStyle(cell.Strength).Render(cell.Name[:1])
		}
	}
	return styleDim.Render(".")
}
