package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridplace/pkg/design"
	"github.com/matzehuels/gridplace/pkg/device/generic"
	"github.com/matzehuels/gridplace/pkg/netlist"
)

func newChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains <design.toml>",
		Short: "Print the design's constraint forest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grid, nl, err := design.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			found := false
			for _, cell := range nl.SortedCells() {
				if cell.ConstrParent != nil || !cell.Constrained() {
					continue
				}
				found = true
				printChainTree(out, grid, cell, 0)
			}
			if !found {
				fmt.Fprintln(out, styleDim.Render("no constraint chains in design"))
			}
			return nil
		},
	}
}

// printChainTree writes one chain as an indented tree with constraint
// tuples and current locations.
func printChainTree(out io.Writer, grid *generic.Grid, cell *netlist.Cell, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "    "
	}
	glyph := ""
	if depth > 0 {
		glyph = styleDim.Render("└─ ")
	}
	loc := styleDim.Render("unplaced")
	if cell.Placed() {
		loc = grid.BelLocation(cell.Bel).String()
	}
	fmt.Fprintf(out, "%s%s%s  (%s, %s, %s)  %s\n", indent, glyph, styleTitle.Render(cell.Name),
		axisString(cell.ConstrX), axisString(cell.ConstrY), axisString(cell.ConstrZ), loc)
	for _, child := range cell.ConstrChildren {
		printChainTree(out, grid, child, depth+1)
	}
}

func axisString(v int) string {
	if v == netlist.Unconstr {
		return "*"
	}
	return strconv.Itoa(v)
}
