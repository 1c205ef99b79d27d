package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridplace/pkg/design"
	"github.com/matzehuels/gridplace/pkg/device/generic"
	"github.com/matzehuels/gridplace/pkg/netlist"
	"github.com/matzehuels/gridplace/pkg/place"
)

func newPlaceCmd() *cobra.Command {
	var noLegality bool

	cmd := &cobra.Command{
		Use:   "place <design.toml>",
		Short: "Place a design and legalise its relative constraints",
		Long: `Place loads a TOML design, gives every unplaced cell an initial bel with
the single-cell placer, legalises relative placement constraints, and
reports the resulting wirelength per net.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			runID := uuid.NewString()
			logger.Info("Starting placement run", "run", runID, "design", args[0])

			grid, nl, err := design.Load(args[0])
			if err != nil {
				return err
			}

			p := newProgress(logger)
			placed := 0
			for _, cell := range nl.SortedCells() {
				if cell.Placed() {
					continue
				}
				if err := place.PlaceSingleCell(grid, cell, !noLegality); err != nil {
					logger.Error("Initial placement failed", "cell", cell.Name)
					return err
				}
				placed++
			}
			p.done(fmt.Sprintf("Placed %d unplaced cells", placed))

			p = newProgress(logger)
			sp := newSpinner("legalising relative constraints")
			sp.start()
			err = place.LegaliseRelativeConstraints(grid, nl, logger)
			sp.stop()
			if err != nil {
				fmt.Fprintln(os.Stderr, styleError.Render("legalisation failed"))
				return err
			}
			p.done("Legalised relative constraints")

			printReport(cmd, grid, nl)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLegality, "no-legality", false, "skip architecture legality checks during initial placement")
	return cmd
}

// printReport writes final cell locations and per-net wirelength to stdout.
func printReport(cmd *cobra.Command, grid *generic.Grid, nl *netlist.Netlist) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, styleTitle.Render("Placement"))
	for _, cell := range nl.SortedCells() {
		loc := "unplaced"
		if cell.Placed() {
			loc = grid.BelLocation(cell.Bel).String()
		}
		fmt.Fprintf(out, "  %-24s %-12s %s\n", cell.Name,
			strengthStyle(cell.Strength).Render(cell.Strength.String()), loc)
	}

	fmt.Fprintln(out, styleTitle.Render("Wirelength"))
	var total place.Wirelen
	tns := 0.0
	for _, net := range nl.SortedNets() {
		wl := place.NetMetric(grid, net, place.MetricWirelength, nil)
		place.NetMetric(grid, net, place.MetricCost, &tns)
		total += wl
		fmt.Fprintf(out, "  %-24s %s\n", net.Name, styleNumber.Render(fmt.Sprintf("%d", wl)))
	}
	fmt.Fprintf(out, "  %-24s %s\n", "total", styleNumber.Render(fmt.Sprintf("%d", total)))
	if grid.TimingDriven() {
		fmt.Fprintf(out, "  %-24s %s\n", "tns (ns)", styleNumber.Render(fmt.Sprintf("%.2f", tns)))
	}
}
