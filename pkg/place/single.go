package place

import (
	"github.com/matzehuels/gridplace/pkg/device"
	"github.com/matzehuels/gridplace/pkg/errors"
	"github.com/matzehuels/gridplace/pkg/netlist"
	"github.com/matzehuels/gridplace/pkg/observability"
)

// ripupBudget bounds how many incumbents one placement may displace before
// the run is declared unplaceable.
const ripupBudget = 25

// jitterCutoff is the remaining-budget threshold below which tie-breaking
// jitter is disabled, forcing the final rounds to converge greedily.
const jitterCutoff = 4

// jitterRange is the exclusive upper bound of the random cost jitter.
const jitterRange = 25

// PlaceSingleCell places cell on the best available bel of matching type,
// judged by [MetricCost]. When no free bel satisfies the cell, the
// weakest-claim incumbent (strength below STRONG) with the best cost is
// ripped up and becomes the next cell to place, with a decreasing iteration
// budget.
//
// requireLegality additionally filters candidate bels through the context's
// IsValidBelForCell.
//
// Equal costs are resolved toward later candidates, and a small random
// jitter perturbs costs during early iterations to escape local minima.
// Both behaviours are load-bearing for reproducing placements: keep the
// enumeration order and seed fixed to keep results identical.
//
// A cell that cannot be placed, or a ripup cascade that exceeds its budget,
// returns a fatal UNPLACEABLE_CELL error. The caller must treat the whole
// placement run as failed; bindings made by earlier rounds are not rolled
// back.
func PlaceSingleCell(ctx Context, cell *netlist.Cell, requireLegality bool) error {
	observability.Placer().OnPlaceStart(cell.Name)
	iters := ripupBudget
	for {
		if cell.Bel.Valid() {
			ctx.Unbind(cell.Bel)
		}
		targetType := ctx.BelTypeForCellType(cell.Type)

		bestBel := device.BelInvalid
		ripupBel := device.BelInvalid
		bestCost, bestRipupCost := maxWirelen, maxWirelen
		var ripupTarget *netlist.Cell

		for _, bel := range ctx.Bels() {
			if ctx.BelType(bel) != targetType {
				continue
			}
			if requireLegality && !ctx.IsValidBelForCell(cell, bel) {
				continue
			}
			cost := CellMetricAt(ctx, cell, bel, MetricCost)
			if iters >= jitterCutoff {
				cost += Wirelen(ctx.Rng(jitterRange))
			}
			if ctx.CheckAvail(bel) {
				if cost <= bestCost {
					bestCost = cost
					bestBel = bel
				}
			} else if cost <= bestRipupCost {
				if curr := ctx.BoundCell(bel); curr.Strength < device.StrengthStrong {
					bestRipupCost = cost
					ripupBel = bel
					ripupTarget = curr
				}
			}
		}

		done := false
		if !bestBel.Valid() {
			if iters == 0 {
				return errors.New(errors.ErrCodeUnplaceableCell,
					"failed to place cell %q of type %q (ripup iteration limit exceeded)", cell.Name, cell.Type)
			}
			if !ripupBel.Valid() {
				return errors.New(errors.ErrCodeUnplaceableCell,
					"failed to place cell %q of type %q", cell.Name, cell.Type)
			}
			iters--
			loc := ctx.BelLocation(ripupTarget.Bel)
			ctx.Unbind(ripupTarget.Bel)
			observability.Placer().OnRipup(ripupTarget.Name, loc.X, loc.Y, loc.Z)
			bestBel = ripupBel
		} else {
			done = true
		}

		// Bind the current cell before switching to the displaced one:
		// the victim's old bel is now taken, so the victim's next search
		// sees it occupied.
		ctx.Bind(bestBel, cell, device.StrengthWeak)
		if done {
			loc := ctx.BelLocation(bestBel)
			observability.Placer().OnPlaceComplete(cell.Name, loc.X, loc.Y, loc.Z, ripupBudget-iters)
			return nil
		}
		cell = ripupTarget
	}
}
