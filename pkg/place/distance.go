package place

import "github.com/matzehuels/gridplace/pkg/netlist"

// unplacedPenalty flags an unplaced cell in a chain as grossly infeasible.
// It dominates any realistic grid distance.
const unplacedPenalty = 100000

// ConstraintsDistance returns 0 when the chain rooted at cell satisfies all
// of its relative placement constraints, and a positive Manhattan-style
// penalty otherwise. Unplaced cells contribute [unplacedPenalty].
//
// For a chain root, each constrained axis contributes the distance between
// the constraint value and the root's location. For a child, x and y
// constraints are offsets from the parent, and z is an offset or an
// absolute value depending on ConstrAbsZ.
func ConstraintsDistance(ctx Context, cell *netlist.Cell) int {
	dist := 0
	if !cell.Bel.Valid() {
		return unplacedPenalty
	}
	loc := ctx.BelLocation(cell.Bel)
	if parent := cell.ConstrParent; parent == nil {
		if cell.ConstrX != netlist.Unconstr {
			dist += abs(cell.ConstrX - loc.X)
		}
		if cell.ConstrY != netlist.Unconstr {
			dist += abs(cell.ConstrY - loc.Y)
		}
		if cell.ConstrZ != netlist.Unconstr {
			dist += abs(cell.ConstrZ - loc.Z)
		}
	} else {
		if !parent.Bel.Valid() {
			return unplacedPenalty
		}
		parentLoc := ctx.BelLocation(parent.Bel)
		if cell.ConstrX != netlist.Unconstr {
			dist += abs(cell.ConstrX - (loc.X - parentLoc.X))
		}
		if cell.ConstrY != netlist.Unconstr {
			dist += abs(cell.ConstrY - (loc.Y - parentLoc.Y))
		}
		if cell.ConstrZ != netlist.Unconstr {
			if cell.ConstrAbsZ {
				dist += abs(cell.ConstrZ - loc.Z)
			} else {
				dist += abs(cell.ConstrZ - (loc.Z - parentLoc.Z))
			}
		}
	}
	for _, child := range cell.ConstrChildren {
		dist += ConstraintsDistance(ctx, child)
	}
	return dist
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
