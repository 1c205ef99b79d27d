package place

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridplace/pkg/device"
	"github.com/matzehuels/gridplace/pkg/errors"
	"github.com/matzehuels/gridplace/pkg/netlist"
	"github.com/matzehuels/gridplace/pkg/observability"
)

// LegaliseRelativeConstraints walks every constraint-chain root in name
// order and moves each unsatisfied chain to a location set that satisfies
// its relative constraints, locking the chain down. Chains that are already
// satisfied are locked in place without rebinding.
//
// Cells displaced by a chain's new position are re-placed afterwards with
// [PlaceSingleCell]. On success every cell satisfies its constraints
// ([ConstraintsDistance] == 0). On failure the placement map is left
// partially mutated and the caller must abandon the run.
//
// logger receives informational progress at info level and per-candidate
// detail at debug level; it may be nil.
func LegaliseRelativeConstraints(ctx Context, nl *netlist.Netlist, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &legaliseWorker{
		ctx:          ctx,
		nl:           nl,
		log:          logger,
		oldLocations: map[string]device.Loc{},
	}
	return w.legaliseConstraints()
}

// legaliseWorker carries the transient state of one legalisation run. It is
// discarded on return.
type legaliseWorker struct {
	ctx          Context
	nl           *netlist.Netlist
	log          *log.Logger
	rippedCells  []*netlist.Cell
	oldLocations map[string]device.Loc
}

// solution maps chain cells to their tentative locations during the
// recursive search. Nothing is bound until the whole chain succeeds.
type solution map[*netlist.Cell]device.Loc

func (w *legaliseWorker) legaliseConstraints() error {
	w.log.Info("Legalising relative constraints...")
	for _, cell := range w.nl.SortedCells() {
		if cell.Bel.Valid() {
			w.oldLocations[cell.Name] = w.ctx.BelLocation(cell.Bel)
		} else {
			w.oldLocations[cell.Name] = device.Loc{}
		}
	}
	for _, cell := range w.nl.SortedCells() {
		if err := w.legaliseCell(cell); err != nil {
			w.dumpChain(cell, 0)
			return err
		}
	}
	for _, ripped := range w.rippedCells {
		// A ripped cell whose own chain was legalised later in the pass
		// is already placed and locked; only still-homeless cells need a
		// new bel.
		if ripped.Placed() {
			continue
		}
		if err := PlaceSingleCell(w.ctx, ripped, false); err != nil {
			return errors.Wrap(errors.ErrCodeUnplaceableCell, err,
				"failed to place cell %q after relative constraint legalisation", ripped.Name)
		}
	}
	return nil
}

// legaliseCell legalises the chain rooted at cell. Cells with a parent are
// skipped; their root drives them.
func (w *legaliseWorker) legaliseCell(cell *netlist.Cell) error {
	if cell.ConstrParent != nil {
		return nil
	}
	observability.Legalise().OnChainStart(cell.Name)
	if ConstraintsDistance(w.ctx, cell) == 0 {
		w.lockdownChain(cell)
		observability.Legalise().OnChainLocked(cell.Name, chainSize(cell))
		return nil
	}

	currentLoc := w.oldLocations[cell.Name]
	if cell.Bel.Valid() {
		currentLoc = w.ctx.BelLocation(cell.Bel)
	}
	var xRoot, yRoot, zRoot diameterSearch
	if cell.ConstrX == netlist.Unconstr {
		xRoot = newDiameterSearch(currentLoc.X, 0, w.ctx.GridDimX()-1)
	} else {
		xRoot = newFixedSearch(cell.ConstrX)
	}
	if cell.ConstrY == netlist.Unconstr {
		yRoot = newDiameterSearch(currentLoc.Y, 0, w.ctx.GridDimY()-1)
	} else {
		yRoot = newFixedSearch(cell.ConstrY)
	}
	if cell.ConstrZ == netlist.Unconstr {
		zRoot = newDiameterSearch(currentLoc.Z, 0, w.ctx.TileDimZ(currentLoc.X, currentLoc.Y)-1)
	} else {
		zRoot = newFixedSearch(cell.ConstrZ)
	}

	tried := 0
	for !xRoot.done() {
		rootLoc := device.Loc{X: xRoot.get(), Y: yRoot.get(), Z: zRoot.get()}
		tried++
		w.log.Debug("trying root location", "cell", cell.Name, "loc", rootLoc)

		zRoot.next()
		if zRoot.done() {
			zRoot.reset()
			yRoot.next()
			if yRoot.done() {
				yRoot.reset()
				xRoot.next()
			}
		}

		sol := solution{}
		used := map[device.Loc]struct{}{}
		if w.validLocFor(cell, rootLoc, sol, used) {
			w.apply(cell, sol)
			observability.Legalise().OnChainPlaced(cell.Name, chainSize(cell), tried)
			return nil
		}
	}
	return errors.New(errors.ErrCodeUnsatisfiableChain,
		"failed to place chain starting at cell %q", cell.Name)
}

// validLocFor checks whether loc can host cell and, recursively, whether
// every constrained child can be hosted at a location derived from its
// offsets or found by searching its free axes. The search only writes into
// sol and used; no bels are bound or unbound here.
func (w *legaliseWorker) validLocFor(cell *netlist.Cell, loc device.Loc, sol solution, used map[device.Loc]struct{}) bool {
	bel := w.ctx.BelAt(loc)
	if !bel.Valid() {
		return false
	}
	if w.ctx.BelType(bel) != w.ctx.BelTypeForCellType(cell.Type) {
		return false
	}
	if !w.ctx.CheckAvail(bel) {
		if confl := w.ctx.ConflictingCell(bel); confl != nil && confl.Strength >= device.StrengthStrong {
			return false
		}
	}
	used[loc] = struct{}{}

	for _, child := range cell.ConstrChildren {
		var xs, ys, zs diameterSearch
		if child.ConstrX == netlist.Unconstr {
			xs = newDiameterSearch(loc.X, 0, w.ctx.GridDimX()-1)
		} else {
			xs = newFixedSearch(loc.X + child.ConstrX)
		}
		if child.ConstrY == netlist.Unconstr {
			ys = newDiameterSearch(loc.Y, 0, w.ctx.GridDimY()-1)
		} else {
			ys = newFixedSearch(loc.Y + child.ConstrY)
		}
		if child.ConstrZ == netlist.Unconstr {
			zs = newDiameterSearch(loc.Z, 0, w.ctx.TileDimZ(loc.X, loc.Y)-1)
		} else if child.ConstrAbsZ {
			zs = newFixedSearch(child.ConstrZ)
		} else {
			zs = newFixedSearch(loc.Z + child.ConstrZ)
		}

		success := false
		for !xs.done() {
			cloc := device.Loc{X: xs.get(), Y: ys.get(), Z: zs.get()}
			w.log.Debug("checking child location", "cell", child.Name, "loc", cloc)

			zs.next()
			if zs.done() {
				zs.reset()
				ys.next()
				if ys.done() {
					ys.reset()
					xs.next()
				}
			}

			if _, taken := used[cloc]; taken {
				continue
			}
			if w.validLocFor(child, cloc, sol, used) {
				success = true
				break
			}
		}
		if !success {
			delete(used, loc)
			return false
		}
	}

	// A backtracked attempt may have left an earlier tentative location
	// for this cell; release it before recording the final one.
	if old, ok := sol[cell]; ok {
		delete(used, old)
	}
	sol[cell] = loc
	return true
}

// apply moves the chain onto sol: all old bindings are released first so
// that within-chain moves cannot collide, then every cell is bound LOCKED.
// Displaced incumbents are queued on rippedCells for re-placement.
func (w *legaliseWorker) apply(root *netlist.Cell, sol solution) {
	cells := make([]*netlist.Cell, 0, len(sol))
	for c := range sol {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b *netlist.Cell) int {
		return strings.Compare(a.Name, b.Name)
	})

	for _, c := range cells {
		if c.Bel.Valid() {
			w.ctx.Unbind(c.Bel)
		}
	}
	for _, c := range cells {
		loc := sol[c]
		target := w.ctx.BelAt(loc)
		w.log.Debug("placing chain cell", "cell", c.Name, "loc", loc)
		if !w.ctx.CheckAvail(target) {
			if confl := w.ctx.ConflictingCell(target); confl != nil {
				if confl.Strength >= device.StrengthStrong {
					// The search rejects strongly bound locations, so a
					// strong incumbent here is a corrupted search state.
					panic("legalise: solution proposes a strongly bound bel")
				}
				w.log.Debug("ripping up incumbent", "cell", confl.Name, "loc", loc)
				w.ctx.Unbind(target)
				w.rippedCells = append(w.rippedCells, confl)
				observability.Legalise().OnCellRipped(confl.Name)
			}
		}
		w.ctx.Bind(target, c, device.StrengthLocked)
	}
	if ConstraintsDistance(w.ctx, root) != 0 {
		panic("legalise: applied chain does not satisfy its constraints")
	}
}
