// Package generic provides an in-memory rectangular architecture for tests
// and the CLI. It implements the device-context surface consumed by the
// placement core: bel enumeration, location lookup, the placement map with
// strength rules, a Manhattan-distance delay model, and a seedable RNG.
//
// Bels are added tile by tile; within a tile, z indices must be dense
// starting at zero. Enumeration order is insertion order, which makes runs
// reproducible for a fixed construction sequence and seed.
package generic

import (
	"fmt"

	"github.com/matzehuels/gridplace/pkg/device"
	"github.com/matzehuels/gridplace/pkg/netlist"
)

type belData struct {
	typ       string
	loc       device.Loc
	globalBuf bool
}

// ValidityFunc is an architecture-specific legality check consulted by the
// placer when require-legality placement is requested. It may assume bel is
// a valid ID of matching type.
type ValidityFunc func(cell *netlist.Cell, bel device.BelID) bool

// Grid is an X×Y grid of tiles, each holding a column of bels stacked along
// z. The zero value is not usable; construct with [NewGrid].
type Grid struct {
	dimX, dimY int
	bels       []belData
	byLoc      map[device.Loc]device.BelID
	tileDepth  map[[2]int]int
	bound      map[device.BelID]*netlist.Cell

	cellTypes map[string]string
	validFn   ValidityFunc

	timingDriven bool
	unitDelay    device.Delay
	rng          rngState
}

// NewGrid creates an empty grid with the given tile dimensions and a default
// RNG seed of 1. The grid starts with no bels; add them with [Grid.AddBel].
func NewGrid(dimX, dimY int) *Grid {
	g := &Grid{
		dimX:      dimX,
		dimY:      dimY,
		byLoc:     map[device.Loc]device.BelID{},
		tileDepth: map[[2]int]int{},
		bound:     map[device.BelID]*netlist.Cell{},
		cellTypes: map[string]string{},
		unitDelay: 100, // ps per Manhattan unit
	}
	g.rng.seed(1)
	return g
}

// AddBel creates a bel of the given type at loc and returns its ID. Within a
// tile, bels must be added with dense z indices starting at zero. Adding a
// bel outside the grid or at an occupied location panics.
func (g *Grid) AddBel(loc device.Loc, typ string) device.BelID {
	if loc.X < 0 || loc.X >= g.dimX || loc.Y < 0 || loc.Y >= g.dimY {
		panic(fmt.Sprintf("bel location %v outside %dx%d grid", loc, g.dimX, g.dimY))
	}
	if _, ok := g.byLoc[loc]; ok {
		panic(fmt.Sprintf("duplicate bel at %v", loc))
	}
	tile := [2]int{loc.X, loc.Y}
	if loc.Z != g.tileDepth[tile] {
		panic(fmt.Sprintf("bel at %v added out of z order (next z for tile is %d)", loc, g.tileDepth[tile]))
	}
	id := device.BelID(len(g.bels))
	g.bels = append(g.bels, belData{typ: typ, loc: loc})
	g.byLoc[loc] = id
	g.tileDepth[tile] = loc.Z + 1
	return id
}

// Fill populates every tile of the grid with depth bels of the given type.
// It is a convenience for uniform architectures.
func (g *Grid) Fill(typ string, depth int) {
	for x := 0; x < g.dimX; x++ {
		for y := 0; y < g.dimY; y++ {
			for z := 0; z < depth; z++ {
				g.AddBel(device.Loc{X: x, Y: y, Z: z}, typ)
			}
		}
	}
}

// SetGlobalBuf marks a bel as a global/clock buffer, excluding it from
// wirelength estimation.
func (g *Grid) SetGlobalBuf(bel device.BelID, global bool) {
	g.bels[bel].globalBuf = global
}

// SetValidityFunc installs an architecture legality check. A nil function
// means every type-matched bel is legal.
func (g *Grid) SetValidityFunc(fn ValidityFunc) { g.validFn = fn }

// SetTimingDriven toggles timing-driven cost estimation.
func (g *Grid) SetTimingDriven(v bool) { g.timingDriven = v }

// SetUnitDelay sets the delay per Manhattan unit used by PredictDelay.
func (g *Grid) SetUnitDelay(d device.Delay) { g.unitDelay = d }

// Seed reseeds the jitter RNG. Runs with the same seed, construction order
// and netlist produce identical placements.
func (g *Grid) Seed(seed uint64) { g.rng.seed(seed) }

// MapCellType declares that cells of cellType occupy bels of belType. Cell
// types without a mapping fall back to the identical bel type name.
func (g *Grid) MapCellType(cellType, belType string) {
	g.cellTypes[cellType] = belType
}

// Bels returns all bel IDs in enumeration order. Each call returns a newly
// allocated slice.
func (g *Grid) Bels() []device.BelID {
	ids := make([]device.BelID, len(g.bels))
	for i := range g.bels {
		ids[i] = device.BelID(i)
	}
	return ids
}

// NumBels returns the number of bels in the grid.
func (g *Grid) NumBels() int { return len(g.bels) }

// BelType returns the type tag of a bel.
func (g *Grid) BelType(bel device.BelID) string { return g.bels[bel].typ }

// BelTypeForCellType maps a cell type to the bel type it occupies.
func (g *Grid) BelTypeForCellType(cellType string) string {
	if t, ok := g.cellTypes[cellType]; ok {
		return t
	}
	return cellType
}

// BelLocation returns the grid location of a bel.
func (g *Grid) BelLocation(bel device.BelID) device.Loc { return g.bels[bel].loc }

// BelAt returns the bel at loc, or [device.BelInvalid] when the location
// holds none.
func (g *Grid) BelAt(loc device.Loc) device.BelID {
	if id, ok := g.byLoc[loc]; ok {
		return id
	}
	return device.BelInvalid
}

// GridDimX returns the number of tile columns.
func (g *Grid) GridDimX() int { return g.dimX }

// GridDimY returns the number of tile rows.
func (g *Grid) GridDimY() int { return g.dimY }

// TileDimZ returns the number of bels stacked at tile (x, y).
func (g *Grid) TileDimZ(x, y int) int { return g.tileDepth[[2]int{x, y}] }

// IsGlobalBuf reports whether bel is a global/clock buffer.
func (g *Grid) IsGlobalBuf(bel device.BelID) bool { return g.bels[bel].globalBuf }

// IsValidBelForCell applies the installed architecture legality check.
func (g *Grid) IsValidBelForCell(cell *netlist.Cell, bel device.BelID) bool {
	if g.validFn == nil {
		return true
	}
	return g.validFn(cell, bel)
}

// CheckAvail reports whether bel is currently unbound.
func (g *Grid) CheckAvail(bel device.BelID) bool { return g.bound[bel] == nil }

// BoundCell returns the cell bound to bel, or nil when the bel is free.
func (g *Grid) BoundCell(bel device.BelID) *netlist.Cell { return g.bound[bel] }

// ConflictingCell returns the cell whose binding prevents bel from being
// used. On this architecture bels never overlap, so it is the bound cell.
func (g *Grid) ConflictingCell(bel device.BelID) *netlist.Cell { return g.bound[bel] }

// Bind places cell onto bel with the given strength. Binding an occupied
// bel, or a cell that already holds one, is a programmer error.
func (g *Grid) Bind(bel device.BelID, cell *netlist.Cell, strength device.Strength) {
	if g.bound[bel] != nil {
		panic(fmt.Sprintf("bind: bel %v already bound to %q", g.bels[bel].loc, g.bound[bel].Name))
	}
	if cell.Bel.Valid() {
		panic(fmt.Sprintf("bind: cell %q already bound at %v", cell.Name, g.bels[cell.Bel].loc))
	}
	g.bound[bel] = cell
	cell.Bel = bel
	cell.Strength = strength
}

// Unbind removes the binding on bel. Unbinding a free bel or a LOCKED cell
// is a programmer error.
func (g *Grid) Unbind(bel device.BelID) {
	cell := g.bound[bel]
	if cell == nil {
		panic(fmt.Sprintf("unbind: bel %v not bound", g.bels[bel].loc))
	}
	if cell.Strength == device.StrengthLocked {
		panic(fmt.Sprintf("unbind: cell %q is locked", cell.Name))
	}
	delete(g.bound, bel)
	cell.Bel = device.BelInvalid
	cell.Strength = device.StrengthNone
}

// PredictDelay estimates the delay from net's driver to user as Manhattan
// distance times the unit delay. Unplaced endpoints predict zero.
func (g *Grid) PredictDelay(net *netlist.Net, user netlist.PortRef) device.Delay {
	drv := net.Driver.Cell
	if drv == nil || !drv.Bel.Valid() || user.Cell == nil || !user.Cell.Bel.Valid() {
		return 0
	}
	a := g.bels[drv.Bel].loc
	b := g.bels[user.Cell.Bel].loc
	return device.Delay(abs(a.X-b.X)+abs(a.Y-b.Y)) * g.unitDelay
}

// DelayNS converts a picosecond delay to nanoseconds.
func (g *Grid) DelayNS(d device.Delay) float64 { return float64(d) / 1000.0 }

// Rng returns a uniform integer in [0, n). The stream is deterministic for
// a given seed.
func (g *Grid) Rng(n int) int { return g.rng.intn(n) }

// TimingDriven reports whether cost metrics should apply timing weighting.
func (g *Grid) TimingDriven() bool { return g.timingDriven }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
