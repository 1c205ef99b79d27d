package place

import (
	"github.com/matzehuels/gridplace/pkg/device"
	"github.com/matzehuels/gridplace/pkg/netlist"
)

// Context is the device-database surface the placement core consumes. The
// generic grid architecture (pkg/device/generic) implements it; real
// architectures provide their own implementation.
//
// Implementations must enumerate bels in a stable order and must enforce
// the binding rules: a bel holds at most one cell, Bind panics on an
// occupied bel, and Unbind panics on a LOCKED cell.
type Context interface {
	// Bels returns all bel IDs in the architecture's enumeration order.
	Bels() []device.BelID
	// BelType returns the type tag of a bel.
	BelType(bel device.BelID) string
	// BelTypeForCellType maps a cell type to the bel type it occupies.
	BelTypeForCellType(cellType string) string
	// BelLocation returns a bel's grid location.
	BelLocation(bel device.BelID) device.Loc
	// BelAt is the inverse of BelLocation; it returns device.BelInvalid
	// when no bel exists at loc.
	BelAt(loc device.Loc) device.BelID

	// GridDimX and GridDimY bound the x and y axes; TileDimZ bounds z for
	// one tile.
	GridDimX() int
	GridDimY() int
	TileDimZ(x, y int) int

	// IsGlobalBuf marks clock/global-network buffers, which are excluded
	// from wirelength.
	IsGlobalBuf(bel device.BelID) bool
	// IsValidBelForCell applies architecture-specific legality rules.
	IsValidBelForCell(cell *netlist.Cell, bel device.BelID) bool

	// CheckAvail reports whether bel is free; BoundCell and
	// ConflictingCell query occupancy.
	CheckAvail(bel device.BelID) bool
	BoundCell(bel device.BelID) *netlist.Cell
	ConflictingCell(bel device.BelID) *netlist.Cell

	// Bind and Unbind mutate the placement map and the cell's Bel and
	// Strength fields.
	Bind(bel device.BelID, cell *netlist.Cell, strength device.Strength)
	Unbind(bel device.BelID)

	// PredictDelay estimates the routing delay from net's driver to user;
	// DelayNS converts a delay to nanoseconds.
	PredictDelay(net *netlist.Net, user netlist.PortRef) device.Delay
	DelayNS(d device.Delay) float64

	// Rng returns a uniform integer in [0, n), used for tie-breaking
	// jitter.
	Rng(n int) int
	// TimingDriven reports whether cost metrics apply timing weighting.
	TimingDriven() bool
}
