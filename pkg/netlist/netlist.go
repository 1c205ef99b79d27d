// Package netlist models the design being placed: cells, nets connecting
// them, and the relative placement constraints that group cells into chains.
//
// The netlist owns its cells and nets; the placement core only mutates the
// binding fields (Cell.Bel, Cell.Strength). Bindings change through a device
// context; the legaliser also raises Cell.Strength directly when it locks a
// chain in place. Cells
// reference each other through the constraint forest (ConstrParent /
// ConstrChildren), which must stay acyclic - the design loader validates
// this on ingest.
package netlist

import (
	"errors"
	"math"
	"slices"

	"github.com/matzehuels/gridplace/pkg/device"
)

var (
	// ErrInvalidCellName is returned by [Netlist.AddCell] when the cell
	// name is empty.
	ErrInvalidCellName = errors.New("cell name must not be empty")

	// ErrDuplicateCell is returned by [Netlist.AddCell] when a cell with
	// the same name already exists.
	ErrDuplicateCell = errors.New("duplicate cell name")

	// ErrInvalidNetName is returned by [Netlist.AddNet] when the net name
	// is empty.
	ErrInvalidNetName = errors.New("net name must not be empty")

	// ErrDuplicateNet is returned by [Netlist.AddNet] when a net with the
	// same name already exists.
	ErrDuplicateNet = errors.New("duplicate net name")
)

// Unconstr is the sentinel for an unconstrained axis on a cell. Any of
// ConstrX, ConstrY, ConstrZ left at Unconstr places no requirement on that
// axis.
const Unconstr = math.MinInt

// Port is a named connection point on a cell, optionally attached to a net.
type Port struct {
	Name string
	Net  *Net
}

// PortRef points at one endpoint of a net. For net users, Budget carries the
// timing budget allotted to the driver-to-user connection.
type PortRef struct {
	Cell   *Cell
	Port   string
	Budget device.Delay
}

// Net is a driver endpoint plus an ordered list of user endpoints.
type Net struct {
	Name   string
	Driver PortRef
	Users  []PortRef
}

// Cell is a netlist instance to be placed onto a bel.
//
// The four Constr fields express a relative placement constraint. On a chain
// root, ConstrX/Y/Z pin the root's absolute location per axis. On a child,
// ConstrX and ConstrY are offsets from the parent's location, and ConstrZ is
// either an offset (ConstrAbsZ false) or an absolute z (ConstrAbsZ true).
type Cell struct {
	Name     string
	Type     string
	Bel      device.BelID
	Strength device.Strength
	Ports    map[string]*Port

	ConstrX, ConstrY, ConstrZ int
	ConstrAbsZ                bool
	ConstrParent              *Cell
	ConstrChildren            []*Cell
}

// NewCell returns an unplaced cell of the given type with all constraint
// axes unconstrained.
func NewCell(name, typ string) *Cell {
	return &Cell{
		Name:     name,
		Type:     typ,
		Bel:      device.BelInvalid,
		Ports:    map[string]*Port{},
		ConstrX:  Unconstr,
		ConstrY:  Unconstr,
		ConstrZ:  Unconstr,
	}
}

// Placed reports whether the cell currently holds a bel.
func (c *Cell) Placed() bool { return c.Bel.Valid() }

// Root walks ConstrParent links to the root of the cell's chain. A cell with
// no parent is its own root.
func (c *Cell) Root() *Cell {
	r := c
	for r.ConstrParent != nil {
		r = r.ConstrParent
	}
	return r
}

// Constrained reports whether the cell participates in a constraint chain or
// pins any axis.
func (c *Cell) Constrained() bool {
	return c.ConstrParent != nil || len(c.ConstrChildren) > 0 ||
		c.ConstrX != Unconstr || c.ConstrY != Unconstr || c.ConstrZ != Unconstr
}

// Netlist is the container for cells and nets, keyed by name.
type Netlist struct {
	cells map[string]*Cell
	nets  map[string]*Net
}

// New returns an empty netlist.
func New() *Netlist {
	return &Netlist{
		cells: map[string]*Cell{},
		nets:  map[string]*Net{},
	}
}

// AddCell inserts a cell. The cell's name must be non-empty and unique.
func (nl *Netlist) AddCell(c *Cell) error {
	if c.Name == "" {
		return ErrInvalidCellName
	}
	if _, ok := nl.cells[c.Name]; ok {
		return ErrDuplicateCell
	}
	nl.cells[c.Name] = c
	return nil
}

// AddNet inserts a net. The net's name must be non-empty and unique.
func (nl *Netlist) AddNet(n *Net) error {
	if n.Name == "" {
		return ErrInvalidNetName
	}
	if _, ok := nl.nets[n.Name]; ok {
		return ErrDuplicateNet
	}
	nl.nets[n.Name] = n
	return nil
}

// Cell looks up a cell by name, returning nil when absent.
func (nl *Netlist) Cell(name string) *Cell { return nl.cells[name] }

// Net looks up a net by name, returning nil when absent.
func (nl *Netlist) Net(name string) *Net { return nl.nets[name] }

// NumCells returns the number of cells.
func (nl *Netlist) NumCells() int { return len(nl.cells) }

// NumNets returns the number of nets.
func (nl *Netlist) NumNets() int { return len(nl.nets) }

// SortedCells returns all cells ordered by name. The placement core iterates
// cells in this order wherever determinism matters.
func (nl *Netlist) SortedCells() []*Cell {
	names := make([]string, 0, len(nl.cells))
	for name := range nl.cells {
		names = append(names, name)
	}
	slices.Sort(names)
	cells := make([]*Cell, len(names))
	for i, name := range names {
		cells[i] = nl.cells[name]
	}
	return cells
}

// SortedNets returns all nets ordered by name.
func (nl *Netlist) SortedNets() []*Net {
	names := make([]string, 0, len(nl.nets))
	for name := range nl.nets {
		names = append(names, name)
	}
	slices.Sort(names)
	nets := make([]*Net, len(names))
	for i, name := range names {
		nets[i] = nl.nets[name]
	}
	return nets
}

// SetDriver connects cell.port as the driver of net, registering the port on
// the cell.
func (nl *Netlist) SetDriver(net *Net, cell *Cell, port string) {
	net.Driver = PortRef{Cell: cell, Port: port}
	cell.Ports[port] = &Port{Name: port, Net: net}
}

// AddUser appends cell.port as a user of net with the given timing budget,
// registering the port on the cell.
func (nl *Netlist) AddUser(net *Net, cell *Cell, port string, budget device.Delay) {
	net.Users = append(net.Users, PortRef{Cell: cell, Port: port, Budget: budget})
	cell.Ports[port] = &Port{Name: port, Net: net}
}

// SetConstrParent links child under parent in the constraint forest. It does
// not check for cycles; callers ingesting untrusted input should validate
// the forest afterwards.
func SetConstrParent(parent, child *Cell) {
	child.ConstrParent = parent
	parent.ConstrChildren = append(parent.ConstrChildren, child)
}
