// Package design reads the TOML design format consumed by the gridplace
// CLI: a device grid description plus the cells, constraint chains, and
// nets to place on it.
//
// A minimal design looks like:
//
//	[grid]
//	width = 8
//	height = 8
//	depth = 1
//	type = "SLICE"
//	seed = 1
//
//	[[cells]]
//	name = "ff0"
//	type = "SLICE"
//	at = [2, 3, 0]
//
//	[[cells]]
//	name = "ff1"
//	type = "SLICE"
//	parent = "ff0"
//	constr_x = 1
//	constr_y = 0
//	constr_z = 0
//
//	[[nets]]
//	name = "n0"
//	driver = "ff0.O"
//	users = [{ port = "ff1.I", budget_ns = 2.5 }]
//
// Loading validates all references, rejects constraint cycles, and
// materialises a generic grid with the initial bindings applied.
package design

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridplace/pkg/device"
	"github.com/matzehuels/gridplace/pkg/device/generic"
	"github.com/matzehuels/gridplace/pkg/errors"
	"github.com/matzehuels/gridplace/pkg/netlist"
)

// Document is the top-level TOML structure.
type Document struct {
	Grid  GridSection   `toml:"grid"`
	Cells []CellSection `toml:"cells"`
	Nets  []NetSection  `toml:"nets"`
}

// GridSection describes the device: a width x height grid with depth bels
// of the given type per tile.
type GridSection struct {
	Width        int          `toml:"width"`
	Height       int          `toml:"height"`
	Depth        int          `toml:"depth"`
	Type         string       `toml:"type"`
	Seed         uint64       `toml:"seed"`
	TimingDriven bool         `toml:"timing_driven"`
	UnitDelayPS  int64        `toml:"unit_delay_ps"`
	Globals      []LocSection `toml:"globals"`
}

// LocSection is a grid coordinate in TOML form.
type LocSection struct {
	X int `toml:"x"`
	Y int `toml:"y"`
	Z int `toml:"z"`
}

// CellSection describes one cell, its optional starting location, and its
// constraint fields. Absent constraint axes stay unconstrained.
type CellSection struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	At       []int  `toml:"at"`
	Strength string `toml:"strength"`
	Parent   string `toml:"parent"`
	ConstrX  *int   `toml:"constr_x"`
	ConstrY  *int   `toml:"constr_y"`
	ConstrZ  *int   `toml:"constr_z"`
	AbsZ     bool   `toml:"abs_z"`
}

// NetSection describes one net; Driver and user ports use "cell.port"
// notation.
type NetSection struct {
	Name   string        `toml:"name"`
	Driver string        `toml:"driver"`
	Users  []UserSection `toml:"users"`
}

// UserSection is one user endpoint of a net.
type UserSection struct {
	Port     string  `toml:"port"`
	BudgetNS float64 `toml:"budget_ns"`
}

// Load reads and materialises a design file.
func Load(path string) (*generic.Grid, *netlist.Netlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "reading design %q", path)
	}
	return Parse(data)
}

// Parse materialises a design from TOML bytes: it builds the grid, creates
// and optionally binds the cells, links the constraint forest, and wires
// the nets.
func Parse(data []byte) (*generic.Grid, *netlist.Netlist, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "parsing design")
	}

	grid, err := buildGrid(doc.Grid)
	if err != nil {
		return nil, nil, err
	}
	nl, err := buildNetlist(doc, grid)
	if err != nil {
		return nil, nil, err
	}
	return grid, nl, nil
}

func buildGrid(gs GridSection) (*generic.Grid, error) {
	if gs.Width <= 0 || gs.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid must have positive dimensions, got %dx%d", gs.Width, gs.Height)
	}
	depth := gs.Depth
	if depth <= 0 {
		depth = 1
	}
	typ := gs.Type
	if typ == "" {
		typ = "SLICE"
	}

	grid := generic.NewGrid(gs.Width, gs.Height)
	grid.Fill(typ, depth)
	if gs.Seed != 0 {
		grid.Seed(gs.Seed)
	}
	grid.SetTimingDriven(gs.TimingDriven)
	if gs.UnitDelayPS > 0 {
		grid.SetUnitDelay(device.Delay(gs.UnitDelayPS))
	}
	for _, gl := range gs.Globals {
		bel := grid.BelAt(device.Loc{X: gl.X, Y: gl.Y, Z: gl.Z})
		if !bel.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidGrid, "global buffer location (%d, %d, %d) has no bel", gl.X, gl.Y, gl.Z)
		}
		grid.SetGlobalBuf(bel, true)
	}
	return grid, nil
}

func buildNetlist(doc Document, grid *generic.Grid) (*netlist.Netlist, error) {
	nl := netlist.New()

	for _, cs := range doc.Cells {
		cell := netlist.NewCell(cs.Name, cs.Type)
		if cs.ConstrX != nil {
			cell.ConstrX = *cs.ConstrX
		}
		if cs.ConstrY != nil {
			cell.ConstrY = *cs.ConstrY
		}
		if cs.ConstrZ != nil {
			cell.ConstrZ = *cs.ConstrZ
		}
		cell.ConstrAbsZ = cs.AbsZ
		if err := nl.AddCell(cell); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "cell %q", cs.Name)
		}
	}

	// Link the constraint forest once every cell exists.
	for _, cs := range doc.Cells {
		if cs.Parent == "" {
			continue
		}
		parent := nl.Cell(cs.Parent)
		if parent == nil {
			return nil, errors.New(errors.ErrCodeUnknownCell, "cell %q references unknown parent %q", cs.Name, cs.Parent)
		}
		netlist.SetConstrParent(parent, nl.Cell(cs.Name))
	}
	if err := checkForest(nl); err != nil {
		return nil, err
	}

	// Apply starting locations once the constraint forest is linked and
	// checked for cycles.
	for _, cs := range doc.Cells {
		if len(cs.At) == 0 {
			continue
		}
		if len(cs.At) != 3 {
			return nil, errors.New(errors.ErrCodeInvalidDesign, "cell %q: at must be [x, y, z]", cs.Name)
		}
		loc := device.Loc{X: cs.At[0], Y: cs.At[1], Z: cs.At[2]}
		bel := grid.BelAt(loc)
		if !bel.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidDesign, "cell %q: no bel at %v", cs.Name, loc)
		}
		if grid.BelType(bel) != grid.BelTypeForCellType(cs.Type) {
			return nil, errors.New(errors.ErrCodeInvalidDesign, "cell %q of type %q cannot start on %q bel at %v",
				cs.Name, cs.Type, grid.BelType(bel), loc)
		}
		if !grid.CheckAvail(bel) {
			return nil, errors.New(errors.ErrCodeInvalidDesign, "cell %q: bel at %v already holds %q",
				cs.Name, loc, grid.BoundCell(bel).Name)
		}
		strength, err := parseStrength(cs.Strength)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "cell %q", cs.Name)
		}
		grid.Bind(bel, nl.Cell(cs.Name), strength)
	}

	for _, ns := range doc.Nets {
		net := &netlist.Net{Name: ns.Name}
		if ns.Driver != "" {
			cell, port, err := splitEndpoint(nl, ns.Driver)
			if err != nil {
				return nil, err
			}
			nl.SetDriver(net, cell, port)
		}
		for _, us := range ns.Users {
			cell, port, err := splitEndpoint(nl, us.Port)
			if err != nil {
				return nil, err
			}
			nl.AddUser(net, cell, port, device.Delay(us.BudgetNS*1000))
		}
		if err := nl.AddNet(net); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "net %q", ns.Name)
		}
	}
	return nl, nil
}

// checkForest rejects cycles in the constraint parent relation.
func checkForest(nl *netlist.Netlist) error {
	for _, cell := range nl.SortedCells() {
		seen := map[*netlist.Cell]bool{}
		for c := cell; c != nil; c = c.ConstrParent {
			if seen[c] {
				return errors.New(errors.ErrCodeInvalidConstraint, "constraint cycle through cell %q", c.Name)
			}
			seen[c] = true
		}
	}
	return nil
}

func splitEndpoint(nl *netlist.Netlist, ref string) (*netlist.Cell, string, error) {
	cellName, port, ok := strings.Cut(ref, ".")
	if !ok || cellName == "" || port == "" {
		return nil, "", errors.New(errors.ErrCodeInvalidDesign, "endpoint %q must be cell.port", ref)
	}
	cell := nl.Cell(cellName)
	if cell == nil {
		return nil, "", errors.New(errors.ErrCodeUnknownCell, "endpoint %q references unknown cell %q", ref, cellName)
	}
	return cell, port, nil
}

func parseStrength(s string) (device.Strength, error) {
	switch strings.ToLower(s) {
	case "", "weak":
		return device.StrengthWeak, nil
	case "strong":
		return device.StrengthStrong, nil
	case "locked":
		return device.StrengthLocked, nil
	default:
		return 0, fmt.Errorf("unknown strength %q", s)
	}
}
