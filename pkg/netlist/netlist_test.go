package netlist

import (
	"testing"

	"github.com/matzehuels/gridplace/pkg/device"
)

func TestNewCellDefaults(t *testing.T) {
	c := NewCell("ff0", "SLICE")
	if c.Bel.Valid() {
		t.Error("new cell should be unplaced")
	}
	if c.Strength != device.StrengthNone {
		t.Errorf("Strength = %v, want none", c.Strength)
	}
	if c.ConstrX != Unconstr || c.ConstrY != Unconstr || c.ConstrZ != Unconstr {
		t.Error("all constraint axes should start unconstrained")
	}
	if c.Constrained() {
		t.Error("fresh cell should not be constrained")
	}
}

func TestAddCellValidation(t *testing.T) {
	nl := New()
	if err := nl.AddCell(NewCell("", "SLICE")); err != ErrInvalidCellName {
		t.Errorf("empty name: err = %v, want ErrInvalidCellName", err)
	}
	if err := nl.AddCell(NewCell("ff0", "SLICE")); err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := nl.AddCell(NewCell("ff0", "SLICE")); err != ErrDuplicateCell {
		t.Errorf("duplicate: err = %v, want ErrDuplicateCell", err)
	}
	if nl.Cell("ff0") == nil {
		t.Error("Cell lookup should find ff0")
	}
	if nl.Cell("missing") != nil {
		t.Error("Cell lookup of missing name should return nil")
	}
}

func TestAddNetValidation(t *testing.T) {
	nl := New()
	if err := nl.AddNet(&Net{}); err != ErrInvalidNetName {
		t.Errorf("empty name: err = %v, want ErrInvalidNetName", err)
	}
	if err := nl.AddNet(&Net{Name: "n0"}); err != nil {
		t.Fatalf("AddNet: %v", err)
	}
	if err := nl.AddNet(&Net{Name: "n0"}); err != ErrDuplicateNet {
		t.Errorf("duplicate: err = %v, want ErrDuplicateNet", err)
	}
}

func TestSortedIterationOrder(t *testing.T) {
	nl := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := nl.AddCell(NewCell(name, "SLICE")); err != nil {
			t.Fatal(err)
		}
		if err := nl.AddNet(&Net{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	wantOrder := []string{"alpha", "mid", "zeta"}
	for i, c := range nl.SortedCells() {
		if c.Name != wantOrder[i] {
			t.Errorf("SortedCells[%d] = %q, want %q", i, c.Name, wantOrder[i])
		}
	}
	for i, n := range nl.SortedNets() {
		if n.Name != wantOrder[i] {
			t.Errorf("SortedNets[%d] = %q, want %q", i, n.Name, wantOrder[i])
		}
	}
}

func TestConnections(t *testing.T) {
	nl := New()
	drv := NewCell("drv", "SLICE")
	usr := NewCell("usr", "SLICE")
	net := &Net{Name: "n0"}
	nl.SetDriver(net, drv, "O")
	nl.AddUser(net, usr, "I", 2500)

	if net.Driver.Cell != drv || net.Driver.Port != "O" {
		t.Error("SetDriver should record the driver endpoint")
	}
	if len(net.Users) != 1 || net.Users[0].Cell != usr || net.Users[0].Budget != 2500 {
		t.Error("AddUser should record the user endpoint with its budget")
	}
	if drv.Ports["O"].Net != net {
		t.Error("driver port should point at the net")
	}
	if usr.Ports["I"].Net != net {
		t.Error("user port should point at the net")
	}
}

func TestConstraintForest(t *testing.T) {
	root := NewCell("root", "SLICE")
	mid := NewCell("mid", "SLICE")
	leaf := NewCell("leaf", "SLICE")
	SetConstrParent(root, mid)
	SetConstrParent(mid, leaf)

	if leaf.Root() != root {
		t.Error("Root should walk to the top of the chain")
	}
	if root.Root() != root {
		t.Error("a parentless cell is its own root")
	}
	if !mid.Constrained() || !root.Constrained() {
		t.Error("chain members should report as constrained")
	}
	if len(root.ConstrChildren) != 1 || root.ConstrChildren[0] != mid {
		t.Error("SetConstrParent should append the child")
	}
}
