package chaindot

import (
	"strings"
	"testing"

	"github.com/matzehuels/gridplace/pkg/device"
	"github.com/matzehuels/gridplace/pkg/device/generic"
	"github.com/matzehuels/gridplace/pkg/netlist"
)

func chainFixture(t *testing.T) (*generic.Grid, *netlist.Netlist) {
	t.Helper()
	g := generic.NewGrid(4, 4)
	g.Fill("SLICE", 1)
	nl := netlist.New()

	root := netlist.NewCell("carry0", "SLICE")
	child := netlist.NewCell("carry1", "SLICE")
	netlist.SetConstrParent(root, child)
	child.ConstrX, child.ConstrY, child.ConstrZ = 0, 1, 0
	loose := netlist.NewCell("loose", "SLICE")

	for _, c := range []*netlist.Cell{root, child, loose} {
		if err := nl.AddCell(c); err != nil {
			t.Fatal(err)
		}
	}
	g.Bind(g.BelAt(device.Loc{X: 1, Y: 1}), root, device.StrengthWeak)
	return g, nl
}

func TestToDOTChainStructure(t *testing.T) {
	_, nl := chainFixture(t)
	dot := ToDOT(nl, Options{})

	if !strings.HasPrefix(dot, "digraph chains {") {
		t.Error("DOT output should open a digraph")
	}
	if !strings.Contains(dot, `"carry0" -> "carry1"`) {
		t.Error("DOT should contain the parent->child edge")
	}
	if !strings.Contains(dot, "(0, 1, 0)") {
		t.Error("child label should show its constraint tuple")
	}
	if !strings.Contains(dot, "(*, *, *)") {
		t.Error("unconstrained root axes should render as *")
	}
	if strings.Contains(dot, "loose") {
		t.Error("unconstrained single cells are omitted by default")
	}
}

func TestToDOTAllAndLocations(t *testing.T) {
	g, nl := chainFixture(t)
	dot := ToDOT(nl, Options{All: true, Ctx: g})

	if !strings.Contains(dot, "loose") {
		t.Error("All should include unconstrained cells")
	}
	if !strings.Contains(dot, "@ (1, 1, 0)") {
		t.Error("placed cells should show their location")
	}
}
