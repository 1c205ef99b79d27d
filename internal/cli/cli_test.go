package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gridplace/pkg/design"
	"github.com/matzehuels/gridplace/pkg/netlist"
)

const testDesign = `
[grid]
width = 8
height = 8

[[cells]]
name = "root"
type = "SLICE"
at = [7, 7, 0]

[[cells]]
name = "child"
type = "SLICE"
parent = "root"
constr_x = 1
constr_y = 1
constr_z = 0

[[cells]]
name = "loose"
type = "SLICE"

[[nets]]
name = "n0"
driver = "root.O"
users = [{ port = "loose.I", budget_ns = 5.0 }]
`

func writeTestDesign(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "design.toml")
	if err := os.WriteFile(path, []byte(testDesign), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlaceCommand(t *testing.T) {
	cmd := newPlaceCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{writeTestDesign(t)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("place: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Placement", "root", "child", "loose", "Wirelength", "total"} {
		if !strings.Contains(got, want) {
			t.Errorf("place output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "unplaced") {
		t.Errorf("all cells should end placed:\n%s", got)
	}
}

func TestChainsCommand(t *testing.T) {
	cmd := newChainsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{writeTestDesign(t)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("chains: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "root") || !strings.Contains(got, "child") {
		t.Errorf("chains output should show the chain:\n%s", got)
	}
	if !strings.Contains(got, "(1, 1, 0)") {
		t.Errorf("chains output should show the child's constraint tuple:\n%s", got)
	}
	if strings.Contains(got, "loose") {
		t.Errorf("unconstrained cells do not belong in the chain view:\n%s", got)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	cmd := newRenderCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{writeTestDesign(t)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "digraph chains") {
		t.Errorf("render should emit DOT by default:\n%s", got)
	}
	if !strings.Contains(got, `"root" -> "child"`) {
		t.Errorf("render should include the chain edge:\n%s", got)
	}
}

func TestGridCommand(t *testing.T) {
	cmd := newGridCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{writeTestDesign(t)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("grid: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Grid 8x8") {
		t.Errorf("grid header missing:\n%s", got)
	}
	// Nine total lines: header plus one per row.
	if lines := strings.Count(strings.TrimRight(got, "\n"), "\n") + 1; lines != 9 {
		t.Errorf("grid view has %d lines, want 9:\n%s", lines, got)
	}
}

func TestAxisString(t *testing.T) {
	if got := axisString(netlist.Unconstr); got != "*" {
		t.Errorf("axisString(Unconstr) = %q, want *", got)
	}
	if got := axisString(-2); got != "-2" {
		t.Errorf("axisString(-2) = %q, want -2", got)
	}
}

func TestPrintChainTree(t *testing.T) {
	grid, nl, err := design.Parse([]byte(testDesign))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	printChainTree(&out, grid, nl.Cell("root"), 0)
	got := out.String()
	if !strings.Contains(got, "(7, 7, 0)") {
		t.Errorf("tree should show the root's location:\n%s", got)
	}
	if !strings.Contains(got, "unplaced") {
		t.Errorf("tree should mark the unplaced child:\n%s", got)
	}
}
