package place

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridplace/pkg/device"
	"github.com/matzehuels/gridplace/pkg/netlist"
)

// lockdownChain raises every cell in the chain to LOCKED. The cells keep
// their current bels; only the strength changes.
func (w *legaliseWorker) lockdownChain(root *netlist.Cell) {
	root.Strength = device.StrengthLocked
	for _, child := range root.ConstrChildren {
		w.lockdownChain(child)
	}
}

// chainSize counts the cells in the chain rooted at root.
func chainSize(root *netlist.Cell) int {
	n := 1
	for _, child := range root.ConstrChildren {
		n += chainSize(child)
	}
	return n
}

// dumpChain writes the chain's constraint tree to the debug log, one cell
// per line, indented by depth. Unconstrained axes print as "*".
func (w *legaliseWorker) dumpChain(cell *netlist.Cell, depth int) {
	w.log.Debugf("%s%q   (%s, %s, %s)", strings.Repeat("    ", depth), cell.Name,
		constrString(cell.ConstrX), constrString(cell.ConstrY), constrString(cell.ConstrZ))
	for _, child := range cell.ConstrChildren {
		w.dumpChain(child, depth+1)
	}
}

// DumpChain logs the constraint tree rooted at cell at debug level, in the
// same format the legaliser uses when a chain fails to legalise.
func DumpChain(logger *log.Logger, cell *netlist.Cell) {
	w := &legaliseWorker{log: logger}
	w.dumpChain(cell, 0)
}

func constrString(v int) string {
	if v == netlist.Unconstr {
		return "*"
	}
	return strconv.Itoa(v)
}
