// Package chaindot renders constraint forests as Graphviz diagrams. Each
// chain cell becomes a node labelled with its constraint tuple and, when
// placed, its grid location; parent/child edges follow the chain structure.
//
// Unconstrained single cells are omitted by default so that large designs
// stay readable; pass Options.All to include them.
package chaindot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridplace/pkg/errors"
	"github.com/matzehuels/gridplace/pkg/netlist"
	"github.com/matzehuels/gridplace/pkg/place"
)

// Options configures constraint-forest rendering.
type Options struct {
	// All includes unconstrained single cells, not just chain members.
	All bool
	// Ctx, when set, resolves cell locations so node labels show where
	// each cell is placed.
	Ctx place.Context
}

// ToDOT converts the netlist's constraint forest to Graphviz DOT format.
// The resulting string can be rendered with [RenderSVG].
func ToDOT(nl *netlist.Netlist, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph chains {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, cell := range nl.SortedCells() {
		if !opts.All && !cell.Constrained() {
			continue
		}
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(cell, opts))}
		if cell.ConstrParent == nil && len(cell.ConstrChildren) > 0 {
			attrs = append(attrs, "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", cell.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, cell := range nl.SortedCells() {
		for _, child := range cell.ConstrChildren {
			fmt.Fprintf(&buf, "  %q -> %q;\n", cell.Name, child.Name)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(cell *netlist.Cell, opts Options) string {
	label := fmt.Sprintf("%s\n(%s, %s, %s)", cell.Name,
		axisLabel(cell.ConstrX), axisLabel(cell.ConstrY), axisLabel(cell.ConstrZ))
	if cell.ConstrAbsZ {
		label += " abs-z"
	}
	if opts.Ctx != nil && cell.Placed() {
		label += "\n@ " + opts.Ctx.BelLocation(cell.Bel).String()
	}
	return label
}

func axisLabel(v int) string {
	if v == netlist.Unconstr {
		return "*"
	}
	return strconv.Itoa(v)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	return buf.Bytes(), nil
}
