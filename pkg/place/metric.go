package place

import (
	"math"
	"slices"

	"github.com/matzehuels/gridplace/pkg/device"
	"github.com/matzehuels/gridplace/pkg/netlist"
)

// Wirelen is an estimated wirelength in grid units.
type Wirelen int64

// maxWirelen seeds best-cost scans.
const maxWirelen Wirelen = math.MaxInt64

// MetricType selects between raw wirelength and the placer's cost metric.
type MetricType int

const (
	// MetricWirelength is the plain half-perimeter bounding box.
	MetricWirelength MetricType = iota
	// MetricCost additionally weights the bounding box by worst slack
	// when the context is timing-driven.
	MetricCost
)

// NetMetric returns the estimated wirelength of net as the half-perimeter
// of the bounding box spanning its driver and placed users. Nets without a
// placed driver, or driven from a global buffer, cost zero.
//
// With [MetricCost] on a timing-driven context the result is scaled by
// min(5.0, 1.0+exp(-worstSlackNS/5)), and the net's total negative slack in
// nanoseconds is added to *tns. tns may be nil when the caller does not
// track it.
func NetMetric(ctx Context, net *netlist.Net, typ MetricType, tns *float64) Wirelen {
	driver := net.Driver.Cell
	if driver == nil {
		return 0
	}
	if !driver.Bel.Valid() {
		return 0
	}
	if ctx.IsGlobalBuf(driver.Bel) {
		return 0
	}
	driverLoc := ctx.BelLocation(driver.Bel)

	timing := ctx.TimingDriven() && typ == MetricCost
	var negativeSlack device.Delay
	worstSlack := device.DelayMax
	xmin, xmax := driverLoc.X, driverLoc.X
	ymin, ymax := driverLoc.Y, driverLoc.Y

	for _, user := range net.Users {
		if user.Cell == nil {
			continue
		}
		if !user.Cell.Bel.Valid() {
			continue
		}
		if timing {
			netDelay := ctx.PredictDelay(net, user)
			slack := user.Budget - netDelay
			if slack < 0 {
				negativeSlack += slack
			}
			worstSlack = min(slack, worstSlack)
		}

		if ctx.IsGlobalBuf(user.Cell.Bel) {
			continue
		}
		loc := ctx.BelLocation(user.Cell.Bel)
		xmin = min(xmin, loc.X)
		ymin = min(ymin, loc.Y)
		xmax = max(xmax, loc.X)
		ymax = max(ymax, loc.Y)
	}

	bbox := (ymax - ymin) + (xmax - xmin)
	var wirelength Wirelen
	if timing {
		wirelength = Wirelen(float64(bbox) * min(5.0, 1.0+math.Exp(-ctx.DelayNS(worstSlack)/5)))
	} else {
		wirelength = Wirelen(bbox)
	}

	if tns != nil {
		*tns += ctx.DelayNS(negativeSlack)
	}
	return wirelength
}

// CellMetric sums [NetMetric] over the distinct nets touched by the cell's
// ports. Nets are visited in name order so that results are reproducible.
func CellMetric(ctx Context, cell *netlist.Cell, typ MetricType) Wirelen {
	var wirelength Wirelen
	tns := 0.0
	for _, net := range distinctNets(cell) {
		wirelength += NetMetric(ctx, net, typ, &tns)
	}
	return wirelength
}

// CellMetricAt evaluates [CellMetric] as if cell were placed on bel. The
// cell's logical binding is swapped for the duration of the evaluation so
// that the delay oracle sees the hypothetical location too, then restored;
// the device placement map is never touched. Observably the call is
// non-destructive, but it must not be re-entered for the same cell.
func CellMetricAt(ctx Context, cell *netlist.Cell, bel device.BelID, typ MetricType) Wirelen {
	oldBel := cell.Bel
	cell.Bel = bel
	wirelength := CellMetric(ctx, cell, typ)
	cell.Bel = oldBel
	return wirelength
}

// distinctNets returns the nets connected to the cell's ports, deduplicated
// and sorted by name.
func distinctNets(cell *netlist.Cell) []*netlist.Net {
	byName := map[string]*netlist.Net{}
	for _, p := range cell.Ports {
		if p.Net != nil {
			byName[p.Net.Name] = p.Net
		}
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)
	nets := make([]*netlist.Net, len(names))
	for i, name := range names {
		nets[i] = byName[name]
	}
	return nets
}
