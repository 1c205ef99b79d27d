// Package place implements the placement-common core: wirelength
// estimation, single-cell placement with bounded ripup, and legalisation of
// relative placement constraints.
//
// The package is a library. It consumes a device through the [Context]
// interface and a design through the netlist model; it never creates or
// destroys cells and nets, only moves bindings through the context's Bind
// and Unbind operations.
//
// # Components
//
//   - [NetMetric], [CellMetric], [CellMetricAt]: half-perimeter bounding-box
//     wirelength, optionally weighted by worst slack when the context is
//     timing-driven.
//   - [PlaceSingleCell]: best-fit placement of one cell, displacing
//     weaker-strength incumbents when no free bel fits.
//   - [LegaliseRelativeConstraints]: recursive backtracking search that
//     moves whole constraint chains to satisfiable locations and locks
//     them down.
//
// All operations are single-threaded and deterministic given a stable bel
// enumeration order and a fixed RNG seed: cells and nets are visited in
// name order wherever iteration order is observable.
package place
