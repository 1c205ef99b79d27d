// Package observability provides hooks for metrics and logging around the
// placement core.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about single-cell placement and
// constraint legalisation.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hook signatures use only plain types (names and coordinates) so that the
// package has no dependency on the netlist or device models and can be
// imported from anywhere.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPlacerHooks(&myPlacerHooks{})
//	    observability.SetLegaliseHooks(&myLegaliseHooks{})
//	    // ... run placement
//	}
//
// The core calls hooks to emit events:
//
//	observability.Placer().OnRipup(cellName, x, y, z)
package observability

import "sync"

// PlacerHooks receives events from the single-cell placer.
type PlacerHooks interface {
	// OnPlaceStart records the beginning of a single-cell placement.
	OnPlaceStart(cell string)

	// OnRipup records the displacement of an incumbent cell from (x, y, z).
	OnRipup(cell string, x, y, z int)

	// OnPlaceComplete records a successful placement at (x, y, z) after
	// the given number of ripup rounds.
	OnPlaceComplete(cell string, x, y, z, ripups int)
}

// LegaliseHooks receives events from the constraint legaliser.
type LegaliseHooks interface {
	// OnChainStart records the start of legalisation for a chain root.
	OnChainStart(root string)

	// OnChainLocked records a chain that was already satisfied and has
	// been locked in place; size is the number of cells in the chain.
	OnChainLocked(root string, size int)

	// OnChainPlaced records a chain moved to a new solution; tried is the
	// number of root locations examined.
	OnChainPlaced(root string, size, tried int)

	// OnCellRipped records an incumbent displaced by a chain solution.
	OnCellRipped(cell string)
}

// NoopPlacerHooks is a no-op implementation of PlacerHooks.
type NoopPlacerHooks struct{}

func (NoopPlacerHooks) OnPlaceStart(string)                  {}
func (NoopPlacerHooks) OnRipup(string, int, int, int)        {}
func (NoopPlacerHooks) OnPlaceComplete(string, int, int, int, int) {}

// NoopLegaliseHooks is a no-op implementation of LegaliseHooks.
type NoopLegaliseHooks struct{}

func (NoopLegaliseHooks) OnChainStart(string)            {}
func (NoopLegaliseHooks) OnChainLocked(string, int)      {}
func (NoopLegaliseHooks) OnChainPlaced(string, int, int) {}
func (NoopLegaliseHooks) OnCellRipped(string)            {}

var (
	placerHooks   PlacerHooks   = NoopPlacerHooks{}
	legaliseHooks LegaliseHooks = NoopLegaliseHooks{}
	hooksMu       sync.RWMutex
)

// SetPlacerHooks registers custom placer hooks.
// This should be called once at application startup before placement begins.
func SetPlacerHooks(h PlacerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		placerHooks = h
	}
}

// SetLegaliseHooks registers custom legalise hooks.
// This should be called once at application startup before placement begins.
func SetLegaliseHooks(h LegaliseHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		legaliseHooks = h
	}
}

// Placer returns the registered placer hooks.
func Placer() PlacerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return placerHooks
}

// Legalise returns the registered legalise hooks.
func Legalise() LegaliseHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return legaliseHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	placerHooks = NoopPlacerHooks{}
	legaliseHooks = NoopLegaliseHooks{}
}
