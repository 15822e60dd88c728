package atomicbox

import (
	"sync/atomic"
)

type (
	// Stats is a snapshot of the counters of a Box. All counters increase
	// monotonically, from the call to New.
	Stats struct {
		// Loads is the number of completed Load calls.
		Loads uint64
		// Swaps is the number of completed Swap calls, including those made
		// by Store.
		Swaps uint64
		// Contended is the number of acquisitions of the slot that found it
		// held by another goroutine at least once.
		Contended uint64
		// Retries is the total number of times the slot was found held.
		Retries uint64
		// CellsCreated is the number of values wrapped by the box.
		CellsCreated uint64
		// CellsReleased is the number of values whose last share was released.
		CellsReleased uint64
	}

	boxStats struct {
		loads         atomic.Uint64
		swaps         atomic.Uint64
		contended     atomic.Uint64
		retries       atomic.Uint64
		cellsCreated  atomic.Uint64
		cellsReleased atomic.Uint64
	}
)

// Stats returns a snapshot of the box's counters. The counters are loaded
// individually, and may be mutually inconsistent, if there are concurrent
// operations.
func (x *Box[T]) Stats() Stats {
	return Stats{
		Loads:         x.stats.loads.Load(),
		Swaps:         x.stats.swaps.Load(),
		Contended:     x.stats.contended.Load(),
		Retries:       x.stats.retries.Load(),
		CellsCreated:  x.stats.cellsCreated.Load(),
		CellsReleased: x.stats.cellsReleased.Load(),
	}
}

// Live returns the number of values that have not yet been released.
func (x Stats) Live() int64 {
	return int64(x.CellsCreated) - int64(x.CellsReleased)
}
