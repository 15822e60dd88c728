package atomicbox

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// slot is the only shared mutable location of a Box. It holds either a live
// cell, the box's poison sentinel, or nil (closed).
type slot[T any] struct { // betteralign:ignore
	_   cpu.CacheLinePad //nolint:unused
	ptr atomic.Pointer[cell[T]]
	_   cpu.CacheLinePad //nolint:unused
}

// acquire takes exclusive possession of the slot, by exchanging its value for
// the poison sentinel, retrying while another goroutine holds it. The caller
// MUST restore a live cell, using slot.ptr.Store, without calling out to any
// code it doesn't control. A nil return indicates the box is closed, in which
// case the slot has already been restored.
func (x *Box[T]) acquire(op string) *cell[T] {
	var b backoff
	for {
		c := x.slot.ptr.Swap(x.poison)
		if c != x.poison {
			if c == nil {
				x.slot.ptr.Store(nil)
			}
			if b.retries != 0 {
				x.stats.contended.Add(1)
				x.stats.retries.Add(uint64(b.retries))
			}
			return c
		}
		// we don't hold the slot, so it's safe to log or sleep
		b.retries++
		if b.retries == x.warnSpins {
			x.warnContention(op, b.retries)
		}
		b.wait(x.maxBackoff)
	}
}
