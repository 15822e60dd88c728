package atomicbox

import (
	"fmt"
	"sync/atomic"
)

type (
	// Handle is a shared reference to a value, obtained from a Box. Each
	// handle holds exactly one share of the value, which must be given up by
	// calling Release, once the value is no longer needed.
	//
	// Methods may be called concurrently. Value and Clone panic if called
	// after Release, and must not be called concurrently with it. String may
	// be called at any time.
	Handle[T any] struct {
		cell     *cell[T]
		released atomic.Bool
	}

	// cell holds a single immutable value, and the number of outstanding
	// shares, including the share held by the box itself, if it is current.
	cell[T any] struct {
		value T
		owner *Box[T]
		refs  atomic.Int64
	}
)

// newHandle wraps a share of c, that the caller already holds.
func newHandle[T any](c *cell[T]) *Handle[T] {
	return &Handle[T]{cell: c}
}

// Value returns the value the handle refers to. It panics if the handle has
// been released.
func (x *Handle[T]) Value() T {
	x.mustLive(`value`)
	return x.cell.value
}

// Clone returns a new Handle, sharing the same value, which must be released
// independently.
func (x *Handle[T]) Clone() *Handle[T] {
	x.mustLive(`clone`)
	x.cell.refs.Add(1)
	return newHandle(x.cell)
}

// Release gives up this handle's share of the value. Only the first call has
// any effect.
func (x *Handle[T]) Release() {
	if x.released.CompareAndSwap(false, true) {
		x.cell.release()
	}
}

// Released returns true if Release has been called.
func (x *Handle[T]) Released() bool {
	return x.released.Load()
}

// String formats the value using the %v verb.
func (x *Handle[T]) String() string {
	if x.Released() {
		return `atomicbox.Handle(released)`
	}
	return fmt.Sprint(x.cell.value)
}

func (x *Handle[T]) mustLive(method string) {
	if x.released.Load() {
		panic(`atomicbox: ` + method + ` called on released handle`)
	}
}

func (x *cell[T]) release() {
	switch n := x.refs.Add(-1); {
	case n > 0:
		return
	case n < 0:
		panic(`atomicbox: cell released more times than it was shared`)
	}

	// value is left in place, released handles may still be formatted
	x.owner.stats.cellsReleased.Add(1)
	if x.owner.release != nil {
		x.owner.release(x.value)
	}
}
