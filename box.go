package atomicbox

import (
	"fmt"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

const (
	opLoad = `load`
	opSwap = `swap`
)

type (
	// Box holds exactly one value, of type T, which may be read and replaced
	// concurrently, from any number of goroutines. Instances must be
	// initialized using the New factory, and should be shared by pointer.
	//
	// Close must not be called concurrently with any other method.
	Box[T any] struct { // betteralign:ignore
		slot slot[T]

		// poison is never published outside the slot
		poison *cell[T]

		release    func(value T)
		logger     *logiface.Logger[logiface.Event]
		limiter    *catrate.Limiter
		maxBackoff time.Duration
		warnSpins  int

		stats boxStats
	}
)

// New initializes a Box, holding value. A panic will occur if any of the
// options are invalid.
//
// The Box.Close method should be called when the Box is no longer needed, if
// a release hook is configured, or the final value must otherwise be released.
func New[T any](value T, options ...Option) *Box[T] {
	opts, err := resolveBoxOptions(options)
	if err != nil {
		panic(fmt.Errorf(`atomicbox: %w`, err))
	}

	x := Box[T]{
		poison:     new(cell[T]),
		logger:     opts.logger,
		maxBackoff: opts.maxBackoff,
		warnSpins:  opts.warnSpins,
	}

	if opts.release != nil {
		release, ok := opts.release.(func(value T))
		if !ok {
			panic(fmt.Errorf(`atomicbox: release hook %T does not match box value type %T`, opts.release, value))
		}
		x.release = release
	}

	// the limiter is only useful if there is something to limit
	if x.logger != nil {
		x.limiter = opts.limiter
	}

	x.slot.ptr.Store(x.newCell(value))

	return &x
}

// Load returns a new Handle, sharing the current value. The caller must call
// Handle.Release once it no longer needs the value.
func (x *Box[T]) Load() *Handle[T] {
	c := x.acquire(opLoad)
	if c == nil {
		panic(fmt.Errorf(`atomicbox: load: %w`, ErrClosed))
	}
	c.refs.Add(1)
	x.slot.ptr.Store(c)

	x.stats.loads.Add(1)
	return newHandle(c)
}

// Swap replaces the current value, returning a Handle to the displaced value,
// which the caller must release.
func (x *Box[T]) Swap(value T) *Handle[T] {
	n := x.newCell(value)
	c := x.acquire(opSwap)
	if c == nil {
		n.release()
		panic(fmt.Errorf(`atomicbox: swap: %w`, ErrClosed))
	}
	// restores the slot and performs the replacement, the box's share of c
	// transfers to the returned handle
	x.slot.ptr.Store(n)

	x.stats.swaps.Add(1)
	return newHandle(c)
}

// Store replaces the current value, releasing the box's share of the
// displaced value.
func (x *Box[T]) Store(value T) {
	x.Swap(value).Release()
}

// Close releases the box's share of the current value. It must not be called
// concurrently with any other method of the Box. Subsequent calls to Load,
// Store, or Swap will panic. ErrClosed will be returned if the Box was
// already closed.
func (x *Box[T]) Close() error {
	c := x.slot.ptr.Swap(nil)
	switch c {
	case nil:
		return ErrClosed
	case x.poison:
		panic(`atomicbox: close called concurrently with another operation`)
	}

	c.release()

	x.logger.Debug().
		Uint64(`cells_created`, x.stats.cellsCreated.Load()).
		Uint64(`cells_released`, x.stats.cellsReleased.Load()).
		Log(`atomicbox: closed`)

	return nil
}

// String loads the current value, and formats it using the %v verb.
func (x *Box[T]) String() string {
	h := x.Load()
	defer h.Release()
	return fmt.Sprintf(`atomicbox.Box{%v}`, h.Value())
}

func (x *Box[T]) newCell(value T) *cell[T] {
	c := cell[T]{value: value, owner: x}
	c.refs.Store(1)
	x.stats.cellsCreated.Add(1)
	return &c
}
