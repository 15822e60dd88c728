// Package atomicbox implements a container holding exactly one value, which
// any number of goroutines may concurrently read (Load) or replace (Store,
// Swap), without locks.
//
// Values are wrapped in reference counted cells. Each Load returns a Handle,
// sharing the cell that was current at the time of the call, which remains
// valid until the caller releases it, regardless of how many times the box is
// subsequently updated. When the last share of a cell is released, the
// (optional) release hook is called, see [WithRelease].
//
// Mutual exclusion is scoped to the bookkeeping of a single pointer: an
// operation exchanges the stored pointer for a per-box "poison" sentinel,
// performs a constant amount of work (a counter increment, or publishing a new
// cell), then restores a real pointer. Other goroutines that observe the
// sentinel retry, with bounded backoff. No caller code ever runs while the
// sentinel is held.
//
// There is no compare-and-swap, or other conditional update. Payloads must be
// treated as immutable, once stored.
package atomicbox
