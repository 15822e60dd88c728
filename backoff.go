package atomicbox

import (
	"runtime"
	"time"
)

const (
	// backoffSpins is the number of retries that busy-spin, before yielding.
	backoffSpins = 16
	// backoffYields is the number of retries (after spinning) that yield the
	// processor, before sleeping.
	backoffYields = 16
	// backoffMinDelay is the initial sleep delay, doubled on each retry.
	backoffMinDelay = time.Microsecond
	// defaultMaxBackoff bounds the sleep delay, unless WithBackoff is used.
	defaultMaxBackoff = time.Millisecond
)

// for testing purposes
var (
	runtimeGosched = runtime.Gosched
	timeSleep      = time.Sleep
)

// backoff models the retry state of a single acquisition. The zero value is
// ready to use.
type backoff struct {
	retries int
	delay   time.Duration
}

// wait blocks for an interval determined by the number of retries so far. It
// must only be called while NOT holding the slot.
func (x *backoff) wait(maxDelay time.Duration) {
	switch {
	case x.retries <= backoffSpins:
	case x.retries <= backoffSpins+backoffYields:
		runtimeGosched()
	default:
		timeSleep(x.next(maxDelay))
	}
}

func (x *backoff) next(maxDelay time.Duration) time.Duration {
	switch {
	case x.delay <= 0:
		x.delay = backoffMinDelay
	case x.delay < maxDelay:
		x.delay *= 2
	}
	if x.delay > maxDelay {
		x.delay = maxDelay
	}
	return x.delay
}
