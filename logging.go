package atomicbox

// warnContention logs a (rate limited) warning, that a single acquisition has
// retried an excessive number of times. It must only be called while NOT
// holding the slot.
func (x *Box[T]) warnContention(op string, retries int) {
	if x.logger == nil {
		return
	}
	if _, ok := x.limiter.Allow(op); !ok {
		return
	}
	x.logger.Warning().
		Str(`op`, op).
		Int(`retries`, retries).
		Dur(`max_backoff`, x.maxBackoff).
		Log(`atomicbox: slot contended`)
}
