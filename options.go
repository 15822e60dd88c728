package atomicbox

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

const (
	// defaultWarnSpins is the number of retries, by a single acquisition,
	// after which a warning will be logged.
	defaultWarnSpins = 1024
)

// boxOptions holds configuration options for Box creation.
type boxOptions struct {
	logger     *logiface.Logger[logiface.Event]
	release    any
	warnRates  map[time.Duration]int
	limiter    *catrate.Limiter
	maxBackoff time.Duration
	warnSpins  int
}

// Option configures a Box instance.
type Option interface {
	applyBox(*boxOptions) error
}

// boxOptionImpl implements Option.
type boxOptionImpl struct {
	applyBoxFunc func(*boxOptions) error
}

func (o *boxOptionImpl) applyBox(opts *boxOptions) error {
	return o.applyBoxFunc(opts)
}

// WithLogger configures a logger, used for diagnostics, e.g. warnings about
// excessive contention. A nil logger disables logging, which is the default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &boxOptionImpl{func(opts *boxOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithRelease configures a hook that will be called exactly once per value,
// when the last share of that value is released. It will never be called
// while the box's slot is held, but may be called by any goroutine that
// releases a Handle, or calls Box.Store, or Box.Close.
//
// The type parameter must match that of the Box, or New will panic.
func WithRelease[T any](fn func(value T)) Option {
	return &boxOptionImpl{func(opts *boxOptions) error {
		if fn == nil {
			opts.release = nil
		} else {
			opts.release = fn
		}
		return nil
	}}
}

// WithBackoff configures the maximum delay between attempts to acquire a
// contended box. Defaults to 1ms.
func WithBackoff(maxDelay time.Duration) Option {
	return &boxOptionImpl{func(opts *boxOptions) error {
		if maxDelay <= 0 {
			return errors.New(`backoff max delay must be positive`)
		}
		opts.maxBackoff = maxDelay
		return nil
	}}
}

// WithContentionWarning configures the number of retries by a single
// acquisition, after which a warning is logged, and the rates at which such
// warnings may be logged, per operation, see also
// [github.com/joeycumines/go-catrate]. A nil rates map will use the default
// rates (1 per second, 10 per minute). Has no effect unless a logger is
// configured. Invalid rates will cause New to panic, regardless.
func WithContentionWarning(retries int, rates map[time.Duration]int) Option {
	return &boxOptionImpl{func(opts *boxOptions) error {
		if retries <= 0 {
			return errors.New(`contention warning retries must be positive`)
		}
		opts.warnSpins = retries
		if rates != nil {
			opts.warnRates = rates
		}
		return nil
	}}
}

// resolveBoxOptions applies Option instances to boxOptions.
func resolveBoxOptions(options []Option) (*boxOptions, error) {
	opts := &boxOptions{
		maxBackoff: defaultMaxBackoff,
		warnSpins:  defaultWarnSpins,
		warnRates: map[time.Duration]int{
			time.Second: 1,
			time.Minute: 10,
		},
	}
	for _, o := range options {
		if o == nil {
			continue
		}
		if err := o.applyBox(opts); err != nil {
			return nil, err
		}
	}
	// validated even if there is no logger, the limiter doesn't start its
	// worker until it is used
	limiter, err := newLimiter(opts.warnRates)
	if err != nil {
		return nil, err
	}
	opts.limiter = limiter
	return opts, nil
}

// newLimiter wraps catrate.NewLimiter, which panics on invalid rates.
func newLimiter(rates map[time.Duration]int) (limiter *catrate.Limiter, err error) {
	defer func() {
		if r := recover(); r != nil {
			limiter, err = nil, fmt.Errorf(`invalid contention warning rates: %v`, rates)
		}
	}()
	return catrate.NewLimiter(rates), nil
}
