package atomicbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stubBackoff(t *testing.T) (yields *int, sleeps *[]time.Duration) {
	yields = new(int)
	sleeps = new([]time.Duration)
	oldGosched, oldSleep := runtimeGosched, timeSleep
	t.Cleanup(func() {
		runtimeGosched, timeSleep = oldGosched, oldSleep
	})
	runtimeGosched = func() { *yields++ }
	timeSleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return
}

func TestBackoff_wait(t *testing.T) {
	yields, sleeps := stubBackoff(t)

	var b backoff
	for b.retries < backoffSpins+backoffYields+8 {
		b.retries++
		b.wait(8 * time.Microsecond)
	}

	assert.Equal(t, backoffYields, *yields)
	assert.Equal(t, []time.Duration{
		time.Microsecond,
		2 * time.Microsecond,
		4 * time.Microsecond,
		8 * time.Microsecond,
		8 * time.Microsecond,
		8 * time.Microsecond,
		8 * time.Microsecond,
		8 * time.Microsecond,
	}, *sleeps)
}

func TestBackoff_spinsFirst(t *testing.T) {
	yields, sleeps := stubBackoff(t)

	var b backoff
	for b.retries < backoffSpins {
		b.retries++
		b.wait(time.Millisecond)
	}

	assert.Zero(t, *yields)
	assert.Empty(t, *sleeps)
}

func TestBackoff_next(t *testing.T) {
	for _, tc := range [...]struct {
		name     string
		delay    time.Duration
		maxDelay time.Duration
		expected time.Duration
	}{
		{`initial`, 0, time.Millisecond, backoffMinDelay},
		{`doubles`, 3 * time.Microsecond, time.Millisecond, 6 * time.Microsecond},
		{`capped`, 600 * time.Microsecond, time.Millisecond, time.Millisecond},
		{`at max`, time.Millisecond, time.Millisecond, time.Millisecond},
		{`max below min`, 0, time.Nanosecond, time.Nanosecond},
		{`max lowered`, time.Second, time.Millisecond, time.Millisecond},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := backoff{delay: tc.delay}
			assert.Equal(t, tc.expected, b.next(tc.maxDelay))
		})
	}
}
