package atomicbox

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_Clone(t *testing.T) {
	var tr tracker
	b := New(tr.new(1), tr.option())
	h := b.Load()
	require.NoError(t, b.Close())

	c := h.Clone()
	assert.Same(t, h.Value(), c.Value())
	assert.Equal(t, int64(2), h.cell.refs.Load())

	h.Release()
	assert.Equal(t, 1, c.Value().id)
	assert.Zero(t, tr.released.Load())

	c.Release()
	assert.Equal(t, int64(1), tr.released.Load())
}

func TestHandle_Release_idempotent(t *testing.T) {
	var tr tracker
	b := New(tr.new(0), tr.option())
	defer b.Close()

	h := b.Load()
	assert.False(t, h.Released())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Release()
		}()
	}
	wg.Wait()

	assert.True(t, h.Released())
	assert.Equal(t, int64(1), h.cell.refs.Load(), `only the box's share should remain`)
	assert.Zero(t, tr.released.Load())
}

func TestHandle_released(t *testing.T) {
	b := New(`value`)
	defer b.Close()

	h := b.Load()
	assert.Equal(t, `value`, h.String())
	h.Release()

	assert.Equal(t, `atomicbox.Handle(released)`, h.String())
	assert.PanicsWithValue(t, `atomicbox: value called on released handle`, func() { h.Value() })
	assert.PanicsWithValue(t, `atomicbox: clone called on released handle`, func() { h.Clone() })
}

func TestHandle_String_concurrentWithRelease(t *testing.T) {
	b := New([]byte(`initial`))
	defer b.Close()

	for i := 0; i < 200; i++ {
		h := b.Swap(nil)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s := h.String()
			if s != `atomicbox.Handle(released)` && s != fmt.Sprint(h.cell.value) {
				t.Errorf(`unexpected string: %q`, s)
			}
		}()
		go func() {
			defer wg.Done()
			h.Release()
		}()
		wg.Wait()
		assert.Equal(t, `atomicbox.Handle(released)`, h.String())
	}
	assert.Equal(t, int64(1), b.Stats().Live())
}

func TestCell_release_tooManyTimes(t *testing.T) {
	b := New(1)
	c := b.newCell(2)
	c.release()
	assert.PanicsWithValue(t, `atomicbox: cell released more times than it was shared`, c.release)
	require.NoError(t, b.Close())
}
