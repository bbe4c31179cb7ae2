package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, d *Debouncer[T], within time.Duration) (T, bool) {
	t.Helper()
	select {
	case v := <-d.C():
		return v, true
	case <-time.After(within):
		var zero T
		return zero, false
	}
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	d := New[string](30 * time.Millisecond)
	defer d.Stop()

	for _, v := range []string{"p", "pr", "pri", "prin", "prince"} {
		d.Call(v)
		time.Sleep(5 * time.Millisecond)
	}

	v, ok := receive(t, d, time.Second)
	require.True(t, ok)
	assert.Equal(t, "prince", v)

	_, ok = receive(t, d, 80*time.Millisecond)
	assert.False(t, ok, "burst must be delivered once")
}

func TestDebouncerWaitsForQuiet(t *testing.T) {
	d := New[int](60 * time.Millisecond)
	defer d.Stop()

	start := time.Now()
	d.Call(1)
	time.Sleep(40 * time.Millisecond)
	d.Call(2)

	v, ok := receive(t, d, time.Second)
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestDebouncerCancel(t *testing.T) {
	d := New[string](20 * time.Millisecond)
	defer d.Stop()

	assert.False(t, d.Cancel())
	d.Call("abc")
	assert.True(t, d.Pending())
	assert.True(t, d.Cancel())
	assert.False(t, d.Pending())

	_, ok := receive(t, d, 60*time.Millisecond)
	assert.False(t, ok)
}

func TestDebouncerFlush(t *testing.T) {
	d := New[string](time.Hour)
	defer d.Stop()

	assert.False(t, d.Flush())
	d.Call("now")
	assert.True(t, d.Flush())

	v, ok := receive(t, d, 50*time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, "now", v)
	assert.False(t, d.Pending())
}

func TestDebouncerStop(t *testing.T) {
	d := New[string](10 * time.Millisecond)
	d.Call("x")
	d.Stop()
	d.Call("y")

	_, ok := receive(t, d, 50*time.Millisecond)
	assert.False(t, ok)
}
