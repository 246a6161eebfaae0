package layout

import (
	"math/rand"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderDropsDuplicates(t *testing.T) {
	o := NewOrder([]string{"a", "b", "a", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, o.IDs())
}

func TestOrderMutations(t *testing.T) {
	o := NewOrder([]string{"a", "b"})

	o.Prepend("c")
	o.Prepend("a")
	assert.Equal(t, []string{"c", "a", "b"}, o.IDs())

	assert.True(t, o.Remove("a"))
	assert.False(t, o.Remove("a"))
	assert.Equal(t, []string{"c", "b"}, o.IDs())

	o.Append("d")
	assert.True(t, o.Move(0, 2))
	assert.Equal(t, []string{"b", "d", "c"}, o.IDs())

	assert.False(t, o.Move(0, 3))
	assert.False(t, o.Move(1, 1))
}

func TestOrderVerify(t *testing.T) {
	o := NewOrder([]string{"a", "b"})

	require.NoError(t, o.Verify(map[string]bool{"a": true, "b": true}))
	assert.ErrorIs(t, o.Verify(map[string]bool{"a": true}), ErrOrderingInconsistency)
	assert.ErrorIs(t, o.Verify(map[string]bool{"a": true, "c": true}), ErrOrderingInconsistency)
}

func TestDragLiveReorder(t *testing.T) {
	o := NewOrder([]string{"a", "b", "c", "d"})
	d := NewDrag(o)

	d.BeginDrag(0)
	assert.True(t, d.DragOver(1))
	assert.Equal(t, []string{"b", "a", "c", "d"}, o.IDs())

	assert.False(t, d.DragOver(1), "same target is a no-op")

	assert.True(t, d.DragOver(3))
	assert.Equal(t, []string{"b", "c", "d", "a"}, o.IDs())
	assert.Equal(t, 3, d.Index())

	d.End()
	assert.False(t, d.DragOver(0), "no moves after the drag ends")
	assert.Equal(t, []string{"b", "c", "d", "a"}, o.IDs())
}

func TestDragIgnoresOutOfRange(t *testing.T) {
	o := NewOrder([]string{"a", "b"})
	d := NewDrag(o)

	d.BeginDrag(5)
	assert.False(t, d.Active())

	d.BeginDrag(1)
	assert.False(t, d.DragOver(7))
	assert.Equal(t, []string{"a", "b"}, o.IDs())
}

func TestDragKeepsPermutation(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		o := NewOrder(ids)
		d := NewDrag(o)
		d.BeginDrag(rng.Intn(len(ids)))
		for step := 0; step < 10; step++ {
			d.DragOver(rng.Intn(len(ids)+2) - 1)
		}
		d.End()

		got := o.IDs()
		slices.Sort(got)
		require.Equal(t, ids, got)
	}
}

func TestClampWidth(t *testing.T) {
	assert.Equal(t, 200, ClampWidth(10))
	assert.Equal(t, 300, ClampWidth(300))
	assert.Equal(t, 480, ClampWidth(9000))
}

func TestAutoScrollerZones(t *testing.T) {
	a := NewAutoScroller(nil)
	b := Bounds{Top: 0, Bottom: 1000}

	assert.Equal(t, ScrollUp, a.Zone(100, b))
	assert.Equal(t, ScrollNone, a.Zone(500, b))
	assert.Equal(t, ScrollDown, a.Zone(900, b))
}

func TestAutoScrollerScrollsAndStops(t *testing.T) {
	var total atomic.Int64
	var ticks atomic.Int64
	a := NewAutoScroller(func(delta int) {
		total.Add(int64(delta))
		ticks.Add(1)
	})
	a.Interval = time.Millisecond
	b := Bounds{Top: 0, Bottom: 1000}

	assert.Equal(t, ScrollDown, a.Update(990, b))
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	assert.Positive(t, total.Load())

	a.Stop()
	assert.Equal(t, ScrollNone, a.Scrolling())

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after Stop")

	a.Stop()
	a.Close()
}

func TestAutoScrollerChangesDirection(t *testing.T) {
	var last atomic.Int64
	a := NewAutoScroller(func(delta int) { last.Store(int64(delta)) })
	a.Interval = time.Millisecond
	defer a.Close()
	b := Bounds{Top: 0, Bottom: 1000}

	a.Update(10, b)
	require.Eventually(t, func() bool { return last.Load() == -DefaultScrollStep }, time.Second, time.Millisecond)

	a.Update(995, b)
	require.Eventually(t, func() bool { return last.Load() == DefaultScrollStep }, time.Second, time.Millisecond)

	assert.Equal(t, ScrollNone, a.Update(500, b))
	assert.Equal(t, ScrollNone, a.Scrolling())
}
