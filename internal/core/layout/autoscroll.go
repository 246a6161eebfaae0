package layout

import (
	"sync"
	"time"
)

// Auto-scroll defaults, in logical units and per tick
const (
	DefaultScrollMargin   = 250
	DefaultScrollStep     = 12
	DefaultScrollInterval = 16 * time.Millisecond
)

// Bounds is the vertical extent of the scroll container
type Bounds struct {
	Top    int
	Bottom int
}

// Direction of an edge scroll
type Direction int

const (
	ScrollNone Direction = 0
	ScrollUp   Direction = -1
	ScrollDown Direction = 1
)

// AutoScroller scrolls the container while a dragged pointer sits near its
// top or bottom edge. The repeating timer runs only between a start and
// the next Stop; Stop must be called on drop, drag end and teardown.
type AutoScroller struct {
	Margin   int
	Step     int
	Interval time.Duration

	scroll func(delta int)

	mu   sync.Mutex
	dir  Direction
	stop chan struct{}
	done chan struct{}
}

// NewAutoScroller creates a scroller that calls scroll with a signed delta on
// every tick. scroll runs on the timer goroutine and must not call Stop.
func NewAutoScroller(scroll func(delta int)) *AutoScroller {
	return &AutoScroller{
		Margin:   DefaultScrollMargin,
		Step:     DefaultScrollStep,
		Interval: DefaultScrollInterval,
		scroll:   scroll,
	}
}

// Zone reports which edge zone pointerY is in
func (a *AutoScroller) Zone(pointerY int, b Bounds) Direction {
	switch {
	case pointerY < b.Top+a.Margin:
		return ScrollUp
	case pointerY > b.Bottom-a.Margin:
		return ScrollDown
	}
	return ScrollNone
}

// Update starts, redirects or stops scrolling for a pointer position
func (a *AutoScroller) Update(pointerY int, b Bounds) Direction {
	dir := a.Zone(pointerY, b)

	a.mu.Lock()
	defer a.mu.Unlock()

	if dir == a.dir {
		return dir
	}
	a.stopLocked()
	if dir != ScrollNone {
		a.startLocked(dir)
	}
	return dir
}

// Scrolling reports the active direction
func (a *AutoScroller) Scrolling() Direction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dir
}

// Stop cancels scrolling. It is safe to call at any time and returns only
// after the timer goroutine has exited.
func (a *AutoScroller) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

// Close is Stop for component teardown
func (a *AutoScroller) Close() { a.Stop() }

func (a *AutoScroller) startLocked(dir Direction) {
	a.dir = dir
	a.stop = make(chan struct{})
	a.done = make(chan struct{})

	delta := a.Step * int(dir)
	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		ticker := time.NewTicker(a.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				if a.scroll != nil {
					a.scroll(delta)
				}
			}
		}
	}(a.stop, a.done)
}

func (a *AutoScroller) stopLocked() {
	if a.stop == nil {
		return
	}
	close(a.stop)
	<-a.done
	a.stop = nil
	a.done = nil
	a.dir = ScrollNone
}
