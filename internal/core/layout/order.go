// Package layout keeps the user-visible ordering of sessions and the live
// drag-reorder and edge auto-scroll state of the session list.
package layout

import (
	"errors"
	"fmt"
	"slices"
)

// ErrOrderingInconsistency means the order and the session collection have
// diverged. It indicates a bug, not a runtime condition.
var ErrOrderingInconsistency = errors.New("order and session collection diverged")

// Order is a permutation of session ids
type Order struct {
	ids []string
}

// NewOrder creates an order from ids, dropping duplicates after the first
func NewOrder(ids []string) *Order {
	o := &Order{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		o.ids = append(o.ids, id)
	}
	return o
}

// IDs returns a copy of the ordered ids
func (o *Order) IDs() []string {
	return slices.Clone(o.ids)
}

// Len is the number of ids
func (o *Order) Len() int { return len(o.ids) }

// Index returns the position of id or -1
func (o *Order) Index(id string) int {
	return slices.Index(o.ids, id)
}

// Contains reports whether id is in the order
func (o *Order) Contains(id string) bool { return o.Index(id) >= 0 }

// Prepend puts id first. Ids already present are left where they are.
func (o *Order) Prepend(id string) {
	if o.Contains(id) {
		return
	}
	o.ids = slices.Insert(o.ids, 0, id)
}

// Append puts id last. Ids already present are left where they are.
func (o *Order) Append(id string) {
	if o.Contains(id) {
		return
	}
	o.ids = append(o.ids, id)
}

// Remove drops id, reporting whether it was present
func (o *Order) Remove(id string) bool {
	i := o.Index(id)
	if i < 0 {
		return false
	}
	o.ids = slices.Delete(o.ids, i, i+1)
	return true
}

// Move takes the id at from and reinserts it at to
func (o *Order) Move(from, to int) bool {
	if from < 0 || from >= len(o.ids) || to < 0 || to >= len(o.ids) || from == to {
		return false
	}
	id := o.ids[from]
	o.ids = slices.Delete(o.ids, from, from+1)
	o.ids = slices.Insert(o.ids, to, id)
	return true
}

// Verify checks the order is exactly the given id set
func (o *Order) Verify(ids map[string]bool) error {
	if len(o.ids) != len(ids) {
		return fmt.Errorf("%w: %d ordered, %d sessions", ErrOrderingInconsistency, len(o.ids), len(ids))
	}
	seen := make(map[string]bool, len(o.ids))
	for _, id := range o.ids {
		if !ids[id] || seen[id] {
			return fmt.Errorf("%w: unexpected id %s", ErrOrderingInconsistency, id)
		}
		seen[id] = true
	}
	return nil
}

// Drag tracks one live reorder gesture. Each DragOver moves the dragged
// item immediately rather than committing at drop.
type Drag struct {
	order  *Order
	last   int
	active bool
}

// NewDrag creates a drag controller over order
func NewDrag(order *Order) *Drag {
	return &Drag{order: order, last: -1}
}

// BeginDrag records the source index
func (d *Drag) BeginDrag(index int) {
	if index < 0 || index >= d.order.Len() {
		d.active = false
		return
	}
	d.last = index
	d.active = true
}

// DragOver moves the dragged item from its last index to target. It reports
// whether the order changed.
func (d *Drag) DragOver(target int) bool {
	if !d.active || target == d.last {
		return false
	}
	if !d.order.Move(d.last, target) {
		return false
	}
	d.last = target
	return true
}

// Active reports whether a drag is in progress
func (d *Drag) Active() bool { return d.active }

// Index is the current position of the dragged item
func (d *Drag) Index() int { return d.last }

// End finishes the gesture
func (d *Drag) End() {
	d.active = false
	d.last = -1
}

// Sidebar width bounds in logical units
const (
	MinSidebarWidth     = 200
	MaxSidebarWidth     = 480
	DefaultSidebarWidth = 288
)

// ClampWidth bounds a sidebar width
func ClampWidth(w int) int {
	return min(max(w, MinSidebarWidth), MaxSidebarWidth)
}
