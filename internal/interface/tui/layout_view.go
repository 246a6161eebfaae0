package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/authno/internal/core/layout"
	"go.uber.org/zap"
)

// rowUnits is one terminal row in the auto-scroller's logical units
const rowUnits = 50

// layoutHeader is the number of lines above the first row
const layoutHeader = 2

// reorder is the arrange view: a drag over a copy of the workspace order
// that is pushed to the store after every move.
type reorder struct {
	order    *layout.Order
	drag     *layout.Drag
	cursor   int
	scroll   int // Logical units
	pointerY int // Terminal row of the last drag motion
	scroller *layout.AutoScroller
	ticks    chan int
}

func newReorder(margin, step int) *reorder {
	r := &reorder{
		order: layout.NewOrder(nil),
		ticks: make(chan int, 1),
	}
	r.drag = layout.NewDrag(r.order)
	r.scroller = layout.NewAutoScroller(func(delta int) {
		// Drop ticks the UI has not caught up with
		select {
		case r.ticks <- delta:
		default:
		}
	})
	if margin > 0 {
		r.scroller.Margin = margin
	}
	if step > 0 {
		r.scroller.Step = step
	}
	return r
}

func (m *Model) enterLayout() {
	if m.filter != "" {
		m.status = "Clear the filter to rearrange"
		return
	}
	r := m.reorder
	r.order = layout.NewOrder(m.store.Order())
	r.drag = layout.NewDrag(r.order)
	r.cursor = max(r.order.Index(m.selectedID()), 0)
	r.scroll = 0
	m.ensureVisible()
	m.mode = layoutView
}

func (m *Model) leaveLayout() {
	r := m.reorder
	r.drag.End()
	r.scroller.Stop()
	id := ""
	if r.cursor >= 0 && r.cursor < r.order.Len() {
		id = r.order.IDs()[r.cursor]
	}
	m.mode = listView
	m.refresh()
	m.focus(id)
}

// visibleRows is how many sessions fit between header and footer
func (m *Model) visibleRows() int {
	return max(m.height-layoutHeader-m.footerHeight(), 1)
}

func (m *Model) firstVisible() int {
	return m.reorder.scroll / rowUnits
}

// rowAt maps a terminal row to an order index, -1 when outside the list
func (m *Model) rowAt(y int) int {
	row := y - layoutHeader
	if row < 0 || row >= m.visibleRows() {
		return -1
	}
	idx := m.firstVisible() + row
	if idx >= m.reorder.order.Len() {
		return -1
	}
	return idx
}

func (m *Model) layoutBounds() layout.Bounds {
	return layout.Bounds{
		Top:    layoutHeader * rowUnits,
		Bottom: (layoutHeader + m.visibleRows()) * rowUnits,
	}
}

// dragTo moves the dragged session to target and pushes the new order
func (m *Model) dragTo(target int) {
	r := m.reorder
	target = min(max(target, 0), r.order.Len()-1)
	if !r.drag.DragOver(target) {
		return
	}
	r.cursor = r.drag.Index()
	if err := m.store.Reorder(r.order.IDs()); err != nil {
		m.log.Warn("reorder rejected", zap.Error(err))
		r.order = layout.NewOrder(m.store.Order())
		r.drag = layout.NewDrag(r.order)
	}
}

func (m *Model) ensureVisible() {
	r := m.reorder
	first := m.firstVisible()
	rows := m.visibleRows()
	switch {
	case r.cursor < first:
		r.scroll = r.cursor * rowUnits
	case r.cursor >= first+rows:
		r.scroll = (r.cursor - rows + 1) * rowUnits
	}
}

// scrollLayout applies an auto-scroll tick and keeps the dragged session
// under the pointer
func (m *Model) scrollLayout(delta int) {
	if m.mode != layoutView {
		return
	}
	r := m.reorder
	limit := max(r.order.Len()-m.visibleRows(), 0) * rowUnits
	r.scroll = min(max(r.scroll+delta, 0), limit)
	if r.drag.Active() {
		if idx := m.rowAt(r.pointerY); idx >= 0 {
			m.dragTo(idx)
		}
	}
}

func (m Model) updateLayout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.reorder
	if r.order.Len() == 0 {
		m.leaveLayout()
		return m, nil
	}

	switch msg.String() {
	case "esc", "q", "L":
		m.leaveLayout()
		return m, nil

	case "?":
		m.prev = layoutView
		m.mode = helpView
		return m, nil

	case " ", "enter":
		if r.drag.Active() {
			r.drag.End()
		} else {
			r.drag.BeginDrag(r.cursor)
		}

	case "up", "k":
		if r.drag.Active() {
			m.dragTo(r.cursor - 1)
		} else if r.cursor > 0 {
			r.cursor--
		}

	case "down", "j":
		if r.drag.Active() {
			m.dragTo(r.cursor + 1)
		} else if r.cursor < r.order.Len()-1 {
			r.cursor++
		}

	case "shift+up", "shift+down":
		step := 1
		if msg.String() == "shift+up" {
			step = -1
		}
		held := r.drag.Active()
		if !held {
			r.drag.BeginDrag(r.cursor)
		}
		m.dragTo(r.cursor + step)
		if !held {
			r.drag.End()
		}
	}

	m.ensureVisible()
	return m, nil
}

func (m Model) updateLayoutMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	r := m.reorder
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollLayout(-rowUnits)

	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollLayout(rowUnits)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if idx := m.rowAt(msg.Y); idx >= 0 {
			r.cursor = idx
			r.pointerY = msg.Y
			r.drag.BeginDrag(idx)
		}

	case msg.Action == tea.MouseActionMotion && r.drag.Active():
		r.pointerY = msg.Y
		if idx := m.rowAt(msg.Y); idx >= 0 {
			m.dragTo(idx)
		}
		r.scroller.Update(msg.Y*rowUnits, m.layoutBounds())

	case msg.Action == tea.MouseActionRelease:
		r.drag.End()
		r.scroller.Stop()
	}
	return m, nil
}

func (m Model) viewLayout() string {
	r := m.reorder
	var b strings.Builder
	b.WriteString(titleStyle.Render("Arrange workspace"))
	b.WriteString(metaStyle.Render(fmt.Sprintf("  %d sessions", r.order.Len())))
	b.WriteString("\n\n")

	ids := r.order.IDs()
	first := m.firstVisible()
	rows := m.visibleRows()
	for i := first; i < len(ids) && i < first+rows; i++ {
		sess, _ := m.store.Get(ids[i])
		line := fmt.Sprintf("%2d. %s", i+1, truncate(sess.Title, max(m.width-8, 10)))
		switch {
		case r.drag.Active() && i == r.drag.Index():
			b.WriteString(draggingStyle.Render("≡ " + line))
		case i == r.cursor:
			b.WriteString(selectedItemStyle.Render("▌" + line))
		default:
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	for i := len(ids) - first; i < rows; i++ {
		b.WriteString("\n")
	}

	help := "↑/↓ move cursor • space pick up/drop • shift+↑/↓ move one • drag with mouse • esc done"
	return strings.TrimSuffix(b.String(), "\n") + "\n" + m.footer(help)
}
