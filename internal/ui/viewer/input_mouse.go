package viewer

import (
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/termsel/internal/selection"
	"github.com/andyrewlee/termsel/internal/ui/common"
)

func clickExpansion(count int) selection.Expansion {
	switch count {
	case 2:
		return selection.ExpandWord
	case 3:
		return selection.ExpandLine
	default:
		return selection.ExpandCell
	}
}

// handleMouseClick begins or extends a selection. Shift extends the current
// one, alt makes it a block selection, and repeated clicks pick word or line
// granularity.
func (m *Model) handleMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	if msg.Button != tea.MouseLeft {
		return nil
	}
	x, y := m.clampToTerm(msg.X, msg.Y)
	if msg.Y >= m.termHeight() {
		return nil
	}

	count := m.clicks.Press(m.now(), x, y, int(msg.Button))
	mode := clickExpansion(count)
	m.scroll.Reset()
	m.dragging = true
	m.pending = nil

	if msg.Mod&tea.ModShift != 0 && m.term.HasSelection() {
		m.term.SetSelectionEnd(x, y, &mode)
		return nil
	}

	m.term.SetBlockSelection(msg.Mod&tea.ModAlt != 0)
	if mode == selection.ExpandCell {
		m.term.ClearSelection()
		m.pending = &pendingPress{x: x, y: y}
		return nil
	}
	m.term.MultiClickSelection(x, y, mode)
	return nil
}

func (m *Model) handleMouseMotion(msg tea.MouseMotionMsg) tea.Cmd {
	if !m.dragging || msg.Button != tea.MouseLeft {
		return nil
	}
	height := m.termHeight()

	// Direction comes from the unclamped row.
	m.scroll.SetDirection(msg.Y, height)
	x, y := m.clampToTerm(msg.X, msg.Y)
	if msg.Y < 0 {
		m.term.ScrollView(1)
	} else if msg.Y >= height {
		m.term.ScrollView(-1)
	}

	if m.pending != nil {
		if x == m.pending.x && y == m.pending.y {
			return nil
		}
		m.term.SetSelectionAnchor(m.pending.x, m.pending.y)
		m.pending = nil
	}
	m.term.SetSelectionEnd(x, y, nil)
	m.scroll.LastX = x

	if needTick, gen := m.scroll.NeedsTick(); needTick {
		return common.TickCmd(gen)
	}
	return nil
}

func (m *Model) handleMouseRelease(msg tea.MouseReleaseMsg) tea.Cmd {
	if !m.dragging {
		return nil
	}
	m.dragging = false
	m.pending = nil
	m.scroll.Reset()
	if m.settings.CopyOnSelect && m.term.HasSelection() {
		return m.copySelection(false)
	}
	return nil
}

func (m *Model) handleMouseWheel(msg tea.MouseWheelMsg) {
	switch msg.Button {
	case tea.MouseWheelUp:
		m.term.ScrollView(wheelStep)
	case tea.MouseWheelDown:
		m.term.ScrollView(-wheelStep)
	}
}

// handleScrollTick keeps scrolling while a drag rests past the view edge and
// drags the selection end along the edge row.
func (m *Model) handleScrollTick(msg common.SelectionScrollTick) tea.Cmd {
	if !m.dragging || !m.scroll.HandleTick(msg.Gen) {
		return nil
	}
	m.term.ScrollView(m.scroll.ScrollDir)
	edgeY := 0
	if m.scroll.ScrollDir < 0 {
		edgeY = m.termHeight() - 1
	}
	if m.term.HasSelection() {
		m.term.SetSelectionEnd(m.scroll.LastX, edgeY, nil)
	}
	return common.TickCmd(msg.Gen)
}

func (m *Model) clampToTerm(x, y int) (int, int) {
	width, height := m.term.Size()
	return min(max(x, 0), width-1), min(max(y, 0), height-1)
}
