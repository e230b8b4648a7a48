package common

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// SelectionScrollTickInterval is the interval between auto-scroll ticks
// during mouse-drag selection past viewport edges.
const SelectionScrollTickInterval = 100 * time.Millisecond

// SelectionScrollTick asks the owner to scroll one step and re-extend the
// selection at the last pointer column.
type SelectionScrollTick struct {
	Gen uint64
}

// SelectionScrollState is the state machine for tick-based auto-scrolling
// while a mouse drag sits past the top or bottom edge of the view.
type SelectionScrollState struct {
	// Gen is a generation counter used to invalidate stale tick loops.
	Gen uint64
	// ScrollDir is +1 (scroll up into history) or -1 (scroll down toward
	// live output) or 0 (no auto-scroll).
	ScrollDir int
	// Active is true when a tick loop is currently running.
	Active bool
	// LastX is the pointer column of the most recent drag event.
	LastX int
}

// SetDirection updates ScrollDir based on the unclamped screen Y
// coordinate. Call this before clamping y to [0, height).
func (s *SelectionScrollState) SetDirection(y, height int) {
	switch {
	case y < 0:
		s.ScrollDir = 1
	case y >= height:
		s.ScrollDir = -1
	default:
		s.ScrollDir = 0
	}
}

// NeedsTick returns (true, gen) when a new tick loop should be started.
// It bumps the generation counter and marks the state active. If a tick
// loop is already running or scrolling is not needed, it returns (false, 0).
func (s *SelectionScrollState) NeedsTick() (bool, uint64) {
	if s.ScrollDir != 0 && !s.Active {
		s.Active = true
		s.Gen++
		return true, s.Gen
	}
	return false, 0
}

// HandleTick reports whether a tick with the given generation should
// scroll and schedule the next one. A stale or idle tick stops the loop.
func (s *SelectionScrollState) HandleTick(gen uint64) bool {
	if s.Gen != gen || s.ScrollDir == 0 || !s.Active {
		s.Active = false
		return false
	}
	return true
}

// Reset clears the scroll state and bumps the generation counter to
// invalidate any in-flight tick.
func (s *SelectionScrollState) Reset() {
	s.ScrollDir = 0
	s.Active = false
	s.Gen++
}

// TickCmd schedules the next auto-scroll tick for gen.
func TickCmd(gen uint64) tea.Cmd {
	return tea.Tick(SelectionScrollTickInterval, func(time.Time) tea.Msg {
		return SelectionScrollTick{Gen: gen}
	})
}
