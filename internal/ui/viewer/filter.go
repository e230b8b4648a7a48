package viewer

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

const mouseThrottle = 15 * time.Millisecond

// MouseFilter drops redundant mouse traffic before it reaches the model.
// Motion to a new cell always passes; repeated motion in the same cell and
// wheel bursts are throttled independently.
type MouseFilter struct {
	now func() time.Time

	lastMotion time.Time
	lastWheel  time.Time
	lastX      int
	lastY      int
}

// NewMouseFilter returns a filter for use with tea.WithFilter.
func NewMouseFilter() *MouseFilter {
	return &MouseFilter{now: time.Now, lastX: -1, lastY: -1}
}

// Filter implements the tea.WithFilter callback.
func (f *MouseFilter) Filter(_ tea.Model, msg tea.Msg) tea.Msg {
	switch msg := msg.(type) {
	case tea.MouseMotionMsg:
		now := f.now()
		if msg.X != f.lastX || msg.Y != f.lastY {
			f.lastX, f.lastY = msg.X, msg.Y
			f.lastMotion = now
			return msg
		}
		if now.Sub(f.lastMotion) < mouseThrottle {
			return nil
		}
		f.lastMotion = now
	case tea.MouseWheelMsg:
		now := f.now()
		if now.Sub(f.lastWheel) < mouseThrottle {
			return nil
		}
		f.lastWheel = now
	}
	return msg
}
