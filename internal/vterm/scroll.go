package vterm

import "github.com/andyrewlee/termsel/internal/buffer"

// scrollState lets the selection engine scroll the view while the VTerm
// lock is already held.
type scrollState struct {
	v *VTerm
}

func (s scrollState) VisibleViewport() buffer.Bounds {
	return s.v.visibleViewport()
}

func (s scrollState) ScrollView(delta int) {
	s.v.scrollView(delta)
}

// ScreenYToAbsoluteLine converts a screen row to an absolute line number.
// Absolute line 0 is the oldest row kept in scrollback.
func (v *VTerm) ScreenYToAbsoluteLine(screenY int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visibleTop() + screenY
}

// AbsoluteLineToScreenY converts an absolute line number to a screen Y
// coordinate. Returns -1 if the line is not currently visible.
func (v *VTerm) AbsoluteLineToScreenY(absLine int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	screenY := absLine - v.visibleTop()
	if screenY < 0 || screenY >= v.Height {
		return -1
	}
	return screenY
}

// VisibleViewport returns the absolute rows currently on screen.
func (v *VTerm) VisibleViewport() buffer.Bounds {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visibleViewport()
}

func (v *VTerm) visibleViewport() buffer.Bounds {
	return buffer.NewBounds(0, v.visibleTop(), v.buf.Width(), v.Height)
}

// visibleTop is the absolute row shown on the first screen line.
func (v *VTerm) visibleTop() int {
	return max(v.buf.RowCount()-v.Height-v.ViewOffset, 0)
}

// ScrollView scrolls the view by delta lines (positive = up into history)
func (v *VTerm) ScrollView(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollView(delta)
}

func (v *VTerm) scrollView(delta int) {
	v.setOffset(v.ViewOffset + delta)
}

// ScrollViewTo sets absolute scroll position
func (v *VTerm) ScrollViewTo(offset int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setOffset(offset)
}

// ScrollViewToTop scrolls to oldest content
func (v *VTerm) ScrollViewToTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setOffset(v.maxViewOffset())
}

// ScrollViewToBottom returns to live view
func (v *VTerm) ScrollViewToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setOffset(0)
}

// ScrollToLine scrolls the view so the given absolute line is centered.
func (v *VTerm) ScrollToLine(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setOffset(v.buf.RowCount() - line - v.Height/2)
}

func (v *VTerm) setOffset(offset int) {
	old := v.ViewOffset
	v.ViewOffset = offset
	v.clampOffset()
	if v.ViewOffset != old {
		v.bumpVersion()
	}
}

func (v *VTerm) clampOffset() {
	v.ViewOffset = min(max(v.ViewOffset, 0), v.maxViewOffset())
}

func (v *VTerm) maxViewOffset() int {
	return max(v.buf.RowCount()-v.Height, 0)
}

// IsScrolled returns true if viewing scrollback
func (v *VTerm) IsScrolled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ViewOffset > 0
}

// GetScrollInfo returns (current offset, max offset)
func (v *VTerm) GetScrollInfo() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ViewOffset, v.maxViewOffset()
}

// VisibleLineRange returns the [start, end) absolute lines currently visible,
// along with total lines.
func (v *VTerm) VisibleLineRange() (start, end, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	total = v.buf.RowCount()
	start = v.visibleTop()
	end = min(start+v.Height, total)
	return start, end, total
}

// CursorScreenPos returns the write cursor in screen coordinates and whether
// it is on screen.
func (v *VTerm) CursorScreenPos() (x, y int, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c := v.buf.Cursor()
	y = c.Y - v.visibleTop()
	return c.X, y, y >= 0 && y < v.Height
}
