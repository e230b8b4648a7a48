package vterm

import (
	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/perf"
	"github.com/andyrewlee/termsel/internal/selection"
)

// Selection points below are screen-relative: x is a column and y a screen
// row between 0 and Height-1.

// SetSelectionAnchor starts a cell selection at (x, y).
func (v *VTerm) SetSelectionAnchor(x, y int) {
	v.mutateSelection(func(e *selection.Engine) {
		e.SetSelectionAnchor(buffer.Point{X: x, Y: y})
	})
}

// MultiClickSelection starts a word or line selection at (x, y).
func (v *VTerm) MultiClickSelection(x, y int, mode selection.Expansion) {
	v.mutateSelection(func(e *selection.Engine) {
		e.MultiClickSelection(buffer.Point{X: x, Y: y}, mode)
	})
}

// SetSelectionEnd drags the selection to (x, y). A non-nil override makes it
// a shift-click with that expansion mode.
func (v *VTerm) SetSelectionEnd(x, y int, override *selection.Expansion) {
	v.mutateSelection(func(e *selection.Engine) {
		e.SetSelectionEnd(buffer.Point{X: x, Y: y}, override)
	})
}

// UpdateSelection moves the free end of the selection, scrolling if needed.
func (v *VTerm) UpdateSelection(dir selection.Direction, mode selection.Expansion) {
	v.mutateSelection(func(e *selection.Engine) {
		e.UpdateSelection(dir, mode)
	})
}

// SelectAll selects the whole buffer.
func (v *VTerm) SelectAll() {
	v.mutateSelection((*selection.Engine).SelectAll)
}

// ClearSelection clears the current selection
func (v *VTerm) ClearSelection() {
	v.mutateSelection((*selection.Engine).ClearSelection)
}

// SetBlockSelection toggles rectangular selection.
func (v *VTerm) SetBlockSelection(enabled bool) {
	v.mutateSelection(func(e *selection.Engine) {
		e.SetBlockSelection(enabled)
	})
}

func (v *VTerm) mutateSelection(fn func(*selection.Engine)) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.reconcileTrim()
	before, hadBefore := v.sel.Anchors()
	blockBefore := v.sel.IsBlockSelection()
	fn(v.sel)
	after, hasAfter := v.sel.Anchors()
	if before != after || hadBefore != hasAfter || blockBefore != v.sel.IsBlockSelection() {
		v.bumpVersion()
	}
}

// HasSelection returns true if there is an active selection.
func (v *VTerm) HasSelection() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reconcileTrim()
	return v.sel.IsSelectionActive()
}

// IsBlockSelection reports whether selections are rectangular.
func (v *VTerm) IsBlockSelection() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.IsBlockSelection()
}

// SelectionAnchors returns the selection in absolute buffer coordinates.
func (v *VTerm) SelectionAnchors() (selection.Anchors, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reconcileTrim()
	return v.sel.Anchors()
}

// MovingStart reports whether keyboard movement moves the selection start.
func (v *VTerm) MovingStart() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.MovingStart()
}

// ExpansionMode returns the mode drags currently expand by.
func (v *VTerm) ExpansionMode() selection.Expansion {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.ExpansionMode()
}

// IsInSelection checks if coordinate (x, screenY) is within the selection.
func (v *VTerm) IsInSelection(x, screenY int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reconcileTrim()
	return v.sel.IsInSelection(buffer.Point{X: x, Y: v.visibleTop() + screenY})
}

// SelectedText extracts the selection. singleLine collapses a running
// selection onto one line.
func (v *VTerm) SelectedText(singleLine bool) buffer.TextAndColor {
	defer perf.Time("vterm_selected_text")()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.reconcileTrim()
	return v.sel.RetrieveSelectedText(singleLine)
}

// SetWordDelimiters replaces the characters that separate words.
func (v *VTerm) SetWordDelimiters(delimiters string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.SetWordDelimiters(delimiters)
}

// SetTrimBlockSelection sets whether copied block selections drop trailing
// spaces.
func (v *VTerm) SetTrimBlockSelection(trim bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.SetTrimBlockSelection(trim)
}

// SetPalette sets the colors attributed to extracted text.
func (v *VTerm) SetPalette(p buffer.Palette) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.SetColorResolver(p.Colors)
}
