package selection

import (
	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/logging"
)

// Engine tracks one terminal's selection. It is not safe for concurrent use;
// callers serialize access together with writes to the buffer.
type Engine struct {
	buf  Buffer
	view Viewport

	anchors *Anchors
	mode    Expansion
	block   bool

	trimBlock  bool
	delimiters string
	colors     buffer.ColorResolver
}

// Option configures an Engine.
type Option func(*Engine)

// WithWordDelimiters sets the characters that separate words.
func WithWordDelimiters(delimiters string) Option {
	return func(e *Engine) {
		e.delimiters = delimiters
	}
}

// WithTrimBlockSelection trims trailing whitespace from block selections.
func WithTrimBlockSelection(trim bool) Option {
	return func(e *Engine) {
		e.trimBlock = trim
	}
}

// WithColorResolver sets the resolver used to attribute extracted text.
func WithColorResolver(colors buffer.ColorResolver) Option {
	return func(e *Engine) {
		e.colors = colors
	}
}

// New creates an engine over buf, scrolled by view.
func New(buf Buffer, view Viewport, opts ...Option) *Engine {
	e := &Engine{
		buf:        buf,
		view:       view,
		delimiters: buffer.DefaultWordDelimiters,
		colors:     buffer.DefaultPalette().Colors,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetSelectionAnchor starts a cell selection at a viewport position.
func (e *Engine) SetSelectionAnchor(viewportPos buffer.Point) {
	e.begin(viewportPos, ExpandCell)
}

// MultiClickSelection starts a selection at a viewport position expanded by
// mode, which stays active while the selection is extended.
func (e *Engine) MultiClickSelection(viewportPos buffer.Point, mode Expansion) {
	e.begin(viewportPos, mode)
}

func (e *Engine) begin(viewportPos buffer.Point, mode Expansion) {
	pivot := e.toBufferCell(viewportPos)
	e.anchors = &Anchors{Start: pivot, End: pivot, Pivot: pivot}
	e.mode = mode
	e.SetSelectionEnd(viewportPos, nil)
	// Later shift-clicks extend from the expanded start, not the raw click.
	e.anchors.Pivot = e.anchors.Start
}

// SetSelectionEnd extends the selection to a viewport position. A non-nil
// override replaces the active expansion mode and marks the call as a
// shift-click: only the side the target lands on is expanded and the other
// side returns to the pivot.
func (e *Engine) SetSelectionEnd(viewportPos buffer.Point, override *Expansion) {
	if e.anchors == nil {
		logging.Warn("%s", logging.Fields("op", "SetSelectionEnd", "err", ErrIllegalStateChange))
		return
	}

	target := e.toBufferCell(viewportPos)
	if override != nil {
		e.mode = *override
	}

	pivoted := pivotSelection(e.buf.Size(), target, e.anchors.Pivot)
	expanded := e.expand(anchorPair{start: pivoted.start, end: pivoted.end})

	if override == nil {
		e.anchors.Start = expanded.start
		e.anchors.End = expanded.end
		return
	}
	if pivoted.targetIsStart {
		e.anchors.Start = expanded.start
		e.anchors.End = e.anchors.Pivot
	} else {
		e.anchors.Start = e.anchors.Pivot
		e.anchors.End = expanded.end
	}
}

// pivotSelection orders target and pivot. A target at or before the pivot
// becomes the start.
func pivotSelection(size buffer.Bounds, target, pivot buffer.Point) pivotResult {
	if size.CompareInBounds(target, pivot) <= 0 {
		return pivotResult{start: target, end: pivot, targetIsStart: true}
	}
	return pivotResult{start: pivot, end: target}
}

func (e *Engine) expand(pair anchorPair) anchorPair {
	switch e.mode {
	case ExpandLine:
		size := e.buf.Size()
		pair.start.X = size.Left()
		pair.end.X = size.RightInclusive()
	case ExpandWord:
		pair.start = e.buf.WordStart(pair.start, e.delimiters)
		pair.end = e.buf.WordEnd(pair.end, e.delimiters)
	}
	return pair
}

// toBufferCell converts a viewport position to a clamped buffer position.
func (e *Engine) toBufferCell(viewportPos buffer.Point) buffer.Point {
	top := e.view.VisibleViewport().Top()
	return e.buf.Size().Clamp(buffer.Point{X: viewportPos.X, Y: top + viewportPos.Y})
}

// SelectAll selects every cell of the buffer, anchored at the bottom-right.
func (e *Engine) SelectAll() {
	size := e.buf.Size()
	e.anchors = &Anchors{Start: size.Origin(), End: size.BottomRight(), Pivot: size.BottomRight()}
	e.mode = ExpandCell
}

// ClearSelection drops the selection.
func (e *Engine) ClearSelection() {
	e.anchors = nil
}

// SetBlockSelection switches between rectangular and running selections.
func (e *Engine) SetBlockSelection(enabled bool) {
	e.block = enabled
}

// IsSelectionActive reports whether a selection exists.
func (e *Engine) IsSelectionActive() bool {
	return e.anchors != nil
}

// IsBlockSelection reports whether selections are rectangular.
func (e *Engine) IsBlockSelection() bool {
	return e.block
}

// Anchors returns a copy of the active selection.
func (e *Engine) Anchors() (Anchors, bool) {
	if e.anchors == nil {
		return Anchors{}, false
	}
	return *e.anchors, true
}

// SelectionAnchor returns the selection start, or the zero point when no
// selection is active.
func (e *Engine) SelectionAnchor() buffer.Point {
	if e.anchors == nil {
		return buffer.Point{}
	}
	return e.anchors.Start
}

// SelectionEnd returns the selection end, or the zero point when no
// selection is active.
func (e *Engine) SelectionEnd() buffer.Point {
	if e.anchors == nil {
		return buffer.Point{}
	}
	return e.anchors.End
}

// SelectionStartForRendering returns the cell before the start.
func (e *Engine) SelectionStartForRendering() buffer.Point {
	if e.anchors == nil {
		return buffer.Point{}
	}
	p, _ := e.buf.Size().DecrementInBounds(e.anchors.Start)
	return p
}

// SelectionEndForRendering returns the cell after the end.
func (e *Engine) SelectionEndForRendering() buffer.Point {
	if e.anchors == nil {
		return buffer.Point{}
	}
	p, _ := e.buf.Size().IncrementInBounds(e.anchors.End)
	return p
}

// MovingStart reports whether keyboard movement moves the start anchor.
func (e *Engine) MovingStart() bool {
	if e.anchors == nil {
		return false
	}
	return e.anchors.Start != e.anchors.Pivot
}

// ExpansionMode returns the mode used when the selection is extended.
func (e *Engine) ExpansionMode() Expansion {
	return e.mode
}

// IsInSelection reports whether p lies inside the selection.
func (e *Engine) IsInSelection(p buffer.Point) bool {
	if e.anchors == nil {
		return false
	}
	start, end := e.anchors.Start, e.anchors.End
	if p.Y < start.Y || p.Y > end.Y {
		return false
	}
	if e.block || start.Y == end.Y {
		return p.X >= min(start.X, end.X) && p.X <= max(start.X, end.X)
	}
	if p.Y == start.Y {
		return p.X >= start.X
	}
	if p.Y == end.Y {
		return p.X <= end.X
	}
	return true
}

// ShiftRows moves the selection up by n rows after n rows were dropped from
// the top of the buffer. A selection whose rows are all gone is cleared; a
// partly dropped one is clamped to the buffer origin.
func (e *Engine) ShiftRows(n int) {
	if e.anchors == nil || n <= 0 {
		return
	}
	a := e.anchors
	a.Start.Y -= n
	a.End.Y -= n
	a.Pivot.Y -= n
	if a.End.Y < 0 {
		e.anchors = nil
		return
	}
	if a.Start.Y < 0 {
		a.Start = buffer.Point{}
	}
	if a.Pivot.Y < 0 {
		a.Pivot = a.Start
	}
}

// SetWordDelimiters replaces the word delimiter set.
func (e *Engine) SetWordDelimiters(delimiters string) {
	e.delimiters = delimiters
}

// WordDelimiters returns the word delimiter set.
func (e *Engine) WordDelimiters() string {
	return e.delimiters
}

// SetTrimBlockSelection sets whether block selections drop trailing spaces
// when extracted.
func (e *Engine) SetTrimBlockSelection(trim bool) {
	e.trimBlock = trim
}

// SetColorResolver replaces the resolver used for extracted text. nil
// extracts text without colors.
func (e *Engine) SetColorResolver(colors buffer.ColorResolver) {
	e.colors = colors
}
