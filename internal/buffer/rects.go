package buffer

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned for coordinates that no longer address a cell,
// for example after scrollback rows were dropped.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// TextRects returns one rectangle per row covering the text between start
// and end, in either order. Block selections use the same column range on
// every row. Every rectangle is widened to whole glyphs. With trimTrailing
// each rectangle ends at the last non-blank cell of its row.
func (b *Buffer) TextRects(start, end Point, block, trimTrailing bool) ([]Rect, error) {
	size := b.Size()
	if !size.IsInBounds(start) {
		return nil, fmt.Errorf("text rects start %s: %w", start, ErrOutOfBounds)
	}
	if !size.IsInBounds(end) {
		return nil, fmt.Errorf("text rects end %s: %w", end, ErrOutOfBounds)
	}

	higher, lower := start, end
	if size.CompareInBounds(start, end) > 0 {
		higher, lower = end, start
	}

	rects := make([]Rect, 0, lower.Y-higher.Y+1)
	for y := higher.Y; y <= lower.Y; y++ {
		r := Rect{Top: y, Bottom: y}
		if block || higher.Y == lower.Y {
			r.Left = min(higher.X, lower.X)
			r.Right = max(higher.X, lower.X)
		} else {
			r.Left = size.Left()
			if y == higher.Y {
				r.Left = higher.X
			}
			r.Right = size.RightInclusive()
			if y == lower.Y {
				r.Right = lower.X
			}
		}
		r = b.expandToGlyphs(r)
		if trimTrailing {
			r = b.trimRect(r)
		}
		rects = append(rects, r)
	}
	return rects, nil
}

func (b *Buffer) expandToGlyphs(r Rect) Rect {
	r.Left = b.GlyphStart(Point{X: r.Left, Y: r.Top}).X
	r.Right = b.GlyphEnd(Point{X: r.Right, Y: r.Top}).X
	return r
}

// trimRect pulls the right edge in to the last non-blank cell of the row.
func (b *Buffer) trimRect(r Rect) Rect {
	for r.Right > r.Left && b.CellAt(Point{X: r.Right, Y: r.Top}).IsBlank() {
		r.Right--
	}
	return b.expandToGlyphs(r)
}
