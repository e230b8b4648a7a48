package buffer

import (
	"strings"
	"unicode/utf8"
)

// DefaultWordDelimiters separate words for double-click and word movement.
const DefaultWordDelimiters = " /\\()\"'-.,:;<>~!@#$%^&*|+=[]{}?│"

type delimiterClass uint8

const (
	classControl delimiterClass = iota
	classDelimiter
	classRegular
)

// delimiterClassAt classifies the glyph covering p. Blanks and control
// characters form their own class so runs of whitespace select as a unit.
func (b *Buffer) delimiterClassAt(p Point, delimiters string) delimiterClass {
	cell := b.CellAt(b.GlyphStart(p))
	r, _ := utf8.DecodeRuneInString(cell.Content)
	switch {
	case cell.Content == "" || r <= ' ':
		return classControl
	case strings.ContainsRune(delimiters, r):
		return classDelimiter
	default:
		return classRegular
	}
}

// WordStart returns the first cell of the word containing target. The
// search never leaves target's row.
func (b *Buffer) WordStart(target Point, delimiters string) Point {
	size := b.Size()
	result := size.Clamp(target)
	initial := b.delimiterClassAt(result, delimiters)
	for result.X > size.Left() && b.delimiterClassAt(result, delimiters) == initial {
		result, _ = size.DecrementInBounds(result)
	}
	if b.delimiterClassAt(result, delimiters) != initial {
		result, _ = size.IncrementInBounds(result)
	}
	return result
}

// WordEnd returns the last cell of the word containing target. The search
// never leaves target's row.
func (b *Buffer) WordEnd(target Point, delimiters string) Point {
	size := b.Size()
	result := size.Clamp(target)
	initial := b.delimiterClassAt(result, delimiters)
	for result.X < size.RightInclusive() && b.delimiterClassAt(result, delimiters) == initial {
		result, _ = size.IncrementInBounds(result)
	}
	if b.delimiterClassAt(result, delimiters) != initial {
		result, _ = size.DecrementInBounds(result)
	}
	return result
}

// GlyphStart moves p from the trailing half of a wide glyph to its leading half.
func (b *Buffer) GlyphStart(p Point) Point {
	if p.X > 0 && b.CellAt(p).Width == 0 {
		return Point{X: p.X - 1, Y: p.Y}
	}
	return p
}

// GlyphEnd moves p from the leading half of a wide glyph to its trailing half.
func (b *Buffer) GlyphEnd(p Point) Point {
	if p.X < b.width-1 && b.CellAt(p).Width == 2 {
		return Point{X: p.X + 1, Y: p.Y}
	}
	return p
}
