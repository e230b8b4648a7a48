package buffer

import "fmt"

// Point is an absolute cell position in the buffer.
// Y is the row index (0 = oldest scrollback row), X the column.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect is a rectangle of cells with inclusive edges.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Bounds describes the valid cell area of a buffer or a window onto it.
// All edges are inclusive.
type Bounds struct {
	left, top, right, bottom int
}

// NewBounds creates bounds for a width x height area whose top-left cell is at (left, top).
func NewBounds(left, top, width, height int) Bounds {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return Bounds{
		left:   left,
		top:    top,
		right:  left + width - 1,
		bottom: top + height - 1,
	}
}

func (b Bounds) Left() int            { return b.left }
func (b Bounds) Top() int             { return b.top }
func (b Bounds) RightInclusive() int  { return b.right }
func (b Bounds) BottomInclusive() int { return b.bottom }
func (b Bounds) Width() int           { return b.right - b.left + 1 }
func (b Bounds) Height() int          { return b.bottom - b.top + 1 }

// Origin returns the top-left cell.
func (b Bounds) Origin() Point {
	return Point{X: b.left, Y: b.top}
}

// BottomRight returns the last cell.
func (b Bounds) BottomRight() Point {
	return Point{X: b.right, Y: b.bottom}
}

// Rect returns the bounds as an inclusive rectangle.
func (b Bounds) Rect() Rect {
	return Rect{Left: b.left, Top: b.top, Right: b.right, Bottom: b.bottom}
}

// IsInBounds reports whether p is a valid cell.
func (b Bounds) IsInBounds(p Point) bool {
	return p.X >= b.left && p.X <= b.right && p.Y >= b.top && p.Y <= b.bottom
}

// Clamp projects p onto the nearest valid cell.
func (b Bounds) Clamp(p Point) Point {
	return Point{
		X: clamp(p.X, b.left, b.right),
		Y: clamp(p.Y, b.top, b.bottom),
	}
}

// CompareInBounds orders two points row-major. The result is negative when
// a comes before b, zero when they are equal and positive otherwise. Its
// magnitude is the number of cells between them.
func (b Bounds) CompareInBounds(a, c Point) int {
	return (a.Y-c.Y)*b.Width() + (a.X - c.X)
}

// IncrementInBounds moves p one cell forward, wrapping to the start of the
// next row. At the last cell p is returned unchanged with false.
func (b Bounds) IncrementInBounds(p Point) (Point, bool) {
	if p.X < b.right {
		return Point{X: p.X + 1, Y: p.Y}, true
	}
	if p.Y < b.bottom {
		return Point{X: b.left, Y: p.Y + 1}, true
	}
	return p, false
}

// DecrementInBounds moves p one cell backward, wrapping to the end of the
// previous row. At the origin p is returned unchanged with false.
func (b Bounds) DecrementInBounds(p Point) (Point, bool) {
	if p.X > b.left {
		return Point{X: p.X - 1, Y: p.Y}, true
	}
	if p.Y > b.top {
		return Point{X: b.right, Y: p.Y - 1}, true
	}
	return p, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
