package buffer

// Color represents a terminal color
type Color struct {
	Type  ColorType
	Value uint32 // Indexed: 0-255, RGB: 0xRRGGBB
}

type ColorType uint8

const (
	ColorDefault ColorType = iota
	ColorIndexed
	ColorRGB
)

// Style holds text styling attributes
type Style struct {
	Fg        Color
	Bg        Color
	Bold      bool
	Dim       bool
	Italic    bool
	Underline bool
	Blink     bool
	Reverse   bool
	Hidden    bool
	Strike    bool
}

// Cell is one column of a row. Content holds a whole grapheme cluster.
type Cell struct {
	Content string
	Style   Style
	Width   int // 1 normal, 2 leading half of a wide glyph, 0 trailing half
}

// DefaultCell returns a blank cell
func DefaultCell() Cell {
	return Cell{Content: " ", Width: 1}
}

// IsBlank reports whether the cell renders as a plain space.
func (c Cell) IsBlank() bool {
	return c.Width != 0 && (c.Content == "" || c.Content == " ")
}

// Row is one line of the buffer.
type Row struct {
	Cells []Cell
	// Wrapped is set when output ran past the right margin and continued on
	// the next row.
	Wrapped bool
}

// MakeBlankRow creates a row of default cells.
func MakeBlankRow(width int) Row {
	cells := make([]Cell, width)
	for i := range cells {
		cells[i] = DefaultCell()
	}
	return Row{Cells: cells}
}

// Copy deep copies a row
func (r Row) Copy() Row {
	dst := make([]Cell, len(r.Cells))
	copy(dst, r.Cells)
	return Row{Cells: dst, Wrapped: r.Wrapped}
}

// isUntouched reports whether every cell is a default blank.
func (r Row) isUntouched() bool {
	if r.Wrapped {
		return false
	}
	for _, c := range r.Cells {
		if c != DefaultCell() {
			return false
		}
	}
	return true
}

// resize pads or truncates the row to width. A wide glyph cut in half by the
// new margin is replaced with a blank.
func (r *Row) resize(width int) {
	switch {
	case len(r.Cells) > width:
		r.Cells = r.Cells[:width]
		if width > 0 && r.Cells[width-1].Width == 2 {
			r.Cells[width-1] = DefaultCell()
		}
	case len(r.Cells) < width:
		for len(r.Cells) < width {
			r.Cells = append(r.Cells, DefaultCell())
		}
	}
}
