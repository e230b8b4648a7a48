package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/x/ansi"
)

// MaxScrollback is the default number of rows kept above the live screen.
const MaxScrollback = 10000

// WidthMethod selects how printable graphemes are measured.
type WidthMethod string

const (
	// WidthGrapheme measures whole grapheme clusters (uniseg).
	WidthGrapheme WidthMethod = "grapheme"
	// WidthWcwidth sums per-rune wcwidth values (go-runewidth).
	WidthWcwidth WidthMethod = "wcwidth"
)

// ParseWidthMethod maps a settings value to a WidthMethod, defaulting to grapheme.
func ParseWidthMethod(s string) WidthMethod {
	if WidthMethod(s) == WidthWcwidth {
		return WidthWcwidth
	}
	return WidthGrapheme
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithMaxRows caps the total number of rows (scrollback plus screen).
func WithMaxRows(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxRows = n
		}
	}
}

// WithScrollback caps the rows kept above the first minRows rows.
func WithScrollback(n int) Option {
	return func(b *Buffer) {
		if n >= 0 {
			b.maxRows = b.minRows + n
		}
	}
}

// WithWidthMethod sets the grapheme width method.
func WithWidthMethod(m WidthMethod) Option {
	return func(b *Buffer) {
		b.widthMethod = m
	}
}

// Buffer is a scrollback cell buffer that answers coordinate queries.
//
// Write, Reset and Resize take the write lock. Queries do not lock; callers
// that read while another goroutine may write hold LockForReading.
type Buffer struct {
	mu sync.RWMutex

	rows    []Row
	width   int
	minRows int
	maxRows int

	widthMethod WidthMethod

	// Write cursor
	cursorX, cursorY int
	style            Style

	// Decoder state carried across Write calls
	parser  *ansi.Parser
	state   byte
	pending []byte

	trimmed atomic.Uint64
}

// New creates a buffer that is width columns wide and starts with minRows
// blank rows.
func New(width, minRows int, opts ...Option) *Buffer {
	if width < 1 {
		width = 1
	}
	if minRows < 1 {
		minRows = 1
	}
	b := &Buffer{
		width:       width,
		minRows:     minRows,
		maxRows:     minRows + MaxScrollback,
		widthMethod: WidthGrapheme,
		parser:      ansi.GetParser(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxRows < b.minRows {
		b.maxRows = b.minRows
	}
	b.rows = b.makeRows(minRows)
	return b
}

func (b *Buffer) makeRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = MakeBlankRow(b.width)
	}
	return rows
}

// LockForReading takes the read lock and returns the matching unlock.
func (b *Buffer) LockForReading() func() {
	b.mu.RLock()
	return b.mu.RUnlock
}

// Size returns the bounds of every stored row.
func (b *Buffer) Size() Bounds {
	return NewBounds(0, 0, b.width, len(b.rows))
}

// Width returns the column count.
func (b *Buffer) Width() int {
	return b.width
}

// RowCount returns the number of stored rows.
func (b *Buffer) RowCount() int {
	return len(b.rows)
}

// Row returns a copy of row y.
func (b *Buffer) Row(y int) (Row, bool) {
	if y < 0 || y >= len(b.rows) {
		return Row{}, false
	}
	return b.rows[y].Copy(), true
}

// CellAt returns the cell at p, or a blank cell outside the buffer.
func (b *Buffer) CellAt(p Point) Cell {
	if p.Y < 0 || p.Y >= len(b.rows) {
		return DefaultCell()
	}
	cells := b.rows[p.Y].Cells
	if p.X < 0 || p.X >= len(cells) {
		return DefaultCell()
	}
	return cells[p.X]
}

// Trimmed returns how many rows have been dropped from the top of the
// scrollback since the buffer was created.
func (b *Buffer) Trimmed() uint64 {
	return b.trimmed.Load()
}

// Cursor returns the write cursor position.
func (b *Buffer) Cursor() Point {
	return Point{X: b.cursorX, Y: b.cursorY}
}

// Reset drops all content. Dropped rows count as trimmed.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trimmed.Add(uint64(len(b.rows)))
	b.rows = b.makeRows(b.minRows)
	b.cursorX, b.cursorY = 0, 0
	b.style = Style{}
	b.parser.Reset()
	b.state = ansi.NormalState
	b.pending = nil
}

// Resize changes the width and the minimum row count. Rows are padded or
// truncated; wrapped rows are not reflowed. Shrinking drops untouched rows
// below the cursor so written content does not scroll out of the screen.
func (b *Buffer) Resize(width, minRows int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width < 1 {
		width = 1
	}
	if minRows < 1 {
		minRows = 1
	}
	if width != b.width {
		for i := range b.rows {
			b.rows[i].resize(width)
		}
		b.width = width
	}
	b.maxRows += minRows - b.minRows
	b.minRows = minRows
	for len(b.rows) > minRows && len(b.rows)-1 > b.cursorY && b.rows[len(b.rows)-1].isUntouched() {
		b.rows = b.rows[:len(b.rows)-1]
	}
	for len(b.rows) < minRows {
		b.rows = append(b.rows, MakeBlankRow(b.width))
	}
	if b.cursorX > b.width {
		b.cursorX = b.width
	}
}

// trimScrollback keeps the row count under maxRows
func (b *Buffer) trimScrollback() {
	if len(b.rows) <= b.maxRows {
		return
	}
	trim := len(b.rows) - b.maxRows
	b.rows = b.rows[trim:]
	b.cursorY -= trim
	if b.cursorY < 0 {
		b.cursorY = 0
	}
	b.trimmed.Add(uint64(trim))
}
