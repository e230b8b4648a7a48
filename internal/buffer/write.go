package buffer

import (
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const (
	tabWidth = 8

	// maxPendingSequence caps how much of an unfinished escape sequence is
	// held between writes.
	maxPendingSequence = 4096
)

// Write decodes terminal output into cells at the write cursor. Escape
// sequences other than SGR are consumed and ignored. An incomplete sequence
// or UTF-8 rune at the end of p is held until the next call. A sequence that
// stays open past maxPendingSequence bytes is dropped and what follows its
// introducer is written as text.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := p
	if len(b.pending) > 0 {
		data = append(b.pending, p...)
		b.pending = nil
	}
	for keep := incompleteTail(data); keep > 0; keep = incompleteTail(data) {
		start := len(data) - keep
		if keep <= maxPendingSequence || data[start] != ansi.ESC {
			b.pending = append([]byte(nil), data[start:]...)
			data = data[:start]
			break
		}
		// Abandon the unterminated sequence and keep its body as text.
		data = append(data[:start:start], data[start+min(keep, 2):]...)
	}

	input := string(data)
	for len(input) > 0 {
		seq, _, n, newState := ansi.DecodeSequence(input, b.state, b.parser)
		if n == 0 {
			break
		}
		b.state = newState
		input = input[n:]
		b.handleSequence(seq)
	}
	b.trimScrollback()
	return len(p), nil
}

// WriteString is Write for strings.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

func (b *Buffer) handleSequence(seq string) {
	switch {
	case seq == "":
		return
	case seq == "\n":
		b.lineFeed()
	case seq == "\r":
		b.cursorX = 0
	case seq == "\t":
		next := (b.cursorX/tabWidth + 1) * tabWidth
		if next > b.width-1 {
			next = b.width - 1
		}
		if next > b.cursorX {
			b.cursorX = next
		}
	case seq == "\b":
		if b.cursorX > 0 {
			b.cursorX--
		}
	case isCSI(seq):
		cmd := ansi.Cmd(b.parser.Command())
		if cmd.Final() == 'm' && cmd.Prefix() == 0 && cmd.Intermediate() == 0 {
			b.applySGR(b.parser.Params())
		}
	case seq[0] < 0x20 || seq[0] == 0x7f || seq[0] == ansi.ESC:
		// Other controls and escape sequences carry nothing to store.
	default:
		b.put(seq, b.graphemeWidth(seq))
	}
}

func isCSI(seq string) bool {
	if len(seq) >= 2 && seq[0] == ansi.ESC && seq[1] == '[' {
		return true
	}
	return len(seq) >= 2 && seq[0] == 0xc2 && seq[1] == 0x9b
}

func (b *Buffer) graphemeWidth(g string) int {
	if b.widthMethod == WidthWcwidth {
		return runewidth.StringWidth(g)
	}
	return uniseg.StringWidth(g)
}

// put stores one grapheme at the cursor, wrapping at the right margin.
func (b *Buffer) put(content string, width int) {
	if width <= 0 {
		b.appendZeroWidth(content)
		return
	}
	if width > 2 {
		width = 2
	}
	if width > b.width {
		// A wide glyph cannot fit in a one-column buffer.
		content, width = " ", 1
	}

	if b.cursorX+width > b.width {
		row := &b.rows[b.cursorY]
		for x := b.cursorX; x < b.width; x++ {
			b.clearWide(b.cursorY, x)
			row.Cells[x] = Cell{Content: " ", Style: b.style, Width: 1}
		}
		row.Wrapped = true
		b.lineFeed()
	}

	y, x := b.cursorY, b.cursorX
	b.clearWide(y, x)
	if width == 2 {
		b.clearWide(y, x+1)
	}
	cells := b.rows[y].Cells
	cells[x] = Cell{Content: content, Style: b.style, Width: width}
	if width == 2 {
		cells[x+1] = Cell{Style: b.style, Width: 0}
	}
	b.cursorX += width
}

// appendZeroWidth attaches combining marks to the previous cell.
func (b *Buffer) appendZeroWidth(content string) {
	y, x := b.cursorY, b.cursorX-1
	if x < 0 {
		return
	}
	cells := b.rows[y].Cells
	if cells[x].Width == 0 && x > 0 {
		x--
	}
	cells[x].Content += content
}

// clearWide blanks the other half of a wide glyph that overlaps (y, x).
func (b *Buffer) clearWide(y, x int) {
	cells := b.rows[y].Cells
	if x < 0 || x >= len(cells) {
		return
	}
	switch cells[x].Width {
	case 0:
		if x > 0 {
			cells[x-1] = DefaultCell()
		}
	case 2:
		if x+1 < len(cells) {
			cells[x+1] = DefaultCell()
		}
	}
	cells[x] = DefaultCell()
}

func (b *Buffer) lineFeed() {
	b.cursorX = 0
	b.cursorY++
	if b.cursorY >= len(b.rows) {
		b.rows = append(b.rows, MakeBlankRow(b.width))
	}
	b.trimScrollback()
}

func (b *Buffer) applySGR(params ansi.Params) {
	if len(params) == 0 {
		b.style = Style{}
		return
	}

	for i := 0; i < len(params); i++ {
		param, _, _ := params.Param(i, 0)
		switch param {
		case 0:
			b.style = Style{}
		case 1:
			b.style.Bold = true
		case 2:
			b.style.Dim = true
		case 3:
			b.style.Italic = true
		case 4:
			b.style.Underline = true
		case 5, 6:
			b.style.Blink = true
		case 7:
			b.style.Reverse = true
		case 8:
			b.style.Hidden = true
		case 9:
			b.style.Strike = true
		case 21, 22:
			b.style.Bold = false
			b.style.Dim = false
		case 23:
			b.style.Italic = false
		case 24:
			b.style.Underline = false
		case 25:
			b.style.Blink = false
		case 27:
			b.style.Reverse = false
		case 28:
			b.style.Hidden = false
		case 29:
			b.style.Strike = false
		case 30, 31, 32, 33, 34, 35, 36, 37:
			b.style.Fg = Color{Type: ColorIndexed, Value: uint32(param - 30)}
		case 38:
			i = extendedColor(params, i, &b.style.Fg)
		case 39:
			b.style.Fg = Color{}
		case 40, 41, 42, 43, 44, 45, 46, 47:
			b.style.Bg = Color{Type: ColorIndexed, Value: uint32(param - 40)}
		case 48:
			i = extendedColor(params, i, &b.style.Bg)
		case 49:
			b.style.Bg = Color{}
		case 90, 91, 92, 93, 94, 95, 96, 97:
			b.style.Fg = Color{Type: ColorIndexed, Value: uint32(param - 90 + 8)}
		case 100, 101, 102, 103, 104, 105, 106, 107:
			b.style.Bg = Color{Type: ColorIndexed, Value: uint32(param - 100 + 8)}
		}
	}
}

// extendedColor parses 38/48 color forms starting at params[i] and returns
// the index of the last parameter consumed.
func extendedColor(params ansi.Params, i int, color *Color) int {
	if i+1 >= len(params) {
		return i
	}
	kind, _, _ := params.Param(i+1, 0)
	switch kind {
	case 2:
		if i+4 < len(params) {
			r, _, _ := params.Param(i+2, 0)
			g, _, _ := params.Param(i+3, 0)
			bl, _, _ := params.Param(i+4, 0)
			color.Type = ColorRGB
			color.Value = uint32(r&0xff)<<16 | uint32(g&0xff)<<8 | uint32(bl&0xff)
			return i + 4
		}
	case 5:
		if i+2 < len(params) {
			idx, _, _ := params.Param(i+2, 0)
			color.Type = ColorIndexed
			color.Value = uint32(idx & 0xff)
			return i + 2
		}
	}
	return i + 1
}

// incompleteTail returns how many trailing bytes of data form an unfinished
// escape sequence or UTF-8 rune.
func incompleteTail(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	// Unfinished multi-byte rune.
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if !utf8.FullRune(data[i:]) {
				return len(data) - i
			}
			break
		}
	}

	esc := -1
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] == ansi.ESC {
			esc = i
			break
		}
	}
	if esc < 0 {
		return 0
	}
	tail := data[esc:]
	if len(tail) == 1 {
		return len(tail)
	}
	switch tail[1] {
	case '[':
		for _, c := range tail[2:] {
			if c >= 0x40 && c <= 0x7e {
				return 0
			}
		}
		return len(tail)
	case ']', 'P', '_', '^', 'X':
		// The last ESC opens the string, so only BEL can have ended it.
		for _, c := range tail[2:] {
			if c == ansi.BEL {
				return 0
			}
		}
		return len(tail)
	}
	return 0
}
