package e2e

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// RenderViewToBuffer draws a tea.View into a screen buffer for inspection.
func RenderViewToBuffer(view tea.View, width, height int) *uv.Buffer {
	width, height = max(width, 1), max(height, 1)
	buf := uv.NewBuffer(width, height)
	screen := bufferScreen{Buffer: buf}
	if view.Content != "" {
		uv.NewStyledString(normalizeSnapshotContent(view.Content)).Draw(screen, uv.Rect(0, 0, width, height))
	}
	return screen.Buffer
}

// BufferToASCII converts a screen buffer to text, one line per row, with
// trailing spaces trimmed.
func BufferToASCII(buf *uv.Buffer) string {
	if buf == nil {
		return ""
	}
	lines := make([]string, 0, len(buf.Lines))
	for _, line := range buf.Lines {
		var b strings.Builder
		for _, cell := range line {
			if cell.Width == 0 {
				continue
			}
			if cell.Content == "" {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(cell.Content)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// ReverseCells returns the cells of row y drawn in reverse video, which is
// how the viewer marks a selection.
func ReverseCells(buf *uv.Buffer, y int) []int {
	if buf == nil || y < 0 || y >= len(buf.Lines) {
		return nil
	}
	var cols []int
	for x, cell := range buf.Lines[y] {
		if cell.Width > 0 && cell.Style.Attrs&uv.AttrReverse != 0 {
			cols = append(cols, x)
		}
	}
	return cols
}

// normalizeSnapshotContent replaces non-ASCII glyphs so snapshots do not
// depend on the locale's width tables.
func normalizeSnapshotContent(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0x7f {
			return '?'
		}
		return r
	}, s)
}

type bufferScreen struct {
	*uv.Buffer
}

func (b bufferScreen) WidthMethod() uv.WidthMethod {
	return ansi.GraphemeWidth
}
