package buffer

import (
	"html"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// TextOptions controls how Text formats the rows it extracts.
type TextOptions struct {
	// IncludeLineBreaks appends "\n" to every formatted row but the last.
	IncludeLineBreaks bool
	// TrimTrailingWhitespace drops trailing spaces from formatted rows.
	TrimTrailingWhitespace bool
	// PreserveWrappedRows formats wrapped rows too. Otherwise a wrapped row
	// flows into the next one untouched.
	PreserveWrappedRows bool
}

// TextRow is the text of one rectangle with a color pair per glyph.
type TextRow struct {
	Text string
	Fg   []colorful.Color
	Bg   []colorful.Color

	glyphs []string
}

// TextAndColor is extracted text with per-glyph colors.
type TextAndColor struct {
	Rows []TextRow
}

// String joins the rows.
func (t TextAndColor) String() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		sb.WriteString(row.Text)
	}
	return sb.String()
}

// Empty reports whether no text was extracted.
func (t TextAndColor) Empty() bool {
	for _, row := range t.Rows {
		if row.Text != "" {
			return false
		}
	}
	return true
}

// Text extracts the glyphs covered by rects. colors may be nil, in which
// case no colors are recorded.
func (b *Buffer) Text(opts TextOptions, rects []Rect, colors ColorResolver) TextAndColor {
	result := TextAndColor{Rows: make([]TextRow, 0, len(rects))}
	for i, r := range rects {
		if r.Top < 0 || r.Top >= len(b.rows) {
			continue
		}
		row := b.rows[r.Top]

		var glyphs []string
		var fg, bg []colorful.Color
		for x := max(r.Left, 0); x <= r.Right && x < len(row.Cells); x++ {
			cell := row.Cells[x]
			if cell.Width == 0 {
				continue
			}
			content := cell.Content
			if content == "" {
				content = " "
			}
			glyphs = append(glyphs, content)
			if colors != nil {
				f, bk := colors(cell.Style)
				fg = append(fg, f)
				bg = append(bg, bk)
			}
		}

		if opts.PreserveWrappedRows || !row.Wrapped {
			if opts.TrimTrailingWhitespace {
				n := len(glyphs)
				for n > 0 && glyphs[n-1] == " " {
					n--
				}
				glyphs = glyphs[:n]
				if colors != nil {
					fg, bg = fg[:n], bg[:n]
				}
			}
			if opts.IncludeLineBreaks && i < len(rects)-1 {
				glyphs = append(glyphs, "\n")
				if colors != nil {
					fg = append(fg, lastOr(fg, colorful.Color{}))
					bg = append(bg, lastOr(bg, colorful.Color{}))
				}
			}
		}

		result.Rows = append(result.Rows, TextRow{
			Text:   strings.Join(glyphs, ""),
			Fg:     fg,
			Bg:     bg,
			glyphs: glyphs,
		})
	}
	return result
}

func lastOr(colors []colorful.Color, fallback colorful.Color) colorful.Color {
	if len(colors) == 0 {
		return fallback
	}
	return colors[len(colors)-1]
}

// HTML renders the text as a <pre> block with one span per color run.
// Rows extracted without colors are emitted unstyled.
func (t TextAndColor) HTML() string {
	var sb strings.Builder
	sb.WriteString("<pre>")
	for _, row := range t.Rows {
		glyphs := row.glyphs
		if len(glyphs) == 0 || len(row.Fg) != len(glyphs) || len(row.Bg) != len(glyphs) {
			sb.WriteString(html.EscapeString(row.Text))
			continue
		}
		runStart := 0
		for i := 1; i <= len(glyphs); i++ {
			if i < len(glyphs) && row.Fg[i] == row.Fg[runStart] && row.Bg[i] == row.Bg[runStart] {
				continue
			}
			sb.WriteString(`<span style="color:`)
			sb.WriteString(row.Fg[runStart].Hex())
			sb.WriteString(`;background-color:`)
			sb.WriteString(row.Bg[runStart].Hex())
			sb.WriteString(`">`)
			sb.WriteString(html.EscapeString(strings.Join(glyphs[runStart:i], "")))
			sb.WriteString("</span>")
			runStart = i
		}
	}
	sb.WriteString("</pre>")
	return sb.String()
}
