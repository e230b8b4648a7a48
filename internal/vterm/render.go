package vterm

import (
	"fmt"
	"strings"

	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/perf"
)

// Render returns the visible window as a string with ANSI codes. Selected
// cells are drawn in reverse video.
func (v *VTerm) Render() string {
	defer perf.Time("vterm_render")()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.reconcileTrim()

	top := v.visibleTop()
	selected := v.selectedRows(top)

	var buf strings.Builder
	buf.Grow(v.Width * v.Height * 2) // Rough estimate

	var lastStyle buffer.Style
	firstCell := true

	for i := 0; i < v.Height; i++ {
		row, _ := v.buf.Row(top + i)
		sel, hasSel := selected[top+i]

		for x := 0; x < v.Width; x++ {
			cell := buffer.DefaultCell()
			if x < len(row.Cells) {
				cell = row.Cells[x]
			}

			// Skip continuation cells (part of wide character)
			if cell.Width == 0 {
				continue
			}

			style := cell.Style
			if hasSel && x >= sel.Left && x <= sel.Right {
				style.Reverse = !style.Reverse
			}
			if firstCell || style != lastStyle {
				buf.WriteString(styleToANSI(style))
				lastStyle = style
				firstCell = false
			}

			if cell.Content == "" {
				buf.WriteByte(' ')
			} else {
				buf.WriteString(cell.Content)
			}
		}

		if i < v.Height-1 {
			buf.WriteString("\n")
		}
	}

	// Reset styles at end
	buf.WriteString("\x1b[0m")

	return buf.String()
}

// selectedRows maps each visible absolute row to its selected column range.
func (v *VTerm) selectedRows(top int) map[int]buffer.Rect {
	rects := v.sel.SelectionRects()
	if len(rects) == 0 {
		return nil
	}
	rows := make(map[int]buffer.Rect, min(len(rects), v.Height))
	for _, r := range rects {
		if r.Top >= top && r.Top < top+v.Height {
			rows[r.Top] = r
		}
	}
	return rows
}

// styleToANSI converts a Style to ANSI escape codes
func styleToANSI(s buffer.Style) string {
	var codes []string

	// Reset first if any attributes
	codes = append(codes, "0")

	if s.Bold {
		codes = append(codes, "1")
	}
	if s.Dim {
		codes = append(codes, "2")
	}
	if s.Italic {
		codes = append(codes, "3")
	}
	if s.Underline {
		codes = append(codes, "4")
	}
	if s.Blink {
		codes = append(codes, "5")
	}
	if s.Reverse {
		codes = append(codes, "7")
	}
	if s.Hidden {
		codes = append(codes, "8")
	}
	if s.Strike {
		codes = append(codes, "9")
	}

	codes = append(codes, colorToANSI(s.Fg, true)...)
	codes = append(codes, colorToANSI(s.Bg, false)...)

	return fmt.Sprintf("\x1b[%sm", strings.Join(codes, ";"))
}

// colorToANSI converts a Color to ANSI code strings
func colorToANSI(c buffer.Color, fg bool) []string {
	switch c.Type {
	case buffer.ColorIndexed:
		idx := c.Value
		switch {
		case idx < 8 && fg:
			return []string{fmt.Sprintf("%d", 30+idx)}
		case idx < 8:
			return []string{fmt.Sprintf("%d", 40+idx)}
		case idx < 16 && fg:
			return []string{fmt.Sprintf("%d", 90+idx-8)}
		case idx < 16:
			return []string{fmt.Sprintf("%d", 100+idx-8)}
		case fg:
			return []string{"38", "5", fmt.Sprintf("%d", idx)}
		default:
			return []string{"48", "5", fmt.Sprintf("%d", idx)}
		}
	case buffer.ColorRGB:
		r := (c.Value >> 16) & 0xFF
		g := (c.Value >> 8) & 0xFF
		b := c.Value & 0xFF
		lead := "48"
		if fg {
			lead = "38"
		}
		return []string{lead, "2", fmt.Sprintf("%d", r), fmt.Sprintf("%d", g), fmt.Sprintf("%d", b)}
	}
	return nil
}
