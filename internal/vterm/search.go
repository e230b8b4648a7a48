package vterm

import (
	"strings"

	"github.com/andyrewlee/termsel/internal/buffer"
)

// GetAllLines returns every buffer row as plain text.
func (v *VTerm) GetAllLines() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	lines := make([]string, 0, v.buf.RowCount())
	for y := 0; y < v.buf.RowCount(); y++ {
		row, _ := v.buf.Row(y)
		lines = append(lines, rowToString(row))
	}
	return lines
}

// rowToString converts a row of cells to a plain string (no ANSI)
func rowToString(row buffer.Row) string {
	var buf strings.Builder
	for _, cell := range row.Cells {
		if cell.Width == 0 {
			continue
		}
		if cell.Content == "" {
			buf.WriteByte(' ')
		} else {
			buf.WriteString(cell.Content)
		}
	}
	// Trim trailing spaces
	return strings.TrimRight(buf.String(), " ")
}

// Search finds all line indices matching query, case-insensitively.
func (v *VTerm) Search(query string) []int {
	if query == "" {
		return nil
	}

	query = strings.ToLower(query)
	var matches []int
	for i, line := range v.GetAllLines() {
		if strings.Contains(strings.ToLower(line), query) {
			matches = append(matches, i)
		}
	}
	return matches
}
