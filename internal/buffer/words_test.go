package buffer

import "testing"

func TestWordBoundaries(t *testing.T) {
	b := newTestBuffer(t, 30, 2, "xxxxxxxxx hello foo.bar  end", "next")

	tests := []struct {
		name      string
		target    Point
		wantStart Point
		wantEnd   Point
	}{
		{"mid word", Point{12, 0}, Point{10, 0}, Point{14, 0}},
		{"word at column 0", Point{3, 0}, Point{0, 0}, Point{8, 0}},
		{"delimiter is its own word", Point{19, 0}, Point{19, 0}, Point{19, 0}},
		{"after delimiter", Point{21, 0}, Point{20, 0}, Point{22, 0}},
		{"whitespace run", Point{23, 0}, Point{23, 0}, Point{24, 0}},
		{"trailing blanks stop at margin", Point{28, 0}, Point{28, 0}, Point{29, 0}},
		{"does not cross rows", Point{0, 1}, Point{0, 1}, Point{3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.WordStart(tt.target, DefaultWordDelimiters); got != tt.wantStart {
				t.Fatalf("WordStart(%v) = %v, want %v", tt.target, got, tt.wantStart)
			}
			if got := b.WordEnd(tt.target, DefaultWordDelimiters); got != tt.wantEnd {
				t.Fatalf("WordEnd(%v) = %v, want %v", tt.target, got, tt.wantEnd)
			}
		})
	}
}

func TestWordBoundariesHonorDelimiterSet(t *testing.T) {
	b := newTestBuffer(t, 20, 1, "foo.bar baz")
	if got := b.WordStart(Point{5, 0}, " "); got != (Point{0, 0}) {
		t.Fatalf("with only space as delimiter the dot joins the word, got %v", got)
	}
	if got := b.WordEnd(Point{1, 0}, " ."); got != (Point{2, 0}) {
		t.Fatalf("dot should end the word, got %v", got)
	}
}

func TestGlyphBoundaries(t *testing.T) {
	b := newTestBuffer(t, 10, 1, "a世b")

	if got := b.GlyphStart(Point{2, 0}); got != (Point{1, 0}) {
		t.Fatalf("GlyphStart on trailing half = %v", got)
	}
	if got := b.GlyphEnd(Point{1, 0}); got != (Point{2, 0}) {
		t.Fatalf("GlyphEnd on leading half = %v", got)
	}
	if got := b.GlyphStart(Point{0, 0}); got != (Point{0, 0}) {
		t.Fatalf("GlyphStart on narrow glyph moved to %v", got)
	}
	if got := b.WordEnd(Point{0, 0}, DefaultWordDelimiters); got != (Point{3, 0}) {
		t.Fatalf("wide glyph should be part of the word, WordEnd = %v", got)
	}
}
