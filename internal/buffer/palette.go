package buffer

import (
	"github.com/charmbracelet/x/ansi"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorResolver maps a cell style to the concrete colors it is drawn with.
type ColorResolver func(Style) (fg, bg colorful.Color)

// Palette resolves indexed and default colors to RGB.
type Palette struct {
	DefaultFg colorful.Color
	DefaultBg colorful.Color
}

// DefaultPalette returns light-grey-on-near-black defaults.
func DefaultPalette() Palette {
	fg, _ := colorful.Hex("#cccccc")
	bg, _ := colorful.Hex("#0c0c0c")
	return Palette{DefaultFg: fg, DefaultBg: bg}
}

// NewPalette builds a palette from hex defaults, keeping the built-in value
// for any that fail to parse.
func NewPalette(fgHex, bgHex string) Palette {
	p := DefaultPalette()
	if c, err := colorful.Hex(fgHex); err == nil {
		p.DefaultFg = c
	}
	if c, err := colorful.Hex(bgHex); err == nil {
		p.DefaultBg = c
	}
	return p
}

// Resolve converts c, using fallback for the default color.
func (p Palette) Resolve(c Color, fallback colorful.Color) colorful.Color {
	switch c.Type {
	case ColorIndexed:
		if rgb, ok := colorful.MakeColor(ansi.IndexedColor(uint8(c.Value))); ok {
			return rgb
		}
		return fallback
	case ColorRGB:
		return colorful.Color{
			R: float64(c.Value>>16&0xff) / 255,
			G: float64(c.Value>>8&0xff) / 255,
			B: float64(c.Value&0xff) / 255,
		}
	default:
		return fallback
	}
}

// Colors is a ColorResolver. Bold promotes the eight basic foreground colors
// to their bright variants; reverse video swaps the pair; hidden text takes
// the background color.
func (p Palette) Colors(s Style) (fg, bg colorful.Color) {
	fgColor := s.Fg
	if s.Bold && fgColor.Type == ColorIndexed && fgColor.Value < 8 {
		fgColor.Value += 8
	}
	fg = p.Resolve(fgColor, p.DefaultFg)
	bg = p.Resolve(s.Bg, p.DefaultBg)
	if s.Reverse {
		fg, bg = bg, fg
	}
	if s.Hidden {
		fg = bg
	}
	return fg, bg
}
