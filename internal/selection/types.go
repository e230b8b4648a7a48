package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andyrewlee/termsel/internal/buffer"
)

var (
	// ErrIllegalStateChange is logged when a selection is extended or moved
	// while none is active.
	ErrIllegalStateChange = errors.New("illegal state change")
	// ErrNotImplemented is returned by ColorSelection.
	ErrNotImplemented = errors.New("not implemented")
)

// Expansion is the granularity a target point is expanded to.
type Expansion int

const (
	ExpandCell Expansion = iota
	ExpandWord
	ExpandLine
	ExpandViewport
	ExpandBuffer
)

func (e Expansion) String() string {
	switch e {
	case ExpandCell:
		return "cell"
	case ExpandWord:
		return "word"
	case ExpandLine:
		return "line"
	case ExpandViewport:
		return "viewport"
	case ExpandBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("expansion(%d)", int(e))
	}
}

// ParseExpansion maps a mode name to an Expansion.
func ParseExpansion(name string) (Expansion, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cell", "char":
		return ExpandCell, nil
	case "word":
		return ExpandWord, nil
	case "line":
		return ExpandLine, nil
	case "viewport", "page":
		return ExpandViewport, nil
	case "buffer", "all":
		return ExpandBuffer, nil
	default:
		return ExpandCell, fmt.Errorf("unknown expansion mode %q", name)
	}
}

// Direction is the direction a selection endpoint moves in.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Anchors are the absolute buffer coordinates of an active selection.
// Start never sorts after End. Pivot stays selected for the whole gesture.
type Anchors struct {
	Start buffer.Point
	End   buffer.Point
	Pivot buffer.Point
}

// pivotResult orders a target against the pivot.
type pivotResult struct {
	start         buffer.Point
	end           buffer.Point
	targetIsStart bool
}

type anchorPair struct {
	start buffer.Point
	end   buffer.Point
}

// Buffer is the coordinate-aware text store a selection is made over.
type Buffer interface {
	Size() buffer.Bounds
	WordStart(p buffer.Point, delimiters string) buffer.Point
	WordEnd(p buffer.Point, delimiters string) buffer.Point
	GlyphStart(p buffer.Point) buffer.Point
	GlyphEnd(p buffer.Point) buffer.Point
	TextRects(start, end buffer.Point, block, trimTrailing bool) ([]buffer.Rect, error)
	Text(opts buffer.TextOptions, rects []buffer.Rect, colors buffer.ColorResolver) buffer.TextAndColor
	LockForReading() (unlock func())
}

// Viewport owns the scroll state.
type Viewport interface {
	// VisibleViewport returns the absolute buffer rows currently on screen.
	VisibleViewport() buffer.Bounds
	// ScrollView scrolls by delta rows; positive moves further into history.
	ScrollView(delta int)
}
