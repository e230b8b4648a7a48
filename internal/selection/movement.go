package selection

import (
	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/logging"
)

// UpdateSelection moves the endpoint that is not the pivot by one step of
// mode in dir, then scrolls the viewport to keep that endpoint visible.
func (e *Engine) UpdateSelection(dir Direction, mode Expansion) {
	if e.anchors == nil {
		logging.Warn("%s", logging.Fields("op", "UpdateSelection", "err", ErrIllegalStateChange))
		return
	}

	target := e.anchors.End
	if e.anchors.Start != e.anchors.Pivot {
		target = e.anchors.Start
	}

	switch mode {
	case ExpandCell:
		target = e.moveByChar(dir, target)
	case ExpandWord:
		target = e.moveByWord(dir, target)
	case ExpandViewport:
		target = e.moveByViewport(dir, target)
	case ExpandBuffer:
		target = e.moveByBuffer(dir, target)
	}

	pivoted := pivotSelection(e.buf.Size(), target, e.anchors.Pivot)
	e.anchors.Start = pivoted.start
	e.anchors.End = pivoted.end

	e.scrollToRow(target.Y)
}

func (e *Engine) scrollToRow(row int) {
	visible := e.view.VisibleViewport()
	switch {
	case row < visible.Top():
		e.view.ScrollView(visible.Top() - row)
	case row > visible.BottomInclusive():
		e.view.ScrollView(-(row - visible.BottomInclusive()))
	}
}

func (e *Engine) moveByChar(dir Direction, pos buffer.Point) buffer.Point {
	size := e.buf.Size()
	switch dir {
	case DirLeft:
		pos, _ = size.DecrementInBounds(pos)
		pos = e.buf.GlyphStart(pos)
	case DirRight:
		pos, _ = size.IncrementInBounds(pos)
		pos = e.buf.GlyphEnd(pos)
	case DirUp:
		pos.Y = clampRow(size, pos.Y-1)
	case DirDown:
		pos.Y = clampRow(size, pos.Y+1)
	}
	return pos
}

func (e *Engine) moveByWord(dir Direction, pos buffer.Point) buffer.Point {
	size := e.buf.Size()
	pivot := e.anchors.Pivot
	switch dir {
	case DirLeft:
		wordStart := e.buf.WordStart(pos, e.delimiters)
		switch {
		case size.CompareInBounds(pivot, pos) < 0:
			// Shrinking toward the pivot: stop on the last cell of the
			// previous word.
			pos, _ = size.DecrementInBounds(wordStart)
		case wordStart == pos:
			pos, _ = size.DecrementInBounds(pos)
			pos = e.buf.WordStart(pos, e.delimiters)
		default:
			pos = wordStart
		}
	case DirRight:
		wordEnd := e.buf.WordEnd(pos, e.delimiters)
		switch {
		case size.CompareInBounds(pos, pivot) < 0:
			pos, _ = size.IncrementInBounds(wordEnd)
		case wordEnd == pos:
			pos, _ = size.IncrementInBounds(pos)
			pos = e.buf.WordEnd(pos, e.delimiters)
		default:
			pos = wordEnd
		}
	case DirUp:
		pos = e.moveByChar(dir, pos)
		pos = e.buf.WordStart(pos, e.delimiters)
	case DirDown:
		pos = e.moveByChar(dir, pos)
		pos = e.buf.WordEnd(pos, e.delimiters)
	}
	return pos
}

func (e *Engine) moveByViewport(dir Direction, pos buffer.Point) buffer.Point {
	size := e.buf.Size()
	height := e.view.VisibleViewport().Height()
	switch dir {
	case DirLeft:
		pos.X = size.Left()
	case DirRight:
		pos.X = size.RightInclusive()
	case DirUp:
		if pos.Y-height < size.Top() {
			return size.Origin()
		}
		pos.Y -= height
	case DirDown:
		if pos.Y+height > size.BottomInclusive() {
			return size.BottomRight()
		}
		pos.Y += height
	}
	return pos
}

func (e *Engine) moveByBuffer(dir Direction, pos buffer.Point) buffer.Point {
	size := e.buf.Size()
	switch dir {
	case DirLeft, DirUp:
		return size.Origin()
	case DirRight, DirDown:
		return size.BottomRight()
	}
	return pos
}

func clampRow(size buffer.Bounds, y int) int {
	return min(max(y, size.Top()), size.BottomInclusive())
}
