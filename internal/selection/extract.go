package selection

import (
	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/logging"
)

// SelectionRects returns one rectangle per selected row, in absolute buffer
// coordinates. It returns nil when nothing is selected or the buffer can no
// longer address the anchors.
func (e *Engine) SelectionRects() []buffer.Rect {
	if e.anchors == nil {
		return nil
	}
	rects, err := e.buf.TextRects(e.anchors.Start, e.anchors.End, e.block, false)
	if err != nil {
		logging.WithError(err, logging.Fields("op", "SelectionRects", "start", e.anchors.Start, "end", e.anchors.End))
		return nil
	}
	return rects
}

// RetrieveSelectedText extracts the selected text under the buffer's read
// lock. singleLine joins the rows of a running selection into one line;
// block selections keep their line breaks either way.
func (e *Engine) RetrieveSelectedText(singleLine bool) buffer.TextAndColor {
	unlock := e.buf.LockForReading()
	defer unlock()

	rects := e.SelectionRects()
	opts := buffer.TextOptions{
		IncludeLineBreaks:      !singleLine || e.block,
		TrimTrailingWhitespace: !singleLine && (!e.block || e.trimBlock),
		PreserveWrappedRows:    e.block,
	}
	return e.buf.Text(opts, rects, e.colors)
}

// ColorSelection is not supported.
func (e *Engine) ColorSelection(start, end buffer.Point, style buffer.Style) error {
	return ErrNotImplemented
}
