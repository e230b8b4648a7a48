package selection

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/logging"
)

type fakeViewport struct {
	top, width, height int
	scrolls            []int
}

func (v *fakeViewport) VisibleViewport() buffer.Bounds {
	return buffer.NewBounds(0, v.top, v.width, v.height)
}

func (v *fakeViewport) ScrollView(delta int) {
	v.scrolls = append(v.scrolls, delta)
	v.top -= delta
}

func newTestEngine(t *testing.T, width, rows int, lines ...string) (*Engine, *buffer.Buffer, *fakeViewport) {
	t.Helper()
	buf := buffer.New(width, rows)
	if _, err := buf.WriteString(strings.Join(lines, "\n")); err != nil {
		t.Fatalf("WriteString failed: %v", err)
	}
	view := &fakeViewport{width: width, height: min(rows, 24)}
	return New(buf, view), buf, view
}

func pt(x, y int) buffer.Point {
	return buffer.Point{X: x, Y: y}
}

func expansion(e Expansion) *Expansion {
	return &e
}

func assertAnchors(t *testing.T, e *Engine, start, end, pivot buffer.Point) {
	t.Helper()
	a, ok := e.Anchors()
	if !ok {
		t.Fatalf("expected an active selection")
	}
	if a.Start != start || a.End != end || a.Pivot != pivot {
		t.Fatalf("anchors = start %v end %v pivot %v; want start %v end %v pivot %v",
			a.Start, a.End, a.Pivot, start, end, pivot)
	}
}

func TestBasicDrag(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24)
	e.SetSelectionAnchor(pt(5, 2))
	e.SetSelectionEnd(pt(10, 2), nil)
	assertAnchors(t, e, pt(5, 2), pt(10, 2), pt(5, 2))
}

func TestDragPastPivotFlips(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24)
	e.SetSelectionAnchor(pt(5, 2))
	e.SetSelectionEnd(pt(10, 2), nil)
	e.SetSelectionEnd(pt(2, 2), nil)
	assertAnchors(t, e, pt(2, 2), pt(5, 2), pt(5, 2))
	if !e.MovingStart() {
		t.Fatalf("after flipping the start side should be the moving one")
	}
}

func TestDoubleClickExpandsWord(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24, "xxxxxxxxx hello world")
	e.MultiClickSelection(pt(12, 0), ExpandWord)
	assertAnchors(t, e, pt(10, 0), pt(14, 0), pt(10, 0))
	if e.ExpansionMode() != ExpandWord {
		t.Fatalf("expansion mode = %v", e.ExpansionMode())
	}
}

func TestWordDragKeepsPivotWordSelected(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24, "alpha beta gamma", "delta epsilon")
	e.MultiClickSelection(pt(7, 0), ExpandWord)
	assertAnchors(t, e, pt(6, 0), pt(9, 0), pt(6, 0))

	e.SetSelectionEnd(pt(2, 1), nil)
	assertAnchors(t, e, pt(6, 0), pt(4, 1), pt(6, 0))

	e.SetSelectionEnd(pt(2, 0), nil)
	assertAnchors(t, e, pt(0, 0), pt(9, 0), pt(6, 0))
}

func TestTripleClickExpandsLine(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24, "first", "second")
	e.MultiClickSelection(pt(3, 1), ExpandLine)
	assertAnchors(t, e, pt(0, 1), pt(79, 1), pt(0, 1))

	e.SetSelectionEnd(pt(3, 0), nil)
	assertAnchors(t, e, pt(0, 0), pt(79, 1), pt(0, 1))
}

func TestShiftClickForcesFarSideToPivot(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24)
	e.SetSelectionAnchor(pt(5, 2))
	e.SetSelectionEnd(pt(10, 2), nil)
	e.SetSelectionEnd(pt(20, 2), expansion(ExpandCell))
	assertAnchors(t, e, pt(5, 2), pt(20, 2), pt(5, 2))

	e.SetSelectionEnd(pt(1, 1), expansion(ExpandCell))
	assertAnchors(t, e, pt(1, 1), pt(5, 2), pt(5, 2))
}

func TestShiftClickExpandsOnlyTargetSide(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24, "one two three four")
	e.MultiClickSelection(pt(5, 0), ExpandWord)
	assertAnchors(t, e, pt(4, 0), pt(6, 0), pt(4, 0))

	e.SetSelectionEnd(pt(15, 0), expansion(ExpandWord))
	assertAnchors(t, e, pt(4, 0), pt(17, 0), pt(4, 0))

	e.SetSelectionEnd(pt(1, 0), expansion(ExpandWord))
	assertAnchors(t, e, pt(0, 0), pt(4, 0), pt(4, 0))
	if e.ExpansionMode() != ExpandWord {
		t.Fatalf("override should persist as the active mode")
	}
}

func TestSetSelectionEndWithoutSelectionIsLogged(t *testing.T) {
	if err := logging.Initialize(t.TempDir(), logging.LevelDebug); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { _ = logging.Close() })

	e, _, _ := newTestEngine(t, 80, 24)
	e.SetSelectionEnd(pt(3, 3), nil)
	if e.IsSelectionActive() {
		t.Fatalf("extending without a selection must not create one")
	}
	e.UpdateSelection(DirRight, ExpandCell)
	if e.IsSelectionActive() {
		t.Fatalf("moving without a selection must not create one")
	}

	data, err := os.ReadFile(logging.GetLogPath())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `op=SetSelectionEnd err="illegal state change"`) {
		t.Fatalf("expected illegal state diagnostic, got %q", string(data))
	}
}

func TestClearSelectionIsIdempotent(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24)
	e.SetSelectionAnchor(pt(1, 1))
	e.ClearSelection()
	e.ClearSelection()
	if e.IsSelectionActive() {
		t.Fatalf("selection should be cleared")
	}
	if _, ok := e.Anchors(); ok {
		t.Fatalf("Anchors should report no selection")
	}
	if e.SelectionRects() != nil {
		t.Fatalf("no rects expected without a selection")
	}
}

func TestAnchorConversionUsesScrollAndClamps(t *testing.T) {
	e, _, view := newTestEngine(t, 80, 100)
	view.top = 40
	e.SetSelectionAnchor(pt(3, 2))
	assertAnchors(t, e, pt(3, 42), pt(3, 42), pt(3, 42))

	e.SetSelectionEnd(pt(200, 500), nil)
	if got := e.SelectionEnd(); got != pt(79, 99) {
		t.Fatalf("end should clamp to the buffer, got %v", got)
	}
}

func TestRenderingAccessors(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24)
	e.SetSelectionAnchor(pt(5, 2))
	e.SetSelectionEnd(pt(79, 2), nil)
	if got := e.SelectionStartForRendering(); got != pt(4, 2) {
		t.Fatalf("start for rendering = %v", got)
	}
	if got := e.SelectionEndForRendering(); got != pt(0, 3) {
		t.Fatalf("end for rendering = %v", got)
	}

	e.SelectAll()
	if got := e.SelectionStartForRendering(); got != pt(0, 0) {
		t.Fatalf("start for rendering should clamp to origin, got %v", got)
	}
	if got := e.SelectionEndForRendering(); got != pt(79, 23) {
		t.Fatalf("end for rendering should clamp to bottom-right, got %v", got)
	}
}

func TestSelectAll(t *testing.T) {
	e, _, _ := newTestEngine(t, 10, 3)
	e.SetSelectionAnchor(pt(4, 1))
	e.SelectAll()
	assertAnchors(t, e, pt(0, 0), pt(9, 2), pt(9, 2))
	if !e.MovingStart() {
		t.Fatalf("select-all should move the start endpoint")
	}
}

func TestBlockSelectionToggleKeepsAnchors(t *testing.T) {
	e, _, _ := newTestEngine(t, 80, 24)
	e.SetSelectionAnchor(pt(6, 0))
	e.SetSelectionEnd(pt(2, 2), nil)
	before, _ := e.Anchors()
	e.SetBlockSelection(true)
	after, _ := e.Anchors()
	if before != after || !e.IsBlockSelection() {
		t.Fatalf("toggling block selection must not move anchors")
	}
	rects := e.SelectionRects()
	if len(rects) != 3 || rects[1].Left != 2 || rects[1].Right != 6 {
		t.Fatalf("block rects = %+v", rects)
	}
}

func TestIsInSelection(t *testing.T) {
	e, _, _ := newTestEngine(t, 10, 5)
	e.SetSelectionAnchor(pt(6, 1))
	e.SetSelectionEnd(pt(2, 3), nil)

	stream := map[buffer.Point]bool{
		pt(5, 1): false,
		pt(6, 1): true,
		pt(0, 2): true,
		pt(9, 2): true,
		pt(2, 3): true,
		pt(3, 3): false,
		pt(4, 0): false,
	}
	for p, want := range stream {
		if got := e.IsInSelection(p); got != want {
			t.Fatalf("stream IsInSelection(%v) = %v, want %v", p, got, want)
		}
	}

	e.SetBlockSelection(true)
	block := map[buffer.Point]bool{
		pt(0, 2): false,
		pt(4, 2): true,
		pt(7, 1): false,
		pt(2, 1): true,
	}
	for p, want := range block {
		if got := e.IsInSelection(p); got != want {
			t.Fatalf("block IsInSelection(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestShiftRows(t *testing.T) {
	t.Run("moves anchors up", func(t *testing.T) {
		e, _, _ := newTestEngine(t, 10, 10)
		e.SetSelectionAnchor(pt(2, 5))
		e.SetSelectionEnd(pt(4, 7), nil)
		e.ShiftRows(3)
		assertAnchors(t, e, pt(2, 2), pt(4, 4), pt(2, 2))
	})
	t.Run("clamps a partly dropped selection", func(t *testing.T) {
		e, _, _ := newTestEngine(t, 10, 10)
		e.SetSelectionAnchor(pt(2, 1))
		e.SetSelectionEnd(pt(4, 5), nil)
		e.ShiftRows(3)
		assertAnchors(t, e, pt(0, 0), pt(4, 2), pt(0, 0))
	})
	t.Run("clears a fully dropped selection", func(t *testing.T) {
		e, _, _ := newTestEngine(t, 10, 10)
		e.SetSelectionAnchor(pt(2, 1))
		e.SetSelectionEnd(pt(4, 2), nil)
		e.ShiftRows(3)
		if e.IsSelectionActive() {
			t.Fatalf("selection should be cleared")
		}
	})
}

func TestColorSelectionNotImplemented(t *testing.T) {
	e, _, _ := newTestEngine(t, 10, 2)
	if err := e.ColorSelection(pt(0, 0), pt(1, 0), buffer.Style{}); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestParseExpansion(t *testing.T) {
	for _, mode := range []Expansion{ExpandCell, ExpandWord, ExpandLine, ExpandViewport, ExpandBuffer} {
		got, err := ParseExpansion(mode.String())
		if err != nil || got != mode {
			t.Fatalf("ParseExpansion(%q) = %v, %v", mode.String(), got, err)
		}
	}
	if _, err := ParseExpansion("paragraph"); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
}

func TestSettingsSetters(t *testing.T) {
	e, _, _ := newTestEngine(t, 20, 1, "foo.bar")
	e.SetWordDelimiters(" ")
	if e.WordDelimiters() != " " {
		t.Fatalf("WordDelimiters = %q", e.WordDelimiters())
	}
	e.MultiClickSelection(pt(1, 0), ExpandWord)
	assertAnchors(t, e, pt(0, 0), pt(6, 0), pt(0, 0))
}
