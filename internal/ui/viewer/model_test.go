package viewer

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/config"
	"github.com/andyrewlee/termsel/internal/logging"
	"github.com/andyrewlee/termsel/internal/selection"
	"github.com/andyrewlee/termsel/internal/ui/common"
	"github.com/andyrewlee/termsel/internal/vterm"
)

type harness struct {
	m      *Model
	copied []string
	now    time.Time
	err    error
}

func newHarness(t *testing.T, lines ...string) *harness {
	t.Helper()
	h := &harness{now: time.Unix(1000, 0)}
	term := vterm.New(20, 5)
	if _, err := term.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cfg := &config.Config{Selection: config.DefaultSelectionSettings()}
	h.m = New(term, cfg,
		WithClipboard(func(text string) error {
			if h.err != nil {
				return h.err
			}
			h.copied = append(h.copied, text)
			return nil
		}),
		WithClock(func() time.Time { return h.now }),
	)
	h.send(tea.WindowSizeMsg{Width: 20, Height: 6})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

func (h *harness) click(x, y int, mod tea.KeyMod) {
	h.now = h.now.Add(50 * time.Millisecond)
	h.send(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft, Mod: mod})
}

func (h *harness) drag(x, y int) tea.Cmd {
	return h.send(tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func (h *harness) release(x, y int) tea.Cmd {
	return h.send(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func (h *harness) anchors(t *testing.T) selection.Anchors {
	t.Helper()
	a, ok := h.m.term.SelectionAnchors()
	if !ok {
		t.Fatal("expected an active selection")
	}
	return a
}

func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%02d", i)
	}
	return lines
}

func TestDragSelectsCells(t *testing.T) {
	h := newHarness(t, "abcdefghij", "klmnopqrst")

	h.click(2, 0, 0)
	h.drag(6, 0)
	h.release(6, 0)

	a := h.anchors(t)
	if a.Start != (buffer.Point{X: 2, Y: 0}) || a.End != (buffer.Point{X: 6, Y: 0}) {
		t.Fatalf("anchors = %+v", a)
	}
	if got := h.m.term.SelectedText(false).String(); got != "cdefg" {
		t.Fatalf("selected text = %q, want cdefg", got)
	}
	if len(h.copied) != 0 {
		t.Fatal("release should not copy unless copy-on-select is set")
	}
}

func TestSingleClickWithoutDragSelectsNothing(t *testing.T) {
	h := newHarness(t, "abcdefghij")

	h.click(2, 0, 0)
	h.release(2, 0)

	if h.m.term.HasSelection() {
		t.Fatal("a plain click should not leave a selection")
	}
}

func TestDoubleAndTripleClick(t *testing.T) {
	h := newHarness(t, "hello world foo")

	h.click(7, 0, 0)
	h.click(7, 0, 0)
	a := h.anchors(t)
	if a.Start.X != 6 || a.End.X != 10 {
		t.Fatalf("double click anchors = %+v, want word 6..10", a)
	}
	if h.m.term.ExpansionMode() != selection.ExpandWord {
		t.Fatalf("mode = %v, want word", h.m.term.ExpansionMode())
	}

	h.click(7, 0, 0)
	a = h.anchors(t)
	if a.Start.X != 0 || a.End.X != 19 {
		t.Fatalf("triple click anchors = %+v, want line 0..19", a)
	}
}

func TestSlowSecondClickStartsOver(t *testing.T) {
	h := newHarness(t, "hello world foo")

	h.click(7, 0, 0)
	h.now = h.now.Add(2 * time.Second)
	h.click(7, 0, 0)
	if h.m.term.HasSelection() {
		t.Fatal("a slow second click should count as a new single click")
	}
}

func TestShiftClickExtendsFromPivot(t *testing.T) {
	h := newHarness(t, "abcdefghij", "klmnopqrst")

	h.click(2, 0, 0)
	h.drag(4, 0)
	h.release(4, 0)
	h.now = h.now.Add(time.Second)
	h.click(8, 1, tea.ModShift)

	a := h.anchors(t)
	if a.Start != (buffer.Point{X: 2, Y: 0}) || a.End != (buffer.Point{X: 8, Y: 1}) {
		t.Fatalf("anchors = %+v", a)
	}
}

func TestAltDragMakesBlockSelection(t *testing.T) {
	h := newHarness(t, "abcdefghij", "klmnopqrst")

	h.click(1, 0, tea.ModAlt)
	h.drag(3, 1)
	h.release(3, 1)

	if !h.m.term.IsBlockSelection() {
		t.Fatal("alt drag should select a block")
	}
	if got := h.m.term.SelectedText(false).String(); got != "bcd\nlmn" {
		t.Fatalf("block text = %q", got)
	}
}

func TestCopyOnSelect(t *testing.T) {
	h := newHarness(t, "abcdefghij")
	s := h.m.Settings()
	s.CopyOnSelect = true
	h.send(SettingsChangedMsg{Settings: s})

	h.click(0, 0, 0)
	h.drag(2, 0)
	h.release(2, 0)

	if len(h.copied) != 1 || h.copied[0] != "abc" {
		t.Fatalf("copied = %q", h.copied)
	}
}

func TestKeyboardExtendsSelection(t *testing.T) {
	h := newHarness(t, "abcdefghij", "klmnopqrst")

	h.click(2, 0, 0)
	h.drag(4, 0)
	h.release(4, 0)
	h.send(tea.KeyPressMsg{Code: tea.KeyRight, Mod: tea.ModShift})
	h.send(tea.KeyPressMsg{Code: tea.KeyDown, Mod: tea.ModShift})

	a := h.anchors(t)
	if a.End != (buffer.Point{X: 5, Y: 1}) {
		t.Fatalf("end = %+v, want (5,1)", a.End)
	}
}

func TestMovementKeyStartsSelectionAtCursor(t *testing.T) {
	h := newHarness(t, "abc", "def")

	h.send(tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModShift})

	a := h.anchors(t)
	if a.Pivot != (buffer.Point{X: 3, Y: 1}) {
		t.Fatalf("pivot = %+v, want the cursor at (3,1)", a.Pivot)
	}
	if a.Start != (buffer.Point{X: 2, Y: 1}) {
		t.Fatalf("start = %+v, want (2,1)", a.Start)
	}
}

func TestCopyKeyCopiesAndClears(t *testing.T) {
	h := newHarness(t, "abcdefghij")

	h.send(tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl})
	h.send(tea.KeyPressMsg{Code: 'y', Text: "y"})

	if len(h.copied) != 1 || !strings.HasPrefix(h.copied[0], "abcdefghij") {
		t.Fatalf("copied = %q", h.copied)
	}
	if h.m.term.HasSelection() {
		t.Fatal("copy should clear the selection")
	}
	if toast, ok := h.m.toast.Current(); !ok || toast.Type != common.ToastSuccess {
		t.Fatalf("toast = %+v, %v", toast, ok)
	}
}

func TestCopyCountsCharactersNotBytes(t *testing.T) {
	if err := logging.Initialize(t.TempDir(), logging.LevelDebug); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { _ = logging.Close() })
	h := newHarness(t, "héllo wörld")

	h.click(0, 0, 0)
	h.drag(4, 0)
	h.release(4, 0)
	h.send(tea.KeyPressMsg{Code: 'y', Text: "y"})

	if len(h.copied) != 1 || h.copied[0] != "héllo" {
		t.Fatalf("copied = %q", h.copied)
	}
	if toast, ok := h.m.toast.Current(); !ok || toast.Message != "copied 5 chars" {
		t.Fatalf("toast = %+v, %v", toast, ok)
	}
	data, err := os.ReadFile(logging.GetLogPath())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "op=copySelection chars=5") {
		t.Fatalf("log does not count characters:\n%s", data)
	}
}

func TestCopyFailureShowsError(t *testing.T) {
	h := newHarness(t, "abcdefghij")
	h.err = errors.New("no display")

	h.send(tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl})
	h.send(tea.KeyPressMsg{Code: 'y', Text: "y"})

	toast, ok := h.m.toast.Current()
	if !ok || toast.Type != common.ToastError || !strings.Contains(toast.Message, "no display") {
		t.Fatalf("toast = %+v, %v", toast, ok)
	}
}

func TestEscapeClearsAndBlockToggles(t *testing.T) {
	h := newHarness(t, "abcdefghij")

	h.send(tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})
	if !h.m.term.IsBlockSelection() {
		t.Fatal("ctrl+b should enable block selection")
	}
	h.send(tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl})
	h.send(tea.KeyPressMsg{Code: tea.KeyEscape})
	if h.m.term.HasSelection() {
		t.Fatal("esc should clear the selection")
	}
}

func TestWheelAndScrollKeys(t *testing.T) {
	h := newHarness(t, numbered(20)...)

	h.send(tea.MouseWheelMsg{X: 1, Y: 1, Button: tea.MouseWheelUp})
	if off, _ := h.m.term.GetScrollInfo(); off != wheelStep {
		t.Fatalf("offset after wheel = %d, want %d", off, wheelStep)
	}
	h.send(tea.KeyPressMsg{Code: 'g', Text: "g"})
	if off, maxOff := h.m.term.GetScrollInfo(); off != maxOff {
		t.Fatalf("offset after g = %d, want %d", off, maxOff)
	}
	h.send(tea.KeyPressMsg{Code: 'G', Text: "G"})
	if h.m.term.IsScrolled() {
		t.Fatal("G should return to the bottom")
	}
}

func TestDragPastEdgeAutoScrolls(t *testing.T) {
	h := newHarness(t, numbered(20)...)
	h.m.term.ScrollViewToTop()
	_, maxOff := h.m.term.GetScrollInfo()

	h.click(1, 0, 0)
	cmd := h.drag(2, 9)
	if cmd == nil || !h.m.scroll.Active {
		t.Fatal("dragging below the view should start the scroll ticker")
	}
	if off, _ := h.m.term.GetScrollInfo(); off != maxOff-1 {
		t.Fatalf("offset after drag = %d, want %d", off, maxOff-1)
	}

	if h.send(common.SelectionScrollTick{Gen: h.m.scroll.Gen}) == nil {
		t.Fatal("a live tick should schedule the next one")
	}
	if off, _ := h.m.term.GetScrollInfo(); off != maxOff-2 {
		t.Fatalf("offset after tick = %d, want %d", off, maxOff-2)
	}
	a := h.anchors(t)
	if a.End.Y != h.m.term.ScreenYToAbsoluteLine(4) {
		t.Fatalf("end row = %d, want the bottom visible row", a.End.Y)
	}

	h.release(2, 9)
	if h.send(common.SelectionScrollTick{Gen: h.m.scroll.Gen}) != nil {
		t.Fatal("ticks should stop after release")
	}
}

func TestSearchJumpsToMatch(t *testing.T) {
	h := newHarness(t, numbered(20)...)

	h.send(tea.KeyPressMsg{Code: '/', Text: "/"})
	if !h.m.searching {
		t.Fatal("/ should open the search prompt")
	}
	for _, r := range "l17" {
		h.send(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	h.send(tea.KeyPressMsg{Code: tea.KeyEnter})

	if h.m.searching {
		t.Fatal("enter should close the prompt")
	}
	if start, _, _ := h.m.term.VisibleLineRange(); start != 14 {
		t.Fatalf("visible start = %d, want 14", start)
	}
	if got := h.m.term.SelectedText(false).String(); got != "l17" {
		t.Fatalf("selected = %q, want the matched line", got)
	}
}

func TestSearchWithoutMatchShowsError(t *testing.T) {
	h := newHarness(t, numbered(3)...)

	h.send(tea.KeyPressMsg{Code: '/', Text: "/"})
	h.send(tea.KeyPressMsg{Code: 'z', Text: "z"})
	h.send(tea.KeyPressMsg{Code: tea.KeyEnter})

	toast, ok := h.m.toast.Current()
	if !ok || toast.Type != common.ToastError {
		t.Fatalf("toast = %+v, %v", toast, ok)
	}
}

func TestSettingsChangedAppliesDelimiters(t *testing.T) {
	h := newHarness(t, "foo.bar baz")
	s := h.m.Settings()
	s.WordDelimiters = " "
	h.send(SettingsChangedMsg{Settings: s})

	h.click(1, 0, 0)
	h.click(1, 0, 0)
	a := h.anchors(t)
	if a.Start.X != 0 || a.End.X != 6 {
		t.Fatalf("word = %+v, want 0..6 with only space delimiting", a)
	}
}

func TestStatusBarShowsMode(t *testing.T) {
	h := newHarness(t, "abcdefghij")

	if got := ansi.Strip(h.m.statusBar()); !strings.HasPrefix(got, " VIEW ") {
		t.Fatalf("status = %q", got)
	}
	h.send(tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl})
	got := ansi.Strip(h.m.statusBar())
	if !strings.HasPrefix(got, " CELL ") || !strings.Contains(got, "0,0 → 19,4") {
		t.Fatalf("status = %q", got)
	}
}

func TestQuitKey(t *testing.T) {
	h := newHarness(t, "abc")
	cmd := h.send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}

func TestWorkerFailureShowsError(t *testing.T) {
	h := newHarness(t, "abc")
	h.send(WorkerFailedMsg{Name: "config-watcher", Err: errors.New("too many open files")})

	toast, ok := h.m.toast.Current()
	if !ok || toast.Type != common.ToastError {
		t.Fatalf("toast = %+v, %v", toast, ok)
	}
	if !strings.Contains(toast.Message, "config-watcher") || !strings.Contains(toast.Message, "too many open files") {
		t.Fatalf("toast message = %q", toast.Message)
	}
}

func TestOutputAppendsToView(t *testing.T) {
	h := newHarness(t, "first")
	h.send(OutputMsg("\r\nsecond"))

	lines := h.m.term.GetAllLines()
	if lines[0] != "first" || lines[1] != "second" {
		t.Fatalf("lines = %q", lines[:2])
	}
}

func TestResizeHookReceivesContentSize(t *testing.T) {
	term := vterm.New(20, 5)
	var cols, rows int
	m := New(term, &config.Config{Selection: config.DefaultSelectionSettings()},
		WithResizeHook(func(c, r int) { cols, rows = c, r }))
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	if cols != 40 || rows != m.termHeight() {
		t.Fatalf("hook got %dx%d, want 40x%d", cols, rows, m.termHeight())
	}
}

func TestScrollInfoShowsOffset(t *testing.T) {
	h := newHarness(t, numbered(20)...)
	if got := h.m.scrollInfo(); strings.Contains(got, "↑") {
		t.Fatalf("live view reported an offset: %q", got)
	}
	h.m.term.ScrollView(2)
	_, limit := h.m.term.GetScrollInfo()
	if got := h.m.scrollInfo(); !strings.HasPrefix(got, fmt.Sprintf("↑2/%d ", limit)) {
		t.Fatalf("scroll info = %q", got)
	}
}
