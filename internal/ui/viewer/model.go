package viewer

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/termsel/internal/config"
	"github.com/andyrewlee/termsel/internal/keymap"
	"github.com/andyrewlee/termsel/internal/perf"
	"github.com/andyrewlee/termsel/internal/ui/common"
	"github.com/andyrewlee/termsel/internal/vterm"
)

// StatusHeight is the number of rows the status line takes below the
// terminal view.
const StatusHeight = 1

const wheelStep = 3

// SettingsChangedMsg carries reloaded selection settings.
type SettingsChangedMsg struct {
	Settings config.SelectionSettings
}

// WorkerFailedMsg reports a background worker that returned an error.
type WorkerFailedMsg struct {
	Name string
	Err  error
}

// OutputMsg appends captured output to the view.
type OutputMsg []byte

// pendingPress is a single click that becomes a selection only once the
// pointer moves.
type pendingPress struct {
	x, y int
}

// Model is the selection viewer.
type Model struct {
	term     *vterm.VTerm
	keys     keymap.KeyMap
	styles   common.Styles
	toast    *common.ToastModel
	settings config.SelectionSettings
	copy     common.ClipboardWriter
	now      func() time.Time
	onResize func(cols, rows int)

	title         string
	width, height int
	showHelp      bool

	clicks   common.ClickTracker
	pending  *pendingPress
	dragging bool
	scroll   common.SelectionScrollState

	search    textinput.Model
	searching bool
	query     string
	matches   []int
	matchIdx  int
}

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the clipboard writer.
func WithClipboard(w common.ClipboardWriter) Option {
	return func(m *Model) {
		m.copy = w
	}
}

// WithTitle sets the label shown in the status bar.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithResizeHook registers fn to receive the content area size whenever the
// viewer is resized.
func WithResizeHook(fn func(cols, rows int)) Option {
	return func(m *Model) {
		m.onResize = fn
	}
}

// WithClock replaces the time source used for multi-click detection.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a viewer over term.
func New(term *vterm.VTerm, cfg *config.Config, opts ...Option) *Model {
	styles := common.DefaultStyles()
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "search"
	input.CharLimit = 256

	m := &Model{
		term:   term,
		keys:   keymap.New(cfg.KeyMap),
		styles: styles,
		toast:  common.NewToastModel(styles),
		copy:   common.CopyToClipboard,
		now:    time.Now,
		search: input,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.applySettings(cfg.Selection)
	return m
}

// Init initializes the viewer.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.term.Resize(msg.Width, m.termHeight())
		m.search.SetWidth(max(msg.Width-4, 10))
		if m.onResize != nil {
			m.onResize(msg.Width, m.termHeight())
		}
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.MouseClickMsg:
		return m, m.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		return m, m.handleMouseMotion(msg)
	case tea.MouseReleaseMsg:
		return m, m.handleMouseRelease(msg)
	case tea.MouseWheelMsg:
		m.handleMouseWheel(msg)
		return m, nil
	case common.SelectionScrollTick:
		return m, m.handleScrollTick(msg)
	case common.ToastDismissed:
		m.toast.Update(msg)
		return m, nil
	case SettingsChangedMsg:
		m.applySettings(msg.Settings)
		return m, m.toast.ShowInfo("settings reloaded")
	case WorkerFailedMsg:
		return m, m.toast.ShowError(fmt.Sprintf("%s: %v", msg.Name, msg.Err))
	case OutputMsg:
		perf.Count("viewer_output_bytes", int64(len(msg)))
		_, _ = m.term.Write(msg)
		return m, nil
	}
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applySettings(s config.SelectionSettings) {
	m.settings = s
	m.clicks.Interval = s.MultiClickInterval()
	m.term.SetWordDelimiters(s.WordDelimiters)
	m.term.SetTrimBlockSelection(s.TrimBlockSelection)
	m.term.SetPalette(s.Palette())
}

func (m *Model) termHeight() int {
	return max(m.height-StatusHeight, 1)
}

// Settings returns the settings currently applied.
func (m *Model) Settings() config.SelectionSettings {
	return m.settings
}
