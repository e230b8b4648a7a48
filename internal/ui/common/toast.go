package common

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// ToastType identifies the type of toast notification
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastSuccess
	ToastError
	ToastWarning
)

// Toast represents a status-line message
type Toast struct {
	Message  string
	Type     ToastType
	Duration time.Duration
}

// ToastDismissed is sent when a toast may have expired.
type ToastDismissed struct{}

// ToastModel shows one transient status message at a time.
type ToastModel struct {
	current   *Toast
	showUntil time.Time
	styles    Styles
	now       func() time.Time
}

// NewToastModel creates a new toast model
func NewToastModel(styles Styles) *ToastModel {
	return &ToastModel{styles: styles, now: time.Now}
}

// Show displays message for duration and returns the dismissal tick.
func (m *ToastModel) Show(message string, toastType ToastType, duration time.Duration) tea.Cmd {
	m.current = &Toast{Message: message, Type: toastType, Duration: duration}
	m.showUntil = m.now().Add(duration)
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return ToastDismissed{}
	})
}

func (m *ToastModel) ShowSuccess(message string) tea.Cmd {
	return m.Show(message, ToastSuccess, 3*time.Second)
}

func (m *ToastModel) ShowError(message string) tea.Cmd {
	return m.Show(message, ToastError, 5*time.Second)
}

func (m *ToastModel) ShowInfo(message string) tea.Cmd {
	return m.Show(message, ToastInfo, 3*time.Second)
}

// Update drops the toast once a dismissal arrives after it expired. A
// newer toast keeps its own deadline.
func (m *ToastModel) Update(msg tea.Msg) {
	if _, ok := msg.(ToastDismissed); ok && !m.Visible() {
		m.current = nil
	}
}

// Current returns the visible toast, if any.
func (m *ToastModel) Current() (Toast, bool) {
	if !m.Visible() {
		return Toast{}, false
	}
	return *m.current, true
}

// View renders the toast notification
func (m *ToastModel) View() string {
	t, ok := m.Current()
	if !ok {
		return ""
	}

	var style lipgloss.Style
	icon := ""
	switch t.Type {
	case ToastSuccess:
		style, icon = m.styles.ToastSuccess, "✓ "
	case ToastError:
		style, icon = m.styles.ToastError, "✗ "
	case ToastWarning:
		style, icon = m.styles.ToastWarning, "! "
	default:
		style = m.styles.ToastInfo
	}
	return style.Render(icon + t.Message)
}

// Visible returns whether the toast is currently visible
func (m *ToastModel) Visible() bool {
	return m.current != nil && m.now().Before(m.showUntil)
}
