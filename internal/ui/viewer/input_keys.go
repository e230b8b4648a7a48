package viewer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/termsel/internal/logging"
	"github.com/andyrewlee/termsel/internal/selection"
)

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	if m.term.HasSelection() {
		for _, mv := range m.keys.Movements() {
			if key.Matches(msg, mv.Binding) {
				m.term.UpdateSelection(mv.Direction, mv.Mode)
				return nil
			}
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Copy):
		if !m.term.HasSelection() {
			return nil
		}
		cmd := m.copySelection(msg.Mod&tea.ModShift != 0)
		m.term.ClearSelection()
		return cmd
	case key.Matches(msg, m.keys.SelectAll):
		m.term.SelectAll()
	case key.Matches(msg, m.keys.BlockToggle):
		block := !m.term.IsBlockSelection()
		m.term.SetBlockSelection(block)
		if block {
			return m.toast.ShowInfo("block selection")
		}
		return m.toast.ShowInfo("line selection")
	case key.Matches(msg, m.keys.Clear):
		m.term.ClearSelection()
	case key.Matches(msg, m.keys.ScrollUp):
		m.term.ScrollView(1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.term.ScrollView(-1)
	case key.Matches(msg, m.keys.ScrollPageUp):
		m.term.ScrollView(m.termHeight())
	case key.Matches(msg, m.keys.ScrollPageDown):
		m.term.ScrollView(-m.termHeight())
	case key.Matches(msg, m.keys.ScrollTop):
		m.term.ScrollViewToTop()
	case key.Matches(msg, m.keys.ScrollBottom):
		m.term.ScrollViewToBottom()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue("")
		return m.search.Focus()
	case key.Matches(msg, m.keys.SearchNext):
		return m.jumpToMatch(1)
	case key.Matches(msg, m.keys.SearchPrev):
		return m.jumpToMatch(-1)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	default:
		return m.startKeyboardSelection(msg)
	}
	return nil
}

// startKeyboardSelection anchors a selection at the cursor, or the top-left
// cell when the cursor is off screen, when a movement key arrives with no
// selection active.
func (m *Model) startKeyboardSelection(msg tea.KeyPressMsg) tea.Cmd {
	for _, mv := range m.keys.Movements() {
		if !key.Matches(msg, mv.Binding) {
			continue
		}
		x, y, visible := m.term.CursorScreenPos()
		if !visible {
			x, y = 0, 0
		}
		m.term.SetSelectionAnchor(x, y)
		m.term.UpdateSelection(mv.Direction, mv.Mode)
		return nil
	}
	return nil
}

func (m *Model) copySelection(singleLine bool) tea.Cmd {
	text := m.term.SelectedText(singleLine).String()
	if text == "" {
		return nil
	}
	chars := utf8.RuneCountInString(text)
	if err := m.copy(text); err != nil {
		logging.WithError(err, logging.Fields("op", "copySelection", "chars", chars))
		return m.toast.ShowError("copy failed: " + err.Error())
	}
	logging.Info("%s", logging.Fields("op", "copySelection", "chars", chars))
	return m.toast.ShowSuccess(fmt.Sprintf("copied %d chars", chars))
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		return nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.query = strings.TrimSpace(m.search.Value())
		m.matches = m.term.Search(m.query)
		m.matchIdx = -1
		if len(m.matches) == 0 {
			if m.query == "" {
				return nil
			}
			return m.toast.ShowError(fmt.Sprintf("no match for %q", m.query))
		}
		return m.jumpToMatch(1)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

// jumpToMatch centers the next or previous matching line and selects it.
func (m *Model) jumpToMatch(step int) tea.Cmd {
	if len(m.matches) == 0 {
		return nil
	}
	n := len(m.matches)
	m.matchIdx = ((m.matchIdx+step)%n + n) % n
	m.term.ScrollToLine(m.matches[m.matchIdx])
	if y := m.term.AbsoluteLineToScreenY(m.matches[m.matchIdx]); y >= 0 {
		m.term.MultiClickSelection(0, y, selection.ExpandLine)
	}
	return m.toast.ShowInfo(fmt.Sprintf("match %d/%d", m.matchIdx+1, n))
}
