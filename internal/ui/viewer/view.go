package viewer

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/andyrewlee/termsel/internal/keymap"
	"github.com/andyrewlee/termsel/internal/perf"
	"github.com/andyrewlee/termsel/internal/ui/common"
)

// View renders the buffer window above a one-line status bar.
func (m *Model) View() tea.View {
	defer perf.Time("view")()

	view := tea.View{
		AltScreen: true,
		MouseMode: tea.MouseModeCellMotion,
	}
	if m.width == 0 || m.height == 0 {
		view.SetContent("Loading...")
		return view
	}
	view.SetContent(m.term.Render() + "\n" + m.statusBar())
	return view
}

func (m *Model) statusBar() string {
	if m.searching {
		return m.styles.SearchPrompt.Render(m.search.View())
	}

	left := m.styles.StatusMode.Render(m.modeLabel())
	if info := m.selectionInfo(); info != "" {
		left += m.styles.StatusInfo.Render(info)
	}
	if m.title != "" {
		left += m.styles.StatusBar.Render(" " + m.title)
	}

	right := m.toast.View()
	if right == "" {
		right = m.hints()
	}
	right += m.styles.StatusInfo.Render(m.scrollInfo())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(left + " " + right)
	}
	return left + m.styles.StatusBar.Render(strings.Repeat(" ", gap)) + right
}

func (m *Model) modeLabel() string {
	if !m.term.HasSelection() {
		return "VIEW"
	}
	label := strings.ToUpper(m.term.ExpansionMode().String())
	if m.term.IsBlockSelection() {
		label += " BLOCK"
	}
	return label
}

func (m *Model) selectionInfo() string {
	a, ok := m.term.SelectionAnchors()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d,%d → %d,%d", a.Start.X, a.Start.Y, a.End.X, a.End.Y)
}

func (m *Model) scrollInfo() string {
	start, end, total := m.term.VisibleLineRange()
	info := fmt.Sprintf("%d-%d/%d", start+1, end, total)
	if m.term.IsScrolled() {
		offset, limit := m.term.GetScrollInfo()
		info = fmt.Sprintf("↑%d/%d ", offset, limit) + info
	}
	return info
}

func (m *Model) hints() string {
	if !m.showHelp {
		items := []common.HelpItem{
			{Key: keymap.BindingHint(m.keys.Help), Desc: "help"},
			{Key: keymap.SequenceHint(m.keys.ScrollTop, m.keys.ScrollBottom), Desc: "top/bottom"},
		}
		if len(m.matches) > 0 {
			items = append(items, common.HelpItem{Key: keymap.PairHint(m.keys.SearchNext, m.keys.SearchPrev), Desc: "match"})
		}
		return common.RenderHelpBar(m.styles, items, m.width/2) + " "
	}
	items := make([]common.HelpItem, 0, len(keymap.ActionInfos()))
	for _, info := range keymap.ActionInfos() {
		b := keymap.BindingForAction(m.keys, info.Action)
		items = append(items, common.HelpItem{Key: keymap.BindingHint(b), Desc: strings.ToLower(info.Desc)})
	}
	return common.RenderHelpBar(m.styles, items, m.width/2) + " "
}
