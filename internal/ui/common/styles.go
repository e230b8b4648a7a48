package common

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Tokyo Night-inspired colors.
var (
	ColorForeground = lipgloss.Color("#a9b1d6")
	ColorMuted      = lipgloss.Color("#565f89")
	ColorPrimary    = lipgloss.Color("#7aa2f7")
	ColorSecondary  = lipgloss.Color("#bb9af7")
	ColorSuccess    = lipgloss.Color("#9ece6a")
	ColorWarning    = lipgloss.Color("#e0af68")
	ColorError      = lipgloss.Color("#f7768e")
	ColorInfo       = lipgloss.Color("#7dcfff")
	ColorSurface1   = lipgloss.Color("#1f2335")
	ColorSurface2   = lipgloss.Color("#24283b")
)

// Styles contains the viewer styles
type Styles struct {
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusInfo lipgloss.Style
	Muted      lipgloss.Style

	// Help bar
	Help          lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	SearchPrompt lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastWarning lipgloss.Style
}

// DefaultStyles returns the default viewer styles
func DefaultStyles() Styles {
	return Styles{
		StatusBar: lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorSurface1),
		StatusMode: lipgloss.NewStyle().
			Foreground(ColorSurface1).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1),
		StatusInfo: lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorSurface2).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().Foreground(ColorMuted),

		Help:          lipgloss.NewStyle().Foreground(ColorMuted),
		HelpKey:       lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true),
		HelpDesc:      lipgloss.NewStyle().Foreground(ColorMuted),
		HelpSeparator: lipgloss.NewStyle().Foreground(ColorMuted),

		SearchPrompt: lipgloss.NewStyle().Foreground(ColorInfo).Bold(true),

		ToastSuccess: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		ToastError:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		ToastInfo:    lipgloss.NewStyle().Foreground(ColorInfo),
		ToastWarning: lipgloss.NewStyle().Foreground(ColorWarning),
	}
}

// HelpItem is one key and its description in the help bar.
type HelpItem struct {
	Key  string
	Desc string
}

// RenderHelpBar renders key:desc pairs separated by dots, cut to width.
func RenderHelpBar(s Styles, items []HelpItem, width int) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, s.HelpKey.Render(item.Key)+":"+s.HelpDesc.Render(item.Desc))
	}
	joined := strings.Join(parts, s.HelpSeparator.Render(" • "))
	return s.Help.MaxWidth(width).Render(joined)
}
