package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/andyrewlee/termsel/internal/buffer"
)

// SelectionSettings stores the preferences that shape selection and copy.
type SelectionSettings struct {
	WordDelimiters     string
	TrimBlockSelection bool
	CopyOnSelect       bool
	MultiClickMs       int
	WidthMethod        string // "grapheme" or "wcwidth"
	Scrollback         int
	DefaultFg          string // hex, e.g. "#cccccc"
	DefaultBg          string
}

func DefaultSelectionSettings() SelectionSettings {
	return SelectionSettings{
		WordDelimiters:     buffer.DefaultWordDelimiters,
		TrimBlockSelection: true,
		CopyOnSelect:       false,
		MultiClickMs:       500,
		WidthMethod:        "grapheme",
		Scrollback:         buffer.MaxScrollback,
		DefaultFg:          "#cccccc",
		DefaultBg:          "#0c0c0c",
	}
}

// MultiClickInterval is the window within which repeated clicks count as a
// double or triple click.
func (s SelectionSettings) MultiClickInterval() time.Duration {
	if s.MultiClickMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(s.MultiClickMs) * time.Millisecond
}

// Palette builds the color palette for extracted text.
func (s SelectionSettings) Palette() buffer.Palette {
	return buffer.NewPalette(s.DefaultFg, s.DefaultBg)
}

// Width returns the configured grapheme width method.
func (s SelectionSettings) Width() buffer.WidthMethod {
	return buffer.ParseWidthMethod(s.WidthMethod)
}

func loadSelectionSettings(path string) SelectionSettings {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSelectionSettings()
	}
	return parseSelectionSettings(data)
}

func parseSelectionSettings(data []byte) SelectionSettings {
	settings := DefaultSelectionSettings()

	var raw struct {
		Selection struct {
			WordDelimiters     *string `json:"word_delimiters"`
			TrimBlockSelection *bool   `json:"trim_block_selection"`
			CopyOnSelect       *bool   `json:"copy_on_select"`
			MultiClickMs       *int    `json:"multi_click_ms"`
			WidthMethod        *string `json:"width_method"`
			Scrollback         *int    `json:"scrollback"`
			DefaultFg          *string `json:"default_fg"`
			DefaultBg          *string `json:"default_bg"`
		} `json:"selection"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return settings
	}
	sel := raw.Selection
	if sel.WordDelimiters != nil {
		settings.WordDelimiters = *sel.WordDelimiters
	}
	if sel.TrimBlockSelection != nil {
		settings.TrimBlockSelection = *sel.TrimBlockSelection
	}
	if sel.CopyOnSelect != nil {
		settings.CopyOnSelect = *sel.CopyOnSelect
	}
	if sel.MultiClickMs != nil && *sel.MultiClickMs > 0 {
		settings.MultiClickMs = *sel.MultiClickMs
	}
	if sel.WidthMethod != nil {
		switch *sel.WidthMethod {
		case "grapheme", "wcwidth":
			settings.WidthMethod = *sel.WidthMethod
		}
	}
	if sel.Scrollback != nil && *sel.Scrollback >= 0 {
		settings.Scrollback = *sel.Scrollback
	}
	if sel.DefaultFg != nil {
		settings.DefaultFg = *sel.DefaultFg
	}
	if sel.DefaultBg != nil {
		settings.DefaultBg = *sel.DefaultBg
	}
	return settings
}

func saveSelectionSettings(path string, settings SelectionSettings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	payload := map[string]any{}
	if existing, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(existing, &payload)
	}

	sel, ok := payload["selection"].(map[string]any)
	if !ok || sel == nil {
		sel = map[string]any{}
	}
	sel["word_delimiters"] = settings.WordDelimiters
	sel["trim_block_selection"] = settings.TrimBlockSelection
	sel["copy_on_select"] = settings.CopyOnSelect
	sel["multi_click_ms"] = settings.MultiClickMs
	sel["width_method"] = settings.WidthMethod
	sel["scrollback"] = settings.Scrollback
	sel["default_fg"] = settings.DefaultFg
	sel["default_bg"] = settings.DefaultBg
	payload["selection"] = sel

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveSelectionSettings persists selection settings to the config file.
func (c *Config) SaveSelectionSettings() error {
	if c == nil || c.Paths == nil {
		return nil
	}
	return saveSelectionSettings(c.Paths.ConfigPath, c.Selection)
}
