package keymap

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/andyrewlee/termsel/internal/config"
	"github.com/andyrewlee/termsel/internal/selection"
)

// Action identifies a configurable keybinding.
type Action string

const (
	ActionCellLeft  Action = "cell_left"
	ActionCellRight Action = "cell_right"
	ActionCellUp    Action = "cell_up"
	ActionCellDown  Action = "cell_down"

	ActionWordLeft  Action = "word_left"
	ActionWordRight Action = "word_right"
	ActionWordUp    Action = "word_up"
	ActionWordDown  Action = "word_down"

	ActionViewportLeft  Action = "viewport_left"
	ActionViewportRight Action = "viewport_right"
	ActionViewportUp    Action = "viewport_up"
	ActionViewportDown  Action = "viewport_down"

	ActionBufferStart Action = "buffer_start"
	ActionBufferEnd   Action = "buffer_end"

	ActionCopy        Action = "copy"
	ActionSelectAll   Action = "select_all"
	ActionBlockToggle Action = "block_toggle"
	ActionClear       Action = "clear"

	ActionScrollUp       Action = "scroll_up"
	ActionScrollDown     Action = "scroll_down"
	ActionScrollPageUp   Action = "scroll_page_up"
	ActionScrollPageDown Action = "scroll_page_down"
	ActionScrollTop      Action = "scroll_top"
	ActionScrollBottom   Action = "scroll_bottom"

	ActionSearch     Action = "search"
	ActionSearchNext Action = "search_next"
	ActionSearchPrev Action = "search_prev"

	ActionHelp Action = "help"
	ActionQuit Action = "quit"
)

type bindingDef struct {
	action Action
	keys   []string
	desc   string
}

// Movement pairs a key binding with the selection move it performs.
type Movement struct {
	Binding   key.Binding
	Direction selection.Direction
	Mode      selection.Expansion
}

// KeyMap defines all keybindings for the viewer.
type KeyMap struct {
	CellLeft  key.Binding
	CellRight key.Binding
	CellUp    key.Binding
	CellDown  key.Binding

	WordLeft  key.Binding
	WordRight key.Binding
	WordUp    key.Binding
	WordDown  key.Binding

	ViewportLeft  key.Binding
	ViewportRight key.Binding
	ViewportUp    key.Binding
	ViewportDown  key.Binding

	BufferStart key.Binding
	BufferEnd   key.Binding

	Copy        key.Binding
	SelectAll   key.Binding
	BlockToggle key.Binding
	Clear       key.Binding

	ScrollUp       key.Binding
	ScrollDown     key.Binding
	ScrollPageUp   key.Binding
	ScrollPageDown key.Binding
	ScrollTop      key.Binding
	ScrollBottom   key.Binding

	Search     key.Binding
	SearchNext key.Binding
	SearchPrev key.Binding

	Help key.Binding
	Quit key.Binding
}

var defaultDefs = []bindingDef{
	{action: ActionCellLeft, keys: []string{"shift+left", "H"}, desc: "extend left"},
	{action: ActionCellRight, keys: []string{"shift+right", "L"}, desc: "extend right"},
	{action: ActionCellUp, keys: []string{"shift+up", "K"}, desc: "extend up"},
	{action: ActionCellDown, keys: []string{"shift+down", "J"}, desc: "extend down"},

	{action: ActionWordLeft, keys: []string{"ctrl+shift+left", "b"}, desc: "extend word left"},
	{action: ActionWordRight, keys: []string{"ctrl+shift+right", "w"}, desc: "extend word right"},
	{action: ActionWordUp, keys: []string{"ctrl+shift+up"}, desc: "extend word up"},
	{action: ActionWordDown, keys: []string{"ctrl+shift+down"}, desc: "extend word down"},

	{action: ActionViewportLeft, keys: []string{"shift+home", "0"}, desc: "extend to line start"},
	{action: ActionViewportRight, keys: []string{"shift+end", "$"}, desc: "extend to line end"},
	{action: ActionViewportUp, keys: []string{"shift+pgup"}, desc: "extend page up"},
	{action: ActionViewportDown, keys: []string{"shift+pgdown"}, desc: "extend page down"},

	{action: ActionBufferStart, keys: []string{"ctrl+shift+home"}, desc: "extend to top"},
	{action: ActionBufferEnd, keys: []string{"ctrl+shift+end"}, desc: "extend to bottom"},

	{action: ActionCopy, keys: []string{"y", "enter", "ctrl+c"}, desc: "copy"},
	{action: ActionSelectAll, keys: []string{"ctrl+a"}, desc: "select all"},
	{action: ActionBlockToggle, keys: []string{"ctrl+b"}, desc: "block mode"},
	{action: ActionClear, keys: []string{"esc"}, desc: "clear"},

	{action: ActionScrollUp, keys: []string{"up", "k"}, desc: "scroll up"},
	{action: ActionScrollDown, keys: []string{"down", "j"}, desc: "scroll down"},
	{action: ActionScrollPageUp, keys: []string{"pgup", "ctrl+u"}, desc: "page up"},
	{action: ActionScrollPageDown, keys: []string{"pgdown", "ctrl+d"}, desc: "page down"},
	{action: ActionScrollTop, keys: []string{"home", "g"}, desc: "top"},
	{action: ActionScrollBottom, keys: []string{"end", "G"}, desc: "bottom"},

	{action: ActionSearch, keys: []string{"/"}, desc: "search"},
	{action: ActionSearchNext, keys: []string{"n"}, desc: "next match"},
	{action: ActionSearchPrev, keys: []string{"N"}, desc: "previous match"},

	{action: ActionHelp, keys: []string{"?"}, desc: "help"},
	{action: ActionQuit, keys: []string{"q", "ctrl+q"}, desc: "quit"},
}

// New builds a keymap from defaults, applying any user overrides.
func New(cfg config.KeyMapConfig) KeyMap {
	b := make(map[Action]key.Binding, len(defaultDefs))
	for _, def := range defaultDefs {
		b[def.action] = bindingFromDef(cfg, def)
	}
	return KeyMap{
		CellLeft:  b[ActionCellLeft],
		CellRight: b[ActionCellRight],
		CellUp:    b[ActionCellUp],
		CellDown:  b[ActionCellDown],

		WordLeft:  b[ActionWordLeft],
		WordRight: b[ActionWordRight],
		WordUp:    b[ActionWordUp],
		WordDown:  b[ActionWordDown],

		ViewportLeft:  b[ActionViewportLeft],
		ViewportRight: b[ActionViewportRight],
		ViewportUp:    b[ActionViewportUp],
		ViewportDown:  b[ActionViewportDown],

		BufferStart: b[ActionBufferStart],
		BufferEnd:   b[ActionBufferEnd],

		Copy:        b[ActionCopy],
		SelectAll:   b[ActionSelectAll],
		BlockToggle: b[ActionBlockToggle],
		Clear:       b[ActionClear],

		ScrollUp:       b[ActionScrollUp],
		ScrollDown:     b[ActionScrollDown],
		ScrollPageUp:   b[ActionScrollPageUp],
		ScrollPageDown: b[ActionScrollPageDown],
		ScrollTop:      b[ActionScrollTop],
		ScrollBottom:   b[ActionScrollBottom],

		Search:     b[ActionSearch],
		SearchNext: b[ActionSearchNext],
		SearchPrev: b[ActionSearchPrev],

		Help: b[ActionHelp],
		Quit: b[ActionQuit],
	}
}

func bindingFromDef(cfg config.KeyMapConfig, def bindingDef) key.Binding {
	keys, ok := cfg.BindingFor(string(def.action))
	if !ok {
		keys = def.keys
	}
	helpKey := strings.Join(keys, "/")
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, def.desc),
	)
}

// Movements lists the selection-extending bindings in match order. Buffer
// start and end map to Up and Down, which land on the same corners as Left
// and Right.
func (km KeyMap) Movements() []Movement {
	return []Movement{
		{km.CellLeft, selection.DirLeft, selection.ExpandCell},
		{km.CellRight, selection.DirRight, selection.ExpandCell},
		{km.CellUp, selection.DirUp, selection.ExpandCell},
		{km.CellDown, selection.DirDown, selection.ExpandCell},
		{km.WordLeft, selection.DirLeft, selection.ExpandWord},
		{km.WordRight, selection.DirRight, selection.ExpandWord},
		{km.WordUp, selection.DirUp, selection.ExpandWord},
		{km.WordDown, selection.DirDown, selection.ExpandWord},
		{km.ViewportLeft, selection.DirLeft, selection.ExpandViewport},
		{km.ViewportRight, selection.DirRight, selection.ExpandViewport},
		{km.ViewportUp, selection.DirUp, selection.ExpandViewport},
		{km.ViewportDown, selection.DirDown, selection.ExpandViewport},
		{km.BufferStart, selection.DirUp, selection.ExpandBuffer},
		{km.BufferEnd, selection.DirDown, selection.ExpandBuffer},
	}
}

// PrimaryKey returns the first key in the binding, if present.
func PrimaryKey(binding key.Binding) string {
	keys := binding.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// BindingHint returns a single key hint for a binding, falling back to help text.
func BindingHint(binding key.Binding) string {
	key := PrimaryKey(binding)
	if key == "" {
		return binding.Help().Key
	}
	return key
}

// PairHint joins two bindings with a slash using their primary keys.
func PairHint(a, b key.Binding) string {
	left := BindingHint(a)
	right := BindingHint(b)
	if left == "" {
		return right
	}
	if right == "" {
		return left
	}
	return left + "/" + right
}

// SequenceHint joins multiple bindings with slashes using their primary keys.
func SequenceHint(bindings ...key.Binding) string {
	var keys []string
	for _, binding := range bindings {
		key := BindingHint(binding)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return strings.Join(keys, "/")
}

// ActionInfo describes a configurable action for UI display.
type ActionInfo struct {
	Action Action
	Desc   string
	Group  string
}

// ActionInfos returns the ordered list of actions for UI display.
func ActionInfos() []ActionInfo {
	return []ActionInfo{
		{Action: ActionCellLeft, Desc: "Extend by cell", Group: "Select"},
		{Action: ActionWordRight, Desc: "Extend by word", Group: "Select"},
		{Action: ActionViewportDown, Desc: "Extend by page", Group: "Select"},
		{Action: ActionBufferEnd, Desc: "Extend to buffer end", Group: "Select"},
		{Action: ActionSelectAll, Desc: "Select all", Group: "Select"},
		{Action: ActionBlockToggle, Desc: "Toggle block mode", Group: "Select"},
		{Action: ActionClear, Desc: "Clear selection", Group: "Select"},
		{Action: ActionCopy, Desc: "Copy selection", Group: "Select"},
		{Action: ActionScrollPageUp, Desc: "Page up", Group: "Scroll"},
		{Action: ActionScrollPageDown, Desc: "Page down", Group: "Scroll"},
		{Action: ActionScrollTop, Desc: "Top", Group: "Scroll"},
		{Action: ActionScrollBottom, Desc: "Bottom", Group: "Scroll"},
		{Action: ActionSearch, Desc: "Search", Group: "Search"},
		{Action: ActionSearchNext, Desc: "Next match", Group: "Search"},
		{Action: ActionHelp, Desc: "Toggle help", Group: "Global"},
		{Action: ActionQuit, Desc: "Quit", Group: "Global"},
	}
}

// BindingForAction returns the binding for the given action.
func BindingForAction(km KeyMap, action Action) key.Binding {
	switch action {
	case ActionCellLeft:
		return km.CellLeft
	case ActionCellRight:
		return km.CellRight
	case ActionCellUp:
		return km.CellUp
	case ActionCellDown:
		return km.CellDown
	case ActionWordLeft:
		return km.WordLeft
	case ActionWordRight:
		return km.WordRight
	case ActionWordUp:
		return km.WordUp
	case ActionWordDown:
		return km.WordDown
	case ActionViewportLeft:
		return km.ViewportLeft
	case ActionViewportRight:
		return km.ViewportRight
	case ActionViewportUp:
		return km.ViewportUp
	case ActionViewportDown:
		return km.ViewportDown
	case ActionBufferStart:
		return km.BufferStart
	case ActionBufferEnd:
		return km.BufferEnd
	case ActionCopy:
		return km.Copy
	case ActionSelectAll:
		return km.SelectAll
	case ActionBlockToggle:
		return km.BlockToggle
	case ActionClear:
		return km.Clear
	case ActionScrollUp:
		return km.ScrollUp
	case ActionScrollDown:
		return km.ScrollDown
	case ActionScrollPageUp:
		return km.ScrollPageUp
	case ActionScrollPageDown:
		return km.ScrollPageDown
	case ActionScrollTop:
		return km.ScrollTop
	case ActionScrollBottom:
		return km.ScrollBottom
	case ActionSearch:
		return km.Search
	case ActionSearchNext:
		return km.SearchNext
	case ActionSearchPrev:
		return km.SearchPrev
	case ActionHelp:
		return km.Help
	case ActionQuit:
		return km.Quit
	default:
		return key.Binding{}
	}
}
