// Package keys maps terminal key presses to sidebar actions.
package keys

import (
	"strings"

	"github.com/artpar/mockdeck/internal/config"
	"github.com/artpar/mockdeck/internal/sidebar"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is something a key can trigger in the sidebar.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionTop
	ActionBottom
	ActionSelect
	ActionToggle
	ActionRangeUp
	ActionRangeDown
	ActionRange
	ActionSearch
	ActionFilter
	ActionToggleActive
	ActionMenu
	ActionExpand
	ActionCollapse
	ActionDelete
	ActionCancel
	ActionConfirm
	ActionQuit
)

// Binding ties a key to an action.
type Binding struct {
	Key         string
	Action      Action
	Description string
}

// Matches returns true if the key message matches this binding.
func (b Binding) Matches(msg tea.KeyMsg) bool {
	return matchKey(b.Key, msg)
}

// matchKey compares a binding key with the message's canonical string.
// Case matters so that "g" and "G" stay distinct.
func matchKey(key string, msg tea.KeyMsg) bool {
	switch strings.ToLower(key) {
	case "space":
		return msg.Type == tea.KeySpace
	case "escape":
		return msg.Type == tea.KeyEsc
	}
	return msg.String() == key
}

// KeyMap holds key bindings organized by mode.
type KeyMap struct {
	bindings map[Mode][]Binding
}

// NewKeyMap creates a new empty key map.
func NewKeyMap() *KeyMap {
	return &KeyMap{
		bindings: make(map[Mode][]Binding),
	}
}

// Register adds a key binding for a mode.
func (km *KeyMap) Register(mode Mode, key string, action Action, description string) {
	km.bindings[mode] = append(km.bindings[mode], Binding{Key: key, Action: action, Description: description})
}

// Rebind replaces the key of every binding for action in mode.
func (km *KeyMap) Rebind(mode Mode, action Action, key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	for i, b := range km.bindings[mode] {
		if b.Action == action {
			km.bindings[mode][i].Key = key
		}
	}
}

// Bindings returns all bindings for a mode.
func (km *KeyMap) Bindings(mode Mode) []Binding {
	return km.bindings[mode]
}

// Find returns the action bound to msg in mode.
func (km *KeyMap) Find(mode Mode, msg tea.KeyMsg) (Action, bool) {
	for _, b := range km.bindings[mode] {
		if b.Matches(msg) {
			return b.Action, true
		}
	}
	return ActionNone, false
}

// Help renders the bindings of mode as "key desc" pairs.
func (km *KeyMap) Help(mode Mode) string {
	var parts []string
	for _, b := range km.bindings[mode] {
		if b.Description == "" {
			continue
		}
		parts = append(parts, b.Key+" "+b.Description)
	}
	return strings.Join(parts, " · ")
}

// DefaultKeyMap returns the built-in sidebar bindings.
func DefaultKeyMap() *KeyMap {
	km := NewKeyMap()

	km.Register(ModeNormal, "j", ActionDown, "down")
	km.Register(ModeNormal, "down", ActionDown, "")
	km.Register(ModeNormal, "k", ActionUp, "up")
	km.Register(ModeNormal, "up", ActionUp, "")
	km.Register(ModeNormal, "G", ActionBottom, "bottom")
	km.Register(ModeNormal, "enter", ActionSelect, "select")
	km.Register(ModeNormal, "space", ActionToggle, "toggle")
	km.Register(ModeNormal, "shift+up", ActionRangeUp, "")
	km.Register(ModeNormal, "shift+down", ActionRangeDown, "")
	km.Register(ModeNormal, "V", ActionRange, "range")
	km.Register(ModeNormal, "/", ActionSearch, "search")
	km.Register(ModeNormal, "f", ActionFilter, "filter")
	km.Register(ModeNormal, "a", ActionToggleActive, "on/off")
	km.Register(ModeNormal, "m", ActionMenu, "menu")
	km.Register(ModeNormal, "l", ActionExpand, "")
	km.Register(ModeNormal, "h", ActionCollapse, "")
	km.Register(ModeNormal, "esc", ActionCancel, "")
	km.Register(ModeNormal, "q", ActionQuit, "quit")

	km.Register(ModeSearch, "enter", ActionConfirm, "apply")
	km.Register(ModeSearch, "esc", ActionCancel, "clear")

	km.Register(ModeMenu, "j", ActionDown, "")
	km.Register(ModeMenu, "down", ActionDown, "")
	km.Register(ModeMenu, "k", ActionUp, "")
	km.Register(ModeMenu, "up", ActionUp, "")
	km.Register(ModeMenu, "enter", ActionConfirm, "run")
	km.Register(ModeMenu, "esc", ActionCancel, "close")

	return km
}

// FromConfig returns the default key map with cfg's overrides applied.
func FromConfig(cfg config.KeyConfig) *KeyMap {
	km := DefaultKeyMap()
	km.Rebind(ModeNormal, ActionSearch, cfg.Search)
	km.Rebind(ModeNormal, ActionFilter, cfg.Filter)
	km.Rebind(ModeNormal, ActionToggleActive, cfg.ToggleActive)
	km.Rebind(ModeNormal, ActionToggle, cfg.Toggle)
	km.Rebind(ModeNormal, ActionRange, cfg.Range)
	km.Rebind(ModeNormal, ActionMenu, cfg.Menu)
	return km
}

// ListKey translates a key press into the event the focus scope resolves.
// Terminals report ctrl+backspace as ctrl+h and deliver meta as alt.
func ListKey(msg tea.KeyMsg) sidebar.KeyEvent {
	switch msg.String() {
	case "delete":
		return sidebar.KeyEvent{Key: sidebar.KeyDelete}
	case "alt+delete":
		return sidebar.KeyEvent{Key: sidebar.KeyDelete, Modifiers: sidebar.Modifiers{Meta: true, Alt: true}}
	case "ctrl+delete":
		return sidebar.KeyEvent{Key: sidebar.KeyDelete, Modifiers: sidebar.Modifiers{Ctrl: true}}
	case "backspace":
		return sidebar.KeyEvent{Key: sidebar.KeyBackspace}
	case "ctrl+h":
		return sidebar.KeyEvent{Key: sidebar.KeyBackspace, Modifiers: sidebar.Modifiers{Ctrl: true}}
	case "alt+backspace":
		return sidebar.KeyEvent{Key: sidebar.KeyBackspace, Modifiers: sidebar.Modifiers{Meta: true, Alt: true}}
	case "left":
		return sidebar.KeyEvent{Key: sidebar.KeyLeft}
	case "right":
		return sidebar.KeyEvent{Key: sidebar.KeyRight}
	}
	return sidebar.KeyEvent{Key: sidebar.KeyOther}
}
