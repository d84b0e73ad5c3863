package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Component is the interface for all TUI panes.
type Component interface {
	Init() tea.Cmd

	// Update handles messages and returns the updated component.
	Update(msg tea.Msg) (Component, tea.Cmd)

	View() string

	// Title returns the pane title.
	Title() string

	Focused() bool
	Focus()
	Blur()

	// SetSize sets the pane dimensions including its border.
	SetSize(width, height int)
	Width() int
	Height() int
}

// FocusMsg is sent when a component should gain focus.
type FocusMsg struct{}

// BlurMsg is sent when a component should lose focus.
type BlurMsg struct{}

// RefreshMsg is sent after the underlying data changed and the pane should
// re-read it.
type RefreshMsg struct{}

// ComponentList manages a list of components with focus cycling.
type ComponentList struct {
	components []Component
	focusIndex int
}

// NewComponentList creates a component list with nothing focused.
func NewComponentList(components ...Component) *ComponentList {
	return &ComponentList{
		components: components,
		focusIndex: -1,
	}
}

// Len returns the number of components.
func (cl *ComponentList) Len() int {
	return len(cl.components)
}

// Get returns a component by index, or nil when out of range.
func (cl *ComponentList) Get(index int) Component {
	if index < 0 || index >= len(cl.components) {
		return nil
	}
	return cl.components[index]
}

// FocusNext cycles focus to the next component.
func (cl *ComponentList) FocusNext() {
	if len(cl.components) == 0 {
		return
	}
	cl.setFocus((cl.focusIndex + 1) % len(cl.components))
}

// FocusPrev cycles focus to the previous component.
func (cl *ComponentList) FocusPrev() {
	if len(cl.components) == 0 {
		return
	}
	prev := cl.focusIndex - 1
	if prev < 0 {
		prev = len(cl.components) - 1
	}
	cl.setFocus(prev)
}

// FocusIndex returns the current focus index, -1 when nothing is focused.
func (cl *ComponentList) FocusIndex() int {
	return cl.focusIndex
}

// SetFocusIndex moves focus to index. Out of range indexes are ignored.
func (cl *ComponentList) SetFocusIndex(index int) {
	if index < 0 || index >= len(cl.components) {
		return
	}
	cl.setFocus(index)
}

// Focused returns the currently focused component.
func (cl *ComponentList) Focused() Component {
	return cl.Get(cl.focusIndex)
}

func (cl *ComponentList) setFocus(index int) {
	if index == cl.focusIndex {
		return
	}
	if cur := cl.Get(cl.focusIndex); cur != nil {
		cur.Blur()
	}
	cl.focusIndex = index
	cl.components[index].Focus()
}

// Pane colors shared by every component.
var (
	ColorAccent = lipgloss.Color("62")
	ColorMuted  = lipgloss.Color("240")
	ColorTitle  = lipgloss.Color("229")
	ColorText   = lipgloss.Color("252")
	ColorIdle   = lipgloss.Color("238")
)

// RenderTitle renders a centered pane title, highlighted while focused.
func RenderTitle(title string, width int, focused bool) string {
	fg, bg := ColorText, ColorIdle
	if focused {
		fg, bg = ColorTitle, ColorAccent
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(fg).
		Background(bg).
		Render(Truncate(title, width))
}

// RenderBorder wraps content in a rounded border sized to width x height.
func RenderBorder(content string, width, height int, focused bool) string {
	border := ColorMuted
	if focused {
		border = ColorAccent
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(content)
}

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// PadRight pads s with spaces to width runes, cutting it when longer.
func PadRight(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:max(width, 0)])
	}
	return s + strings.Repeat(" ", width-len(r))
}
