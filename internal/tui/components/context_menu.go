package components

import (
	"strings"

	"github.com/artpar/mockdeck/internal/tui"
	"github.com/charmbracelet/lipgloss"
)

// MenuAction identifies a context menu entry.
type MenuAction int

const (
	MenuExpandAll MenuAction = iota
	MenuCollapseAll
	MenuToggleActive
	MenuCopyURLs
	MenuMoveToRoot
	MenuDelete
)

// MenuEntry is one line of the context menu.
type MenuEntry struct {
	Action  MenuAction
	Label   string
	Enabled bool
}

// MenuState is what the menu needs to know about the selection.
type MenuState struct {
	HasSelection bool
	HasMocks     bool
	HasGroups    bool
	HasGrouped   bool
}

// ContextMenu is the sidebar's right-click menu.
type ContextMenu struct {
	visible bool
	entries []MenuEntry
	cursor  int
	row     int
}

// NewContextMenu creates a hidden menu.
func NewContextMenu() *ContextMenu {
	return &ContextMenu{}
}

// BuildMenu returns the entries enabled for state.
func BuildMenu(state MenuState) []MenuEntry {
	return []MenuEntry{
		{Action: MenuExpandAll, Label: "Expand all groups", Enabled: true},
		{Action: MenuCollapseAll, Label: "Collapse all groups", Enabled: true},
		{Action: MenuToggleActive, Label: "Toggle active", Enabled: state.HasSelection},
		{Action: MenuCopyURLs, Label: "Copy URLs", Enabled: state.HasMocks},
		{Action: MenuMoveToRoot, Label: "Move out of group", Enabled: state.HasGrouped},
		{Action: MenuDelete, Label: "Delete", Enabled: state.HasSelection},
	}
}

// Open shows the menu anchored at row.
func (m *ContextMenu) Open(state MenuState, row int) {
	m.entries = BuildMenu(state)
	m.visible = true
	m.row = row
	m.cursor = 0
	m.skipDisabled(1)
}

// Close hides the menu.
func (m *ContextMenu) Close() {
	m.visible = false
}

// Visible reports whether the menu is open.
func (m *ContextMenu) Visible() bool {
	return m.visible
}

// Row returns the list row the menu was opened on.
func (m *ContextMenu) Row() int {
	return m.row
}

// Entries returns the current entries.
func (m *ContextMenu) Entries() []MenuEntry {
	return m.entries
}

// Cursor returns the highlighted entry index.
func (m *ContextMenu) Cursor() int {
	return m.cursor
}

// Move moves the highlight by delta, skipping disabled entries.
func (m *ContextMenu) Move(delta int) {
	if len(m.entries) == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	for i := 0; i < abs(delta); i++ {
		next := m.cursor + step
		for next >= 0 && next < len(m.entries) && !m.entries[next].Enabled {
			next += step
		}
		if next < 0 || next >= len(m.entries) {
			return
		}
		m.cursor = next
	}
}

func (m *ContextMenu) skipDisabled(step int) {
	for m.cursor >= 0 && m.cursor < len(m.entries) && !m.entries[m.cursor].Enabled {
		m.cursor += step
	}
	if m.cursor >= len(m.entries) {
		m.cursor = 0
	}
}

// Selected returns the highlighted entry if it is enabled.
func (m *ContextMenu) Selected() (MenuEntry, bool) {
	if !m.visible || m.cursor < 0 || m.cursor >= len(m.entries) {
		return MenuEntry{}, false
	}
	e := m.entries[m.cursor]
	return e, e.Enabled
}

// Height returns the rendered height including the border.
func (m *ContextMenu) Height() int {
	return len(m.entries) + 2
}

// View renders the menu box.
func (m *ContextMenu) View(width int) string {
	if !m.visible {
		return ""
	}

	inner := width - 2
	if inner < 1 {
		inner = 1
	}

	var lines []string
	for i, e := range m.entries {
		label := tui.PadRight(" "+e.Label, inner)
		style := lipgloss.NewStyle()
		switch {
		case !e.Enabled:
			style = style.Foreground(tui.ColorMuted)
		case i == m.cursor:
			style = style.Background(tui.ColorAccent).Foreground(tui.ColorTitle)
		}
		lines = append(lines, style.Render(label))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("214")).
		Render(strings.Join(lines, "\n"))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
