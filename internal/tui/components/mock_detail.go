package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MockDetail is a read-only panel showing one mock.
type MockDetail struct {
	title    string
	focused  bool
	width    int
	height   int
	mock     *core.Mock
	selected int
	scroll   int
}

// NewMockDetail creates an empty detail panel.
func NewMockDetail() *MockDetail {
	return &MockDetail{title: "Mock"}
}

// Init initializes the component.
func (d *MockDetail) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (d *MockDetail) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.SetSize(msg.Width, msg.Height)
	case tui.FocusMsg:
		d.focused = true
	case tui.BlurMsg:
		d.focused = false
	case SelectionChangedMsg:
		d.SetMock(msg.First, msg.Count)
	case tea.KeyMsg:
		if !d.focused {
			return d, nil
		}
		switch msg.String() {
		case "j", "down":
			d.scrollBy(1)
		case "k", "up":
			d.scrollBy(-1)
		}
	}
	return d, nil
}

// SetMock shows m; selected is the size of the whole selection.
func (d *MockDetail) SetMock(m *core.Mock, selected int) {
	if d.mock == nil || m == nil || d.mock.ID() != m.ID() {
		d.scroll = 0
	}
	d.mock = m
	d.selected = selected
}

// Mock returns the mock being shown.
func (d *MockDetail) Mock() *core.Mock {
	return d.mock
}

func (d *MockDetail) scrollBy(delta int) {
	lines := len(d.lines())
	d.scroll = MoveCursor(d.scroll, delta, lines)
}

func (d *MockDetail) lines() []string {
	if d.mock == nil {
		return nil
	}
	m := d.mock

	label := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	state := "active"
	if !m.Active() {
		state = "inactive"
	}
	if m.Captured() {
		state += ", captured"
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(m.Name()),
		fmt.Sprintf("%s %s", methodBadge(m.Method()), m.URL()),
		"",
		label.Render("Status  ") + statusStyle(m.Status()).Render(fmt.Sprintf("%d", m.Status())),
		label.Render("Delay   ") + m.Delay().String(),
		label.Render("State   ") + state,
	}
	if d.selected > 1 {
		lines = append(lines, label.Render(fmt.Sprintf("+%d more selected", d.selected-1)))
	}

	headers := m.Headers()
	if len(headers) > 0 {
		lines = append(lines, "", label.Render("Headers"))
		names := make([]string, 0, len(headers))
		for k := range headers {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			lines = append(lines, fmt.Sprintf("  %s: %s", k, headers[k]))
		}
	}

	if m.Response() != "" {
		lines = append(lines, "", label.Render("Response"))
		lines = append(lines, FormatBody(headers["Content-Type"], m.Response())...)
	}
	return lines
}

// View renders the component.
func (d *MockDetail) View() string {
	if d.width == 0 || d.height == 0 {
		return ""
	}

	innerWidth := d.width - 2
	innerHeight := d.height - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 2 {
		innerHeight = 2
	}

	parts := []string{tui.RenderTitle(d.title, innerWidth, d.focused)}

	body := d.lines()
	if body == nil {
		body = []string{lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Render("Select a mock to see its details")}
	}
	if d.scroll < len(body) {
		body = body[d.scroll:]
	}
	for i := 0; i < innerHeight-1; i++ {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		parts = append(parts, lipgloss.NewStyle().MaxWidth(innerWidth).Render(line))
	}

	return tui.RenderBorder(strings.Join(parts, "\n"), innerWidth, innerHeight, d.focused)
}

// Title returns the component title.
func (d *MockDetail) Title() string { return d.title }

// Focused returns true if focused.
func (d *MockDetail) Focused() bool { return d.focused }

// Focus sets the component as focused.
func (d *MockDetail) Focus() { d.focused = true }

// Blur removes focus.
func (d *MockDetail) Blur() { d.focused = false }

// SetSize sets dimensions.
func (d *MockDetail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Width returns the width.
func (d *MockDetail) Width() int { return d.width }

// Height returns the height.
func (d *MockDetail) Height() int { return d.height }

func statusStyle(code int) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch {
	case code >= 500:
		return style.Foreground(lipgloss.Color("160"))
	case code >= 400:
		return style.Foreground(lipgloss.Color("214"))
	case code >= 300:
		return style.Foreground(lipgloss.Color("33"))
	default:
		return style.Foreground(lipgloss.Color("34"))
	}
}

// methodBadge renders a compact colored method label.
func methodBadge(method string) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))

	switch strings.ToUpper(method) {
	case "GET":
		return style.Background(lipgloss.Color("34")).Render(" GET ")
	case "POST":
		return style.Background(lipgloss.Color("214")).Foreground(lipgloss.Color("0")).Render(" POST")
	case "PUT":
		return style.Background(lipgloss.Color("33")).Render(" PUT ")
	case "PATCH":
		return style.Background(lipgloss.Color("141")).Render(" PTCH")
	case "DELETE":
		return style.Background(lipgloss.Color("160")).Render(" DEL ")
	default:
		return style.Background(tui.ColorMuted).Render(fmt.Sprintf(" %-4s", tui.Truncate(method, 4)))
	}
}
