package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type pane struct {
	title   string
	focused bool
	width   int
	height  int
}

func (p *pane) Init() tea.Cmd                           { return nil }
func (p *pane) Update(msg tea.Msg) (Component, tea.Cmd) { return p, nil }
func (p *pane) View() string                            { return p.title }
func (p *pane) Title() string                           { return p.title }
func (p *pane) Focused() bool                           { return p.focused }
func (p *pane) Focus()                                  { p.focused = true }
func (p *pane) Blur()                                   { p.focused = false }
func (p *pane) SetSize(width, height int)               { p.width, p.height = width, height }
func (p *pane) Width() int                              { return p.width }
func (p *pane) Height() int                             { return p.height }

func TestComponentList(t *testing.T) {
	t.Run("starts with nothing focused", func(t *testing.T) {
		cl := NewComponentList(&pane{title: "a"})
		assert.Equal(t, -1, cl.FocusIndex())
		assert.Nil(t, cl.Focused())
	})

	t.Run("cycles forward and wraps", func(t *testing.T) {
		a, b := &pane{title: "a"}, &pane{title: "b"}
		cl := NewComponentList(a, b)

		cl.FocusNext()
		assert.True(t, a.Focused())
		cl.FocusNext()
		assert.False(t, a.Focused())
		assert.True(t, b.Focused())
		cl.FocusNext()
		assert.Equal(t, 0, cl.FocusIndex())
		assert.True(t, a.Focused())
	})

	t.Run("cycles backward and wraps", func(t *testing.T) {
		a, b, c := &pane{title: "a"}, &pane{title: "b"}, &pane{title: "c"}
		cl := NewComponentList(a, b, c)

		cl.FocusPrev()
		assert.Equal(t, 2, cl.FocusIndex())
		assert.True(t, c.Focused())
		cl.FocusPrev()
		assert.True(t, b.Focused())
		assert.False(t, c.Focused())
	})

	t.Run("ignores out of range index", func(t *testing.T) {
		a := &pane{title: "a"}
		cl := NewComponentList(a)
		cl.SetFocusIndex(0)
		cl.SetFocusIndex(5)
		cl.SetFocusIndex(-1)
		assert.Equal(t, 0, cl.FocusIndex())
		assert.Nil(t, cl.Get(5))
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		cl := NewComponentList()
		cl.FocusNext()
		cl.FocusPrev()
		assert.Equal(t, 0, cl.Len())
		assert.Nil(t, cl.Focused())
	})

	t.Run("get returns components by index", func(t *testing.T) {
		cl := NewComponentList(&pane{title: "x"})
		assert.Equal(t, 1, cl.Len())
		assert.Equal(t, "x", cl.Get(0).Title())
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"ellipsis", "hello world", 8, "hello..."},
		{"narrow", "hello", 2, "he"},
		{"zero", "hello", 0, ""},
		{"runes", "●●●●●●", 5, "●●..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "abc", PadRight("abcdef", 3))
	assert.Equal(t, "▼ a ", PadRight("▼ a", 4))
	assert.Equal(t, "", PadRight("abc", -1))
}

func TestRenderTitle(t *testing.T) {
	assert.Contains(t, RenderTitle("Mocks", 20, true), "Mocks")
	assert.Contains(t, RenderTitle("Mocks", 20, false), "Mocks")
}

func TestRenderBorder(t *testing.T) {
	out := RenderBorder("body", 10, 2, false)
	assert.Contains(t, out, "body")
	assert.Contains(t, out, "╭")
}
