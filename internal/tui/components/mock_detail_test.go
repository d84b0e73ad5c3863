package components

import (
	"net/http"
	"testing"
	"time"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detailMock() *core.Mock {
	m := core.NewMockWithID("m1", "Login", "/auth/login")
	m.SetMethod(http.MethodPost)
	m.SetStatus(http.StatusCreated)
	m.SetDelay(250 * time.Millisecond)
	m.SetHeader("Content-Type", "application/json")
	m.SetResponse(`{"token":"abc"}`)
	return m
}

func TestMockDetail(t *testing.T) {
	t.Run("empty panel", func(t *testing.T) {
		d := NewMockDetail()
		assert.Equal(t, "Mock", d.Title())
		assert.Nil(t, d.Mock())
		assert.Empty(t, d.View(), "no size yet")

		d.SetSize(60, 20)
		assert.NotEmpty(t, d.View())
	})

	t.Run("selection change shows the first mock", func(t *testing.T) {
		d := NewMockDetail()
		d.SetSize(60, 20)
		d.Update(SelectionChangedMsg{Count: 3, First: detailMock()})

		require.NotNil(t, d.Mock())
		out := d.View()
		assert.Contains(t, out, "Login")
		assert.Contains(t, out, "/auth/login")
		assert.Contains(t, out, "201")
		assert.Contains(t, out, "250ms")
		assert.Contains(t, out, "+2 more selected")
		assert.Contains(t, out, "token")
	})

	t.Run("focus follows messages", func(t *testing.T) {
		d := NewMockDetail()
		d.Update(tui.FocusMsg{})
		assert.True(t, d.Focused())
		d.Update(tui.BlurMsg{})
		assert.False(t, d.Focused())
	})

	t.Run("scrolls only when focused", func(t *testing.T) {
		d := NewMockDetail()
		d.SetSize(60, 6)
		d.SetMock(detailMock(), 1)

		d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		assert.Equal(t, 0, d.scroll)

		d.Focus()
		d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		d.Update(tea.KeyMsg{Type: tea.KeyDown})
		assert.Equal(t, 2, d.scroll)
		d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
		assert.Equal(t, 1, d.scroll)
	})

	t.Run("switching mocks resets scroll", func(t *testing.T) {
		d := NewMockDetail()
		d.SetMock(detailMock(), 1)
		d.Focus()
		d.Update(tea.KeyMsg{Type: tea.KeyDown})
		require.Equal(t, 1, d.scroll)

		d.SetMock(detailMock(), 2)
		assert.Equal(t, 1, d.scroll, "same mock keeps position")

		d.SetMock(core.NewMockWithID("m2", "Logout", "/auth/logout"), 1)
		assert.Equal(t, 0, d.scroll)
	})

	t.Run("resizes on window message", func(t *testing.T) {
		d := NewMockDetail()
		d.Update(tea.WindowSizeMsg{Width: 50, Height: 10})
		assert.Equal(t, 50, d.Width())
		assert.Equal(t, 10, d.Height())
	})
}
