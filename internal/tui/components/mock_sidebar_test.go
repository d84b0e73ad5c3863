package components

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/filter"
	"github.com/artpar/mockdeck/internal/mockapi"
	"github.com/artpar/mockdeck/internal/sidebar"
	"github.com/artpar/mockdeck/internal/storage/sqlite"
	"github.com/artpar/mockdeck/internal/tui"
	"github.com/artpar/mockdeck/internal/tui/keys"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sidebar rows once sized: g1, m1, m2, g2, m3, m4 from line 3.
const (
	lineG1 = rowsTop + iota
	lineM1
	lineM2
	lineG2
	lineM3
	lineM4
)

type sidebarFixture struct {
	sb     *MockSidebar
	api    *mockapi.API
	copied []string
}

// newSidebarFixture stores Auth{Login, Logout(off)}, Billing{Invoices(500)}
// and an ungrouped Health mock behind a focused, sized sidebar.
func newSidebarFixture(t *testing.T, opts ...SidebarOption) *sidebarFixture {
	t.Helper()
	store, err := sqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.SaveGroup(ctx, core.NewGroupWithID("g1", "Auth")))
	require.NoError(t, store.SaveGroup(ctx, core.NewGroupWithID("g2", "Billing")))

	login := core.NewMockWithID("m1", "Login", "/auth/login")
	login.SetMethod(http.MethodPost)
	login.SetGroupID("g1")
	logout := core.NewMockWithID("m2", "Logout", "/auth/logout")
	logout.SetGroupID("g1")
	logout.SetActive(false)
	invoices := core.NewMockWithID("m3", "Invoices", "/billing/invoices")
	invoices.SetGroupID("g2")
	invoices.SetStatus(http.StatusInternalServerError)
	health := core.NewMockWithID("m4", "Health", "/health")
	for _, m := range []*core.Mock{login, logout, invoices, health} {
		require.NoError(t, store.SaveMock(ctx, m))
	}

	api, err := mockapi.New(ctx, store)
	require.NoError(t, err)

	host := sidebar.NewHost(api, sidebar.WithStrict(true))
	host.Activate()
	t.Cleanup(host.Close)

	f := &sidebarFixture{api: api}
	opts = append([]SidebarOption{WithClipboard(func(s string) error {
		f.copied = append(f.copied, s)
		return nil
	})}, opts...)
	f.sb = NewMockSidebar(host, api, opts...)
	f.sb.SetSize(40, 20)
	f.sb.Focus()
	return f
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case "alt+delete":
		return tea.KeyMsg{Type: tea.KeyDelete, Alt: true}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (f *sidebarFixture) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = f.sb.Update(key(k))
	}
	return cmd
}

func (f *sidebarFixture) mouse(msg tea.MouseMsg) tea.Cmd {
	_, cmd := f.sb.Update(msg)
	return cmd
}

func (f *sidebarFixture) clickRow(y int, shift, ctrl bool) tea.Cmd {
	f.mouse(tea.MouseMsg{X: 4, Y: y, Shift: shift, Ctrl: ctrl, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return f.mouse(tea.MouseMsg{X: 4, Y: y, Shift: shift, Ctrl: ctrl, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func (f *sidebarFixture) selected() []string {
	return ids(f.sb.Host().SelectedItems())
}

func (f *sidebarFixture) rows() []string {
	return ids(f.sb.Rows())
}

func statusOf(t *testing.T, cmd tea.Cmd) StatusMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(StatusMsg)
	require.True(t, ok, "expected a StatusMsg")
	return msg
}

func TestMockSidebar_Cursor(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected int
	}{
		{"starts at top", nil, 0},
		{"j moves down", []string{"j", "j"}, 2},
		{"arrow moves down", []string{"down"}, 1},
		{"k clamps at top", []string{"k"}, 0},
		{"G jumps to bottom", []string{"G"}, 5},
		{"gg jumps to top", []string{"G", "g", "g"}, 0},
		{"j clamps at bottom", []string{"G", "j"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSidebarFixture(t)
			f.press(tt.keys...)
			assert.Equal(t, tt.expected, f.sb.Cursor())
		})
	}

	t.Run("ignores keys when unfocused", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.sb.Blur()
		f.press("j")
		assert.Equal(t, 0, f.sb.Cursor())
		assert.False(t, f.sb.Host().Armed())
	})
}

func TestMockSidebar_KeyboardSelection(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected []string
	}{
		{"enter selects cursor row", []string{"j", "enter"}, []string{"m1"}},
		{"enter replaces selection", []string{"j", "enter", "j", "enter"}, []string{"m2"}},
		{"space adds rows", []string{"j", "space", "j", "j", "space"}, []string{"m1", "g2"}},
		{"space removes a row", []string{"j", "space", "space"}, []string{}},
		{"shift+down extends range", []string{"j", "enter", "shift+down", "shift+down"}, []string{"m1", "m2", "g2"}},
		{"V extends to cursor", []string{"enter", "G", "V"}, []string{"g1", "m1", "m2", "g2", "m3", "m4"}},
		{"V without selection selects row", []string{"j", "j", "V"}, []string{"m2"}},
		{"esc clears selection", []string{"j", "enter", "esc"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSidebarFixture(t)
			f.press(tt.keys...)
			assert.ElementsMatch(t, tt.expected, f.selected())
		})
	}

	t.Run("selection change reports first mock", func(t *testing.T) {
		f := newSidebarFixture(t)
		cmd := f.press("enter", "j", "space")
		require.NotNil(t, cmd)
		msg, ok := cmd().(SelectionChangedMsg)
		require.True(t, ok)
		assert.Equal(t, 2, msg.Count)
		require.NotNil(t, msg.First)
		assert.Equal(t, "m1", msg.First.ID())
	})
}

func TestMockSidebar_ListKeys(t *testing.T) {
	t.Run("h collapses selected groups", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("enter", "h")

		g, ok := f.api.Group("g1")
		require.True(t, ok)
		assert.False(t, g.Active())
		assert.Equal(t, []string{"g1", "g2", "m3", "m4"}, f.rows())

		f.press("l")
		assert.Equal(t, []string{"g1", "m1", "m2", "g2", "m3", "m4"}, f.rows())
	})

	t.Run("arrows do nothing without selected groups", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("j", "enter")
		cmd := f.press("h")
		assert.Nil(t, cmd)
		g, _ := f.api.Group("g1")
		assert.True(t, g.Active())
	})

	t.Run("alt+delete removes selection", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("G", "enter")
		msg := statusOf(t, f.press("alt+delete"))
		assert.Equal(t, "deleted selection", msg.Text)

		_, ok := f.api.Mock("m4")
		assert.False(t, ok)
		assert.Empty(t, f.selected())
		assert.Equal(t, 4, f.sb.Cursor(), "cursor clamps to the shorter list")
	})

	t.Run("plain delete is ignored", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("G", "enter")
		assert.Nil(t, f.press("delete"))
		_, ok := f.api.Mock("m4")
		assert.True(t, ok)
	})

	t.Run("a toggles the cursor row", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("j", "a")
		m, _ := f.api.Mock("m1")
		assert.False(t, m.Active())

		f.press("a")
		m, _ = f.api.Mock("m1")
		assert.True(t, m.Active())
	})
}

func TestMockSidebar_Search(t *testing.T) {
	t.Run("typing narrows the list", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("/")
		assert.Equal(t, keys.ModeSearch, f.sb.Mode())

		f.press("l", "o", "g")
		assert.Equal(t, "log", f.sb.SearchQuery())
		assert.Equal(t, []string{"g1", "m1", "m2"}, f.rows())
	})

	t.Run("group name keeps its members", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("/", "b", "i", "l", "l")
		assert.Equal(t, []string{"g2", "m3"}, f.rows())
	})

	t.Run("backspace widens again", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("/", "h", "e", "x")
		assert.Empty(t, f.rows())
		f.press("backspace")
		assert.Equal(t, "he", f.sb.SearchQuery())
		assert.Equal(t, []string{"m4"}, f.rows())
	})

	t.Run("enter keeps the query", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("/", "h", "e", "enter")
		assert.Equal(t, keys.ModeNormal, f.sb.Mode())
		assert.Equal(t, "he", f.sb.SearchQuery())

		f.press("esc")
		assert.Empty(t, f.sb.SearchQuery())
		assert.Len(t, f.rows(), 6)
	})

	t.Run("esc clears while typing", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("/", "h", "e", "esc")
		assert.Equal(t, keys.ModeNormal, f.sb.Mode())
		assert.Empty(t, f.sb.SearchQuery())
		assert.Len(t, f.rows(), 6)
	})

	t.Run("filtering drops the selection", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("j", "enter", "/", "x")
		assert.Empty(t, f.selected())
		assert.Equal(t, 0, f.sb.Cursor())
	})
}

func TestMockSidebar_Filter(t *testing.T) {
	t.Run("f cycles presets", func(t *testing.T) {
		f := newSidebarFixture(t)
		msg := statusOf(t, f.press("f"))
		assert.Equal(t, filter.PresetCaptured, f.sb.Preset())
		assert.Equal(t, "filter: captured", msg.Text)
		assert.Empty(t, f.rows())

		f.press("f")
		assert.Equal(t, filter.PresetActive, f.sb.Preset())
		assert.Equal(t, []string{"g1", "m1", "g2", "m3", "m4"}, f.rows())
	})

	t.Run("preset option applies at start", func(t *testing.T) {
		f := newSidebarFixture(t, WithPreset(filter.PresetErrors))
		assert.Equal(t, []string{"g2", "m3"}, f.rows())
		assert.Contains(t, f.sb.View(), "[errors]")
	})

	t.Run("script narrows every filter", func(t *testing.T) {
		script, err := filter.Compile(`mock.method === "POST"`)
		require.NoError(t, err)
		f := newSidebarFixture(t, WithScript(script))
		assert.Equal(t, []string{"g1", "m1"}, f.rows())

		f.press("/", "x")
		assert.Empty(t, f.rows())
	})
}

func TestMockSidebar_Menu(t *testing.T) {
	t.Run("m opens and esc closes", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("m")
		assert.Equal(t, keys.ModeMenu, f.sb.Mode())
		assert.True(t, f.sb.Menu().Visible())
		assert.Contains(t, f.sb.View(), "Collapse all groups")

		f.press("esc")
		assert.Equal(t, keys.ModeNormal, f.sb.Mode())
		assert.False(t, f.sb.Menu().Visible())
	})

	t.Run("copy URLs of selected mocks", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("j", "enter", "shift+down", "m", "j", "j", "j")
		msg := statusOf(t, f.press("enter"))
		assert.Equal(t, "copied 2 URL(s)", msg.Text)
		assert.Equal(t, []string{"/auth/login\n/auth/logout"}, f.copied)
		assert.Equal(t, keys.ModeNormal, f.sb.Mode())
	})

	t.Run("copy failure is reported", func(t *testing.T) {
		f := newSidebarFixture(t, WithClipboard(func(string) error { return errors.New("no display") }))
		f.press("j", "enter", "m", "j", "j", "j")
		msg := statusOf(t, f.press("enter"))
		assert.Equal(t, "copy failed", msg.Text)
		assert.EqualError(t, msg.Err, "no display")
	})

	t.Run("move out of group", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("j", "enter", "m", "j", "j", "j", "j", "enter")
		m, _ := f.api.Mock("m1")
		assert.False(t, m.Grouped())
		assert.Equal(t, []string{"g1", "m2", "g2", "m3", "m1", "m4"}, f.rows())
	})

	t.Run("collapse all", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("m", "j", "enter")
		assert.Equal(t, []string{"g1", "g2", "m4"}, f.rows())

		f.press("m", "enter")
		assert.Len(t, f.rows(), 6)
	})

	t.Run("delete selection", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("G", "enter", "m", "j", "j", "j", "j")
		msg := statusOf(t, f.press("enter"))
		assert.Equal(t, "deleted 1 item(s)", msg.Text)
		_, ok := f.api.Mock("m4")
		assert.False(t, ok)
	})

	t.Run("toggle active on selection", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("j", "enter", "j", "space", "m", "j", "j", "enter")
		m1, _ := f.api.Mock("m1")
		m2, _ := f.api.Mock("m2")
		assert.False(t, m1.Active())
		assert.True(t, m2.Active())
	})
}

func TestMockSidebar_Mouse(t *testing.T) {
	t.Run("click selects", func(t *testing.T) {
		f := newSidebarFixture(t)
		cmd := f.clickRow(lineM3, false, false)
		assert.Equal(t, []string{"m3"}, f.selected())
		assert.Equal(t, 4, f.sb.Cursor())
		msg, ok := cmd().(SelectionChangedMsg)
		require.True(t, ok)
		assert.Equal(t, "m3", msg.First.ID())
	})

	t.Run("ctrl click toggles", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.clickRow(lineM1, false, false)
		f.clickRow(lineM4, false, true)
		assert.Equal(t, []string{"m1", "m4"}, f.selected())
		f.clickRow(lineM1, false, true)
		assert.Equal(t, []string{"m4"}, f.selected())
	})

	t.Run("shift click extends from first in list order", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.clickRow(lineM3, false, false)
		f.clickRow(lineM1, false, true)
		f.clickRow(lineM4, true, false)
		assert.Equal(t, []string{"m3", "m1", "m2", "g2", "m4"}, f.selected())
	})

	t.Run("shift click without selection selects target", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.clickRow(lineM2, true, false)
		assert.Equal(t, []string{"m2"}, f.selected())
	})

	t.Run("click below rows does nothing", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.clickRow(lineM1, false, false)
		assert.Nil(t, f.clickRow(15, false, false))
		assert.Equal(t, []string{"m1"}, f.selected())
	})

	t.Run("right click opens menu on row", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.mouse(tea.MouseMsg{X: 4, Y: lineG2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
		assert.Equal(t, []string{"g2"}, f.selected())
		assert.Equal(t, keys.ModeMenu, f.sb.Mode())
		assert.Equal(t, 3, f.sb.Menu().Row())

		f.mouse(tea.MouseMsg{X: 4, Y: lineM4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		assert.False(t, f.sb.Menu().Visible())
		assert.Equal(t, keys.ModeNormal, f.sb.Mode())
	})

	t.Run("right click keeps a multi selection", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.clickRow(lineM1, false, false)
		f.clickRow(lineM3, false, true)
		f.mouse(tea.MouseMsg{X: 4, Y: lineM4, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
		assert.Equal(t, []string{"m1", "m3"}, f.selected())
	})

	t.Run("wheel moves cursor", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.mouse(tea.MouseMsg{X: 4, Y: lineG1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
		f.mouse(tea.MouseMsg{X: 4, Y: lineG1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
		assert.Equal(t, 2, f.sb.Cursor())
		f.mouse(tea.MouseMsg{X: 4, Y: lineG1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
		assert.Equal(t, 1, f.sb.Cursor())
	})
}

func TestMockSidebar_DragDrop(t *testing.T) {
	drag := func(f *sidebarFixture, from, to int) tea.Cmd {
		f.mouse(tea.MouseMsg{X: 4, Y: from, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		f.mouse(tea.MouseMsg{X: 4, Y: to, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
		return f.mouse(tea.MouseMsg{X: 4, Y: to, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	}

	tests := []struct {
		name      string
		mock      string
		from, to  int
		wantGroup string
		moved     bool
	}{
		{"ungrouped onto group row", "m4", lineM4, lineG2, "g2", true},
		{"ungrouped onto grouped mock", "m4", lineM4, lineM1, "g1", true},
		{"grouped onto other group", "m1", lineM1, lineG2, "g2", true},
		{"grouped onto ungrouped mock", "m3", lineM3, lineM4, "", true},
		{"grouped onto empty space", "m1", lineM1, 15, "", true},
		{"onto own group row", "m1", lineM1, lineG1, "g1", false},
		{"onto sibling", "m1", lineM1, lineM2, "g1", false},
		{"ungrouped onto empty space", "m4", lineM4, 15, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSidebarFixture(t)
			cmd := drag(f, tt.from, tt.to)

			m, ok := f.api.Mock(tt.mock)
			require.True(t, ok)
			assert.Equal(t, tt.wantGroup, m.GroupID())
			if tt.moved {
				assert.Contains(t, statusOf(t, cmd).Text, "moved")
			} else {
				assert.Nil(t, cmd)
			}
		})
	}

	t.Run("dragging a group selects it instead", func(t *testing.T) {
		f := newSidebarFixture(t)
		drag(f, lineG1, lineG2)
		assert.Equal(t, []string{"g1"}, f.selected())
	})

	t.Run("drag highlights hovered row", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.mouse(tea.MouseMsg{X: 4, Y: lineM4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		f.mouse(tea.MouseMsg{X: 4, Y: lineG1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
		require.NotNil(t, f.sb.drag)
		assert.True(t, f.sb.drag.dragging)
		assert.Equal(t, 0, f.sb.drag.hover)
	})
}

func TestMockSidebar_Focus(t *testing.T) {
	f := newSidebarFixture(t)
	assert.True(t, f.sb.Host().Armed())

	f.sb.Update(tui.BlurMsg{})
	assert.False(t, f.sb.Focused())
	assert.False(t, f.sb.Host().Armed())

	f.sb.Update(tui.FocusMsg{})
	assert.True(t, f.sb.Focused())
	assert.True(t, f.sb.Host().Armed())
}

func TestMockSidebar_View(t *testing.T) {
	t.Run("renders rows", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("j", "enter")
		out := f.sb.View()
		assert.Contains(t, out, "Mocks (1 selected)")
		assert.Contains(t, out, "▼ Auth (2)")
		assert.Contains(t, out, "→  ● POST   Login")
		assert.Contains(t, out, "○ GET    Logout")
		assert.Contains(t, out, "search...")
	})

	t.Run("collapsed group marker", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("enter", "h")
		assert.Contains(t, f.sb.View(), "▶ Auth (2)")
	})

	t.Run("empty list", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("/", "z", "z", "z")
		out := f.sb.View()
		assert.Contains(t, out, "No mocks")
		assert.Contains(t, out, "/ zzz")
	})

	t.Run("no size renders nothing", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.sb.SetSize(0, 0)
		assert.Empty(t, f.sb.View())
	})

	t.Run("refresh clamps cursor", func(t *testing.T) {
		f := newSidebarFixture(t)
		f.press("G")
		require.NoError(t, f.api.DeleteItems(context.Background(), []string{"m3", "m4"}, nil))
		f.sb.Update(tui.RefreshMsg{})
		assert.Equal(t, 3, f.sb.Cursor())
	})

	t.Run("help reflects mode", func(t *testing.T) {
		f := newSidebarFixture(t)
		assert.Contains(t, f.sb.Help(), "search")
		f.press("/")
		assert.Contains(t, f.sb.Help(), "apply")
	})
}
