package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/artpar/mockdeck/internal/mockapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommand(t *testing.T) {
	t.Run("adds a group", func(t *testing.T) {
		dir := t.TempDir()

		out, err := execute(t, dir, "add", "group", "Payments")
		require.NoError(t, err)
		assert.Contains(t, out, "Added group Payments [")

		listOut, err := execute(t, dir, "list")
		require.NoError(t, err)
		assert.Contains(t, listOut, "▼ Payments")
	})

	t.Run("adds a mock into a group", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir)

		out, err := execute(t, dir, "add", "mock", "Refund", "/refund",
			"-X", "put", "--status", "202", "-g", "g2", "-r", `{"ok":true}`, "-H", "X-Trace: 1")
		require.NoError(t, err)
		assert.Contains(t, out, "Added mock PUT /refund [")

		listOut, err := execute(t, dir, "list", "--json", "-q", "refund")
		require.NoError(t, err)

		var entries []listEntry
		require.NoError(t, json.Unmarshal([]byte(listOut), &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "g2", entries[0].ID)
		assert.Equal(t, "PUT", entries[1].Method)
		assert.Equal(t, 202, entries[1].Status)
		assert.Equal(t, "g2", entries[1].GroupID)
	})

	t.Run("adds an inactive root mock", func(t *testing.T) {
		dir := t.TempDir()

		_, err := execute(t, dir, "add", "mock", "Ping", "/ping", "--inactive")
		require.NoError(t, err)

		out, err := execute(t, dir, "list")
		require.NoError(t, err)
		got := lines(out)
		require.Len(t, got, 1)
		assert.Contains(t, got[0], "○ GET    200 /ping  Ping  [")
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := execute(t, t.TempDir(), "add", "mock", "Refund", "/refund", "-g", "missing")
		assert.ErrorIs(t, err, mockapi.ErrUnknownGroup)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := execute(t, t.TempDir(), "add", "mock", "Refund", "/refund", "-s", "42")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid status")
	})

	t.Run("yaml backend", func(t *testing.T) {
		dir := t.TempDir()

		_, err := execute(t, dir, "add", "group", "Auth", "--backend", "yaml")
		require.NoError(t, err)

		out, err := execute(t, dir, "list", "--backend", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "▼ Auth")
	})
}

func TestBuildMock(t *testing.T) {
	opts := &AddMockOptions{
		Method:   "delete",
		Status:   204,
		Group:    "g1",
		Delay:    250 * time.Millisecond,
		Response: "gone",
		Headers:  []string{"Content-Type: text/plain", "malformed"},
	}

	m, err := buildMock("Remove", "/items/1", opts)
	require.NoError(t, err)

	assert.Equal(t, "DELETE", m.Method())
	assert.Equal(t, 204, m.Status())
	assert.Equal(t, "g1", m.GroupID())
	assert.Equal(t, 250*time.Millisecond, m.Delay())
	assert.Equal(t, "gone", m.Response())
	assert.True(t, m.Active())
	assert.Equal(t, map[string]string{"Content-Type": "text/plain"}, m.Headers())
}

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    map[string]string
	}{
		{"empty", nil, map[string]string{}},
		{"trims whitespace", []string{" Accept :  application/json "}, map[string]string{"Accept": "application/json"}},
		{"keeps colons in value", []string{"Link: http://x"}, map[string]string{"Link": "http://x"}},
		{"skips malformed", []string{"nocolon"}, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHeaders(tt.headers))
		})
	}
}
