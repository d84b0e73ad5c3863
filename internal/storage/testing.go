package storage

import (
	"context"
	"testing"
	"time"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreTests runs the standard store test suite against any Store implementation.
func RunStoreTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("Empty", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		snap, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, snap.Groups)
		assert.Empty(t, snap.Mocks)
	})

	t.Run("SaveMock", func(t *testing.T) {
		runSaveMockTests(t, newStore)
	})
	t.Run("SaveGroup", func(t *testing.T) {
		runSaveGroupTests(t, newStore)
	})
	t.Run("Delete", func(t *testing.T) {
		runDeleteTests(t, newStore)
	})
	t.Run("Close", func(t *testing.T) {
		store, _ := newStore()
		require.NoError(t, store.Close())

		_, err := store.Load(context.Background())
		assert.ErrorIs(t, err, ErrStoreClosed)
		assert.ErrorIs(t, store.SaveMock(context.Background(), core.NewMock("m", "/m")), ErrStoreClosed)
		assert.NoError(t, store.Close(), "closing twice is harmless")
	})
}

func runSaveMockTests(t *testing.T, newStore func() (Store, func())) {
	ctx := context.Background()

	t.Run("round trips every field", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		m := core.NewMockWithID("m1", "Users", "/api/users")
		m.SetMethod("POST")
		m.SetStatus(503)
		m.SetDelay(1500 * time.Millisecond)
		m.SetResponse(`{"error":"down"}`)
		m.SetHeader("Content-Type", "application/json")
		m.SetActive(false)
		m.SetCaptured(true)
		m.SetGroupID("g1")

		require.NoError(t, store.SaveMock(ctx, m))

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Mocks, 1)

		got := snap.Mocks[0]
		assert.Equal(t, "m1", got.ID())
		assert.Equal(t, "Users", got.Name())
		assert.Equal(t, "/api/users", got.URL())
		assert.Equal(t, "POST", got.Method())
		assert.Equal(t, 503, got.Status())
		assert.Equal(t, 1500*time.Millisecond, got.Delay())
		assert.Equal(t, `{"error":"down"}`, got.Response())
		assert.Equal(t, map[string]string{"Content-Type": "application/json"}, got.Headers())
		assert.False(t, got.Active())
		assert.True(t, got.Captured())
		assert.Equal(t, "g1", got.GroupID())
		assert.WithinDuration(t, m.CreatedAt(), got.CreatedAt(), time.Second)
	})

	t.Run("keeps insertion order and position on update", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		a := core.NewMockWithID("a", "A", "/a")
		b := core.NewMockWithID("b", "B", "/b")
		c := core.NewMockWithID("c", "C", "/c")
		for _, m := range []*core.Mock{a, b, c} {
			require.NoError(t, store.SaveMock(ctx, m))
		}

		a.SetGroupID("g1")
		require.NoError(t, store.SaveMock(ctx, a))

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Mocks, 3)
		assert.Equal(t, "a", snap.Mocks[0].ID())
		assert.Equal(t, "g1", snap.Mocks[0].GroupID())
		assert.Equal(t, "b", snap.Mocks[1].ID())
		assert.Equal(t, "c", snap.Mocks[2].ID())
	})
}

func runSaveGroupTests(t *testing.T, newStore func() (Store, func())) {
	ctx := context.Background()

	t.Run("round trips and keeps order", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		g1 := core.NewGroupWithID("g1", "Auth")
		g2 := core.NewGroupWithID("g2", "Billing")
		g2.SetActive(false)
		require.NoError(t, store.SaveGroup(ctx, g1))
		require.NoError(t, store.SaveGroup(ctx, g2))

		g1.SetName("Authentication")
		require.NoError(t, store.SaveGroup(ctx, g1))

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Groups, 2)
		assert.Equal(t, "Authentication", snap.Groups[0].Name())
		assert.True(t, snap.Groups[0].Active())
		assert.Equal(t, "g2", snap.Groups[1].ID())
		assert.False(t, snap.Groups[1].Active())
		assert.Empty(t, snap.Groups[0].Mocks(), "membership is not stored on groups")
	})
}

func runDeleteTests(t *testing.T, newStore func() (Store, func())) {
	ctx := context.Background()

	t.Run("removes records", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		require.NoError(t, store.SaveGroup(ctx, core.NewGroupWithID("g1", "Auth")))
		require.NoError(t, store.SaveMock(ctx, core.NewMockWithID("m1", "Login", "/login")))
		require.NoError(t, store.SaveMock(ctx, core.NewMockWithID("m2", "Logout", "/logout")))

		require.NoError(t, store.DeleteMock(ctx, "m1"))
		require.NoError(t, store.DeleteGroup(ctx, "g1"))

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Groups)
		require.Len(t, snap.Mocks, 1)
		assert.Equal(t, "m2", snap.Mocks[0].ID())
	})

	t.Run("missing ids are not an error", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		assert.NoError(t, store.DeleteMock(ctx, "nope"))
		assert.NoError(t, store.DeleteGroup(ctx, "nope"))
	})
}
