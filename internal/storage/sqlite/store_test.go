package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	storage.RunStoreTests(t, func() (storage.Store, func()) {
		store, err := NewInMemory()
		require.NoError(t, err)
		return store, func() { store.Close() }
	})
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "workspace.db")
	ctx := context.Background()

	store, err := New(dbPath)
	require.NoError(t, err)

	g := core.NewGroupWithID("g1", "Auth")
	m := core.NewMockWithID("m1", "Login", "/login")
	m.SetGroupID("g1")
	require.NoError(t, store.SaveGroup(ctx, g))
	require.NoError(t, store.SaveMock(ctx, m))
	require.NoError(t, store.Close())

	reopened, err := New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	snap, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Groups, 1)
	require.Len(t, snap.Mocks, 1)
	assert.Equal(t, "g1", snap.Mocks[0].GroupID())
}
