// Package storage defines persistence for mocks and groups.
package storage

import (
	"context"
	"errors"

	"github.com/artpar/mockdeck/internal/core"
)

// Common errors.
var (
	ErrStoreClosed = errors.New("store is closed")
)

// Snapshot is the full stored workspace, in stored order.
// Group mock views are not populated; membership lives on Mock.GroupID.
type Snapshot struct {
	Groups []*core.Group
	Mocks  []*core.Mock
}

// Store persists mocks and groups.
// Saving an existing record keeps its position; new records are appended.
type Store interface {
	// Load reads every group and mock.
	Load(ctx context.Context) (Snapshot, error)

	// SaveMock inserts or updates a mock.
	SaveMock(ctx context.Context, m *core.Mock) error

	// DeleteMock removes a mock. Deleting a missing mock is not an error.
	DeleteMock(ctx context.Context, id string) error

	// SaveGroup inserts or updates a group.
	SaveGroup(ctx context.Context, g *core.Group) error

	// DeleteGroup removes a group. Member mocks are left untouched.
	DeleteGroup(ctx context.Context, id string) error

	// Close releases the store.
	Close() error
}
