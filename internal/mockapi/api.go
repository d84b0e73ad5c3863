// Package mockapi is the in-process data API over stored mocks and groups.
// Every mutation is persisted first and then announced to subscribers.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/storage"
	"github.com/charmbracelet/log"
)

// Common errors.
var (
	ErrUnknownGroup = errors.New("unknown group")
	ErrUnknownMock  = errors.New("unknown mock")
)

// API holds the workspace in memory and writes through to a store.
type API struct {
	mu     sync.RWMutex
	store  storage.Store
	logger *log.Logger
	groups []*core.Group
	mocks  []*core.Mock

	subsMu  sync.Mutex
	subs    map[Subscription]subscriber
	nextSub Subscription
}

// Option is a function that configures the API.
type Option func(*API)

// WithLogger sets the logger used for mutation tracing.
func WithLogger(logger *log.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New loads the workspace from store.
func New(ctx context.Context, store storage.Store, opts ...Option) (*API, error) {
	a := &API{
		store:  store,
		logger: log.New(io.Discard),
		subs:   make(map[Subscription]subscriber),
	}
	for _, opt := range opts {
		opt(a)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	a.groups = snap.Groups
	a.mocks = snap.Mocks
	a.logger.Debug("workspace loaded", "groups", len(a.groups), "mocks", len(a.mocks))

	return a, nil
}

// Groups returns copies of all groups with their member mocks populated in
// mock order.
func (a *API) Groups() []*core.Group {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make([]*core.Group, 0, len(a.groups))
	for _, g := range a.groups {
		result = append(result, a.groupView(g))
	}
	return result
}

// Mocks returns copies of all mocks in stored order.
func (a *API) Mocks() []*core.Mock {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make([]*core.Mock, 0, len(a.mocks))
	for _, m := range a.mocks {
		result = append(result, m.Clone())
	}
	return result
}

// Mock returns a copy of the mock with the given id.
func (a *API) Mock(id string) (*core.Mock, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	m := a.findMock(id)
	if m == nil {
		return nil, false
	}
	return m.Clone(), true
}

// Group returns a copy of the group with the given id.
func (a *API) Group(id string) (*core.Group, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	g := a.findGroup(id)
	if g == nil {
		return nil, false
	}
	return a.groupView(g), true
}

// AddGroup creates and stores a new group.
func (a *API) AddGroup(ctx context.Context, name string) (*core.Group, error) {
	g := core.NewGroup(name)

	a.mu.Lock()
	if err := a.store.SaveGroup(ctx, g); err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("add group: %w", err)
	}
	a.groups = append(a.groups, g)
	a.mu.Unlock()

	a.logger.Info("group added", "group_id", g.ID(), "name", name)
	a.emit(Change{Event: EventUpdateGroup, ID: g.ID()})
	return g.Clone(), nil
}

// AddMock stores a new mock. Its group, if set, must exist.
func (a *API) AddMock(ctx context.Context, m *core.Mock) error {
	a.mu.Lock()
	if m.Grouped() && a.findGroup(m.GroupID()) == nil {
		a.mu.Unlock()
		return fmt.Errorf("add mock: %w: %s", ErrUnknownGroup, m.GroupID())
	}

	stored := m.Clone()
	if err := a.store.SaveMock(ctx, stored); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("add mock: %w", err)
	}
	a.mocks = append(a.mocks, stored)
	a.mu.Unlock()

	a.logger.Info("mock added", "mock_id", m.ID(), "name", m.Name(), "group_id", m.GroupID())
	a.emit(Change{Event: EventUpdateMock, ID: m.ID()})
	return nil
}

// SetMockGroup moves a mock into groupID, or to the root when groupID is empty.
func (a *API) SetMockGroup(ctx context.Context, mockID, groupID string) error {
	if groupID != "" {
		a.mu.RLock()
		known := a.findGroup(groupID) != nil
		a.mu.RUnlock()
		if !known {
			return fmt.Errorf("set mock group: %w: %s", ErrUnknownGroup, groupID)
		}
	}

	err := a.updateMock(ctx, mockID, func(m *core.Mock) {
		m.SetGroupID(groupID)
	})
	if err != nil {
		return fmt.Errorf("set mock group: %w", err)
	}

	a.logger.Info("mock moved", "mock_id", mockID, "group_id", groupID)
	return nil
}

// ToggleMock flips a mock's active flag.
func (a *API) ToggleMock(ctx context.Context, id string) error {
	err := a.updateMock(ctx, id, func(m *core.Mock) {
		m.SetActive(!m.Active())
	})
	if err != nil {
		return fmt.Errorf("toggle mock: %w", err)
	}
	return nil
}

// RenameMock changes a mock's name.
func (a *API) RenameMock(ctx context.Context, id, name string) error {
	err := a.updateMock(ctx, id, func(m *core.Mock) {
		m.SetName(name)
	})
	if err != nil {
		return fmt.Errorf("rename mock: %w", err)
	}
	return nil
}

// ToggleGroup flips a group between expanded and collapsed.
func (a *API) ToggleGroup(ctx context.Context, id string) error {
	err := a.updateGroup(ctx, id, func(g *core.Group) {
		g.SetActive(!g.Active())
	})
	if err != nil {
		return fmt.Errorf("toggle group: %w", err)
	}
	return nil
}

// SetGroupActive expands (true) or collapses (false) a group.
// Setting the current state stores and announces nothing.
func (a *API) SetGroupActive(ctx context.Context, id string, active bool) error {
	a.mu.RLock()
	g := a.findGroup(id)
	unchanged := g != nil && g.Active() == active
	a.mu.RUnlock()
	if unchanged {
		return nil
	}

	err := a.updateGroup(ctx, id, func(g *core.Group) {
		g.SetActive(active)
	})
	if err != nil {
		return fmt.Errorf("set group active: %w", err)
	}
	return nil
}

// RenameGroup changes a group's name.
func (a *API) RenameGroup(ctx context.Context, id, name string) error {
	err := a.updateGroup(ctx, id, func(g *core.Group) {
		g.SetName(name)
	})
	if err != nil {
		return fmt.Errorf("rename group: %w", err)
	}
	return nil
}

// DeleteItems removes the given mocks and groups. Mocks left in a deleted
// group move to the root. Unknown ids are skipped.
func (a *API) DeleteItems(ctx context.Context, mockIDs, groupIDs []string) error {
	var changes []Change

	a.mu.Lock()
	err := func() error {
		for _, id := range mockIDs {
			if a.findMock(id) == nil {
				continue
			}
			if err := a.store.DeleteMock(ctx, id); err != nil {
				return fmt.Errorf("delete mock %s: %w", id, err)
			}
			a.mocks = removeMock(a.mocks, id)
			changes = append(changes, Change{Event: EventUpdateMock, ID: id})
		}

		for _, id := range groupIDs {
			if a.findGroup(id) == nil {
				continue
			}
			for _, m := range a.mocks {
				if m.GroupID() != id {
					continue
				}
				updated := m.Clone()
				updated.SetGroupID("")
				if err := a.store.SaveMock(ctx, updated); err != nil {
					return fmt.Errorf("ungroup mock %s: %w", m.ID(), err)
				}
				*m = *updated
				changes = append(changes, Change{Event: EventUpdateMock, ID: m.ID()})
			}
			if err := a.store.DeleteGroup(ctx, id); err != nil {
				return fmt.Errorf("delete group %s: %w", id, err)
			}
			a.groups = removeGroup(a.groups, id)
			changes = append(changes, Change{Event: EventUpdateGroup, ID: id})
		}
		return nil
	}()
	a.mu.Unlock()

	if len(changes) > 0 {
		a.logger.Info("items deleted", "mocks", len(mockIDs), "groups", len(groupIDs))
	}
	for _, c := range changes {
		a.emit(c)
	}
	return err
}

// Internal helpers

func (a *API) updateMock(ctx context.Context, id string, fn func(m *core.Mock)) error {
	a.mu.Lock()
	m := a.findMock(id)
	if m == nil {
		a.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownMock, id)
	}

	updated := m.Clone()
	fn(updated)
	if err := a.store.SaveMock(ctx, updated); err != nil {
		a.mu.Unlock()
		return err
	}
	*m = *updated
	a.mu.Unlock()

	a.emit(Change{Event: EventUpdateMock, ID: id})
	return nil
}

func (a *API) updateGroup(ctx context.Context, id string, fn func(g *core.Group)) error {
	a.mu.Lock()
	g := a.findGroup(id)
	if g == nil {
		a.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownGroup, id)
	}

	updated := g.Clone()
	fn(updated)
	if err := a.store.SaveGroup(ctx, updated); err != nil {
		a.mu.Unlock()
		return err
	}
	*g = *updated
	a.mu.Unlock()

	a.emit(Change{Event: EventUpdateGroup, ID: id})
	return nil
}

func (a *API) findMock(id string) *core.Mock {
	for _, m := range a.mocks {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

func (a *API) findGroup(id string) *core.Group {
	for _, g := range a.groups {
		if g.ID() == id {
			return g
		}
	}
	return nil
}

// groupView clones g and fills in its member mocks. Caller holds a.mu.
func (a *API) groupView(g *core.Group) *core.Group {
	view := g.Clone()
	members := make([]*core.Mock, 0)
	for _, m := range a.mocks {
		if m.GroupID() == g.ID() {
			members = append(members, m.Clone())
		}
	}
	view.SetMocks(members)
	return view
}

func removeMock(mocks []*core.Mock, id string) []*core.Mock {
	result := make([]*core.Mock, 0, len(mocks))
	for _, m := range mocks {
		if m.ID() != id {
			result = append(result, m)
		}
	}
	return result
}

func removeGroup(groups []*core.Group, id string) []*core.Group {
	result := make([]*core.Group, 0, len(groups))
	for _, g := range groups {
		if g.ID() != id {
			result = append(result, g)
		}
	}
	return result
}
