package core

import (
	"time"

	"github.com/google/uuid"
)

// Group is a named, collapsible container of mocks.
// The mocks slice is a rendering view assembled by the data API; the mock
// records themselves belong to the store.
type Group struct {
	id        string
	name      string
	active    bool
	mocks     []*Mock
	createdAt time.Time
	updatedAt time.Time
}

// NewGroup creates an expanded, empty group.
func NewGroup(name string) *Group {
	return NewGroupWithID(uuid.New().String(), name)
}

// NewGroupWithID creates a group with a specific ID (for loading from storage).
func NewGroupWithID(id, name string) *Group {
	now := time.Now()
	return &Group{
		id:        id,
		name:      name,
		active:    true,
		mocks:     make([]*Mock, 0),
		createdAt: now,
		updatedAt: now,
	}
}

func (g *Group) ID() string           { return g.id }
func (g *Group) Name() string         { return g.name }
func (g *Group) Active() bool         { return g.active }
func (g *Group) CreatedAt() time.Time { return g.createdAt }
func (g *Group) UpdatedAt() time.Time { return g.updatedAt }

// Mocks returns the mocks currently assigned to the group, in store order.
func (g *Group) Mocks() []*Mock {
	return g.mocks
}

func (g *Group) SetName(name string) {
	g.name = name
	g.touch()
}

func (g *Group) SetActive(active bool) {
	g.active = active
	g.touch()
}

// SetMocks replaces the group's mock view.
func (g *Group) SetMocks(mocks []*Mock) {
	g.mocks = mocks
}

// SetTimestamps sets created and updated timestamps (for loading from storage).
func (g *Group) SetTimestamps(created, updated time.Time) {
	g.createdAt = created
	g.updatedAt = updated
}

// FindMock returns the member mock with the given id.
func (g *Group) FindMock(id string) (*Mock, bool) {
	for _, m := range g.mocks {
		if m.ID() == id {
			return m, true
		}
	}
	return nil, false
}

func (g *Group) touch() {
	g.updatedAt = time.Now()
}

// Clone copies the group. Member mocks are cloned as well.
func (g *Group) Clone() *Group {
	clone := *g
	clone.mocks = make([]*Mock, 0, len(g.mocks))
	for _, m := range g.mocks {
		clone.mocks = append(clone.mocks, m.Clone())
	}
	return &clone
}
