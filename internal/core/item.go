package core

// ItemKind tags the variant held by an Item.
type ItemKind int

const (
	KindMock ItemKind = iota
	KindGroup
)

// String returns the string representation of the kind.
func (k ItemKind) String() string {
	switch k {
	case KindMock:
		return "mock"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Item is a sidebar row: either a Group or a Mock.
// Exactly one of Group and Mock is set, matching Kind.
type Item struct {
	Kind  ItemKind
	Group *Group
	Mock  *Mock
}

// MockItem wraps a mock as an Item.
func MockItem(m *Mock) Item {
	return Item{Kind: KindMock, Mock: m}
}

// GroupItem wraps a group as an Item.
func GroupItem(g *Group) Item {
	return Item{Kind: KindGroup, Group: g}
}

// ID returns the id of the wrapped value.
func (i Item) ID() string {
	switch i.Kind {
	case KindGroup:
		if i.Group != nil {
			return i.Group.ID()
		}
	case KindMock:
		if i.Mock != nil {
			return i.Mock.ID()
		}
	}
	return ""
}

// Key identifies the item across both id namespaces.
func (i Item) Key() string {
	return i.Kind.String() + ":" + i.ID()
}

// Name returns the display name.
func (i Item) Name() string {
	switch i.Kind {
	case KindGroup:
		if i.Group != nil {
			return i.Group.Name()
		}
	case KindMock:
		if i.Mock != nil {
			return i.Mock.Name()
		}
	}
	return ""
}

// URL returns the mock URL; groups have none.
func (i Item) URL() string {
	if i.Kind == KindMock && i.Mock != nil {
		return i.Mock.URL()
	}
	return ""
}

// IsGroup reports whether the item wraps a group.
func (i Item) IsGroup() bool {
	return i.Kind == KindGroup
}

// IsMock reports whether the item wraps a mock.
func (i Item) IsMock() bool {
	return i.Kind == KindMock
}

// Same reports whether both items refer to the same record.
func (i Item) Same(other Item) bool {
	return i.Kind == other.Kind && i.ID() == other.ID()
}
