// Package sidebar is the selection and list-linearization engine behind the
// mock sidebar. Everything except Host is a pure function over its inputs.
package sidebar

import (
	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/filter"
)

// Filter narrows the linearized list.
type Filter struct {
	Query     string
	Predicate filter.Predicate
}

// IsZero reports whether the filter lets everything through.
func (f Filter) IsZero() bool {
	return f.Query == "" && f.Predicate == nil
}

func (f Filter) passes(m *core.Mock) bool {
	return f.Predicate == nil || f.Predicate(m)
}

func (f Filter) matches(m *core.Mock) bool {
	return filter.MatchesQuery(m, f.Query) && f.passes(m)
}

// LinearList is the flattened, display-ordered sidebar.
type LinearList []core.Item

// IndexOf returns the position of item in the list, or -1.
func (l LinearList) IndexOf(item core.Item) int {
	for i, it := range l {
		if it.Same(item) {
			return i
		}
	}
	return -1
}

// Contains reports whether item is in the list.
func (l LinearList) Contains(item core.Item) bool {
	return l.IndexOf(item) >= 0
}

// Find returns the list entry with the given kind and id.
func (l LinearList) Find(kind core.ItemKind, id string) (core.Item, bool) {
	for _, it := range l {
		if it.Kind == kind && it.ID() == id {
			return it, true
		}
	}
	return core.Item{}, false
}

// Ungrouped returns the mocks whose group id is empty or names no group.
func Ungrouped(groups []*core.Group, mocks []*core.Mock) []*core.Mock {
	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.ID()] = true
	}

	var result []*core.Mock
	for _, m := range mocks {
		if !m.Grouped() || !known[m.GroupID()] {
			result = append(result, m)
		}
	}
	return result
}

// Linearize flattens groups and ungrouped mocks into one ordered list: each
// retained group followed by its retained mocks, then the ungrouped mocks.
// Input order is preserved and inputs are not modified.
func Linearize(groups []*core.Group, ungrouped []*core.Mock, f Filter) LinearList {
	list := make(LinearList, 0, len(groups)+len(ungrouped))

	for _, g := range groups {
		members, keep := groupMembers(g, f)
		if !keep {
			continue
		}
		list = append(list, core.GroupItem(g))
		for _, m := range members {
			list = append(list, core.MockItem(m))
		}
	}

	for _, m := range ungrouped {
		if f.matches(m) {
			list = append(list, core.MockItem(m))
		}
	}

	return list
}

// LinearizeAll derives the ungrouped mocks from mocks and linearizes.
func LinearizeAll(groups []*core.Group, mocks []*core.Mock, f Filter) LinearList {
	return Linearize(groups, Ungrouped(groups, mocks), f)
}

func groupMembers(g *core.Group, f Filter) ([]*core.Mock, bool) {
	mocks := g.Mocks()

	if f.IsZero() {
		return mocks, true
	}

	if f.Query != "" && filter.ContainsFold(g.Name(), f.Query) {
		return keepMocks(mocks, f.passes), true
	}

	members := keepMocks(mocks, f.matches)
	return members, len(members) > 0
}

func keepMocks(mocks []*core.Mock, keep func(*core.Mock) bool) []*core.Mock {
	var result []*core.Mock
	for _, m := range mocks {
		if keep(m) {
			result = append(result, m)
		}
	}
	return result
}
