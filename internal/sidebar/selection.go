package sidebar

import "github.com/artpar/mockdeck/internal/core"

// SelectionSet is an ordered set of items. It is replaced, never edited.
type SelectionSet []core.Item

// Contains reports whether item is selected.
func (s SelectionSet) Contains(item core.Item) bool {
	return s.indexOf(item) >= 0
}

func (s SelectionSet) indexOf(item core.Item) int {
	for i, it := range s {
		if it.Same(item) {
			return i
		}
	}
	return -1
}

// Mocks returns the selected mocks in selection order.
func (s SelectionSet) Mocks() []*core.Mock {
	var mocks []*core.Mock
	for _, it := range s {
		if it.IsMock() && it.Mock != nil {
			mocks = append(mocks, it.Mock)
		}
	}
	return mocks
}

// Groups returns the selected groups in selection order.
func (s SelectionSet) Groups() []*core.Group {
	var groups []*core.Group
	for _, it := range s {
		if it.IsGroup() && it.Group != nil {
			groups = append(groups, it.Group)
		}
	}
	return groups
}

// GroupIDs returns the ids of the selected groups.
func (s SelectionSet) GroupIDs() []string {
	var ids []string
	for _, g := range s.Groups() {
		ids = append(ids, g.ID())
	}
	return ids
}

// Event is a selection-affecting interaction.
type Event interface {
	selectionEvent()
}

// Click is a primary-button click. Shift extends a range; Multiple (ctrl or
// cmd) toggles the clicked item.
type Click struct {
	Shift    bool
	Multiple bool
}

// ContextClick is a secondary-button click.
type ContextClick struct{}

func (Click) selectionEvent()        {}
func (ContextClick) selectionEvent() {}

// Resolve computes the selection produced by event on item. current is never
// modified; the result is always a fresh slice.
func Resolve(event Event, item core.Item, current SelectionSet, list LinearList) SelectionSet {
	switch ev := event.(type) {
	case ContextClick:
		if len(current) > 1 {
			return append(SelectionSet(nil), current...)
		}
		return SelectionSet{item}

	case Click:
		switch {
		case ev.Multiple:
			return toggle(item, current)
		case ev.Shift && len(current) > 0:
			return extendRange(item, current, list)
		}
		return SelectionSet{item}
	}

	return append(SelectionSet(nil), current...)
}

func toggle(item core.Item, current SelectionSet) SelectionSet {
	result := make(SelectionSet, 0, len(current)+1)
	found := false
	for _, it := range current {
		if it.Same(item) {
			found = true
			continue
		}
		result = append(result, it)
	}
	if !found {
		result = append(result, item)
	}
	return result
}

// extendRange adds the span between the anchor and item to current. The
// anchor is the first selected entry in list order.
func extendRange(item core.Item, current SelectionSet, list LinearList) SelectionSet {
	anchor := -1
	for i, it := range list {
		if current.Contains(it) {
			anchor = i
			break
		}
	}

	target := list.IndexOf(item)
	if anchor < 0 || target < 0 {
		return SelectionSet{item}
	}

	start, end := anchor, target
	if start > end {
		start, end = end, start
	}

	result := append(SelectionSet(nil), current...)
	for _, it := range list[start : end+1] {
		if !result.Contains(it) {
			result = append(result, it)
		}
	}
	return result
}
