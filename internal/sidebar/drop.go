package sidebar

import "github.com/artpar/mockdeck/internal/core"

// DragPayload is the data carried by a dragged mock row.
type DragPayload struct {
	ItemID string
}

// DropTarget is a place a mock can be dropped. An empty GroupID is the
// ungrouped root.
type DropTarget struct {
	GroupID string
}

// Root is the drop target for the ungrouped area.
var Root = DropTarget{}

// DropEvent is a drop delivered to one target. Handled is set once a nested
// target has already accepted the drop.
type DropEvent struct {
	Payload DragPayload
	Target  DropTarget
	Handled bool
}

// MockLookup finds a mock by id.
type MockLookup func(id string) (*core.Mock, bool)

// Intent is a tree mutation requested by a drop.
type Intent interface {
	intent()
}

// SetGroup moves a mock into GroupID, or to the root when GroupID is empty.
type SetGroup struct {
	MockID  string
	GroupID string
}

func (NoOp) intent()     {}
func (SetGroup) intent() {}

// ResolveDrop turns a drop into an intent. Handled drops, unknown mocks and
// drops onto the mock's current container resolve to NoOp.
func ResolveDrop(ev DropEvent, lookup MockLookup) Intent {
	if ev.Handled {
		return NoOp{}
	}

	m, ok := lookup(ev.Payload.ItemID)
	if !ok || m == nil {
		return NoOp{}
	}

	if m.GroupID() == ev.Target.GroupID {
		return NoOp{}
	}

	return SetGroup{MockID: m.ID(), GroupID: ev.Target.GroupID}
}

// ResolveDropChain delivers a drop to nested targets ordered innermost first.
// The innermost target receives the drop; every outer target sees it as
// Handled, so dropping onto a mock's own group never falls through to the root.
func ResolveDropChain(payload DragPayload, targets []DropTarget, lookup MockLookup) Intent {
	var result Intent = NoOp{}

	for i, target := range targets {
		intent := ResolveDrop(DropEvent{Payload: payload, Target: target, Handled: i > 0}, lookup)
		if _, ok := intent.(SetGroup); ok {
			result = intent
		}
	}

	return result
}
