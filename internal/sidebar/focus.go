package sidebar

// Element is a node in the view hierarchy that pointer events land on.
type Element interface {
	Parent() Element
}

// HandlePointer reports whether target is container or one of its
// descendants. The result is the new armed state.
func HandlePointer(target, container Element) bool {
	if container == nil {
		return false
	}
	for el := target; el != nil; el = el.Parent() {
		if el == container {
			return true
		}
	}
	return false
}

// Key is a logical key relevant to list-scoped shortcuts.
type Key int

const (
	KeyOther Key = iota
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
)

// Modifiers held during a key press.
type Modifiers struct {
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// KeyEvent is a key press with its modifiers.
type KeyEvent struct {
	Key       Key
	Modifiers Modifiers
}

// Command is an advisory intent produced by the focus scope for the host.
type Command interface {
	Name() string
}

// NoOp means the key press is not a list command.
type NoOp struct{}

// DeleteSelected asks the host to delete the current selection.
type DeleteSelected struct{}

// ExpandGroups asks the host to expand the listed groups.
type ExpandGroups struct {
	IDs []string
}

// CollapseGroups asks the host to collapse the listed groups.
type CollapseGroups struct {
	IDs []string
}

func (NoOp) Name() string           { return "noop" }
func (DeleteSelected) Name() string { return "delete-selected" }
func (ExpandGroups) Name() string   { return "expand-groups" }
func (CollapseGroups) Name() string { return "collapse-groups" }

// HandleKey maps a key press to a command. Nothing is produced unless armed.
func HandleKey(ev KeyEvent, armed bool, selection SelectionSet) Command {
	if !armed {
		return NoOp{}
	}

	switch ev.Key {
	case KeyBackspace, KeyDelete:
		if ev.Modifiers.Ctrl || ev.Modifiers.Meta {
			return DeleteSelected{}
		}
	case KeyRight:
		if ids := selection.GroupIDs(); len(ids) > 0 {
			return ExpandGroups{IDs: ids}
		}
	case KeyLeft:
		if ids := selection.GroupIDs(); len(ids) > 0 {
			return CollapseGroups{IDs: ids}
		}
	}

	return NoOp{}
}
