package components

import (
	"strings"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/sidebar"
)

// Pure helpers for the mock list. They take values and return values so the
// component's state changes stay explicit.

// MoveCursor computes new cursor position within bounds.
func MoveCursor(cursor, delta, itemCount int) int {
	if itemCount == 0 {
		return 0
	}
	newCursor := cursor + delta
	if newCursor < 0 {
		return 0
	}
	if newCursor >= itemCount {
		return itemCount - 1
	}
	return newCursor
}

// AdjustOffset ensures cursor is visible within viewport.
func AdjustOffset(cursor, offset, visibleHeight int) int {
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+visibleHeight {
		return cursor - visibleHeight + 1
	}
	return offset
}

// VisibleRows drops the mocks of collapsed groups from list. The group rows
// themselves stay visible.
func VisibleRows(list sidebar.LinearList) []core.Item {
	collapsed := make(map[string]bool)
	rows := make([]core.Item, 0, len(list))
	for _, it := range list {
		if it.IsGroup() {
			collapsed[it.ID()] = !it.Group.Active()
			rows = append(rows, it)
			continue
		}
		if it.Mock.Grouped() && collapsed[it.Mock.GroupID()] {
			continue
		}
		rows = append(rows, it)
	}
	return rows
}

// RowIndex returns the position of item in rows, or -1.
func RowIndex(rows []core.Item, item core.Item) int {
	for i, it := range rows {
		if it.Same(item) {
			return i
		}
	}
	return -1
}

// RowAt maps a screen line to a row index. top is the line of the first
// visible row; -1 means the line holds no row.
func RowAt(y, top, offset, rowCount, visibleHeight int) int {
	line := y - top
	if line < 0 || line >= visibleHeight {
		return -1
	}
	idx := offset + line
	if idx >= rowCount {
		return -1
	}
	return idx
}

// DropTargetsAt returns the nested drop targets under row idx, innermost
// first. Group rows and the mocks listed under them sit inside the group's
// target; everything else only hits the root.
func DropTargetsAt(rows []core.Item, idx int) []sidebar.DropTarget {
	if idx < 0 || idx >= len(rows) {
		return []sidebar.DropTarget{sidebar.Root}
	}

	it := rows[idx]
	if it.IsGroup() {
		return []sidebar.DropTarget{{GroupID: it.ID()}, sidebar.Root}
	}
	if groupID := enclosingGroup(rows, idx); groupID != "" {
		return []sidebar.DropTarget{{GroupID: groupID}, sidebar.Root}
	}
	return []sidebar.DropTarget{sidebar.Root}
}

// enclosingGroup returns the id of the group row that rows[idx] is listed
// under, if the mock belongs to it.
func enclosingGroup(rows []core.Item, idx int) string {
	m := rows[idx].Mock
	if m == nil || !m.Grouped() {
		return ""
	}
	for i := idx - 1; i >= 0; i-- {
		if rows[i].IsGroup() {
			if rows[i].ID() == m.GroupID() {
				return m.GroupID()
			}
			return ""
		}
	}
	return ""
}

// GroupIDs returns the ids of every group in list.
func GroupIDs(list sidebar.LinearList) []string {
	var ids []string
	for _, it := range list {
		if it.IsGroup() {
			ids = append(ids, it.ID())
		}
	}
	return ids
}

// MockURLs joins the URLs of mocks one per line, for the clipboard.
func MockURLs(mocks []*core.Mock) string {
	urls := make([]string, 0, len(mocks))
	for _, m := range mocks {
		urls = append(urls, m.URL())
	}
	return strings.Join(urls, "\n")
}
