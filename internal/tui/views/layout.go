package views

import "github.com/artpar/mockdeck/internal/sidebar"

// region is a rectangle of the screen. Regions nest, so a hit on an inner
// region can be walked up to the pane that contains it.
type region struct {
	name   string
	parent *region
	x, y   int
	w, h   int
}

// Parent implements sidebar.Element.
func (r *region) Parent() sidebar.Element {
	if r.parent == nil {
		return nil
	}
	return r.parent
}

func (r *region) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout holds the regions of the current frame.
type layout struct {
	screen  *region
	sidebar *region
	rows    *region
	detail  *region
	status  *region
}

func newLayout(width, height, sidebarWidth, paneHeight int) *layout {
	screen := &region{name: "screen", w: width, h: height}
	sb := &region{name: "sidebar", parent: screen, w: sidebarWidth, h: paneHeight}
	return &layout{
		screen:  screen,
		sidebar: sb,
		// Inside the border, below the search bar and header.
		rows:   &region{name: "rows", parent: sb, x: 1, y: 3, w: max(sidebarWidth-2, 0), h: max(paneHeight-4, 0)},
		detail: &region{name: "detail", parent: screen, x: sidebarWidth, w: width - sidebarWidth, h: paneHeight},
		status: &region{name: "status", parent: screen, y: paneHeight, w: width, h: height - paneHeight},
	}
}

// hit returns the innermost region under (x, y), or nil when off screen.
func (l *layout) hit(x, y int) sidebar.Element {
	for _, r := range []*region{l.rows, l.sidebar, l.detail, l.status, l.screen} {
		if r.contains(x, y) {
			return r
		}
	}
	return nil
}
