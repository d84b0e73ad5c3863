package components

import "github.com/artpar/mockdeck/internal/core"

// StatusMsg reports the outcome of a sidebar action for the status bar.
type StatusMsg struct {
	Text string
	Err  error
}

// SelectionChangedMsg is sent after the sidebar selection changes.
type SelectionChangedMsg struct {
	Count int
	First *core.Mock
}

// QuitMsg asks the main view to exit.
type QuitMsg struct{}
