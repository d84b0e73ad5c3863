package keys

// Mode is the input mode of the mock sidebar.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeMenu
)

// String returns the status-bar label of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeSearch:
		return "SEARCH"
	case ModeMenu:
		return "MENU"
	default:
		return "UNKNOWN"
	}
}
