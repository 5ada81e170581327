package panel

// State is the lifecycle state of a panel.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Visible reports whether the panel is on screen in this state.
func (s State) Visible() bool {
	return s != StateClosed
}

// Active reports whether the panel is open or about to be.
func (s State) Active() bool {
	return s == StateOpening || s == StateOpen
}
