package historyx

// Mode identifies which native mechanism backs navigation. It is determined
// once at activation from the requested options and platform capability and
// is immutable afterwards.
type Mode int

const (
	// ModeDisabled means neither push-state nor hash-change is in play;
	// navigation degrades to full page loads.
	ModeDisabled Mode = iota
	// ModePushState uses native path-based history entries.
	ModePushState
	// ModeHashChange stores the fragment behind "#".
	ModeHashChange
)

func (m Mode) String() string {
	switch m {
	case ModePushState:
		return "pushstate"
	case ModeHashChange:
		return "hashchange"
	default:
		return "disabled"
	}
}
