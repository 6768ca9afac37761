package historyx

// State is the opaque key→value mapping persisted inside a native history
// entry. Writes go through merge semantics: a single key is laid over a
// shallow copy of whatever the entry already holds, so unrelated keys
// survive.
type State map[string]any

// Clone returns a shallow copy. A nil State clones to an empty, writable one.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// SetState writes a single key into the persisted state of the current
// history entry and rewrites the entry in place (same URL, no new entry).
// Keys already stored are not disturbed.
func (e *Engine) SetState(key string, value any) {
	st := e.p.History.State().Clone()
	st[key] = value
	e.p.History.ReplaceState(st, e.title(), e.p.Location.Href())
}

// GetState reads a key from the persisted state of the current history
// entry. Returns nil when absent.
func (e *Engine) GetState(key string) any {
	return e.p.History.State()[key]
}

// PersistedState returns a copy of the current entry's full state mapping.
func (e *Engine) PersistedState() State {
	return e.p.History.State().Clone()
}

// SetTitle writes the document title. No validation, no-op without a
// Document surface.
func (e *Engine) SetTitle(title string) {
	if e.p.Document != nil {
		e.p.Document.SetTitle(title)
	}
}

func (e *Engine) title() string {
	if e.p.Document == nil {
		return ""
	}
	return e.p.Document.Title()
}
