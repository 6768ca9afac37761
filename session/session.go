// Package session captures and restores navigation sessions: the committed
// fragment, mount point, history mode and the persisted state of the current
// entry, stored by session ID.
package session

import (
	"time"

	"github.com/avelaine/historyx"
)

// Snapshot is the serializable record of one navigation session.
type Snapshot struct {
	SessionID string         `json:"sessionID" yaml:"sessionID"`
	Fragment  string         `json:"fragment" yaml:"fragment"`
	Root      string         `json:"root" yaml:"root"`
	Mode      string         `json:"mode" yaml:"mode"`
	State     map[string]any `json:"state,omitempty" yaml:"state,omitempty"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

// Store saves and loads snapshots by session ID.
type Store interface {
	Save(snapshot Snapshot) error
	Load(sessionID string) (Snapshot, error)
}

// Capture records the engine's current session under id.
func Capture(e *historyx.Engine, id string) Snapshot {
	return Snapshot{
		SessionID: id,
		Fragment:  e.Fragment(),
		Root:      e.Root(),
		Mode:      e.Mode().String(),
		State:     e.PersistedState(),
		Timestamp: time.Now(),
	}
}

// Restore replays a snapshot onto an active engine: a replace-navigation to
// the recorded fragment followed by re-applying the persisted state keys.
// The route handler runs once with the restored fragment.
func Restore(e *historyx.Engine, snapshot Snapshot) bool {
	routed := e.Navigate(snapshot.Fragment, historyx.WithReplace())
	for k, v := range snapshot.State {
		e.SetState(k, v)
	}
	return routed
}
