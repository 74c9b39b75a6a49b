package multiplayer

import "sync/atomic"

// SessionRegistry counts joined players and hands out player numbers.
// The counter only ever grows; there is no leave operation.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	count atomic.Uint32
}

// NewSessionRegistry creates a registry with no players.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{}
}

// Join registers a new player and returns its number.
// The Nth call returns N. Joins past the second are accepted but the
// returned number does not own a paddle.
func (r *SessionRegistry) Join() PlayerNumber {
	return PlayerNumber(r.count.Add(1))
}

// Count returns the number of joins so far.
func (r *SessionRegistry) Count() uint32 {
	return r.count.Load()
}

// Ready reports whether enough players have joined for the match to run.
func (r *SessionRegistry) Ready() bool {
	return r.Count() >= 2
}
