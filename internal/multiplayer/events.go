package multiplayer

import "time"

// OutcomeRecord describes a decided match for persistence.
type OutcomeRecord struct {
	MatchID      string
	Winner       Outcome
	TotalPlayers uint32
	Ticks        uint64  // Physics steps applied since the match started
	BallSpeed    float32 // Horizontal ball speed on the deciding tick
	DecidedAt    time.Time
}

// OutcomeRecorder is an interface for saving match outcomes.
// This allows the service to report results without depending on the storage package.
type OutcomeRecorder interface {
	SaveOutcome(record OutcomeRecord) error
}

// OutcomeRecorderFunc adapts a function to OutcomeRecorder.
type OutcomeRecorderFunc func(OutcomeRecord) error

// SaveOutcome calls f(record).
func (f OutcomeRecorderFunc) SaveOutcome(record OutcomeRecord) error {
	return f(record)
}
