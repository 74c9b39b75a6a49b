// Package multiplayer provides player identity and session bookkeeping for
// the two-player match.
package multiplayer

// PlayerNumber is the 1-based identifier handed out by Join, in join order.
type PlayerNumber uint32

// The only player numbers that own a paddle.
const (
	Player1 PlayerNumber = 1
	Player2 PlayerNumber = 2
)

// HasPaddle reports whether this player number controls a paddle.
func (p PlayerNumber) HasPaddle() bool {
	return p == Player1 || p == Player2
}

// Outcome is the match result. The numeric values are the wire codes.
type Outcome uint32

const (
	OutcomePlayer1 Outcome = 0 // Player 1 won
	OutcomePlayer2 Outcome = 1 // Player 2 won
	OutcomeNone    Outcome = 2 // Undecided
)

// Decided reports whether a player has won.
func (o Outcome) Decided() bool {
	return o == OutcomePlayer1 || o == OutcomePlayer2
}

// Winner returns the winning player number, or 0 if undecided.
func (o Outcome) Winner() PlayerNumber {
	switch o {
	case OutcomePlayer1:
		return Player1
	case OutcomePlayer2:
		return Player2
	default:
		return 0
	}
}

// String returns a human-readable description of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePlayer1:
		return "Player 1"
	case OutcomePlayer2:
		return "Player 2"
	case OutcomeNone:
		return "None"
	default:
		return "Unknown"
	}
}
