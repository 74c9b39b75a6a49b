package pong

import (
	"math/rand"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/world"
)

// Bot skill settings
const (
	DefaultBotSkill    = 0.85 // Probability of reacting on a given tick
	DefaultBotDeadZone = 6.0  // Pixels of center offset tolerated before moving
)

// Bot picks a button that keeps a paddle lined up with the ball.
// It reacts only while the ball travels toward its own side.
type Bot struct {
	Player   multiplayer.PlayerNumber
	Skill    float64
	DeadZone float32
	rng      *rand.Rand
}

// NewBot creates a bot for the given player.
func NewBot(player multiplayer.PlayerNumber, seed int64) *Bot {
	return &Bot{
		Player:   player,
		Skill:    DefaultBotSkill,
		DeadZone: DefaultBotDeadZone,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Decide returns the button for the next tick.
func (b *Bot) Decide(w world.World) core.Button {
	paddle := w.Paddle(b.Player)
	if paddle == nil {
		return core.ButtonNone
	}

	incoming := w.Ball.Velocity.X < 0
	if b.Player == multiplayer.Player2 {
		incoming = w.Ball.Velocity.X > 0
	}
	if !incoming {
		return core.ButtonNone
	}

	// Reaction time: sometimes the bot just doesn't move
	if b.rng.Float64() > b.Skill {
		return core.ButtonNone
	}

	diff := w.Ball.Center().Y - paddle.Center().Y
	if core.Abs(diff) <= b.DeadZone {
		return core.ButtonNone
	}
	if diff > 0 {
		return core.ButtonDown
	}
	return core.ButtonUp
}
