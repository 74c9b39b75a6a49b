package protocol

import (
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/world"
)

// NewJoinRequest builds a Join call reporting the given sizes.
func NewJoinRequest(d world.Dimensions) *JoinRequest {
	window := VecFrom(d.Window)
	p1 := VecFrom(d.Player1)
	p2 := VecFrom(d.Player2)
	ball := VecFrom(d.Ball)
	return &JoinRequest{
		WindowSize:        &window,
		Player1SpriteSize: &p1,
		Player2SpriteSize: &p2,
		BallSpriteSize:    &ball,
	}
}

// World rebuilds a client-side world from the reply, using the sizes the
// client joined with.
func (m *JoinResponse) World(d world.Dimensions) world.World {
	return assemble(d, m.Player1Position, m.Player2Position, m.Ball, multiplayer.OutcomeNone)
}

// World rebuilds a client-side world from the reply, using the sizes the
// client joined with.
func (m *TickResponse) World(d world.Dimensions) world.World {
	return assemble(d, m.Player1Position, m.Player2Position, m.Ball, multiplayer.Outcome(m.Winner))
}

func assemble(d world.Dimensions, p1, p2 Vector2F, ball BallState, winner multiplayer.Outcome) world.World {
	return world.World{
		Player1: world.NewEntity(d.Player1, p1.Vec2()),
		Player2: world.NewEntity(d.Player2, p2.Vec2()),
		Ball: world.Entity{
			Size:     d.Ball,
			Position: ball.Position.Vec2(),
			Velocity: ball.Velocity.Vec2(),
		},
		Size:   d.Window,
		Winner: winner,
	}
}
