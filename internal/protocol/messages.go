// Package protocol defines the Join/Tick request and response messages and
// their protobuf wire encoding.
package protocol

import "github.com/vovakirdan/netpong/internal/core"

// Vector2F is a pair of float32 coordinates on the wire.
type Vector2F struct {
	X float32
	Y float32
}

// VecFrom converts a core vector for the wire.
func VecFrom(v core.Vec2) Vector2F {
	return Vector2F{X: v.X, Y: v.Y}
}

// Vec2 converts to a core vector.
func (v Vector2F) Vec2() core.Vec2 {
	return core.NewVec2(v.X, v.Y)
}

// BallState is the ball's position and velocity.
type BallState struct {
	Position Vector2F
	Velocity Vector2F
}

// JoinRequest announces a client and the sizes it renders with.
// All four fields are required; nil means absent.
type JoinRequest struct {
	WindowSize        *Vector2F
	Player1SpriteSize *Vector2F
	Player2SpriteSize *Vector2F
	BallSpriteSize    *Vector2F
}

// JoinResponse carries the initial placement and the caller's player number.
type JoinResponse struct {
	Player1Position      Vector2F
	Player2Position      Vector2F
	Ball                 BallState
	AssignedPlayerNumber uint32
	TotalPlayers         uint32
}

// TickRequest carries one frame of input.
type TickRequest struct {
	PlayerNumber uint32
	Button       uint32 // 0 = Up, 1 = Down, 2 = None
}

// TickResponse carries the world after the tick.
type TickResponse struct {
	Player1Position Vector2F
	Player2Position Vector2F
	Ball            BallState
	TotalPlayers    uint32
	Winner          uint32 // 0 = Player1, 1 = Player2, 2 = None
}

// Request is the envelope a client sends per frame. Exactly one of Join or Tick is set.
type Request struct {
	ID   uint64
	Join *JoinRequest
	Tick *TickRequest
}

// Response answers the Request with the same ID. Error is set when the call failed,
// in which case Join and Tick are nil.
type Response struct {
	ID    uint64
	Join  *JoinResponse
	Tick  *TickResponse
	Error string
}
