// Package pong implements the server-side physics of two-player Pong.
// Step is a pure function over world snapshots; it never touches shared state.
package pong

import (
	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/world"
)

// Default physics settings
const (
	DefaultPaddleSpeed  = 8.0
	DefaultBallSpeed    = 5.0
	DefaultBallAcc      = 0.05
	DefaultPaddleSpin   = 4.0
	DefaultPaddleMargin = 16.0
)

// Tuning holds the physics constants.
type Tuning struct {
	PaddleSpeed float32 // Paddle step per Up/Down tick
	BallAcc     float32 // Horizontal speed gained per paddle hit
	PaddleSpin  float32 // Vertical speed added for a hit at the paddle's edge
}

// DefaultTuning returns the stock physics constants.
func DefaultTuning() Tuning {
	return Tuning{
		PaddleSpeed: DefaultPaddleSpeed,
		BallAcc:     DefaultBallAcc,
		PaddleSpin:  DefaultPaddleSpin,
	}
}

// Step advances w by one tick using a single player's input and returns the
// new world. The input world is not modified.
func Step(w world.World, player multiplayer.PlayerNumber, button core.Button, t Tuning) world.World {
	movePaddle(&w, player, button, t.PaddleSpeed)

	w.Ball.Position = w.Ball.Position.Add(w.Ball.Velocity)

	if paddle, hit := paddleHit(&w); hit {
		bounceOffPaddle(&w.Ball, paddle, t)
	}

	// Walls only flip the vertical velocity; the ball may sit past the edge for a frame
	if w.Ball.Position.Y <= 0 || w.Ball.Position.Y+w.Ball.Height() >= w.Size.Y {
		w.Ball.Velocity.Y = -w.Ball.Velocity.Y
	}

	if w.Ball.Position.X < 0 {
		w.Winner = multiplayer.OutcomePlayer2
	}
	if w.Ball.Position.X > w.Size.X {
		w.Winner = multiplayer.OutcomePlayer1
	}

	return w
}

// movePaddle applies Up/Down to the paddle owned by player.
func movePaddle(w *world.World, player multiplayer.PlayerNumber, button core.Button, speed float32) {
	paddle := w.Paddle(player)
	if paddle == nil {
		return
	}
	switch button {
	case core.ButtonUp:
		paddle.Position.Y -= speed
	case core.ButtonDown:
		paddle.Position.Y += speed
	}
}

// paddleHit returns the paddle the ball overlaps. Player 1 is tested first.
func paddleHit(w *world.World) (world.Entity, bool) {
	ball := w.Ball.Bounds()
	if ball.Intersects(w.Player1.Bounds()) {
		return w.Player1, true
	}
	if ball.Intersects(w.Player2.Bounds()) {
		return w.Player2, true
	}
	return world.Entity{}, false
}

// bounceOffPaddle reverses and speeds up the ball, adding spin by hit offset.
// A hit above the paddle's center gives a positive offset and pushes the ball upward.
func bounceOffPaddle(ball *world.Entity, paddle world.Entity, t Tuning) {
	ball.Velocity.X = -(ball.Velocity.X + t.BallAcc*core.Signum(ball.Velocity.X))

	offset := (paddle.Center().Y - ball.Center().Y) / paddle.Height()
	ball.Velocity.Y += t.PaddleSpin * -offset
}
