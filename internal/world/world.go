// Package world holds the authoritative game state: both paddles, the ball
// and the match outcome.
package world

import (
	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/multiplayer"
)

// Entity is a rectangular game object. Size is fixed at creation.
type Entity struct {
	Size     core.Vec2
	Position core.Vec2
	Velocity core.Vec2
}

// NewEntity creates an entity at rest.
func NewEntity(size, position core.Vec2) Entity {
	return Entity{Size: size, Position: position}
}

// Width returns the horizontal size.
func (e Entity) Width() float32 {
	return e.Size.X
}

// Height returns the vertical size.
func (e Entity) Height() float32 {
	return e.Size.Y
}

// Center returns position + size/2.
func (e Entity) Center() core.Vec2 {
	return e.Position.Add(e.Size.Scale(0.5))
}

// Bounds returns the entity's bounding box.
func (e Entity) Bounds() core.Rect {
	return core.RectAt(e.Position, e.Size)
}

// World is a snapshot of the match. It is a plain value; copies are independent.
type World struct {
	Player1 Entity
	Player2 Entity
	Ball    Entity
	Size    core.Vec2
	Winner  multiplayer.Outcome
}

// Paddle returns a pointer to the paddle owned by the given player,
// or nil if that player has no paddle.
func (w *World) Paddle(p multiplayer.PlayerNumber) *Entity {
	switch p {
	case multiplayer.Player1:
		return &w.Player1
	case multiplayer.Player2:
		return &w.Player2
	default:
		return nil
	}
}

// Dimensions are the sizes a client reports when joining.
type Dimensions struct {
	Window  core.Vec2
	Player1 core.Vec2
	Player2 core.Vec2
	Ball    core.Vec2
}

// Layout places the entities for a fresh match.
// The second paddle's horizontal offset from the right edge uses its height,
// not its width; clients depend on this placement.
func Layout(d Dimensions, margin float32, ballVelocity core.Vec2) World {
	win := d.Window
	return World{
		Player1: NewEntity(d.Player1, core.NewVec2(
			margin,
			(win.Y-d.Player1.Y)/2,
		)),
		Player2: NewEntity(d.Player2, core.NewVec2(
			win.X-d.Player2.Y-margin,
			(win.Y-d.Player2.Y)/2,
		)),
		Ball: Entity{
			Size: d.Ball,
			Position: core.NewVec2(
				win.X/2-d.Ball.X/2,
				win.Y/2-d.Ball.Y/2,
			),
			Velocity: ballVelocity,
		},
		Size:   win,
		Winner: multiplayer.OutcomeNone,
	}
}
