package pong

import (
	"testing"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/world"
)

// newTestWorld returns the stock 1200x720 layout with the ball at rest in the center.
func newTestWorld() world.World {
	return world.Layout(world.Dimensions{
		Window:  core.NewVec2(1200, 720),
		Player1: core.NewVec2(20, 100),
		Player2: core.NewVec2(20, 100),
		Ball:    core.NewVec2(20, 20),
	}, DefaultPaddleMargin, core.Vec2{})
}

func TestStepPaddleMovement(t *testing.T) {
	tuning := DefaultTuning()

	tests := []struct {
		name    string
		player  multiplayer.PlayerNumber
		button  core.Button
		deltaP1 float32
		deltaP2 float32
	}{
		{"player1 up", multiplayer.Player1, core.ButtonUp, -8, 0},
		{"player1 down", multiplayer.Player1, core.ButtonDown, 8, 0},
		{"player1 none", multiplayer.Player1, core.ButtonNone, 0, 0},
		{"player2 up", multiplayer.Player2, core.ButtonUp, 0, -8},
		{"player2 down", multiplayer.Player2, core.ButtonDown, 0, 8},
		{"player2 unknown button", multiplayer.Player2, core.Button(9), 0, 0},
		{"player0 up", 0, core.ButtonUp, 0, 0},
		{"player3 down", 3, core.ButtonDown, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := newTestWorld()
			after := Step(before, tc.player, tc.button, tuning)

			if got := after.Player1.Position.Y - before.Player1.Position.Y; got != tc.deltaP1 {
				t.Errorf("player1 moved %v, expected %v", got, tc.deltaP1)
			}
			if got := after.Player2.Position.Y - before.Player2.Position.Y; got != tc.deltaP2 {
				t.Errorf("player2 moved %v, expected %v", got, tc.deltaP2)
			}
			if after.Player1.Position.X != before.Player1.Position.X || after.Player2.Position.X != before.Player2.Position.X {
				t.Error("paddles must never move horizontally")
			}
		})
	}
}

func TestStepBallIntegration(t *testing.T) {
	w := newTestWorld()
	w.Ball.Velocity = core.NewVec2(5, 3)
	start := w.Ball.Position

	next := Step(w, multiplayer.Player1, core.ButtonNone, DefaultTuning())

	if next.Ball.Position != start.Add(core.NewVec2(5, 3)) {
		t.Errorf("Ball.Position = %+v, expected %+v", next.Ball.Position, start.Add(core.NewVec2(5, 3)))
	}
	if next.Ball.Velocity != core.NewVec2(5, 3) {
		t.Errorf("Ball.Velocity changed without a collision: %+v", next.Ball.Velocity)
	}
}

func TestStepDoesNotModifyInput(t *testing.T) {
	w := newTestWorld()
	w.Ball.Velocity = core.NewVec2(-5, 0)
	snapshot := w

	Step(w, multiplayer.Player1, core.ButtonUp, DefaultTuning())

	if w != snapshot {
		t.Error("Step() must not modify its input world")
	}
}

func TestStepPaddleCollision(t *testing.T) {
	tuning := DefaultTuning()

	tests := []struct {
		name      string
		ballPos   core.Vec2
		velocity  core.Vec2
		expectVY  float32
		direction float32 // expected sign of vx after the hit
	}{
		{
			name:      "center hit on player1",
			ballPos:   core.NewVec2(37, 350),
			velocity:  core.NewVec2(-5, 0),
			expectVY:  0,
			direction: 1,
		},
		{
			name:      "upper hit on player1 sends ball upward",
			ballPos:   core.NewVec2(37, 300),
			velocity:  core.NewVec2(-5, 0),
			expectVY:  -2, // offset 0.5 * spin 4
			direction: 1,
		},
		{
			name:      "lower hit on player2 sends ball downward",
			ballPos:   core.NewVec2(1060, 400),
			velocity:  core.NewVec2(5, 0),
			expectVY:  2,
			direction: -1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld()
			w.Ball.Position = tc.ballPos
			w.Ball.Velocity = tc.velocity

			next := Step(w, multiplayer.Player1, core.ButtonNone, tuning)

			speed := core.Abs(tc.velocity.X) + tuning.BallAcc
			if next.Ball.Velocity.X != tc.direction*speed {
				t.Errorf("Ball.Velocity.X = %v, expected %v", next.Ball.Velocity.X, tc.direction*speed)
			}
			if core.Signum(next.Ball.Velocity.X) == core.Signum(tc.velocity.X) {
				t.Error("horizontal direction should flip on a paddle hit")
			}
			if core.Abs(next.Ball.Velocity.X) <= core.Abs(tc.velocity.X) {
				t.Error("horizontal speed should strictly increase on a paddle hit")
			}
			if next.Ball.Velocity.Y != tc.expectVY {
				t.Errorf("Ball.Velocity.Y = %v, expected %v", next.Ball.Velocity.Y, tc.expectVY)
			}
		})
	}
}

func TestStepRepeatedHitsSpeedUp(t *testing.T) {
	tuning := DefaultTuning()
	w := newTestWorld()
	w.Ball.Position = core.NewVec2(30, 350)
	w.Ball.Velocity = core.NewVec2(-1, 0)

	// The ball stays overlapping for one more tick, so it is hit twice
	first := Step(w, multiplayer.Player1, core.ButtonNone, tuning)
	second := Step(first, multiplayer.Player1, core.ButtonNone, tuning)

	if core.Abs(second.Ball.Velocity.X) <= core.Abs(first.Ball.Velocity.X) {
		t.Errorf("speed should grow on every hit: %v then %v", first.Ball.Velocity.X, second.Ball.Velocity.X)
	}
}

func TestStepWallBounce(t *testing.T) {
	tests := []struct {
		name     string
		pos      core.Vec2
		velocity core.Vec2
		expectVY float32
	}{
		{"top wall", core.NewVec2(600, 1), core.NewVec2(2, -3), 3},
		{"exactly at top", core.NewVec2(600, 3), core.NewVec2(2, -3), 3},
		{"bottom wall", core.NewVec2(600, 697), core.NewVec2(2, 4), -4},
		{"open field", core.NewVec2(600, 300), core.NewVec2(2, 4), 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld()
			w.Ball.Position = tc.pos
			w.Ball.Velocity = tc.velocity

			next := Step(w, multiplayer.Player1, core.ButtonNone, DefaultTuning())

			if next.Ball.Velocity.Y != tc.expectVY {
				t.Errorf("Ball.Velocity.Y = %v, expected %v", next.Ball.Velocity.Y, tc.expectVY)
			}
			if next.Ball.Velocity.X != tc.velocity.X {
				t.Errorf("Ball.Velocity.X changed to %v", next.Ball.Velocity.X)
			}
			// No clamping: position is exactly the integrated one
			if next.Ball.Position != tc.pos.Add(tc.velocity) {
				t.Errorf("Ball.Position = %+v, expected %+v", next.Ball.Position, tc.pos.Add(tc.velocity))
			}
			if next.Winner != multiplayer.OutcomeNone {
				t.Errorf("Winner = %v, expected None", next.Winner)
			}
		})
	}
}

func TestStepWinDetection(t *testing.T) {
	tests := []struct {
		name     string
		prior    multiplayer.Outcome
		pos      core.Vec2
		velocity core.Vec2
		expected multiplayer.Outcome
	}{
		{"ball past left edge", multiplayer.OutcomeNone, core.NewVec2(-1, 350), core.NewVec2(-5, 0), multiplayer.OutcomePlayer2},
		{"ball at rest past left edge", multiplayer.OutcomeNone, core.NewVec2(-1, 350), core.Vec2{}, multiplayer.OutcomePlayer2},
		{"ball past right edge", multiplayer.OutcomeNone, core.NewVec2(1201, 350), core.NewVec2(5, 0), multiplayer.OutcomePlayer1},
		{"exactly at right edge", multiplayer.OutcomeNone, core.NewVec2(1195, 350), core.NewVec2(5, 0), multiplayer.OutcomeNone},
		{"in bounds keeps prior winner", multiplayer.OutcomePlayer1, core.NewVec2(600, 350), core.NewVec2(5, 0), multiplayer.OutcomePlayer1},
		{"later excursion overwrites winner", multiplayer.OutcomePlayer1, core.NewVec2(-10, 350), core.NewVec2(-5, 0), multiplayer.OutcomePlayer2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld()
			w.Winner = tc.prior
			w.Ball.Position = tc.pos
			w.Ball.Velocity = tc.velocity

			next := Step(w, multiplayer.Player2, core.ButtonUp, DefaultTuning())

			if next.Winner != tc.expected {
				t.Errorf("Winner = %v, expected %v", next.Winner, tc.expected)
			}
		})
	}
}

func TestStepNoResetAfterScore(t *testing.T) {
	w := newTestWorld()
	w.Ball.Position = core.NewVec2(-1, 350)
	w.Ball.Velocity = core.NewVec2(-5, 0)

	next := Step(w, multiplayer.Player1, core.ButtonNone, DefaultTuning())
	next = Step(next, multiplayer.Player1, core.ButtonNone, DefaultTuning())

	if next.Ball.Position.X != -11 {
		t.Errorf("ball should keep travelling after a score, got x=%v", next.Ball.Position.X)
	}
	if next.Ball.Velocity.X != -5 {
		t.Errorf("ball velocity should not be reset, got %v", next.Ball.Velocity.X)
	}
}

func TestBotTracksIncomingBall(t *testing.T) {
	w := newTestWorld()
	w.Ball.Velocity = core.NewVec2(-5, 0)

	bot := NewBot(multiplayer.Player1, 1)
	bot.Skill = 1

	// Ball well below the paddle center
	w.Ball.Position.Y = 600
	if got := bot.Decide(w); got != core.ButtonDown {
		t.Errorf("Decide() = %v, expected Down", got)
	}

	// Ball well above
	w.Ball.Position.Y = 50
	if got := bot.Decide(w); got != core.ButtonUp {
		t.Errorf("Decide() = %v, expected Up", got)
	}

	// Lined up
	w.Ball.Position.Y = 350
	if got := bot.Decide(w); got != core.ButtonNone {
		t.Errorf("Decide() = %v, expected None", got)
	}
}

func TestBotIgnoresOutgoingBall(t *testing.T) {
	w := newTestWorld()
	w.Ball.Velocity = core.NewVec2(-5, 0)
	w.Ball.Position.Y = 600

	bot := NewBot(multiplayer.Player2, 1)
	bot.Skill = 1
	if got := bot.Decide(w); got != core.ButtonNone {
		t.Errorf("Decide() = %v, expected None for a ball moving away", got)
	}

	spectator := NewBot(3, 1)
	if got := spectator.Decide(w); got != core.ButtonNone {
		t.Errorf("Decide() for a player without paddle = %v, expected None", got)
	}
}
