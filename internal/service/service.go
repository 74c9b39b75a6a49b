// Package service implements the Join and Tick operations of the game server.
// It owns the session registry and the world store and applies the physics
// step on behalf of clients.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/games/pong"
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/protocol"
	"github.com/vovakirdan/netpong/internal/world"
)

// Config holds configuration for the service.
type Config struct {
	Store  world.StoreConfig
	Tuning pong.Tuning

	// Logger receives call logs. Nil discards them.
	Logger *log.Logger

	// Recorder is told about decided matches. Optional, can be nil.
	Recorder multiplayer.OutcomeRecorder
}

// DefaultConfig returns the stock physics and placement settings.
func DefaultConfig() Config {
	return Config{
		Store: world.StoreConfig{
			PaddleMargin: pong.DefaultPaddleMargin,
			BallSpeed:    pong.DefaultBallSpeed,
		},
		Tuning: pong.DefaultTuning(),
	}
}

// Stats summarizes the match for status displays.
type Stats struct {
	TotalPlayers uint32
	Started      bool
	Winner       multiplayer.Outcome
}

type stepFunc func(world.World, multiplayer.PlayerNumber, core.Button, pong.Tuning) world.World

// Service is the authoritative game server. Safe for concurrent use.
type Service struct {
	registry *multiplayer.SessionRegistry
	store    *world.Store
	tuning   pong.Tuning
	logger   *log.Logger
	recorder multiplayer.OutcomeRecorder
	step     stepFunc

	matchMu sync.Mutex
	matchID string
	ticks   atomic.Uint64

	pending sync.WaitGroup // outcome recordings in flight
}

// New creates a service with no players and no world.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{
		registry: multiplayer.NewSessionRegistry(),
		store:    world.NewStore(cfg.Store),
		tuning:   cfg.Tuning,
		logger:   logger,
		recorder: cfg.Recorder,
		step:     pong.Step,
	}
}

// Join registers a client and returns the initial placement and its player
// number. All four sizes are required; a request missing one is rejected
// before any state changes. Only the first two joins rebuild the world.
func (s *Service) Join(ctx context.Context, req *protocol.JoinRequest) (*protocol.JoinResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dims, err := dimensions(req)
	if err != nil {
		s.logger.Debug("join rejected", "error", err)
		return nil, err
	}

	if current, readErr := s.store.Read(); readErr == nil && current.Size != dims.Window {
		s.logger.Warn("window size differs from the first join; keeping the first as world size",
			"pinned", current.Size,
			"requested", dims.Window,
		)
	}

	player := s.registry.Join()
	count := uint32(player)

	if count <= 2 {
		s.store.Initialize(dims, s.registry.Count)
		if count == 2 {
			s.startMatch()
		}
	}

	w, err := s.store.Read()
	if err != nil {
		return nil, fmt.Errorf("service: cannot read world after join: %w", err)
	}

	s.logger.Info("player joined",
		"player", count,
		"total", count,
		"ball_velocity", w.Ball.Velocity,
	)

	return &protocol.JoinResponse{
		Player1Position:      protocol.VecFrom(w.Player1.Position),
		Player2Position:      protocol.VecFrom(w.Player2.Position),
		Ball:                 ballState(w),
		AssignedPlayerNumber: count,
		TotalPlayers:         count,
	}, nil
}

// Tick applies one frame of input and returns the resulting world.
// Until two players have joined the world is returned unchanged.
func (s *Service) Tick(ctx context.Context, req *protocol.TickRequest) (*protocol.TickResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, missingField("tick_request")
	}

	count := s.registry.Count()

	w, err := s.store.Read()
	if err != nil {
		if errors.Is(err, world.ErrNoWorld) {
			return nil, ErrNotStarted
		}
		return nil, fmt.Errorf("service: cannot read world: %w", err)
	}

	if count >= 2 {
		player := multiplayer.PlayerNumber(req.PlayerNumber)
		button := core.Button(req.Button)

		next, err := s.safeStep(w, player, button)
		if err != nil {
			return nil, err
		}
		s.store.Replace(next)
		ticks := s.ticks.Add(1)

		if next.Winner.Decided() && next.Winner != w.Winner {
			s.recordOutcome(next, count, ticks)
		}
		w = next
	}

	s.logger.Debug("tick",
		"player", req.PlayerNumber,
		"button", core.Button(req.Button),
		"ball", w.Ball.Position,
		"winner", w.Winner,
	)

	return &protocol.TickResponse{
		Player1Position: protocol.VecFrom(w.Player1.Position),
		Player2Position: protocol.VecFrom(w.Player2.Position),
		Ball:            ballState(w),
		TotalPlayers:    count,
		Winner:          uint32(w.Winner),
	}, nil
}

// World returns a copy of the current world.
func (s *Service) World() (world.World, error) {
	w, err := s.store.Read()
	if errors.Is(err, world.ErrNoWorld) {
		return world.World{}, ErrNotStarted
	}
	return w, err
}

// Stats returns the current player count and match state.
func (s *Service) Stats() Stats {
	st := Stats{
		TotalPlayers: s.registry.Count(),
		Winner:       multiplayer.OutcomeNone,
	}
	if w, err := s.store.Read(); err == nil {
		st.Started = s.registry.Ready()
		st.Winner = w.Winner
	}
	return st
}

// safeStep runs the physics step, turning a panic into ErrInternal.
// No lock is held here.
func (s *Service) safeStep(w world.World, player multiplayer.PlayerNumber, button core.Button) (next world.World, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("physics step panicked", "panic", r)
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()
	return s.step(w, player, button, s.tuning), nil
}

func (s *Service) startMatch() {
	s.matchMu.Lock()
	s.matchID = uuid.NewString()
	s.matchMu.Unlock()
	s.ticks.Store(0)
}

func (s *Service) currentMatch() string {
	s.matchMu.Lock()
	defer s.matchMu.Unlock()
	return s.matchID
}

// recordOutcome hands the result to the recorder without blocking the tick.
func (s *Service) recordOutcome(w world.World, players uint32, ticks uint64) {
	record := multiplayer.OutcomeRecord{
		MatchID:      s.currentMatch(),
		Winner:       w.Winner,
		TotalPlayers: players,
		Ticks:        ticks,
		BallSpeed:    core.Abs(w.Ball.Velocity.X),
		DecidedAt:    time.Now(),
	}
	s.logger.Info("match decided", "match", record.MatchID, "winner", record.Winner, "ticks", ticks)

	if s.recorder == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.recorder.SaveOutcome(record); err != nil {
			s.logger.Error("could not record outcome", "match", record.MatchID, "error", err)
		}
	}()
}

// Wait blocks until every outcome handed to the recorder has been saved.
// Call it after the transport stops and before the recorder is closed.
func (s *Service) Wait() {
	s.pending.Wait()
}

func dimensions(req *protocol.JoinRequest) (world.Dimensions, error) {
	if req == nil {
		return world.Dimensions{}, missingField("join_request")
	}
	fields := []struct {
		name string
		v    *protocol.Vector2F
	}{
		{"window_size", req.WindowSize},
		{"player1_sprite_size", req.Player1SpriteSize},
		{"player2_sprite_size", req.Player2SpriteSize},
		{"ball_sprite_size", req.BallSpriteSize},
	}
	for _, f := range fields {
		if f.v == nil {
			return world.Dimensions{}, missingField(f.name)
		}
	}
	return world.Dimensions{
		Window:  req.WindowSize.Vec2(),
		Player1: req.Player1SpriteSize.Vec2(),
		Player2: req.Player2SpriteSize.Vec2(),
		Ball:    req.BallSpriteSize.Vec2(),
	}, nil
}

func ballState(w world.World) protocol.BallState {
	return protocol.BallState{
		Position: protocol.VecFrom(w.Ball.Position),
		Velocity: protocol.VecFrom(w.Ball.Velocity),
	}
}
