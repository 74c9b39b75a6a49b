package world

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/netpong/internal/core"
)

// ErrNoWorld is returned by Read before the first Initialize.
var ErrNoWorld = errors.New("world: not initialized")

// StoreConfig holds placement settings for new worlds.
type StoreConfig struct {
	PaddleMargin float32 // Distance of paddles from the side edges
	BallSpeed    float32 // Horizontal launch speed once two players are present
	Seed         int64   // RNG seed for the launch direction; 0 means time-based
}

// DefaultStoreConfig returns the stock placement settings.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		PaddleMargin: 16,
		BallSpeed:    5,
	}
}

// Store is the single authoritative World.
// Each method holds the lock for its own duration only; a read followed by a
// Replace is not atomic, so concurrent writers race and the last one wins.
type Store struct {
	config StoreConfig

	mu     sync.Mutex
	world  World
	exists bool
	window core.Vec2 // pinned by the first Initialize
	rng    *rand.Rand
}

// NewStore creates an empty store.
func NewStore(cfg StoreConfig) *Store {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Store{
		config: cfg,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Initialize builds and installs a brand-new world, discarding any previous one.
// players is read under the store lock, so when initializations race the one
// installed last sees the final count. The ball stays at rest until that
// count reaches 2; from then on it launches horizontally in a random
// direction. Entities are placed in the caller's window, but the world size
// stays the one from the first call. Returns the installed world.
func (s *Store) Initialize(d Dimensions, players func() uint32) World {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists {
		s.window = d.Window
	}

	var velocity core.Vec2
	if players() >= 2 {
		velocity.X = s.config.BallSpeed
		if s.rng.Intn(2) == 0 {
			velocity.X = -s.config.BallSpeed
		}
	}

	s.world = Layout(d, s.config.PaddleMargin, velocity)
	s.world.Size = s.window
	s.exists = true
	return s.world
}

// Read returns a copy of the current world.
func (s *Store) Read() (World, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists {
		return World{}, ErrNoWorld
	}
	return s.world, nil
}

// Replace installs w unconditionally.
func (s *Store) Replace(w World) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.world = w
	s.exists = true
}
