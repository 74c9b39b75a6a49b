package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/server.yaml
var defaultServerYAML []byte

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":50051",
			DBPath:      "~/.pongd/outcomes.db",
			IdleTimeout: 30 * time.Minute,
		},
		Physics: PhysicsConfig{
			PaddleSpeed:  8,
			BallSpeed:    5,
			BallAcc:      0.05,
			PaddleSpin:   4,
			PaddleMargin: 16,
		},
		Client: ClientConfig{
			URL:    "ws://localhost:50051/ws",
			FPS:    60,
			Window: Size{W: 1200, H: 720},
			Paddle: Size{W: 20, H: 100},
			Ball:   Size{W: 20, H: 20},
		},
		LogLevel: "info",
	}
}
