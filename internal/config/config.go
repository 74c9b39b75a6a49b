// Package config provides YAML-based configuration loading for the pong
// server and its clients.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config contains all configuration for pongd.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Physics  PhysicsConfig `yaml:"physics"`
	Client   ClientConfig  `yaml:"client"`
	Seed     int64         `yaml:"seed"`      // 0 = time based
	LogLevel string        `yaml:"log_level"` // debug, info, warn, error
}

// ServerConfig defines listener and ledger settings.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	SSHAddr     string        `yaml:"ssh_addr"` // Empty disables the spectator
	HostKey     string        `yaml:"host_key"`
	DBPath      string        `yaml:"db_path"` // Empty disables the outcome ledger
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// PhysicsConfig defines the gameplay constants.
type PhysicsConfig struct {
	PaddleSpeed  float32 `yaml:"paddle_speed"`
	BallSpeed    float32 `yaml:"ball_speed"`
	BallAcc      float32 `yaml:"ball_acc"`
	PaddleSpin   float32 `yaml:"paddle_spin"`
	PaddleMargin float32 `yaml:"paddle_margin"`
}

// ClientConfig defines what the play and bot clients report on Join.
type ClientConfig struct {
	URL    string `yaml:"url"`
	FPS    int    `yaml:"fps"`
	Window Size   `yaml:"window"`
	Paddle Size   `yaml:"paddle"`
	Ball   Size   `yaml:"ball"`
}

// Size is a width/height pair in game units.
type Size struct {
	W float32 `yaml:"w"`
	H float32 `yaml:"h"`
}

var errEmptyAddr = errors.New("config: server.addr must not be empty")

// Validate reports the first setting that would break the server.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errEmptyAddr
	}

	positive := []struct {
		name  string
		value float32
	}{
		{"physics.paddle_speed", c.Physics.PaddleSpeed},
		{"physics.ball_speed", c.Physics.BallSpeed},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("config: %s must be positive, got %v", p.name, p.value)
		}
	}

	if c.Physics.BallAcc < 0 || c.Physics.PaddleSpin < 0 || c.Physics.PaddleMargin < 0 {
		return errors.New("config: physics values must not be negative")
	}
	if c.Client.FPS <= 0 {
		return fmt.Errorf("config: client.fps must be positive, got %d", c.Client.FPS)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
