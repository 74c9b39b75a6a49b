package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(defaultServerYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults = %+v\nhardcoded = %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadCustomPathKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := `
server:
  addr: ":9000"
  idle_timeout: 90s
physics:
  ball_speed: 7.5
log_level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.IdleTimeout != 90*time.Second {
		t.Errorf("Server.IdleTimeout = %v", cfg.Server.IdleTimeout)
	}
	if cfg.Physics.BallSpeed != 7.5 {
		t.Errorf("Physics.BallSpeed = %v", cfg.Physics.BallSpeed)
	}
	if cfg.Physics.PaddleSpeed != 8 {
		t.Errorf("Physics.PaddleSpeed = %v, expected default 8", cfg.Physics.PaddleSpeed)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not, a, map]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("Load() of bad YAML error = %v", err)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// No user file yet: embedded defaults
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() without files = %+v", cfg)
	}

	dir := filepath.Join(home, ".pongd")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "server.yaml"), []byte("seed: 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, expected 42 from user config", cfg.Seed)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, false},
		{"zero paddle speed", func(c *Config) { c.Physics.PaddleSpeed = 0 }, false},
		{"negative ball speed", func(c *Config) { c.Physics.BallSpeed = -1 }, false},
		{"negative spin", func(c *Config) { c.Physics.PaddleSpin = -4 }, false},
		{"zero acceleration", func(c *Config) { c.Physics.BallAcc = 0 }, true},
		{"zero fps", func(c *Config) { c.Client.FPS = 0 }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate() = nil, expected an error")
			}
		})
	}
}
