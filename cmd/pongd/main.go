// pongd is an authoritative two-player pong server with terminal clients.
//
// Usage:
//
//	pongd serve     - Start the game server (websocket, optional SSH spectator)
//	pongd play      - Join a server and play in the terminal
//	pongd bot       - Join a server with a computer-controlled paddle
//	pongd results   - Show recorded match outcomes
//
// Global flags:
//
//	--config <path>      - Config file (default search: ~/.pongd, ./configs, built-in)
//	--log-level <level>  - debug, info, warn or error
//	--seed <value>       - RNG seed (0 = time based)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/config"
	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/world"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagSeed     int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pongd",
	Short: "netpong - authoritative two-player pong over websockets",
	Long: `netpong runs a two-player paddle-and-ball game on a server that owns
all state and physics. Clients send one input per frame and draw whatever
the server returns.

Available commands:
  serve    - Start the game server
  play     - Play in the terminal against another client
  bot      - Let the computer play one side
  results  - Show recorded outcomes

Examples:
  pongd serve
  pongd serve --ssh :23234
  pongd play --url ws://localhost:50051/ws
  pongd bot
  pongd results`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(resultsCmd)
}

// loadConfig reads the config file and applies the global flags on top.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	return cfg
}

// validate exits when cfg cannot be used.
func validate(cfg config.Config) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger.
func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pongd",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// clientDimensions returns the sizes clients report on Join.
func clientDimensions(c config.ClientConfig) world.Dimensions {
	return world.Dimensions{
		Window:  core.NewVec2(c.Window.W, c.Window.H),
		Player1: core.NewVec2(c.Paddle.W, c.Paddle.H),
		Player2: core.NewVec2(c.Paddle.W, c.Paddle.H),
		Ball:    core.NewVec2(c.Ball.W, c.Ball.H),
	}
}
