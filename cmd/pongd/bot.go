package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/games/pong"
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/protocol"
	"github.com/vovakirdan/netpong/internal/transport"
	"github.com/vovakirdan/netpong/internal/world"
)

var (
	flagBotURL   string
	flagBotFPS   int
	flagSkill    float64
	flagMaxTicks uint64
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Join a server with a computer-controlled paddle",
	Long: `Join a running server and let the computer play the assigned side.

The bot only reacts while the ball travels toward its paddle, and skips
some ticks depending on --skill (0..1). It exits when a winner is decided,
after --max-ticks ticks, or on Ctrl+C.

Examples:
  pongd bot
  pongd bot --skill 0.6
  pongd bot --url ws://example.com:50051/ws --max-ticks 5000`,
	Run: runBot,
}

func init() {
	botCmd.Flags().StringVar(&flagBotURL, "url", "", "Server websocket URL")
	botCmd.Flags().IntVar(&flagBotFPS, "fps", 0, "Ticks sent per second")
	botCmd.Flags().Float64Var(&flagSkill, "skill", pong.DefaultBotSkill, "Chance of reacting on a tick (0..1)")
	botCmd.Flags().Uint64Var(&flagMaxTicks, "max-ticks", 0, "Stop after this many ticks (0 = no limit)")
}

func runBot(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Client.URL = flagBotURL
	}
	if flags.Changed("fps") {
		cfg.Client.FPS = flagBotFPS
	}
	validate(cfg)
	if flagSkill < 0 || flagSkill > 1 {
		fmt.Fprintf(os.Stderr, "Error: --skill must be between 0 and 1, got %v\n", flagSkill)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel).WithPrefix("bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := playBot(ctx, cfg.Client.URL, cfg.Client.FPS, clientDimensions(cfg.Client), cfg.Seed, logger); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// playBot joins the server and ticks until the match is decided or ctx ends.
func playBot(ctx context.Context, url string, fps int, dims world.Dimensions, seed int64, logger *log.Logger) error {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := transport.Dial(dialCtx, url)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", url, err)
	}
	defer client.Close()

	joined, err := client.Join(dialCtx, protocol.NewJoinRequest(dims))
	if err != nil {
		return fmt.Errorf("join: %w", err)
	}

	player := multiplayer.PlayerNumber(joined.AssignedPlayerNumber)
	if !player.HasPaddle() {
		return fmt.Errorf("server assigned client %d, which owns no paddle", player)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	bot := pong.NewBot(player, seed)
	bot.Skill = flagSkill

	logger = logger.With("player", int(player))
	logger.Info("joined", "players", joined.TotalPlayers)

	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	current := joined.World(dims)
	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping", "ticks", ticks)
			return nil
		case <-ticker.C:
		}

		button := bot.Decide(current)
		resp, err := client.Tick(ctx, &protocol.TickRequest{
			PlayerNumber: uint32(player),
			Button:       uint32(button),
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var remote *transport.RemoteError
			if errors.As(err, &remote) {
				logger.Warn("tick rejected", "error", remote.Message)
				continue
			}
			return fmt.Errorf("tick: %w", err)
		}
		ticks++

		current = resp.World(dims)
		if button != core.ButtonNone {
			logger.Debug("moved", "button", button, "ball", current.Ball.Position)
		}

		if current.Winner.Decided() {
			logger.Info(pong.WinnerText(current.Winner), "ticks", ticks,
				"won", current.Winner.Winner() == player)
			return nil
		}
		if flagMaxTicks > 0 && ticks >= flagMaxTicks {
			logger.Info("tick limit reached", "ticks", ticks)
			return nil
		}
	}
}
