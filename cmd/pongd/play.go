package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/netpong/internal/games/pong"
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/platform/tui"
	"github.com/vovakirdan/netpong/internal/protocol"
	"github.com/vovakirdan/netpong/internal/transport"
)

var (
	flagURL string
	flagFPS int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Join a server and play in the terminal",
	Long: `Join a running server and play one side of the match.

The first client to join controls the left paddle, the second the right one.
Any later client watches without a paddle.

Controls:
  W / Up     Move paddle up
  S / Down   Move paddle down
  ?          Toggle help
  Q / Esc    Quit

Examples:
  pongd play
  pongd play --url ws://example.com:50051/ws
  pongd play --fps 30`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagURL, "url", "", "Server websocket URL")
	playCmd.Flags().IntVar(&flagFPS, "fps", 0, "Ticks sent per second")
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Client.URL = flagURL
	}
	if flags.Changed("fps") {
		cfg.Client.FPS = flagFPS
	}
	validate(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := transport.Dial(ctx, cfg.Client.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to %s: %v\n", cfg.Client.URL, err)
		os.Exit(1)
	}
	defer client.Close()

	dims := clientDimensions(cfg.Client)
	joined, err := client.Join(ctx, protocol.NewJoinRequest(dims))
	if err != nil {
		client.Close()
		fmt.Fprintf(os.Stderr, "Error joining: %v\n", err)
		os.Exit(1)
	}

	player := multiplayer.PlayerNumber(joined.AssignedPlayerNumber)
	if player.HasPaddle() {
		fmt.Printf("Joined as Player %d\n", player)
	} else {
		fmt.Printf("Joined as client %d (no paddle)\n", player)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	model := tui.NewPlayModel(client, tui.PlayConfig{
		Player:     player,
		Dimensions: dims,
		FPS:        cfg.Client.FPS,
		Width:      width,
		Height:     height,
	}, joined.World(dims), joined.TotalPlayers)

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		client.Close()
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}

	if m, ok := final.(tui.PlayModel); ok {
		if winner := m.World().Winner; winner.Decided() {
			fmt.Println(pong.WinnerText(winner))
		}
	}
}
