package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/games/pong"
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/protocol"
	"github.com/vovakirdan/netpong/internal/transport"
	"github.com/vovakirdan/netpong/internal/world"
)

// GameClient is the part of the transport client the play model uses.
type GameClient interface {
	Tick(ctx context.Context, req *protocol.TickRequest) (*protocol.TickResponse, error)
}

// PlayConfig holds settings for a play session.
type PlayConfig struct {
	Player     multiplayer.PlayerNumber
	Dimensions world.Dimensions // Sizes reported on Join
	FPS        int
	Width      int // Terminal columns
	Height     int // Terminal rows
}

// tickResultMsg carries the server's answer to one Tick.
type tickResultMsg struct {
	resp *protocol.TickResponse
	err  error
}

// PlayModel is the Bubble Tea model for a remote player.
// One Tick is in flight at a time; frames that fire while waiting are skipped.
type PlayModel struct {
	client   GameClient
	config   PlayConfig
	keys     PlayKeyMap
	help     help.Model
	screen   *core.Screen
	world    world.World
	total    uint32
	button   core.Button // Sent with the next tick, then reset
	inFlight bool
	err      error
	quitting bool
}

// NewPlayModel creates a play model starting from the world returned by Join.
func NewPlayModel(client GameClient, cfg PlayConfig, initial world.World, total uint32) PlayModel {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	return PlayModel{
		client: client,
		config: cfg,
		keys:   DefaultPlayKeyMap(),
		help:   help.New(),
		screen: core.NewScreen(cfg.Width, cfg.Height-chromeRows),
		world:  initial,
		total:  total,
		button: core.ButtonNone,
	}
}

// Init starts the frame loop.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.config.FPS)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if b, ok := m.keys.ButtonFor(msg); ok {
			m.button = b
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.config.Width = msg.Width
		m.config.Height = msg.Height
		m.screen.Resize(msg.Width, msg.Height-chromeRows)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.inFlight {
			return m, tickCmd(m.config.FPS)
		}
		m.inFlight = true
		button := m.button
		m.button = core.ButtonNone
		return m, tea.Batch(m.sendTick(button), tickCmd(m.config.FPS))

	case tickResultMsg:
		m.inFlight = false
		if msg.err != nil {
			m.err = msg.err
			if errors.Is(msg.err, transport.ErrClosed) {
				return m, tea.Quit
			}
			return m, nil
		}
		m.err = nil
		m.world = msg.resp.World(m.config.Dimensions)
		m.total = msg.resp.TotalPlayers
		return m, nil
	}

	return m, nil
}

// sendTick calls the server off the UI goroutine.
func (m PlayModel) sendTick(button core.Button) tea.Cmd {
	client := m.client
	req := &protocol.TickRequest{
		PlayerNumber: uint32(m.config.Player),
		Button:       uint32(button),
	}
	timeout := max(time.Second, 10*time.Second/time.Duration(m.config.FPS))
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Tick(ctx, req)
		return tickResultMsg{resp: resp, err: err}
	}
}

// World returns the last world received from the server.
func (m PlayModel) World() world.World {
	return m.world
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	header := titleStyle.Render("netpong") + statusStyle.Render(fmt.Sprintf(
		"  you are %s  ·  players: %d", playerLabel(m.config.Player), m.total,
	))
	if m.total < 2 {
		header += statusStyle.Render("  ·  waiting for an opponent")
	}
	if m.err != nil {
		header += "  " + errorStyle.Render(m.err.Error())
	}

	pong.Render(m.screen, m.world)
	return layout(header, RenderScreen(m.screen), m.help.View(m.keys))
}

func playerLabel(p multiplayer.PlayerNumber) string {
	if p.HasPaddle() {
		return fmt.Sprintf("Player %d", p)
	}
	return fmt.Sprintf("#%d (no paddle)", p)
}
