package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/games/pong"
	"github.com/vovakirdan/netpong/internal/service"
	"github.com/vovakirdan/netpong/internal/world"
)

// WorldSource exposes the live match to viewers.
type WorldSource interface {
	World() (world.World, error)
	Stats() service.Stats
}

// SpectatorModel is a read-only view of the live match, refreshed every frame.
type SpectatorModel struct {
	source   WorldSource
	viewer   string
	tickRate int
	keys     SpectatorKeyMap
	help     help.Model
	screen   *core.Screen
	world    world.World
	stats    service.Stats
	quitting bool
}

// NewSpectatorModel creates a spectator for the given source.
func NewSpectatorModel(source WorldSource, viewer string, width, height, tickRate int) SpectatorModel {
	m := SpectatorModel{
		source:   source,
		viewer:   viewer,
		tickRate: tickRate,
		keys:     DefaultSpectatorKeyMap(),
		help:     help.New(),
		screen:   core.NewScreen(width, height-chromeRows),
	}
	m.refresh()
	return m
}

// Init starts the refresh loop.
func (m SpectatorModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m SpectatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height-chromeRows)
		m.help.Width = msg.Width

	case TickMsg:
		m.refresh()
		return m, tickCmd(m.tickRate)
	}

	return m, nil
}

// refresh copies the latest world out of the source.
func (m *SpectatorModel) refresh() {
	m.stats = m.source.Stats()
	if w, err := m.source.World(); err == nil {
		m.world = w
	}
}

// View renders the current state to a string for display.
func (m SpectatorModel) View() string {
	if m.quitting {
		return ""
	}

	status := "waiting for players"
	switch {
	case m.stats.Winner.Decided():
		status = pong.WinnerText(m.stats.Winner)
	case m.stats.Started:
		status = "in play"
	}

	header := titleStyle.Render("netpong spectator") + statusStyle.Render(fmt.Sprintf(
		"  %s  ·  players: %d  ·  watching as %s", status, m.stats.TotalPlayers, m.viewer,
	))

	pong.Render(m.screen, m.world)
	return layout(header, RenderScreen(m.screen), m.help.View(m.keys))
}
