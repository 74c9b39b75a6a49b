package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/protocol"
	"github.com/vovakirdan/netpong/internal/service"
	"github.com/vovakirdan/netpong/internal/transport"
	"github.com/vovakirdan/netpong/internal/world"
)

type fakeClient struct {
	requests []*protocol.TickRequest
	resp     *protocol.TickResponse
	err      error
}

func (f *fakeClient) Tick(_ context.Context, req *protocol.TickRequest) (*protocol.TickResponse, error) {
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

func stockDimensions() world.Dimensions {
	return world.Dimensions{
		Window:  core.NewVec2(1200, 720),
		Player1: core.NewVec2(20, 100),
		Player2: core.NewVec2(20, 100),
		Ball:    core.NewVec2(20, 20),
	}
}

func newPlayModel(client GameClient) PlayModel {
	cfg := PlayConfig{
		Player:     multiplayer.Player1,
		Dimensions: stockDimensions(),
		FPS:        60,
		Width:      80,
		Height:     26,
	}
	return NewPlayModel(client, cfg, world.Layout(cfg.Dimensions, 16, core.Vec2{}), 1)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPlayModelSendsPressedButtonOnce(t *testing.T) {
	client := &fakeClient{resp: &protocol.TickResponse{TotalPlayers: 2, Winner: 2}}
	m := newPlayModel(client)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(PlayModel)
	if m.button != core.ButtonUp {
		t.Fatalf("button = %v after pressing up, expected Up", m.button)
	}

	next, cmd := m.Update(TickMsg{})
	m = next.(PlayModel)
	if cmd == nil || !m.inFlight {
		t.Fatal("a tick should start a request")
	}
	if m.button != core.ButtonNone {
		t.Error("button should reset after being sent")
	}

	// A frame while waiting does not send again
	next, _ = m.Update(TickMsg{})
	m = next.(PlayModel)

	msg := m.sendTick(core.ButtonUp)()
	if len(client.requests) != 1 {
		t.Fatalf("sent %d requests, expected 1", len(client.requests))
	}
	if got := client.requests[0]; got.PlayerNumber != 1 || got.Button != uint32(core.ButtonUp) {
		t.Errorf("request = %+v", got)
	}

	next, _ = m.Update(msg)
	m = next.(PlayModel)
	if m.inFlight {
		t.Error("result should clear the in-flight flag")
	}
	if m.total != 2 {
		t.Errorf("total = %d, expected 2", m.total)
	}
}

func TestPlayModelKeys(t *testing.T) {
	m := newPlayModel(&fakeClient{})

	next, _ := m.Update(runeKey('s'))
	if got := next.(PlayModel).button; got != core.ButtonDown {
		t.Errorf("button after 's' = %v, expected Down", got)
	}

	next, _ = m.Update(runeKey('x'))
	if got := next.(PlayModel).button; got != core.ButtonNone {
		t.Errorf("button after unbound key = %v, expected None", got)
	}

	next, _ = m.Update(runeKey('?'))
	if !next.(PlayModel).help.ShowAll {
		t.Error("'?' should expand the help")
	}

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("'q' should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("'q' should return tea.Quit")
	}
}

func TestPlayModelShowsWinner(t *testing.T) {
	client := &fakeClient{resp: &protocol.TickResponse{
		Player1Position: protocol.Vector2F{X: 16, Y: 310},
		Player2Position: protocol.Vector2F{X: 1084, Y: 310},
		Ball:            protocol.BallState{Position: protocol.Vector2F{X: -6, Y: 350}},
		TotalPlayers:    2,
		Winner:          uint32(multiplayer.OutcomePlayer2),
	}}
	m := newPlayModel(client)

	next, _ := m.Update(m.sendTick(core.ButtonNone)())
	m = next.(PlayModel)

	if m.World().Winner != multiplayer.OutcomePlayer2 {
		t.Fatalf("Winner = %v", m.World().Winner)
	}
	if !strings.Contains(m.View(), "Winner is: Player 2") {
		t.Error("view should announce the winner")
	}
}

func TestPlayModelErrors(t *testing.T) {
	client := &fakeClient{err: &transport.RemoteError{Message: "service: game not started"}}
	m := newPlayModel(client)

	next, cmd := m.Update(m.sendTick(core.ButtonNone)())
	m = next.(PlayModel)
	if cmd != nil {
		t.Error("a remote error should not quit")
	}
	if !strings.Contains(m.View(), "not started") {
		t.Error("view should show the last error")
	}

	_, cmd = m.Update(tickResultMsg{err: transport.ErrClosed})
	if cmd == nil {
		t.Fatal("a closed client should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("a closed client should return tea.Quit")
	}
}

func TestPlayModelResize(t *testing.T) {
	m := newPlayModel(&fakeClient{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(PlayModel)
	if m.screen.Width() != 100 || m.screen.Height() != 40-chromeRows {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}
}

type fakeSource struct {
	w     world.World
	err   error
	stats service.Stats
}

func (f *fakeSource) World() (world.World, error) { return f.w, f.err }
func (f *fakeSource) Stats() service.Stats         { return f.stats }

func TestSpectatorModel(t *testing.T) {
	source := &fakeSource{err: service.ErrNotStarted, stats: service.Stats{Winner: multiplayer.OutcomeNone}}
	m := NewSpectatorModel(source, "alice", 80, 24, 30)

	if !strings.Contains(m.View(), "waiting for players") {
		t.Error("spectator should wait before the first join")
	}

	source.err = nil
	source.w = world.Layout(stockDimensions(), 16, core.NewVec2(5, 0))
	source.stats = service.Stats{TotalPlayers: 2, Started: true, Winner: multiplayer.OutcomeNone}

	next, cmd := m.Update(TickMsg{})
	m = next.(SpectatorModel)
	if cmd == nil {
		t.Error("spectator should keep ticking")
	}
	if m.world != source.w {
		t.Error("spectator should copy the live world on tick")
	}
	if view := m.View(); !strings.Contains(view, "in play") || !strings.Contains(view, "players: 2") {
		t.Errorf("unexpected header:\n%s", view)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawText(0, 0, "P1", core.ColorCyan)
	s.DrawText(4, 1, "ok", core.ColorDefault)

	out := RenderScreen(s)
	if !strings.Contains(out, "P1") || !strings.Contains(out, "ok") {
		t.Errorf("RenderScreen() lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() should emit one line per row: %q", out)
	}
}
