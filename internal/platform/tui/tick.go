// Package tui provides the Bubble Tea front ends for netpong: a remote play
// client and a read-only spectator served over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger the next frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick message after one frame at the given rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(max(1, tickRate))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
