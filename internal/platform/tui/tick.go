// Package tui provides the Bubble Tea front end for shapedash: the play
// screen, the shape picker, the scoreboard and SSH serving.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one game frame. ID names the tick loop that
// scheduled it, so a loop left behind by a previous play screen dies out.
type TickMsg struct {
	Time time.Time
	ID   int64
}

var tickLoops atomic.Int64

// nextTickID returns a fresh tick loop id.
func nextTickID() int64 {
	return tickLoops.Add(1)
}

// frameDuration returns the fixed simulation step for a tick rate.
func frameDuration(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	return time.Second / time.Duration(tickRate)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, id int64) tea.Cmd {
	return tea.Tick(frameDuration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg{Time: t, ID: id}
	})
}
