package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/core"
	"github.com/vovakirdan/shapedash/internal/player"
)

func newTestSession(t *testing.T, shape *player.Shape, reloads <-chan config.Reload) SessionModel {
	t.Helper()
	return NewSessionModel(SessionOptions{
		Runner:  config.DefaultRunnerConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 11},
		Shape:   shape,
		Reloads: reloads,
	})
}

func step(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected SessionModel", next)
	}
	return out
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	m := newTestSession(t, nil, nil)
	if m.screen != screenMenu {
		t.Fatalf("screen = %d, expected menu", m.screen)
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame {
		t.Fatalf("screen = %d after enter, expected game", m.screen)
	}
	if got := m.game.Session().Current().Shape(); got != player.Circle {
		t.Errorf("Shape() = %v, expected circle", got)
	}

	m = step(t, m, runeKey('m'))
	if m.screen != screenMenu {
		t.Errorf("screen = %d after m, expected menu", m.screen)
	}
	if m.menu.Selected() != nil {
		t.Error("returning to the menu should reset the selection")
	}
}

func TestSessionStartsWithShape(t *testing.T) {
	shape := player.Triangle
	m := newTestSession(t, &shape, nil)

	if m.screen != screenGame {
		t.Fatalf("screen = %d, expected game", m.screen)
	}
	if m.Init() == nil {
		t.Error("Init() should start the tick loop")
	}
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	m := newTestSession(t, nil, nil)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScores {
		t.Fatalf("screen = %d after tab, expected scores", m.screen)
	}
	if m.View() == "" {
		t.Error("scoreboard view should not be empty")
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("screen = %d after esc, expected menu", m.screen)
	}
}

func TestSessionQuit(t *testing.T) {
	m := newTestSession(t, nil, nil)
	m = step(t, m, runeKey('q'))
	if !m.quitting || m.View() != "" {
		t.Error("q should quit from the menu")
	}
}

func TestSessionAppliesReloads(t *testing.T) {
	reloads := make(chan config.Reload, 3)
	m := newTestSession(t, nil, reloads)

	cfg := config.DefaultRunnerConfig()
	cfg.Level.HazardChance = 35
	bad := cfg
	bad.Stream.ChunkLength = -1
	reloads <- config.Reload{Config: cfg}
	reloads <- config.Reload{Config: bad}
	reloads <- config.Reload{Err: errors.New("parse error")}

	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if got := m.runner.Level.HazardChance; got != 35 {
		t.Errorf("HazardChance = %d, expected 35", got)
	}
	if m.runner.Stream.ChunkLength <= 0 {
		t.Error("an invalid reload replaced the config")
	}
	if m.config.ScreenW != 100 || m.config.ScreenH != 30 {
		t.Errorf("runtime size = %dx%d, expected 100x30", m.config.ScreenW, m.config.ScreenH)
	}

	// Levels started afterwards use the reloaded config
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.game.Session().Config().Level.HazardChance; got != 35 {
		t.Errorf("new level HazardChance = %d, expected 35", got)
	}

	close(reloads)
	m = step(t, m, TickMsg{ID: m.game.tickID})
	if m.reloads != nil {
		t.Error("a closed reload channel should be dropped")
	}
}
