package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/core"
	"github.com/vovakirdan/shapedash/internal/player"
	"github.com/vovakirdan/shapedash/internal/storage"
)

type screenKind int

const (
	screenMenu screenKind = iota
	screenGame
	screenScores
)

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Store   *storage.Store // nil keeps the best score in memory
	Runner  config.RunnerConfig
	Runtime core.RuntimeConfig
	Logger  *log.Logger

	// Shape, when set, skips the menu and starts playing right away.
	Shape *player.Shape

	// Reloads delivers config changes. They apply from the next level.
	Reloads <-chan config.Reload
}

// SessionModel manages the full flow inside one program:
// menu -> game -> menu, with the scoreboard reachable from the menu.
type SessionModel struct {
	store    *storage.Store
	runner   config.RunnerConfig
	config   core.RuntimeConfig
	logger   *log.Logger
	reloads  <-chan config.Reload
	screen   screenKind
	menu     MenuModel
	game     Model
	scores   ScoreboardModel
	quitting bool
	err      error
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := SessionModel{
		store:   opts.Store,
		runner:  opts.Runner,
		config:  opts.Runtime,
		logger:  logger,
		reloads: opts.Reloads,
		menu:    NewMenuModel(opts.Store, opts.Runtime),
	}
	if opts.Shape != nil {
		m, _ = m.startGame(*opts.Shape)
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenGame {
		return m.game.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.pollReloads()

	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// pollReloads applies pending config reloads without blocking.
func (m *SessionModel) pollReloads() {
	if m.reloads == nil {
		return
	}
	for {
		select {
		case r, ok := <-m.reloads:
			if !ok {
				m.reloads = nil
				return
			}
			m.applyReload(r)
		default:
			return
		}
	}
}

func (m *SessionModel) applyReload(r config.Reload) {
	if r.Err == nil {
		r.Err = r.Config.Validate()
	}
	if r.Err != nil {
		m.logger.Warn("config reload rejected", "err", r.Err)
		return
	}
	m.runner = r.Config
	if m.screen == screenGame {
		if err := m.game.SetConfig(r.Config); err != nil {
			m.logger.Warn("config reload rejected", "err", err)
			return
		}
	}
	m.logger.Info("config reloaded; applies to the next level")
}

// startGame builds a play screen for shape with a fresh time-based seed
// unless the runtime config pins one.
func (m SessionModel) startGame(shape player.Shape) (SessionModel, tea.Cmd) {
	rt := m.config
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	opts := GameOptions{
		Config:  m.runner,
		Runtime: rt,
		Shape:   shape,
		Logger:  m.logger,
	}
	// A nil *Store must not become a non-nil ProgressStore.
	if m.store != nil {
		opts.Store = m.store
	}

	game, err := NewModel(opts)
	if err != nil {
		m.logger.Error("cannot start level", "err", err)
		m.err = err
		m.menu = NewMenuModel(m.store, m.config)
		m.screen = screenMenu
		return m, nil
	}
	m.game = game
	m.screen = screenGame
	return m, m.game.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.screen = screenScores
		m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		return m.startGame(m.menu.Selected().Shape)
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = game
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.screen = screenMenu
		m.menu = NewMenuModel(m.store, m.config)
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		m.screen = screenMenu
		m.menu = NewMenuModel(m.store, m.config)
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Err returns the last error that sent the session back to the menu.
func (m SessionModel) Err() error {
	return m.err
}

// RunSession runs a local session program until the user quits. It returns
// the last level start error, if any.
func RunSession(opts SessionOptions) error {
	p := tea.NewProgram(NewSessionModel(opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(SessionModel); ok {
		return m.Err()
	}
	return nil
}
