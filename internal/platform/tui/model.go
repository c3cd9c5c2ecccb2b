package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/core"
	"github.com/vovakirdan/shapedash/internal/game"
	"github.com/vovakirdan/shapedash/internal/physics"
	"github.com/vovakirdan/shapedash/internal/player"
	"github.com/vovakirdan/shapedash/internal/timer"
)

// GameOptions configures a play screen.
type GameOptions struct {
	Config  config.RunnerConfig
	Runtime core.RuntimeConfig
	Shape   player.Shape
	Store   game.ProgressStore
	Logger  *log.Logger
}

// Model is the Bubble Tea model for one play session: it owns the physics
// world, the timer queue and the game session that drives them.
type Model struct {
	session  *game.Session
	world    *physics.World
	clock    *timer.Queue
	renderer *SceneRenderer
	runtime  core.RuntimeConfig
	keys     GameKeyMap
	help     help.Model
	input    core.InputFrame
	logger   *log.Logger
	width    int
	height   int
	tickID   int64

	paused     bool
	quitting   bool
	backToMenu bool
}

// NewModel creates a play screen and starts the first level.
func NewModel(opts GameOptions) (Model, error) {
	cfg := opts.Runtime
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	world := physics.NewWorld(opts.Config)
	clock := timer.NewQueue()
	session, err := game.NewSession(opts.Config, world, clock, opts.Store,
		game.WithLogger(logger),
		game.WithSeed(cfg.Seed),
	)
	if err != nil {
		return Model{}, err
	}
	if _, err := session.StartLevel(opts.Shape); err != nil {
		return Model{}, err
	}

	lvl := opts.Config.Level
	return Model{
		session:  session,
		world:    world,
		clock:    clock,
		renderer: NewSceneRenderer(cfg.ScreenW, cfg.ScreenH-1, lvl.TileWidth, lvl.StartY),
		runtime:  cfg,
		keys:     DefaultGameKeyMap(),
		help:     help.New(),
		input:    core.NewInputFrame(),
		logger:   logger,
		width:    cfg.ScreenW,
		height:   cfg.ScreenH,
		tickID:   nextTickID(),
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.runtime.TickRate, m.tickID)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.renderer.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.ID != m.tickID {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

func (m Model) finished() bool {
	l := m.session.Current()
	return l != nil && l.Finished()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.MapKey(msg, m.finished()); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.backToMenu = true
	case core.ActionPause:
		m.paused = !m.paused
	case core.ActionNone:
	default:
		m.input.Set(action)
	}
	return m, nil
}

// handleTick runs one fixed-step frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}
	next := tickCmd(m.runtime.TickRate, m.tickID)
	if m.paused {
		m.input.Clear()
		return m, next
	}

	if m.input.Has(core.ActionRestart) {
		if _, err := m.session.Restart(); err != nil && !errors.Is(err, game.ErrRestartNotReady) {
			m.logger.Error("restart failed", "err", err)
		}
	}
	if m.input.Has(core.ActionJump) {
		if l := m.session.Current(); l != nil {
			l.OnJumpInput()
		}
	}
	m.input.Clear()

	if err := m.session.Frame(frameDuration(m.runtime.TickRate)); err != nil && !errors.Is(err, game.ErrLevelEnded) {
		m.logger.Error("frame failed", "err", err)
	}
	return m, next
}

// SetConfig replaces the level configuration from the next level on.
func (m Model) SetConfig(cfg config.RunnerConfig) error {
	return m.session.SetConfig(cfg)
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".shapedash", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("run_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.renderer.Screen().String()), 0o600)
}

// HUD returns the status line values for the current frame.
func (m Model) HUD() core.HUD {
	hud := core.HUD{Best: m.session.BestScore(), Paused: m.paused}
	if l := m.session.Current(); l != nil {
		hud.Shape = l.Shape().String()
		hud.Score = l.Score()
		hud.Dead = l.State() == player.Dead
		hud.Finished = l.Finished()
		hud.CanRestart = l.CanRestart()
	}
	return hud
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	l := m.session.Current()
	if l == nil {
		return ""
	}
	if result, ok := l.Result(); ok && l.Finished() {
		return m.resultsView(result, l.CanRestart())
	}

	x, _ := m.world.Position(l.Player())
	m.renderer.Draw(m.world, x, m.HUD())
	return RenderScreen(m.renderer.Screen()) + "\n" + m.help.View(m.keys)
}

var (
	resultsBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 4)
	resultsTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	resultsBest  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	resultsDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// resultsView renders the game-over panel.
func (m Model) resultsView(r game.GameOver, canRestart bool) string {
	var b strings.Builder
	b.WriteString(resultsTitle.Render("GAME OVER"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Shape     %s\n", r.Shape)
	fmt.Fprintf(&b, "Cause     %s\n", r.Cause)
	fmt.Fprintf(&b, "Score     %d\n", r.FinalScore)
	fmt.Fprintf(&b, "Best      %d\n", r.Best)
	if r.NewBest {
		b.WriteString("\n")
		b.WriteString(resultsBest.Render("New best score!"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if canRestart {
		b.WriteString(m.help.ShortHelpView(m.keys.ResultsHelp()))
	} else {
		b.WriteString(resultsDim.Render("..."))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, resultsBox.Render(b.String()))
}

// BackToMenu returns true if the user asked for the shape menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Session exposes the game session, mostly for tests.
func (m Model) Session() *game.Session {
	return m.session
}
