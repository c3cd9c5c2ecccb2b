// Package game orchestrates level instances: it wires the generator, the
// streaming window and the contact controller to the engine collaborators,
// runs the per-tick loop and the death-to-results sequence.
package game

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/engine"
	"github.com/vovakirdan/shapedash/internal/level"
	"github.com/vovakirdan/shapedash/internal/player"
	"github.com/vovakirdan/shapedash/internal/rng"
	"github.com/vovakirdan/shapedash/internal/stream"
)

var (
	// ErrLevelEnded is returned when a level that was replaced or torn down is driven.
	ErrLevelEnded = errors.New("game: level has ended")

	// ErrNoLevel is returned by Restart before any level was started.
	ErrNoLevel = errors.New("game: no level started")

	// ErrRestartNotReady is returned by Restart while the results view is
	// still inside its restart delay.
	ErrRestartNotReady = errors.New("game: restart not available yet")
)

// Clock is a Scheduler whose time is advanced by the game loop itself.
// *timer.Queue satisfies it.
type Clock interface {
	engine.Scheduler
	Advance(dt time.Duration) int
}

// Session owns the collaborators shared by consecutive level instances and
// the progress store that outlives them.
type Session struct {
	cfg    config.RunnerConfig
	world  engine.World
	clock  Clock
	store  ProgressStore
	logger *log.Logger
	seed   int64

	onGameOver func(GameOver)
	current    *Level
	started    int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed fixes the terrain seed of every level. Zero picks a new
// time-based seed per level.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.seed = seed
	}
}

// WithGameOver registers the callback that receives each run's result.
func WithGameOver(fn func(GameOver)) Option {
	return func(s *Session) {
		s.onGameOver = fn
	}
}

// NewSession validates cfg and creates a session. A nil store keeps the best
// score in memory.
func NewSession(cfg config.RunnerConfig, world engine.World, clock Clock, store ProgressStore, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if world == nil || clock == nil {
		return nil, fmt.Errorf("game: session needs a world and a clock")
	}
	if store == nil {
		store = NewMemoryStore()
	}
	s := &Session{
		cfg:    cfg,
		world:  world,
		clock:  clock,
		store:  store,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the configuration used for the next level.
func (s *Session) Config() config.RunnerConfig {
	return s.cfg
}

// SetConfig replaces the configuration. A running level keeps the config it
// started with; the new one applies from the next StartLevel.
func (s *Session) SetConfig(cfg config.RunnerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// Current returns the active level, or nil before the first StartLevel.
func (s *Session) Current() *Level {
	return s.current
}

// BestScore returns the persisted best score.
func (s *Session) BestScore() int {
	return s.store.BestScore()
}

// World returns the engine world the session drives.
func (s *Session) World() engine.World {
	return s.world
}

// StartLevel tears down the current level, cancelling any pending results
// transition, and builds a fresh level for shape.
func (s *Session) StartLevel(shape player.Shape) (*Level, error) {
	if s.current != nil {
		s.current.teardown()
		s.current = nil
	}

	cfg := s.cfg
	src := rng.New(s.seed)
	gen, err := level.NewGenerator(cfg.Level, src)
	if err != nil {
		return nil, err
	}
	window, err := stream.NewWindow(cfg.Stream, gen, s.world, s.logger)
	if err != nil {
		return nil, err
	}

	difficulty := config.NewDifficultyManager(cfg.Difficulty)
	gen.SetHazardChance(difficulty.HazardChance(cfg.Level.HazardChance, 0, 0))

	safe, err := gen.GenerateSafe(cfg.Level.SafeStartLength)
	if err != nil {
		return nil, err
	}
	window.Register(safe)
	initial, err := gen.Generate(cfg.Level.InitialLength)
	if err != nil {
		window.Clear()
		return nil, err
	}
	window.Register(initial)

	profile := player.ProfileFor(shape, cfg.Player)
	handle := s.world.SpawnPlayer(engine.PlayerSpec{
		X:     cfg.Physics.SpawnX,
		Y:     cfg.Physics.SpawnY,
		Size:  cfg.Physics.BodySize,
		Sides: profile.Sides,
	})

	s.started++
	l := &Level{
		session:    s,
		id:         s.started,
		cfg:        cfg,
		shape:      shape,
		seed:       src.Seed(),
		gen:        gen,
		window:     window,
		handle:     handle,
		ctrl:       player.NewController(s.world, handle, profile, cfg.Physics.JumpVelocity, cfg.Player.FallDeathY),
		difficulty: difficulty,
	}
	s.current = l
	s.logger.Info("level started", "shape", shape, "seed", l.seed, "level", l.id)
	return l, nil
}

// Restart starts a new level with the previous shape once the results view
// allows it.
func (s *Session) Restart() (*Level, error) {
	l := s.current
	if l == nil {
		return nil, ErrNoLevel
	}
	if !l.CanRestart() {
		return nil, ErrRestartNotReady
	}
	return s.StartLevel(l.shape)
}

// Frame advances the world and the active level by one tick of dt and then
// fires any due timers. Within a frame the order is fixed: physics step,
// contact dispatch, level tick, timers.
func (s *Session) Frame(dt time.Duration) error {
	events := s.world.Step(dt)
	var err error
	if l := s.current; l != nil && !l.ended {
		l.HandleContacts(events)
		err = l.Tick()
	}
	s.clock.Advance(dt)
	return err
}
