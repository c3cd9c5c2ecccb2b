// Package sim runs levels headlessly on the Chipmunk world with a simple
// autopilot. It backs the simulate command and the end-to-end tests.
package sim

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/engine"
	"github.com/vovakirdan/shapedash/internal/game"
	"github.com/vovakirdan/shapedash/internal/physics"
	"github.com/vovakirdan/shapedash/internal/player"
	"github.com/vovakirdan/shapedash/internal/timer"
)

// Autopilot decides when a grounded player should jump by probing the
// terrain just ahead of it.
type Autopilot struct {
	TileWidth  float64
	EdgeLead   float64 // probe distance ahead of the body's front edge
	HazardLead float64 // jump once a hazard centre is this close
}

// NewAutopilot returns an autopilot tuned for the given level.
func NewAutopilot(cfg config.RunnerConfig) Autopilot {
	return Autopilot{
		TileWidth:  cfg.Level.TileWidth,
		EdgeLead:   40,
		HazardLead: 70,
	}
}

// ShouldJump reports whether a body of the given size centred at x, y
// is about to hit a hazard, a wall or the edge of a gap.
func (a Autopilot) ShouldJump(scene engine.Scene, x, y, size float64) bool {
	front := x + size/2
	feet := y + size/2
	probe := front + a.EdgeLead

	supported := false
	for _, sp := range scene.Sprites(x-a.TileWidth, probe+a.HazardLead) {
		switch sp.Kind {
		case engine.KindHazard:
			if d := sp.X - front; d >= 0 && d <= a.HazardLead {
				return true
			}
		case engine.KindTile:
			if probe < sp.X || probe >= sp.X+a.TileWidth {
				continue
			}
			if sp.Y < feet-4 {
				// wall
				return true
			}
			if sp.Y <= feet+2*a.TileWidth {
				supported = true
			}
		}
	}
	return !supported
}

// Options configures a simulated run.
type Options struct {
	Config   config.RunnerConfig
	Shape    player.Shape
	Seed     int64
	MaxTicks int
	TickRate int
	Store    game.ProgressStore
	Logger   *log.Logger
	Pilot    *Autopilot // nil uses NewAutopilot(Config)
}

// Outcome summarises a simulated run.
type Outcome struct {
	Result      *game.GameOver // nil if the player survived MaxTicks
	Score       int
	Distance    float64
	Ticks       int
	Frames      int
	Jumps       int
	MaxResident int
	Seed        int64
}

// Alive reports whether the run ended by the tick limit.
func (o Outcome) Alive() bool {
	return o.Result == nil
}

// Run plays one level until its results are delivered or MaxTicks frames
// have passed while alive.
func Run(opts Options) (Outcome, error) {
	if opts.MaxTicks <= 0 {
		return Outcome{}, errors.New("sim: max ticks must be positive")
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	pilot := NewAutopilot(opts.Config)
	if opts.Pilot != nil {
		pilot = *opts.Pilot
	}

	var result *game.GameOver
	world := physics.NewWorld(opts.Config)
	session, err := game.NewSession(opts.Config, world, timer.NewQueue(), opts.Store,
		game.WithLogger(logger),
		game.WithSeed(opts.Seed),
		game.WithGameOver(func(r game.GameOver) { result = &r }),
	)
	if err != nil {
		return Outcome{}, err
	}
	lvl, err := session.StartLevel(opts.Shape)
	if err != nil {
		return Outcome{}, err
	}

	dt := time.Second / time.Duration(opts.TickRate)
	size := opts.Config.Physics.BodySize
	out := Outcome{Seed: lvl.Seed()}
	for result == nil {
		if lvl.State() != player.Dead && lvl.Ticks() >= opts.MaxTicks {
			break
		}
		if lvl.State() == player.Grounded {
			x, y := world.Position(lvl.Player())
			if pilot.ShouldJump(world, x, y, size) && lvl.OnJumpInput() {
				out.Jumps++
			}
		}
		if err := session.Frame(dt); err != nil {
			return out, err
		}
		out.Frames++
		out.MaxResident = max(out.MaxResident, lvl.Resident())
	}

	out.Result = result
	out.Score = lvl.Score()
	out.Distance = lvl.Distance()
	out.Ticks = lvl.Ticks()
	logger.Info("simulation finished", "shape", opts.Shape, "seed", out.Seed, "score", out.Score, "alive", out.Alive())
	return out, nil
}
