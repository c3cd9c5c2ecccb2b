package game

import (
	"math"
	"time"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/engine"
	"github.com/vovakirdan/shapedash/internal/level"
	"github.com/vovakirdan/shapedash/internal/player"
	"github.com/vovakirdan/shapedash/internal/stream"
)

// Level is one run from spawn to results. All methods must be called from
// the game loop's goroutine.
type Level struct {
	session    *Session
	id         int
	cfg        config.RunnerConfig
	shape      player.Shape
	seed       int64
	gen        *level.Generator
	window     *stream.Window
	handle     engine.Handle
	ctrl       *player.Controller
	difficulty *config.DifficultyManager

	maxX  float64
	score int
	ticks int

	result     *GameOver
	transition engine.Timer
	unlock     engine.Timer
	finished   bool
	canRestart bool
	ended      bool
}

// Shape returns the player's shape.
func (l *Level) Shape() player.Shape {
	return l.shape
}

// Seed returns the terrain seed actually used.
func (l *Level) Seed() int64 {
	return l.seed
}

// Score returns the current score: whole distance units of the furthest x reached.
func (l *Level) Score() int {
	return l.score
}

// Distance returns the furthest x the player reached.
func (l *Level) Distance() float64 {
	return l.maxX
}

// Ticks returns the number of live ticks run.
func (l *Level) Ticks() int {
	return l.ticks
}

// State returns the player's contact state.
func (l *Level) State() player.State {
	return l.ctrl.State()
}

// Player returns the player's body handle.
func (l *Level) Player() engine.Handle {
	return l.handle
}

// Cursor returns the generation cursor.
func (l *Level) Cursor() level.Cursor {
	return l.gen.Cursor()
}

// Resident returns the number of level entities currently registered.
func (l *Level) Resident() int {
	return l.window.Resident()
}

// HazardChance returns the hazard density currently used for new terrain.
func (l *Level) HazardChance() int {
	return l.gen.HazardChance()
}

// Finished reports whether the death delay elapsed and the result was delivered.
func (l *Level) Finished() bool {
	return l.finished
}

// CanRestart reports whether the restart delay after the result has elapsed.
func (l *Level) CanRestart() bool {
	return l.canRestart
}

// Result returns the run's result once the player has died.
func (l *Level) Result() (GameOver, bool) {
	if l.result == nil {
		return GameOver{}, false
	}
	return *l.result, true
}

// Tick runs one frame of game logic: score, streaming, then the fall check.
// A dead player's level ticks as a no-op until it is replaced.
func (l *Level) Tick() error {
	if l.ended {
		return ErrLevelEnded
	}
	if !l.ctrl.Alive() {
		return nil
	}
	l.ticks++

	x := l.track()

	if l.difficulty.IsEnabled() {
		l.gen.SetHazardChance(l.difficulty.HazardChance(l.cfg.Level.HazardChance, l.score, l.ticks))
	}

	if _, _, err := l.window.Advance(x); err != nil {
		return err
	}

	if l.ctrl.CheckFall() {
		l.die()
	}
	return nil
}

// track folds the player's current x into the score and returns it.
func (l *Level) track() float64 {
	x, _ := l.session.world.Position(l.handle)
	if x > l.maxX {
		l.maxX = x
	}
	l.score = int(math.Floor(l.maxX / l.cfg.Scoring.UnitsPerPoint))
	return x
}

// OnJumpInput forwards a jump command. It reports whether the player jumped.
func (l *Level) OnJumpInput() bool {
	if l.ended {
		return false
	}
	return l.ctrl.Jump()
}

// HandleContacts dispatches contact events in order. Events for other bodies
// are ignored.
func (l *Level) HandleContacts(events []engine.ContactEvent) {
	for _, ev := range events {
		l.HandleContact(ev)
	}
}

// HandleContact applies one contact event to the state machine.
func (l *Level) HandleContact(ev engine.ContactEvent) {
	if l.ended || ev.Player != l.handle {
		return
	}
	switch ev.Kind {
	case engine.ContactGround:
		l.ctrl.OnGroundContact()
	case engine.ContactGroundLost:
		l.ctrl.OnGroundLost()
	case engine.ContactHazard:
		if l.ctrl.OnHazardContact() {
			l.die()
		}
	}
}

// die runs the death sequence once. Callers only reach it through a
// successful controller transition, so it cannot run twice.
func (l *Level) die() {
	s := l.session
	// Contacts are dispatched before Tick, so the score may lag this frame.
	l.track()
	x, y := s.world.Position(l.handle)
	s.world.SetVisible(l.handle, false)
	s.world.SetEnabled(l.handle, false)
	s.world.Burst(x, y, l.cfg.Player.BurstParticles)

	prev := s.store.BestScore()
	newBest, err := s.store.UpdateBest(l.score)
	if err != nil {
		s.logger.Warn("best score update failed", "score", l.score, "err", err)
		newBest = l.score > prev
	}
	best := prev
	if newBest {
		best = l.score
	}

	cause := l.ctrl.Cause()
	if rec, ok := s.store.(RunRecorder); ok {
		err := rec.RecordRun(RunRecord{
			Shape:    l.shape.String(),
			Score:    l.score,
			Distance: l.maxX,
			Cause:    cause.String(),
			Seed:     l.seed,
			Ticks:    l.ticks,
		})
		if err != nil {
			s.logger.Warn("run not recorded", "err", err)
		}
	}

	l.result = &GameOver{
		FinalScore: l.score,
		Best:       best,
		NewBest:    newBest,
		Shape:      l.shape,
		Cause:      cause,
		Distance:   l.maxX,
		Ticks:      l.ticks,
		Seed:       l.seed,
	}
	s.logger.Info("player died", "cause", cause, "score", l.score, "best", best, "level", l.id)

	delay := time.Duration(l.cfg.Player.DeathDelayMS) * time.Millisecond
	l.transition = s.clock.Schedule(delay, l.finish)
}

// finish delivers the result and opens the restart delay.
func (l *Level) finish() {
	s := l.session
	if l.ended || s.current != l {
		return
	}
	l.finished = true
	if s.onGameOver != nil {
		s.onGameOver(*l.result)
	}
	delay := time.Duration(l.cfg.Player.RestartDelayMS) * time.Millisecond
	l.unlock = s.clock.Schedule(delay, func() {
		if !l.ended {
			l.canRestart = true
		}
	})
}

// teardown cancels pending timers and releases every entity the level owns.
func (l *Level) teardown() {
	if l.ended {
		return
	}
	l.ended = true
	if l.transition != nil {
		l.transition.Stop()
	}
	if l.unlock != nil {
		l.unlock.Stop()
	}
	l.window.Clear()
	l.session.world.Destroy(l.handle)
	l.session.logger.Debug("level torn down", "level", l.id)
}
