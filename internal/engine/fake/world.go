// Package fake provides an in-memory engine.World with scripted contacts and
// trivial kinematics for deterministic tests.
package fake

import (
	"fmt"
	"time"

	"github.com/vovakirdan/shapedash/internal/engine"
)

// Entity is the recorded state of one fake entity.
type Entity struct {
	Kind            engine.EntityKind
	X, Y            float64
	VX, VY          float64
	Rotation        float64
	AngularVelocity float64
	Size            float64
	Sides           int
	Active          bool
	Visible         bool
	Enabled         bool
}

// Burst records one particle burst request.
type Burst struct {
	X, Y      float64
	Particles int
}

// World is a scripted engine.World. Step moves enabled players by their
// velocity and returns queued contacts; there is no gravity or collision.
type World struct {
	next     engine.Handle
	entities map[engine.Handle]*Entity
	pending  []engine.ContactEvent

	Created   int
	Destroyed int
	Bursts    []Burst

	// DestroyedActive counts static entities destroyed while still active.
	DestroyedActive int
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{entities: make(map[engine.Handle]*Entity)}
}

func (w *World) add(e *Entity) engine.Handle {
	w.next++
	w.entities[w.next] = e
	w.Created++
	return w.next
}

func (w *World) get(h engine.Handle) *Entity {
	e, ok := w.entities[h]
	if !ok {
		panic(fmt.Errorf("%w: %d", engine.ErrStaleHandle, h))
	}
	return e
}

// Entity returns the state of h, panicking on a stale handle.
func (w *World) Entity(h engine.Handle) *Entity {
	return w.get(h)
}

// Exists reports whether h is live.
func (w *World) Exists(h engine.Handle) bool {
	_, ok := w.entities[h]
	return ok
}

// Live returns the number of live entities of kind.
func (w *World) Live(kind engine.EntityKind) int {
	n := 0
	for _, e := range w.entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// MinX returns the smallest x among live static entities.
func (w *World) MinX() (float64, bool) {
	min, found := 0.0, false
	for _, e := range w.entities {
		if e.Kind == engine.KindPlayer {
			continue
		}
		if !found || e.X < min {
			min, found = e.X, true
		}
	}
	return min, found
}

// Move teleports an entity.
func (w *World) Move(h engine.Handle, x, y float64) {
	e := w.get(h)
	e.X, e.Y = x, y
}

// Queue schedules a contact to be reported by the next Step.
func (w *World) Queue(ev engine.ContactEvent) {
	w.pending = append(w.pending, ev)
}

func (w *World) CreateStatic(x, y float64, kind engine.EntityKind) engine.Handle {
	return w.add(&Entity{Kind: kind, X: x, Y: y, Active: true, Visible: true, Enabled: true})
}

func (w *World) Destroy(h engine.Handle) {
	if e := w.get(h); e.Kind != engine.KindPlayer && e.Active {
		w.DestroyedActive++
	}
	delete(w.entities, h)
	w.Destroyed++
}

func (w *World) SetActive(h engine.Handle, active bool) {
	w.get(h).Active = active
}

func (w *World) SpawnPlayer(spec engine.PlayerSpec) engine.Handle {
	return w.add(&Entity{
		Kind:    engine.KindPlayer,
		X:       spec.X,
		Y:       spec.Y,
		Size:    spec.Size,
		Sides:   spec.Sides,
		Active:  true,
		Visible: true,
		Enabled: true,
	})
}

func (w *World) Position(h engine.Handle) (float64, float64) {
	e := w.get(h)
	return e.X, e.Y
}

func (w *World) Velocity(h engine.Handle) (float64, float64) {
	e := w.get(h)
	return e.VX, e.VY
}

func (w *World) SetVelocity(h engine.Handle, vx, vy float64) {
	e := w.get(h)
	e.VX, e.VY = vx, vy
}

func (w *World) SetAngularVelocity(h engine.Handle, degPerSec float64) {
	w.get(h).AngularVelocity = degPerSec
}

func (w *World) Rotation(h engine.Handle) float64 {
	return w.get(h).Rotation
}

func (w *World) SetRotation(h engine.Handle, deg float64) {
	w.get(h).Rotation = deg
}

func (w *World) SetVisible(h engine.Handle, visible bool) {
	w.get(h).Visible = visible
}

func (w *World) SetEnabled(h engine.Handle, enabled bool) {
	w.get(h).Enabled = enabled
}

func (w *World) Burst(x, y float64, particles int) {
	w.Bursts = append(w.Bursts, Burst{X: x, Y: y, Particles: particles})
}

func (w *World) Sprites(minX, maxX float64) []engine.Sprite {
	var out []engine.Sprite
	for h, e := range w.entities {
		if e.X < minX || e.X > maxX {
			continue
		}
		out = append(out, engine.Sprite{
			Handle:   h,
			Kind:     e.Kind,
			X:        e.X,
			Y:        e.Y,
			Size:     e.Size,
			Sides:    e.Sides,
			Rotation: e.Rotation,
			Visible:  e.Visible,
		})
	}
	return out
}

func (w *World) Particles() []engine.Particle {
	return nil
}

func (w *World) Step(dt time.Duration) []engine.ContactEvent {
	sec := dt.Seconds()
	for _, e := range w.entities {
		if e.Kind != engine.KindPlayer || !e.Enabled {
			continue
		}
		e.X += e.VX * sec
		e.Y += e.VY * sec
		e.Rotation += e.AngularVelocity * sec
	}
	events := w.pending
	w.pending = nil
	return events
}

var _ engine.World = (*World)(nil)
