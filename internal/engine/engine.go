// Package engine declares the collaborator contracts the runner core talks to:
// a physics and rendering world that owns entities and reports contacts, and a
// scheduler for delayed callbacks. Implementations live in internal/physics
// (Chipmunk) and internal/engine/fake (tests).
package engine

import (
	"errors"
	"time"
)

// ErrStaleHandle is carried by the panic raised when a destroyed or unknown
// handle is used. Using one is a programming error, never retried.
var ErrStaleHandle = errors.New("engine: stale entity handle")

// Handle identifies an entity owned by a World. The zero handle is never issued.
type Handle uint64

// EntityKind identifies what an entity represents.
type EntityKind int

const (
	KindTile EntityKind = iota
	KindHazard
	KindPlayer
)

// String returns a human-readable name for the kind.
func (k EntityKind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindHazard:
		return "hazard"
	case KindPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// ContactKind classifies a contact notification.
type ContactKind int

const (
	// ContactGround: the player is supported by a tile.
	ContactGround ContactKind = iota
	// ContactHazard: the player touched a hazard.
	ContactHazard
	// ContactGroundLost: the player stopped being supported.
	ContactGroundLost
)

// String returns a human-readable name for the contact kind.
func (k ContactKind) String() string {
	switch k {
	case ContactGround:
		return "ground"
	case ContactHazard:
		return "hazard"
	case ContactGroundLost:
		return "ground-lost"
	default:
		return "unknown"
	}
}

// ContactEvent is one collision notification between the player and another entity.
// Other is zero for ContactGroundLost.
type ContactEvent struct {
	Kind   ContactKind
	Player Handle
	Other  Handle
}

// PlayerSpec describes the player body to spawn. X, Y is the body centre.
type PlayerSpec struct {
	X, Y  float64
	Size  float64
	Sides int // 0 for a circle
}

// Entities creates and destroys static level geometry.
type Entities interface {
	// CreateStatic registers a tile (x, y is its top-left corner) or a hazard
	// (x, y is its centre).
	CreateStatic(x, y float64, kind EntityKind) Handle
	Destroy(h Handle)
	SetActive(h Handle, active bool)
}

// Body queries and commands a dynamic body. Angles are in degrees.
type Body interface {
	Position(h Handle) (x, y float64)
	Velocity(h Handle) (vx, vy float64)
	SetVelocity(h Handle, vx, vy float64)
	SetAngularVelocity(h Handle, degPerSec float64)
	Rotation(h Handle) float64
	SetRotation(h Handle, deg float64)
}

// Effects covers the presentation commands issued by the death sequence.
type Effects interface {
	SetVisible(h Handle, visible bool)
	Burst(x, y float64, particles int)
}

// Sprite is a drawable snapshot of one entity.
type Sprite struct {
	Handle   Handle
	Kind     EntityKind
	X, Y     float64 // top-left for tiles, centre otherwise
	Size     float64
	Sides    int
	Rotation float64
	Visible  bool
}

// Particle is a drawable snapshot of one burst particle.
type Particle struct {
	X, Y float64
	Life float64 // remaining fraction in (0, 1]
}

// Scene exposes what a renderer needs.
type Scene interface {
	Sprites(minX, maxX float64) []Sprite
	Particles() []Particle
}

// World is the complete physics and rendering collaborator.
type World interface {
	Entities
	Body
	Effects
	Scene

	SpawnPlayer(spec PlayerSpec) Handle
	// SetEnabled removes the body from (or returns it to) simulation.
	SetEnabled(h Handle, enabled bool)
	// Step advances the simulation and returns the contacts observed during it,
	// in the order they occurred.
	Step(dt time.Duration) []ContactEvent
}

// Timer is a pending delayed callback.
type Timer interface {
	// Stop cancels the callback. It reports false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay on the game loop's own thread.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Timer
}
