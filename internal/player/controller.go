package player

import (
	"github.com/vovakirdan/shapedash/internal/engine"
)

// State is a node of the contact state machine.
type State int

const (
	Airborne State = iota
	Grounded
	Dead
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Airborne:
		return "airborne"
	case Grounded:
		return "grounded"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Cause records why a run ended.
type Cause int

const (
	CauseNone Cause = iota
	CauseHazard
	CauseFall
)

// String returns a human-readable name for the cause.
func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseHazard:
		return "hazard"
	case CauseFall:
		return "fall"
	default:
		return "unknown"
	}
}

// Controller drives one player body through Airborne, Grounded and Dead.
// Dead is terminal: once reached, no method touches the body again.
type Controller struct {
	body    engine.Body
	handle  engine.Handle
	profile Profile

	jumpVelocity float64
	fallDeathY   float64

	state State
	cause Cause
}

// NewController creates a controller for the body behind handle. The player
// starts Airborne; a circle starts rolling at its spin rate.
func NewController(body engine.Body, handle engine.Handle, profile Profile, jumpVelocity, fallDeathY float64) *Controller {
	c := &Controller{
		body:         body,
		handle:       handle,
		profile:      profile,
		jumpVelocity: jumpVelocity,
		fallDeathY:   fallDeathY,
		state:        Airborne,
	}
	if !profile.Snaps() {
		body.SetAngularVelocity(handle, profile.Spin)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Cause returns why the player died, or CauseNone while alive.
func (c *Controller) Cause() Cause {
	return c.cause
}

// Alive reports whether the player has not died.
func (c *Controller) Alive() bool {
	return c.state != Dead
}

// Profile returns the shape profile in use.
func (c *Controller) Profile() Profile {
	return c.profile
}

// Handle returns the body handle this controller drives.
func (c *Controller) Handle() engine.Handle {
	return c.handle
}

// OnGroundContact lands the player. Squares and triangles snap to their
// nearest resting angle and stop spinning; circles keep rolling.
func (c *Controller) OnGroundContact() {
	if c.state == Dead {
		return
	}
	c.state = Grounded
	if c.profile.Snaps() {
		c.body.SetRotation(c.handle, Snap(c.body.Rotation(c.handle), c.profile.Symmetry))
		c.body.SetAngularVelocity(c.handle, 0)
	}
}

// OnGroundLost returns a grounded player to the air, e.g. after running off a ledge.
func (c *Controller) OnGroundLost() {
	if c.state == Grounded {
		c.state = Airborne
	}
}

// Jump applies the jump impulse and spin when grounded. It reports whether
// the jump happened; airborne and dead players ignore it.
func (c *Controller) Jump() bool {
	if c.state != Grounded {
		return false
	}
	vx, _ := c.body.Velocity(c.handle)
	c.body.SetVelocity(c.handle, vx, c.jumpVelocity)
	c.body.SetAngularVelocity(c.handle, c.profile.Spin)
	c.state = Airborne
	return true
}

// OnHazardContact kills the player. It reports whether this call caused the death.
func (c *Controller) OnHazardContact() bool {
	return c.Kill(CauseHazard)
}

// CheckFall kills the player once its y passes the fall-death line. It
// reports whether this call caused the death.
func (c *Controller) CheckFall() bool {
	if c.state == Dead {
		return false
	}
	if _, y := c.body.Position(c.handle); y > c.fallDeathY {
		return c.Kill(CauseFall)
	}
	return false
}

// Kill moves the player to Dead. Only the first call succeeds; later calls
// report false and change nothing.
func (c *Controller) Kill(cause Cause) bool {
	if c.state == Dead {
		return false
	}
	c.state = Dead
	c.cause = cause
	return true
}
