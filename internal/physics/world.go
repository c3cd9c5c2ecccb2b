// Package physics implements engine.World on top of Chipmunk2D. The y axis
// points down. The player body never rotates physically; its visual rotation
// and spin are tracked here so that landing snaps stay exact.
package physics

import (
	"fmt"
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/core"
	"github.com/vovakirdan/shapedash/internal/engine"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypeGroundSensor
	collisionTypeSolid
	collisionTypeHazard
)

const (
	// maxSubstep bounds a single Chipmunk step so fast falls cannot tunnel
	// through a tile.
	maxSubstep = 1.0 / 120

	// risingSpeed is the upward speed above which ground contact is ignored,
	// so a jump is not cancelled by the tile it leaves. Bumps at tile seams
	// stay well below it.
	risingSpeed = 200.0

	// groundGraceSteps is how many Step calls support survives without a
	// touching arbiter before a ground-lost contact is reported.
	groundGraceSteps = 4

	// cornerRadius rounds the player box so it slides over tile seams.
	cornerRadius = 2.0

	hazardHalfWidth = 10.0
	particleLife    = 0.8
)

type entity struct {
	kind    engine.EntityKind
	x, y    float64
	size    float64
	sides   int
	body    *cp.Body
	shape   *cp.Shape
	ground  *cp.Shape
	inSpace bool
	visible bool

	rotation float64
	spin     float64
}

type particle struct {
	x, y   float64
	vx, vy float64
	age    float64
}

// World is a Chipmunk-backed engine.World.
type World struct {
	cfg       config.PhysicsConfig
	tileWidth float64
	space     *cp.Space

	next     engine.Handle
	entities map[engine.Handle]*entity
	shapes   map[*cp.Shape]engine.Handle

	support   map[engine.Handle]engine.Handle
	grounded  map[engine.Handle]int // remaining grace steps
	hazards   []engine.ContactEvent
	particles []particle
}

// NewWorld creates an empty world using the physics and tile settings of cfg.
func NewWorld(cfg config.RunnerConfig) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Physics.Gravity})

	w := &World{
		cfg:       cfg.Physics,
		tileWidth: cfg.Level.TileWidth,
		space:     space,
		entities:  make(map[engine.Handle]*entity),
		shapes:    make(map[*cp.Shape]engine.Handle),
		support:   make(map[engine.Handle]engine.Handle),
		grounded:  make(map[engine.Handle]int),
	}
	w.installHandlers()
	return w
}

func (w *World) installHandlers() {
	groundHandler := w.space.NewCollisionHandler(collisionTypeGroundSensor, collisionTypeSolid)
	groundHandler.UserData = w
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		sensor, other := arb.Shapes()
		n := arb.Normal()
		if sensor.Body() == space.StaticBody {
			sensor, other = other, sensor
			n = n.Neg()
		}
		// Only a surface below the sensor supports: the normal from the
		// sensor to the tile points down in screen coordinates.
		if n.Y <= 0.5 {
			return true
		}
		if sensor.Body().Velocity().Y < -risingSpeed {
			return true
		}
		playerHandle, okP := world.shapes[sensor]
		tileHandle, okT := world.shapes[other]
		if okP && okT {
			world.support[playerHandle] = tileHandle
		}
		return true
	}

	hazardHandler := w.space.NewCollisionHandler(collisionTypePlayer, collisionTypeHazard)
	hazardHandler.UserData = w
	hazardHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		playerShape, hazardShape := arb.Shapes()
		if playerShape.Body() == space.StaticBody {
			playerShape, hazardShape = hazardShape, playerShape
		}
		playerHandle, okP := world.shapes[playerShape]
		hazardHandle, okH := world.shapes[hazardShape]
		if okP && okH {
			world.hazards = append(world.hazards, engine.ContactEvent{
				Kind:   engine.ContactHazard,
				Player: playerHandle,
				Other:  hazardHandle,
			})
		}
		return true
	}
}

func (w *World) get(h engine.Handle) *entity {
	e, ok := w.entities[h]
	if !ok {
		panic(fmt.Errorf("%w: %d", engine.ErrStaleHandle, h))
	}
	return e
}

func (w *World) add(e *entity) engine.Handle {
	w.next++
	w.entities[w.next] = e
	if e.shape != nil {
		w.shapes[e.shape] = w.next
	}
	if e.ground != nil {
		w.shapes[e.ground] = w.next
	}
	return w.next
}

// CreateStatic adds a solid tile or a hazard sensor.
func (w *World) CreateStatic(x, y float64, kind engine.EntityKind) engine.Handle {
	var shape *cp.Shape
	switch kind {
	case engine.KindHazard:
		// Spike footprint: narrower than a tile, from its centre down to the ground.
		bb := cp.BB{L: x - hazardHalfWidth, B: y - hazardHalfWidth, R: x + hazardHalfWidth, T: y + w.tileWidth/2}
		shape = cp.NewBox2(w.space.StaticBody, bb, 0)
		shape.SetSensor(true)
		shape.SetCollisionType(collisionTypeHazard)
	default:
		kind = engine.KindTile
		bb := cp.BB{L: x, B: y, R: x + w.tileWidth, T: y + w.tileWidth}
		shape = cp.NewBox2(w.space.StaticBody, bb, 0)
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeSolid)
	}
	w.space.AddShape(shape)
	return w.add(&entity{kind: kind, x: x, y: y, size: w.tileWidth, shape: shape, inSpace: true, visible: true})
}

// SpawnPlayer adds the player's box body and its ground sensor.
func (w *World) SpawnPlayer(spec engine.PlayerSpec) engine.Handle {
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: spec.X, Y: spec.Y})
	body.SetVelocityUpdateFunc(w.updateVelocity)

	inner := spec.Size - 2*cornerRadius
	shape := cp.NewBox(body, inner, inner, cornerRadius)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypePlayer)

	half := spec.Size / 2
	ground := cp.NewBox2(body, cp.BB{L: -half * 0.9, B: half, R: half * 0.9, T: half + 2}, 0)
	ground.SetSensor(true)
	ground.SetCollisionType(collisionTypeGroundSensor)

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.space.AddShape(ground)

	return w.add(&entity{
		kind:    engine.KindPlayer,
		size:    spec.Size,
		sides:   spec.Sides,
		body:    body,
		shape:   shape,
		ground:  ground,
		inSpace: true,
		visible: true,
	})
}

// updateVelocity integrates gravity, then applies the constant forward
// acceleration and clamps to the maximum velocity.
func (w *World) updateVelocity(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
	cp.BodyUpdateVelocity(body, gravity, damping, dt)
	v := body.Velocity()
	v.X = math.Min(v.X+w.cfg.AccelerationX*dt, w.cfg.MaxVelocityX)
	v.Y = core.ClampF(v.Y, -w.cfg.MaxVelocityY, w.cfg.MaxVelocityY)
	body.SetVelocityVector(v)
}

func (w *World) attach(e *entity) {
	if e.inSpace {
		return
	}
	if e.body != nil {
		w.space.AddBody(e.body)
	}
	w.space.AddShape(e.shape)
	if e.ground != nil {
		w.space.AddShape(e.ground)
	}
	e.inSpace = true
}

func (w *World) detach(e *entity) {
	if !e.inSpace {
		return
	}
	if e.ground != nil {
		w.space.RemoveShape(e.ground)
	}
	w.space.RemoveShape(e.shape)
	if e.body != nil {
		w.space.RemoveBody(e.body)
	}
	e.inSpace = false
}

// Destroy removes the entity and invalidates its handle.
func (w *World) Destroy(h engine.Handle) {
	e := w.get(h)
	w.detach(e)
	delete(w.shapes, e.shape)
	if e.ground != nil {
		delete(w.shapes, e.ground)
	}
	delete(w.entities, h)
	delete(w.support, h)
	delete(w.grounded, h)
}

// SetActive adds or removes a static entity from collision.
func (w *World) SetActive(h engine.Handle, active bool) {
	e := w.get(h)
	if active {
		w.attach(e)
	} else {
		w.detach(e)
	}
}

// SetEnabled adds or removes a body from simulation.
func (w *World) SetEnabled(h engine.Handle, enabled bool) {
	w.SetActive(h, enabled)
	if !enabled {
		delete(w.grounded, h)
	}
}

func (w *World) Position(h engine.Handle) (float64, float64) {
	e := w.get(h)
	if e.body == nil {
		return e.x, e.y
	}
	p := e.body.Position()
	return p.X, p.Y
}

func (w *World) Velocity(h engine.Handle) (float64, float64) {
	e := w.get(h)
	if e.body == nil {
		return 0, 0
	}
	v := e.body.Velocity()
	return v.X, v.Y
}

func (w *World) SetVelocity(h engine.Handle, vx, vy float64) {
	e := w.get(h)
	if e.body != nil {
		e.body.SetVelocity(vx, vy)
	}
}

func (w *World) SetAngularVelocity(h engine.Handle, degPerSec float64) {
	w.get(h).spin = degPerSec
}

func (w *World) Rotation(h engine.Handle) float64 {
	return w.get(h).rotation
}

func (w *World) SetRotation(h engine.Handle, deg float64) {
	w.get(h).rotation = deg
}

func (w *World) SetVisible(h engine.Handle, visible bool) {
	w.get(h).visible = visible
}

// Burst spawns an outward ring of particles at x, y.
func (w *World) Burst(x, y float64, particles int) {
	for i := 0; i < particles; i++ {
		angle := 2 * math.Pi * float64(i) / float64(particles)
		speed := 150 + 50*float64(i%4)
		w.particles = append(w.particles, particle{
			x:  x,
			y:  y,
			vx: math.Cos(angle) * speed,
			vy: math.Sin(angle) * speed,
		})
	}
}

// Sprites returns every entity whose x lies in [minX, maxX].
func (w *World) Sprites(minX, maxX float64) []engine.Sprite {
	out := make([]engine.Sprite, 0, len(w.entities))
	for h, e := range w.entities {
		x, y := w.Position(h)
		if x < minX || x > maxX {
			continue
		}
		out = append(out, engine.Sprite{
			Handle:   h,
			Kind:     e.kind,
			X:        x,
			Y:        y,
			Size:     e.size,
			Sides:    e.sides,
			Rotation: e.rotation,
			Visible:  e.visible,
		})
	}
	return out
}

// Particles returns the live burst particles.
func (w *World) Particles() []engine.Particle {
	out := make([]engine.Particle, 0, len(w.particles))
	for _, p := range w.particles {
		out = append(out, engine.Particle{X: p.x, Y: p.y, Life: 1 - p.age/particleLife})
	}
	return out
}

// Step advances the simulation by dt in bounded sub-steps and reports the
// contacts seen: a ground contact for every supported player, a ground-lost
// contact when support ends, and each new hazard touch. Support ends when the
// body rises fast or after groundGraceSteps steps without a touching tile.
func (w *World) Step(dt time.Duration) []engine.ContactEvent {
	sec := dt.Seconds()
	if sec <= 0 {
		return nil
	}
	clear(w.support)
	w.hazards = w.hazards[:0]

	steps := int(math.Ceil(sec / maxSubstep))
	sub := sec / float64(steps)
	for i := 0; i < steps; i++ {
		w.space.Step(sub)
	}

	var events []engine.ContactEvent
	for h, e := range w.entities {
		if e.kind != engine.KindPlayer || !e.inSpace {
			continue
		}
		e.rotation += e.spin * sec
		if tile, ok := w.support[h]; ok {
			w.grounded[h] = groundGraceSteps
			events = append(events, engine.ContactEvent{Kind: engine.ContactGround, Player: h, Other: tile})
			continue
		}
		grace, ok := w.grounded[h]
		if !ok {
			continue
		}
		grace--
		if grace <= 0 || e.body.Velocity().Y < -risingSpeed {
			delete(w.grounded, h)
			events = append(events, engine.ContactEvent{Kind: engine.ContactGroundLost, Player: h})
		} else {
			w.grounded[h] = grace
		}
	}
	events = append(events, w.hazards...)

	w.stepParticles(sec)
	return events
}

func (w *World) stepParticles(sec float64) {
	live := w.particles[:0]
	for _, p := range w.particles {
		p.age += sec
		if p.age >= particleLife {
			continue
		}
		p.vy += w.cfg.Gravity * 0.25 * sec
		p.x += p.vx * sec
		p.y += p.vy * sec
		live = append(live, p)
	}
	w.particles = live
}

var _ engine.World = (*World)(nil)
