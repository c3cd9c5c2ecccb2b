package physics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/engine"
)

const frame = time.Second / 60

func newTestWorld(t *testing.T) (*World, engine.Handle) {
	t.Helper()
	cfg := config.DefaultRunnerConfig()
	w := NewWorld(cfg)
	for x := 0.0; x < 3200; x += 32 {
		w.CreateStatic(x, 568, engine.KindTile)
	}
	h := w.SpawnPlayer(engine.PlayerSpec{X: 200, Y: 450, Size: 30, Sides: 4})
	return w, h
}

func run(w *World, frames int) [][]engine.ContactEvent {
	out := make([][]engine.ContactEvent, 0, frames)
	for i := 0; i < frames; i++ {
		out = append(out, w.Step(frame))
	}
	return out
}

func hasKind(events []engine.ContactEvent, kind engine.ContactKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func TestPlayerLandsOnGround(t *testing.T) {
	w, h := newTestWorld(t)
	frames := run(w, 90)

	if !hasKind(frames[len(frames)-1], engine.ContactGround) {
		t.Error("no ground contact after landing")
	}
	if _, y := w.Position(h); math.Abs(y-553) > 2 {
		t.Errorf("resting y = %v, expected about 553", y)
	}
	for _, ev := range frames[0] {
		if ev.Kind == engine.ContactGround {
			t.Error("ground contact reported while still falling from spawn")
		}
	}
}

func TestForwardAccelerationClamped(t *testing.T) {
	w, h := newTestWorld(t)
	run(w, 180)

	vx, _ := w.Velocity(h)
	if math.Abs(vx-350) > 5 {
		t.Errorf("vx = %v after 3s, expected clamp at 350", vx)
	}
	if x, _ := w.Position(h); x < 700 {
		t.Errorf("x = %v after 3s, expected the player to have run forward", x)
	}
}

func TestJumpLeavesGround(t *testing.T) {
	w, h := newTestWorld(t)
	run(w, 60)

	vx, _ := w.Velocity(h)
	w.SetVelocity(h, vx, -850)
	events := w.Step(frame)
	if hasKind(events, engine.ContactGround) {
		t.Error("ground contact reported on the jump frame")
	}
	if !hasKind(events, engine.ContactGroundLost) {
		t.Error("no ground-lost contact on the jump frame")
	}
	if _, y := w.Position(h); y >= 553 {
		t.Errorf("y = %v after jump frame, expected upward motion", y)
	}
}

func TestGroundHeldAcrossTileSeams(t *testing.T) {
	w, h := newTestWorld(t)

	landed := false
	for i := 0; i < 400; i++ {
		events := w.Step(frame)
		if hasKind(events, engine.ContactGround) {
			landed = true
		}
		if landed && hasKind(events, engine.ContactGroundLost) {
			x, _ := w.Position(h)
			_, vy := w.Velocity(h)
			t.Fatalf("ground lost on a continuous floor at frame %d, x=%.1f vy=%.1f", i, x, vy)
		}
	}
	if !landed {
		t.Fatal("player never landed")
	}
	if x, _ := w.Position(h); x < 2000 || x > 3200 {
		t.Errorf("x = %v after 400 frames, expected the run to stay on the floor", x)
	}
}

func TestRunningOffLedgeLosesGround(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := NewWorld(cfg)
	for x := 0.0; x < 320; x += 32 {
		w.CreateStatic(x, 568, engine.KindTile)
	}
	h := w.SpawnPlayer(engine.PlayerSpec{X: 100, Y: 540, Size: 30, Sides: 4})

	landed, lost := false, false
	for i := 0; i < 180 && !lost; i++ {
		events := w.Step(frame)
		landed = landed || hasKind(events, engine.ContactGround)
		lost = landed && hasKind(events, engine.ContactGroundLost)
	}
	if !landed || !lost {
		t.Errorf("landed=%v lost=%v, expected both", landed, lost)
	}
	if x, _ := w.Position(h); x < 320 {
		t.Errorf("ground lost at x=%v, expected past the last tile", x)
	}
}

func TestHazardContact(t *testing.T) {
	w, h := newTestWorld(t)
	hazard := w.CreateStatic(400+16, 568-16, engine.KindHazard)

	var got *engine.ContactEvent
	for i := 0; i < 300 && got == nil; i++ {
		for _, ev := range w.Step(frame) {
			if ev.Kind == engine.ContactHazard {
				got = &ev
			}
		}
	}
	if got == nil {
		t.Fatal("no hazard contact while running into a hazard")
	}
	if got.Player != h || got.Other != hazard {
		t.Errorf("hazard contact = %+v, expected player %d and hazard %d", *got, h, hazard)
	}
}

func TestDisabledBodyFrozen(t *testing.T) {
	w, h := newTestWorld(t)
	run(w, 30)
	w.SetEnabled(h, false)
	x, y := w.Position(h)

	events := run(w, 30)
	if nx, ny := w.Position(h); nx != x || ny != y {
		t.Errorf("disabled body moved from (%v, %v) to (%v, %v)", x, y, nx, ny)
	}
	for _, evs := range events {
		if len(evs) != 0 {
			t.Fatalf("disabled body produced contacts %+v", evs)
		}
	}
}

func TestRotationTracksSpin(t *testing.T) {
	w, h := newTestWorld(t)
	w.SetRotation(h, 10)
	w.SetAngularVelocity(h, 360)
	w.Step(500 * time.Millisecond)

	if r := w.Rotation(h); math.Abs(r-190) > 1e-9 {
		t.Errorf("Rotation() = %v, expected 190", r)
	}
}

func TestDeactivatedTileDoesNotSupport(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := NewWorld(cfg)
	tile := w.CreateStatic(180, 568, engine.KindTile)
	w.SetActive(tile, false)
	h := w.SpawnPlayer(engine.PlayerSpec{X: 200, Y: 540, Size: 30, Sides: 4})

	run(w, 30)
	if _, y := w.Position(h); y < 600 {
		t.Errorf("y = %v, expected the player to fall through an inactive tile", y)
	}
}

func TestBurstParticlesExpire(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Burst(300, 500, 50)
	if n := len(w.Particles()); n != 50 {
		t.Fatalf("Particles() = %d, expected 50", n)
	}
	run(w, 60)
	if n := len(w.Particles()); n != 0 {
		t.Errorf("Particles() = %d after 1s, expected 0", n)
	}
}

func TestStaleHandlePanics(t *testing.T) {
	w, _ := newTestWorld(t)
	tile := w.CreateStatic(5000, 568, engine.KindTile)
	w.Destroy(tile)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, engine.ErrStaleHandle) {
			t.Errorf("recovered %v, expected ErrStaleHandle", r)
		}
	}()
	w.SetActive(tile, true)
}

func TestSpritesInRange(t *testing.T) {
	w, h := newTestWorld(t)
	sprites := w.Sprites(190, 260)

	var tiles, players int
	for _, sp := range sprites {
		switch sp.Kind {
		case engine.KindTile:
			tiles++
		case engine.KindPlayer:
			players++
			if sp.Handle != h || !sp.Visible {
				t.Errorf("player sprite = %+v", sp)
			}
		}
	}
	// tiles at 192, 224, 256
	if tiles != 3 || players != 1 {
		t.Errorf("Sprites() returned %d tiles and %d players, expected 3 and 1", tiles, players)
	}
}
