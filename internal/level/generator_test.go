package level

import (
	"errors"
	"testing"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/rng"
)

// scriptedSource replays a fixed sequence of draws.
type scriptedSource struct {
	t     *testing.T
	draws []int
}

func (s *scriptedSource) Between(min, max int) int {
	s.t.Helper()
	if len(s.draws) == 0 {
		s.t.Fatalf("scripted source exhausted on Between(%d, %d)", min, max)
	}
	v := s.draws[0]
	s.draws = s.draws[1:]
	if v < min || v > max {
		s.t.Fatalf("scripted draw %d outside [%d, %d]", v, min, max)
	}
	return v
}

func newTestGenerator(t *testing.T, src rng.Source) *Generator {
	t.Helper()
	g, err := NewGenerator(config.DefaultRunnerConfig().Level, src)
	if err != nil {
		t.Fatalf("NewGenerator() failed: %v", err)
	}
	return g
}

// generateLevel produces a safe start followed by n regular chunks.
func generateLevel(t *testing.T, seed int64, n int) (*Generator, []Chunk) {
	t.Helper()
	g := newTestGenerator(t, rng.New(seed))
	safe, err := g.GenerateSafe(600)
	if err != nil {
		t.Fatalf("GenerateSafe() failed: %v", err)
	}
	chunks := []Chunk{safe}
	for i := 0; i < n; i++ {
		c, err := g.Generate(2000)
		if err != nil {
			t.Fatalf("Generate() failed: %v", err)
		}
		chunks = append(chunks, c)
	}
	return g, chunks
}

func TestSafeStartHasNoHazards(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := newTestGenerator(t, rng.New(seed))
		// The first chunk is safe even when requested through Generate.
		c, err := g.Generate(2400)
		if err != nil {
			t.Fatalf("Generate() failed: %v", err)
		}
		if len(c.Hazards) != 0 {
			t.Errorf("seed %d: first chunk has %d hazards, expected 0", seed, len(c.Hazards))
		}
		if len(c.Gaps) != 0 {
			t.Errorf("seed %d: first chunk has %d gaps, expected 0", seed, len(c.Gaps))
		}
	}
}

func TestGenerateSafeTileCount(t *testing.T) {
	g := newTestGenerator(t, &scriptedSource{t: t})
	c, err := g.GenerateSafe(600)
	if err != nil {
		t.Fatalf("GenerateSafe() failed: %v", err)
	}
	if len(c.Tiles) != 18 {
		t.Errorf("safe run has %d tiles, expected 18 (floor(600/32))", len(c.Tiles))
	}
	if g.Cursor().X != 576 {
		t.Errorf("cursor.X = %v, expected 576", g.Cursor().X)
	}
}

func TestCursorMonotonicAndReachesTarget(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		g := newTestGenerator(t, rng.New(seed))
		if _, err := g.GenerateSafe(600); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 30; i++ {
			before := g.Cursor()
			c, err := g.Generate(2000)
			if err != nil {
				t.Fatal(err)
			}
			after := g.Cursor()
			if after.X < before.X+2000 {
				t.Fatalf("seed %d chunk %d: cursor moved %v -> %v, expected at least +2000", seed, i, before.X, after.X)
			}
			if c.FromX != before.X || c.ToX != after.X {
				t.Errorf("chunk bounds [%v, %v], expected [%v, %v]", c.FromX, c.ToX, before.X, after.X)
			}
			for _, tile := range c.Tiles {
				if tile.X < before.X || tile.X >= after.X {
					t.Errorf("tile at %v outside chunk [%v, %v)", tile.X, before.X, after.X)
				}
			}
		}
	}
}

func TestHazardSpacing(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		_, chunks := generateLevel(t, seed, 15)
		var prev *Hazard
		for _, c := range chunks {
			for i := range c.Hazards {
				h := c.Hazards[i]
				if prev != nil && h.X-prev.X < 3*32 {
					t.Errorf("seed %d: hazards at %v and %v closer than 3 tiles", seed, prev.X, h.X)
				}
				prev = &h
			}
		}
	}
}

func TestHazardsSurroundedBySolidGround(t *testing.T) {
	const tw = 32.0
	for seed := int64(1); seed <= 25; seed++ {
		_, chunks := generateLevel(t, seed, 15)
		tiles := make(map[[2]float64]bool)
		var hazards []Hazard
		for _, c := range chunks {
			for _, tile := range c.Tiles {
				tiles[[2]float64{tile.X, tile.Y}] = true
			}
			hazards = append(hazards, c.Hazards...)
		}
		for _, h := range hazards {
			tileX, tileY := h.X-tw/2, h.Y+tw/2
			// margin of 3 tiles before, the hazard tile, the 2-tile buffer and one more after
			for k := -3; k <= 3; k++ {
				if !tiles[[2]float64{tileX + float64(k)*tw, tileY}] {
					t.Errorf("seed %d: hazard at %v missing ground at offset %d", seed, h.X, k)
				}
			}
		}
	}
}

func TestGapBoundedAndFollowedByLanding(t *testing.T) {
	const tw = 32.0
	for seed := int64(1); seed <= 25; seed++ {
		_, chunks := generateLevel(t, seed, 15)
		for _, c := range chunks {
			for _, gap := range c.Gaps {
				if gap.Tiles < 2 || gap.Tiles > 3 {
					t.Errorf("seed %d: gap of %d tiles, expected 2 or 3", seed, gap.Tiles)
				}
				if gap.Width != float64(gap.Tiles)*tw {
					t.Errorf("gap width %v does not match %d tiles", gap.Width, gap.Tiles)
				}
				landing, ok := runStartingAt(c, gap.X+gap.Width)
				if !ok {
					t.Fatalf("seed %d: no run starts right after gap at %v", seed, gap.X)
				}
				if !landing.Landing || landing.HazardsAllowed || landing.Tiles != 8 {
					t.Errorf("seed %d: run after gap = %+v, expected 8-tile hazard-free landing", seed, landing)
				}
				for _, h := range c.Hazards {
					if h.X > landing.StartX && h.X < landing.EndX(tw) {
						t.Errorf("seed %d: hazard at %v inside landing run", seed, h.X)
					}
				}
			}
		}
	}
}

func runStartingAt(c Chunk, x float64) (Run, bool) {
	for _, r := range c.Runs {
		if r.StartX == x {
			return r, true
		}
	}
	return Run{}, false
}

func TestCliffCorridor(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		g, chunks := generateLevel(t, seed, 20)
		for _, c := range chunks {
			for _, tile := range c.Tiles {
				if tile.Y <= 300 || tile.Y >= 580 {
					t.Fatalf("seed %d: tile at y=%v outside corridor (300, 580)", seed, tile.Y)
				}
			}
		}
		if y := g.Cursor().Y; y <= 300 || y >= 580 {
			t.Errorf("seed %d: cursor y=%v outside corridor", seed, y)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	_, a := generateLevel(t, 99, 5)
	_, b := generateLevel(t, 99, 5)
	for i := range a {
		if len(a[i].Tiles) != len(b[i].Tiles) || len(a[i].Hazards) != len(b[i].Hazards) {
			t.Fatalf("chunk %d differs between identical seeds", i)
		}
		for j := range a[i].Tiles {
			if a[i].Tiles[j] != b[i].Tiles[j] {
				t.Fatalf("chunk %d tile %d differs: %+v vs %+v", i, j, a[i].Tiles[j], b[i].Tiles[j])
			}
		}
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	g := newTestGenerator(t, rng.New(1))
	for _, length := range []float64{0, -10} {
		if _, err := g.Generate(length); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("Generate(%v) = %v, expected ErrInvalidLength", length, err)
		}
	}
	if _, err := g.GenerateSafe(10); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("GenerateSafe(10) = %v, expected ErrInvalidLength", err)
	}
	if g.Cursor().X != 0 {
		t.Errorf("rejected requests moved the cursor to %v", g.Cursor().X)
	}
}

func TestNewGeneratorRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Level
	cfg.FlatRunTiles = config.IntRange{Min: 20, Max: 10}
	if _, err := NewGenerator(cfg, rng.New(1)); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("NewGenerator() = %v, expected ErrInvalidConfig", err)
	}
}

func TestScriptedGap(t *testing.T) {
	src := &scriptedSource{t: t}
	g := newTestGenerator(t, src)
	if _, err := g.GenerateSafe(600); err != nil {
		t.Fatal(err)
	}

	src.draws = []int{10, 3} // gap, 3 tiles wide
	c, err := g.Generate(32)
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Gaps) != 1 || c.Gaps[0].X != 576 || c.Gaps[0].Width != 96 {
		t.Fatalf("gaps = %+v, expected one 96-wide gap at 576", c.Gaps)
	}
	if len(c.Tiles) != 8 || c.Tiles[0].X != 672 {
		t.Errorf("landing = %d tiles starting at %v, expected 8 at 672", len(c.Tiles), c.Tiles[0].X)
	}
	if g.Cursor().X != 672+8*32 {
		t.Errorf("cursor.X = %v, expected %v", g.Cursor().X, 672+8*32)
	}
}

func TestScriptedFlatRunHazardBuffer(t *testing.T) {
	src := &scriptedSource{t: t}
	g := newTestGenerator(t, src)
	if _, err := g.GenerateSafe(600); err != nil {
		t.Fatal(err)
	}

	// flat run of 10 tiles; eligible indices 3..6. Index 3 gets a hazard,
	// 4 and 5 are the forced buffer, index 6 draws and stays clear.
	src.draws = []int{80, 10, 5, 50}
	c, err := g.Generate(32)
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Tiles) != 10 {
		t.Fatalf("run has %d tiles, expected 10", len(c.Tiles))
	}
	if len(c.Hazards) != 1 {
		t.Fatalf("got %d hazards, expected 1", len(c.Hazards))
	}
	wantX := 576 + 3*32 + 16.0
	if c.Hazards[0].X != wantX || c.Hazards[0].Y != 568-16 {
		t.Errorf("hazard at (%v, %v), expected (%v, %v)", c.Hazards[0].X, c.Hazards[0].Y, wantX, 568-16)
	}
	if len(src.draws) != 0 {
		t.Errorf("%d draws left unused", len(src.draws))
	}
}

func TestScriptedCliff(t *testing.T) {
	tests := []struct {
		name  string
		draws []int
		wantY float64
	}{
		// up two tiles: 568 - 64
		{"accepted step up", []int{40, 0, 2, 8, 50, 50}, 504},
		// down one tile would reach 600, outside the corridor
		{"rejected step down", []int{40, 1, 1, 8, 50, 50}, 568},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &scriptedSource{t: t}
			g := newTestGenerator(t, src)
			if _, err := g.GenerateSafe(600); err != nil {
				t.Fatal(err)
			}
			src.draws = tc.draws
			c, err := g.Generate(32)
			if err != nil {
				t.Fatal(err)
			}
			if g.Cursor().Y != tc.wantY {
				t.Errorf("cursor.Y = %v, expected %v", g.Cursor().Y, tc.wantY)
			}
			for _, tile := range c.Tiles {
				if tile.Y != tc.wantY {
					t.Errorf("tile y = %v, expected %v", tile.Y, tc.wantY)
				}
			}
			if len(c.Tiles) != 8 {
				t.Errorf("cliff run has %d tiles, expected 8", len(c.Tiles))
			}
		})
	}
}

func TestChunkEntitiesOrderedByX(t *testing.T) {
	_, chunks := generateLevel(t, 5, 5)
	for _, c := range chunks {
		ents := c.Entities()
		if len(ents) != len(c.Tiles)+len(c.Hazards) {
			t.Fatalf("Entities() returned %d, expected %d", len(ents), len(c.Tiles)+len(c.Hazards))
		}
		for i := 1; i < len(ents); i++ {
			if ents[i].X < ents[i-1].X {
				t.Fatalf("entities out of order at %d: %v after %v", i, ents[i].X, ents[i-1].X)
			}
		}
	}
}
