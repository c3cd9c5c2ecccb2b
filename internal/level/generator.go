package level

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/rng"
)

// ErrInvalidLength is returned for non-positive or too short chunk requests.
var ErrInvalidLength = errors.New("level: invalid chunk length")

// Action is the terrain feature chosen for one step of a chunk.
type Action int

const (
	ActionGap Action = iota
	ActionCliff
	ActionFlat
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionGap:
		return "gap"
	case ActionCliff:
		return "cliff"
	case ActionFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// Generator composes runs, gaps and cliffs into chunks. It owns the single
// generation cursor of a level; the cursor only moves forward.
type Generator struct {
	cfg     config.LevelConfig
	src     rng.Source
	cursor  Cursor
	builder *SegmentBuilder
	chunks  int
}

// NewGenerator creates a generator starting at the configured position.
func NewGenerator(cfg config.LevelConfig, src rng.Source) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("level: nil random source")
	}
	g := &Generator{
		cfg:    cfg,
		src:    src,
		cursor: Cursor{X: cfg.StartX, Y: cfg.StartY},
	}
	g.builder = NewSegmentBuilder(&g.cfg, src, &g.cursor)
	return g, nil
}

// Cursor returns the current generation cursor.
func (g *Generator) Cursor() Cursor {
	return g.cursor
}

// TileWidth returns the width of one ground tile.
func (g *Generator) TileWidth() float64 {
	return g.cfg.TileWidth
}

// ChunksGenerated returns how many chunks have been produced.
func (g *Generator) ChunksGenerated() int {
	return g.chunks
}

// HazardChance returns the hazard density used for new chunks.
func (g *Generator) HazardChance() int {
	return g.builder.HazardChance()
}

// SetHazardChance changes the hazard density used by later chunks.
func (g *Generator) SetHazardChance(percent int) {
	g.builder.SetHazardChance(percent)
}

// GenerateSafe lays one flat, hazard-free run covering as many whole tiles
// as fit in length.
func (g *Generator) GenerateSafe(length float64) (Chunk, error) {
	if !(length >= g.cfg.TileWidth) {
		return Chunk{}, fmt.Errorf("%w: safe run of %v shorter than one tile", ErrInvalidLength, length)
	}
	chunk := Chunk{FromX: g.cursor.X}
	g.builder.Lay(&chunk, int(math.Floor(length/g.cfg.TileWidth)), false)
	chunk.ToX = g.cursor.X
	g.chunks++
	return chunk, nil
}

// Generate lays terrain from the cursor until it reaches at least
// cursor.X + length. The first chunk of a level is always a safe run.
func (g *Generator) Generate(length float64) (Chunk, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return Chunk{}, fmt.Errorf("%w: %v", ErrInvalidLength, length)
	}
	if g.chunks == 0 {
		return g.GenerateSafe(math.Max(length, g.cfg.TileWidth))
	}

	chunk := Chunk{FromX: g.cursor.X}
	targetX := g.cursor.X + length
	for g.cursor.X < targetX {
		switch g.nextAction() {
		case ActionGap:
			g.gap(&chunk)
		case ActionCliff:
			g.cliff(&chunk)
		default:
			g.builder.Lay(&chunk, g.between(g.cfg.FlatRunTiles), true)
		}
	}
	chunk.ToX = g.cursor.X
	g.chunks++
	return chunk, nil
}

func (g *Generator) nextAction() Action {
	action := g.src.Between(0, 100)
	switch {
	case action < g.cfg.GapBelow:
		return ActionGap
	case action < g.cfg.CliffBelow:
		return ActionCliff
	default:
		return ActionFlat
	}
}

// gap skips a jumpable hole and always lands on a safe run, so gaps never
// stack with hazards.
func (g *Generator) gap(chunk *Chunk) {
	tiles := g.between(g.cfg.GapTiles)
	width := float64(tiles) * g.cfg.TileWidth
	chunk.Gaps = append(chunk.Gaps, Gap{X: g.cursor.X, Width: width, Tiles: tiles})
	g.cursor.X += width

	g.builder.Lay(chunk, g.cfg.LandingTiles, false)
	chunk.Runs[len(chunk.Runs)-1].Landing = true
}

// cliff shifts the terrain height by one or two tiles. A step that would
// leave the corridor is dropped and the terrain stays flat.
func (g *Generator) cliff(chunk *Chunk) {
	dir := 1.0
	if g.src.Between(0, 1) == 0 {
		dir = -1.0
	}
	step := float64(g.between(g.cfg.CliffStepTiles))
	newY := g.cursor.Y + dir*step*g.cfg.TileWidth
	if newY > g.cfg.CorridorMinY && newY < g.cfg.CorridorMaxY {
		g.cursor.Y = newY
	}

	g.builder.Lay(chunk, g.between(g.cfg.CliffRunTiles), true)
}

func (g *Generator) between(r config.IntRange) int {
	return g.src.Between(r.Min, r.Max)
}
