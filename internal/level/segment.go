package level

import (
	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/rng"
)

// SegmentBuilder lays contiguous runs of ground tiles at the cursor,
// optionally placing hazards on them, and advances the cursor past the run.
type SegmentBuilder struct {
	cfg          *config.LevelConfig
	src          rng.Source
	cursor       *Cursor
	hazardChance int
}

// NewSegmentBuilder creates a builder that writes at cursor.
func NewSegmentBuilder(cfg *config.LevelConfig, src rng.Source, cursor *Cursor) *SegmentBuilder {
	return &SegmentBuilder{
		cfg:          cfg,
		src:          src,
		cursor:       cursor,
		hazardChance: cfg.HazardChance,
	}
}

// SetHazardChance overrides the per-tile hazard percentage.
func (b *SegmentBuilder) SetHazardChance(percent int) {
	b.hazardChance = percent
}

// HazardChance returns the per-tile hazard percentage in effect.
func (b *SegmentBuilder) HazardChance() int {
	return b.hazardChance
}

// Lay appends a run of length tiles to chunk.
//
// Hazards are only considered for tile indices in [margin, length-margin),
// so every run opens and closes with hazard-free ground. A placed hazard is
// followed by a forced hazard-free buffer, which keeps consecutive hazards at
// least buffer+1 tiles apart.
func (b *SegmentBuilder) Lay(chunk *Chunk, length int, allowHazards bool) Run {
	tw := b.cfg.TileWidth
	margin := b.cfg.HazardEdgeMargin
	run := Run{
		StartX:         b.cursor.X,
		Y:              b.cursor.Y,
		Tiles:          length,
		HazardsAllowed: allowHazards,
	}

	for i := 0; i < length; i++ {
		b.placeTile(chunk)

		if allowHazards && i >= margin && i < length-margin && rng.Chance(b.src, b.hazardChance) {
			chunk.Hazards = append(chunk.Hazards, Hazard{
				X: b.cursor.X + tw/2,
				Y: b.cursor.Y - tw/2,
			})
			for j := 0; j < b.cfg.HazardBuffer && i+1 < length; j++ {
				i++
				b.cursor.X += tw
				b.placeTile(chunk)
			}
		}
		b.cursor.X += tw
	}

	chunk.Runs = append(chunk.Runs, run)
	return run
}

func (b *SegmentBuilder) placeTile(chunk *Chunk) {
	chunk.Tiles = append(chunk.Tiles, Tile{
		X:     b.cursor.X,
		Y:     b.cursor.Y,
		Width: b.cfg.TileWidth,
	})
}
