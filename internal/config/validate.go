package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/shapedash/internal/rng"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Gap sizes the default jump arc is known to clear. Wider gaps need
// re-tuned physics, so they are rejected rather than trusted.
const (
	minGapTiles = 1
	maxGapTiles = 4
)

// problems collects validation failures for one config.
type problems []error

func (p *problems) add(format string, args ...any) {
	*p = append(*p, fmt.Errorf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(p...))
}

// Validate rejects parameter sets that would break generation or corrupt
// gameplay at runtime. Nothing is clamped.
func (c RunnerConfig) Validate() error {
	var p problems
	c.Level.validate(&p)

	s := c.Stream
	if s.ChunkLength <= 0 {
		p.add("stream.chunk_length must be positive, got %v", s.ChunkLength)
	}
	if s.LeadingThreshold <= 0 {
		p.add("stream.leading_threshold must be positive, got %v", s.LeadingThreshold)
	}
	if s.TrailingThreshold < s.LeadingThreshold {
		p.add("stream.trailing_threshold %v smaller than leading_threshold %v", s.TrailingThreshold, s.LeadingThreshold)
	}
	// One second of travel at full speed bounds any single frame's displacement.
	if s.TrailingThreshold <= c.Physics.MaxVelocityX {
		p.add("stream.trailing_threshold %v must exceed max per-frame displacement %v", s.TrailingThreshold, c.Physics.MaxVelocityX)
	}

	ph := c.Physics
	if ph.Gravity <= 0 {
		p.add("physics.gravity must be positive (y points down), got %v", ph.Gravity)
	}
	if ph.JumpVelocity >= 0 {
		p.add("physics.jump_velocity must be negative (upward), got %v", ph.JumpVelocity)
	}
	if ph.MaxVelocityX <= 0 || ph.MaxVelocityY <= 0 {
		p.add("physics max velocities must be positive, got (%v, %v)", ph.MaxVelocityX, ph.MaxVelocityY)
	}
	if ph.BodySize <= 0 || ph.BodySize > c.Level.TileWidth*2 {
		p.add("physics.body_size %v out of range (0, %v]", ph.BodySize, c.Level.TileWidth*2)
	}

	pl := c.Player
	if pl.DeathDelayMS <= 0 {
		p.add("player.death_delay_ms must be positive, got %d", pl.DeathDelayMS)
	}
	if pl.RestartDelayMS < 0 {
		p.add("player.restart_delay_ms must not be negative, got %d", pl.RestartDelayMS)
	}
	if pl.FallDeathY <= c.Level.CorridorMaxY {
		p.add("player.fall_death_y %v must lie below the corridor (max %v)", pl.FallDeathY, c.Level.CorridorMaxY)
	}

	if c.Scoring.UnitsPerPoint <= 0 {
		p.add("scoring.units_per_point must be positive, got %v", c.Scoring.UnitsPerPoint)
	}

	d := c.Difficulty
	if d.InitialLevel < 0 || d.InitialLevel > 1 {
		p.add("difficulty.initial_level must be in [0, 1], got %v", d.InitialLevel)
	}
	if d.Scaling.HazardChanceBonus < 0 || c.Level.HazardChance+d.Scaling.HazardChanceBonus > 100 {
		p.add("difficulty.scaling.hazard_chance_bonus %d out of range", d.Scaling.HazardChanceBonus)
	}

	return p.err()
}

// Validate checks the generation parameters on their own.
func (l LevelConfig) Validate() error {
	var p problems
	l.validate(&p)
	return p.err()
}

func (l LevelConfig) validate(p *problems) {
	if l.TileWidth <= 0 {
		p.add("level.tile_width must be positive, got %v", l.TileWidth)
	}
	if l.CorridorMinY >= l.CorridorMaxY {
		p.add("level corridor is empty: min %v >= max %v", l.CorridorMinY, l.CorridorMaxY)
	}
	if l.StartY <= l.CorridorMinY || l.StartY >= l.CorridorMaxY {
		p.add("level.start_y %v outside corridor (%v, %v)", l.StartY, l.CorridorMinY, l.CorridorMaxY)
	}
	if l.SafeStartLength < l.TileWidth {
		p.add("level.safe_start_length %v shorter than one tile", l.SafeStartLength)
	}
	if l.InitialLength <= 0 {
		p.add("level.initial_length must be positive, got %v", l.InitialLength)
	}
	if l.GapBelow < 0 || l.GapBelow > l.CliffBelow || l.CliffBelow > 101 {
		p.add("level action thresholds must satisfy 0 <= gap_below <= cliff_below <= 101, got %d/%d", l.GapBelow, l.CliffBelow)
	}
	for _, r := range []struct {
		name string
		r    IntRange
	}{
		{"gap_tiles", l.GapTiles},
		{"cliff_step_tiles", l.CliffStepTiles},
		{"cliff_run_tiles", l.CliffRunTiles},
		{"flat_run_tiles", l.FlatRunTiles},
	} {
		if err := rng.ValidateRange(r.r.Min, r.r.Max); err != nil {
			p.add("level.%s: %w", r.name, err)
		}
		if r.r.Min < 1 {
			p.add("level.%s.min must be at least 1, got %d", r.name, r.r.Min)
		}
	}
	if l.GapTiles.Min < minGapTiles || l.GapTiles.Max > maxGapTiles {
		p.add("level.gap_tiles must stay within [%d, %d] tiles, got [%d, %d]", minGapTiles, maxGapTiles, l.GapTiles.Min, l.GapTiles.Max)
	}
	if l.LandingTiles < 3 {
		p.add("level.landing_tiles must be at least 3, got %d", l.LandingTiles)
	}
	if l.HazardChance < 0 || l.HazardChance > 100 {
		p.add("level.hazard_chance must be a percentage, got %d", l.HazardChance)
	}
	if l.HazardBuffer < 1 {
		p.add("level.hazard_buffer must be at least 1, got %d", l.HazardBuffer)
	}
	// A hazard at the last eligible index still needs its buffer plus one
	// landing tile inside the run.
	if l.HazardEdgeMargin <= l.HazardBuffer {
		p.add("level.hazard_edge_margin %d must exceed hazard_buffer %d", l.HazardEdgeMargin, l.HazardBuffer)
	}
}
