// Package config provides YAML-based runner configuration loading,
// validation and difficulty management.
package config

// RunnerConfig contains all tunables for a level instance.
type RunnerConfig struct {
	Level      LevelConfig      `yaml:"level"`
	Stream     StreamConfig     `yaml:"stream"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Player     PlayerConfig     `yaml:"player"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// IntRange is a closed integer range [Min, Max].
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// LevelConfig defines terrain generation parameters.
// Gap sizes and the physics jump constants are tuned together: changing one
// side requires re-checking that every gap is still clearable.
type LevelConfig struct {
	TileWidth       float64 `yaml:"tile_width"`
	StartX          float64 `yaml:"start_x"`
	StartY          float64 `yaml:"start_y"`
	CorridorMinY    float64 `yaml:"corridor_min_y"` // exclusive
	CorridorMaxY    float64 `yaml:"corridor_max_y"` // exclusive
	SafeStartLength float64 `yaml:"safe_start_length"`
	InitialLength   float64 `yaml:"initial_length"`

	GapBelow   int `yaml:"gap_below"`   // action < GapBelow -> gap
	CliffBelow int `yaml:"cliff_below"` // action < CliffBelow -> cliff, otherwise flat run

	GapTiles       IntRange `yaml:"gap_tiles"`
	LandingTiles   int      `yaml:"landing_tiles"`
	CliffStepTiles IntRange `yaml:"cliff_step_tiles"`
	CliffRunTiles  IntRange `yaml:"cliff_run_tiles"`
	FlatRunTiles   IntRange `yaml:"flat_run_tiles"`

	HazardChance     int `yaml:"hazard_chance"`      // percent, per eligible tile
	HazardEdgeMargin int `yaml:"hazard_edge_margin"` // hazards only at index in [margin, len-margin)
	HazardBuffer     int `yaml:"hazard_buffer"`      // hazard-free tiles forced after a hazard
}

// StreamConfig defines the resident geometry window, in world units.
type StreamConfig struct {
	LeadingThreshold  float64 `yaml:"leading_threshold"`
	TrailingThreshold float64 `yaml:"trailing_threshold"`
	ChunkLength       float64 `yaml:"chunk_length"`
}

// PhysicsConfig defines parameters handed to the physics collaborator.
// The y axis points down.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`
	JumpVelocity  float64 `yaml:"jump_velocity"`
	AccelerationX float64 `yaml:"acceleration_x"`
	MaxVelocityX  float64 `yaml:"max_velocity_x"`
	MaxVelocityY  float64 `yaml:"max_velocity_y"`
	BodySize      float64 `yaml:"body_size"`
	SpawnX        float64 `yaml:"spawn_x"`
	SpawnY        float64 `yaml:"spawn_y"`
}

// PlayerConfig defines the contact controller's parameters.
type PlayerConfig struct {
	SquareSpin     float64 `yaml:"square_spin"`   // degrees per second
	TriangleSpin   float64 `yaml:"triangle_spin"` // degrees per second
	CircleSpin     float64 `yaml:"circle_spin"`   // degrees per second
	FallDeathY     float64 `yaml:"fall_death_y"`
	DeathDelayMS   int     `yaml:"death_delay_ms"`
	RestartDelayMS int     `yaml:"restart_delay_ms"`
	BurstParticles int     `yaml:"burst_particles"`
}

// ScoringConfig defines how distance converts to score.
type ScoringConfig struct {
	UnitsPerPoint float64 `yaml:"units_per_point"`
}

// DifficultyConfig defines difficulty progression settings.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
// Only hazard density scales; gap and jump constants never do.
type ScalingConfig struct {
	HazardChanceBonus int `yaml:"hazard_chance_bonus"` // percent added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown or empty strings
// return the empty preset, meaning "use the config as loaded".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
