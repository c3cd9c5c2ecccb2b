package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the default runner configuration.
// It must stay in sync with defaults/runner.yaml.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Level: LevelConfig{
			TileWidth:        32,
			StartX:           0,
			StartY:           568,
			CorridorMinY:     300,
			CorridorMaxY:     580,
			SafeStartLength:  600,
			InitialLength:    2400,
			GapBelow:         30,
			CliffBelow:       60,
			GapTiles:         IntRange{Min: 2, Max: 3},
			LandingTiles:     8,
			CliffStepTiles:   IntRange{Min: 1, Max: 2},
			CliffRunTiles:    IntRange{Min: 8, Max: 12},
			FlatRunTiles:     IntRange{Min: 10, Max: 20},
			HazardChance:     15,
			HazardEdgeMargin: 3,
			HazardBuffer:     2,
		},
		Stream: StreamConfig{
			LeadingThreshold:  2000,
			TrailingThreshold: 2000,
			ChunkLength:       2000,
		},
		Physics: PhysicsConfig{
			Gravity:       2500,
			JumpVelocity:  -850,
			AccelerationX: 1500,
			MaxVelocityX:  350,
			MaxVelocityY:  3000,
			BodySize:      30,
			SpawnX:        200,
			SpawnY:        450,
		},
		Player: PlayerConfig{
			SquareSpin:     400,
			TriangleSpin:   600,
			CircleSpin:     360,
			FallDeathY:     800,
			DeathDelayMS:   1500,
			RestartDelayMS: 1500,
			BurstParticles: 50,
		},
		Scoring: ScoringConfig{
			UnitsPerPoint: 100,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 500,
			},
			Scaling: ScalingConfig{
				HazardChanceBonus: 10,
			},
		},
	}
}
