package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultRunnerConfig().Validate(); err != nil {
		t.Fatalf("DefaultRunnerConfig().Validate() = %v, expected nil", err)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(defaultRunnerYAML)
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if cfg != DefaultRunnerConfig() {
		t.Errorf("embedded runner.yaml differs from DefaultRunnerConfig():\n%+v\n%+v", cfg, DefaultRunnerConfig())
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *RunnerConfig)
	}{
		{"zero tile width", func(c *RunnerConfig) { c.Level.TileWidth = 0 }},
		{"inverted gap range", func(c *RunnerConfig) { c.Level.GapTiles = IntRange{Min: 3, Max: 2} }},
		{"inverted flat run range", func(c *RunnerConfig) { c.Level.FlatRunTiles = IntRange{Min: 20, Max: 10} }},
		{"gap too wide for jump arc", func(c *RunnerConfig) { c.Level.GapTiles = IntRange{Min: 2, Max: 6} }},
		{"negative chunk length", func(c *RunnerConfig) { c.Stream.ChunkLength = -1 }},
		{"trailing below leading", func(c *RunnerConfig) { c.Stream.TrailingThreshold = 1000 }},
		{"trailing within one frame", func(c *RunnerConfig) {
			c.Stream.LeadingThreshold = 100
			c.Stream.TrailingThreshold = 200
		}},
		{"start outside corridor", func(c *RunnerConfig) { c.Level.StartY = 600 }},
		{"empty corridor", func(c *RunnerConfig) { c.Level.CorridorMinY = 580 }},
		{"hazard chance above 100", func(c *RunnerConfig) { c.Level.HazardChance = 120 }},
		{"upward gravity", func(c *RunnerConfig) { c.Physics.Gravity = -1 }},
		{"downward jump", func(c *RunnerConfig) { c.Physics.JumpVelocity = 850 }},
		{"zero death delay", func(c *RunnerConfig) { c.Player.DeathDelayMS = 0 }},
		{"fall line inside corridor", func(c *RunnerConfig) { c.Player.FallDeathY = 500 }},
		{"zero scoring unit", func(c *RunnerConfig) { c.Scoring.UnitsPerPoint = 0 }},
		{"initial level above 1", func(c *RunnerConfig) { c.Difficulty.InitialLevel = 1.5 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRunnerConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadRunnerCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runner.yaml")
	data := []byte("level:\n  hazard_chance: 25\nstream:\n  chunk_length: 1500\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRunner(path)
	if err != nil {
		t.Fatalf("LoadRunner() failed: %v", err)
	}
	if cfg.Level.HazardChance != 25 {
		t.Errorf("HazardChance = %d, expected 25", cfg.Level.HazardChance)
	}
	if cfg.Stream.ChunkLength != 1500 {
		t.Errorf("ChunkLength = %v, expected 1500", cfg.Stream.ChunkLength)
	}
	// Keys absent from the file keep their defaults
	if cfg.Level.TileWidth != 32 {
		t.Errorf("TileWidth = %v, expected default 32", cfg.Level.TileWidth)
	}
}

func TestLoadRunnerRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runner.yaml")
	data := []byte("stream:\n  trailing_threshold: 10\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRunner(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadRunner() = %v, expected ErrInvalidConfig", err)
	}
}

func TestLoadRunnerMissingCustomPath(t *testing.T) {
	if _, err := LoadRunner(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadRunner() with a missing custom path should fail")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultRunnerConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset = %+v, expected enabled at 0.7", cfg.Difficulty)
	}

	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	before := cfg
	ApplyPreset(&cfg, ParsePreset("bogus"))
	if cfg != before {
		t.Error("unknown preset should leave the config untouched")
	}
}

func TestLevelValidateRejectsMarginWithinBuffer(t *testing.T) {
	cfg := DefaultRunnerConfig().Level
	cfg.HazardEdgeMargin = 2
	cfg.HazardBuffer = 2
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
	}
}
