package core

// RuntimeConfig contains terminal and clock settings for a play session.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second (default 60)
	Seed     int64 // Level seed, 0 picks one from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// HUD is the per-frame status shown above the playfield.
type HUD struct {
	Shape      string
	Score      int
	Best       int
	Dead       bool
	Finished   bool
	CanRestart bool
	Paused     bool
}
