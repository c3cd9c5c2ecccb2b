package game

import "github.com/vovakirdan/shapedash/internal/player"

// GameOver is handed to the results view once the death delay has elapsed.
type GameOver struct {
	FinalScore int
	Best       int
	NewBest    bool
	Shape      player.Shape
	Cause      player.Cause
	Distance   float64
	Ticks      int
	Seed       int64
}
