// Package rng provides the seedable bounded-integer source that feeds every
// procedural decision in a level.
package rng

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInvalidRange is reported when a range's lower bound exceeds its upper bound.
var ErrInvalidRange = errors.New("rng: invalid range")

// Source produces integers uniformly distributed over a closed range.
// Between panics with an error wrapping ErrInvalidRange when min > max,
// the same contract math/rand.Intn uses for n <= 0.
type Source interface {
	Between(min, max int) int
}

// Rand is a Source backed by math/rand. It is not safe for concurrent use;
// each level owns its own instance.
type Rand struct {
	r    *rand.Rand
	seed int64
}

// New creates a Rand seeded with seed. A zero seed picks a time-derived seed.
func New(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{
		r:    rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed this source was created with.
func (r *Rand) Seed() int64 {
	return r.seed
}

// Between returns an integer in [min, max].
func (r *Rand) Between(min, max int) int {
	if err := ValidateRange(min, max); err != nil {
		panic(err)
	}
	if min == max {
		return min
	}
	return min + r.r.Intn(max-min+1)
}

// Chance reports whether a draw from [0, 100] falls below percent.
func Chance(src Source, percent int) bool {
	return src.Between(0, 100) < percent
}

// ValidateRange returns an error wrapping ErrInvalidRange if min > max.
func ValidateRange(min, max int) error {
	if min > max {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, min, max)
	}
	return nil
}
