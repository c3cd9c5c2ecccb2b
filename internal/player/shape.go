// Package player implements the player's contact state machine: landing,
// jumping, rotation snapping per shape and the terminal death transition.
package player

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/shapedash/internal/config"
)

// Shape is the player's geometric identity.
type Shape int

const (
	Square Shape = iota
	Circle
	Triangle
)

// Shapes lists every playable shape in menu order.
func Shapes() []Shape {
	return []Shape{Square, Circle, Triangle}
}

// String returns the lowercase name of the shape.
func (s Shape) String() string {
	switch s {
	case Square:
		return "square"
	case Circle:
		return "circle"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// ParseShape converts a name to a Shape.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "square":
		return Square, nil
	case "circle":
		return Circle, nil
	case "triangle":
		return Triangle, nil
	default:
		return 0, fmt.Errorf("player: unknown shape %q", name)
	}
}

// Profile holds the per-shape behaviour constants. Symmetry is the rotation
// in degrees that maps the shape onto itself; zero means the shape rolls
// freely and is never snapped. Spin is the angular velocity applied on jump,
// in degrees per second.
type Profile struct {
	Shape    Shape
	Symmetry float64
	Spin     float64
	Sides    int
}

// ProfileFor returns the profile of shape with spin rates from cfg.
func ProfileFor(shape Shape, cfg config.PlayerConfig) Profile {
	switch shape {
	case Square:
		return Profile{Shape: Square, Symmetry: 90, Spin: cfg.SquareSpin, Sides: 4}
	case Triangle:
		return Profile{Shape: Triangle, Symmetry: 120, Spin: cfg.TriangleSpin, Sides: 3}
	default:
		return Profile{Shape: Circle, Symmetry: 0, Spin: cfg.CircleSpin, Sides: 0}
	}
}

// Snaps reports whether landing snaps the rotation.
func (p Profile) Snaps() bool {
	return p.Symmetry > 0
}

// Snap returns the multiple of symmetry nearest to angle, normalised to
// [0, 360). A non-positive symmetry returns angle unchanged.
func Snap(angle, symmetry float64) float64 {
	if symmetry <= 0 {
		return angle
	}
	return Normalize(math.Round(angle/symmetry) * symmetry)
}

// Normalize maps an angle in degrees to [0, 360).
func Normalize(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}
