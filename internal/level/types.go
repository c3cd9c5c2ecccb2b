// Package level implements procedural terrain generation: runs of ground
// tiles, hazards placed on those runs, gaps and cliffs, composed into chunks
// that always leave the player a survivable path.
package level

// Kind identifies the type of a generated entity.
type Kind int

const (
	KindTile Kind = iota
	KindHazard
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindHazard:
		return "hazard"
	default:
		return "unknown"
	}
}

// Tile is one unit of ground. X, Y is the top-left corner.
type Tile struct {
	X, Y  float64
	Width float64
}

// Hazard is a spike sitting on top of a tile. X, Y is its centre.
type Hazard struct {
	X, Y float64
}

// Gap is a hole in the ground spanning [X, X+Width).
type Gap struct {
	X     float64
	Width float64
	Tiles int
}

// Cursor tracks the rightmost generated extent and the current terrain height.
type Cursor struct {
	X float64
	Y float64
}

// Chunk is the output of one generation request, in increasing x order.
type Chunk struct {
	FromX   float64
	ToX     float64
	Tiles   []Tile
	Hazards []Hazard
	Gaps    []Gap
	Runs    []Run
}

// Run describes one contiguous segment laid by the SegmentBuilder.
type Run struct {
	StartX         float64
	Y              float64
	Tiles          int
	HazardsAllowed bool
	Landing        bool // laid right after a gap
}

// EndX returns the x just past the last tile of the run.
func (r Run) EndX(tileWidth float64) float64 {
	return r.StartX + float64(r.Tiles)*tileWidth
}

// Entity is a generated tile or hazard, flattened for registration with the world.
type Entity struct {
	Kind Kind
	X, Y float64
}

// Entities returns every tile and hazard of the chunk ordered by x.
// Hazards sit at tile centre, so they sort between their tile and the next one.
func (c Chunk) Entities() []Entity {
	out := make([]Entity, 0, len(c.Tiles)+len(c.Hazards))
	ti, hi := 0, 0
	for ti < len(c.Tiles) || hi < len(c.Hazards) {
		if hi >= len(c.Hazards) || (ti < len(c.Tiles) && c.Tiles[ti].X <= c.Hazards[hi].X) {
			t := c.Tiles[ti]
			out = append(out, Entity{Kind: KindTile, X: t.X, Y: t.Y})
			ti++
			continue
		}
		h := c.Hazards[hi]
		out = append(out, Entity{Kind: KindHazard, X: h.X, Y: h.Y})
		hi++
	}
	return out
}
