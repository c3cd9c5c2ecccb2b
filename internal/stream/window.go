// Package stream keeps a bounded window of level geometry resident around the
// player: terrain is generated ahead of it and destroyed behind it.
package stream

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"gopkg.in/eapache/queue.v1"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/engine"
	"github.com/vovakirdan/shapedash/internal/level"
)

// Generator produces terrain chunks. *level.Generator satisfies it.
type Generator interface {
	Generate(length float64) (level.Chunk, error)
	Cursor() level.Cursor
}

// resident is one entity registered with the world.
type resident struct {
	handle engine.Handle
	kind   engine.EntityKind
	x      float64
}

// Window tracks resident entities in x order. Chunks are produced left to
// right and each chunk's entities are sorted, so the front of the queue is
// always the leftmost entity and eviction only ever looks at the front.
type Window struct {
	cfg      config.StreamConfig
	gen      Generator
	world    engine.Entities
	resident *queue.Queue
	logger   *log.Logger

	generated int
	evicted   int
}

// NewWindow creates a window over gen that registers entities with world.
// A nil logger discards output.
func NewWindow(cfg config.StreamConfig, gen Generator, world engine.Entities, logger *log.Logger) (*Window, error) {
	if cfg.ChunkLength <= 0 {
		return nil, fmt.Errorf("%w: chunk length %v must be positive", config.ErrInvalidConfig, cfg.ChunkLength)
	}
	if cfg.LeadingThreshold <= 0 {
		return nil, fmt.Errorf("%w: leading threshold %v must be positive", config.ErrInvalidConfig, cfg.LeadingThreshold)
	}
	if cfg.TrailingThreshold < cfg.LeadingThreshold {
		return nil, fmt.Errorf("%w: trailing threshold %v smaller than leading threshold %v",
			config.ErrInvalidConfig, cfg.TrailingThreshold, cfg.LeadingThreshold)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Window{
		cfg:      cfg,
		gen:      gen,
		world:    world,
		resident: queue.New(),
		logger:   logger,
	}, nil
}

// Register hands a chunk's entities to the world and starts tracking them.
// It returns the number of entities created.
func (w *Window) Register(chunk level.Chunk) int {
	ents := chunk.Entities()
	for _, e := range ents {
		kind := engine.KindTile
		if e.Kind == level.KindHazard {
			kind = engine.KindHazard
		}
		h := w.world.CreateStatic(e.X, e.Y, kind)
		w.resident.Add(resident{handle: h, kind: kind, x: e.X})
	}
	w.logger.Debug("chunk registered",
		"from", chunk.FromX, "to", chunk.ToX,
		"tiles", len(chunk.Tiles), "hazards", len(chunk.Hazards), "gaps", len(chunk.Gaps))
	return len(ents)
}

// MaybeGenerateAhead requests chunks while the player is within the leading
// threshold of the generated extent, so that afterwards
// cursor.X >= playerX + leading. It returns the number of chunks generated.
func (w *Window) MaybeGenerateAhead(playerX float64) (int, error) {
	n := 0
	for playerX > w.gen.Cursor().X-w.cfg.LeadingThreshold {
		chunk, err := w.gen.Generate(w.cfg.ChunkLength)
		if err != nil {
			return n, fmt.Errorf("stream: generate ahead of %v: %w", playerX, err)
		}
		w.Register(chunk)
		n++
	}
	w.generated += n
	return n, nil
}

// EvictBehind destroys every resident entity with x < playerX - trailing.
// It returns the number of entities destroyed.
func (w *Window) EvictBehind(playerX float64) int {
	limit := playerX - w.cfg.TrailingThreshold
	n := 0
	for w.resident.Length() > 0 {
		r := w.resident.Peek().(resident)
		if r.x >= limit {
			break
		}
		w.release(r)
		n++
	}
	if n > 0 {
		w.evicted += n
		w.logger.Debug("evicted", "count", n, "behind", limit)
	}
	return n
}

// Advance runs one tick of streaming: generation first, then eviction.
func (w *Window) Advance(playerX float64) (generated, evicted int, err error) {
	generated, err = w.MaybeGenerateAhead(playerX)
	if err != nil {
		return generated, 0, err
	}
	return generated, w.EvictBehind(playerX), nil
}

// Clear destroys every resident entity.
func (w *Window) Clear() {
	for w.resident.Length() > 0 {
		w.release(w.resident.Peek().(resident))
	}
}

// release deactivates and destroys the oldest resident entity r.
func (w *Window) release(r resident) {
	w.world.SetActive(r.handle, false)
	w.world.Destroy(r.handle)
	w.resident.Remove()
}

// Resident returns the number of entities currently registered.
func (w *Window) Resident() int {
	return w.resident.Length()
}

// Span returns the x of the leftmost and rightmost resident entities.
func (w *Window) Span() (minX, maxX float64, ok bool) {
	n := w.resident.Length()
	if n == 0 {
		return 0, 0, false
	}
	return w.resident.Get(0).(resident).x, w.resident.Get(n - 1).(resident).x, true
}

// Stats returns the lifetime chunk and eviction counts.
func (w *Window) Stats() (chunks, evicted int) {
	return w.generated, w.evicted
}
