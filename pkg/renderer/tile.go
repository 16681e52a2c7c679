package renderer

import (
	"image"
	"sync/atomic"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Accumulator sums weighted samples for one pixel
type Accumulator struct {
	Color  core.Vec3 // Sum of weighted sample colors
	Weight float64   // Sum of sample weights
}

// Tile is a rectangular region of the film rendered by one worker at a time.
// Every pixel accumulator belongs to the same generation: the tile is cleared
// whenever it adopts a new one.
type Tile struct {
	ID     int             // Unique tile identifier, row-major within its grid
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)

	// Grid the tile was cut from
	layout uint64

	generation atomic.Uint64
	// Completed passes over every pixel
	samples atomic.Int64
	pixels  []Accumulator
	// Seeded from the tile id and generation for deterministic results
	sampler *core.RandomSampler
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		pixels:  make([]Accumulator, bounds.Dx()*bounds.Dy()),
		sampler: core.NewSeededSampler(core.TileSeed(id, 0)),
	}
}

// Generation returns the settings generation the tile's samples belong to
func (t *Tile) Generation() uint64 {
	return t.generation.Load()
}

// Samples returns the number of completed passes at the current generation
func (t *Tile) Samples() int {
	return int(t.samples.Load())
}

// Sampler returns the tile's random sampler. Only the owning worker may use it.
func (t *Tile) Sampler() core.Sampler {
	return t.sampler
}

// Clear discards all accumulated samples
func (t *Tile) Clear() {
	clear(t.pixels)
	t.samples.Store(0)
}

// Adopt moves the tile to generation, clearing it and reseeding its sampler
// if the generation differs. It reports whether the tile was cleared.
func (t *Tile) Adopt(generation uint64) bool {
	if t.generation.Load() == generation {
		return false
	}
	t.Clear()
	t.sampler.Reseed(core.TileSeed(t.ID, generation))
	t.generation.Store(generation)
	return true
}

// AddSample accumulates a weighted sample at absolute pixel coordinates (x, y)
func (t *Tile) AddSample(x, y int, color core.Vec3, weight float64) {
	i := t.index(x, y)
	t.pixels[i].Color = t.pixels[i].Color.Add(color)
	t.pixels[i].Weight += weight
}

// Pixel returns the accumulator at absolute pixel coordinates (x, y)
func (t *Tile) Pixel(x, y int) Accumulator {
	return t.pixels[t.index(x, y)]
}

// completePass records one more full pass over the tile
func (t *Tile) completePass() {
	t.samples.Add(1)
}

func (t *Tile) index(x, y int) int {
	return (y-t.Bounds.Min.Y)*t.Bounds.Dx() + (x - t.Bounds.Min.X)
}
