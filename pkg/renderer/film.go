package renderer

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// FilmPixel is the latest merged state of one pixel
type FilmPixel struct {
	Color      core.Vec3 // Sum of weighted sample colors
	Weight     float64   // Sum of sample weights
	Generation uint64    // Settings generation the samples belong to
}

// Value returns the weighted mean color, black when no samples arrived
func (p FilmPixel) Value() core.Vec3 {
	if p.Weight <= 0 {
		return core.Vec3{}
	}
	return p.Color.Multiply(1.0 / p.Weight)
}

// region guards the film pixels covered by one tile
type region struct {
	mu     sync.Mutex
	bounds image.Rectangle
}

// Film is the shared output image. Tiles merge into it concurrently, each
// under the lock of its own region.
type Film struct {
	width, height int
	pixels        []FilmPixel

	// mu guards the region table: merges and reads hold it shared, cutting
	// a new tile grid holds it exclusively
	mu      sync.RWMutex
	regions []*region
	layout  uint64
}

// NewFilm creates a black film of the given size
func NewFilm(width, height int) *Film {
	width = max(1, width)
	height = max(1, height)
	return &Film{
		width:  width,
		height: height,
		pixels: make([]FilmPixel, width*height),
	}
}

// Width returns the film width in pixels
func (f *Film) Width() int { return f.width }

// Height returns the film height in pixels
func (f *Film) Height() int { return f.height }

// GetTiles cuts the film into a columns x rows grid that covers every pixel
// exactly once. Counts are clamped to [1, dimension]; the last row and column
// absorb any remainder. Tiles from an earlier grid can no longer be merged.
func (f *Film) GetTiles(columns, rows int) []*Tile {
	columns = min(max(columns, 1), f.width)
	rows = min(max(rows, 1), f.height)

	tileWidth := f.width / columns
	tileHeight := f.height / rows

	f.mu.Lock()
	defer f.mu.Unlock()

	f.layout++
	f.regions = make([]*region, 0, columns*rows)
	tiles := make([]*Tile, 0, columns*rows)

	for row := 0; row < rows; row++ {
		y0 := row * tileHeight
		y1 := y0 + tileHeight
		if row == rows-1 {
			y1 = f.height
		}
		for col := 0; col < columns; col++ {
			x0 := col * tileWidth
			x1 := x0 + tileWidth
			if col == columns-1 {
				x1 = f.width
			}

			bounds := image.Rect(x0, y0, x1, y1)
			tile := NewTile(len(tiles), bounds)
			tile.layout = f.layout
			tiles = append(tiles, tile)
			f.regions = append(f.regions, &region{bounds: bounds})
		}
	}

	return tiles
}

// GetTilesBySize cuts the film into tiles of roughly tileSize x tileSize pixels
func (f *Film) GetTilesBySize(tileSize int) []*Tile {
	tileSize = max(tileSize, 1)
	columns := (f.width + tileSize - 1) / tileSize // Ceiling division
	rows := (f.height + tileSize - 1) / tileSize
	return f.GetTiles(columns, rows)
}

// MergeTile copies the tile's accumulators into its film region. The merge is
// skipped, returning false, when the region already holds samples from a newer
// generation than the tile's or the tile belongs to an outdated grid.
func (f *Film) MergeTile(tile *Tile) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if tile.layout != f.layout || tile.ID < 0 || tile.ID >= len(f.regions) {
		return false
	}
	r := f.regions[tile.ID]

	r.mu.Lock()
	defer r.mu.Unlock()

	generation := tile.Generation()
	bounds := tile.Bounds
	if f.pixels[bounds.Min.Y*f.width+bounds.Min.X].Generation > generation {
		return false
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := f.pixels[y*f.width : (y+1)*f.width]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			acc := tile.Pixel(x, y)
			row[x] = FilmPixel{Color: acc.Color, Weight: acc.Weight, Generation: generation}
		}
	}
	return true
}

// Pixel returns the merged state of the pixel at (x, y)
func (f *Film) Pixel(x, y int) FilmPixel {
	var result FilmPixel
	f.read(func(pixels []FilmPixel) {
		result = pixels[y*f.width+x]
	})
	return result
}

// Pixels returns a row-major copy of every film pixel
func (f *Film) Pixels() []FilmPixel {
	result := make([]FilmPixel, len(f.pixels))
	f.read(func(pixels []FilmPixel) {
		copy(result, pixels)
	})
	return result
}

// OutputPixels returns the row-major mean color of every pixel
func (f *Film) OutputPixels() []core.Vec3 {
	pixels := f.Pixels()
	result := make([]core.Vec3, len(pixels))
	for i, p := range pixels {
		result[i] = p.Value()
	}
	return result
}

// Image converts the film to an 8-bit image with gamma 2 correction
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for i, c := range f.OutputPixels() {
		img.SetRGBA(i%f.width, i/f.width, vec3ToColor(c))
	}
	return img
}

// Composite folds other into f pixel by pixel: newer generations replace,
// equal generations add their samples, older ones are ignored.
// It panics if the films differ in size.
func (f *Film) Composite(other *Film) {
	if f.width != other.width || f.height != other.height {
		panic(fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, f.width, f.height, other.width, other.height))
	}

	source := other.Pixels()

	f.mu.Lock()
	defer f.mu.Unlock()

	for i, p := range source {
		current := &f.pixels[i]
		switch {
		case p.Generation > current.Generation:
			*current = p
		case p.Generation == current.Generation:
			current.Color = current.Color.Add(p.Color)
			current.Weight += p.Weight
		}
	}
}

// read runs fn with the pixel array while excluding concurrent merges
func (f *Film) read(fn func(pixels []FilmPixel)) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, r := range f.regions {
		r.mu.Lock()
	}
	fn(f.pixels)
	for _, r := range f.regions {
		r.mu.Unlock()
	}
}

// vec3ToColor converts a linear color to 8-bit RGBA
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
