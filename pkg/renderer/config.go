package renderer

import (
	"fmt"
	"runtime"
)

// Config controls how the scheduler cuts the film and drives its workers
type Config struct {
	Width           int // Film width in pixels
	Height          int // Film height in pixels
	TileColumns     int // Grid columns; used when TileSize is 0
	TileRows        int // Grid rows; used when TileSize is 0
	TileSize        int // Approximate tile edge in pixels; overrides the grid counts
	NumWorkers      int // Number of parallel workers (0 = auto-detect)
	SamplesPerVisit int // Passes rendered each time a worker takes a tile
}

// DefaultConfig returns a 400x225 film cut into 32-pixel tiles
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          225,
		TileColumns:     4,
		TileRows:        4,
		TileSize:        32,
		NumWorkers:      0,
		SamplesPerVisit: 1,
	}
}

// Validate reports whether the config is usable
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("%w: film must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.TileSize < 0:
		return fmt.Errorf("%w: negative tile size %d", ErrInvalidConfig, c.TileSize)
	case c.TileSize == 0 && (c.TileColumns < 1 || c.TileRows < 1):
		return fmt.Errorf("%w: tile grid must be at least 1x1, got %dx%d", ErrInvalidConfig, c.TileColumns, c.TileRows)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.NumWorkers)
	case c.SamplesPerVisit < 0:
		return fmt.Errorf("%w: negative samples per visit %d", ErrInvalidConfig, c.SamplesPerVisit)
	}
	return nil
}

func (c Config) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

func (c Config) samplesPerVisit() int {
	return max(1, c.SamplesPerVisit)
}
