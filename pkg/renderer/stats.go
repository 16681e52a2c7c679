package renderer

import "time"

// WorkerStats contains the work done by one worker since the scheduler started
type WorkerStats struct {
	ID     int           // Worker index
	Tiles  int           // Tile visits completed
	Passes int           // Tile passes rendered
	Pixels int64         // Pixel samples taken
	Busy   time.Duration // Time spent inside tile visits
}

// RenderStats summarizes the scheduler state
type RenderStats struct {
	Generation    uint64        // Current settings generation
	Progress      int           // Samples per pixel reached by every tile
	TotalTiles    int           // Tiles in the grid
	FinishedTiles int           // Tiles that reached the sample budget
	Workers       []WorkerStats // Per-worker counters
}

// TotalPixels returns the pixel samples taken by all workers
func (s RenderStats) TotalPixels() int64 {
	var total int64
	for _, w := range s.Workers {
		total += w.Pixels
	}
	return total
}

// TotalBusy returns the time all workers spent rendering
func (s RenderStats) TotalBusy() time.Duration {
	var total time.Duration
	for _, w := range s.Workers {
		total += w.Busy
	}
	return total
}
