package renderer

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// instruction is a coordinator command delivered to one worker
type instruction int

const (
	instructionStart instruction = iota
	instructionStop
	instructionTerminate
)

func (i instruction) String() string {
	switch i {
	case instructionStart:
		return "start"
	case instructionStop:
		return "stop"
	case instructionTerminate:
		return "terminate"
	default:
		return fmt.Sprintf("instruction(%d)", int(i))
	}
}

// pollResult is what a worker learned from checking its instruction channel
type pollResult int

const (
	pollContinue pollResult = iota
	pollResumed
	pollTerminate
)

// worker renders tiles taken from the shared queue until terminated
type worker struct {
	id        int
	scheduler *Scheduler

	// Unbuffered; closing it terminates the worker
	instructions chan instruction
	// Closed when run returns
	exited chan struct{}

	tiles  atomic.Int64
	passes atomic.Int64
	pixels atomic.Int64
	busy   atomic.Int64 // Nanoseconds spent rendering
}

func newWorker(id int, scheduler *Scheduler) *worker {
	return &worker{
		id:           id,
		scheduler:    scheduler,
		instructions: make(chan instruction),
		exited:       make(chan struct{}),
	}
}

// send delivers an instruction, returning false if the worker has exited
func (w *worker) send(ins instruction) bool {
	select {
	case w.instructions <- ins:
		return true
	case <-w.exited:
		return false
	}
}

// run is the main worker loop. A panic while rendering is returned as an error.
func (w *worker) run(ctx context.Context) (err error) {
	defer close(w.exited)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d: panic: %v", w.id, r)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ins, ok := <-w.instructions:
			if !ok || ins == instructionTerminate {
				return nil
			}
			if ins == instructionStop && !w.park(ctx) {
				return nil
			}

		case tile := <-w.scheduler.queue:
			if !w.visit(ctx, tile) {
				return nil
			}
		}
	}
}

// park acknowledges a stop and blocks until started again. It returns false
// if the worker must exit instead.
func (w *worker) park(ctx context.Context) bool {
	w.scheduler.acks <- w.id
	for {
		select {
		case <-ctx.Done():
			return false
		case ins, ok := <-w.instructions:
			if !ok || ins == instructionTerminate {
				return false
			}
			if ins == instructionStart {
				return true
			}
			// Already stopped, acknowledge again
			w.scheduler.acks <- w.id
		}
	}
}

// poll checks for an instruction without blocking
func (w *worker) poll(ctx context.Context) pollResult {
	select {
	case <-ctx.Done():
		return pollTerminate
	case ins, ok := <-w.instructions:
		switch {
		case !ok || ins == instructionTerminate:
			return pollTerminate
		case ins == instructionStop:
			if !w.park(ctx) {
				return pollTerminate
			}
			return pollResumed
		}
	default:
	}
	return pollContinue
}

// visit renders up to SamplesPerVisit passes over tile, merging each into the
// film, then hands the tile back to the scheduler. It returns false if the
// worker must exit; the tile is then dropped.
func (w *worker) visit(ctx context.Context, tile *Tile) bool {
	start := time.Now()
	defer func() {
		w.busy.Add(int64(time.Since(start)))
	}()

	settings := w.scheduler.settings.load()
	tile.Adopt(settings.Generation)

	for passes := 0; passes < w.scheduler.config.samplesPerVisit() && tile.Samples() < settings.SamplesPerPixel; passes++ {
		if !w.renderPass(ctx, tile, &settings) {
			return false
		}
		tile.completePass()
		w.passes.Add(1)
		w.pixels.Add(int64(len(tile.pixels)))
		w.scheduler.film.MergeTile(tile)
	}

	w.tiles.Add(1)
	w.scheduler.release(tile, settings)
	return true
}

// renderPass adds one sample to every pixel of tile, checking for
// instructions before each row. When resumed under a new generation the tile
// is cleared and the pass starts over with the new settings.
func (w *worker) renderPass(ctx context.Context, tile *Tile, settings *RenderSettings) bool {
	bounds := tile.Bounds
	sampler := tile.Sampler()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		switch w.poll(ctx) {
		case pollTerminate:
			return false
		case pollResumed:
			*settings = w.scheduler.settings.load()
			if tile.Adopt(settings.Generation) {
				y = bounds.Min.Y
			}
		}

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			film := sampler.Get2D()
			lens := sampler.Get2D()
			ray, weight := settings.Camera.RayForSample(x, y, lens, film)
			color := settings.Integrator.Shade(ray, settings.Scene, settings.MaxDepth, sampler)
			tile.AddSample(x, y, sanitize(color).Multiply(weight), weight)
		}
	}
	return true
}

// sanitize replaces a color with NaN or infinite components by black
func sanitize(c core.Vec3) core.Vec3 {
	for _, v := range [3]float64{c.X, c.Y, c.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.Vec3{}
		}
	}
	return c
}

func (w *worker) stats() WorkerStats {
	return WorkerStats{
		ID:     w.id,
		Tiles:  int(w.tiles.Load()),
		Passes: int(w.passes.Load()),
		Pixels: w.pixels.Load(),
		Busy:   time.Duration(w.busy.Load()),
	}
}
