package renderer

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-tile-raytracer/pkg/log"
)

// Scheduler distributes film tiles over a fixed pool of workers and renders
// them progressively. Settings can be replaced at any time; samples of the
// previous generation never overwrite newer ones on the film.
//
// Coordinator methods (Start, UpdateSettings, Pause, Resume, Terminate) may be
// called from any goroutine; they are serialized internally.
type Scheduler struct {
	config   Config
	film     *Film
	tiles    []*Tile
	settings settingsStore
	queue    chan *Tile

	workers []*worker
	acks    chan int
	group   *errgroup.Group

	// ctl serializes coordinator operations
	ctl        sync.Mutex
	started    bool
	running    bool
	terminated bool

	terminateOnce sync.Once
	terminateErr  error

	// failed is closed once a worker stops with an error
	failOnce sync.Once
	failed   chan struct{}
	failErr  error

	// mu guards the finished list and the done channel
	mu       sync.Mutex
	finished []*Tile
	done     chan struct{}

	logger log.Logger
}

// NewScheduler creates a scheduler for config and the initial settings.
// All tiles are queued; nothing is rendered until Start.
func NewScheduler(config Config, settings RenderSettings) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	film := NewFilm(config.Width, config.Height)
	var tiles []*Tile
	if config.TileSize > 0 {
		tiles = film.GetTilesBySize(config.TileSize)
	} else {
		tiles = film.GetTiles(config.TileColumns, config.TileRows)
	}

	numWorkers := config.workers()
	s := &Scheduler{
		config: config,
		film:   film,
		tiles:  tiles,
		queue:  make(chan *Tile, len(tiles)),
		acks:   make(chan int, numWorkers),
		done:   make(chan struct{}),
		failed: make(chan struct{}),
		logger: log.New("renderer"),
	}
	s.settings.install(settings)

	for i := 0; i < numWorkers; i++ {
		s.workers = append(s.workers, newWorker(i, s))
	}
	for _, tile := range tiles {
		s.queue <- tile
	}

	s.logger.Infof("scheduler: %dx%d film, %d tiles, %d workers", config.Width, config.Height, len(tiles), numWorkers)
	return s, nil
}

// Start launches the workers. They exit when ctx is cancelled or on Terminate.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.terminated {
		return ErrTerminated
	}
	if s.started {
		return ErrAlreadyStarted
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, w := range s.workers {
		w := w
		group.Go(func() error {
			err := w.run(groupCtx)
			if err != nil {
				s.fail(err)
			}
			return err
		})
	}
	s.group = group
	s.started = true
	s.running = true
	return nil
}

// UpdateSettings applies fn to a copy of the current settings and installs
// the result under the next generation. Workers are stopped while the swap
// happens, finished tiles are queued again and rendering resumes unless the
// scheduler is paused. It returns the new generation.
func (s *Scheduler) UpdateSettings(fn func(*RenderSettings)) (uint64, error) {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.terminated {
		return 0, ErrTerminated
	}

	next := s.settings.load()
	if fn != nil {
		fn(&next)
	}
	if err := next.Validate(); err != nil {
		return 0, err
	}

	if s.running {
		s.stopAll()
	}
	installed := s.settings.install(next)

	s.mu.Lock()
	finished := s.finished
	s.finished = nil
	select {
	case <-s.done:
		s.done = make(chan struct{})
	default:
	}
	s.mu.Unlock()

	for _, tile := range finished {
		s.queue <- tile
	}

	if s.running {
		s.startAll()
	}

	s.logger.Infof("settings generation %d installed, %d finished tiles requeued", installed.Generation, len(finished))
	return installed.Generation, nil
}

// Pause stops every worker at its next row boundary. Workers keep their tiles.
func (s *Scheduler) Pause() {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if !s.running || s.terminated {
		return
	}
	s.stopAll()
	s.running = false
	s.logger.Info("paused")
}

// Resume restarts workers stopped by Pause
func (s *Scheduler) Resume() {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if !s.started || s.running || s.terminated {
		return
	}
	s.startAll()
	s.running = true
	s.logger.Info("resumed")
}

// Terminate stops all workers for good and waits for them to exit. It returns
// the first worker error, if any. Calling it again returns the same result.
func (s *Scheduler) Terminate() error {
	s.terminateOnce.Do(func() {
		s.ctl.Lock()
		defer s.ctl.Unlock()

		s.terminated = true
		s.running = false
		for _, w := range s.workers {
			close(w.instructions)
		}
		if s.group != nil {
			s.terminateErr = s.group.Wait()
		}
		if s.terminateErr != nil {
			s.logger.Errorf("terminated with error: %v", s.terminateErr)
		} else {
			s.logger.Notice("terminated")
		}
	})
	return s.terminateErr
}

// IsDone reports whether every tile reached the sample budget of the current generation
func (s *Scheduler) IsDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.finished) == len(s.tiles)
}

// Done returns a channel closed once every tile of the current generation is
// finished. UpdateSettings replaces the channel.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Failed returns a channel closed when a worker stops with an error. The
// remaining workers are cancelled and Done will not close for that generation.
func (s *Scheduler) Failed() <-chan struct{} {
	return s.failed
}

// Err returns the first worker error, or nil while no worker has failed
func (s *Scheduler) Err() error {
	select {
	case <-s.failed:
		return s.failErr
	default:
		return nil
	}
}

func (s *Scheduler) fail(err error) {
	s.failOnce.Do(func() {
		s.failErr = err
		close(s.failed)
		s.logger.Errorf("render failed: %v", err)
	})
}

// Progress returns the number of samples per pixel every tile has reached
// under the current generation. Tiles still holding older samples count as 0.
func (s *Scheduler) Progress() int {
	generation := s.settings.generation()

	minimum := -1
	for _, tile := range s.tiles {
		samples := 0
		if tile.Generation() == generation {
			samples = tile.Samples()
		}
		if minimum < 0 || samples < minimum {
			minimum = samples
		}
	}
	return max(minimum, 0)
}

// Film returns the shared output film
func (s *Scheduler) Film() *Film {
	return s.film
}

// Settings returns a copy of the current settings
func (s *Scheduler) Settings() RenderSettings {
	return s.settings.load()
}

// Config returns the scheduler configuration
func (s *Scheduler) Config() Config {
	return s.config
}

// NumWorkers returns the size of the worker pool
func (s *Scheduler) NumWorkers() int {
	return len(s.workers)
}

// Stats returns a snapshot of the scheduler and worker counters
func (s *Scheduler) Stats() RenderStats {
	s.mu.Lock()
	finished := len(s.finished)
	s.mu.Unlock()

	stats := RenderStats{
		Generation:    s.settings.generation(),
		Progress:      s.Progress(),
		TotalTiles:    len(s.tiles),
		FinishedTiles: finished,
	}
	for _, w := range s.workers {
		stats.Workers = append(stats.Workers, w.stats())
	}
	return stats
}

// release hands a visited tile back: finished when its budget is reached,
// queued again otherwise
func (s *Scheduler) release(tile *Tile, settings RenderSettings) {
	if tile.Samples() < settings.SamplesPerPixel {
		s.queue <- tile
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.finished = append(s.finished, tile)
	s.logger.Debugf("tile %d finished at generation %d", tile.ID, settings.Generation)
	if len(s.finished) == len(s.tiles) {
		close(s.done)
		s.logger.Noticef("generation %d complete: %d samples per pixel", settings.Generation, settings.SamplesPerPixel)
	}
}

// stopAll stops every live worker and waits for each to acknowledge
func (s *Scheduler) stopAll() {
	pending := 0
	for _, w := range s.workers {
		if w.send(instructionStop) {
			pending++
		}
	}
	for ; pending > 0; pending-- {
		<-s.acks
	}
}

func (s *Scheduler) startAll() {
	for _, w := range s.workers {
		w.send(instructionStart)
	}
}

func (s *Scheduler) String() string {
	return fmt.Sprintf("Scheduler(%dx%d, %d tiles, %d workers)", s.config.Width, s.config.Height, len(s.tiles), len(s.workers))
}
