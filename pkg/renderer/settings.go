package renderer

import (
	"fmt"
	"sync"

	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
)

// RenderSettings is everything a worker needs to render a sample. Workers
// read a private copy; any change goes through Scheduler.UpdateSettings and
// produces a new Generation.
type RenderSettings struct {
	Scene           geometry.Shape
	Camera          Camera
	Integrator      integrator.Integrator
	SamplesPerPixel int    // Passes over each pixel before a tile is finished
	MaxDepth        int    // Maximum path depth handed to the integrator
	Generation      uint64 // Assigned by the scheduler
}

// Validate reports whether the settings can be rendered
func (s RenderSettings) Validate() error {
	switch {
	case s.Scene == nil:
		return fmt.Errorf("%w: scene is nil", ErrInvalidSettings)
	case s.Camera == nil:
		return fmt.Errorf("%w: camera is nil", ErrInvalidSettings)
	case s.Integrator == nil:
		return fmt.Errorf("%w: integrator is nil", ErrInvalidSettings)
	case s.SamplesPerPixel < 1:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidSettings, s.SamplesPerPixel)
	case s.MaxDepth < 1:
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidSettings, s.MaxDepth)
	}
	return nil
}

// settingsStore hands out copies of the current settings
type settingsStore struct {
	mu       sync.RWMutex
	settings RenderSettings
}

func (s *settingsStore) load() RenderSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *settingsStore) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Generation
}

// install stores next under the following generation and returns it.
// The generation carried by next is ignored.
func (s *settingsStore) install(next RenderSettings) RenderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	next.Generation = s.settings.Generation + 1
	s.settings = next
	return next
}
