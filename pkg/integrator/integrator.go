package integrator

import (
	"errors"
	"fmt"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe for concurrent use by render workers; all
// per-sample randomness comes from the sampler.
type Integrator interface {
	// Shade computes the radiance arriving along ray from world
	Shade(ray core.Ray, world geometry.Shape, maxDepth int, sampler core.Sampler) core.Vec3
}

// Background is a vertical sky gradient used when a ray escapes the scene
type Background struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// DefaultBackground returns the white-to-blue sky gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the gradient color for a ray direction
func (b Background) Color(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}

// Distance bounds for camera and bounce rays
const (
	rayTMin = 0.001
	rayTMax = 1e9
)

// ErrUnknownIntegrator is returned by New for an unrecognized name
var ErrUnknownIntegrator = errors.New("integrator: unknown integrator")

// Names lists the integrators New accepts
var Names = []string{"path-tracing", "normal"}

// New creates an integrator by name
func New(name string, background Background) (Integrator, error) {
	switch name {
	case "path-tracing", "pt", "":
		return NewPathTracingIntegrator(background), nil
	case "normal":
		return NewNormalIntegrator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
	}
}
