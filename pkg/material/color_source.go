package material

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns the color at a point in world space
	Evaluate(point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of position
func (s *SolidColor) Evaluate(point core.Vec3) core.Vec3 {
	return s.Color
}

// Checker is a procedural 3D checkerboard alternating between two colors
type Checker struct {
	Scale float64 // Edge length of one check
	Even  core.Vec3
	Odd   core.Vec3
}

// NewChecker creates a checkerboard with the given check size
func NewChecker(scale float64, even, odd core.Vec3) *Checker {
	return &Checker{Scale: scale, Even: even, Odd: odd}
}

// Evaluate picks a color from the parity of the check containing point
func (c *Checker) Evaluate(point core.Vec3) core.Vec3 {
	inv := 1.0 / c.Scale
	sum := int(math.Floor(point.X*inv)) + int(math.Floor(point.Y*inv)) + int(math.Floor(point.Z*inv))
	if sum%2 == 0 {
		return c.Even
	}
	return c.Odd
}
