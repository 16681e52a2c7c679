package material

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
)

// Emissive represents a light-emitting material
type Emissive struct {
	Emission core.Vec3 // Emitted light color/intensity
	TwoSided bool      // Emit from the back face as well
}

// NewEmissive creates a new emissive material that emits from its front face
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// Scatter implements the Material interface for emissive materials.
// Emissive materials absorb all incoming rays.
func (e *Emissive) Scatter(rayIn core.Ray, hit *geometry.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emit returns the emitted light for this material
func (e *Emissive) Emit(rayIn core.Ray, hit *geometry.HitRecord) core.Vec3 {
	if !hit.FrontFace && !e.TwoSided {
		return core.Vec3{}
	}
	return e.Emission
}
