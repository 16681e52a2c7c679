package integrator

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
)

// NormalIntegrator visualizes surface normals: each component is mapped from
// [-1,1] to [0,1]. Escaping rays are black. It is deterministic, which makes
// it useful for previews and tests.
type NormalIntegrator struct{}

// NewNormalIntegrator creates a normal visualizer
func NewNormalIntegrator() *NormalIntegrator {
	return &NormalIntegrator{}
}

// Shade implements the Integrator interface
func (n *NormalIntegrator) Shade(ray core.Ray, world geometry.Shape, maxDepth int, sampler core.Sampler) core.Vec3 {
	if maxDepth <= 0 {
		return core.Vec3{}
	}
	hit, ok := world.Hit(ray, rayTMin, rayTMax)
	if !ok {
		return core.Vec3{}
	}
	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}
