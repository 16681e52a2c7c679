package geometry

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point      core.Vec3 // Point of intersection
	Normal     core.Vec3 // Geometric normal, facing against the incoming ray
	T          float64   // Parameter t along the ray
	FrontFace  bool      // Whether ray hit the front face
	Material   Material  // Material of the hit object
	PointError core.Vec3 // Conservative absolute error bound on Point, per axis
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// OffsetRayOrigin pushes p along the normal by just enough to clear the error
// bound pErr, on the side of the surface that w points to. Each component is
// then rounded away from p so the offset survives the final addition.
func OffsetRayOrigin(p, pErr, n, w core.Vec3) core.Vec3 {
	d := n.Abs().Dot(pErr)
	offset := n.Multiply(d)
	if w.Dot(n) < 0 {
		offset = offset.Negate()
	}
	po := p.Add(offset)

	round := func(v, o float64) float64 {
		if o > 0 {
			return core.NextFloatUp(v)
		}
		if o < 0 {
			return core.NextFloatDown(v)
		}
		return v
	}

	return core.Vec3{
		X: round(po.X, offset.X),
		Y: round(po.Y, offset.Y),
		Z: round(po.Z, offset.Z),
	}
}

// SpawnRay creates a ray leaving the hit surface in direction dir without self-intersecting it
func (h *HitRecord) SpawnRay(dir core.Vec3) core.Ray {
	return core.NewRay(OffsetRayOrigin(h.Point, h.PointError, h.Normal, dir), dir)
}
