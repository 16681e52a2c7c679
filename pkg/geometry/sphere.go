package geometry

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Sphere represents a sphere shape. A negative radius flips the normals so the
// sphere can model an interior surface such as the inside of a hollow glass ball.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	// Reproject the hit point onto the surface to tighten its error bound
	local := ray.At(root).Subtract(s.Center)
	if length := local.Length(); length > 0 {
		local = local.Multiply(math.Abs(s.Radius) / length)
	}
	point := s.Center.Add(local)

	hitRecord := &HitRecord{
		T:          root,
		Point:      point,
		Material:   s.Material,
		PointError: local.Abs().Add(point.Abs()).Multiply(core.Gamma(5)),
	}

	// Outward normal points from center to hit point (inward for negative radius)
	outwardNormal := local.Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() (core.AABB, bool) {
	r := math.Abs(s.Radius)
	radius := core.NewVec3(r, r, r)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	), true
}
