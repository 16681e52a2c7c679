package geometry

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// RectPlane selects the two axes an axis-aligned rectangle spans
type RectPlane int

const (
	PlaneXY RectPlane = iota // spans x and y, constant z
	PlaneXZ                  // spans x and z, constant y
	PlaneYZ                  // spans y and z, constant x
)

// axes returns the two in-plane axes and the constant axis
func (p RectPlane) axes() (a, b, k int) {
	switch p {
	case PlaneXZ:
		return 0, 2, 1
	case PlaneYZ:
		return 1, 2, 0
	default:
		return 0, 1, 2
	}
}

func (p RectPlane) String() string {
	switch p {
	case PlaneXZ:
		return "xz"
	case PlaneYZ:
		return "yz"
	default:
		return "xy"
	}
}

// Rect represents an axis-aligned rectangle lying in the plane axis_k = K
type Rect struct {
	Plane      RectPlane
	A0, A1     float64 // Bounds along the first in-plane axis
	B0, B1     float64 // Bounds along the second in-plane axis
	K          float64 // Offset along the constant axis
	FlipNormal bool    // Outward normal points along -k instead of +k
	Material   Material

	normal core.Vec3
	bbox   core.AABB
}

// NewRect creates an axis-aligned rectangle. Bounds are reordered so A0 <= A1 and B0 <= B1.
func NewRect(plane RectPlane, a0, a1, b0, b1, k float64, material Material) *Rect {
	if a0 > a1 {
		a0, a1 = a1, a0
	}
	if b0 > b1 {
		b0, b1 = b1, b0
	}
	r := &Rect{
		Plane:    plane,
		A0:       a0,
		A1:       a1,
		B0:       b0,
		B1:       b1,
		K:        k,
		Material: material,
	}
	r.computeNormal()
	r.computeBoundingBox()
	return r
}

// NewFlippedRect creates a rectangle whose outward normal points along the negative constant axis
func NewFlippedRect(plane RectPlane, a0, a1, b0, b1, k float64, material Material) *Rect {
	r := NewRect(plane, a0, a1, b0, b1, k, material)
	r.FlipNormal = true
	r.computeNormal()
	return r
}

func (r *Rect) computeNormal() {
	_, _, kAxis := r.Plane.axes()
	var n [3]float64
	n[kAxis] = 1
	if r.FlipNormal {
		n[kAxis] = -1
	}
	r.normal = core.NewVec3(n[0], n[1], n[2])
}

func (r *Rect) computeBoundingBox() {
	a, b, k := r.Plane.axes()
	var lo, hi [3]float64
	lo[a], hi[a] = r.A0, r.A1
	lo[b], hi[b] = r.B0, r.B1
	lo[k], hi[k] = r.K, r.K
	box := core.NewAABB(core.NewVec3(lo[0], lo[1], lo[2]), core.NewVec3(hi[0], hi[1], hi[2]))
	r.bbox = box.Pad(core.AABBPadding)
}

// Normal returns the outward normal of the rectangle
func (r *Rect) Normal() core.Vec3 {
	return r.normal
}

// Hit tests if a ray intersects with the rectangle
func (r *Rect) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	aAxis, bAxis, kAxis := r.Plane.axes()

	dirK := ray.Direction.Axis(kAxis)
	if dirK == 0 {
		return nil, false
	}

	t := (r.K - ray.Origin.Axis(kAxis)) / dirK
	if t < tMin || t > tMax {
		return nil, false
	}

	point := ray.At(t)
	a := point.Axis(aAxis)
	b := point.Axis(bAxis)
	if a < r.A0 || a > r.A1 || b < r.B0 || b > r.B1 {
		return nil, false
	}

	// Snap the constant coordinate onto the plane; only the in-plane axes carry
	// the rounding error of ray.At.
	var p, e [3]float64
	p[aAxis], p[bAxis], p[kAxis] = a, b, r.K
	errA := core.Gamma(3) * (math.Abs(ray.Origin.Axis(aAxis)) + math.Abs(t*ray.Direction.Axis(aAxis)))
	errB := core.Gamma(3) * (math.Abs(ray.Origin.Axis(bAxis)) + math.Abs(t*ray.Direction.Axis(bAxis)))
	e[aAxis], e[bAxis], e[kAxis] = errA, errB, core.Gamma(1)*math.Abs(r.K)

	hitRecord := &HitRecord{
		T:          t,
		Point:      core.NewVec3(p[0], p[1], p[2]),
		Material:   r.Material,
		PointError: core.NewVec3(e[0], e[1], e[2]),
	}
	hitRecord.SetFaceNormal(ray, r.normal)

	return hitRecord, true
}

// BoundingBox returns the bounding box padded on the constant axis
func (r *Rect) BoundingBox() (core.AABB, bool) {
	return r.bbox, true
}
