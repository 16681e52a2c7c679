package geometry

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	Material   Material  // Material of the triangle

	normals [3]core.Vec3 // Optional per-vertex normals
	smooth  bool         // Whether per-vertex normals are interpolated
	normal  core.Vec3    // Cached geometric normal
	bbox    core.AABB    // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
	}

	t.computeNormal()
	t.computeBoundingBox()

	return t
}

// NewTriangleWithNormals creates a triangle whose shading normal is interpolated
// from the given per-vertex normals
func NewTriangleWithNormals(v0, v1, v2, n0, n1, n2 core.Vec3, material Material) *Triangle {
	t := NewTriangle(v0, v1, v2, material)
	t.normals = [3]core.Vec3{n0.Normalize(), n1.Normalize(), n2.Normalize()}
	t.smooth = true
	return t
}

// computeNormal calculates and caches the triangle's geometric normal
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()
}

// computeBoundingBox calculates and caches the padded bounding box
func (t *Triangle) computeBoundingBox() {
	t.bbox = core.NewAABBFromPoints(t.V0, t.V1, t.V2).Pad(core.AABBPadding)
}

// Normal returns the geometric normal, zero for a degenerate triangle
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Hit intersects the ray with the triangle in a ray-aligned coordinate frame.
// The vertices are translated to the ray origin, permuted so the dominant ray
// axis becomes z, and sheared so the ray runs down +z. The signed edge
// functions of the projected vertices then decide containment exactly.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	p0t := t.V0.Subtract(ray.Origin)
	p1t := t.V1.Subtract(ray.Origin)
	p2t := t.V2.Subtract(ray.Origin)

	kz := ray.Direction.Abs().MaxDimension()
	kx := (kz + 1) % 3
	ky := (kx + 1) % 3
	d := ray.Direction.Permute(kx, ky, kz)
	if d.Z == 0 {
		return nil, false
	}
	p0t = p0t.Permute(kx, ky, kz)
	p1t = p1t.Permute(kx, ky, kz)
	p2t = p2t.Permute(kx, ky, kz)

	sx := -d.X / d.Z
	sy := -d.Y / d.Z
	sz := 1.0 / d.Z
	p0t.X += sx * p0t.Z
	p0t.Y += sy * p0t.Z
	p1t.X += sx * p1t.Z
	p1t.Y += sy * p1t.Z
	p2t.X += sx * p2t.Z
	p2t.Y += sy * p2t.Z

	// Edge function values, each opposite the vertex with the same index
	e0 := p1t.X*p2t.Y - p1t.Y*p2t.X
	e1 := p2t.X*p0t.Y - p2t.Y*p0t.X
	e2 := p0t.X*p1t.Y - p0t.Y*p1t.X

	if (e0 < 0 || e1 < 0 || e2 < 0) && (e0 > 0 || e1 > 0 || e2 > 0) {
		return nil, false
	}
	det := e0 + e1 + e2
	if det == 0 {
		return nil, false
	}

	// A ray crossing exactly through an edge is only accepted by the triangle
	// that owns that edge, so shared edges are hit exactly once.
	if e0 == 0 && !ownsEdge(p1t, p2t, det) {
		return nil, false
	}
	if e1 == 0 && !ownsEdge(p2t, p0t, det) {
		return nil, false
	}
	if e2 == 0 && !ownsEdge(p0t, p1t, det) {
		return nil, false
	}

	p0t.Z *= sz
	p1t.Z *= sz
	p2t.Z *= sz
	tScaled := e0*p0t.Z + e1*p1t.Z + e2*p2t.Z

	// Range test on the scaled distance avoids a division for rejected hits
	if det > 0 && (tScaled < tMin*det || tScaled > tMax*det) {
		return nil, false
	}
	if det < 0 && (tScaled > tMin*det || tScaled < tMax*det) {
		return nil, false
	}

	invDet := 1.0 / det
	b0 := e0 * invDet
	b1 := e1 * invDet
	b2 := e2 * invDet
	tHit := tScaled * invDet

	// Reject hits whose distance is not provably positive given rounding error
	maxZt := math.Max(math.Abs(p0t.Z), math.Max(math.Abs(p1t.Z), math.Abs(p2t.Z)))
	maxXt := math.Max(math.Abs(p0t.X), math.Max(math.Abs(p1t.X), math.Abs(p2t.X)))
	maxYt := math.Max(math.Abs(p0t.Y), math.Max(math.Abs(p1t.Y), math.Abs(p2t.Y)))
	deltaZ := core.Gamma(3) * maxZt
	deltaX := core.Gamma(5) * (maxXt + maxZt)
	deltaY := core.Gamma(5) * (maxYt + maxZt)
	deltaE := 2 * (core.Gamma(2)*maxXt*maxYt + deltaY*maxXt + deltaX*maxYt)
	maxE := math.Max(math.Abs(e0), math.Max(math.Abs(e1), math.Abs(e2)))
	deltaT := 3 * (core.Gamma(3)*maxE*maxZt + deltaE*maxZt + deltaZ*maxE) * math.Abs(invDet)
	if tHit <= deltaT {
		return nil, false
	}

	w0 := t.V0.Multiply(b0)
	w1 := t.V1.Multiply(b1)
	w2 := t.V2.Multiply(b2)
	point := w0.Add(w1).Add(w2)

	hitRecord := &HitRecord{
		T:          tHit,
		Point:      point,
		Material:   t.Material,
		PointError: w0.Abs().Add(w1.Abs()).Add(w2.Abs()).Multiply(core.Gamma(7)),
	}
	hitRecord.SetFaceNormal(ray, t.normal)

	if t.smooth {
		shading := t.normals[0].Multiply(b0).
			Add(t.normals[1].Multiply(b1)).
			Add(t.normals[2].Multiply(b2)).
			Normalize()
		// Keep the shading normal on the same side as the geometric one
		if shading.Dot(hitRecord.Normal) < 0 {
			shading = shading.Negate()
		}
		if !shading.IsZero() {
			hitRecord.Normal = shading
		}
	}

	return hitRecord, true
}

// ownsEdge reports whether the projected edge a->b belongs to the triangle.
// The edge direction is taken in the triangle's winding as seen along the ray,
// and the edge is owned when it points down, or exactly along +x.
func ownsEdge(a, b core.Vec3, det float64) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	if det < 0 {
		dx, dy = -dx, -dy
	}
	return dy < 0 || (dy == 0 && dx > 0)
}

// BoundingBox returns the padded bounding box for this triangle
func (t *Triangle) BoundingBox() (core.AABB, bool) {
	return t.bbox, true
}
