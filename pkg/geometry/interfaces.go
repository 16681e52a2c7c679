package geometry

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Material is the surface description attached to a shape.
// The geometry package carries it through to hit records without inspecting it.
type Material interface{}

// Shape is the closed set of things a ray can be intersected with:
// *Sphere, *Triangle, *Rect, *ShapeList and *BVH.
type Shape interface {
	// Hit returns the nearest intersection with t in [tMin, tMax]
	Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool)
	// BoundingBox returns the box enclosing the shape; false only for an empty composite
	BoundingBox() (core.AABB, bool)

	shape()
}

func (*Sphere) shape()    {}
func (*Triangle) shape()  {}
func (*Rect) shape()      {}
func (*ShapeList) shape() {}
func (*BVH) shape()       {}
