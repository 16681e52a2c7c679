package geometry

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
)

// ShapeList is a composite that tests every member in turn.
// It is the brute-force counterpart of a BVH and is convenient for small scenes.
type ShapeList struct {
	Shapes []Shape
}

// NewShapeList creates a list from the given shapes
func NewShapeList(shapes ...Shape) *ShapeList {
	return &ShapeList{Shapes: shapes}
}

// Add appends shapes to the list
func (l *ShapeList) Add(shapes ...Shape) {
	l.Shapes = append(l.Shapes, shapes...)
}

// Hit returns the closest hit among all members
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	var closest *HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}

// BoundingBox returns the union of all member boxes. It reports false when the
// list is empty or any member is unbounded.
func (l *ShapeList) BoundingBox() (core.AABB, bool) {
	if len(l.Shapes) == 0 {
		return core.AABB{}, false
	}

	var result core.AABB
	for i, shape := range l.Shapes {
		box, ok := shape.BoundingBox()
		if !ok {
			return core.AABB{}, false
		}
		if i == 0 {
			result = box
		} else {
			result = core.SurroundingBox(result, box)
		}
	}
	return result, true
}
