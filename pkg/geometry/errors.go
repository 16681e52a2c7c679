package geometry

import "errors"

var (
	// ErrNoShapes is returned when a BVH is built from an empty shape slice
	ErrNoShapes = errors.New("geometry: no shapes to build BVH from")

	// ErrUnboundedShape is returned when a shape passed to the BVH has no bounding box
	ErrUnboundedShape = errors.New("geometry: shape has no bounding box")
)
