package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// bvhNode is either a branch with two children or a leaf holding a single shape
type bvhNode struct {
	box   core.AABB
	left  *bvhNode
	right *bvhNode
	shape Shape // non-nil for leaf nodes
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is read-only after construction and safe for concurrent Hit calls.
type BVH struct {
	root *bvhNode
}

// NewBVH constructs a BVH over shapes. The slice is reordered in place.
func NewBVH(shapes []Shape) (*BVH, error) {
	if len(shapes) == 0 {
		return nil, ErrNoShapes
	}
	for i, shape := range shapes {
		if _, ok := shape.BoundingBox(); !ok {
			return nil, fmt.Errorf("shape %d: %w", i, ErrUnboundedShape)
		}
	}

	return &BVH{root: buildBVH(shapes)}, nil
}

// buildBVH recursively builds the tree using a median split on the axis with
// the largest spread of box centroids
func buildBVH(shapes []Shape) *bvhNode {
	if len(shapes) == 1 {
		box, _ := shapes[0].BoundingBox()
		return &bvhNode{box: box, shape: shapes[0]}
	}

	axis := centroidBounds(shapes).LongestAxis()
	sort.Slice(shapes, func(i, j int) bool {
		return BoxCompare(shapes[i], shapes[j], axis)
	})

	mid := len(shapes) / 2
	left := buildBVH(shapes[:mid])
	right := buildBVH(shapes[mid:])

	return &bvhNode{
		box:   core.SurroundingBox(left.box, right.box),
		left:  left,
		right: right,
	}
}

// centroidBounds returns the box enclosing the centroids of every shape box
func centroidBounds(shapes []Shape) core.AABB {
	points := make([]core.Vec3, len(shapes))
	for i, shape := range shapes {
		box, _ := shape.BoundingBox()
		points[i] = box.Centroid()
	}
	return core.NewAABBFromPoints(points...)
}

// BoxCompare orders two shapes by the minimum corner of their boxes along axis.
// It panics if either shape is unbounded; NewBVH rejects those before sorting.
func BoxCompare(a, b Shape, axis int) bool {
	boxA, okA := a.BoundingBox()
	boxB, okB := b.BoundingBox()
	if !okA || !okB {
		panic(ErrUnboundedShape)
	}
	return boxA.Min.Axis(axis) < boxB.Min.Axis(axis)
}

// Hit returns the closest intersection among all shapes in the BVH
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	if bvh.root == nil {
		return nil, false
	}
	hit := hitNode(bvh.root, ray, tMin, tMax)
	return hit, hit != nil
}

// hitNode tests a subtree, visiting the child whose box centroid is closer to
// the ray origin first so the farther child is searched with a shorter interval
func hitNode(node *bvhNode, ray core.Ray, tMin, tMax float64) *HitRecord {
	if !node.box.Hit(ray, tMin, tMax) {
		return nil
	}

	if node.shape != nil {
		hit, ok := node.shape.Hit(ray, tMin, tMax)
		if !ok {
			return nil
		}
		return hit
	}

	first, second := node.left, node.right
	if nearerFirst(ray, second.box, first.box) {
		first, second = second, first
	}

	closest := hitNode(first, ray, tMin, tMax)
	if closest != nil {
		tMax = closest.T
	}
	if hit := hitNode(second, ray, tMin, tMax); hit != nil {
		closest = hit
	}
	return closest
}

// nearerFirst reports whether box a lies ahead of box b along the ray
func nearerFirst(ray core.Ray, a, b core.AABB) bool {
	return a.Centroid().Subtract(ray.Origin).Dot(ray.Direction) <
		b.Centroid().Subtract(ray.Origin).Dot(ray.Direction)
}

// BoundingBox returns the cached box of the root node
func (bvh *BVH) BoundingBox() (core.AABB, bool) {
	if bvh.root == nil {
		return core.AABB{}, false
	}
	return bvh.root.box, true
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes int
	LeafNodes  int
	MaxDepth   int
	AvgDepth   float64 // Mean leaf depth
}

// Stats walks the tree and returns its shape
func (bvh *BVH) Stats() BVHStats {
	if bvh.root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	collectStats(bvh.root, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}

	return stats
}

// collectStats recursively collects statistics about the BVH
func collectStats(node *bvhNode, depth int, stats *BVHStats) {
	stats.TotalNodes++

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.shape != nil {
		stats.LeafNodes++
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}

	collectStats(node.left, depth+1, stats)
	collectStats(node.right, depth+1, stats)
}
