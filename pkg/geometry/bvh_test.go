package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// randomShapes builds a mixed scene of spheres, triangles and rects whose
// material is the shape's index, so hits can be compared by identity
func randomShapes(rng *rand.Rand, n int) []Shape {
	randomPoint := func(scale float64) core.Vec3 {
		return core.NewVec3(
			(rng.Float64()*2-1)*scale,
			(rng.Float64()*2-1)*scale,
			(rng.Float64()*2-1)*scale)
	}

	shapes := make([]Shape, n)
	for i := range shapes {
		center := randomPoint(10)
		switch i % 3 {
		case 0:
			shapes[i] = NewSphere(center, 0.1+rng.Float64(), i)
		case 1:
			shapes[i] = NewTriangle(center, center.Add(randomPoint(1.5)), center.Add(randomPoint(1.5)), i)
		default:
			plane := RectPlane(rng.Intn(3))
			a, b := center.X, center.Y
			shapes[i] = NewRect(plane, a, a+rng.Float64()*2, b, b+rng.Float64()*2, center.Z, i)
		}
	}
	return shapes
}

func randomRays(rng *rand.Rand, n int) []core.Ray {
	rays := make([]core.Ray, n)
	for i := range rays {
		origin := core.NewVec3((rng.Float64()*2-1)*15, (rng.Float64()*2-1)*15, (rng.Float64()*2-1)*15)
		target := core.NewVec3((rng.Float64()*2-1)*8, (rng.Float64()*2-1)*8, (rng.Float64()*2-1)*8)
		rays[i] = core.NewRay(origin, target.Subtract(origin).Normalize())
	}
	return rays
}

// aimedRays shoots rays from far away at the box center of each shape, so
// every scene is hit at least through its spheres and rects
func aimedRays(rng *rand.Rand, shapes []Shape, perShape int) []core.Ray {
	var rays []core.Ray
	for _, shape := range shapes {
		box, ok := shape.BoundingBox()
		if !ok {
			continue
		}
		target := box.Centroid()
		for i := 0; i < perShape; i++ {
			direction := core.SampleOnUnitSphere(core.NewVec2(rng.Float64(), rng.Float64()))
			origin := target.Add(direction.Multiply(20))
			rays = append(rays, core.NewRay(origin, target.Subtract(origin).Normalize()))
		}
	}
	return rays
}

// assertSameHits compares a BVH against a linear scan over the same shapes
func assertSameHits(t *testing.T, shapes []Shape, rays []core.Ray) {
	t.Helper()

	reference := NewShapeList(append([]Shape(nil), shapes...)...)
	bvh, err := NewBVH(append([]Shape(nil), shapes...))
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}

	hits := 0
	for i, ray := range rays {
		for _, tMax := range []float64{math.Inf(1), 12} {
			want, wantOK := reference.Hit(ray, 0.001, tMax)
			got, gotOK := bvh.Hit(ray, 0.001, tMax)

			if wantOK != gotOK {
				t.Fatalf("ray %d tMax=%g: brute force hit=%t, BVH hit=%t", i, tMax, wantOK, gotOK)
			}
			if !wantOK {
				continue
			}
			hits++
			if got.T != want.T || got.Material != want.Material {
				t.Fatalf("ray %d tMax=%g: brute force (t=%g, shape %v), BVH (t=%g, shape %v)",
					i, tMax, want.T, want.Material, got.T, got.Material)
			}
			if got.T < 0.001 || got.T > tMax {
				t.Fatalf("ray %d: t=%g outside [0.001, %g]", i, got.T, tMax)
			}
		}
	}
	if hits == 0 {
		t.Fatal("Test scene produced no hits; rays are not exercising the tree")
	}
}

func TestBVH_MatchesBruteForce(t *testing.T) {
	tests := []struct {
		name   string
		shapes int
	}{
		{"single shape", 1},
		{"two shapes", 2},
		{"small scene", 17},
		{"large scene", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(tt.shapes)))
			shapes := randomShapes(rng, tt.shapes)
			rays := append(randomRays(rng, 2000), aimedRays(rng, shapes, 20)...)
			assertSameHits(t, shapes, rays)
		})
	}
}

func TestBVH_AdversarialLayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	coincident := make([]Shape, 50)
	for i := range coincident {
		// Identical centroids, nested radii
		coincident[i] = NewSphere(core.NewVec3(0, 0, 0), 0.5+float64(i)*0.1, i)
	}

	collinear := make([]Shape, 64)
	for i := range collinear {
		collinear[i] = NewSphere(core.NewVec3(float64(i)*0.5, 0, 0), 0.3, i)
	}

	flat := make([]Shape, 40)
	for i := range flat {
		x := float64(i%8) - 4
		y := float64(i/8) - 2
		// Coplanar rects tiling z=0: all boxes share the same padded z slab
		flat[i] = NewRect(PlaneXY, x, x+1, y, y+1, 0, i)
	}

	tests := []struct {
		name   string
		shapes []Shape
	}{
		{"coincident centroids", coincident},
		{"collinear along x", collinear},
		{"coplanar rects", flat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSameHits(t, tt.shapes, randomRays(rng, 1500))
		})
	}
}

func TestBVH_NearestOfOverlapping(t *testing.T) {
	shapes := []Shape{
		NewSphere(core.NewVec3(0, 0, -10), 1, "far"),
		NewSphere(core.NewVec3(0, 0, -5), 1, "middle"),
		NewSphere(core.NewVec3(0, 0, -3), 1, "near"),
		NewSphere(core.NewVec3(20, 0, -3), 1, "off axis"),
	}
	bvh, err := NewBVH(shapes)
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}

	hit, ok := bvh.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.Material != "near" || math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("Expected nearest sphere at t=2, got %v at t=%f", hit.Material, hit.T)
	}

	// Looking back along +z from behind every sphere, the far one is first
	hit, ok = bvh.Hit(core.NewRay(core.NewVec3(0, 0, -20), core.NewVec3(0, 0, 1)), 0.001, math.Inf(1))
	if !ok || hit.Material != "far" {
		t.Errorf("Expected far sphere first from behind, got %v", hit)
	}
}

func TestBVH_Errors(t *testing.T) {
	if _, err := NewBVH(nil); !errors.Is(err, ErrNoShapes) {
		t.Errorf("Expected ErrNoShapes, got %v", err)
	}

	shapes := []Shape{
		NewSphere(core.NewVec3(0, 0, 0), 1, nil),
		NewShapeList(), // empty composite has no box
	}
	_, err := NewBVH(shapes)
	if !errors.Is(err, ErrUnboundedShape) {
		t.Errorf("Expected ErrUnboundedShape, got %v", err)
	}
}

func TestBVH_Stats(t *testing.T) {
	tests := []struct {
		shapes        int
		expectedDepth int
	}{
		{1, 0},
		{2, 1},
		{5, 3},
		{8, 3},
		{9, 4},
	}

	for _, tt := range tests {
		shapes := make([]Shape, tt.shapes)
		for i := range shapes {
			shapes[i] = NewSphere(core.NewVec3(float64(i)*3, 0, 0), 1, nil)
		}
		bvh, err := NewBVH(shapes)
		if err != nil {
			t.Fatalf("NewBVH failed: %v", err)
		}

		stats := bvh.Stats()
		if stats.LeafNodes != tt.shapes {
			t.Errorf("%d shapes: expected one leaf per shape, got %d", tt.shapes, stats.LeafNodes)
		}
		if stats.TotalNodes != 2*tt.shapes-1 {
			t.Errorf("%d shapes: expected %d nodes, got %d", tt.shapes, 2*tt.shapes-1, stats.TotalNodes)
		}
		if stats.MaxDepth != tt.expectedDepth {
			t.Errorf("%d shapes: expected depth %d, got %d", tt.shapes, tt.expectedDepth, stats.MaxDepth)
		}
	}
}

func TestBVH_BoundingBox(t *testing.T) {
	shapes := []Shape{
		NewSphere(core.NewVec3(-3, 0, 0), 1, nil),
		NewSphere(core.NewVec3(4, 2, 0), 0.5, nil),
		NewRect(PlaneXZ, 0, 1, 0, 1, -6, nil),
	}
	bvh, err := NewBVH(shapes)
	if err != nil {
		t.Fatalf("NewBVH failed: %v", err)
	}

	box, ok := bvh.BoundingBox()
	if !ok {
		t.Fatal("BVH should be bounded")
	}
	for _, shape := range shapes {
		inner, _ := shape.BoundingBox()
		if !box.Contains(inner.Min) || !box.Contains(inner.Max) {
			t.Errorf("BVH box %v does not contain shape box %v", box, inner)
		}
	}

	// Nested BVHs are ordinary shapes
	outer, err := NewBVH([]Shape{bvh, NewSphere(core.NewVec3(0, 10, 0), 1, nil)})
	if err != nil {
		t.Fatalf("NewBVH over a BVH failed: %v", err)
	}
	if _, ok := outer.Hit(core.NewRay(core.NewVec3(-3, 0, 10), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1)); !ok {
		t.Error("Expected hit through nested BVH")
	}
}

func TestBoxCompare(t *testing.T) {
	a := NewSphere(core.NewVec3(0, 5, 0), 1, nil)
	b := NewSphere(core.NewVec3(2, 0, 0), 1, nil)

	if !BoxCompare(a, b, 0) || BoxCompare(b, a, 0) {
		t.Error("Expected a before b along x")
	}
	if !BoxCompare(b, a, 1) {
		t.Error("Expected b before a along y")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic comparing an unbounded shape")
		}
	}()
	BoxCompare(a, NewShapeList(), 0)
}
