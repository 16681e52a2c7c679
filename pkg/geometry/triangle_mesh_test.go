package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

func quadVertices() []core.Vec3 {
	return []core.Vec3{
		core.NewVec3(0, 0, 0), // 0
		core.NewVec3(1, 0, 0), // 1
		core.NewVec3(1, 1, 0), // 2
		core.NewVec3(0, 1, 0), // 3
	}
}

var quadFaces = []int{
	0, 1, 2, // first triangle
	0, 2, 3, // second triangle
}

func TestTriangleMesh_Creation(t *testing.T) {
	mesh, err := NewTriangleMesh(quadVertices(), quadFaces, "mesh", nil)
	if err != nil {
		t.Fatalf("NewTriangleMesh failed: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}

	for i, shape := range mesh.Triangles() {
		if _, ok := shape.(*Triangle); !ok {
			t.Errorf("Triangle %d is not a Triangle type", i)
		}
	}

	bbox := mesh.BoundingBox()
	if bbox.Min.X != 0 || bbox.Min.Y != 0 || bbox.Max.X != 1 || bbox.Max.Y != 1 {
		t.Errorf("Unexpected mesh bounds %v", bbox)
	}
}

func TestTriangleMesh_Hit(t *testing.T) {
	mesh, err := NewTriangleMesh(quadVertices(), quadFaces, "mesh", nil)
	if err != nil {
		t.Fatalf("NewTriangleMesh failed: %v", err)
	}
	bvh, err := mesh.BVH()
	if err != nil {
		t.Fatalf("BVH failed: %v", err)
	}

	tests := []struct {
		name      string
		origin    core.Vec3
		shouldHit bool
	}{
		{"first triangle", core.NewVec3(0.8, 0.1, -1), true},
		{"second triangle", core.NewVec3(0.1, 0.8, -1), true},
		{"diagonal", core.NewVec3(0.5, 0.5, -1), true},
		{"outside", core.NewVec3(1.5, 0.5, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := bvh.Hit(core.NewRay(tt.origin, core.NewVec3(0, 0, 1)), 0.001, 10)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%t, got %t", tt.shouldHit, ok)
			}
			if ok && math.Abs(hit.T-1) > 1e-9 {
				t.Errorf("Expected t=1, got %f", hit.T)
			}
		})
	}
}

func TestTriangleMesh_ErrorHandling(t *testing.T) {
	vertices := quadVertices()

	tests := []struct {
		name    string
		faces   []int
		options *TriangleMeshOptions
	}{
		{"face count not a multiple of 3", []int{0, 1}, nil},
		{"no faces", nil, nil},
		{"index out of range", []int{0, 1, 4}, nil},
		{"negative index", []int{0, -1, 2}, nil},
		{"normal count mismatch", []int{0, 1, 2}, &TriangleMeshOptions{VertexNormals: []core.Vec3{{Z: 1}}}},
		{"material count mismatch", []int{0, 1, 2}, &TriangleMeshOptions{Materials: []Material{"a", "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangleMesh(vertices, tt.faces, nil, tt.options)
			if !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("Expected ErrInvalidMesh, got %v", err)
			}
		})
	}
}

func TestTriangleMesh_WithPerTriangleMaterials(t *testing.T) {
	options := &TriangleMeshOptions{
		Materials: []Material{"first", "second"},
	}
	mesh, err := NewTriangleMesh(quadVertices(), quadFaces, "default", options)
	if err != nil {
		t.Fatalf("NewTriangleMesh failed: %v", err)
	}
	bvh, err := mesh.BVH()
	if err != nil {
		t.Fatalf("BVH failed: %v", err)
	}

	hit1, ok := bvh.Hit(core.NewRay(core.NewVec3(0.8, 0.1, -1), core.NewVec3(0, 0, 1)), 0.001, 10)
	if !ok || hit1.Material != "first" {
		t.Errorf("Expected first material, got %v", hit1)
	}
	hit2, ok := bvh.Hit(core.NewRay(core.NewVec3(0.1, 0.8, -1), core.NewVec3(0, 0, 1)), 0.001, 10)
	if !ok || hit2.Material != "second" {
		t.Errorf("Expected second material, got %v", hit2)
	}
}

func TestTriangleMesh_VertexNormalsAndRotation(t *testing.T) {
	up := core.NewVec3(0, 0, 1)
	rotation := core.NewVec3(0, math.Pi/2, 0)
	center := core.NewVec3(0.5, 0.5, 0)
	options := &TriangleMeshOptions{
		VertexNormals: []core.Vec3{up, up, up, up},
		Rotation:      &rotation,
		Center:        &center,
	}

	mesh, err := NewTriangleMesh(quadVertices(), quadFaces, nil, options)
	if err != nil {
		t.Fatalf("NewTriangleMesh failed: %v", err)
	}

	// Rotating the xy quad by 90 degrees around y stands it up in the yz plane through x=0.5
	bbox := mesh.BoundingBox()
	if math.Abs(bbox.Centroid().X-0.5) > 1e-9 || bbox.Size().X > 1e-3 {
		t.Errorf("Expected quad in the plane x=0.5, got %v", bbox)
	}

	bvh, err := mesh.BVH()
	if err != nil {
		t.Fatalf("BVH failed: %v", err)
	}
	hit, ok := bvh.Hit(core.NewRay(core.NewVec3(3, 0.3, 0.2), core.NewVec3(-1, 0, 0)), 0.001, 10)
	if !ok {
		t.Fatal("Expected hit on rotated quad")
	}
	// Vertex normals were rotated along with the vertices
	if math.Abs(math.Abs(hit.Normal.X)-1) > 1e-9 {
		t.Errorf("Expected normal along x, got %v", hit.Normal)
	}
}

func TestNewQuadMesh(t *testing.T) {
	mesh := NewQuadMesh(core.NewVec3(-1, 0, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), "floor")
	if mesh.TriangleCount() != 2 {
		t.Fatalf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}

	list := NewShapeList(mesh.Triangles()...)
	hit, ok := list.Hit(core.NewRay(core.NewVec3(0.3, 1, -0.4), core.NewVec3(0, -1, 0)), 0.001, 10)
	if !ok || hit.Material != "floor" {
		t.Errorf("Expected floor hit, got %v", hit)
	}
}
