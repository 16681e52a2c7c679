package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// ErrInvalidMesh is returned when mesh faces or options do not match the vertex data
var ErrInvalidMesh = errors.New("geometry: invalid triangle mesh")

// TriangleMesh builds triangles from indexed vertex data.
// The mesh itself is not a Shape: its triangles are handed to a BVH, either
// the mesh's own or a scene-wide one.
type TriangleMesh struct {
	triangles []Shape   // Individual triangles as shapes
	bbox      core.AABB // Overall bounding box
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	VertexNormals []core.Vec3 // Optional per-vertex normals for smooth shading
	Materials     []Material  // Optional per-triangle materials
	Rotation      *core.Vec3  // Optional rotation (radians around X, Y, Z) applied to vertices
	Center        *core.Vec3  // Optional center point for rotation
}

// NewTriangleMesh creates a mesh from vertices and face indices.
// Each group of 3 indices in faces forms a triangle; options may be nil.
func NewTriangleMesh(vertices []core.Vec3, faces []int, material Material, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces) == 0 || len(faces)%3 != 0 {
		return nil, fmt.Errorf("%d face indices is not a positive multiple of 3: %w", len(faces), ErrInvalidMesh)
	}

	numTriangles := len(faces) / 3

	if options == nil {
		options = &TriangleMeshOptions{}
	}
	if options.VertexNormals != nil && len(options.VertexNormals) != len(vertices) {
		return nil, fmt.Errorf("%d normals for %d vertices: %w", len(options.VertexNormals), len(vertices), ErrInvalidMesh)
	}
	if options.Materials != nil && len(options.Materials) != numTriangles {
		return nil, fmt.Errorf("%d materials for %d triangles: %w", len(options.Materials), numTriangles, ErrInvalidMesh)
	}

	workingVertices := vertices
	normals := options.VertexNormals
	if options.Rotation != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			if options.Center != nil {
				vertex = vertex.Subtract(*options.Center)
			}
			vertex = rotateVertex(vertex, *options.Rotation)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
			workingVertices[i] = vertex
		}
		if normals != nil {
			normals = make([]core.Vec3, len(options.VertexNormals))
			for i, n := range options.VertexNormals {
				normals[i] = rotateVertex(n, *options.Rotation)
			}
		}
	}

	triangles := make([]Shape, numTriangles)
	var bbox core.AABB

	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		if !validIndex(i0, len(workingVertices)) || !validIndex(i1, len(workingVertices)) || !validIndex(i2, len(workingVertices)) {
			return nil, fmt.Errorf("face %d index out of range: %w", i, ErrInvalidMesh)
		}

		triangleMaterial := material
		if options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}

		var triangle *Triangle
		if normals != nil {
			triangle = NewTriangleWithNormals(
				workingVertices[i0], workingVertices[i1], workingVertices[i2],
				normals[i0], normals[i1], normals[i2],
				triangleMaterial)
		} else {
			triangle = NewTriangle(workingVertices[i0], workingVertices[i1], workingVertices[i2], triangleMaterial)
		}
		triangles[i] = triangle

		box, _ := triangle.BoundingBox()
		if i == 0 {
			bbox = box
		} else {
			bbox = bbox.Union(box)
		}
	}

	return &TriangleMesh{triangles: triangles, bbox: bbox}, nil
}

func validIndex(i, n int) bool {
	return i >= 0 && i < n
}

// Triangles returns the mesh triangles
func (tm *TriangleMesh) Triangles() []Shape {
	return tm.triangles
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// BoundingBox returns the box enclosing every triangle
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// BVH builds a hierarchy over a copy of the mesh triangles
func (tm *TriangleMesh) BVH() (*BVH, error) {
	shapes := make([]Shape, len(tm.triangles))
	copy(shapes, tm.triangles)
	return NewBVH(shapes)
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}

	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}

	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}

	return vertex
}

// NewQuadMesh returns a two-triangle mesh covering the parallelogram corner, corner+u, corner+u+v, corner+v
func NewQuadMesh(corner, u, v core.Vec3, material Material) *TriangleMesh {
	vertices := []core.Vec3{corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v)}
	mesh, _ := NewTriangleMesh(vertices, []int{0, 1, 2, 0, 2, 3}, material, nil)
	return mesh
}
