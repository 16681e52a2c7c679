package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/material"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry on a
// checkered floor. The icosahedron uses vertex normals for smooth shading.
func NewTriangleMeshScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(0, 2, 6), // Position camera to see the meshes
		LookAt:        core.NewVec3(0, 1, 0), // Look at the center of the scene
		Up:            core.NewVec3(0, 1, 0), // Standard up direction
		Width:         600,
		AspectRatio:   16.0 / 9.0,
		VFov:          45.0, // Good field of view for showcasing
		Aperture:      0.02, // Slight depth of field
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}

	s := &Scene{
		Name:            "trianglemesh",
		CameraConfig:    cameraConfig(defaultCameraConfig, cameraOverrides),
		Background:      integrator.DefaultBackground(),
		SamplesPerPixel: 150,
		MaxDepth:        40,
	}

	// Main overhead light and a cooler fill light
	s.AddSphereLight(core.NewVec3(2, 6, 3), 1.5, core.NewVec3(12.0, 11.0, 10.0))
	s.AddSphereLight(core.NewVec3(-3, 4, 2), 0.8, core.NewVec3(6.0, 7.0, 8.0))

	floor := material.NewTexturedLambertian(material.NewChecker(2,
		core.NewVec3(0.7, 0.7, 0.7),
		core.NewVec3(0.3, 0.3, 0.35)))
	s.Shapes = append(s.Shapes, NewGroundRect(core.NewVec3(0, 0, 0), 100, floor))

	box, err := createBoxMesh(
		core.NewVec3(-2, 0.5, 0),      // center (sitting on ground)
		core.NewVec3(1, 1, 1),         // size
		core.NewVec3(0, math.Pi/6, 0), // 30° around Y
		material.NewMetal(core.NewVec3(0.8, 0.2, 0.2), 0.1),
	)
	if err != nil {
		return nil, fmt.Errorf("box mesh: %w", err)
	}
	s.AddMesh(box)

	pyramid, err := createPyramidMesh(
		core.NewVec3(0, 1, 0),         // center
		1.5,                           // base size
		2.0,                           // height
		core.NewVec3(0, math.Pi/4, 0), // 45° around Y
		material.NewLambertian(core.NewVec3(0.2, 0.3, 0.8)),
	)
	if err != nil {
		return nil, fmt.Errorf("pyramid mesh: %w", err)
	}
	s.AddMesh(pyramid)

	icosahedron, err := createIcosahedronMesh(
		core.NewVec3(2, 0.8, 0), // center
		0.8,                     // radius
		material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.05),
	)
	if err != nil {
		return nil, fmt.Errorf("icosahedron mesh: %w", err)
	}
	// The icosahedron keeps its own BVH, nested in the scene's
	icosahedronBVH, err := icosahedron.BVH()
	if err != nil {
		return nil, fmt.Errorf("icosahedron mesh: %w", err)
	}
	s.Shapes = append(s.Shapes, icosahedronBVH)

	return s, nil
}

// createBoxMesh creates a triangle mesh representing a box
func createBoxMesh(center, size, rotation core.Vec3, mat material.Material) (*geometry.TriangleMesh, error) {
	halfSize := size.Multiply(0.5)
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, -halfSize.Z)), // 0: left-bottom-back
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, -halfSize.Z)), // 1: right-bottom-back
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, -halfSize.Z)), // 2: right-top-back
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, -halfSize.Z)), // 3: left-top-back
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, +halfSize.Z)), // 4: left-bottom-front
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, +halfSize.Z)), // 5: right-bottom-front
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, +halfSize.Z)), // 6: right-top-front
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, +halfSize.Z)), // 7: left-top-front
	}

	// 2 triangles per face
	faces := []int{
		0, 1, 2, 0, 2, 3, // back (Z-)
		4, 6, 5, 4, 7, 6, // front (Z+)
		0, 3, 7, 0, 7, 4, // left (X-)
		1, 5, 6, 1, 6, 2, // right (X+)
		0, 4, 5, 0, 5, 1, // bottom (Y-)
		3, 2, 6, 3, 6, 7, // top (Y+)
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	})
}

// createPyramidMesh creates a triangle mesh representing a square pyramid
func createPyramidMesh(center core.Vec3, baseSize, height float64, rotation core.Vec3, mat material.Material) (*geometry.TriangleMesh, error) {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfBase, -halfHeight, -halfBase)), // 0: left-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, -halfBase)), // 1: right-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, +halfBase)), // 2: right-front
		center.Add(core.NewVec3(-halfBase, -halfHeight, +halfBase)), // 3: left-front
		center.Add(core.NewVec3(0, +halfHeight, 0)),                 // 4: apex
	}

	faces := []int{
		0, 2, 1, 0, 3, 2, // base
		0, 1, 4, // back
		1, 2, 4, // right
		2, 3, 4, // front
		3, 0, 4, // left
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	})
}

// createIcosahedronMesh creates an icosahedron with per-vertex normals
// pointing away from its center, so it shades like a sphere
func createIcosahedronMesh(center core.Vec3, radius float64, mat material.Material) (*geometry.TriangleMesh, error) {
	phi := math.Phi
	corners := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0),
		core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi),
		core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1),
		core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}

	vertices := make([]core.Vec3, len(corners))
	normals := make([]core.Vec3, len(corners))
	for i, c := range corners {
		normals[i] = c.Normalize()
		vertices[i] = center.Add(normals[i].Multiply(radius))
	}

	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11, // around vertex 0
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9, // around vertex 3
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{
		VertexNormals: normals,
	})
}
