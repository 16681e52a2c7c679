package scene

import (
	"fmt"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/material"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name            string
	Shapes          []geometry.Shape // Objects in the scene
	CameraConfig    renderer.CameraConfig
	Background      integrator.Background // Radiance of escaping rays
	SamplesPerPixel int                   // Suggested sample budget
	MaxDepth        int                   // Suggested maximum ray depth
	BVH             *geometry.BVH         // Acceleration structure built by Preprocess
}

// NewGroundRect creates a large square in the XZ plane centered at center,
// facing up. It replaces an infinite ground plane with a bounded shape.
func NewGroundRect(center core.Vec3, size float64, material material.Material) *geometry.Rect {
	half := size / 2
	return geometry.NewRect(geometry.PlaneXZ,
		center.X-half, center.X+half,
		center.Z-half, center.Z+half,
		center.Y, material)
}

// Preprocess builds the BVH over the scene's shapes.
// Shapes are reordered in place.
func (s *Scene) Preprocess() error {
	bvh, err := geometry.NewBVH(s.Shapes)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	s.BVH = bvh
	return nil
}

// PrimitiveCount returns the number of top-level shapes in the scene
func (s *Scene) PrimitiveCount() int {
	return len(s.Shapes)
}

// Camera creates the scene's camera
func (s *Scene) Camera() *renderer.PerspectiveCamera {
	return renderer.NewCamera(s.CameraConfig)
}

// Settings returns render settings for the preprocessed scene, building the
// BVH first if needed
func (s *Scene) Settings(shader integrator.Integrator) (renderer.RenderSettings, error) {
	if s.BVH == nil {
		if err := s.Preprocess(); err != nil {
			return renderer.RenderSettings{}, err
		}
	}
	return renderer.RenderSettings{
		Scene:           s.BVH,
		Camera:          s.Camera(),
		Integrator:      shader,
		SamplesPerPixel: s.SamplesPerPixel,
		MaxDepth:        s.MaxDepth,
	}, nil
}

// AddSphereLight adds an emissive sphere to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	s.Shapes = append(s.Shapes, geometry.NewSphere(center, radius, material.NewEmissive(emission)))
}

// AddRectLight adds an emissive rectangle to the scene. The light faces the
// negative constant axis when flip is set.
func (s *Scene) AddRectLight(plane geometry.RectPlane, a0, a1, b0, b1, k float64, flip bool, emission core.Vec3) {
	emissive := material.NewEmissive(emission)
	if flip {
		s.Shapes = append(s.Shapes, geometry.NewFlippedRect(plane, a0, a1, b0, b1, k, emissive))
		return
	}
	s.Shapes = append(s.Shapes, geometry.NewRect(plane, a0, a1, b0, b1, k, emissive))
}

// AddMesh adds every triangle of mesh to the scene
func (s *Scene) AddMesh(mesh *geometry.TriangleMesh) {
	s.Shapes = append(s.Shapes, mesh.Triangles()...)
}

// cameraConfig applies the first override, if any, to base
func cameraConfig(base renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(base, overrides[0])
	}
	return base
}
