package scene

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/material"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// cornellBoxSize is the edge of the standard 555-unit Cornell box
const cornellBoxSize = 555.0

// NewCornellScene creates a classic Cornell box from axis-aligned rectangles
// with an area light in the ceiling
func NewCornellScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:        core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:            core.NewVec3(0, 1, 0),        // Standard up direction
		Width:         400,
		AspectRatio:   1.0,  // Square aspect ratio for Cornell box
		VFov:          40.0, // Field of view
		Aperture:      0.0,  // No depth of field for Cornell box
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}

	// Black background: the light is the only source
	black := integrator.Background{Top: core.Vec3{}, Bottom: core.Vec3{}}

	s := &Scene{
		Name:            "cornell",
		CameraConfig:    cameraConfig(defaultCameraConfig, cameraOverrides),
		Background:      black,
		SamplesPerPixel: 150,
		MaxDepth:        40,
	}

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	size := cornellBoxSize
	s.Shapes = append(s.Shapes,
		geometry.NewRect(geometry.PlaneXZ, 0, size, 0, size, 0, white),           // floor
		geometry.NewFlippedRect(geometry.PlaneXZ, 0, size, 0, size, size, white), // ceiling
		geometry.NewFlippedRect(geometry.PlaneXY, 0, size, 0, size, size, white), // back wall
		geometry.NewRect(geometry.PlaneYZ, 0, size, 0, size, 0, red),             // left wall
		geometry.NewFlippedRect(geometry.PlaneYZ, 0, size, 0, size, size, green), // right wall
	)

	// Ceiling light facing down, slightly below the ceiling
	lightSize := 130.0
	lightOffset := (size - lightSize) / 2.0
	s.AddRectLight(geometry.PlaneXZ,
		lightOffset, lightOffset+lightSize,
		lightOffset, lightOffset+lightSize,
		size-1, true,
		core.NewVec3(15.0, 15.0, 15.0))

	// Left sphere (smaller, metallic)
	leftSphere := geometry.NewSphere(
		core.NewVec3(185, 82.5, 169), // position
		82.5,                         // radius
		material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0), // shiny metal
	)

	// Right sphere (larger, glass)
	rightSphere := geometry.NewSphere(
		core.NewVec3(370, 90, 351),  // position
		90,                          // radius
		material.NewDielectric(1.5), // glass
	)

	s.Shapes = append(s.Shapes, leftSphere, rightSphere)

	return s
}
