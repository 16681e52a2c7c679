package scene

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/material"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	lms := core.NewVec3(
		l+0.3963377774*a+0.2158037573*b,
		l-0.1055613458*a-0.0638541728*b,
		l-0.0894841775*a-1.2914855480*b,
	)
	lms = lms.MultiplyVec(lms).MultiplyVec(lms)

	// LMS to linear RGB
	rgb := core.NewVec3(
		+4.0767416621*lms.X-3.3077115913*lms.Y+0.2309699292*lms.Z,
		-1.2684380046*lms.X+2.6097574011*lms.Y-0.3413193965*lms.Z,
		-0.0041960863*lms.X-0.7034186147*lms.Y+1.7076147010*lms.Z,
	)
	return rgb.Clamp(0, 1)
}

// SphereGridSize is the number of spheres along each side of the grid
const SphereGridSize = 20

// NewSphereGridScene creates a scene with a grid of metal spheres whose color
// varies by hue along x and chroma along z. It stresses the BVH with many
// small primitives.
func NewSphereGridScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(4.5, 6, 18),    // Position camera farther back and slightly lower
		LookAt:        core.NewVec3(4.5, 0.8, 4.5), // Look at center of grid, slightly lower
		Up:            core.NewVec3(0, 1, 0),       // Standard up direction
		Width:         800,
		AspectRatio:   16.0 / 9.0, // 16:9 aspect ratio
		VFov:          40.0,       // Slightly narrower field of view for better framing
		Aperture:      0.02,       // Small depth of field for some focus variation
		FocusDistance: 0.0,        // Auto-calculate focus distance
	}

	s := &Scene{
		Name:            "spheregrid",
		CameraConfig:    cameraConfig(defaultCameraConfig, cameraOverrides),
		Background:      integrator.DefaultBackground(),
		SamplesPerPixel: 100,
		MaxDepth:        40,
	}

	// Sun-like light, high and to the side
	s.AddSphereLight(
		core.NewVec3(20, 25, 20),       // position
		8,                              // radius
		core.NewVec3(12.0, 11.5, 10.0), // warm white emission
	)

	s.Shapes = append(s.Shapes, NewGroundRect(core.NewVec3(4.5, 0, 4.5), 1000,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	// Fit the grid into a 9x9 area around the look-at point
	targetArea := 9.0
	spacing := targetArea / float64(SphereGridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma := 0.05 // Near gray
	maxChroma := 0.25 // Vivid

	for i := 0; i < SphereGridSize; i++ {
		for j := 0; j < SphereGridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z) // Resting on the ground

			hue := (float64(i) / float64(SphereGridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(SphereGridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			roughness := 0.05 + 0.1*float64((i+j)%3)/2.0
			metal := material.NewMetal(oklchToRGB(lightness, chroma, hue), roughness)

			s.Shapes = append(s.Shapes, geometry.NewSphere(position, sphereRadius, metal))
		}
	}

	return s
}
