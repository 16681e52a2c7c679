package renderer

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Camera maps an image-space sample to a primary ray.
// x, y are integer pixel coordinates with y=0 at the top row; film is the
// sub-pixel offset in [0,1)² and lens a sample for depth of field. The returned
// weight scales the sample's contribution to its pixel.
type Camera interface {
	RayForSample(x, y int, lens, film core.Vec2) (core.Ray, float64)
}

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually 0,1,0)
	Width         int       // Image width in pixels
	AspectRatio   float64   // Aspect ratio (width/height)
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens aperture (0 = pinhole)
	FocusDistance float64   // Distance to focus plane (0 = auto-calculate from look-at)
}

// Height returns the image height implied by Width and AspectRatio
func (c CameraConfig) Height() int {
	if c.AspectRatio <= 0 {
		return c.Width
	}
	return max(1, int(float64(c.Width)/c.AspectRatio))
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Center.IsZero() {
		result.Center = override.Center
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// PerspectiveCamera is a thin-lens camera; with zero aperture it is a pinhole camera
type PerspectiveCamera struct {
	config       CameraConfig
	width        int
	height       int
	center       core.Vec3
	pixel00      core.Vec3 // Location of the top-left pixel corner
	pixelDeltaU  core.Vec3 // Offset to the pixel to the right
	pixelDeltaV  core.Vec3 // Offset to the pixel below
	u, v, w      core.Vec3 // Camera frame basis vectors
	lensRadius   float64
	defocusDiskU core.Vec3
	defocusDiskV core.Vec3
}

// NewCamera creates a new camera with the given configuration
func NewCamera(config CameraConfig) *PerspectiveCamera {
	width := max(1, config.Width)
	height := config.Height()

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
		if focusDistance == 0 {
			focusDistance = 1
		}
	}

	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * focusDistance
	viewportWidth := viewportHeight * float64(width) / float64(height)

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Multiply(-viewportHeight)
	pixelDeltaU := viewportU.Multiply(1.0 / float64(width))
	pixelDeltaV := viewportV.Multiply(1.0 / float64(height))

	viewportUpperLeft := config.Center.
		Subtract(w.Multiply(focusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))

	lensRadius := config.Aperture / 2

	return &PerspectiveCamera{
		config:       config,
		width:        width,
		height:       height,
		center:       config.Center,
		pixel00:      viewportUpperLeft,
		pixelDeltaU:  pixelDeltaU,
		pixelDeltaV:  pixelDeltaV,
		u:            u,
		v:            v,
		w:            w,
		lensRadius:   lensRadius,
		defocusDiskU: u.Multiply(lensRadius),
		defocusDiskV: v.Multiply(lensRadius),
	}
}

// Config returns the configuration the camera was built from
func (c *PerspectiveCamera) Config() CameraConfig {
	return c.config
}

// RayForSample implements the Camera interface
func (c *PerspectiveCamera) RayForSample(x, y int, lens, film core.Vec2) (core.Ray, float64) {
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(x) + film.X)).
		Add(c.pixelDeltaV.Multiply(float64(y) + film.Y))

	origin := c.center
	if c.lensRadius > 0 {
		p := core.SamplePointInUnitDisk(lens)
		origin = c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
	}

	return core.NewRay(origin, pixelSample.Subtract(origin)), 1.0
}
