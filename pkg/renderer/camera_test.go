package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

func testCameraConfig(width int) CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       width,
		AspectRatio: 1.0,
		VFov:        90.0,
	}
}

func TestCameraCenterRay(t *testing.T) {
	camera := NewCamera(testCameraConfig(4))

	// The corner shared by the four middle pixels is the view center
	ray, weight := camera.RayForSample(2, 2, core.NewVec2(0.5, 0.5), core.NewVec2(0, 0))
	if weight != 1.0 {
		t.Errorf("Expected weight 1, got %f", weight)
	}
	if ray.Origin != (core.Vec3{}) {
		t.Errorf("Pinhole camera should shoot from its center, got %v", ray.Origin)
	}

	dir := ray.Direction.Normalize()
	expected := core.NewVec3(0, 0, -1)
	if dir.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected direction %v, got %v", expected, dir)
	}
}

func TestCameraImageOrientation(t *testing.T) {
	camera := NewCamera(testCameraConfig(10))
	center := core.NewVec2(0.5, 0.5)

	topLeft, _ := camera.RayForSample(0, 0, center, center)
	bottomRight, _ := camera.RayForSample(9, 9, center, center)

	if topLeft.Direction.Y <= 0 || topLeft.Direction.X >= 0 {
		t.Errorf("Row 0 column 0 should look up and left, got %v", topLeft.Direction)
	}
	if bottomRight.Direction.Y >= 0 || bottomRight.Direction.X <= 0 {
		t.Errorf("Last row and column should look down and right, got %v", bottomRight.Direction)
	}

	// 90 degree field of view spans [-1,1] on the focus plane at distance 1
	if math.Abs(topLeft.Direction.Y-0.9) > 1e-9 {
		t.Errorf("Expected top row center at y=0.9, got %f", topLeft.Direction.Y)
	}
}

func TestCameraDepthOfField(t *testing.T) {
	config := testCameraConfig(8)
	config.Aperture = 0.5
	config.FocusDistance = 2
	camera := NewCamera(config)

	film := core.NewVec2(0.5, 0.5)
	a, _ := camera.RayForSample(4, 4, core.NewVec2(0.1, 0.2), film)
	b, _ := camera.RayForSample(4, 4, core.NewVec2(0.9, 0.7), film)

	if a.Origin == b.Origin {
		t.Fatal("Different lens samples should move the ray origin")
	}
	if a.Origin.Length() > config.Aperture/2+1e-9 {
		t.Errorf("Origin %v lies outside the lens", a.Origin)
	}

	// Both rays pass through the same point on the focus plane
	pa := a.At(1)
	pb := b.At(1)
	if pa.Subtract(pb).Length() > 1e-9 {
		t.Errorf("Rays should converge on the focus plane: %v vs %v", pa, pb)
	}
}

func TestCameraConfigHeight(t *testing.T) {
	tests := []struct {
		name     string
		config   CameraConfig
		expected int
	}{
		{"16:9", CameraConfig{Width: 400, AspectRatio: 16.0 / 9.0}, 225},
		{"square", CameraConfig{Width: 64, AspectRatio: 1}, 64},
		{"missing aspect", CameraConfig{Width: 50}, 50},
		{"tiny", CameraConfig{Width: 1, AspectRatio: 4}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.Height(); got != tt.expected {
				t.Errorf("Expected height %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := testCameraConfig(100)
	merged := MergeCameraConfig(base, CameraConfig{VFov: 30, Center: core.NewVec3(1, 2, 3)})

	if merged.VFov != 30 || merged.Center != core.NewVec3(1, 2, 3) {
		t.Errorf("Override fields not applied: %+v", merged)
	}
	if merged.Width != 100 || merged.LookAt != base.LookAt {
		t.Errorf("Zero override fields should keep base values: %+v", merged)
	}
}
