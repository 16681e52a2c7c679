package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

func TestRect_Hit(t *testing.T) {
	tests := []struct {
		name           string
		rect           *Rect
		ray            core.Ray
		shouldHit      bool
		expectedT      float64
		expectedNormal core.Vec3
	}{
		{
			name:           "xy plane from front",
			rect:           NewRect(PlaneXY, -1, 1, -1, 1, -2, nil),
			ray:            core.NewRay(core.NewVec3(0.5, 0.5, 0), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      2,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "xz plane from below",
			rect:           NewRect(PlaneXZ, 0, 2, 0, 2, 3, nil),
			ray:            core.NewRay(core.NewVec3(1, 0, 1), core.NewVec3(0, 1, 0)),
			shouldHit:      true,
			expectedT:      3,
			expectedNormal: core.NewVec3(0, -1, 0),
		},
		{
			name:           "yz plane oblique",
			rect:           NewRect(PlaneYZ, -1, 1, -1, 1, 4, nil),
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(2, 0.25, 0.25)),
			shouldHit:      true,
			expectedT:      2,
			expectedNormal: core.NewVec3(-1, 0, 0),
		},
		{
			name:      "outside bounds",
			rect:      NewRect(PlaneXY, -1, 1, -1, 1, -2, nil),
			ray:       core.NewRay(core.NewVec3(1.5, 0, 0), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:      "parallel to plane",
			rect:      NewRect(PlaneXY, -1, 1, -1, 1, 0, nil),
			ray:       core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "behind the origin",
			rect:      NewRect(PlaneXY, -1, 1, -1, 1, 2, nil),
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:           "flipped normal seen from the flipped side",
			rect:           NewFlippedRect(PlaneXY, -1, 1, -1, 1, -2, nil),
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      2,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := tt.rect.Hit(tt.ray, 0.001, 100)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%t, got %t", tt.shouldHit, isHit)
			}
			if !isHit {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.Normal != tt.expectedNormal {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestRect_FrontFace(t *testing.T) {
	rect := NewRect(PlaneXY, -1, 1, -1, 1, 0, nil)
	flipped := NewFlippedRect(PlaneXY, -1, 1, -1, 1, 0, nil)
	fromAbove := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	hit, _ := rect.Hit(fromAbove, 0.001, 10)
	if !hit.FrontFace {
		t.Error("Ray against +z normal should hit the front face")
	}
	hit, _ = flipped.Hit(fromAbove, 0.001, 10)
	if hit.FrontFace {
		t.Error("Flipped rect should be hit on its back face from above")
	}
}

func TestRect_BoundingBox(t *testing.T) {
	tests := []struct {
		name string
		rect *Rect
		flat int
	}{
		{"xy", NewRect(PlaneXY, 0, 1, 2, 3, 5, nil), 2},
		{"xz", NewRect(PlaneXZ, 0, 1, 2, 3, 5, nil), 1},
		{"yz", NewRect(PlaneYZ, 0, 1, 2, 3, 5, nil), 0},
		{"swapped bounds", NewRect(PlaneXY, 1, 0, 3, 2, 5, nil), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, ok := tt.rect.BoundingBox()
			if !ok {
				t.Fatal("Rect should be bounded")
			}
			size := box.Size()
			for axis := 0; axis < 3; axis++ {
				extent := size.Axis(axis)
				if axis == tt.flat {
					if math.Abs(extent-core.AABBPadding) > 1e-12 {
						t.Errorf("Flat axis %d: expected padding %g, got %g", axis, core.AABBPadding, extent)
					}
					if math.Abs(box.Centroid().Axis(axis)-5) > 1e-12 {
						t.Errorf("Flat axis %d should be centered on k", axis)
					}
				} else if extent != 1 {
					t.Errorf("Axis %d: expected extent 1, got %g", axis, extent)
				}
			}
		})
	}
}

func TestRect_PointSnappedToPlane(t *testing.T) {
	rect := NewRect(PlaneXZ, -10, 10, -10, 10, 0.3, nil)
	ray := core.NewRay(core.NewVec3(0.1, 7.9, -0.2), core.NewVec3(0.37, -1, 0.11).Normalize())

	hit, ok := rect.Hit(ray, 0.001, 100)
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.Point.Y != 0.3 {
		t.Errorf("Expected point exactly on the plane, got y=%v", hit.Point.Y)
	}

	spawned := hit.SpawnRay(core.NewVec3(0, 1, 0))
	if spawned.Origin.Y <= 0.3 {
		t.Errorf("Spawned origin %v should be lifted off the plane", spawned.Origin)
	}
}
