package core

import (
	"math"
	"testing"
)

func TestVec3_MaxDimensionAndPermute(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected int
	}{
		{"x dominant", NewVec3(3, 1, 2), 0},
		{"y dominant", NewVec3(1, 3, 2), 1},
		{"z dominant", NewVec3(1, 2, 3), 2},
		{"ties prefer z", NewVec3(1, 1, 1), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.MaxDimension(); got != tt.expected {
				t.Errorf("Expected axis %d, got %d", tt.expected, got)
			}
		})
	}

	v := NewVec3(1, 2, 3)
	if got := v.Permute(1, 2, 0); got != NewVec3(2, 3, 1) {
		t.Errorf("Expected permuted vector (2,3,1), got %v", got)
	}
}

func TestVec3_Basics(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	if got := a.Add(b); got != NewVec3(5, -3, 9) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Subtract(b); got != NewVec3(-3, 7, -3) {
		t.Errorf("Subtract: got %v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot: got %f", got)
	}
	if got := a.Cross(b); got != NewVec3(27, 6, -13) {
		t.Errorf("Cross: got %v", got)
	}
	if got := b.Abs(); got != NewVec3(4, 5, 6) {
		t.Errorf("Abs: got %v", got)
	}
	if got := a.Min(b); got != NewVec3(1, -5, 3) {
		t.Errorf("Min: got %v", got)
	}
	if got := a.Max(b); got != NewVec3(4, 2, 6) {
		t.Errorf("Max: got %v", got)
	}
	if got := NewVec3(3, 0, 4).Normalize().Length(); math.Abs(got-1) > 1e-12 {
		t.Errorf("Normalize: expected unit length, got %f", got)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize of zero vector should stay zero, got %v", got)
	}
}

func TestGammaAndNextFloat(t *testing.T) {
	if Gamma(0) != 0 {
		t.Errorf("Gamma(0) should be 0, got %g", Gamma(0))
	}
	if !(Gamma(3) < Gamma(5) && Gamma(5) < Gamma(7)) {
		t.Error("Gamma should grow with the number of operations")
	}
	if NextFloatUp(1.0) <= 1.0 {
		t.Error("NextFloatUp(1) should be greater than 1")
	}
	if NextFloatDown(1.0) >= 1.0 {
		t.Error("NextFloatDown(1) should be less than 1")
	}
	if NextFloatUp(math.Copysign(0, -1)) <= 0 {
		t.Error("NextFloatUp(-0) should be positive")
	}
}
