package core

import (
	"fmt"
	"math"
	"testing"
)

func TestSampleCosineHemisphere(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 1, 1).Normalize(),
	}

	sampler := NewSeededSampler(42)
	for _, normal := range normals {
		for i := 0; i < 200; i++ {
			dir := SampleCosineHemisphere(normal, sampler.Get2D())

			if math.Abs(dir.Length()-1.0) > 1e-9 {
				t.Fatalf("Expected unit direction, got length %f", dir.Length())
			}
			if dir.Dot(normal) < -1e-9 {
				t.Fatalf("Direction %v is below the hemisphere of %v", dir, normal)
			}
		}
	}
}

func TestSampleOnUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(7)
	for i := 0; i < 200; i++ {
		dir := SampleOnUnitSphere(sampler.Get2D())
		if math.Abs(dir.Length()-1.0) > 1e-9 {
			t.Fatalf("Expected unit direction, got length %f", dir.Length())
		}
	}
}

func TestSamplePointInUnitDisk(t *testing.T) {
	tests := []struct {
		name   string
		sample Vec2
	}{
		{"center", NewVec2(0.5, 0.5)},
		{"corner", NewVec2(0, 0)},
		{"edge", NewVec2(1, 0.5)},
		{"arbitrary", NewVec2(0.3, 0.9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SamplePointInUnitDisk(tt.sample)
			if p.Z != 0 {
				t.Errorf("Expected point in z=0 plane, got %v", p)
			}
			if p.Length() > 1.0+1e-9 {
				t.Errorf("Point %v lies outside unit disk", p)
			}
		})
	}
}

func TestSamplePointInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(3)
	for i := 0; i < 200; i++ {
		p := SamplePointInUnitSphere(sampler.Get3D())
		if p.Length() > 1.0+1e-9 {
			t.Fatalf("Point %v lies outside unit sphere", p)
		}
	}
}

func TestSeededSamplerDeterministic(t *testing.T) {
	a := NewSeededSampler(99)
	b := NewSeededSampler(99)
	for i := 0; i < 10; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with the same seed should produce the same sequence")
		}
	}
}

func TestTileSeed(t *testing.T) {
	seen := make(map[int64]string)
	for id := 0; id < 32; id++ {
		for generation := uint64(0); generation < 8; generation++ {
			seed := TileSeed(id, generation)
			if seed < 0 {
				t.Fatalf("TileSeed(%d, %d) is negative", id, generation)
			}
			key := fmt.Sprintf("(%d, %d)", id, generation)
			if other, ok := seen[seed]; ok {
				t.Fatalf("TileSeed%s collides with TileSeed%s", key, other)
			}
			seen[seed] = key
		}
	}
}

func TestRandomSamplerReseed(t *testing.T) {
	sampler := NewSeededSampler(11)
	first := sampler.Get2D()
	sampler.Get3D()

	sampler.Reseed(11)
	if got := sampler.Get2D(); got != first {
		t.Errorf("Reseed should restart the sequence: want %v, got %v", first, got)
	}
}

func TestOrthonormalBasis(t *testing.T) {
	for _, n := range []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0),
		NewVec3(0, -1, 0),
		NewVec3(-2, 3, 1).Normalize(),
	} {
		tangent, bitangent := orthonormalBasis(n)
		for name, dot := range map[string]float64{
			"tangent.n":         tangent.Dot(n),
			"bitangent.n":       bitangent.Dot(n),
			"tangent.bitangent": tangent.Dot(bitangent),
		} {
			if math.Abs(dot) > 1e-12 {
				t.Errorf("n=%v: %s = %g, want 0", n, name, dot)
			}
		}
		if math.Abs(tangent.Length()-1) > 1e-12 || math.Abs(bitangent.Length()-1) > 1e-12 {
			t.Errorf("n=%v: basis vectors should be unit length", n)
		}
	}
}
