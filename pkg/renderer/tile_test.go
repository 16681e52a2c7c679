package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

func TestTileAddSample(t *testing.T) {
	tile := NewTile(3, image.Rect(10, 20, 14, 22))

	tile.AddSample(10, 20, core.NewVec3(1, 0, 0), 1)
	tile.AddSample(10, 20, core.NewVec3(0, 1, 0), 0.5)
	tile.AddSample(13, 21, core.NewVec3(0, 0, 2), 2)

	if got := tile.Pixel(10, 20); got.Color != core.NewVec3(1, 1, 0) || got.Weight != 1.5 {
		t.Errorf("Unexpected accumulator at top-left: %+v", got)
	}
	if got := tile.Pixel(13, 21); got.Color != core.NewVec3(0, 0, 2) || got.Weight != 2 {
		t.Errorf("Unexpected accumulator at bottom-right: %+v", got)
	}
	if got := tile.Pixel(11, 20); got != (Accumulator{}) {
		t.Errorf("Untouched pixel should be empty, got %+v", got)
	}
}

func TestTileAdopt(t *testing.T) {
	tile := NewTile(0, image.Rect(0, 0, 2, 2))
	tile.Adopt(1)
	tile.AddSample(1, 1, core.NewVec3(1, 1, 1), 1)
	tile.completePass()

	if tile.Adopt(1) {
		t.Error("Adopting the same generation should not clear")
	}
	if tile.Samples() != 1 || tile.Pixel(1, 1).Weight != 1 {
		t.Fatal("Samples lost on same-generation adopt")
	}

	if !tile.Adopt(2) {
		t.Error("Adopting a new generation should clear")
	}
	if tile.Generation() != 2 {
		t.Errorf("Expected generation 2, got %d", tile.Generation())
	}
	if tile.Samples() != 0 || tile.Pixel(1, 1) != (Accumulator{}) {
		t.Error("Tile should be empty after adopting a new generation")
	}
}

func TestTileSamplerDeterministic(t *testing.T) {
	a := NewTile(5, image.Rect(0, 0, 1, 1))
	b := NewTile(5, image.Rect(8, 8, 9, 9))
	c := NewTile(6, image.Rect(0, 0, 1, 1))

	va := a.Sampler().Get1D()
	if vb := b.Sampler().Get1D(); va != vb {
		t.Error("Tiles with the same id should draw the same sequence")
	}
	if vc := c.Sampler().Get1D(); va == vc {
		t.Error("Tiles with different ids should draw different sequences")
	}
}

func TestTileAdoptReseedsSampler(t *testing.T) {
	tile := NewTile(5, image.Rect(0, 0, 1, 1))
	tile.Adopt(1)
	first := tile.Sampler().Get1D()

	// Draw more, then restart the same generation through another one
	tile.Sampler().Get1D()
	tile.Adopt(2)
	second := tile.Sampler().Get1D()
	tile.Adopt(1)

	if got := tile.Sampler().Get1D(); got != first {
		t.Errorf("Generation 1 should replay its sequence: want %g, got %g", first, got)
	}
	if second == first {
		t.Error("Different generations should draw different sequences")
	}

	fresh := core.NewSeededSampler(core.TileSeed(5, 2))
	if got := fresh.Get1D(); got != second {
		t.Errorf("Adopted sampler should match TileSeed(5, 2): want %g, got %g", got, second)
	}
}
