package atlas_test

import (
	"math"
	"testing"

	"github.com/go-theft-auto/wgui/atlas"
)

func TestHarfBuzzMatchesMetricsWithoutKerning(t *testing.T) {
	a := buildTestAtlas(t, "Hl ")
	hb, err := atlas.NewHarfBuzzShaper(a)
	if err != nil {
		t.Fatal(err)
	}

	got, err := hb.Shape("Hl H", 24)
	if err != nil {
		t.Fatal(err)
	}
	want, err := a.Shape("Hl H", 24)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Glyphs) != len(want.Glyphs) {
		t.Fatalf("got %d glyphs, want %d", len(got.Glyphs), len(want.Glyphs))
	}
	if math.Abs(float64(got.Width-want.Width)) > 1 {
		t.Errorf("width %v, metric width %v", got.Width, want.Width)
	}
	for i := range want.Glyphs {
		if got.Glyphs[i].UV != want.Glyphs[i].UV {
			t.Errorf("glyph %d uses a different atlas region", i)
		}
		if got.Glyphs[i].Size != want.Glyphs[i].Size {
			t.Errorf("glyph %d size %v, want %v", i, got.Glyphs[i].Size, want.Glyphs[i].Size)
		}
	}
	if hb.Atlas() != a.Atlas() {
		t.Error("expected the shaper to expose the atlas image")
	}
}

func TestHarfBuzzFallsBackForGlyphsOutsideAtlas(t *testing.T) {
	a := buildTestAtlas(t, "H?")
	hb, err := atlas.NewHarfBuzzShaper(a)
	if err != nil {
		t.Fatal(err)
	}
	shape, err := hb.Shape("HZ", 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(shape.Glyphs) != 2 {
		t.Errorf("got %d glyphs, want H and the replacement", len(shape.Glyphs))
	}
}

func TestHarfBuzzEmptyText(t *testing.T) {
	a := buildTestAtlas(t, "H")
	hb, err := atlas.NewHarfBuzzShaper(a)
	if err != nil {
		t.Fatal(err)
	}
	shape, err := hb.Shape("", 16)
	if err != nil || len(shape.Glyphs) != 0 || shape.Width != 0 {
		t.Errorf("Shape(\"\") = %+v, %v", shape, err)
	}
}
