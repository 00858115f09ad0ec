package software_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/wgui"
	"github.com/go-theft-auto/wgui/backend/software"
)

func record(c wgui.Vec4, pos, size wgui.Vec2, usage, radius float32, viewport wgui.Vec2, uv wgui.Vec4) []float32 {
	return []float32{
		c.X, c.Y, c.Z, c.W,
		pos.X, pos.Y,
		usage, radius,
		size.X, size.Y,
		viewport.X, viewport.Y,
		uv.X, uv.Y, uv.Z, uv.W,
	}
}

func newRenderer(t *testing.T, w, h int) *software.Renderer {
	t.Helper()
	r, err := software.New(w, h, software.WithClearColor(wgui.Black))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func assertPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	if got := img.RGBAAt(x, y); got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

var (
	black = color.RGBA{A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

func TestDrawSolidRect(t *testing.T) {
	r := newRenderer(t, 10, 10)
	b, err := wgui.NewBatch(r, 8, wgui.OverflowFail)
	if err != nil {
		t.Fatal(err)
	}
	b.Resize(10, 10)
	if err := b.Rect(wgui.RGBA(1, 0, 0, 1), wgui.V2(2, 2), wgui.V2(4, 4), 0); err != nil {
		t.Fatal(err)
	}
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}

	img := r.Image()
	assertPixel(t, img, 3, 3, red)
	assertPixel(t, img, 2, 5, red)
	assertPixel(t, img, 0, 0, black)
	assertPixel(t, img, 6, 6, black)
	if r.Draws() != 1 || r.Instances() != 1 {
		t.Errorf("Draws() = %d, Instances() = %d", r.Draws(), r.Instances())
	}
}

func TestDrawClearsBetweenFrames(t *testing.T) {
	r := newRenderer(t, 4, 4)
	data := record(wgui.RGBA(1, 0, 0, 1), wgui.V2(0, 0), wgui.V2(4, 4), wgui.UsageRect, 0, wgui.V2(4, 4), wgui.FullUV)
	if err := r.Draw(data, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.Draw(data, 0); err != nil {
		t.Fatal(err)
	}
	assertPixel(t, r.Image(), 1, 1, black)
}

func TestDrawBlendsAlpha(t *testing.T) {
	r := newRenderer(t, 2, 2)
	data := record(wgui.RGBA(1, 1, 1, 0.5), wgui.V2(0, 0), wgui.V2(2, 2), wgui.UsageRect, 0, wgui.V2(2, 2), wgui.FullUV)
	if err := r.Draw(data, 1); err != nil {
		t.Fatal(err)
	}
	got := r.Image().RGBAAt(0, 0)
	if got.R != 128 || got.G != 128 || got.B != 128 {
		t.Errorf("blended pixel = %v, want grey 128", got)
	}
}

func TestDrawRoundedCorners(t *testing.T) {
	r := newRenderer(t, 20, 20)
	data := record(wgui.RGBA(1, 0, 0, 1), wgui.V2(0, 0), wgui.V2(20, 20), wgui.UsageRect, 8, wgui.V2(20, 20), wgui.FullUV)
	if err := r.Draw(data, 1); err != nil {
		t.Fatal(err)
	}
	img := r.Image()
	assertPixel(t, img, 0, 0, black)
	assertPixel(t, img, 19, 19, black)
	assertPixel(t, img, 10, 10, red)
	assertPixel(t, img, 10, 0, red)
}

func TestDrawScalesViewportToTarget(t *testing.T) {
	r := newRenderer(t, 20, 20)
	data := record(wgui.RGBA(1, 0, 0, 1), wgui.V2(0, 0), wgui.V2(5, 5), wgui.UsageRect, 0, wgui.V2(10, 10), wgui.FullUV)
	if err := r.Draw(data, 1); err != nil {
		t.Fatal(err)
	}
	assertPixel(t, r.Image(), 9, 9, red)
	assertPixel(t, r.Image(), 10, 10, black)
}

func TestDrawGlyph(t *testing.T) {
	r := newRenderer(t, 2, 1)
	atlas := image.NewRGBA(image.Rect(0, 0, 2, 1))
	atlas.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	if err := r.UploadFontAtlas(atlas); err != nil {
		t.Fatal(err)
	}
	data := record(wgui.RGBA(1, 0, 0, 1), wgui.V2(0, 0), wgui.V2(2, 1), wgui.UsageGlyph, 24, wgui.V2(2, 1), wgui.FullUV)
	if err := r.Draw(data, 1); err != nil {
		t.Fatal(err)
	}
	assertPixel(t, r.Image(), 0, 0, red)
	assertPixel(t, r.Image(), 1, 0, black)
}

func TestDrawGlyphWithoutAtlas(t *testing.T) {
	r := newRenderer(t, 2, 2)
	data := record(wgui.White, wgui.V2(0, 0), wgui.V2(1, 1), wgui.UsageGlyph, 24, wgui.V2(2, 2), wgui.FullUV)
	if err := r.Draw(data, 1); !errors.Is(err, wgui.ErrFontNotReady) {
		t.Errorf("Draw() = %v, want ErrFontNotReady", err)
	}
}

func TestDrawTexture(t *testing.T) {
	r := newRenderer(t, 2, 2)
	layer := image.NewRGBA(image.Rect(0, 0, 1, 1))
	layer.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	if err := r.UploadTexture(3, layer); err != nil {
		t.Fatal(err)
	}
	data := append(
		record(wgui.White, wgui.V2(0, 0), wgui.V2(1, 2), 3, 0, wgui.V2(2, 2), wgui.FullUV),
		record(wgui.White, wgui.V2(1, 0), wgui.V2(1, 2), 4, 0, wgui.V2(2, 2), wgui.FullUV)...,
	)
	if err := r.Draw(data, 2); err != nil {
		t.Fatal(err)
	}
	assertPixel(t, r.Image(), 0, 1, color.RGBA{G: 255, A: 255})
	// An empty layer draws the placeholder color.
	assertPixel(t, r.Image(), 1, 1, color.RGBA{R: 255, B: 255, A: 255})
}

func TestUploadTextureOutOfRange(t *testing.T) {
	r, err := software.New(2, 2, software.WithTextureLayers(2))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.UploadTexture(2, image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected an error for layer 2 of 2")
	}
}

func TestDrawCountExceedsBuffer(t *testing.T) {
	r := newRenderer(t, 2, 2)
	if err := r.Draw(make([]float32, wgui.InstanceStride), 2); err == nil {
		t.Error("expected an error")
	}
}

func TestNewRejectsEmptyTarget(t *testing.T) {
	if _, err := software.New(0, 10); !errors.Is(err, wgui.ErrConfig) {
		t.Errorf("New(0, 10) = %v, want ErrConfig", err)
	}
}

func TestResize(t *testing.T) {
	r := newRenderer(t, 2, 2)
	r.Resize(5, 3)
	if got := r.Image().Bounds().Size(); got != image.Pt(5, 3) {
		t.Errorf("size after resize = %v", got)
	}
}

func TestGlyphCoverageSharpensWithSize(t *testing.T) {
	small := software.GlyphCoverage(0.7, 0)
	large := software.GlyphCoverage(0.7, 90)
	if large <= small {
		t.Errorf("coverage at 90px %v not above 0px %v", large, small)
	}
	if c := software.GlyphCoverage(1, 24); c != 1 {
		t.Errorf("full distance coverage = %v", c)
	}
	if c := software.GlyphCoverage(0, 24); c != 0 {
		t.Errorf("zero distance coverage = %v", c)
	}
}

func TestRoundRect(t *testing.T) {
	half := mgl32.Vec2{10, 10}
	if d := software.RoundRect(mgl32.Vec2{0, 0}, half, 4); d >= 0 {
		t.Errorf("center distance %v, want negative", d)
	}
	if d := software.RoundRect(mgl32.Vec2{12, 0}, half, 4); d < 1.99 || d > 2.01 {
		t.Errorf("edge distance %v, want 2", d)
	}
	if c := software.RectCoverage(mgl32.Vec2{0, 0}, half, 4); c != 1 {
		t.Errorf("center coverage %v", c)
	}
}

func TestDrawGlyphUsesAtlasAlpha(t *testing.T) {
	r := newRenderer(t, 3, 1)
	atlas := image.NewRGBA(image.Rect(0, 0, 3, 1))
	// Same color, different distance values in the alpha channel.
	atlas.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	atlas.SetRGBA(1, 0, color.RGBA{255, 255, 255, 153})
	atlas.SetRGBA(2, 0, color.RGBA{255, 255, 255, 0})
	if err := r.UploadFontAtlas(atlas); err != nil {
		t.Fatal(err)
	}
	data := record(wgui.White, wgui.V2(0, 0), wgui.V2(3, 1), wgui.UsageGlyph, 45, wgui.V2(3, 1), wgui.FullUV)
	if err := r.Draw(data, 1); err != nil {
		t.Fatal(err)
	}
	img := r.Image()
	if img.RGBAAt(0, 0).R != 255 || img.RGBAAt(2, 0).R != 0 {
		t.Errorf("inside/outside = %v/%v", img.RGBAAt(0, 0), img.RGBAAt(2, 0))
	}
	// Distance 0.6 sits on the edge: half coverage.
	if mid := img.RGBAAt(1, 0).R; mid < 120 || mid > 136 {
		t.Errorf("edge pixel = %d, want about 128", mid)
	}
}

func TestClearHex(t *testing.T) {
	r, err := software.New(2, 2, software.WithClearHex("#ff0000"))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Draw(nil, 0); err != nil {
		t.Fatal(err)
	}
	assertPixel(t, r.Image(), 1, 1, red)

	if _, err := software.New(2, 2, software.WithClearHex("red")); !errors.Is(err, wgui.ErrConfig) {
		t.Errorf("New with malformed hex = %v, want ErrConfig", err)
	}
}
