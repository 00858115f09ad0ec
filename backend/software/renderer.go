// Package software is a CPU implementation of the wgui rectangle and glyph
// pipeline. It shades every pixel center covered by an instance with the same
// rules as the GPU shaders and blends into an *image.RGBA. It is used for
// tests and screenshots; it is far too slow for interactive use.
package software

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/wgui"
)

// Renderer implements wgui.Backend into an in-memory image.
type Renderer struct {
	target *image.RGBA
	clear  wgui.Vec4
	layers []*image.RGBA
	atlas  *image.RGBA
	draws  int
	drawn  int
	err    error
}

var _ wgui.Backend = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*Renderer)

// WithClearColor sets the color the target is cleared to before each draw.
func WithClearColor(c wgui.Vec4) Option {
	return func(r *Renderer) { r.clear = c }
}

// WithClearHex is WithClearColor for a "#rrggbb" style color. A malformed
// color makes New fail with a ConfigError.
func WithClearHex(hex string) Option {
	return func(r *Renderer) {
		c, err := wgui.ParseHexColor(hex)
		if err != nil {
			r.err = &wgui.ConfigError{Field: "clear color", Reason: err.Error()}
			return
		}
		r.clear = c
	}
}

// WithTextureLayers sets the number of texture array layers.
func WithTextureLayers(n int) Option {
	return func(r *Renderer) { r.layers = make([]*image.RGBA, n) }
}

// New creates a renderer drawing into a width x height image.
func New(width, height int, opts ...Option) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, &wgui.ConfigError{Field: "target size", Reason: fmt.Sprintf("must be positive, got %dx%d", width, height)}
	}
	r := &Renderer{
		clear:  wgui.RGBA(0.1, 0.1, 0.1, 1),
		layers: make([]*image.RGBA, wgui.DefaultTextureLayers),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		return nil, r.err
	}
	r.target = image.NewRGBA(image.Rect(0, 0, width, height))
	return r, nil
}

// Image returns the render target. It is reallocated by Resize.
func (r *Renderer) Image() *image.RGBA { return r.target }

// Draws returns the number of Draw calls so far.
func (r *Renderer) Draws() int { return r.draws }

// Instances returns the instance count of the last Draw.
func (r *Renderer) Instances() int { return r.drawn }

// Resize reallocates the target. Sizes below one pixel are clamped.
func (r *Renderer) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if b := r.target.Bounds(); b.Dx() == width && b.Dy() == height {
		return
	}
	r.target = image.NewRGBA(image.Rect(0, 0, width, height))
}

// UploadTexture stores img as layer.
func (r *Renderer) UploadTexture(layer int, img *image.RGBA) error {
	if layer < 0 || layer >= len(r.layers) {
		return fmt.Errorf("texture layer %d out of range [0,%d)", layer, len(r.layers))
	}
	r.layers[layer] = img
	return nil
}

// UploadFontAtlas stores the glyph atlas.
func (r *Renderer) UploadFontAtlas(img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("nil font atlas")
	}
	r.atlas = img
	return nil
}

// Draw clears the target and shades the first count instances in order.
func (r *Renderer) Draw(instances []float32, count int) error {
	if count*wgui.InstanceStride > len(instances) {
		return fmt.Errorf("%d instances exceed buffer of %d floats", count, len(instances))
	}
	r.fill(r.clear)
	for i := 0; i < count; i++ {
		if err := r.shade(decode(instances[i*wgui.InstanceStride:])); err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
	}
	r.draws++
	r.drawn = count
	return nil
}

func decode(rec []float32) wgui.Instance {
	return wgui.Instance{
		Color:    wgui.V4(rec[0], rec[1], rec[2], rec[3]),
		Position: wgui.V2(rec[4], rec[5]),
		Usage:    rec[6],
		Radius:   rec[7],
		Size:     wgui.V2(rec[8], rec[9]),
		Viewport: wgui.V2(rec[10], rec[11]),
		UV:       wgui.V4(rec[12], rec[13], rec[14], rec[15]),
	}
}

func (r *Renderer) fill(c wgui.Vec4) {
	px := toRGBA(c)
	b := r.target.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r.target.SetRGBA(x, y, px)
		}
	}
}

// shade covers pixel centers inside the instance rectangle. Instances are
// positioned in viewport pixels, which are scaled to the target size.
func (r *Renderer) shade(in wgui.Instance) error {
	glyph := in.Usage == wgui.UsageGlyph
	if glyph && r.atlas == nil {
		return wgui.ErrFontNotReady
	}
	var layer *image.RGBA
	if in.Usage >= 0 {
		n := int(in.Usage)
		if n >= len(r.layers) {
			return fmt.Errorf("texture layer %d out of range", n)
		}
		layer = r.layers[n]
	}

	b := r.target.Bounds()
	sx, sy := float32(1), float32(1)
	if in.Viewport.X > 0 && in.Viewport.Y > 0 {
		sx, sy = float32(b.Dx())/in.Viewport.X, float32(b.Dy())/in.Viewport.Y
	}
	lo := in.Position.MGL()
	size := in.Size.MGL()
	tint := in.Color.MGL()
	hi := lo.Add(size)
	center := lo.Add(size.Mul(0.5))

	x0 := clampInt(int(math.Floor(float64(lo.X()*sx))), b.Min.X, b.Max.X)
	x1 := clampInt(int(math.Ceil(float64(hi.X()*sx))), b.Min.X, b.Max.X)
	y0 := clampInt(int(math.Floor(float64(lo.Y()*sy))), b.Min.Y, b.Max.Y)
	y1 := clampInt(int(math.Ceil(float64(hi.Y()*sy))), b.Min.Y, b.Max.Y)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := mgl32.Vec2{(float32(x) + 0.5) / sx, (float32(y) + 0.5) / sy}
			if p.X() < lo.X() || p.Y() < lo.Y() || p.X() >= hi.X() || p.Y() >= hi.Y() {
				continue
			}
			t := mgl32.Vec2{(p.X() - lo.X()) / size.X(), (p.Y() - lo.Y()) / size.Y()}
			uv := mgl32.Vec2{in.UV.X + t.X()*in.UV.Z, in.UV.Y + t.Y()*in.UV.W}

			rgb := tint.Vec3()
			alpha := tint.W()
			switch {
			case glyph:
				alpha *= GlyphCoverage(sample(r.atlas, uv).W(), in.Radius)
			default:
				if in.Radius > 0 {
					alpha *= RectCoverage(p.Sub(center), size.Mul(0.5), in.Radius)
				}
				if in.Usage >= 0 {
					c := mgl32.Vec4{1, 0, 1, 1}
					if layer != nil {
						c = sample(layer, uv)
					}
					rgb = mgl32.Vec3{rgb.X() * c.X(), rgb.Y() * c.Y(), rgb.Z() * c.Z()}
					alpha *= c.W()
				}
			}
			r.blend(x, y, rgb, alpha)
		}
	}
	return nil
}

// blend composites with src-alpha, one-minus-src-alpha on all channels.
func (r *Renderer) blend(x, y int, rgb mgl32.Vec3, a float32) {
	if a <= 0 {
		return
	}
	dst := r.target.RGBAAt(x, y)
	d := mgl32.Vec4{float32(dst.R) / 255, float32(dst.G) / 255, float32(dst.B) / 255, float32(dst.A) / 255}
	k := 1 - a
	out := mgl32.Vec4{
		rgb.X()*a + d.X()*k,
		rgb.Y()*a + d.Y()*k,
		rgb.Z()*a + d.Z()*k,
		a*a + d.W()*k,
	}
	r.target.SetRGBA(x, y, toRGBA(wgui.V4(out.X(), out.Y(), out.Z(), out.W())))
}

// RoundRect is the signed distance from p to a box of half extents b with
// corner radius rad, centered on the origin.
func RoundRect(p, b mgl32.Vec2, rad float32) float32 {
	q := mgl32.Vec2{abs(p.X()) - b.X() + rad, abs(p.Y()) - b.Y() + rad}
	outside := mgl32.Vec2{max(q.X(), 0), max(q.Y(), 0)}
	return min(max(q.X(), q.Y()), 0) + outside.Len() - rad
}

// RectCoverage is the alpha factor of a rounded rectangle at p relative to
// its center.
func RectCoverage(p, half mgl32.Vec2, radius float32) float32 {
	return 1 - mgl32.Clamp(RoundRect(p, half, radius), 0, 1)
}

// GlyphCoverage converts a distance sample in [0,1] into alpha. Larger font
// sizes get a narrower edge.
func GlyphCoverage(distance, fontSize float32) float32 {
	w := lerp(0.4, 0.2, mgl32.Clamp(fontSize, 0, 90)/90)
	return smoothstep(0.6-w, 0.6+w, distance)
}

// sample reads the nearest texel at uv, clamped to the edge.
func sample(img *image.RGBA, uv mgl32.Vec2) mgl32.Vec4 {
	b := img.Bounds()
	x := clampInt(b.Min.X+int(uv.X()*float32(b.Dx())), b.Min.X, b.Max.X-1)
	y := clampInt(b.Min.Y+int(uv.Y()*float32(b.Dy())), b.Min.Y, b.Max.Y-1)
	c := img.RGBAAt(x, y)
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func toRGBA(c wgui.Vec4) color.RGBA {
	return color.RGBA{R: unit8(c.X), G: unit8(c.Y), B: unit8(c.Z), A: unit8(c.W)}
}

func unit8(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}

func smoothstep(e0, e1, x float32) float32 {
	t := mgl32.Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func abs(v float32) float32 { return float32(math.Abs(float64(v))) }

func clampInt(v, lo, hi int) int { return min(max(v, lo), hi) }
