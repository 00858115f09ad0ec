// Package atlas builds signed distance field glyph atlases from TrueType and
// OpenType fonts and shapes text against them.
//
// An atlas is built once per font at a fixed rasterization size (96 px by
// default). Glyphs are packed into a square power-of-two texture, rasterized
// as coverage, and converted to a distance field, so the same atlas renders
// crisp text at any size. Build does the whole pipeline in memory; Load
// caches the distance field next to the font.
package atlas

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/go-theft-auto/wgui"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/unicode/norm"
)

// replacement is shaped in place of runes missing from the atlas.
const replacement = '?'

type glyph struct {
	glyphMetrics
	uv wgui.Vec4
}

// Atlas is a built glyph atlas. It implements wgui.Font.
type Atlas struct {
	opts    Options
	ttf     []byte
	face    faceMetrics
	glyphs  map[rune]*glyph
	byIndex map[sfnt.GlyphIndex]*glyph
	order   []*glyph
	slots   []image.Rectangle
	size    int
	image   *image.RGBA
}

var _ wgui.Font = (*Atlas)(nil)

// Build parses ttf and builds its distance field atlas.
func Build(ttf []byte, opts Options) (*Atlas, error) {
	start := time.Now()
	a, f, err := plan(ttf, opts)
	if err != nil {
		return nil, err
	}
	if err := a.render(f); err != nil {
		return nil, err
	}
	wgui.Logger().Info("atlas built",
		"font", a.face.name, "glyphs", len(a.order), "size", a.size, "elapsed", time.Since(start))
	return a, nil
}

// plan reads metrics and packs the glyphs. Everything except the pixels is
// known afterwards.
func plan(ttf []byte, opts Options) (*Atlas, *sfnt.Font, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, nil, fmt.Errorf("parse font: %w", err)
	}
	face, metrics, err := readMetrics(f, opts.Charset)
	if err != nil {
		return nil, nil, err
	}

	a := &Atlas{
		opts:    opts,
		ttf:     ttf,
		face:    face,
		glyphs:  make(map[rune]*glyph, len(metrics)),
		byIndex: make(map[sfnt.GlyphIndex]*glyph, len(metrics)),
	}
	scale := a.rasterScale()
	var sizes []image.Point
	for _, m := range metrics {
		g := &glyph{glyphMetrics: m}
		a.glyphs[m.r] = g
		if _, dup := a.byIndex[m.index]; !dup {
			a.byIndex[m.index] = g
		}
		if m.empty() {
			continue
		}
		a.order = append(a.order, g)
		sizes = append(sizes, image.Pt(
			int(math.Ceil(m.width*scale))+2*opts.Gap,
			int(math.Ceil(m.height*scale))+2*opts.Gap,
		))
	}

	packing := Pack(sizes)
	a.size = packing.Size
	a.slots = packing.Rects
	n := float32(a.size)
	for i, g := range a.order {
		r := a.slots[i]
		g.uv = wgui.V4(float32(r.Min.X)/n, float32(r.Min.Y)/n, float32(r.Dx())/n, float32(r.Dy())/n)
	}
	return a, f, nil
}

func (a *Atlas) render(f *sfnt.Font) error {
	metrics := make([]glyphMetrics, len(a.order))
	for i, g := range a.order {
		metrics[i] = g.glyphMetrics
	}
	coverage, err := rasterize(f, metrics, a.slots, a.size, a.opts, a.rasterScale())
	if err != nil {
		return err
	}
	a.image = ToSDF(coverage, a.opts.Radius)
	return nil
}

func (a *Atlas) rasterScale() float64 { return float64(a.opts.FontSize) / a.face.upem }

// Atlas returns the distance field image.
func (a *Atlas) Atlas() *image.RGBA { return a.image }

// Name returns the full font name.
func (a *Atlas) Name() string { return a.face.name }

// Options returns the options the atlas was built with.
func (a *Atlas) Options() Options { return a.opts }

// Size returns the width and height of the atlas image.
func (a *Atlas) Size() int { return a.size }

// Has reports whether r has an entry, including glyphs without ink.
func (a *Atlas) Has(r rune) bool {
	_, ok := a.glyphs[r]
	return ok
}

// UV returns the normalized atlas region of r.
func (a *Atlas) UV(r rune) (wgui.Vec4, bool) {
	g, ok := a.glyphs[r]
	if !ok || g.empty() {
		return wgui.Vec4{}, false
	}
	return g.uv, true
}

func (a *Atlas) lookup(r rune) (*glyph, error) {
	if g, ok := a.glyphs[r]; ok {
		return g, nil
	}
	g, ok := a.glyphs[replacement]
	if !ok {
		return nil, &wgui.GlyphError{Rune: r}
	}
	wgui.Logger().Debug("missing glyph, using replacement", "rune", string(r))
	return g, nil
}

// Shape lays out text at size pixels using the glyph metrics alone: no
// kerning and no ligatures. Positions are relative to the top-left of the
// line; y grows downwards. Text is NFC-normalized first.
func (a *Atlas) Shape(text string, size float32) (wgui.TextShape, error) {
	text = norm.NFC.String(text)
	scale := float64(size) / a.face.upem
	pad := a.padding(size)

	shape := wgui.TextShape{Glyphs: make([]wgui.GlyphShape, 0, len(text))}
	pen := 0.0
	for _, r := range text {
		g, err := a.lookup(r)
		if err != nil {
			return wgui.TextShape{}, err
		}
		if !g.empty() {
			shape.Glyphs = append(shape.Glyphs, a.quad(g, pen+g.lsb*scale, 0, scale, pad))
		}
		pen += g.advance() * scale
	}
	shape.Width = float32(pen)
	shape.Height = a.lineHeight(size)
	return shape, nil
}

// quad places g with its left bearing edge at x, shifted down by dy.
func (a *Atlas) quad(g *glyph, x, dy, scale, pad float64) wgui.GlyphShape {
	y := (a.face.capHeight-g.yMin-g.height)*scale - pad + dy
	return wgui.GlyphShape{
		Position: wgui.V2(float32(x-pad), float32(y)),
		Size:     wgui.V2(float32(g.width*scale+2*pad), float32(g.height*scale+2*pad)),
		UV:       g.uv,
	}
}

// padding is the slot gap scaled from the raster size to size.
func (a *Atlas) padding(size float32) float64 {
	return float64(a.opts.Gap) * float64(size) / float64(a.opts.FontSize)
}

func (a *Atlas) lineHeight(size float32) float32 {
	return float32(a.face.capHeight * float64(size) / a.face.upem)
}
