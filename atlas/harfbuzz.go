package atlas

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/go-theft-auto/wgui"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// HarfBuzzShaper shapes text with HarfBuzz (go-text/typesetting) and draws the
// resulting glyphs from an Atlas. It applies kerning and other positioning
// the metric shaper ignores. Runs that produce a glyph the atlas does not
// hold, such as a ligature outside the charset, fall back to Atlas.Shape.
//
// A HarfBuzzShaper is not safe for concurrent use.
type HarfBuzzShaper struct {
	atlas  *Atlas
	face   *font.Face
	shaper shaping.HarfbuzzShaper
}

var _ wgui.Font = (*HarfBuzzShaper)(nil)

// NewHarfBuzzShaper parses the atlas font for shaping.
func NewHarfBuzzShaper(a *Atlas) (*HarfBuzzShaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(a.ttf))
	if err != nil {
		return nil, fmt.Errorf("parse font for shaping: %w", err)
	}
	return &HarfBuzzShaper{atlas: a, face: face}, nil
}

// Atlas returns the distance field image of the underlying atlas.
func (h *HarfBuzzShaper) Atlas() *image.RGBA { return h.atlas.Atlas() }

// Shape lays out text on one line, left to right.
func (h *HarfBuzzShaper) Shape(text string, size float32) (wgui.TextShape, error) {
	runes := []rune(norm.NFC.String(text))
	if len(runes) == 0 {
		return wgui.TextShape{Height: h.atlas.lineHeight(size)}, nil
	}

	out := h.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      h.face,
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})

	a := h.atlas
	scale := float64(size) / a.face.upem
	pad := a.padding(size)
	shape := wgui.TextShape{Glyphs: make([]wgui.GlyphShape, 0, len(out.Glyphs))}
	pen := 0.0
	for _, og := range out.Glyphs {
		g, ok := a.byIndex[sfnt.GlyphIndex(og.GlyphID)]
		if !ok {
			wgui.Logger().Debug("shaped glyph not in atlas, using metric shaping", "glyph", og.GlyphID)
			return a.Shape(text, size)
		}
		if !g.empty() {
			x := pen + fromFixed(og.XOffset) + g.lsb*scale
			shape.Glyphs = append(shape.Glyphs, a.quad(g, x, -fromFixed(og.YOffset), scale, pad))
		}
		pen += fromFixed(og.Advance)
	}
	shape.Width = float32(pen)
	shape.Height = a.lineHeight(size)
	return shape, nil
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r != ' ' && r != '\t' {
			return language.LookupScript(r)
		}
	}
	return language.Latin
}

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }
