package atlas

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// rasterize draws every placed glyph as coverage into a size x size image.
// A glyph's outline starts gap pixels inside its slot on the left and ends
// gap pixels above the slot's bottom edge.
func rasterize(f *sfnt.Font, glyphs []glyphMetrics, slots []image.Rectangle, size int, opts Options, scale float64) (*image.Alpha, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(opts.FontSize),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	defer face.Close()

	dst := image.NewAlpha(image.Rect(0, 0, size, size))
	gap := float64(opts.Gap)
	for i, g := range glyphs {
		slot := slots[i]
		x := float64(slot.Min.X) - g.xMin*scale + gap
		y := float64(slot.Max.Y) + g.yMin*scale - gap
		dot := fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}

		dr, mask, maskp, _, ok := face.Glyph(dot, g.r)
		if !ok {
			continue
		}
		draw.DrawMask(dst, dr, image.Opaque, image.Point{}, mask, maskp, draw.Over)
	}
	return dst, nil
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
