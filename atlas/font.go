package atlas

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// glyphMetrics are the outline metrics of one glyph in font units, y up.
type glyphMetrics struct {
	r      rune
	index  sfnt.GlyphIndex
	xMin   float64
	yMin   float64
	width  float64
	height float64
	lsb    float64
	rsb    float64
}

func (m glyphMetrics) empty() bool { return m.width <= 0 || m.height <= 0 }

func (m glyphMetrics) advance() float64 { return m.lsb + m.width + m.rsb }

// faceMetrics are the font-wide values the shaper needs, in font units.
type faceMetrics struct {
	name      string
	upem      float64
	capHeight float64 // ascent minus descent depth
}

// readMetrics collects metrics for every rune of charset that the font maps.
// Querying at ppem == unitsPerEm makes one pixel equal one font unit.
func readMetrics(f *sfnt.Font, charset []rune) (faceMetrics, []glyphMetrics, error) {
	var buf sfnt.Buffer
	upem := f.UnitsPerEm()
	ppem := fixed.I(int(upem))

	m, err := f.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return faceMetrics{}, nil, fmt.Errorf("read font metrics: %w", err)
	}
	name, err := f.Name(&buf, sfnt.NameIDFull)
	if err != nil {
		name = "font"
	}
	face := faceMetrics{
		name:      name,
		upem:      float64(upem),
		capHeight: units(m.Ascent) - units(m.Descent),
	}

	seen := make(map[rune]bool, len(charset))
	glyphs := make([]glyphMetrics, 0, len(charset))
	for _, r := range charset {
		if seen[r] {
			continue
		}
		seen[r] = true
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return faceMetrics{}, nil, fmt.Errorf("glyph index for %q: %w", r, err)
		}
		if idx == 0 {
			continue
		}
		bounds, adv, err := f.GlyphBounds(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return faceMetrics{}, nil, fmt.Errorf("glyph bounds for %q: %w", r, err)
		}
		g := glyphMetrics{
			r:      r,
			index:  idx,
			xMin:   units(bounds.Min.X),
			yMin:   -units(bounds.Max.Y),
			width:  units(bounds.Max.X - bounds.Min.X),
			height: units(bounds.Max.Y - bounds.Min.Y),
		}
		g.lsb = g.xMin
		g.rsb = units(adv) - g.lsb - g.width
		glyphs = append(glyphs, g)
	}
	return face, glyphs, nil
}

func units(v fixed.Int26_6) float64 { return float64(v) / 64 }
