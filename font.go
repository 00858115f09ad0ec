package wgui

import "image"

// GlyphShape places one glyph quad relative to the text origin.
type GlyphShape struct {
	Position Vec2
	Size     Vec2
	UV       Vec4 // region of the font atlas: min corner and size, normalized
}

// TextShape is the result of shaping a string.
type TextShape struct {
	Glyphs []GlyphShape
	Width  float32 // pen advance after the last glyph
	Height float32 // cap height at the requested size
}

// GlyphShaper turns text into glyph quads. Implementations are pure: they only
// read parsed font metrics and never touch the GPU.
type GlyphShaper interface {
	Shape(text string, size float32) (TextShape, error)
}

// Font is a shaper backed by a signed distance field atlas. The atlas is an
// RGBA image whose four channels all hold the same distance value.
type Font interface {
	GlyphShaper
	Atlas() *image.RGBA
}
