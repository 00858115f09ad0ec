package wgui

import (
	"fmt"
	"image"
)

// Instance record layout. Every instance occupies InstanceStride consecutive
// floats starting at n*InstanceStride:
//
//	[0:4]   color (or tint) RGBA
//	[4:6]   position, top-left in pixels
//	[6]     usage: UsageGlyph, UsageRect or a texture layer >= 0
//	[7]     border radius; font size for glyphs
//	[8:10]  size in pixels
//	[10:12] viewport size in pixels
//	[12:16] UV rectangle: min corner and size
const (
	InstanceStride = 16

	// DefaultInstanceCapacity matches a 16*1024 float buffer.
	DefaultInstanceCapacity = 1024
)

// Usage values stored in an instance record. Non-negative values select a
// layer of the texture array.
const (
	UsageGlyph float32 = -2
	UsageRect  float32 = -1
)

// OverflowPolicy decides what AddInstance does when the buffer is full.
type OverflowPolicy int

const (
	// OverflowFail rejects the instance with ErrInstanceOverflow.
	OverflowFail OverflowPolicy = iota
	// OverflowGrow doubles the buffer capacity.
	OverflowGrow
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowFail:
		return "fail"
	case OverflowGrow:
		return "grow"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", int(p))
	}
}

// Backend is a GPU (or software) implementation of the rectangle and glyph
// pipeline.
type Backend interface {
	// Draw uploads the first count records of instances and issues one
	// instanced draw covering them. len(instances) is the buffer capacity.
	Draw(instances []float32, count int) error
	// UploadTexture replaces one layer of the image texture array.
	UploadTexture(layer int, img *image.RGBA) error
	// UploadFontAtlas replaces the glyph atlas texture.
	UploadFontAtlas(img *image.RGBA) error
	// Resize updates the viewport.
	Resize(width, height int)
}

// Instance is a decoded instance record.
type Instance struct {
	Color    Vec4
	Position Vec2
	Usage    float32
	Radius   float32
	Size     Vec2
	Viewport Vec2
	UV       Vec4
}

// Batch packs rectangles and glyphs into a flat instance buffer and flushes
// them to the backend in a single draw per frame.
type Batch struct {
	backend  Backend
	data     []float32
	count    int
	viewport Vec2
	overflow OverflowPolicy
	font     Font
}

// NewBatch creates a batch holding capacity instances.
func NewBatch(backend Backend, capacity int, overflow OverflowPolicy) (*Batch, error) {
	if capacity <= 0 {
		return nil, &ConfigError{Field: "instance capacity", Reason: fmt.Sprintf("must be positive, got %d", capacity)}
	}
	return &Batch{
		backend:  backend,
		data:     make([]float32, capacity*InstanceStride),
		overflow: overflow,
	}, nil
}

// Count returns the number of instances added since the last flush.
func (b *Batch) Count() int { return b.count }

// Capacity returns the number of instances the buffer holds.
func (b *Batch) Capacity() int { return len(b.data) / InstanceStride }

// Data returns the whole packed buffer, including records past Count.
func (b *Batch) Data() []float32 { return b.data }

// Viewport returns the size written into each record.
func (b *Batch) Viewport() Vec2 { return b.viewport }

// Resize sets the viewport size written into each record and forwards it to
// the backend.
func (b *Batch) Resize(width, height int) {
	b.viewport = Vec2{float32(width), float32(height)}
	if b.backend != nil {
		b.backend.Resize(width, height)
	}
}

// AddInstance appends one record.
func (b *Batch) AddInstance(color Vec4, position, size Vec2, usage, radius float32, uv Vec4) error {
	if b.count == b.Capacity() {
		if b.overflow != OverflowGrow {
			return fmt.Errorf("%w: capacity %d", ErrInstanceOverflow, b.Capacity())
		}
		grown := make([]float32, len(b.data)*2)
		copy(grown, b.data)
		b.data = grown
		Logger().Debug("instance buffer grown", "capacity", b.Capacity())
	}
	r := b.data[b.count*InstanceStride : (b.count+1)*InstanceStride]
	r[0], r[1], r[2], r[3] = color.X, color.Y, color.Z, color.W
	r[4], r[5] = position.X, position.Y
	r[6] = usage
	r[7] = radius
	r[8], r[9] = size.X, size.Y
	r[10], r[11] = b.viewport.X, b.viewport.Y
	r[12], r[13], r[14], r[15] = uv.X, uv.Y, uv.Z, uv.W
	b.count++
	return nil
}

// Rect adds a solid rectangle with optional rounded corners.
func (b *Batch) Rect(color Vec4, position, size Vec2, radius float32) error {
	return b.AddInstance(color, position, size, UsageRect, radius, FullUV)
}

// TexturedRect adds a rectangle sampling tex. The sampled alpha is multiplied
// into color's alpha.
func (b *Batch) TexturedRect(tex Texture, color Vec4, position, size Vec2, radius float32, uv Vec4) error {
	if !tex.Valid() {
		return b.AddInstance(color, position, size, UsageRect, radius, uv)
	}
	return b.AddInstance(color, position, size, float32(tex.Layer()), radius, uv)
}

// Instance decodes record n. It panics if n is outside the buffer.
func (b *Batch) Instance(n int) Instance {
	r := b.data[n*InstanceStride : (n+1)*InstanceStride]
	return Instance{
		Color:    Vec4{r[0], r[1], r[2], r[3]},
		Position: Vec2{r[4], r[5]},
		Usage:    r[6],
		Radius:   r[7],
		Size:     Vec2{r[8], r[9]},
		Viewport: Vec2{r[10], r[11]},
		UV:       Vec4{r[12], r[13], r[14], r[15]},
	}
}

// Flush hands the live records to the backend in one draw and resets the
// count. The buffer contents are left in place.
func (b *Batch) Flush() error {
	count := b.count
	b.count = 0
	if b.backend == nil {
		return nil
	}
	if err := b.backend.Draw(b.data, count); err != nil {
		return fmt.Errorf("draw %d instances: %w", count, err)
	}
	return nil
}

// SetFont installs the glyph atlas and shaper used by Text.
func (b *Batch) SetFont(f Font) error {
	if b.backend != nil {
		if err := b.backend.UploadFontAtlas(f.Atlas()); err != nil {
			return fmt.Errorf("upload font atlas: %w", err)
		}
	}
	b.font = f
	return nil
}

// FontReady reports whether Text can be used.
func (b *Batch) FontReady() bool { return b.font != nil }

// Text adds one glyph instance per visible glyph of text. The font size is
// stored in the radius field, where the glyph shader reads it as sharpness.
func (b *Batch) Text(text string, position Vec2, fontSize float32, color Vec4) error {
	if b.font == nil {
		return ErrFontNotReady
	}
	shape, err := b.font.Shape(text, fontSize)
	if err != nil {
		return err
	}
	for _, g := range shape.Glyphs {
		if err := b.AddInstance(color, position.Add(g.Position), g.Size, UsageGlyph, fontSize, g.UV); err != nil {
			return err
		}
	}
	return nil
}
