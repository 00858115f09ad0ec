package wgui

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Texture array defaults: 20 layers of 360x360 RGBA8.
const (
	DefaultTextureLayers = 20
	DefaultTextureSize   = 360
)

// Texture refers to one layer of the texture array. The zero value refers to
// no texture.
type Texture struct {
	layer int
	ok    bool
}

// TextureLayer returns a handle for layer n.
func TextureLayer(n int) Texture { return Texture{layer: n, ok: n >= 0} }

// Valid reports whether the handle refers to a layer.
func (t Texture) Valid() bool { return t.ok }

// Layer returns the layer index, or -1 for the zero Texture.
func (t Texture) Layer() int {
	if !t.ok {
		return -1
	}
	return t.layer
}

// TextureSource produces image pixels. Resolve may block; deferred sources are
// resolved off the scheduler goroutine.
type TextureSource interface {
	Resolve() (image.Image, error)
}

type readySource struct{ img image.Image }

func (s readySource) Resolve() (image.Image, error) { return s.img, nil }

// Image wraps an image that is available now. It is uploaded during Set.
func Image(img image.Image) TextureSource { return readySource{img: img} }

// DeferredFunc is a TextureSource resolved asynchronously.
type DeferredFunc func() (image.Image, error)

func (f DeferredFunc) Resolve() (image.Image, error) { return f() }

// Deferred wraps a loader that runs on a worker goroutine.
func Deferred(load func() (image.Image, error)) TextureSource { return DeferredFunc(load) }

// LoadImage returns a deferred source decoding the file at path. PNG, JPEG,
// GIF, BMP and WebP are supported.
func LoadImage(path string) TextureSource {
	return DeferredFunc(func() (image.Image, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		img, err := DecodeImage(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return img, nil
	})
}

// DecodeImage decodes any registered image format.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// SlotState tracks one layer of the texture array.
type SlotState int

const (
	SlotFree SlotState = iota
	SlotPending
	SlotReady
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotFree:
		return "free"
	case SlotPending:
		return "pending"
	case SlotReady:
		return "ready"
	case SlotFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TextureArray manages the layers of the image texture array. Slots are
// assigned in request order and never move. Pending and failed slots show a
// placeholder checkerboard.
type TextureArray struct {
	backend     Backend
	tasks       *Tasks
	width       int
	height      int
	slots       []SlotState
	next        int
	placeholder *image.RGBA
	err         error
}

// NewTextureArray creates a manager for layers slots of width x height pixels.
// When tasks is nil deferred sources are resolved synchronously.
func NewTextureArray(backend Backend, tasks *Tasks, layers, width, height int) (*TextureArray, error) {
	if layers <= 0 {
		return nil, &ConfigError{Field: "texture layers", Reason: fmt.Sprintf("must be positive, got %d", layers)}
	}
	if width <= 0 || height <= 0 {
		return nil, &ConfigError{Field: "texture size", Reason: fmt.Sprintf("must be positive, got %dx%d", width, height)}
	}
	return &TextureArray{
		backend:     backend,
		tasks:       tasks,
		width:       width,
		height:      height,
		slots:       make([]SlotState, layers),
		placeholder: checkerboard(width, height, 8),
	}, nil
}

// Set reserves one slot per source, in order, and starts loading them.
// Immediate images are uploaded before Set returns. Deferred ones show the
// placeholder until their task completes on the scheduler goroutine. A source
// that fails keeps the placeholder.
func (t *TextureArray) Set(sources ...TextureSource) ([]Texture, error) {
	if t.next+len(sources) > len(t.slots) {
		return nil, fmt.Errorf("%w: %d requested, %d of %d free",
			ErrTextureSlots, len(sources), len(t.slots)-t.next, len(t.slots))
	}
	handles := make([]Texture, len(sources))
	for i, src := range sources {
		slot := t.next
		t.next++
		handles[i] = TextureLayer(slot)

		if _, ready := src.(readySource); ready || t.tasks == nil {
			img, err := t.resolve(src)
			t.finish(slot, img, err)
			continue
		}

		t.slots[slot] = SlotPending
		t.upload(slot, t.placeholder)
		t.tasks.Go("texture", func() func() {
			img, err := t.resolve(src)
			return func() { t.finish(slot, img, err) }
		})
	}
	return handles, nil
}

// State returns the load state of tex.
func (t *TextureArray) State(tex Texture) SlotState {
	if !tex.Valid() || tex.Layer() >= len(t.slots) {
		return SlotFree
	}
	return t.slots[tex.Layer()]
}

// Placeholder returns the image shown in pending and failed slots.
func (t *TextureArray) Placeholder() *image.RGBA { return t.placeholder }

// Layers returns the total number of slots.
func (t *TextureArray) Layers() int { return len(t.slots) }

// Used returns the number of reserved slots.
func (t *TextureArray) Used() int { return t.next }

// Err returns the first backend upload failure.
func (t *TextureArray) Err() error { return t.err }

// resolve runs src and fits the result to the layer size. It is safe to call
// from a worker goroutine.
func (t *TextureArray) resolve(src TextureSource) (*image.RGBA, error) {
	img, err := src.Resolve()
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("texture source returned no image")
	}
	return fitImage(img, t.width, t.height), nil
}

func (t *TextureArray) finish(slot int, img *image.RGBA, err error) {
	if err != nil {
		Logger().Warn("texture load failed, keeping placeholder", "slot", slot, "err", err)
		t.slots[slot] = SlotFailed
		t.upload(slot, t.placeholder)
		return
	}
	t.slots[slot] = SlotReady
	t.upload(slot, img)
}

func (t *TextureArray) upload(slot int, img *image.RGBA) {
	if t.backend == nil {
		return
	}
	if err := t.backend.UploadTexture(slot, img); err != nil && t.err == nil {
		t.err = fmt.Errorf("upload texture layer %d: %w", slot, err)
	}
}

// fitImage converts img to RGBA at exactly w x h, scaling when needed.
func fitImage(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// checkerboard builds the magenta and black placeholder image.
func checkerboard(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, magenta)
			} else {
				img.SetRGBA(x, y, black)
			}
		}
	}
	return img
}
