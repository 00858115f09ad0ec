package atlas

import (
	"fmt"

	"github.com/go-theft-auto/wgui"
)

// Options controls how an atlas is built.
type Options struct {
	// FontSize is the pixel size glyphs are rasterized at.
	// Default: 96
	FontSize int

	// Gap is the empty border around every glyph slot, in pixels. The
	// distance field fades out inside it.
	// Default: 6
	Gap int

	// Radius is the distance in pixels covered by the alpha ramp of the
	// distance field.
	// Default: 8
	Radius float64

	// Charset lists the runes to include. Runes the font does not map are
	// skipped.
	// Default: printable ASCII and Latin-1
	Charset []rune
}

// DefaultOptions returns the default build options.
func DefaultOptions() Options {
	return Options{
		FontSize: 96,
		Gap:      6,
		Radius:   8,
		Charset:  DefaultCharset(),
	}
}

// DefaultCharset returns U+0020..U+007E followed by U+00A0..U+00FF.
func DefaultCharset() []rune {
	set := make([]rune, 0, 95+96)
	for r := rune(0x20); r <= 0x7e; r++ {
		set = append(set, r)
	}
	for r := rune(0xa0); r <= 0xff; r++ {
		set = append(set, r)
	}
	return set
}

// Validate checks the options and reports the first problem as a
// *wgui.ConfigError.
func (o *Options) Validate() error {
	if o.FontSize < 8 || o.FontSize > 512 {
		return &wgui.ConfigError{Field: "atlas font size", Reason: fmt.Sprintf("must be in 8..512, got %d", o.FontSize)}
	}
	if o.Gap < 0 {
		return &wgui.ConfigError{Field: "atlas gap", Reason: "must be non-negative"}
	}
	if o.Radius <= 0 {
		return &wgui.ConfigError{Field: "atlas radius", Reason: "must be positive"}
	}
	if len(o.Charset) == 0 {
		return &wgui.ConfigError{Field: "atlas charset", Reason: "must not be empty"}
	}
	return nil
}
