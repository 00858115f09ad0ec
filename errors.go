package wgui

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the toolkit. Typed errors below wrap them so
// callers can match with errors.Is.
var (
	ErrConfig           = errors.New("wgui: invalid configuration")
	ErrNoChild          = errors.New("wgui: no child with that id")
	ErrMissingGlyph     = errors.New("wgui: missing glyph")
	ErrInstanceOverflow = errors.New("wgui: instance buffer full")
	ErrFontNotReady     = errors.New("wgui: font atlas not ready")
	ErrTextureSlots     = errors.New("wgui: no free texture slot")
	ErrHookOrder        = errors.New("wgui: hook order changed between renders")
	ErrDuplicateKey     = errors.New("wgui: duplicate component key")
)

// ConfigError reports malformed size, style or option input.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("wgui: invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrConfig.
func (e *ConfigError) Unwrap() error { return ErrConfig }

// LookupError reports a reference to an element id that was never registered.
type LookupError struct {
	ID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("wgui: no child with id %q", e.ID)
}

func (e *LookupError) Unwrap() error { return ErrNoChild }

// GlyphError reports a character that has no glyph in the font atlas.
type GlyphError struct {
	Rune rune
}

func (e *GlyphError) Error() string {
	return fmt.Sprintf("wgui: missing glyph for %q (U+%04X)", e.Rune, e.Rune)
}

func (e *GlyphError) Unwrap() error { return ErrMissingGlyph }
