package wgui

import (
	"fmt"
	"strconv"
	"strings"
)

// Spacing scale for padding and gaps, in pixels.
const (
	SpaceNone float32 = 0
	SpaceXS   float32 = 2
	SpaceSM   float32 = 4
	SpaceMD   float32 = 8
	SpaceLG   float32 = 12
	SpaceXL   float32 = 16
	Space2XL  float32 = 24
	Space3XL  float32 = 32
	Space4XL  float32 = 48
)

// Theme is a palette and sizing set shared by the components of an app.
// Components read it explicitly; the App does not apply it.
type Theme struct {
	Background   Vec4 // clear color
	Text         Vec4
	TextMuted    Vec4
	TextAccent   Vec4
	Panel        Vec4
	Button       Vec4
	ButtonHover  Vec4
	ButtonActive Vec4
	Input        Vec4
	InputFocused Vec4
	Selected     Vec4
	Focus        Vec4

	FontSize float32
	Padding  float32
	Gap      float32
	Rounding float32
}

// RGBA8 builds a color from 8-bit channels.
func RGBA8(r, g, b, a uint8) Vec4 {
	return Vec4{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (Vec4, error) {
	h, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Vec4{}, fmt.Errorf("color %q: missing #", s)
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Vec4{}, fmt.Errorf("color %q: want 3, 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Vec4{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGBA8(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// DefaultTheme is a neutral dark grey theme.
func DefaultTheme() Theme {
	return Theme{
		Background:   RGBA8(20, 20, 22, 255),
		Text:         White,
		TextMuted:    RGBA8(128, 128, 128, 255),
		TextAccent:   RGBA8(255, 255, 0, 255),
		Panel:        RGBA8(20, 20, 20, 200),
		Button:       RGBA8(50, 50, 50, 255),
		ButtonHover:  RGBA8(70, 70, 70, 255),
		ButtonActive: RGBA8(90, 90, 90, 255),
		Input:        RGBA8(30, 30, 30, 255),
		InputFocused: RGBA8(40, 40, 50, 255),
		Selected:     RGBA8(50, 100, 150, 255),
		Focus:        RGBA8(0, 255, 255, 255),

		FontSize: 20,
		Padding:  SpaceMD,
		Gap:      SpaceSM,
	}
}

// GTATheme is a black and cyan theme with yellow accents and sharp corners.
func GTATheme() Theme {
	return Theme{
		Background:   Black,
		Text:         White,
		TextMuted:    RGBA8(128, 128, 128, 255),
		TextAccent:   RGBA8(255, 200, 0, 255),
		Panel:        RGBA8(0, 0, 0, 220),
		Button:       RGBA8(40, 40, 40, 255),
		ButtonHover:  RGBA8(60, 80, 100, 255),
		ButtonActive: RGBA8(0, 150, 200, 255),
		Input:        RGBA8(20, 20, 20, 255),
		InputFocused: RGBA8(30, 40, 50, 255),
		Selected:     RGBA8(0, 120, 180, 255),
		Focus:        RGBA8(0, 200, 255, 255),

		FontSize: 22,
		Padding:  SpaceLG,
		Gap:      6,
	}
}

// DarkTheme is DefaultTheme with rounded corners and a blue accent.
func DarkTheme() Theme {
	t := DefaultTheme()
	t.Background = RGBA8(20, 23, 28, 255)
	t.Button = RGBA8(56, 92, 217, 255)
	t.ButtonHover = RGBA8(89, 133, 255, 255)
	t.ButtonActive = RGBA8(40, 70, 180, 255)
	t.Input = RGBA8(41, 43, 51, 255)
	t.InputFocused = RGBA8(51, 56, 69, 255)
	t.Rounding = SpaceXL
	return t
}

// LightTheme is dark text on light grey panels.
func LightTheme() Theme {
	return Theme{
		Background:   RGBA8(240, 240, 240, 255),
		Text:         RGBA8(20, 20, 20, 255),
		TextMuted:    RGBA8(150, 150, 150, 255),
		TextAccent:   RGBA8(0, 100, 200, 255),
		Panel:        RGBA8(245, 245, 245, 250),
		Button:       RGBA8(220, 220, 220, 255),
		ButtonHover:  RGBA8(200, 200, 200, 255),
		ButtonActive: RGBA8(180, 180, 180, 255),
		Input:        White,
		InputFocused: White,
		Selected:     RGBA8(0, 120, 215, 255),
		Focus:        RGBA8(0, 120, 215, 255),

		FontSize: 20,
		Padding:  SpaceMD,
		Gap:      SpaceSM,
		Rounding: SpaceXL,
	}
}
