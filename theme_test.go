package wgui_test

import (
	"testing"

	"github.com/go-theft-auto/wgui"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want wgui.Vec4
		ok   bool
	}{
		{"#f0f0f0", wgui.RGBA8(240, 240, 240, 255), true},
		{"#fff", wgui.White, true},
		{"#00000080", wgui.RGBA8(0, 0, 0, 128), true},
		{"ffffff", wgui.Vec4{}, false},
		{"#ff", wgui.Vec4{}, false},
		{"#gggggg", wgui.Vec4{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := wgui.ParseHexColor(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseHexColor(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			}
			if tt.ok && !got.Equals(tt.want) {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestThemesContrast(t *testing.T) {
	themes := map[string]wgui.Theme{
		"default": wgui.DefaultTheme(),
		"gta":     wgui.GTATheme(),
		"dark":    wgui.DarkTheme(),
		"light":   wgui.LightTheme(),
	}
	for name, th := range themes {
		if th.FontSize <= 0 {
			t.Errorf("%s: FontSize = %v", name, th.FontSize)
		}
		if d := th.Text.Sub(th.Background); d.X*d.X+d.Y*d.Y+d.Z*d.Z < 0.5 {
			t.Errorf("%s: text %v too close to background %v", name, th.Text, th.Background)
		}
		if th.Button.Equals(th.ButtonHover) {
			t.Errorf("%s: hover color equals idle color", name)
		}
	}
}
