package wgui_test

import (
	"testing"

	"github.com/go-theft-auto/wgui"
)

func TestKeyString(t *testing.T) {
	tests := map[wgui.Key]string{
		wgui.KeyNone:         "None",
		wgui.KeyA:            "A",
		wgui.KeyM:            "M",
		wgui.KeyZ:            "Z",
		wgui.Key0:            "0",
		wgui.Key9:            "9",
		wgui.KeyF1:           "F1",
		wgui.KeyF12:          "F12",
		wgui.KeyKP5:          "KP5",
		wgui.KeyKPAdd:        "KP+",
		wgui.KeyBackslash:    `\`,
		wgui.KeyRightControl: "RightCtrl",
		wgui.KeyCount:        "Unknown",
		wgui.Key(-1):         "Unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Key(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestKeyRangesContiguous(t *testing.T) {
	if wgui.KeyZ-wgui.KeyA != 25 {
		t.Errorf("letters span %d keys", wgui.KeyZ-wgui.KeyA+1)
	}
	if wgui.Key9-wgui.Key0 != 9 {
		t.Errorf("digits span %d keys", wgui.Key9-wgui.Key0+1)
	}
	if wgui.KeyF12-wgui.KeyF1 != 11 {
		t.Errorf("function keys span %d keys", wgui.KeyF12-wgui.KeyF1+1)
	}
	for k := wgui.KeyNone + 1; k < wgui.KeyCount; k++ {
		if k.String() == "Unknown" {
			t.Errorf("Key(%d) has no name", int(k))
		}
	}
}

func TestMouseButtonAndModStrings(t *testing.T) {
	if wgui.MouseButtonLeft.String() != "left" || wgui.MouseButton(9).String() != "unknown" {
		t.Error("unexpected mouse button names")
	}
	mods := wgui.ModShift | wgui.ModCtrl
	if !mods.Has(wgui.ModShift) || !mods.Has(wgui.ModShift|wgui.ModCtrl) || mods.Has(wgui.ModAlt) {
		t.Errorf("Mod.Has mismatch for %b", mods)
	}
}
