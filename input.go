package wgui

import "fmt"

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// Key represents a keyboard key by its US layout position. Printable input
// arrives as TextInput events as well; keys are for shortcuts, editing and
// navigation. Letters and digits are contiguous, so KeyA+n is the n-th letter.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyEscape

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyApostrophe
	KeyComma
	KeyMinus
	KeyPeriod
	KeySlash
	KeySemicolon
	KeyEqual
	KeyLeftBracket
	KeyBackslash
	KeyRightBracket
	KeyGraveAccent

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPDecimal
	KeyKPDivide
	KeyKPMultiply
	KeyKPSubtract
	KeyKPAdd

	KeyLeftShift
	KeyLeftControl
	KeyLeftAlt
	KeyLeftSuper
	KeyRightShift
	KeyRightControl
	KeyRightAlt
	KeyRightSuper
	KeyCapsLock
	KeyMenu

	KeyCount
)

var keyNames = map[Key]string{
	KeyNone: "None", KeyTab: "Tab", KeyArrowLeft: "Left", KeyArrowRight: "Right",
	KeyArrowUp: "Up", KeyArrowDown: "Down", KeyPageUp: "PageUp", KeyPageDown: "PageDown",
	KeyHome: "Home", KeyEnd: "End", KeyInsert: "Insert", KeyDelete: "Delete",
	KeyBackspace: "Backspace", KeySpace: "Space", KeyEnter: "Enter", KeyEscape: "Escape",
	KeyApostrophe: "'", KeyComma: ",", KeyMinus: "-", KeyPeriod: ".", KeySlash: "/",
	KeySemicolon: ";", KeyEqual: "=", KeyLeftBracket: "[", KeyBackslash: "\\",
	KeyRightBracket: "]", KeyGraveAccent: "`",
	KeyKPDecimal: "KP.", KeyKPDivide: "KP/", KeyKPMultiply: "KP*", KeyKPSubtract: "KP-", KeyKPAdd: "KP+",
	KeyLeftShift: "LeftShift", KeyLeftControl: "LeftCtrl", KeyLeftAlt: "LeftAlt", KeyLeftSuper: "LeftSuper",
	KeyRightShift: "RightShift", KeyRightControl: "RightCtrl", KeyRightAlt: "RightAlt", KeyRightSuper: "RightSuper",
	KeyCapsLock: "CapsLock", KeyMenu: "Menu",
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + k - KeyA))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + k - Key0))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("F%d", k-KeyF1+1)
	case k >= KeyKP0 && k <= KeyKP9:
		return fmt.Sprintf("KP%d", k-KeyKP0)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Mod is a bit set of held modifier keys.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether all modifiers in m are held.
func (mods Mod) Has(m Mod) bool { return mods&m == m }
