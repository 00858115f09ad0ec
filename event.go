package wgui

import "time"

// Event is an input or scheduler event. The set of variants is closed; use a
// type switch to handle them.
type Event interface {
	event()
}

// Quit asks the scheduler to stop.
type Quit struct{}

// Draw is synthesized by the scheduler when no asynchronous work is pending.
// Delta is the time since the previous draw.
type Draw struct {
	Delta time.Duration
}

// MouseMotion reports the pointer position in window coordinates.
type MouseMotion struct {
	X, Y float32
}

// MouseButtonDown reports a button press at the pointer position.
type MouseButtonDown struct {
	X, Y   float32
	Button MouseButton
}

// MouseButtonUp reports a button release at the pointer position.
type MouseButtonUp struct {
	X, Y   float32
	Button MouseButton
}

// MouseWheel reports a scroll. X and Y hold the pointer position.
type MouseWheel struct {
	X, Y           float32
	DeltaX, DeltaY float32
}

// TextInput carries committed text while text input is active.
type TextInput struct {
	Text string
}

// KeyDown reports a key press or auto-repeat. Keys without a Key constant
// arrive as KeyNone with the platform Scancode set.
type KeyDown struct {
	Key      Key
	Scancode int
	Mods     Mod
	Repeat   bool
}

// KeyUp reports a key release.
type KeyUp struct {
	Key      Key
	Scancode int
	Mods     Mod
}

// Resize reports a new drawable size in pixels.
type Resize struct {
	Width, Height int
}

func (Quit) event()            {}
func (Draw) event()            {}
func (MouseMotion) event()     {}
func (MouseButtonDown) event() {}
func (MouseButtonUp) event()   {}
func (MouseWheel) event()      {}
func (TextInput) event()       {}
func (KeyDown) event()         {}
func (KeyUp) event()           {}
func (Resize) event()          {}
