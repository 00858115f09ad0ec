package opengl

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/wgui"
)

// Window is a GLFW window with a current OpenGL 4.1 core context. It is the
// event source, waker and presenter of a wgui.App.
//
// GLFW must be used from the main thread: call runtime.LockOSThread in an
// init function and create and run the window from main.
type Window struct {
	win       *glfw.Window
	queue     []wgui.Event
	textInput bool
	cursorX   float32
	cursorY   float32
}

var (
	_ wgui.EventSource         = (*Window)(nil)
	_ wgui.Waker               = (*Window)(nil)
	_ wgui.Presenter           = (*Window)(nil)
	_ wgui.TextInputController = (*Window)(nil)
)

type windowConfig struct {
	title     string
	vsync     bool
	samples   int
	resizable bool
}

// WindowOption configures a Window.
type WindowOption func(*windowConfig)

// WithTitle sets the window title.
func WithTitle(title string) WindowOption {
	return func(c *windowConfig) { c.title = title }
}

// WithVSync enables or disables waiting for vertical sync on present.
func WithVSync(on bool) WindowOption {
	return func(c *windowConfig) { c.vsync = on }
}

// WithSamples sets the multisample count of the default framebuffer.
func WithSamples(n int) WindowOption {
	return func(c *windowConfig) { c.samples = n }
}

// WithResizable controls whether the user can resize the window.
func WithResizable(on bool) WindowOption {
	return func(c *windowConfig) { c.resizable = on }
}

// NewWindow initializes GLFW, opens a width x height window and makes its
// context current.
func NewWindow(width, height int, opts ...WindowOption) (*Window, error) {
	cfg := windowConfig{title: "wgui", vsync: true, samples: 4, resizable: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if width <= 0 || height <= 0 {
		return nil, &wgui.ConfigError{Field: "window size", Reason: fmt.Sprintf("must be positive, got %dx%d", width, height)}
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, cfg.samples)
	if !cfg.resizable {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, cfg.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("init gl: %w", err)
	}
	if cfg.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	if cfg.samples > 0 {
		gl.Enable(gl.MULTISAMPLE)
	}

	w := &Window{win: win}
	win.SetCloseCallback(w.closeCallback)
	win.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	win.SetCursorPosCallback(w.cursorPosCallback)
	win.SetMouseButtonCallback(w.mouseButtonCallback)
	win.SetScrollCallback(w.scrollCallback)
	win.SetCharCallback(w.charCallback)
	win.SetKeyCallback(w.keyCallback)

	fbw, fbh := win.GetFramebufferSize()
	wgui.Logger().Info("window opened",
		"title", cfg.title, "width", width, "height", height, "framebuffer", fmt.Sprintf("%dx%d", fbw, fbh))
	return w, nil
}

// GLFW returns the underlying window.
func (w *Window) GLFW() *glfw.Window { return w.win }

// FramebufferSize returns the drawable size in pixels, which differs from the
// window size on high-density displays.
func (w *Window) FramebufferSize() (width, height int) { return w.win.GetFramebufferSize() }

// NextEvent implements wgui.EventSource.
func (w *Window) NextEvent(timeout time.Duration) (wgui.Event, bool) {
	if len(w.queue) == 0 {
		switch {
		case timeout < 0:
			glfw.WaitEvents()
		case timeout == 0:
			glfw.PollEvents()
		default:
			glfw.WaitEventsTimeout(timeout.Seconds())
		}
	}
	if len(w.queue) == 0 {
		return nil, false
	}
	ev := w.queue[0]
	w.queue[0] = nil
	w.queue = w.queue[1:]
	return ev, true
}

// Wake interrupts a blocking NextEvent. It is safe to call from any goroutine.
func (w *Window) Wake() { glfw.PostEmptyEvent() }

// Present swaps the front and back buffers.
func (w *Window) Present() error {
	w.win.SwapBuffers()
	return nil
}

// StartTextInput enables TextInput events.
func (w *Window) StartTextInput() { w.textInput = true }

// StopTextInput disables TextInput events.
func (w *Window) StopTextInput() { w.textInput = false }

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}

func (w *Window) push(ev wgui.Event) { w.queue = append(w.queue, ev) }

// pixelScale converts window coordinates into framebuffer pixels.
func (w *Window) pixelScale() (float32, float32) {
	ww, wh := w.win.GetSize()
	fw, fh := w.win.GetFramebufferSize()
	if ww == 0 || wh == 0 {
		return 1, 1
	}
	return float32(fw) / float32(ww), float32(fh) / float32(wh)
}

func (w *Window) closeCallback(_ *glfw.Window) {
	w.push(wgui.Quit{})
}

func (w *Window) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	if width == 0 || height == 0 {
		return // minimized
	}
	w.push(wgui.Resize{Width: width, Height: height})
}

func (w *Window) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	sx, sy := w.pixelScale()
	w.cursorX, w.cursorY = float32(xpos)*sx, float32(ypos)*sy
	w.push(wgui.MouseMotion{X: w.cursorX, Y: w.cursorY})
}

func (w *Window) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	b, ok := glfwMouseButton(button)
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		w.push(wgui.MouseButtonDown{X: w.cursorX, Y: w.cursorY, Button: b})
	case glfw.Release:
		w.push(wgui.MouseButtonUp{X: w.cursorX, Y: w.cursorY, Button: b})
	}
}

func (w *Window) scrollCallback(_ *glfw.Window, xoff, yoff float64) {
	w.push(wgui.MouseWheel{X: w.cursorX, Y: w.cursorY, DeltaX: float32(xoff), DeltaY: float32(yoff)})
}

func (w *Window) charCallback(_ *glfw.Window, char rune) {
	if !w.textInput {
		return
	}
	w.push(wgui.TextInput{Text: string(char)})
}

func (w *Window) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k := glfwKey(key)
	switch action {
	case glfw.Press, glfw.Repeat:
		w.push(wgui.KeyDown{Key: k, Scancode: scancode, Mods: glfwMods(mods), Repeat: action == glfw.Repeat})
	case glfw.Release:
		w.push(wgui.KeyUp{Key: k, Scancode: scancode, Mods: glfwMods(mods)})
	}
}

var glfwKeys = map[glfw.Key]wgui.Key{
	glfw.KeyTab:          wgui.KeyTab,
	glfw.KeyLeft:         wgui.KeyArrowLeft,
	glfw.KeyRight:        wgui.KeyArrowRight,
	glfw.KeyUp:           wgui.KeyArrowUp,
	glfw.KeyDown:         wgui.KeyArrowDown,
	glfw.KeyPageUp:       wgui.KeyPageUp,
	glfw.KeyPageDown:     wgui.KeyPageDown,
	glfw.KeyHome:         wgui.KeyHome,
	glfw.KeyEnd:          wgui.KeyEnd,
	glfw.KeyInsert:       wgui.KeyInsert,
	glfw.KeyDelete:       wgui.KeyDelete,
	glfw.KeyBackspace:    wgui.KeyBackspace,
	glfw.KeySpace:        wgui.KeySpace,
	glfw.KeyEnter:        wgui.KeyEnter,
	glfw.KeyKPEnter:      wgui.KeyEnter,
	glfw.KeyEscape:       wgui.KeyEscape,
	glfw.KeyApostrophe:   wgui.KeyApostrophe,
	glfw.KeyComma:        wgui.KeyComma,
	glfw.KeyMinus:        wgui.KeyMinus,
	glfw.KeyPeriod:       wgui.KeyPeriod,
	glfw.KeySlash:        wgui.KeySlash,
	glfw.KeySemicolon:    wgui.KeySemicolon,
	glfw.KeyEqual:        wgui.KeyEqual,
	glfw.KeyLeftBracket:  wgui.KeyLeftBracket,
	glfw.KeyBackslash:    wgui.KeyBackslash,
	glfw.KeyRightBracket: wgui.KeyRightBracket,
	glfw.KeyGraveAccent:  wgui.KeyGraveAccent,
	glfw.KeyKPDecimal:    wgui.KeyKPDecimal,
	glfw.KeyKPDivide:     wgui.KeyKPDivide,
	glfw.KeyKPMultiply:   wgui.KeyKPMultiply,
	glfw.KeyKPSubtract:   wgui.KeyKPSubtract,
	glfw.KeyKPAdd:        wgui.KeyKPAdd,
	glfw.KeyLeftShift:    wgui.KeyLeftShift,
	glfw.KeyLeftControl:  wgui.KeyLeftControl,
	glfw.KeyLeftAlt:      wgui.KeyLeftAlt,
	glfw.KeyLeftSuper:    wgui.KeyLeftSuper,
	glfw.KeyRightShift:   wgui.KeyRightShift,
	glfw.KeyRightControl: wgui.KeyRightControl,
	glfw.KeyRightAlt:     wgui.KeyRightAlt,
	glfw.KeyRightSuper:   wgui.KeyRightSuper,
	glfw.KeyCapsLock:     wgui.KeyCapsLock,
	glfw.KeyMenu:         wgui.KeyMenu,
}

// glfwKey maps GLFW keys to wgui keys. Keys with no wgui constant map to
// KeyNone and are still delivered with their scancode.
func glfwKey(key glfw.Key) wgui.Key {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return wgui.KeyA + wgui.Key(key-glfw.KeyA)
	case key >= glfw.Key0 && key <= glfw.Key9:
		return wgui.Key0 + wgui.Key(key-glfw.Key0)
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return wgui.KeyF1 + wgui.Key(key-glfw.KeyF1)
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return wgui.KeyKP0 + wgui.Key(key-glfw.KeyKP0)
	}
	if k, ok := glfwKeys[key]; ok {
		return k
	}
	return wgui.KeyNone
}

// glfwMouseButton maps GLFW mouse buttons to wgui mouse buttons.
func glfwMouseButton(button glfw.MouseButton) (wgui.MouseButton, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return wgui.MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return wgui.MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return wgui.MouseButtonMiddle, true
	default:
		return 0, false
	}
}

func glfwMods(m glfw.ModifierKey) wgui.Mod {
	var mods wgui.Mod
	if m&glfw.ModShift != 0 {
		mods |= wgui.ModShift
	}
	if m&glfw.ModControl != 0 {
		mods |= wgui.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		mods |= wgui.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		mods |= wgui.ModSuper
	}
	return mods
}
