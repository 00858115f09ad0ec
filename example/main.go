// Example opens a window with a hoverable click counter, a text field, a
// textured swatch and a button that toggles between the dark and light themes.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
//
// The font atlas is loaded by a task, so the window stays blank until it is
// ready. The first run builds it from Go Regular (or -font) and writes it to
// the -cache directory; later runs read the cached pixels.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/go-theft-auto/wgui"
	"github.com/go-theft-auto/wgui/atlas"
	"github.com/go-theft-auto/wgui/backend/opengl"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "wgui example"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	harfbuzz := flag.Bool("harfbuzz", false, "shape text with HarfBuzz")
	screenshot := flag.String("screenshot", "", "save the last presented frame to this PNG on exit")
	fontPath := flag.String("font", "", "TTF file to build the atlas from (default: Go Regular)")
	cacheDir := flag.String("cache", defaultCacheDir(), "directory holding the atlas cache")
	background := flag.String("background", "", "clear color as #rrggbb (default: theme background)")
	flag.Parse()
	wgui.SetLogLevel(wgui.ResolveLogLevel(*logLevel))

	window, err := opengl.NewWindow(windowWidth, windowHeight,
		opengl.WithTitle(windowTitle), opengl.WithResizable(false))
	if err != nil {
		return err
	}
	defer window.Close()

	fbw, fbh := window.FramebufferSize()
	clear := opengl.WithClearColor(wgui.DarkTheme().Background)
	if *background != "" {
		clear = opengl.WithClearHex(*background)
	}
	renderer, err := opengl.NewRenderer(fbw, fbh, clear)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer renderer.Delete()

	var source wgui.EventSource = window
	var grab *capture
	if *screenshot != "" {
		grab = &capture{Window: window, renderer: renderer}
		source = grab
	}

	app, err := wgui.New(renderer, source,
		wgui.WithSize(fbw, fbh),
		wgui.WithInstanceCapacity(256),
		wgui.WithOverflow(wgui.OverflowGrow),
		wgui.WithTextures(wgui.Image(swatch(64))),
		wgui.WithFontLoader(func() (wgui.Font, error) {
			a, err := loadAtlas(*fontPath, *cacheDir)
			if err != nil {
				return nil, err
			}
			if !*harfbuzz {
				return a, nil
			}
			hb, err := atlas.NewHarfBuzzShaper(a)
			if err != nil {
				return nil, err
			}
			return hb, nil
		}),
	)
	if err != nil {
		return err
	}

	scale := float32(fbw) / windowWidth
	doc, err := newLayout(wgui.V2(float32(fbw), float32(fbh)), scale)
	if err != nil {
		return err
	}
	if err := app.Run(context.Background(), root(doc, scale, app.Textures()[0])); err != nil {
		return err
	}
	if grab != nil && grab.last != nil {
		return savePNG(*screenshot, grab.last)
	}
	return nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "wgui")
	}
	return filepath.Join(dir, "wgui")
}

// loadAtlas loads the atlas of ttfPath through the cache in dir. An empty
// ttfPath uses Go Regular, copied into dir on first use.
func loadAtlas(ttfPath, dir string) (*atlas.Atlas, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("atlas cache: %w", err)
	}
	if ttfPath == "" {
		ttfPath = filepath.Join(dir, "goregular.ttf")
		if _, err := os.Stat(ttfPath); err != nil {
			if err := os.WriteFile(ttfPath, goregular.TTF, 0o644); err != nil {
				return nil, fmt.Errorf("write font: %w", err)
			}
		}
	}
	return atlas.Load(ttfPath, dir, atlas.DefaultOptions())
}

// capture reads each frame back before it is presented.
type capture struct {
	*opengl.Window
	renderer *opengl.Renderer
	last     *image.RGBA
}

func (c *capture) Present() error {
	c.last = c.renderer.ReadPixels()
	return c.Window.Present()
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	wgui.Logger().Info("screenshot saved", "path", path)
	return f.Close()
}

// newLayout stacks the title, the counter row and the text field in a column.
func newLayout(size wgui.Vec2, scale float32) (*wgui.Document, error) {
	doc := wgui.NewDocument(wgui.Style{
		Width:     wgui.Percent(100),
		Height:    wgui.Percent(100),
		Direction: wgui.DirectionColumn,
		Gap:       24 * scale,
		Padding:   48 * scale,
		Align:     wgui.AlignStart,
		Justify:   wgui.JustifyCenter,
	}, size)
	children := []struct {
		id    string
		style wgui.Style
	}{
		{"title", wgui.Style{Width: wgui.Percent(100), Height: wgui.Px(40 * scale)}},
		{"button", wgui.Style{Width: wgui.Px(280 * scale), Height: wgui.Px(64 * scale)}},
		{"field", wgui.Style{Width: wgui.Percent(100), Height: wgui.Px(56 * scale)}},
		{"swatch", wgui.Style{Width: wgui.Px(64 * scale), Height: wgui.Px(64 * scale)}},
	}
	for _, c := range children {
		if err := doc.AddChild(c.id, c.style); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func root(doc *wgui.Document, scale float32, tex wgui.Texture) wgui.Component {
	return func(s *wgui.Scope) wgui.Node {
		light, setLight := wgui.UseState(s, false)
		theme := wgui.DarkTheme()
		label := "Light theme"
		if light {
			theme = wgui.LightTheme()
			label = "Dark theme"
		}

		page := doc.Root()
		title, err1 := doc.Child("title")
		button, err2 := doc.Child("button")
		field, err3 := doc.Child("field")
		sw, err4 := doc.Child("swatch")
		for _, err := range []error{err1, err2, err3, err4} {
			if err != nil {
				s.Fail(err)
				return wgui.Empty{}
			}
		}
		toggle := wgui.Layout{X: page.Width - 200*scale, Y: 24 * scale, Width: 176 * scale, Height: 44 * scale}

		return wgui.Group(
			wgui.Rect(s.Next(), wgui.RectProps{
				Color: theme.Background,
				Size:  wgui.V2(page.Width, page.Height),
			}),
			wgui.Text(wgui.TextProps{
				Text:     "wgui on OpenGL",
				Position: wgui.V2(title.X, title.Y),
				FontSize: 36 * scale,
				Color:    theme.Text,
			}),
			wgui.Rect(s.Next(), wgui.RectProps{
				Color:        theme.Selected,
				Position:     wgui.V2(toggle.X, toggle.Y),
				Size:         wgui.V2(toggle.Width, toggle.Height),
				BorderRadius: theme.Rounding * scale,
				OnClick:      func(*wgui.RectProps) { setLight(!light) },
			}),
			wgui.Text(wgui.TextProps{
				Text:     label,
				Position: wgui.V2(toggle.X+theme.Padding*2*scale, toggle.Y+12*scale),
				FontSize: 18 * scale,
				Color:    wgui.White,
			}),
			wgui.Mount(s, func(s *wgui.Scope) wgui.Node { return counter(s, button, theme, scale) }),
			wgui.Mount(s, func(s *wgui.Scope) wgui.Node { return textField(s, field, theme, scale) }),
			wgui.Rect(s.Next(), wgui.RectProps{
				Texture:      tex,
				Position:     wgui.V2(sw.X, sw.Y),
				Size:         wgui.V2(sw.Width, sw.Height),
				BorderRadius: theme.Rounding / 2 * scale,
			}),
		)
	}
}

func counter(s *wgui.Scope, l wgui.Layout, theme wgui.Theme, scale float32) wgui.Node {
	count, setCount := wgui.UseState(s, 0)
	hovered, setHovered := wgui.UseState(s, false)
	target := theme.Button
	if hovered {
		target = theme.ButtonHover
	}
	fill := wgui.UseColorTransition(s, target, 150*time.Millisecond, ease.OutQuad)
	wgui.UseEffect(s, func() {
		wgui.Logger().Info("counter changed", "count", count)
	}, []any{count})

	return wgui.Group(
		wgui.Rect(s.Next(), wgui.RectProps{
			Color:        fill,
			Position:     wgui.V2(l.X, l.Y),
			Size:         wgui.V2(l.Width, l.Height),
			BorderRadius: theme.Rounding * scale,
			OnMouseOver:  func(*wgui.RectProps) { setHovered(true) },
			OnMouseOut:   func(*wgui.RectProps) { setHovered(false) },
			OnClick:      func(*wgui.RectProps) { setCount(count + 1) },
		}),
		wgui.Text(wgui.TextProps{
			Text:     wgui.TextOf("Clicked ", count, " times"),
			Position: wgui.V2(l.X+24*scale, l.Y+22*scale),
			FontSize: 22 * scale,
			Color:    wgui.White,
		}),
	)
}

func textField(s *wgui.Scope, l wgui.Layout, theme wgui.Theme, scale float32) wgui.Node {
	text, setText := wgui.UseState(s, "")
	focused, setFocused := wgui.UseState(s, false)
	fill, ink := theme.Input, theme.Text
	shown := text
	if focused {
		fill = theme.InputFocused
		shown += "|"
	}
	if shown == "" {
		shown, ink = "Click and type", theme.TextMuted
	}

	return wgui.Group(
		wgui.Rect(s.Next(), wgui.RectProps{
			Color:        fill,
			Position:     wgui.V2(l.X, l.Y),
			Size:         wgui.V2(l.Width, l.Height),
			BorderRadius: theme.Rounding / 2 * scale,
			OnClick:      func(*wgui.RectProps) { setFocused(true) },
			OnMouseOut:   func(*wgui.RectProps) { setFocused(false) },
			OnInput:      func(_ *wgui.RectProps, ev wgui.TextInput) { setText(text + ev.Text) },
			OnKeyDown: func(_ *wgui.RectProps, ev wgui.KeyDown) {
				if ev.Key == wgui.KeyBackspace && text != "" {
					_, n := utf8.DecodeLastRuneInString(text)
					setText(text[:len(text)-n])
				}
			},
		}),
		wgui.Text(wgui.TextProps{
			Text:     shown,
			Position: wgui.V2(l.X+16*scale, l.Y+18*scale),
			FontSize: theme.FontSize * scale,
			Color:    ink,
		}),
	)
}

// swatch is a small gradient shown through the texture array.
func swatch(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(255 * x / size), G: uint8(255 * y / size), B: 180, A: 255})
		}
	}
	return img
}
