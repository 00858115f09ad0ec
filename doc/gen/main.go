// Command gen renders sample component trees through the software backend
// and saves PNG screenshots to doc/imgs/.
//
// Usage:
//
//	go run ./doc/gen/
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
	"time"

	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/go-theft-auto/wgui"
	"github.com/go-theft-auto/wgui/atlas"
	"github.com/go-theft-auto/wgui/backend/software"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// screenshot defines a single component tree to capture.
type screenshot struct {
	name     string         // filename without extension
	width    int            // viewport width
	height   int            // viewport height
	root     wgui.Component // tree to render
	events   []wgui.Event   // input replayed before the capture
	textures []wgui.TextureSource
}

func run() error {
	outDir := flag.String("out", filepath.Join("doc", "imgs"), "output directory")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()
	wgui.SetLogLevel(wgui.ResolveLogLevel(*logLevel))

	opts := atlas.DefaultOptions()
	opts.FontSize = 48
	opts.Gap = 4
	opts.Radius = 6
	font, err := atlas.Build(goregular.TTF, opts)
	if err != nil {
		return fmt.Errorf("build atlas: %w", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	shots := buildScreenshots()
	for _, s := range shots {
		img, err := capture(s, font)
		if err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		if err := save(filepath.Join(*outDir, s.name+".png"), img); err != nil {
			return err
		}
		fmt.Printf("  %s.png (%dx%d)\n", s.name, s.width, s.height)
	}

	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(shots), *outDir)
	return nil
}

// replay feeds the scripted events, then lets pending work and animations
// settle before quitting.
type replay struct {
	events []wgui.Event
	idle   int
}

const maxIdleFrames = 240

func (r *replay) NextEvent(timeout time.Duration) (wgui.Event, bool) {
	if len(r.events) > 0 {
		ev := r.events[0]
		r.events = r.events[1:]
		return ev, true
	}
	if timeout != wgui.WaitForever && r.idle < maxIdleFrames {
		r.idle++
		return nil, false
	}
	return wgui.Quit{}, true
}

func capture(s screenshot, font wgui.Font) (*image.RGBA, error) {
	renderer, err := software.New(s.width, s.height, software.WithClearColor(theme.Background))
	if err != nil {
		return nil, err
	}

	// Each frame advances the clock by 1/60 s so transitions finish.
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(time.Second / 60)
		return now
	}
	app, err := wgui.New(renderer, &replay{events: s.events},
		wgui.WithSize(s.width, s.height),
		wgui.WithFont(font),
		wgui.WithTextures(s.textures...),
		wgui.WithClock(clock),
		wgui.WithStrictHooks(),
	)
	if err != nil {
		return nil, err
	}
	if err := app.Run(context.Background(), s.root); err != nil {
		return nil, err
	}
	return renderer.Image(), nil
}

func save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

var (
	theme  = wgui.DarkTheme()
	blue   = theme.Button
	light  = theme.ButtonHover
	green  = wgui.RGBA8(51, 179, 115, 255)
	orange = theme.TextAccent
	panel  = theme.InputFocused
)

func buildScreenshots() []screenshot {
	return []screenshot{
		{
			name: "rects", width: 420, height: 140,
			root: func(s *wgui.Scope) wgui.Node {
				return wgui.Group(
					wgui.Rect(s.Next(), wgui.RectProps{Color: blue, Position: wgui.V2(20, 20), Size: wgui.V2(100, 100)}),
					wgui.Rect(s.Next(), wgui.RectProps{Color: green, Position: wgui.V2(160, 20), Size: wgui.V2(100, 100), BorderRadius: 16}),
					wgui.Rect(s.Next(), wgui.RectProps{Color: orange, Position: wgui.V2(300, 20), Size: wgui.V2(100, 100), BorderRadius: 50}),
				)
			},
		},
		{
			name: "text", width: 420, height: 160,
			root: func(s *wgui.Scope) wgui.Node {
				return wgui.Group(
					wgui.Text(wgui.TextProps{Text: "Signed distance text", Position: wgui.V2(20, 20), FontSize: 14}),
					wgui.Text(wgui.TextProps{Text: "Signed distance text", Position: wgui.V2(20, 50), FontSize: 24}),
					wgui.Text(wgui.TextProps{Text: "Sharp at 48px", Position: wgui.V2(20, 95), FontSize: 48, Color: light}),
				)
			},
		},
		{
			name: "hover", width: 300, height: 120,
			root:   button,
			events: []wgui.Event{wgui.MouseMotion{X: 60, Y: 60}, wgui.MouseButtonDown{X: 60, Y: 60}},
		},
		{
			name: "themes", width: 420, height: 190,
			root: themes,
		},
		{
			name: "layout", width: 420, height: 140,
			root: layoutRow(),
		},
		{
			name: "textures", width: 300, height: 140,
			textures: []wgui.TextureSource{
				wgui.Image(gradient(64)),
				wgui.LoadImage(filepath.Join("doc", "missing.png")),
			},
			root: func(s *wgui.Scope) wgui.Node {
				return wgui.Group(
					wgui.Rect(s.Next(), wgui.RectProps{Texture: wgui.TextureLayer(0), Position: wgui.V2(20, 20), Size: wgui.V2(100, 100), BorderRadius: 12}),
					wgui.Rect(s.Next(), wgui.RectProps{Texture: wgui.TextureLayer(1), Position: wgui.V2(180, 20), Size: wgui.V2(100, 100)}),
				)
			},
		},
	}
}

// button is the counter from the example, captured after a hover and a click.
func button(s *wgui.Scope) wgui.Node {
	count, setCount := wgui.UseState(s, 0)
	hovered, setHovered := wgui.UseState(s, false)
	target := blue
	if hovered {
		target = light
	}
	fill := wgui.UseColorTransition(s, target, 150*time.Millisecond, ease.OutQuad)
	return wgui.Group(
		wgui.Rect(s.Next(), wgui.RectProps{
			Color:        fill,
			Position:     wgui.V2(20, 20),
			Size:         wgui.V2(260, 80),
			BorderRadius: 16,
			OnMouseOver:  func(*wgui.RectProps) { setHovered(true) },
			OnMouseOut:   func(*wgui.RectProps) { setHovered(false) },
			OnClick:      func(*wgui.RectProps) { setCount(count + 1) },
		}),
		wgui.Text(wgui.TextProps{Text: wgui.TextOf("Clicked ", count, " times"), Position: wgui.V2(44, 48), FontSize: 22}),
	)
}

// themes shows a button and an input of each built-in theme on its background.
func themes(s *wgui.Scope) wgui.Node {
	list := []struct {
		name string
		t    wgui.Theme
	}{
		{"default", wgui.DefaultTheme()},
		{"gta", wgui.GTATheme()},
		{"dark", wgui.DarkTheme()},
		{"light", wgui.LightTheme()},
	}
	nodes := make([]wgui.Node, 0, len(list)*5)
	for i, e := range list {
		x := float32(i) * 105
		nodes = append(nodes,
			wgui.Rect(s.Next(), wgui.RectProps{Color: e.t.Background, Position: wgui.V2(x, 0), Size: wgui.V2(105, 190)}),
			wgui.Text(wgui.TextProps{Text: e.name, Position: wgui.V2(x+10, 12), FontSize: 16, Color: e.t.Text}),
			wgui.Rect(s.Next(), wgui.RectProps{Color: e.t.Button, Position: wgui.V2(x+10, 50), Size: wgui.V2(85, 50), BorderRadius: e.t.Rounding}),
			wgui.Rect(s.Next(), wgui.RectProps{Color: e.t.Input, Position: wgui.V2(x+10, 120), Size: wgui.V2(85, 50), BorderRadius: e.t.Rounding / 2}),
			wgui.Text(wgui.TextProps{Text: "abc", Position: wgui.V2(x+18, 136), FontSize: 14, Color: e.t.TextMuted}),
		)
	}
	return wgui.Group(nodes...)
}

// layoutRow lays out a fixed, a percent and two fr children in a row.
func layoutRow() wgui.Component {
	doc := wgui.NewDocument(wgui.Style{
		Width: wgui.Percent(100), Height: wgui.Percent(100),
		Direction: wgui.DirectionRow, Gap: 10, Padding: 20,
	}, wgui.V2(420, 140))
	ids := []string{"fixed", "percent", "fr1", "fr2"}
	styles := []wgui.Style{
		{Width: wgui.Px(60)},
		{Width: wgui.Percent(25)},
		{Width: wgui.Fr(1)},
		{Width: wgui.Fr(2)},
	}
	colors := []wgui.Vec4{blue, green, orange, panel}
	for i, id := range ids {
		if err := doc.AddChild(id, styles[i]); err != nil {
			panic(err)
		}
	}
	return func(s *wgui.Scope) wgui.Node {
		nodes := make([]wgui.Node, 0, len(ids)*2)
		for i, id := range ids {
			l, err := doc.Child(id)
			if err != nil {
				s.Fail(err)
				return wgui.Empty{}
			}
			nodes = append(nodes,
				wgui.Rect(s.Next(), wgui.RectProps{Color: colors[i], Position: wgui.V2(l.X, l.Y), Size: wgui.V2(l.Width, l.Height), BorderRadius: 6}),
				wgui.Text(wgui.TextProps{Text: id, Position: wgui.V2(l.X+6, l.Y+8), FontSize: 14}),
			)
		}
		return wgui.Group(nodes...)
	}
}

func gradient(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(255 * x / size), G: uint8(255 * y / size), B: 180, A: 255})
		}
	}
	return img
}
