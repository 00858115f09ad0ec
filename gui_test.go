package wgui_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/go-theft-auto/wgui"
	"github.com/tanema/gween/ease"
)

// mockBackend records what the scheduler hands to the GPU.
type mockBackend struct {
	draws    []int
	textures map[int]*image.RGBA
	atlas    *image.RGBA
	width    int
	height   int
	drawErr  error
}

func newMockBackend() *mockBackend {
	return &mockBackend{textures: make(map[int]*image.RGBA)}
}

func (m *mockBackend) Draw(instances []float32, count int) error {
	if m.drawErr != nil {
		return m.drawErr
	}
	m.draws = append(m.draws, count)
	return nil
}

func (m *mockBackend) UploadTexture(layer int, img *image.RGBA) error {
	m.textures[layer] = img
	return nil
}

func (m *mockBackend) UploadFontAtlas(img *image.RGBA) error {
	m.atlas = img
	return nil
}

func (m *mockBackend) Resize(width, height int) { m.width, m.height = width, height }

// scriptedSource replays events. Once the script is exhausted it calls idle
// (once), answers polls and frame waits with no event for a bounded number of
// times, and answers a blocking wait with Quit.
type scriptedSource struct {
	events    []wgui.Event
	idle      func()
	timeouts  []time.Duration
	presents  int
	polls     int
	textInput bool
}

func (s *scriptedSource) NextEvent(timeout time.Duration) (wgui.Event, bool) {
	s.timeouts = append(s.timeouts, timeout)
	if len(s.events) > 0 {
		ev := s.events[0]
		s.events = s.events[1:]
		return ev, true
	}
	if s.idle != nil {
		idle := s.idle
		s.idle = nil
		idle()
	}
	if timeout >= 0 && s.polls < 10000 {
		s.polls++
		return nil, false
	}
	return wgui.Quit{}, true
}

func (s *scriptedSource) Present() error {
	s.presents++
	return nil
}

func (s *scriptedSource) StartTextInput() { s.textInput = true }
func (s *scriptedSource) StopTextInput()  { s.textInput = false }

// fakeFont shapes every non-space rune as a size/2 x size quad.
type fakeFont struct {
	atlas *image.RGBA
}

func newFakeFont() *fakeFont {
	return &fakeFont{atlas: image.NewRGBA(image.Rect(0, 0, 4, 4))}
}

func (f *fakeFont) Shape(text string, size float32) (wgui.TextShape, error) {
	var shape wgui.TextShape
	pen := float32(0)
	for _, r := range text {
		if r == '�' {
			return wgui.TextShape{}, &wgui.GlyphError{Rune: r}
		}
		if r != ' ' {
			shape.Glyphs = append(shape.Glyphs, wgui.GlyphShape{
				Position: wgui.V2(pen, 0),
				Size:     wgui.V2(size/2, size),
				UV:       wgui.FullUV,
			})
		}
		pen += size / 2
	}
	shape.Width = pen
	shape.Height = size
	return shape, nil
}

func (f *fakeFont) Atlas() *image.RGBA { return f.atlas }

type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestRunQuitDrawsInitialFrame(t *testing.T) {
	backend := newMockBackend()
	source := &scriptedSource{events: []wgui.Event{wgui.Quit{}}}
	app, err := wgui.New(backend, source, wgui.WithSize(640, 480))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	renders := 0
	err = app.Run(context.Background(), func(s *wgui.Scope) wgui.Node {
		renders++
		return wgui.Rect(s.Next(), wgui.RectProps{})
	})
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if len(backend.draws) != 1 || backend.draws[0] != 1 {
		t.Errorf("expected one draw of 1 instance, got %v", backend.draws)
	}
	if renders != 1 {
		t.Errorf("expected 1 render, got %d", renders)
	}
	if source.presents != 1 {
		t.Errorf("expected 1 present, got %d", source.presents)
	}
	if backend.width != 640 || backend.height != 480 {
		t.Errorf("backend viewport = %dx%d, want 640x480", backend.width, backend.height)
	}
}

func TestRunBlocksWhenIdle(t *testing.T) {
	source := &scriptedSource{events: []wgui.Event{wgui.MouseMotion{X: 1, Y: 1}}}
	app, err := wgui.New(newMockBackend(), source)
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Run(context.Background(), func(s *wgui.Scope) wgui.Node { return wgui.Empty{} }); err != nil {
		t.Fatal(err)
	}
	for i, d := range source.timeouts {
		if d != wgui.WaitForever {
			t.Errorf("wait %d used timeout %v, want blocking", i, d)
		}
	}
}

func TestDispatchDrawsAfterEveryEventWhenIdle(t *testing.T) {
	backend := newMockBackend()
	source := &scriptedSource{}
	app, err := wgui.New(backend, source)
	if err != nil {
		t.Fatal(err)
	}

	var seen []string
	app.Mount(func(s *wgui.Scope) wgui.Node {
		return wgui.Leaf(func(ctx *wgui.Context, ev wgui.Event) wgui.Node {
			switch ev.(type) {
			case wgui.Draw:
				seen = append(seen, "draw")
			case wgui.MouseMotion:
				seen = append(seen, "motion")
			}
			return nil
		})
	})

	if err := app.Dispatch(wgui.MouseMotion{X: 3, Y: 4}); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != "motion" || seen[1] != "draw" {
		t.Errorf("expected [motion draw], got %v", seen)
	}
	if app.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", app.Frames())
	}
}

func TestStateUpdateVisibleInSameFrame(t *testing.T) {
	backend := newMockBackend()
	source := &scriptedSource{events: []wgui.Event{
		wgui.MouseButtonDown{X: 50, Y: 50, Button: wgui.MouseButtonLeft},
		wgui.MouseButtonDown{X: 50, Y: 50, Button: wgui.MouseButtonLeft},
	}}
	app, err := wgui.New(backend, source)
	if err != nil {
		t.Fatal(err)
	}

	var drawn []int
	err = app.Run(context.Background(), func(s *wgui.Scope) wgui.Node {
		count, setCount := wgui.UseState(s, 0)
		return wgui.Group(
			wgui.Rect(s.Next(), wgui.RectProps{
				OnClick: func(*wgui.RectProps) { setCount(count + 1) },
			}),
			wgui.Leaf(func(ctx *wgui.Context, ev wgui.Event) wgui.Node {
				if _, ok := ev.(wgui.Draw); ok {
					drawn = append(drawn, count)
				}
				return nil
			}),
		)
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 2}
	if len(drawn) != len(want) {
		t.Fatalf("drawn counts = %v, want %v", drawn, want)
	}
	for i := range want {
		if drawn[i] != want[i] {
			t.Errorf("frame %d drew count %d, want %d", i, drawn[i], want[i])
		}
	}
	if !source.textInput {
		t.Error("expected click to start text input")
	}
}

func TestNoDrawWhileTaskPending(t *testing.T) {
	backend := newMockBackend()
	gate := make(chan struct{})
	source := &scriptedSource{events: []wgui.Event{
		wgui.MouseMotion{X: 1, Y: 1},
		wgui.MouseMotion{X: 2, Y: 2},
	}}
	var drawsBeforeRelease = -1
	source.idle = func() {
		drawsBeforeRelease = len(backend.draws)
		close(gate)
	}

	app, err := wgui.New(backend, source, wgui.WithTextures(wgui.Deferred(func() (image.Image, error) {
		<-gate
		return solid(8, 8, color.RGBA{R: 255, A: 255}), nil
	})))
	if err != nil {
		t.Fatal(err)
	}
	if app.Tasks().Pending() != 1 {
		t.Fatalf("expected 1 pending task, got %d", app.Tasks().Pending())
	}

	if err := app.Run(context.Background(), func(s *wgui.Scope) wgui.Node {
		return wgui.Rect(s.Next(), wgui.RectProps{Texture: app.Textures()[0]})
	}); err != nil {
		t.Fatal(err)
	}

	if drawsBeforeRelease != 0 {
		t.Errorf("expected no draw while the task was pending, got %d", drawsBeforeRelease)
	}
	if len(backend.draws) != 1 {
		t.Errorf("expected exactly one draw after completion, got %d", len(backend.draws))
	}
	if source.timeouts[0] != 0 {
		t.Errorf("expected a non-blocking poll while pending, got %v", source.timeouts[0])
	}
	if got := app.TextureArray().State(app.Textures()[0]); got != wgui.SlotReady {
		t.Errorf("texture state = %v, want ready", got)
	}
}

func TestFontLoaderDefersFirstFrame(t *testing.T) {
	backend := newMockBackend()
	source := &scriptedSource{}
	font := newFakeFont()
	app, err := wgui.New(backend, source, wgui.WithFontLoader(func() (wgui.Font, error) {
		return font, nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	err = app.Run(context.Background(), func(s *wgui.Scope) wgui.Node {
		return wgui.Text(wgui.TextProps{Text: "ab"})
	})
	if err != nil {
		t.Fatal(err)
	}
	if backend.atlas != font.atlas {
		t.Error("expected font atlas to be uploaded")
	}
	if len(backend.draws) != 1 || backend.draws[0] != 2 {
		t.Errorf("expected one draw with 2 glyphs, got %v", backend.draws)
	}
}

func TestFontLoaderErrorStopsRun(t *testing.T) {
	wantErr := errors.New("no such font")
	app, err := wgui.New(newMockBackend(), &scriptedSource{}, wgui.WithFontLoader(func() (wgui.Font, error) {
		return nil, wantErr
	}))
	if err != nil {
		t.Fatal(err)
	}
	err = app.Run(context.Background(), func(s *wgui.Scope) wgui.Node { return wgui.Empty{} })
	if !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want %v", err, wantErr)
	}
}

func TestRunStopsOnComponentError(t *testing.T) {
	source := &scriptedSource{events: []wgui.Event{wgui.MouseMotion{}}}
	app, err := wgui.New(newMockBackend(), source)
	if err != nil {
		t.Fatal(err)
	}
	err = app.Run(context.Background(), func(s *wgui.Scope) wgui.Node {
		return wgui.Rect(s.Next(), wgui.RectProps{Size: wgui.V2(-1, 10)})
	})
	if !errors.Is(err, wgui.ErrConfig) {
		t.Errorf("Run() error = %v, want ErrConfig", err)
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app, err := wgui.New(newMockBackend(), &scriptedSource{})
	if err != nil {
		t.Fatal(err)
	}
	err = app.Run(ctx, func(s *wgui.Scope) wgui.Node { return wgui.Empty{} })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestResizeUpdatesViewport(t *testing.T) {
	backend := newMockBackend()
	app, err := wgui.New(backend, &scriptedSource{})
	if err != nil {
		t.Fatal(err)
	}
	app.Mount(func(s *wgui.Scope) wgui.Node { return wgui.Rect(s.Next(), wgui.RectProps{}) })
	if err := app.Dispatch(wgui.Resize{Width: 1024, Height: 768}); err != nil {
		t.Fatal(err)
	}
	if backend.width != 1024 || backend.height != 768 {
		t.Errorf("backend viewport = %dx%d", backend.width, backend.height)
	}
	if got := app.Batch().Instance(0).Viewport; got != wgui.V2(1024, 768) {
		t.Errorf("instance viewport = %v, want 1024x768", got)
	}
}

func TestTransitionKeepsDrawing(t *testing.T) {
	backend := newMockBackend()
	clock := &fakeClock{t: time.Unix(0, 0), step: 10 * time.Millisecond}
	source := &scriptedSource{events: []wgui.Event{wgui.MouseButtonDown{X: 1, Y: 1}}}
	app, err := wgui.New(backend, source, wgui.WithClock(clock.Now), wgui.WithFrameInterval(time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	var last float32
	err = app.Run(context.Background(), func(s *wgui.Scope) wgui.Node {
		target, setTarget := wgui.UseState(s, float32(0))
		value := wgui.UseTransition(s, target, 100*time.Millisecond, ease.Linear)
		return wgui.Leaf(func(ctx *wgui.Context, ev wgui.Event) wgui.Node {
			switch ev.(type) {
			case wgui.MouseButtonDown:
				setTarget(1)
			case wgui.Draw:
				last = value
			}
			return nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if last != 1 {
		t.Errorf("final value = %v, want 1", last)
	}
	if len(backend.draws) < 5 {
		t.Errorf("expected the transition to produce several frames, got %d", len(backend.draws))
	}
	if app.Hooks().Animating() {
		t.Error("expected transition to be finished")
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	_, err := wgui.New(newMockBackend(), &scriptedSource{}, wgui.WithSize(0, 100))
	var cfg *wgui.ConfigError
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfg.Field != "window size" {
		t.Errorf("Field = %q", cfg.Field)
	}
}
