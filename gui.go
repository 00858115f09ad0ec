package wgui

import (
	"context"
	"fmt"
	"time"
)

// WaitForever makes EventSource.NextEvent block until an event arrives.
const WaitForever time.Duration = -1

// EventSource delivers input events in arrival order.
type EventSource interface {
	// NextEvent returns the next event. A negative timeout blocks until one
	// arrives, zero polls, and a positive timeout waits at most that long.
	// ok is false when no event was available.
	NextEvent(timeout time.Duration) (ev Event, ok bool)
}

// Presenter is implemented by event sources that own a swap chain. Present is
// called after every flushed frame.
type Presenter interface {
	Present() error
}

// Waker is implemented by event sources whose blocking wait can be
// interrupted from another goroutine.
type Waker interface {
	Wake()
}

// App runs the frame scheduler: it re-renders the root component for every
// event, dispatches the event through the resulting tree and draws a frame
// whenever no asynchronous task is outstanding.
type App struct {
	backend  Backend
	source   EventSource
	hooks    *HookStore
	tasks    *Tasks
	batch    *Batch
	textures *TextureArray
	ctx      *Context
	root     Component

	width, height int
	capacity      int
	overflow      OverflowPolicy
	layers        int
	layerW        int
	layerH        int
	frameInterval time.Duration
	yieldInterval time.Duration
	strict        bool
	sources       []TextureSource
	handles       []Texture
	font          Font
	fontLoader    func() (Font, error)
	now           func() time.Time
	lastDraw      time.Time
	frames        int
	err           error
}

// Option configures an App.
type Option func(*App)

// WithSize sets the initial viewport size.
func WithSize(width, height int) Option {
	return func(a *App) { a.width, a.height = width, height }
}

// WithInstanceCapacity sets the instance buffer capacity.
func WithInstanceCapacity(n int) Option {
	return func(a *App) { a.capacity = n }
}

// WithOverflow selects what happens when the instance buffer is full.
func WithOverflow(p OverflowPolicy) Option {
	return func(a *App) { a.overflow = p }
}

// WithTextureLayers sets the depth and layer size of the texture array.
func WithTextureLayers(layers, width, height int) Option {
	return func(a *App) { a.layers, a.layerW, a.layerH = layers, width, height }
}

// WithTextures requests images at startup. Source i lands in layer i.
func WithTextures(sources ...TextureSource) Option {
	return func(a *App) { a.sources = append(a.sources, sources...) }
}

// WithFont installs a ready font.
func WithFont(f Font) Option {
	return func(a *App) { a.font = f }
}

// WithFontLoader loads the font as an asynchronous task. No frame is drawn
// until it completes.
func WithFontLoader(load func() (Font, error)) Option {
	return func(a *App) { a.fontLoader = load }
}

// WithStrictHooks fails a pass when a component changes its hook order.
func WithStrictHooks() Option {
	return func(a *App) { a.strict = true }
}

// WithFrameInterval sets the wait between frames while a transition runs.
func WithFrameInterval(d time.Duration) Option {
	return func(a *App) { a.frameInterval = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// New creates an App drawing through backend and reading events from source.
func New(backend Backend, source EventSource, opts ...Option) (*App, error) {
	a := &App{
		backend:       backend,
		source:        source,
		width:         800,
		height:        600,
		capacity:      DefaultInstanceCapacity,
		layers:        DefaultTextureLayers,
		layerW:        DefaultTextureSize,
		layerH:        DefaultTextureSize,
		frameInterval: time.Second / 60,
		yieldInterval: time.Millisecond,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.width <= 0 || a.height <= 0 {
		return nil, &ConfigError{Field: "window size", Reason: fmt.Sprintf("must be positive, got %dx%d", a.width, a.height)}
	}

	var wake func()
	if w, ok := source.(Waker); ok {
		wake = w.Wake
	}
	a.tasks = NewTasks(wake)
	a.hooks = NewHookStore()
	a.hooks.SetStrict(a.strict)

	var err error
	if a.batch, err = NewBatch(backend, a.capacity, a.overflow); err != nil {
		return nil, err
	}
	a.batch.Resize(a.width, a.height)
	if a.textures, err = NewTextureArray(backend, a.tasks, a.layers, a.layerW, a.layerH); err != nil {
		return nil, err
	}
	text, _ := source.(TextInputController)
	a.ctx = NewContext(a.batch, a.textures, a.tasks, text)

	if a.font != nil {
		if err := a.batch.SetFont(a.font); err != nil {
			return nil, err
		}
	}
	if a.fontLoader != nil {
		load := a.fontLoader
		a.tasks.Go("font", func() func() {
			f, err := load()
			return func() {
				if err != nil {
					a.fail(fmt.Errorf("load font: %w", err))
					return
				}
				a.fail(a.batch.SetFont(f))
			}
		})
	}
	if len(a.sources) > 0 {
		if a.handles, err = a.textures.Set(a.sources...); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Textures returns the handles of the images passed to WithTextures.
func (a *App) Textures() []Texture { return a.handles }

// Batch returns the instance batch.
func (a *App) Batch() *Batch { return a.batch }

// TextureArray returns the texture manager.
func (a *App) TextureArray() *TextureArray { return a.textures }

// Tasks returns the task tracker.
func (a *App) Tasks() *Tasks { return a.tasks }

// Hooks returns the hook store.
func (a *App) Hooks() *HookStore { return a.hooks }

// Frames returns the number of frames drawn.
func (a *App) Frames() int { return a.frames }

// Mount sets the root component.
func (a *App) Mount(root Component) { a.root = root }

// Run mounts root and processes events until a Quit event, an error, or
// cancellation of ctx. It returns nil on Quit.
func (a *App) Run(ctx context.Context, root Component) error {
	a.Mount(root)
	if a.tasks.Pending() == 0 {
		if err := a.draw(0); err != nil {
			return err
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.tasks.Pending() > 0 && a.tasks.Drain() > 0 {
			if err := a.tasksApplied(); err != nil {
				return err
			}
		}

		ev, ok := a.source.NextEvent(a.waitTimeout())
		if !ok {
			switch {
			case a.tasks.Pending() > 0:
				if a.tasks.Wait(a.yieldInterval) > 0 {
					if err := a.tasksApplied(); err != nil {
						return err
					}
				}
			case a.hooks.Animating():
				if err := a.draw(a.sinceLastDraw()); err != nil {
					return err
				}
			}
			continue
		}
		if _, quit := ev.(Quit); quit {
			Logger().Debug("quit requested", "frames", a.frames)
			return nil
		}
		if err := a.Dispatch(ev); err != nil {
			return err
		}
	}
}

// Dispatch processes one event: it re-renders the root, dispatches ev through
// the tree and, when no task is outstanding, draws a frame in the same call.
// Draw events draw directly. Quit is ignored; Run handles it.
func (a *App) Dispatch(ev Event) error {
	if a.root == nil {
		return &ConfigError{Field: "root", Reason: "no component mounted"}
	}
	switch ev := ev.(type) {
	case Quit:
		return nil
	case Draw:
		return a.draw(ev.Delta)
	case Resize:
		a.batch.Resize(ev.Width, ev.Height)
	}
	if err := a.pass(ev, 0); err != nil {
		return err
	}
	if a.tasks.Pending() == 0 {
		return a.draw(a.sinceLastDraw())
	}
	return nil
}

func (a *App) pass(ev Event, delta time.Duration) error {
	tree := a.root(a.hooks.BeginPass(delta))
	if err := a.hooks.Err(); err != nil {
		a.hooks.EndPass()
		return fmt.Errorf("render: %w", err)
	}
	a.ctx.reset()
	Dispatch(a.ctx, tree, ev)
	hookErr := a.hooks.EndPass()
	if err := a.ctx.Err(); err != nil {
		return fmt.Errorf("dispatch %T: %w", ev, err)
	}
	if hookErr != nil {
		return fmt.Errorf("render: %w", hookErr)
	}
	return nil
}

func (a *App) draw(delta time.Duration) error {
	if err := a.pass(Draw{Delta: delta}, delta); err != nil {
		return err
	}
	if err := a.batch.Flush(); err != nil {
		return err
	}
	a.lastDraw = a.now()
	a.frames++
	if p, ok := a.source.(Presenter); ok {
		if err := p.Present(); err != nil {
			return fmt.Errorf("present: %w", err)
		}
	}
	return nil
}

// tasksApplied runs after completions were applied. It surfaces their errors
// and draws once the last task is done.
func (a *App) tasksApplied() error {
	if err := a.textures.Err(); err != nil {
		return err
	}
	if a.err != nil {
		return a.err
	}
	if a.tasks.Pending() == 0 {
		return a.draw(a.sinceLastDraw())
	}
	return nil
}

func (a *App) waitTimeout() time.Duration {
	switch {
	case a.tasks.Pending() > 0:
		return 0
	case a.hooks.Animating():
		return a.frameInterval
	default:
		return WaitForever
	}
}

func (a *App) sinceLastDraw() time.Duration {
	if a.lastDraw.IsZero() {
		return 0
	}
	return a.now().Sub(a.lastDraw)
}

func (a *App) fail(err error) {
	if err != nil && a.err == nil {
		a.err = err
	}
}
