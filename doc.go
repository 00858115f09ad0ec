/*
Package wgui is a small declarative UI toolkit that draws rectangles and
signed-distance-field text through a single instanced GPU draw per frame.

# Overview

A UI is a Component: a function from a *Scope to a Node tree. The App calls the
root component again for every input event, dispatches the event through the
tree it returns, and then synthesizes a Draw event so the same tree fills the
instance batch for the frame.

	app, err := wgui.New(renderer, window, wgui.WithSize(800, 600), wgui.WithFont(font))
	if err != nil {
	    return err
	}
	return app.Run(ctx, func(s *wgui.Scope) wgui.Node {
	    count, setCount := wgui.UseState(s, 0)
	    return wgui.Group(
	        wgui.Rect(s.Next(), wgui.RectProps{
	            Position: wgui.V2(20, 20),
	            OnClick:  func(*wgui.RectProps) { setCount(count + 1) },
	        }),
	        wgui.Text(wgui.TextProps{Text: wgui.TextOf("clicked ", count), Position: wgui.V2(20, 140)}),
	    )
	})

# Hooks

State lives in a HookStore keyed by component identity. Each Scope numbers
the hooks called through it, so a component must call the same hooks in the
same order on every render. Child components get their own scope through
Scope.Next (mount position) or Scope.Key (explicit key, stable across
reordering). State of components that were not rendered in a pass is dropped.

	UseState       value plus setter; the setter writes the cell and schedules nothing
	UseEffect      runs when its dependencies change, or on every render for nil deps
	UseTransition  eases a float toward a target on Draw passes

# Frame scheduling

The App blocks for input while no asynchronous task is outstanding and polls
otherwise. Texture loads and font loading run as tasks; their results are
applied on the loop goroutine and the next frame is drawn once the last one
completes. While a transition is running the App wakes at the frame interval.

# Rendering

Every visible primitive becomes one 16-float instance record (see Batch). A
Backend turns the records into pixels; backend/opengl draws them with OpenGL
4.1 and backend/software rasterizes them into an image for tests and
screenshots. Glyph quads sample an SDF atlas built by the atlas package.

# Themes

Theme holds a palette and sizing. The App never applies it; components pick
colors from it, for example DarkTheme().Button for an idle button fill.

# Logging

The package logs through log/slog. SetVerbose enables debug output and
SetLogger replaces the handler.
*/
package wgui
