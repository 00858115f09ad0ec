package wgui

import "fmt"

// RectProps configures a Rect. Zero values select the defaults: white, 100x100,
// square corners, full UV range and no texture.
type RectProps struct {
	Color        Vec4
	Position     Vec2
	Size         Vec2
	BorderRadius float32
	Texture      Texture
	UV           Vec4

	// NoColor keeps a zero Color instead of defaulting to white.
	NoColor bool

	OnMouseOver   func(p *RectProps)
	OnMouseOut    func(p *RectProps)
	OnClick       func(p *RectProps)
	OnInput       func(p *RectProps, ev TextInput)
	OnKeyDown     func(p *RectProps, ev KeyDown)
	OnMouseScroll func(p *RectProps, ev MouseWheel)
}

// Default rectangle size when RectProps.Size is zero.
var DefaultRectSize = Vec2{100, 100}

func (p *RectProps) applyDefaults() error {
	if p.Color == (Vec4{}) && !p.NoColor {
		p.Color = White
	}
	if p.Size == (Vec2{}) {
		p.Size = DefaultRectSize
	}
	if p.UV == (Vec4{}) {
		p.UV = FullUV
	}
	if p.Size.X < 0 || p.Size.Y < 0 {
		return &ConfigError{Field: "rect size", Reason: fmt.Sprintf("negative size %vx%v", p.Size.X, p.Size.Y)}
	}
	if p.BorderRadius < 0 {
		return &ConfigError{Field: "border radius", Reason: fmt.Sprintf("negative radius %v", p.BorderRadius)}
	}
	return nil
}

// Bounds returns the hit-test box of the rectangle.
func (p *RectProps) Bounds() Bounds { return Bounds{Position: p.Position, Size: p.Size} }

// Rect is an interactive rectangle. It keeps mouseOver and focused state in
// two hooks of s and routes input to the handlers in props:
//
//   - MouseMotion or MouseButtonDown inside the box (edges included) fires
//     OnMouseOver when the pointer was not already over it.
//   - MouseButtonDown inside fires OnClick, focuses the rect and starts text
//     input.
//   - Motion or a press outside after being over it clears both flags, stops
//     text input and fires OnMouseOut.
//   - While focused, TextInput goes to OnInput and KeyDown to OnKeyDown.
//   - MouseWheel goes to OnMouseScroll while the pointer is over it.
//
// Border radius is ignored for hit-testing.
func Rect(s *Scope, props RectProps) Node {
	if err := props.applyDefaults(); err != nil {
		s.Fail(err)
		return Empty{}
	}
	focused, setFocused := UseState(s, false)
	mouseOver, setMouseOver := UseState(s, false)
	p := &props

	return Leaf(func(ctx *Context, ev Event) Node {
		switch ev := ev.(type) {
		case MouseWheel:
			if mouseOver && p.OnMouseScroll != nil {
				p.OnMouseScroll(p, ev)
			}
		case MouseMotion:
			p.route(ctx, Vec2{ev.X, ev.Y}, false, mouseOver, setMouseOver, setFocused)
		case MouseButtonDown:
			p.route(ctx, Vec2{ev.X, ev.Y}, true, mouseOver, setMouseOver, setFocused)
		case TextInput:
			if focused && p.OnInput != nil {
				p.OnInput(p, ev)
			}
		case KeyDown:
			if focused && p.OnKeyDown != nil {
				p.OnKeyDown(p, ev)
			}
		case Draw:
			if b := ctx.Batch(); b != nil {
				ctx.Fail(b.TexturedRect(p.Texture, p.Color, p.Position, p.Size, p.BorderRadius, p.UV))
			}
		}
		return nil
	})
}

func (p *RectProps) route(ctx *Context, pt Vec2, pressed, mouseOver bool, setMouseOver, setFocused func(bool)) {
	if p.Bounds().Contains(pt) {
		if !mouseOver && p.OnMouseOver != nil {
			p.OnMouseOver(p)
		}
		setMouseOver(true)
		if pressed {
			if p.OnClick != nil {
				p.OnClick(p)
			}
			setFocused(true)
			ctx.StartTextInput()
		}
		return
	}
	if mouseOver {
		setMouseOver(false)
		setFocused(false)
		ctx.StopTextInput()
		if p.OnMouseOut != nil {
			p.OnMouseOut(p)
		}
	}
}
