package wgui

import (
	"fmt"
	"strings"
)

// DefaultFontSize is used when TextProps.FontSize is zero.
const DefaultFontSize = 16

// TextProps configures a Text node.
type TextProps struct {
	Text     string
	Position Vec2
	FontSize float32
	Color    Vec4
}

// TextOf joins parts into one string, formatting non-string parts with %v.
// It mirrors how text children are concatenated.
func TextOf(parts ...any) string {
	var sb strings.Builder
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			sb.WriteString(v)
		default:
			fmt.Fprint(&sb, v)
		}
	}
	return sb.String()
}

// Text draws a string on Draw events. Nothing is drawn until the batch has a
// font; shaping errors fail the pass.
func Text(props TextProps) Node {
	if props.FontSize == 0 {
		props.FontSize = DefaultFontSize
	}
	if props.Color == (Vec4{}) {
		props.Color = White
	}
	if props.FontSize < 0 {
		err := &ConfigError{Field: "font size", Reason: fmt.Sprintf("negative size %v", props.FontSize)}
		return Leaf(func(ctx *Context, _ Event) Node {
			ctx.Fail(err)
			return nil
		})
	}
	return Leaf(func(ctx *Context, ev Event) Node {
		if _, ok := ev.(Draw); !ok {
			return nil
		}
		b := ctx.Batch()
		if b == nil || !b.FontReady() {
			return nil
		}
		ctx.Fail(b.Text(props.Text, props.Position, props.FontSize, props.Color))
		return nil
	})
}
