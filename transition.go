package wgui

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type transitionCell struct {
	tween *gween.Tween
	value float32
	to    float32
}

// UseTransition returns a value that eases toward target over duration.
// The first render returns target directly. Whenever target changes, a new
// tween starts from the current value. Tweens advance on draw passes only;
// while one is running the scheduler keeps producing frames.
func UseTransition(s *Scope, target float32, duration time.Duration, fn ease.TweenFunc) float32 {
	c := useCell(s, "transition", func() *transitionCell {
		return &transitionCell{value: target, to: target}
	})
	if target != c.to {
		if fn == nil {
			fn = ease.Linear
		}
		c.tween = gween.New(c.value, target, float32(duration.Seconds()), fn)
		c.to = target
	}
	if c.tween == nil {
		return c.value
	}
	v, done := c.tween.Update(float32(s.store.delta.Seconds()))
	c.value = v
	if done {
		c.value = c.to
		c.tween = nil
	} else {
		s.store.animating = true
	}
	return c.value
}

// UseColorTransition eases every channel of a color toward target.
func UseColorTransition(s *Scope, target Vec4, duration time.Duration, fn ease.TweenFunc) Vec4 {
	return Vec4{
		X: UseTransition(s, target.X, duration, fn),
		Y: UseTransition(s, target.Y, duration, fn),
		Z: UseTransition(s, target.Z, duration, fn),
		W: UseTransition(s, target.W, duration, fn),
	}
}
