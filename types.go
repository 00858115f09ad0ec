package wgui

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used by Equals on vectors.
const Epsilon = 0.001

// Vec2 is an immutable 2D vector used for positions and sizes.
type Vec2 struct {
	X, Y float32
}

// V2 is shorthand for Vec2{X: x, Y: y}.
func V2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Add returns the sum of two vectors.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns the difference of two vectors.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns the vector multiplied by s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Length returns the Euclidean length.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalize returns a unit vector pointing the same way.
// The zero vector normalizes to itself.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) float32 { return v.X*o.Y - v.Y*o.X }

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Distance returns the distance between two points.
func (v Vec2) Distance(o Vec2) float32 { return v.Sub(o).Length() }

// Lerp interpolates linearly from v to o.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 { return v.Add(o.Sub(v).Scale(t)) }

// EqualsEpsilon reports whether every component differs by less than eps.
func (v Vec2) EqualsEpsilon(o Vec2, eps float32) bool {
	return mgl32.Abs(v.X-o.X) < eps && mgl32.Abs(v.Y-o.Y) < eps
}

// Equals compares with the package Epsilon.
func (v Vec2) Equals(o Vec2) bool { return v.EqualsEpsilon(o, Epsilon) }

// MGL converts to a mathgl vector.
func (v Vec2) MGL() mgl32.Vec2 { return mgl32.Vec2{v.X, v.Y} }

// Vec4 is an immutable 4D vector. It doubles as an RGBA color and as a UV
// rectangle (X, Y minimum corner; Z, W size).
type Vec4 struct {
	X, Y, Z, W float32
}

// V4 is shorthand for Vec4{X: x, Y: y, Z: z, W: w}.
func V4(x, y, z, w float32) Vec4 { return Vec4{x, y, z, w} }

// RGBA builds a color from float components in [0, 1].
func RGBA(r, g, b, a float32) Vec4 { return Vec4{r, g, b, a} }

// Common colors.
var (
	White       = Vec4{1, 1, 1, 1}
	Black       = Vec4{0, 0, 0, 1}
	Transparent = Vec4{}
)

// FullUV covers a whole texture.
var FullUV = Vec4{0, 0, 1, 1}

func (v Vec4) Add(o Vec4) Vec4 { return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W} }

func (v Vec4) Sub(o Vec4) Vec4 { return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W} }

func (v Vec4) Scale(s float32) Vec4 { return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

func (v Vec4) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)))
}

func (v Vec4) Normalize() Vec4 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec4{v.X / l, v.Y / l, v.Z / l, v.W / l}
}

// Cross returns the cross product of the xyz parts with W set to zero.
func (v Vec4) Cross(o Vec4) Vec4 {
	return Vec4{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
		0,
	}
}

func (v Vec4) Dot(o Vec4) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W }

func (v Vec4) Distance(o Vec4) float32 { return v.Sub(o).Length() }

func (v Vec4) Lerp(o Vec4, t float32) Vec4 { return v.Add(o.Sub(v).Scale(t)) }

func (v Vec4) EqualsEpsilon(o Vec4, eps float32) bool {
	return mgl32.Abs(v.X-o.X) < eps && mgl32.Abs(v.Y-o.Y) < eps &&
		mgl32.Abs(v.Z-o.Z) < eps && mgl32.Abs(v.W-o.W) < eps
}

func (v Vec4) Equals(o Vec4) bool { return v.EqualsEpsilon(o, Epsilon) }

// MGL converts to a mathgl vector.
func (v Vec4) MGL() mgl32.Vec4 { return mgl32.Vec4{v.X, v.Y, v.Z, v.W} }

// Bounds is an axis-aligned box given by its top-left corner and size.
type Bounds struct {
	Position Vec2
	Size     Vec2
}

// Contains reports whether p lies inside the box. Both edges are inclusive,
// so the corners Position and Position+Size are inside.
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.Position.X && p.X <= b.Position.X+b.Size.X &&
		p.Y >= b.Position.Y && p.Y <= b.Position.Y+b.Size.Y
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec2 { return b.Position.Add(b.Size.Scale(0.5)) }

// Viewport describes the window area and its anchor points.
type Viewport struct {
	Width, Height float32
}

func (l Viewport) Center() Vec2      { return Vec2{l.Width / 2, l.Height / 2} }
func (l Viewport) TopLeft() Vec2     { return Vec2{} }
func (l Viewport) TopRight() Vec2    { return Vec2{l.Width, 0} }
func (l Viewport) BottomLeft() Vec2  { return Vec2{0, l.Height} }
func (l Viewport) BottomRight() Vec2 { return Vec2{l.Width, l.Height} }
