// Package core provides fundamental types shared by the simulation and the
// platforms that present it. It has no external dependencies so the engine
// stays pure and testable.
package core

import "math"

// Vec2 is a 2D vector in field units.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Norm returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec2) Norm() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Angle returns the heading of v in radians.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle returns the unit vector pointing at angle a.
func FromAngle(a float64) Vec2 {
	return Vec2{math.Cos(a), math.Sin(a)}
}

// Bounds is an axis-aligned playfield area in field units.
type Bounds struct {
	Min, Max Vec2
}

// NewBounds returns bounds spanning (0,0) to (w,h).
func NewBounds(w, h float64) Bounds {
	return Bounds{Max: Vec2{w, h}}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Contains reports whether p lies inside the bounds expanded by margin.
func (b Bounds) Contains(p Vec2, margin float64) bool {
	return p.X >= b.Min.X-margin && p.X <= b.Max.X+margin &&
		p.Y >= b.Min.Y-margin && p.Y <= b.Max.Y+margin
}

// Clamp moves p to the nearest point inside the bounds.
func (b Bounds) Clamp(p Vec2) Vec2 {
	return Vec2{ClampF(p.X, b.Min.X, b.Max.X), ClampF(p.Y, b.Min.Y, b.Max.Y)}
}

// Rect represents an integer cell rectangle on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
