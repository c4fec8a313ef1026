// Package physics holds the axis-aligned geometry used by the simulation:
// rectangles, velocity-bearing rectangles, swept collision tests and
// hit-scan rays. Everything here is pure arithmetic; no function mutates
// its inputs and no collision policy lives in this package.
package physics

import "math"

// Entity is an axis-aligned rectangle in world units.
// Y grows downward, so Bottom is the larger Y edge.
type Entity struct {
	X      float32 `json:"x" yaml:"x"`
	Y      float32 `json:"y" yaml:"y"`
	Width  float32 `json:"width" yaml:"width"`
	Height float32 `json:"height" yaml:"height"`
}

// Right returns the X coordinate of the right edge.
func (e Entity) Right() float32 { return e.X + e.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (e Entity) Bottom() float32 { return e.Y + e.Height }

// Center returns the midpoint of the rectangle.
func (e Entity) Center() (float32, float32) {
	return e.X + e.Width*0.5, e.Y + e.Height*0.5
}

// Intersects reports whether two rectangles overlap with positive area.
// Touching edges do not count.
func (e Entity) Intersects(o Entity) bool {
	return e.X < o.Right() &&
		e.Right() > o.X &&
		e.Y < o.Bottom() &&
		e.Bottom() > o.Y
}

// DynamicEntity is a rectangle with a per-tick velocity and a weight that
// divides every force applied to it.
type DynamicEntity struct {
	Entity
	DX     float32
	DY     float32
	Weight float32
}

// Finite reports whether position and velocity are all finite numbers.
func (d DynamicEntity) Finite() bool {
	for _, v := range [...]float32{d.X, d.Y, d.Width, d.Height, d.DX, d.DY} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Bounds is the playfield of a room. The minimum corner is always (0, 0).
type Bounds struct {
	XMax float32 `json:"xMax" yaml:"x_max"`
	YMax float32 `json:"yMax" yaml:"y_max"`
}
