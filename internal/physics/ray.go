package physics

import (
	"errors"
	"math"
)

// ErrDegenerateRay is returned when a ray would have no direction.
var ErrDegenerateRay = errors.New("physics: ray target coincides with origin")

// Ray is a half-line with a unit direction.
type Ray struct {
	OriginX float32
	OriginY float32
	DirX    float32
	DirY    float32
}

// RayToward builds a ray from the center of from toward the point (x, y).
func RayToward(from Entity, x, y float32) (Ray, error) {
	ox, oy := from.Center()

	dx := x - ox
	dy := y - oy
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist == 0 || math.IsNaN(float64(dist)) || math.IsInf(float64(dist), 0) {
		return Ray{}, ErrDegenerateRay
	}

	return Ray{
		OriginX: ox,
		OriginY: oy,
		DirX:    dx / dist,
		DirY:    dy / dist,
	}, nil
}

// At returns the point dist units along the ray.
func (r Ray) At(dist float32) (float32, float32) {
	return r.OriginX + dist*r.DirX, r.OriginY + dist*r.DirY
}

// Intersect runs the slab test against e.
//
// The distance returned is where the ray LEAVES the box (the far slab
// boundary), not where it enters. Hit-scan resolution depends on this value
// as-is. Boxes entirely behind the origin are missed.
func (r Ray) Intersect(e Entity) (float32, bool) {
	tMin, tMax := negInf, posInf

	if r.DirX != 0 {
		t1 := (e.X - r.OriginX) / r.DirX
		t2 := (e.Right() - r.OriginX) / r.DirX
		tMin = max(tMin, min(t1, t2))
		tMax = min(tMax, max(t1, t2))
	} else if r.OriginX < e.X || r.OriginX > e.Right() {
		return 0, false
	}

	if r.DirY != 0 {
		t1 := (e.Y - r.OriginY) / r.DirY
		t2 := (e.Bottom() - r.OriginY) / r.DirY
		tMin = max(tMin, min(t1, t2))
		tMax = min(tMax, max(t1, t2))
	} else if r.OriginY < e.Y || r.OriginY > e.Bottom() {
		return 0, false
	}

	if tMin > tMax || tMax < 0 {
		return 0, false
	}
	return tMax, true
}
