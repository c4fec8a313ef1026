package physics

import "math"

// HorizontalDirection is the side a mover hits on the X axis.
// The zero value means no horizontal collision.
type HorizontalDirection uint8

const (
	NoHorizontal HorizontalDirection = iota
	Left
	Right
)

func (d HorizontalDirection) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// VerticalDirection is the side a mover hits on the Y axis.
// The zero value means no vertical collision.
type VerticalDirection uint8

const (
	NoVertical VerticalDirection = iota
	Up
	Down
)

func (d VerticalDirection) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// Sweep is the outcome of a single collision test.
//
// Time is the raw entry time in tick fractions. It is reported even when it
// falls outside [0, 1]; in that case both directions are unset. At most one
// of Horizontal and Vertical is set.
type Sweep struct {
	Time       float32
	Horizontal HorizontalDirection
	Vertical   VerticalDirection
}

// Hit reports whether the sweep produced a collision on either axis.
func (s Sweep) Hit() bool {
	return s.Horizontal != NoHorizontal || s.Vertical != NoVertical
}

func noCollision() Sweep {
	return Sweep{Time: posInf}
}

// axisTimes returns the entry and exit times of a moving interval against a
// static one. ok is false when the axis can never overlap this tick.
func axisTimes(pos, size, vel, otherPos, otherSize float32) (entry, exit float32, ok bool) {
	if vel == 0 {
		if pos < otherPos+otherSize && pos+size > otherPos {
			return negInf, posInf, true
		}
		return posInf, posInf, false
	}

	var entryDist, exitDist float32
	if vel > 0 {
		entryDist = otherPos - (pos + size)
		exitDist = otherPos + otherSize - pos
	} else {
		entryDist = pos - (otherPos + otherSize)
		exitDist = pos + size - otherPos
	}

	speed := vel
	if speed < 0 {
		speed = -speed
	}
	return entryDist / speed, exitDist / speed, true
}

// SweptCollision computes when the moving rectangle m first touches the
// stationary rectangle other during this tick, using the slab method on the
// Minkowski-expanded target.
//
// The axis with the later entry time is the collision axis; equal entry
// times resolve to the horizontal axis.
func SweptCollision(m DynamicEntity, other Entity) Sweep {
	xEntry, xExit, ok := axisTimes(m.X, m.Width, m.DX, other.X, other.Width)
	if !ok {
		return noCollision()
	}
	yEntry, yExit, ok := axisTimes(m.Y, m.Height, m.DY, other.Y, other.Height)
	if !ok {
		return noCollision()
	}

	if xEntry > yExit || yEntry > xExit {
		return noCollision()
	}

	entry := max(xEntry, yEntry)
	s := Sweep{Time: entry}
	if entry < 0 || entry > 1 {
		return s
	}

	if xEntry >= yEntry {
		if m.DX > 0 {
			s.Horizontal = Right
		} else {
			s.Horizontal = Left
		}
		return s
	}

	if m.DY > 0 {
		s.Vertical = Down
	} else {
		s.Vertical = Up
	}
	return s
}

// HorizontalBounds reports whether m would leave the playfield on the X axis
// this tick. World edges are not swept, so a hit carries Time +Inf.
func HorizontalBounds(m DynamicEntity, b Bounds) Sweep {
	switch {
	case m.DX > 0 && m.Right()+m.DX > b.XMax:
		return Sweep{Time: posInf, Horizontal: Right}
	case m.DX < 0 && m.X+m.DX < 0:
		return Sweep{Time: posInf, Horizontal: Left}
	}
	return noCollision()
}

// VerticalBounds is HorizontalBounds for the Y axis.
func VerticalBounds(m DynamicEntity, b Bounds) Sweep {
	switch {
	case m.DY > 0 && m.Bottom()+m.DY > b.YMax:
		return Sweep{Time: posInf, Vertical: Down}
	case m.DY < 0 && m.Y+m.DY < 0:
		return Sweep{Time: posInf, Vertical: Up}
	}
	return noCollision()
}
