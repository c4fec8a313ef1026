package game

import (
	"math"

	"platform-hunt/internal/physics"
	"platform-hunt/internal/world"
)

// Player is one occupied slot. It has no lifecycle enum: grounded, airborne
// and jumping all fall out of the velocity and the two tick counters.
type Player struct {
	Index uint8
	Room  int
	Body  physics.DynamicEntity

	JumpBuffer uint8 // ticks a pressed jump stays armed
	Coyote     uint8 // ticks a jump is still allowed after leaving ground

	HoldingLeft  bool
	HoldingRight bool
	HoldingDown  bool // one-shot: consumed by the next platform it drops through

	sink Sink
}

func newPlayer(index uint8, room int, spawn world.Point, sink Sink) *Player {
	return &Player{
		Index: index,
		Room:  room,
		Body: physics.DynamicEntity{
			Entity: physics.Entity{
				X:      spawn.X,
				Y:      spawn.Y,
				Width:  PlayerWidth,
				Height: PlayerHeight,
			},
			Weight: PlayerWeight,
		},
		sink: sink,
	}
}

// ObstacleKind tags what a collision was against.
type ObstacleKind uint8

const (
	ObstacleBounds ObstacleKind = iota
	ObstacleUser
	ObstaclePlatform
	ObstacleDoor
)

func (k ObstacleKind) String() string {
	switch k {
	case ObstacleBounds:
		return "bounds"
	case ObstacleUser:
		return "user"
	case ObstaclePlatform:
		return "platform"
	case ObstacleDoor:
		return "door"
	default:
		return "unknown"
	}
}

// Obstacle is the thing a player collided with. Entity is unset for
// ObstacleBounds and Door is only set for ObstacleDoor.
type Obstacle struct {
	Kind   ObstacleKind
	Entity physics.Entity
	Door   *world.Door
}

type horizontalHit struct {
	time      float32
	direction physics.HorizontalDirection
	obstacle  Obstacle
}

type verticalHit struct {
	time      float32
	direction physics.VerticalDirection
	obstacle  Obstacle
}

// Collisions is the per-axis outcome of the candidate scan.
type Collisions struct {
	horizontal horizontalHit
	vertical   verticalHit
}

// Horizontal returns the winning horizontal collision, if any.
func (c Collisions) Horizontal() (physics.HorizontalDirection, Obstacle, bool) {
	h := c.horizontal
	return h.direction, h.obstacle, h.direction != physics.NoHorizontal
}

// Vertical returns the winning vertical collision, if any.
func (c Collisions) Vertical() (physics.VerticalDirection, Obstacle, bool) {
	v := c.vertical
	return v.direction, v.obstacle, v.direction != physics.NoVertical
}

func (c *Collisions) consider(s physics.Sweep, o Obstacle) {
	if s.Horizontal != physics.NoHorizontal {
		if s.Time < c.horizontal.time {
			c.horizontal = horizontalHit{time: s.Time, direction: s.Horizontal, obstacle: o}
		}
		return
	}
	if s.Vertical != physics.NoVertical && s.Time < c.vertical.time {
		c.vertical = verticalHit{time: s.Time, direction: s.Vertical, obstacle: o}
	}
}

// TickResult reports side effects of a tick that the engine records.
type TickResult struct {
	FromRoom int
	Transit  bool
}

// collide scans every candidate obstacle and keeps the earliest hit per
// axis. It consumes HoldingDown when a platform is dropped through.
func (p *Player) collide(slots *[MaxPlayers]*Player, room *world.Room) Collisions {
	inf := float32(math.Inf(1))
	c := Collisions{
		horizontal: horizontalHit{time: inf},
		vertical:   verticalHit{time: inf},
	}

	for i, other := range slots {
		if other == nil || i == int(p.Index) || other.Room != p.Room {
			continue
		}
		e := other.Body.Entity
		c.consider(physics.SweptCollision(p.Body, e), Obstacle{Kind: ObstacleUser, Entity: e})
	}

	// One-way: platforms only catch a falling player.
	if p.Body.DY > 0 {
		for _, e := range room.Platforms {
			s := physics.SweptCollision(p.Body, e)
			if s.Vertical == physics.NoVertical {
				continue
			}
			if p.HoldingDown {
				p.HoldingDown = false
				continue
			}
			if s.Time < c.vertical.time {
				c.vertical = verticalHit{time: s.Time, direction: s.Vertical, obstacle: Obstacle{Kind: ObstaclePlatform, Entity: e}}
			}
		}
	}

	for i := range room.Doors {
		d := &room.Doors[i]
		c.consider(physics.SweptCollision(p.Body, d.Entity), Obstacle{Kind: ObstacleDoor, Entity: d.Entity, Door: d})
	}

	if c.horizontal.direction == physics.NoHorizontal {
		if s := physics.HorizontalBounds(p.Body, room.Bounds); s.Hit() {
			c.horizontal = horizontalHit{time: s.Time, direction: s.Horizontal, obstacle: Obstacle{Kind: ObstacleBounds}}
		}
	}
	if c.vertical.direction == physics.NoVertical {
		if s := physics.VerticalBounds(p.Body, room.Bounds); s.Hit() {
			c.vertical = verticalHit{time: s.Time, direction: s.Vertical, obstacle: Obstacle{Kind: ObstacleBounds}}
		}
	}
	return c
}

// Tick integrates one step. slots is the whole slot array; p's own slot
// and players in other rooms are skipped. Players already ticked this step
// are seen at their new positions.
//
// A door transit changes p.Room, but the rest of the step (vertical
// response, gravity) still uses the room the step started in.
func (p *Player) Tick(slots *[MaxPlayers]*Player, table *world.Table) TickResult {
	res := TickResult{FromRoom: p.Room}
	room := table.Room(p.Room)

	c := p.collide(slots, room)

	if dir, ob, ok := c.Horizontal(); ok {
		res.Transit = p.respondHorizontal(dir, ob, room, table)
	} else {
		p.Body.X += p.Body.DX
		switch {
		case p.Body.DX > 0 && !p.HoldingRight:
			p.endRunRight()
		case p.Body.DX < 0 && !p.HoldingLeft:
			p.endRunLeft()
		}
	}

	if dir, ob, ok := c.Vertical(); ok {
		p.respondVertical(dir, ob, room)
	} else {
		p.Body.Y += p.Body.DY
		if p.Coyote > 0 {
			p.Coyote--
		}
	}

	p.Body.DY += room.Gravity

	if p.HoldingLeft {
		p.runLeft()
	}
	if p.HoldingRight {
		p.runRight()
	}

	if p.JumpBuffer > 0 {
		if p.Coyote > 0 {
			p.jump()
		} else {
			p.JumpBuffer--
		}
	}
	return res
}

func (p *Player) respondHorizontal(dir physics.HorizontalDirection, ob Obstacle, room *world.Room, table *world.Table) (transit bool) {
	b := &p.Body
	switch ob.Kind {
	case ObstacleBounds:
		if dir == physics.Left {
			b.X = 0
		} else {
			b.X = room.Bounds.XMax - b.Width
		}
	case ObstacleUser:
		if dir == physics.Left {
			b.X = ob.Entity.Right()
		} else {
			b.X = ob.Entity.X - b.Width
		}
	case ObstacleDoor:
		dest := table.Destination(*ob.Door)
		p.Room = ob.Door.Room
		if dir == physics.Left {
			b.X = dest.X - b.Width
		} else {
			b.X = dest.Right()
		}
		transit = true
	}
	b.DX = 0
	return transit
}

func (p *Player) respondVertical(dir physics.VerticalDirection, ob Obstacle, room *world.Room) {
	b := &p.Body
	if dir == physics.Down {
		if ob.Kind == ObstacleBounds {
			b.Y = room.Bounds.YMax - b.Height
		} else {
			b.Y = ob.Entity.Y - b.Height
		}
		b.DY = 0
		if p.JumpBuffer > 0 {
			p.jump()
		} else {
			p.Coyote = CoyoteTicks
		}
		return
	}

	if ob.Kind == ObstacleBounds {
		b.Y = 0
	} else {
		b.Y = ob.Entity.Bottom()
	}
	b.DY = 0
}

func (p *Player) jump() {
	p.Body.DY = JumpForce / p.Body.Weight
	p.Coyote = 0
	p.JumpBuffer = 0
}

// cutJump shortens a jump when the button is released early.
func (p *Player) cutJump() {
	p.Body.DY *= JumpCutoff
}

func (p *Player) runLeft() {
	p.Body.DX = max(p.Body.DX-RunStartForce/p.Body.Weight, -RunMaxSpeed)
}

func (p *Player) runRight() {
	p.Body.DX = min(p.Body.DX+RunStartForce/p.Body.Weight, RunMaxSpeed)
}

func (p *Player) endRunLeft() {
	p.Body.DX = min(p.Body.DX+RunStopForce/p.Body.Weight, 0)
}

func (p *Player) endRunRight() {
	p.Body.DX = max(p.Body.DX-RunStopForce/p.Body.Weight, 0)
}
