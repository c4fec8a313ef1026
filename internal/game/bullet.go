package game

import (
	"math"

	"go.uber.org/zap"

	"platform-hunt/internal/metrics"
	"platform-hunt/internal/physics"
	"platform-hunt/internal/world"
)

// fire queues a shot from p toward (x, y) in p's current room. A click on
// the exact center of the player has no direction and is ignored.
func (e *Engine) fire(p *Player, x, y float32) {
	ray, err := physics.RayToward(p.Body.Entity, x, y)
	if err != nil {
		e.log.Debug("shot dropped", zap.Uint8("player", p.Index), zap.Error(err))
		return
	}
	s := &e.scratch[p.Room]
	s.Bullets = append(s.Bullets, world.Bullet{
		Owner:  p.Index,
		Target: e.chain.Target(p.Index),
		Room:   p.Room,
		Ray:    ray,
	})
}

// resolveBullets resolves every pending shot in every room, in the order
// they were fired.
func (e *Engine) resolveBullets() {
	for r := range e.scratch {
		s := &e.scratch[r]
		for _, b := range s.Bullets {
			s.Paths = append(s.Paths, e.resolveBullet(b))
		}
		s.ClearBullets()
	}
}

// resolveBullet finds the nearest player or platform along the ray and
// applies an elimination if the hit player is the shooter's target.
func (e *Engine) resolveBullet(b world.Bullet) world.BulletPath {
	metrics.RecordBullet()

	nearest := float32(math.Inf(1))
	hit := -1

	for i, p := range e.slots {
		if p == nil || i == int(b.Owner) || p.Room != b.Room {
			continue
		}
		if d, ok := b.Ray.Intersect(p.Body.Entity); ok && d < nearest {
			nearest = d
			hit = i
		}
	}
	for _, plat := range e.table.Room(b.Room).Platforms {
		if d, ok := b.Ray.Intersect(plat); ok && d < nearest {
			nearest = d
			hit = -1
		}
	}

	dist := nearest
	if math.IsInf(float64(dist), 1) {
		dist = MissDistance
	}
	endX, endY := b.Ray.At(dist)
	path := world.BulletPath{
		OriginX: b.Ray.OriginX,
		OriginY: b.Ray.OriginY,
		EndX:    endX,
		EndY:    endY,
	}

	eliminated := false
	if hit >= 0 && e.slots[b.Owner] != nil {
		eliminated = e.eliminate(b.Owner, uint8(hit))
	}

	e.record(EventTypeShot, int(b.Owner), ShotPayload{
		Room:      b.Room,
		Target:    b.Target,
		Hit:       hit,
		Distance:  dist,
		Eliminate: eliminated,
	})
	return path
}

// eliminate applies the hunt rule: only the shooter's current target can
// be taken out. The victim's slot is refilled at once with a fresh player
// in the same room, keeping the victim's connection.
func (e *Engine) eliminate(shooter, victim uint8) bool {
	if !e.chain.Eliminate(shooter, victim) {
		return false
	}

	old := e.slots[victim]
	room := e.table.Room(old.Room)
	e.slots[victim] = newPlayer(victim, old.Room, room.Spawn, old.sink)

	e.eliminations.Add(1)
	metrics.RecordElimination()
	e.log.Debug("player eliminated",
		zap.Uint8("shooter", shooter),
		zap.Uint8("victim", victim),
		zap.Uint8("newTarget", e.chain.Target(shooter)))

	e.record(EventTypeElimination, int(shooter), EliminationPayload{
		Victim:    victim,
		NewTarget: e.chain.Target(shooter),
	})
	e.record(EventTypeRespawn, int(victim), RespawnPayload{
		Room:   old.Room,
		SpawnX: room.Spawn.X,
		SpawnY: room.Spawn.Y,
		Target: e.chain.Target(victim),
	})
	return true
}
