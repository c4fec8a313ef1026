package game

import (
	"time"

	"platform-hunt/internal/physics"
	"platform-hunt/internal/world"
)

// PlayerView is a player as seen by renderers and the HTTP API.
type PlayerView struct {
	Index  uint8 `json:"index"`
	Target uint8 `json:"target"`
	physics.Entity
	DX float32 `json:"dx"`
	DY float32 `json:"dy"`
}

// RoomView is everything a client in one room is shown for a tick.
// Platforms and Doors alias the immutable room table.
type RoomView struct {
	Room      int                `json:"room"`
	Name      string             `json:"name"`
	Players   []PlayerView       `json:"players"`
	Platforms []physics.Entity   `json:"platforms"`
	Doors     []world.Door       `json:"doors"`
	Bullets   []world.BulletPath `json:"bullets"`
}

// Renderer turns a room view into the frame sent to every player in it.
type Renderer func(RoomView) []byte

// WorldSnapshot is an immutable copy of the world after a tick. A new one
// is published every tick; readers never see a partially built value.
type WorldSnapshot struct {
	Tick        uint64     `json:"tick"`
	Timestamp   time.Time  `json:"timestamp"`
	PlayerCount int        `json:"playerCount"`
	Rooms       []RoomView `json:"rooms"`
}

// Player returns the view of player idx, if live.
func (s *WorldSnapshot) Player(idx uint8) (PlayerView, int, bool) {
	for _, r := range s.Rooms {
		for _, p := range r.Players {
			if p.Index == idx {
				return p, r.Room, true
			}
		}
	}
	return PlayerView{}, 0, false
}

func (e *Engine) buildViews() []RoomView {
	views := make([]RoomView, e.table.Len())
	for i := range views {
		room := e.table.Room(i)
		views[i] = RoomView{
			Room:      i,
			Name:      room.Name,
			Players:   []PlayerView{},
			Platforms: room.Platforms,
			Doors:     room.Doors,
			Bullets:   append([]world.BulletPath{}, e.scratch[i].Paths...),
		}
	}

	for i, p := range e.slots {
		if p == nil {
			continue
		}
		v := &views[p.Room]
		v.Players = append(v.Players, PlayerView{
			Index:  uint8(i),
			Target: e.chain.Target(uint8(i)),
			Entity: p.Body.Entity,
			DX:     p.Body.DX,
			DY:     p.Body.DY,
		})
	}
	return views
}
