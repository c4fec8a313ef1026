// Package world defines the static room table: playfield bounds, gravity,
// spawn points, platforms and the doors linking rooms together.
//
// A Table is built once at startup and never mutated afterwards. Per-tick
// mutable state lives in Scratch, which the engine owns and passes around
// explicitly.
package world

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"platform-hunt/internal/physics"
)

//go:embed rooms.yaml
var defaultRooms []byte

// MaxRooms bounds the table size so a room index always fits in a byte.
const MaxRooms = 256

var (
	// ErrNoRooms is returned when a table has no rooms.
	ErrNoRooms = errors.New("world: no rooms defined")
	// ErrInvalidRoom is returned when a room definition fails validation.
	ErrInvalidRoom = errors.New("world: invalid room")
)

// Point is a position in world units.
type Point struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// Door is a portal. Touching it from either side moves the player next to
// door Door of room Room.
type Door struct {
	physics.Entity `yaml:",inline"`
	Room           int `json:"room" yaml:"room"`
	Door           int `json:"door" yaml:"door"`
}

// Room is the static description of one playfield.
type Room struct {
	Name      string           `json:"name" yaml:"name"`
	Gravity   float32          `json:"gravity" yaml:"gravity"`
	Bounds    physics.Bounds   `json:"bounds" yaml:"bounds"`
	Spawn     Point            `json:"spawn" yaml:"spawn"`
	Platforms []physics.Entity `json:"platforms" yaml:"platforms"`
	Doors     []Door           `json:"doors" yaml:"doors"`
}

type document struct {
	Rooms []Room `yaml:"rooms"`
}

// Table is the immutable, indexed set of rooms.
type Table struct {
	rooms []Room
}

// NewTable validates rooms and builds a table from a private copy of them.
func NewTable(rooms []Room) (*Table, error) {
	if len(rooms) == 0 {
		return nil, ErrNoRooms
	}
	if len(rooms) > MaxRooms {
		return nil, fmt.Errorf("%w: %d rooms exceeds limit of %d", ErrInvalidRoom, len(rooms), MaxRooms)
	}

	owned := make([]Room, len(rooms))
	for i, r := range rooms {
		r.Platforms = append([]physics.Entity(nil), r.Platforms...)
		r.Doors = append([]Door(nil), r.Doors...)
		owned[i] = r
	}

	for i := range owned {
		if err := validateRoom(owned, i); err != nil {
			return nil, err
		}
	}
	return &Table{rooms: owned}, nil
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func validEntity(e physics.Entity) bool {
	return finite(e.X, e.Y, e.Width, e.Height) && e.Width > 0 && e.Height > 0
}

func validateRoom(rooms []Room, i int) error {
	r := rooms[i]
	name := r.Name
	if name == "" {
		name = fmt.Sprintf("#%d", i)
	}

	if !finite(r.Gravity) {
		return fmt.Errorf("%w: room %s: gravity %v", ErrInvalidRoom, name, r.Gravity)
	}
	if !finite(r.Bounds.XMax, r.Bounds.YMax) || r.Bounds.XMax <= 0 || r.Bounds.YMax <= 0 {
		return fmt.Errorf("%w: room %s: bounds %+v", ErrInvalidRoom, name, r.Bounds)
	}
	if !finite(r.Spawn.X, r.Spawn.Y) ||
		r.Spawn.X < 0 || r.Spawn.X >= r.Bounds.XMax ||
		r.Spawn.Y < 0 || r.Spawn.Y >= r.Bounds.YMax {
		return fmt.Errorf("%w: room %s: spawn %+v outside bounds", ErrInvalidRoom, name, r.Spawn)
	}
	for j, p := range r.Platforms {
		if !validEntity(p) {
			return fmt.Errorf("%w: room %s: platform %d: %+v", ErrInvalidRoom, name, j, p)
		}
	}
	for j, d := range r.Doors {
		if !validEntity(d.Entity) {
			return fmt.Errorf("%w: room %s: door %d: %+v", ErrInvalidRoom, name, j, d.Entity)
		}
		if d.Room < 0 || d.Room >= len(rooms) {
			return fmt.Errorf("%w: room %s: door %d leads to unknown room %d", ErrInvalidRoom, name, j, d.Room)
		}
		if d.Door < 0 || d.Door >= len(rooms[d.Room].Doors) {
			return fmt.Errorf("%w: room %s: door %d leads to unknown door %d of room %d",
				ErrInvalidRoom, name, j, d.Door, d.Room)
		}
	}
	return nil
}

// Parse decodes a YAML room document and validates it.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("world: unmarshal rooms: %w", err)
	}
	return NewTable(doc.Rooms)
}

// LoadFile reads and parses a room document from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world: load %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("world: %s: %w", path, err)
	}
	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table compiled into the binary.
// It panics if the embedded document is invalid.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultRooms)
		if err != nil {
			panic(fmt.Sprintf("embedded rooms.yaml: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Len returns the number of rooms.
func (t *Table) Len() int { return len(t.rooms) }

// Room returns room i. Callers must not modify the returned value.
func (t *Table) Room(i int) *Room { return &t.rooms[i] }

// Valid reports whether i indexes a room.
func (t *Table) Valid(i int) bool { return i >= 0 && i < len(t.rooms) }

// Rooms returns a copy of the room list.
func (t *Table) Rooms() []Room {
	return append([]Room(nil), t.rooms...)
}

// Destination returns the door a player arrives beside after entering d.
func (t *Table) Destination(d Door) *Door {
	return &t.rooms[d.Room].Doors[d.Door]
}
