package world

import "platform-hunt/internal/physics"

// Bullet is a shot waiting to be resolved. Target is the owner's target at
// the moment the shot was fired.
type Bullet struct {
	Owner  uint8
	Target uint8
	Room   int
	Ray    physics.Ray
}

// BulletPath is the visible segment of a resolved shot.
type BulletPath struct {
	OriginX float32 `json:"originX"`
	OriginY float32 `json:"originY"`
	EndX    float32 `json:"endX"`
	EndY    float32 `json:"endY"`
}

// Scratch is the per-room state that only lives for one tick.
type Scratch struct {
	Bullets []Bullet
	Paths   []BulletPath
}

// NewScratch allocates one Scratch per room in t.
func NewScratch(t *Table) []Scratch {
	return make([]Scratch, t.Len())
}

// ClearBullets drops resolved bullets, keeping capacity.
func (s *Scratch) ClearBullets() { s.Bullets = s.Bullets[:0] }

// ClearPaths drops rendered paths, keeping capacity.
func (s *Scratch) ClearPaths() { s.Paths = s.Paths[:0] }
