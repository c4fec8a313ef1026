package physics

import (
	"math"
	"math/rand"
	"testing"
)

func mover(x, y, w, h, dx, dy float32) DynamicEntity {
	return DynamicEntity{Entity: Entity{X: x, Y: y, Width: w, Height: h}, DX: dx, DY: dy, Weight: 1}
}

func TestSweptCollision(t *testing.T) {
	inf := float32(math.Inf(1))

	tests := []struct {
		name       string
		m          DynamicEntity
		other      Entity
		wantTime   float32
		horizontal HorizontalDirection
		vertical   VerticalDirection
	}{
		{
			name:       "moving right into wall",
			m:          mover(0, 0, 10, 10, 5, 0),
			other:      Entity{X: 12, Y: 0, Width: 10, Height: 10},
			wantTime:   0.4,
			horizontal: Right,
		},
		{
			name:       "moving left into wall",
			m:          mover(20, 0, 10, 10, -20, 0),
			other:      Entity{X: 0, Y: 0, Width: 10, Height: 10},
			wantTime:   0.5,
			horizontal: Left,
		},
		{
			name:     "falling onto platform",
			m:        mover(0, 0, 10, 10, 0, 4),
			other:    Entity{X: 0, Y: 12, Width: 50, Height: 3},
			wantTime: 0.5,
			vertical: Down,
		},
		{
			name:     "resting on platform touches at zero",
			m:        mover(0, 2, 10, 10, 0, 1.5),
			other:    Entity{X: 0, Y: 12, Width: 50, Height: 3},
			wantTime: 0,
			vertical: Down,
		},
		{
			name:     "jumping into ceiling",
			m:        mover(0, 20, 10, 10, 0, -8),
			other:    Entity{X: 0, Y: 10, Width: 10, Height: 6},
			wantTime: 0.5,
			vertical: Up,
		},
		{
			name:     "too far to reach this tick",
			m:        mover(20, 0, 10, 10, -5, 0),
			other:    Entity{X: 0, Y: 0, Width: 10, Height: 10},
			wantTime: 2,
		},
		{
			name:     "stationary axis never overlaps",
			m:        mover(0, 0, 10, 10, 5, 0),
			other:    Entity{X: 12, Y: 20, Width: 10, Height: 10},
			wantTime: inf,
		},
		{
			name:       "diagonal tie resolves horizontal",
			m:          mover(0, 0, 10, 10, 4, 4),
			other:      Entity{X: 12, Y: 12, Width: 10, Height: 10},
			wantTime:   0.5,
			horizontal: Right,
		},
		{
			name:     "diagonal with later vertical entry",
			m:        mover(0, 0, 10, 10, 4, 4),
			other:    Entity{X: 12, Y: 14, Width: 10, Height: 10},
			wantTime: 1,
			vertical: Down,
		},
		{
			name:     "slabs never overlap at the same time",
			m:        mover(0, 0, 10, 10, 10, 10),
			other:    Entity{X: 15, Y: 0, Width: 10, Height: 2},
			wantTime: inf,
		},
		{
			name:     "moving away",
			m:        mover(12, 0, 10, 10, 5, 0),
			other:    Entity{X: 0, Y: 0, Width: 10, Height: 10},
			wantTime: -4.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SweptCollision(tt.m, tt.other)
			if got.Time != tt.wantTime {
				t.Errorf("time = %v, want %v", got.Time, tt.wantTime)
			}
			if got.Horizontal != tt.horizontal {
				t.Errorf("horizontal = %v, want %v", got.Horizontal, tt.horizontal)
			}
			if got.Vertical != tt.vertical {
				t.Errorf("vertical = %v, want %v", got.Vertical, tt.vertical)
			}
			if got.Horizontal != NoHorizontal && got.Vertical != NoVertical {
				t.Errorf("both axes set: %+v", got)
			}
		})
	}
}

func TestSweptCollisionStationaryOverlapIsNotAHit(t *testing.T) {
	got := SweptCollision(mover(0, 0, 10, 10, 0, 0), Entity{X: 5, Y: 5, Width: 10, Height: 10})
	if got.Hit() {
		t.Fatalf("expected no hit for two resting overlapping boxes, got %+v", got)
	}
	if !math.IsInf(float64(got.Time), -1) {
		t.Errorf("expected raw time -Inf, got %v", got.Time)
	}
}

func TestSweptCollisionDoesNotMutate(t *testing.T) {
	m := mover(0, 0, 10, 10, 5, 0)
	other := Entity{X: 12, Y: 0, Width: 10, Height: 10}
	before, otherBefore := m, other

	SweptCollision(m, other)

	if m != before || other != otherBefore {
		t.Fatal("SweptCollision mutated its inputs")
	}
}

// Swapping which box moves (and negating the velocity) must give the exact
// same entry time.
func TestSweptCollisionSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	coord := func() float32 { return float32(rng.Intn(60)) }
	size := func() float32 { return float32(rng.Intn(12) + 1) }
	vel := func() float32 { return float32(rng.Intn(41) - 20) }

	for i := 0; i < 2000; i++ {
		a := Entity{X: coord(), Y: coord(), Width: size(), Height: size()}
		b := Entity{X: coord(), Y: coord(), Width: size(), Height: size()}
		dx, dy := vel(), vel()

		forward := SweptCollision(DynamicEntity{Entity: a, DX: dx, DY: dy}, b)
		reverse := SweptCollision(DynamicEntity{Entity: b, DX: -dx, DY: -dy}, a)

		if forward.Time != reverse.Time {
			t.Fatalf("case %d: a=%+v b=%+v v=(%v,%v): forward %v reverse %v",
				i, a, b, dx, dy, forward.Time, reverse.Time)
		}
		if forward.Hit() != reverse.Hit() {
			t.Fatalf("case %d: hit mismatch forward=%+v reverse=%+v", i, forward, reverse)
		}
	}
}

func TestBounds(t *testing.T) {
	b := Bounds{XMax: 100, YMax: 100}

	tests := []struct {
		name       string
		m          DynamicEntity
		horizontal HorizontalDirection
		vertical   VerticalDirection
	}{
		{"inside", mover(50, 50, 10, 10, 5, 5), NoHorizontal, NoVertical},
		{"past right edge", mover(88, 50, 10, 10, 5, 0), Right, NoVertical},
		{"past left edge", mover(2, 50, 10, 10, -5, 0), Left, NoVertical},
		{"past floor", mover(50, 89, 10, 10, 0, 1.5), NoHorizontal, Down},
		{"past ceiling", mover(50, 3, 10, 10, 0, -4), NoHorizontal, Up},
		{"flush against right edge at rest", mover(90, 50, 10, 10, 0, 0), NoHorizontal, NoVertical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HorizontalBounds(tt.m, b)
			v := VerticalBounds(tt.m, b)
			if h.Horizontal != tt.horizontal {
				t.Errorf("horizontal = %v, want %v", h.Horizontal, tt.horizontal)
			}
			if v.Vertical != tt.vertical {
				t.Errorf("vertical = %v, want %v", v.Vertical, tt.vertical)
			}
			if h.Hit() && !math.IsInf(float64(h.Time), 1) {
				t.Errorf("bounds hit should carry +Inf time, got %v", h.Time)
			}
		})
	}
}

func TestDynamicEntityFinite(t *testing.T) {
	ok := mover(1, 2, 10, 10, 3, 4)
	if !ok.Finite() {
		t.Fatal("expected finite entity")
	}

	nan := ok
	nan.DY = float32(math.NaN())
	if nan.Finite() {
		t.Fatal("NaN velocity reported finite")
	}

	inf := ok
	inf.X = float32(math.Inf(1))
	if inf.Finite() {
		t.Fatal("infinite position reported finite")
	}
}
