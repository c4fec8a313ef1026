package physics

import (
	"errors"
	"math"
	"testing"
)

func TestRayToward(t *testing.T) {
	shooter := Entity{X: 0, Y: 0, Width: 10, Height: 10}

	r, err := RayToward(shooter, 105, 5)
	if err != nil {
		t.Fatalf("RayToward: %v", err)
	}
	if r.OriginX != 5 || r.OriginY != 5 {
		t.Errorf("origin = (%v, %v), want shooter center (5, 5)", r.OriginX, r.OriginY)
	}
	if r.DirX != 1 || r.DirY != 0 {
		t.Errorf("direction = (%v, %v), want (1, 0)", r.DirX, r.DirY)
	}

	x, y := r.At(20)
	if x != 25 || y != 5 {
		t.Errorf("At(20) = (%v, %v), want (25, 5)", x, y)
	}
}

func TestRayTowardDegenerate(t *testing.T) {
	shooter := Entity{X: 0, Y: 0, Width: 10, Height: 10}
	if _, err := RayToward(shooter, 5, 5); !errors.Is(err, ErrDegenerateRay) {
		t.Fatalf("expected ErrDegenerateRay, got %v", err)
	}
}

func TestRayIntersect(t *testing.T) {
	right := Ray{OriginX: 5, OriginY: 5, DirX: 1, DirY: 0}
	down := Ray{OriginX: 5, OriginY: 5, DirX: 0, DirY: 1}

	tests := []struct {
		name     string
		ray      Ray
		box      Entity
		wantHit  bool
		wantDist float32
	}{
		{"box ahead reports far edge", right, Entity{X: 20, Y: 0, Width: 10, Height: 10}, true, 25},
		{"box below reports far edge", down, Entity{X: 0, Y: 30, Width: 20, Height: 3}, true, 28},
		{"parallel ray outside slab", right, Entity{X: 20, Y: 20, Width: 10, Height: 10}, false, 0},
		{"box behind origin", right, Entity{X: -30, Y: 0, Width: 10, Height: 10}, false, 0},
		{"origin inside box", right, Entity{X: 0, Y: 0, Width: 10, Height: 10}, true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, hit := tt.ray.Intersect(tt.box)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && dist != tt.wantDist {
				t.Errorf("dist = %v, want %v", dist, tt.wantDist)
			}
		})
	}
}

func TestRayIntersectDiagonal(t *testing.T) {
	r, err := RayToward(Entity{X: 0, Y: 0, Width: 10, Height: 10}, 15, 15)
	if err != nil {
		t.Fatalf("RayToward: %v", err)
	}

	dist, hit := r.Intersect(Entity{X: 10, Y: 10, Width: 10, Height: 10})
	if !hit {
		t.Fatal("expected diagonal hit")
	}

	// Far corner (20, 20) from (5, 5).
	want := 15 * math.Sqrt2
	if math.Abs(float64(dist)-want) > 1e-3 {
		t.Errorf("dist = %v, want %v", dist, want)
	}
}
