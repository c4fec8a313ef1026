package game

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestChain(seed int64) *Chain {
	return NewChain(rand.New(rand.NewSource(seed)))
}

func TestChainFirstPlayerTargetsSelf(t *testing.T) {
	c := newTestChain(1)
	c.Join(4)

	if c.Target(4) != 4 {
		t.Errorf("lone player should target itself, got %d", c.Target(4))
	}
	if err := c.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestChainSecondPlayerPairs(t *testing.T) {
	c := newTestChain(1)
	c.Join(0)
	c.Join(1)

	if c.Target(0) != 1 || c.Target(1) != 0 {
		t.Errorf("two players should hunt each other, got 0->%d 1->%d", c.Target(0), c.Target(1))
	}
}

func TestChainJoinSplicesAfterChosen(t *testing.T) {
	c := newTestChain(3)
	for i := uint8(0); i < 5; i++ {
		c.Join(i)
	}
	before := c.targets

	c.Join(9)

	// Exactly one existing player now targets 9, and 9 took its old target.
	var chosen = -1
	for i := 0; i < 5; i++ {
		if c.Target(uint8(i)) == 9 {
			if chosen >= 0 {
				t.Fatalf("both %d and %d target the new player", chosen, i)
			}
			chosen = i
		} else if c.Target(uint8(i)) != before[i] {
			t.Errorf("player %d target changed from %d to %d", i, before[i], c.Target(uint8(i)))
		}
	}
	if chosen < 0 {
		t.Fatal("nobody targets the new player")
	}
	if c.Target(9) != before[chosen] {
		t.Errorf("new player target = %d, want chosen's old target %d", c.Target(9), before[chosen])
	}
	if err := c.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestChainRemoveContracts(t *testing.T) {
	c := newTestChain(5)
	for i := uint8(0); i < 4; i++ {
		c.Join(i)
	}

	leaver := uint8(2)
	leaverTarget := c.Target(leaver)
	var hunter uint8
	for i := uint8(0); i < 4; i++ {
		if c.Target(i) == leaver {
			hunter = i
		}
	}

	c.Remove(leaver)

	if c.Live(leaver) {
		t.Fatal("removed player still live")
	}
	if c.Target(hunter) != leaverTarget {
		t.Errorf("hunter %d should inherit target %d, got %d", hunter, leaverTarget, c.Target(hunter))
	}
	if c.Len() != 3 {
		t.Errorf("len = %d, want 3", c.Len())
	}
	if err := c.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestChainRemoveDownToEmpty(t *testing.T) {
	c := newTestChain(5)
	c.Join(0)
	c.Join(1)

	c.Remove(1)
	if c.Target(0) != 0 {
		t.Errorf("last player should target itself, got %d", c.Target(0))
	}
	c.Remove(0)
	if c.Len() != 0 {
		t.Errorf("len = %d, want 0", c.Len())
	}
	if err := c.Verify(); err != nil {
		t.Fatal(err)
	}

	c.Join(7)
	if c.Target(7) != 7 {
		t.Error("chain should restart from a self target")
	}
}

func TestChainEliminateRequiresTarget(t *testing.T) {
	c := newTestChain(9)
	for i := uint8(0); i < 3; i++ {
		c.Join(i)
	}

	shooter := uint8(0)
	target := c.Target(shooter)
	var bystander uint8
	for i := uint8(0); i < 3; i++ {
		if i != shooter && i != target {
			bystander = i
		}
	}
	before := c.targets

	if c.Eliminate(shooter, bystander) {
		t.Fatal("eliminating a non-target should be refused")
	}
	if c.targets != before {
		t.Fatal("refused elimination changed the chain")
	}
	if c.Eliminate(shooter, shooter) {
		t.Fatal("self elimination should be refused")
	}

	victimTarget := c.Target(target)
	if !c.Eliminate(shooter, target) {
		t.Fatal("eliminating the target should succeed")
	}
	if c.Len() != 3 || !c.Live(target) {
		t.Error("victim slot should rejoin immediately")
	}
	// The shooter inherits the victim's target unless the respawn was
	// spliced in right after the shooter.
	if got := c.Target(shooter); got != victimTarget && got != target {
		t.Errorf("shooter target = %d, want %d or the respawned %d", got, victimTarget, target)
	}
	if err := c.Verify(); err != nil {
		t.Fatal(err)
	}
}

// Any sequence of joins, eliminations and removals keeps one cycle over
// exactly the live players.
func TestChainInvariantUnderRandomOperations(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		c := newTestChain(seed)
		ops := rand.New(rand.NewSource(seed * 101))
		live := map[uint8]bool{}

		for step := 0; step < 2000; step++ {
			idx := uint8(ops.Intn(MaxPlayers))
			switch ops.Intn(3) {
			case 0:
				c.Join(idx)
				live[idx] = true
			case 1:
				c.Remove(idx)
				delete(live, idx)
			case 2:
				if c.Live(idx) {
					c.Eliminate(idx, c.Target(idx))
				}
			}

			if err := c.Verify(); err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			if c.Len() != len(live) {
				t.Fatalf("seed %d step %d: len %d, want %d", seed, step, c.Len(), len(live))
			}
		}
	}
}

func TestChainVerifyDetectsBreak(t *testing.T) {
	c := newTestChain(1)
	for i := uint8(0); i < 4; i++ {
		c.Join(i)
	}
	// Two players sharing a target splits the cycle.
	c.targets[0] = c.targets[c.targets[0]]

	if err := c.Verify(); !errors.Is(err, ErrBrokenChain) {
		t.Fatalf("expected ErrBrokenChain, got %v", err)
	}
}
