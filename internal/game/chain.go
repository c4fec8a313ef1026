package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrBrokenChain is returned by Verify when the targets do not form one cycle.
var ErrBrokenChain = errors.New("game: target chain is not a single cycle")

// Chain assigns every live player exactly one target so that following
// targets visits every live player once and returns to the start.
//
// It is a permutation over slot indices. Only Join, Eliminate and Remove
// mutate it, and each keeps the single-cycle property.
type Chain struct {
	targets [MaxPlayers]uint8
	live    [MaxPlayers]bool
	count   int
	rng     *rand.Rand
}

// NewChain returns an empty chain drawing join positions from rng.
func NewChain(rng *rand.Rand) *Chain {
	return &Chain{rng: rng}
}

// Len returns the number of live players in the chain.
func (c *Chain) Len() int { return c.count }

// Live reports whether idx is in the chain.
func (c *Chain) Live(idx uint8) bool { return c.live[idx] }

// Target returns idx's current target. Meaningless for a vacant idx.
func (c *Chain) Target(idx uint8) uint8 { return c.targets[idx] }

// Join inserts idx after a uniformly chosen live player: idx takes that
// player's old target and becomes its new target. The first player
// targets itself.
func (c *Chain) Join(idx uint8) {
	if c.live[idx] {
		return
	}
	if c.count == 0 {
		c.targets[idx] = idx
		c.live[idx] = true
		c.count = 1
		return
	}

	for {
		pick := uint8(c.rng.Intn(MaxPlayers))
		if !c.live[pick] {
			continue
		}
		c.targets[idx] = c.targets[pick]
		c.targets[pick] = idx
		break
	}
	c.live[idx] = true
	c.count++
}

// Remove takes idx out of the chain; whoever hunted idx inherits its target.
func (c *Chain) Remove(idx uint8) {
	if !c.live[idx] {
		return
	}
	if c.count > 1 {
		c.targets[c.hunter(idx)] = c.targets[idx]
	}
	c.live[idx] = false
	c.targets[idx] = 0
	c.count--
}

// Eliminate records shooter catching victim and reports whether it was
// allowed: victim must be shooter's current target. The shooter inherits
// the victim's target, then victim's index rejoins at a random position as
// a fresh player, so the chain length is unchanged.
func (c *Chain) Eliminate(shooter, victim uint8) bool {
	if shooter == victim || !c.live[shooter] || !c.live[victim] || c.targets[shooter] != victim {
		return false
	}
	c.targets[shooter] = c.targets[victim]
	c.live[victim] = false
	c.count--
	c.Join(victim)
	return true
}

// hunter returns the live player targeting idx.
func (c *Chain) hunter(idx uint8) uint8 {
	cur := c.targets[idx]
	for c.targets[cur] != idx {
		cur = c.targets[cur]
	}
	return cur
}

// Verify walks the chain and reports whether it is one cycle covering
// exactly the live players.
func (c *Chain) Verify() error {
	if c.count == 0 {
		return nil
	}

	start := -1
	for i, ok := range c.live {
		if ok {
			start = i
			break
		}
	}

	var seen [MaxPlayers]bool
	cur := uint8(start)
	for step := 0; step < c.count; step++ {
		if !c.live[cur] {
			return fmt.Errorf("%w: step %d reached vacant slot %d", ErrBrokenChain, step, cur)
		}
		if seen[cur] {
			return fmt.Errorf("%w: slot %d visited twice", ErrBrokenChain, cur)
		}
		seen[cur] = true
		cur = c.targets[cur]
	}
	if int(cur) != start {
		return fmt.Errorf("%w: %d steps from %d ended at %d", ErrBrokenChain, c.count, start, cur)
	}
	return nil
}
