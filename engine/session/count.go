package session

import (
	"fmt"

	"github.com/nathoo/permutemmo/engine/rng"
)

// SpawnCount is the alive-count policy of a spawner. Ranged counts are
// drawn from their own seed, which advances after every draw.
type SpawnCount struct {
	MaxAlive  int
	MinAlive  int
	CountSeed uint64
}

// IsFixed reports whether the alive count never varies.
func (c SpawnCount) IsFixed() bool {
	return c.MinAlive == 0 || c.MinAlive == c.MaxAlive
}

// Next draws the next alive count and advances the seed.
func (c *SpawnCount) Next() int {
	if c.IsFixed() {
		return c.MaxAlive
	}
	r := rng.New(c.CountSeed)
	n := c.draw(&r)
	c.CountSeed = r.Next()
	return n
}

// Peek returns what Next would draw without advancing.
func (c SpawnCount) Peek() int {
	r := rng.New(c.CountSeed)
	return c.draw(&r)
}

func (c SpawnCount) draw(r *rng.Xoroshiro) int {
	delta := c.MaxAlive - c.MinAlive
	return c.MinAlive + int(r.NextMax(uint64(delta+1)))
}

// CanSpawnMore reports whether letting the spawner regenerate would
// change anything given the current alive count.
func (c SpawnCount) CanSpawnMore(currentMaxAlive int) bool {
	if c.IsFixed() {
		return false
	}
	next := c.Peek()
	if next > currentMaxAlive {
		return true
	}
	return next == currentMaxAlive && next != c.MaxAlive
}

func (c SpawnCount) String() string {
	if c.IsFixed() {
		return fmt.Sprintf("%d", c.MaxAlive)
	}
	return fmt.Sprintf("%d-%d (seed 0x%016X)", c.MinAlive, c.MaxAlive, c.CountSeed)
}
