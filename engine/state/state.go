// Package state models the slot bookkeeping of one spawner: how many
// entities of each behavior are alive, how many slots are dead or held by
// ghosts, and how many entities remain to spawn.
//
// SpawnState is a value type. Every transition returns a new state and
// checks the slot invariants; a violation is a programming error and
// panics. Build with the noassert tag to skip the checks.
package state

import "strings"

// SpawnState is the alive/dead/ghost accounting of a spawner.
type SpawnState struct {
	Count      int // entities left to spawn from the table
	MaxAlive   int
	Ghost      int
	Alpha      int // subset of Aggressive
	Aggressive int
	Beta       int // skittish
	Oblivious  int
	Dead       int
}

// Get returns a fresh state with every slot empty.
func Get(total, alive int) SpawnState {
	return SpawnState{
		Count:    total,
		MaxAlive: alive,
		Dead:     alive,
	}.check()
}

// GetBasic returns a state whose total equals its alive count.
func GetBasic(count int) SpawnState {
	return Get(count, count)
}

// Alive returns the number of occupied slots.
func (s SpawnState) Alive() int {
	return s.MaxAlive - s.Dead
}

// MaxGhosts returns how many slots may be held by ghosts.
func (s SpawnState) MaxGhosts() int {
	return s.MaxAlive - 1
}

func (s SpawnState) CanAddGhosts() bool {
	return s.Ghost != s.MaxGhosts()
}

func (s SpawnState) EmptyGhostSlots() int {
	return s.MaxGhosts() - s.Ghost
}

// Remove knocks out entities by category. Removing aggressive entities
// takes alphas first.
func (s SpawnState) Remove(aggro, beta, oblivious int) SpawnState {
	delta := aggro + beta + oblivious
	if checks && delta <= 0 {
		panic("state: remove must take at least one entity")
	}
	n := s
	n.Alpha -= min(s.Alpha, aggro)
	n.Aggressive -= aggro
	n.Beta -= beta
	n.Oblivious -= oblivious
	n.Dead += delta
	return n.check()
}

// Add fills count empty slots with the given spawns. Slots that stay
// empty become ghosts.
func (s SpawnState) Add(count, alpha, aggro, beta, oblivious int) SpawnState {
	if checks && aggro+beta+oblivious > count {
		panic("state: add must not spawn more entities than slots filled")
	}
	n := s
	n.Count -= count
	n.Dead -= count
	n.Ghost = n.Dead
	n.Alpha += alpha
	n.Aggressive += aggro
	n.Beta += beta
	n.Oblivious += oblivious
	return n.check()
}

func (s SpawnState) KnockoutAggressive(count int) SpawnState {
	return s.Remove(count, 0, 0)
}

// KnockoutBeta removes one skittish entity and count-1 aggressive ones.
func (s SpawnState) KnockoutBeta(count int) SpawnState {
	return s.Remove(count-1, 1, 0)
}

// KnockoutOblivious removes one oblivious entity and count-1 aggressive ones.
func (s SpawnState) KnockoutOblivious(count int) SpawnState {
	return s.Remove(count-1, 0, 1)
}

// KnockoutAny removes up to count entities: aggressive first, then
// skittish, then oblivious.
func (s SpawnState) KnockoutAny(count int) SpawnState {
	aggro := min(s.Aggressive, count)
	beta := min(s.Beta, count-aggro)
	oblivious := min(s.Oblivious, count-aggro-beta)
	return s.Remove(aggro, beta, oblivious)
}

// Scare makes count skittish entities flee.
func (s SpawnState) Scare(count int) SpawnState {
	return s.Remove(0, count, 0)
}

// AdjustCount re-targets the alive count for the next wave of a
// repeating spawner. The spawner never shrinks below what is alive.
func (s SpawnState) AdjustCount(newAlive int) SpawnState {
	alive := s.Alive()
	n := s
	n.MaxAlive = max(newAlive, alive)
	n.Count = n.MaxAlive - alive
	n.Dead = n.Count
	return n.check()
}

// AddGhosts despawns every alive entity and holds count more slots as
// ghosts.
func (s SpawnState) AddGhosts(count int) SpawnState {
	n := s
	n.Ghost += count
	n.Dead += count
	n.Alpha = 0
	n.Aggressive = 0
	n.Beta = 0
	n.Oblivious = 0
	return n.check()
}

// RespawnInfo returns the empty slots, how many of them respawn, and how
// many stay as ghosts.
func (s SpawnState) RespawnInfo() (empty, respawn, ghosts int) {
	empty = s.Dead
	respawn = min(s.Count, empty)
	return empty, respawn, empty - respawn
}

// Code renders one letter per slot: a alpha, A aggressive, B skittish,
// O oblivious, ~ ghost, X dead, ? unaccounted.
func (s SpawnState) Code() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("a", s.Alpha))
	b.WriteString(strings.Repeat("A", max(s.Aggressive-s.Alpha, 0)))
	b.WriteString(strings.Repeat("B", s.Beta))
	b.WriteString(strings.Repeat("O", s.Oblivious))
	b.WriteString(strings.Repeat("~", s.Ghost))
	b.WriteString(strings.Repeat("X", max(s.Dead-s.Ghost, 0)))
	if pad := s.MaxAlive - b.Len(); pad > 0 {
		b.WriteString(strings.Repeat("?", pad))
	}
	return b.String()
}

// check panics if the state breaks the slot invariants.
func (s SpawnState) check() SpawnState {
	if !checks {
		return s
	}
	switch {
	case s.Count < 0:
		panic("state: negative count")
	case s.Alpha < 0 || s.Aggressive < 0 || s.Beta < 0 || s.Oblivious < 0:
		panic("state: negative alive count")
	case s.Alpha > s.Aggressive:
		panic("state: more alphas than aggressive entities")
	case s.Dead < 0 || s.Dead > s.MaxAlive:
		panic("state: dead slots out of range")
	case s.Ghost < 0 || s.Ghost > s.Dead:
		panic("state: ghost slots out of range")
	case s.Dead+s.Aggressive+s.Beta+s.Oblivious > s.MaxAlive:
		panic("state: more entities than slots")
	}
	return s
}
