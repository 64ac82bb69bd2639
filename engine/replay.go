package engine

import (
	"fmt"

	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/session"
	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/engine/state"
)

// SpawnStep records the state after one replayed advance or respawn.
type SpawnStep struct {
	Step      advance.Advance
	State     state.SpawnState
	Seed      uint64
	CountSeed uint64
}

// Summary renders the step as "<advance> <slots> <count> <seed> <count seed>".
func (s SpawnStep) Summary() string {
	return fmt.Sprintf("%s %s %d %016X %016X", s.Step.Type, s.State.Code(), s.State.Count, s.Seed, s.CountSeed)
}

var regenerate = advance.Advance{Type: advance.RG, Raw: true}

// Replay follows one literal path from seed instead of exploring, and
// collects every entity criteria keeps along the way. A nil criteria
// keeps everything. Results carry the path prefix that was current at
// their respawn, exactly as a search would record them.
func Replay(g *session.Graph, tables spawn.Tables, seed uint64, path []advance.Advance, criteria Criteria) (*Meta, []SpawnStep) {
	if criteria == nil {
		criteria = Always
	}
	m := newMeta(g, tables, len(path), criteria)
	var steps []SpawnStep
	record := func(a advance.Advance, st state.SpawnState, seed uint64) {
		steps = append(steps, SpawnStep{Step: a, State: st, Seed: seed, CountSeed: m.counts[m.node].CountSeed})
	}

	st := m.current().StartState(&m.counts[m.node])
	seed, st = m.respawn(m.current().Table, seed, st)
	record(regenerate, st, seed)

	for _, a := range path {
		m.path = append(m.path, a)
		node := m.current()

		switch {
		case node.RetainExisting():
			if c := a.Type.Count(); c != 0 {
				st = st.KnockoutAny(c)
			}
			next, ok := m.Graph.NextWave(m.node)
			if !ok {
				panic("engine: no next spawner available")
			}
			m.node = next
			st = st.AdjustCount(m.counts[next].Next())
			record(a, st, seed)
		case a.Type == advance.CR:
			next, ok := m.Graph.NextWave(m.node)
			if !ok {
				panic("engine: no next spawner available")
			}
			m.node = next
			st = m.current().StartState(&m.counts[next])
			record(a, st, seed)
		case a.Type.IsGhost():
			st = st.AddGhosts(a.Type.Count())
			seed = spawn.GroupSeed(seed, st.Ghost)
			record(a, st, seed)
			continue
		default:
			st = st.Remove(a.Type.Removals())
			record(a, st, seed)
		}

		if st.Count != 0 {
			seed, st = m.respawn(m.current().Table, seed, st)
		}
		record(regenerate, st, seed)
	}
	return m, steps
}

// TryReplay runs Replay and reports an impossible path as an error.
func TryReplay(g *session.Graph, tables spawn.Tables, seed uint64, path []advance.Advance, criteria Criteria) (m *Meta, steps []SpawnStep, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, steps, err = nil, nil, fmt.Errorf("replay %s: %v", advance.Join(path, "|"), r)
		}
	}()
	m, steps = Replay(g, tables, seed, path, criteria)
	return m, steps, nil
}

// Find returns the first result with the given path and spawn index.
func (m *Meta) Find(path []advance.Advance, index int) (Result, bool) {
	for _, r := range m.Results {
		if r.Entity.Index == index && advance.SequenceEqual(r.Advances, path) {
			return r, true
		}
	}
	return Result{}, false
}

// Verify replays a search result and reports whether the same slot seed
// and PID come back at the same spawn index.
func Verify(g *session.Graph, tables spawn.Tables, seed uint64, r Result) bool {
	m, _, err := TryReplay(g, tables, seed, r.Advances, nil)
	if err != nil {
		return false
	}
	got, ok := m.Find(r.Advances, r.Entity.Index)
	return ok && got.Entity.SlotSeed == r.Entity.SlotSeed && got.Entity.PID == r.Entity.PID
}
