// Package engine provides the permutation search: a depth-first walk over
// every advance sequence a spawner allows, regenerating each respawn from
// its seed and keeping the entities that satisfy a criteria.
package engine

import (
	"fmt"

	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/session"
	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/engine/state"
	"github.com/nathoo/permutemmo/types"
)

// Criteria decides whether a generated entity is kept. It sees the path
// that led to the respawn.
type Criteria func(e types.EntityResult, path []advance.Advance) bool

// DefaultCriteria keeps shiny alphas.
func DefaultCriteria(e types.EntityResult, _ []advance.Advance) bool {
	return e.IsShiny && e.IsAlpha
}

// Always keeps every entity.
func Always(types.EntityResult, []advance.Advance) bool {
	return true
}

// Result is a kept entity and the advances that produced it.
type Result struct {
	Advances []advance.Advance
	Entity   types.EntityResult
}

// Meta is the running state of one search or replay.
type Meta struct {
	Graph    *session.Graph
	Tables   spawn.Tables
	MaxDepth int
	Criteria Criteria

	Results   []Result
	Generated int // entities generated, kept or not

	node   int
	counts []session.SpawnCount
	path   []advance.Advance
	slots  map[uint64][]types.SlotDetail
}

func newMeta(g *session.Graph, tables spawn.Tables, maxDepth int, criteria Criteria) *Meta {
	if criteria == nil {
		criteria = DefaultCriteria
	}
	return &Meta{
		Graph:    g,
		Tables:   tables,
		MaxDepth: maxDepth,
		Criteria: criteria,
		node:     g.Root(),
		counts:   g.Counts(),
		slots:    map[uint64][]types.SlotDetail{},
	}
}

// Permute searches every advance path reachable from seed. maxDepth caps
// the path length at which a further wave may still be entered. A nil
// criteria keeps shiny alphas.
func Permute(g *session.Graph, tables spawn.Tables, seed uint64, maxDepth int, criteria Criteria) *Meta {
	m := newMeta(g, tables, maxDepth, criteria)
	root := g.Nodes[m.node]
	st := root.StartState(&m.counts[m.node])
	m.recurse(root.Table, seed, st)
	return m
}

// TryPermute runs Permute and reports a broken session or table as an
// error instead of a panic.
func TryPermute(g *session.Graph, tables spawn.Tables, seed uint64, maxDepth int, criteria Criteria) (m *Meta, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("permute: %v", r)
		}
	}()
	return Permute(g, tables, seed, maxDepth, criteria), nil
}

// HasResults reports whether anything matched.
func (m *Meta) HasResults() bool {
	return len(m.Results) != 0
}

func (m *Meta) current() session.Node {
	return m.Graph.Nodes[m.node]
}

// branch runs fn with t pushed onto the path. The push is undone on every
// exit, panics included.
func (m *Meta) branch(t advance.Type, fn func()) {
	m.path = append(m.path, advance.Advance{Type: t, Raw: true})
	defer func() { m.path = m.path[:len(m.path)-1] }()
	fn()
}

func (m *Meta) addResult(e types.EntityResult) {
	path := make([]advance.Advance, len(m.path))
	copy(path, m.path)
	m.Results = append(m.Results, Result{Advances: path, Entity: e})
}

func (m *Meta) visit(e types.EntityResult) {
	m.Generated++
	if m.Criteria(e, m.path) {
		m.addResult(e)
	}
}

func (m *Meta) tableSlots(table uint64) []types.SlotDetail {
	s, ok := m.slots[table]
	if !ok {
		s = m.Tables.Slots(table)
		m.slots[table] = s
	}
	return s
}

// attemptNextWave returns the wave to enter once the current table is
// exhausted, if the depth bound still allows one.
func (m *Meta) attemptNextWave() (int, bool) {
	if len(m.path) >= m.MaxDepth {
		return session.None, false
	}
	return m.Graph.NextWave(m.node)
}

func (m *Meta) recurse(table, seed uint64, st state.SpawnState) {
	// 1. Entities remain: respawn and branch on the next advance.
	if st.Count != 0 {
		m.outbreak(table, seed, st)
		return
	}

	// 2. Table exhausted: move on to the next wave.
	next, ok := m.attemptNextWave()
	if !ok {
		return
	}
	m.nextTable(next, seed, st)

	// 3. Or hold empty slots with ghosts, reseeding the respawn.
	if m.current().AllowGhosts() && st.CanAddGhosts() {
		m.addGhosts(table, seed, st)
	}
}

func (m *Meta) outbreak(table, seed uint64, st state.SpawnState) {
	seed, st = m.respawn(table, seed, st)
	m.continuePermute(table, seed, st)
}

// respawn fills the empty slots and returns the next group seed.
func (m *Meta) respawn(table, seed uint64, st state.SpawnState) (uint64, state.SpawnState) {
	if st.Count == 0 {
		return seed, st
	}
	empty, respawn, ghosts := st.RespawnInfo()
	node := m.current()
	b := spawn.Respawn(seed, empty, ghosts, st.Alpha, node.NoMultiAlpha(), m.tableSlots(table), node.Kind, m.visit)
	return b.Seed, st.Add(respawn, b.Alpha, b.Aggressive, b.Beta, b.Oblivious)
}

func (m *Meta) continuePermute(table, seed uint64, st state.SpawnState) {
	if m.current().Kind == types.KindRegular {
		m.continueRegular(table, seed, st)
		return
	}

	if st.Count == 0 {
		m.recurse(table, seed, st)
		return
	}

	for i := 1; i <= st.Aggressive; i++ {
		m.branch(advance.Of(advance.FamilyAggressive, i), func() {
			m.recurse(table, seed, st.KnockoutAggressive(i))
		})
	}
	if st.Oblivious != 0 {
		for i := 1; i <= st.Aggressive+1; i++ {
			m.branch(advance.Of(advance.FamilyOblivious, i), func() {
				m.recurse(table, seed, st.KnockoutOblivious(i))
			})
		}
	}
	if st.Beta != 0 {
		for i := 1; i <= st.Aggressive+1; i++ {
			m.branch(advance.Of(advance.FamilyBeta, i), func() {
				m.recurse(table, seed, st.KnockoutBeta(i))
			})
		}
	}
	for i := 2; i < st.Beta; i++ {
		m.branch(advance.Of(advance.FamilyScare, i), func() {
			m.recurse(table, seed, st.Scare(i))
		})
	}
}

// continueRegular branches a repeating spawner. The count seed is put
// back after every branch so siblings draw the same alive counts.
func (m *Meta) continueRegular(table, seed uint64, st state.SpawnState) {
	c := &m.counts[m.node]
	saved := c.CountSeed

	if c.CanSpawnMore(st.Alive()) {
		m.branch(advance.RG, func() {
			m.recurse(table, seed, st)
		})
		c.CountSeed = saved
	}

	// A table with no weight leaves filled slots with nothing in them.
	living := st.Aggressive + st.Beta + st.Oblivious
	for i := 1; i <= living; i++ {
		m.branch(advance.Of(advance.FamilyAggressive, i), func() {
			m.recurse(table, seed, st.KnockoutAny(i))
		})
		c.CountSeed = saved
	}
}

func (m *Meta) nextTable(next int, seed uint64, exist state.SpawnState) {
	node := m.Graph.Nodes[next]
	if !node.RetainExisting() {
		m.path = append(m.path, advance.Advance{Type: advance.CR, Raw: true})
		defer func() { m.path = m.path[:len(m.path)-1] }()
	}

	prev := m.node
	m.node = next
	defer func() { m.node = prev }()

	newAlive := m.counts[next].Next()
	var st state.SpawnState
	if node.RetainExisting() {
		st = exist.AdjustCount(newAlive)
	} else {
		st = node.StartState(&m.counts[next])
	}
	m.outbreak(node.Table, seed, st)
}

func (m *Meta) addGhosts(table, seed uint64, st state.SpawnState) {
	for i := 1; i <= st.EmptyGhostSlots(); i++ {
		m.branch(advance.Of(advance.FamilyGhost, i), func() {
			ns := st.AddGhosts(i)
			m.recurse(table, spawn.GroupSeed(seed, ns.Ghost), ns)
		})
	}
}
