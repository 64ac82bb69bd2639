// Package session describes spawn points and how their waves chain.
//
// A Graph is an arena of nodes addressed by index. Next and Parent are
// indices, so a wave that loops back to itself or to an earlier wave is
// just an index pointing backwards.
package session

import (
	"fmt"
	"strings"

	"github.com/nathoo/permutemmo/engine/state"
	"github.com/nathoo/permutemmo/types"
)

// EmptyHash marks an unset table or area in host data.
const EmptyHash uint64 = 0xCBF29CE484222645

// None is the index of a missing node.
const None = -1

// waveAlive is the fixed alive count of outbreak and MMO spawners.
const waveAlive = 4

// IsEmptyHash reports whether a table hash is unset.
func IsEmptyHash(h uint64) bool {
	return h == 0 || h == EmptyHash
}

// Node is one configured spawn point.
type Node struct {
	Kind   types.Kind
	Table  uint64
	Total  int // entities the table spawns in total
	Count  SpawnCount
	Next   int // next wave, None when absent
	Parent int // advisory back-link for display, None when absent
}

// NoMultiAlpha reports whether only one alpha may be alive at a time.
func (n Node) NoMultiAlpha() bool {
	return n.Kind == types.KindRegular || n.Kind == types.KindOutbreak
}

func (n Node) AllowGhosts() bool {
	return n.Kind != types.KindRegular
}

// RetainExisting reports whether alive entities carry over into the
// next wave.
func (n Node) RetainExisting() bool {
	return n.Kind == types.KindRegular
}

// StartState returns the state a node starts from. Regular spawners draw
// their alive count from c.
func (n Node) StartState(c *SpawnCount) state.SpawnState {
	if n.Kind == types.KindRegular {
		return state.GetBasic(c.Next())
	}
	return state.Get(n.Total, c.MaxAlive)
}

// Graph is the arena of nodes. Nodes[0] is the root.
type Graph struct {
	Nodes []Node
}

// Root returns the index of the first wave.
func (g *Graph) Root() int {
	return 0
}

// NextWave returns the index of the wave after i.
func (g *Graph) NextWave(i int) (int, bool) {
	n := g.Nodes[i].Next
	return n, n != None
}

// Counts returns a fresh copy of every node's count policy. Searches and
// replays mutate the copy, never the graph.
func (g *Graph) Counts() []SpawnCount {
	out := make([]SpawnCount, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.Count
	}
	return out
}

func (g *Graph) add(n Node) int {
	g.Nodes = append(g.Nodes, n)
	return len(g.Nodes) - 1
}

func waveCount() SpawnCount {
	return SpawnCount{MaxAlive: waveAlive, MinAlive: waveAlive}
}

// NewMMO builds a massive mass outbreak: a base wave and, when bonus is
// set, a bonus wave reached by clearing the base.
func NewMMO(base uint64, baseCount int, bonus uint64, bonusCount int) *Graph {
	g := &Graph{}
	root := g.add(Node{
		Kind:   types.KindMMO,
		Table:  base,
		Total:  baseCount,
		Count:  waveCount(),
		Next:   None,
		Parent: None,
	})
	if !IsEmptyHash(bonus) {
		g.Nodes[root].Next = g.add(Node{
			Kind:   types.KindMMO,
			Table:  bonus,
			Total:  bonusCount,
			Count:  waveCount(),
			Next:   None,
			Parent: root,
		})
	}
	return g
}

// NewOutbreak builds a mass outbreak of one species. The species id
// doubles as the table id.
func NewOutbreak(species uint16, count int) *Graph {
	g := &Graph{}
	g.add(Node{
		Kind:   types.KindOutbreak,
		Table:  uint64(species),
		Total:  count,
		Count:  waveCount(),
		Next:   None,
		Parent: None,
	})
	return g
}

// NewLoop builds a spawner that keeps respawning from the same table.
// Its next wave is itself.
func NewLoop(table uint64, count SpawnCount, kind types.Kind) *Graph {
	g := &Graph{}
	g.add(Node{
		Kind:   kind,
		Table:  table,
		Count:  count,
		Next:   0,
		Parent: 0,
	})
	return g
}

// FromDef builds a graph from a loaded session definition.
func FromDef(def types.SessionDef) (*Graph, error) {
	switch def.Kind {
	case types.KindMMO:
		if IsEmptyHash(def.Table) {
			return nil, fmt.Errorf("session %q: missing base table", def.Name)
		}
		return NewMMO(def.Table, def.Count, def.Bonus, def.BonusCount), nil
	case types.KindOutbreak:
		if def.Table == 0 || def.Table > 0xFFFF {
			return nil, fmt.Errorf("session %q: invalid species %d", def.Name, def.Table)
		}
		return NewOutbreak(uint16(def.Table), def.Count), nil
	case types.KindRegular:
		if def.MaxAlive <= 0 || def.MaxAlive > waveAlive || def.MinAlive > def.MaxAlive {
			return nil, fmt.Errorf("session %q: invalid alive range %d..%d", def.Name, def.MinAlive, def.MaxAlive)
		}
		c := SpawnCount{MaxAlive: def.MaxAlive, MinAlive: def.MinAlive, CountSeed: def.CountSeed}
		return NewLoop(def.Table, c, types.KindRegular), nil
	}
	return nil, fmt.Errorf("session %q: unknown kind %d", def.Name, def.Kind)
}

// KindName returns the display name of a spawner kind.
func KindName(k types.Kind) string {
	switch k {
	case types.KindRegular:
		return "Regular"
	case types.KindMMO:
		return "MMO"
	case types.KindOutbreak:
		return "Outbreak"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind reads a kind name. Case is ignored.
func ParseKind(s string) (types.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular", "loop":
		return types.KindRegular, nil
	case "mmo", "massive":
		return types.KindMMO, nil
	case "outbreak", "mo":
		return types.KindOutbreak, nil
	}
	return 0, fmt.Errorf("unknown spawner kind %q", s)
}

// Summary renders one line per wave, starting at the root.
func (g *Graph) Summary(prefix string) []string {
	var lines []string
	seen := map[int]bool{}
	for i := g.Root(); i != None && !seen[i]; i = g.Nodes[i].Next {
		seen[i] = true
		n := g.Nodes[i]
		line := fmt.Sprintf("%s%s table 0x%016X total %d alive %s", prefix, KindName(n.Kind), n.Table, n.Total, n.Count)
		switch {
		case n.Next == i:
			line += " REPEATING."
		case n.Next != None && seen[n.Next]:
			line += fmt.Sprintf(" loops to wave %d.", n.Next+1)
		}
		lines = append(lines, line)
	}
	return lines
}
