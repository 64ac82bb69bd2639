package report

import (
	"fmt"

	"github.com/nathoo/permutemmo/engine"
	"github.com/nathoo/permutemmo/engine/advance"
)

const separator = "==================="

// Dump lists every result with its full detail, grouped by path length.
func Dump(m *engine.Meta) []string {
	var lines []string
	for _, group := range m.GroupByDepth() {
		first := group[0].Advances
		last := advance.RG
		if len(first) != 0 {
			last = first[len(first)-1].Type
		}
		lines = append(lines,
			separator,
			fmt.Sprintf("Step %d: %s", len(first), last),
			advance.Join(display(first, true), "|"),
		)
		for _, r := range group {
			lines = append(lines, Detail(r.Entity)...)
			lines = append(lines, "")
		}
		lines = append(lines, "")
	}
	return lines
}
