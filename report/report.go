// Package report renders search results as the text a player reads:
// one line per result, entity detail blocks and the grouped dump.
package report

import (
	"fmt"
	"strings"

	"github.com/nathoo/permutemmo/engine"
	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/types"
)

// Lines renders every result of m. With raw unset, advances use their
// long names.
func Lines(m *engine.Meta, raw bool) []string {
	lines := make([]string, 0, len(m.Results))
	for i := range m.Results {
		lines = append(lines, Line(m, i, raw))
	}
	return lines
}

// Line renders result i, marking chains and multi results against its
// neighbours.
func Line(m *engine.Meta, i int, raw bool) string {
	r := m.Results[i]
	parent, hasParent := m.NearestParent(i)
	var prev []advance.Advance
	if hasParent {
		prev = parent.Advances
	}

	var b strings.Builder
	fmt.Fprintf(&b, "* %-37s >>> %sSpawn %d = %s%s",
		Steps(r.Advances, prev, raw), WaveIndicator(r), r.Entity.Index, Summary(r.Entity), Feasibility(r.Advances))
	if hasParent || m.HasChildChain(i) {
		b.WriteString(" ~~ Chain result!")
	}
	if m.IsMultiResult(i) {
		b.WriteString(" ~~ Spawns multiple results!")
	}
	return b.String()
}

func display(path []advance.Advance, raw bool) []advance.Advance {
	out := make([]advance.Advance, len(path))
	for i, a := range path {
		out[i] = advance.Advance{Type: a.Type, Raw: raw}
	}
	return out
}

// Steps joins the path with '|'. When prev is a non-empty prefix of path,
// the shared part is drawn as "-> " markers.
func Steps(path, prev []advance.Advance, raw bool) string {
	steps := advance.Join(display(path, raw), "|")
	if len(prev) == 0 {
		return steps
	}
	shared := advance.Join(display(prev, raw), "|")
	return strings.Repeat("-> ", (len(shared)+2)/3) + steps[len(shared)+1:]
}

// WaveIndicator is blank before the first wave clear, "Bonus " after one
// and "Wave N" after more.
func WaveIndicator(r engine.Result) string {
	switch n := r.WaveIndex(); n {
	case 0:
		return "      "
	case 1:
		return "Bonus "
	default:
		return fmt.Sprintf("Wave %d", n)
	}
}

func anyOf(path []advance.Advance, pred func(advance.Type) bool) bool {
	for _, a := range path {
		if pred(a.Type) {
			return true
		}
	}
	return false
}

// Feasibility notes how hard the path is to perform.
func Feasibility(path []advance.Advance) string {
	multiBeta := anyOf(path, advance.Type.IsMultiBeta)
	if anyOf(path, advance.Type.IsMultiScare) {
		if multiBeta {
			return " -- Skittish: Multi scaring with aggressive!"
		}
		return " -- Skittish: Multi scaring!"
	}
	if multiBeta {
		return " -- Skittish: Aggressive!"
	}
	if anyOf(path, func(t advance.Type) bool { return t == advance.B1 }) {
		if anyOf(path, advance.Type.IsMultiAggressive) {
			return " -- Skittish: Mostly aggressive!"
		}
		return " -- Skittish: Single advances!"
	}
	if anyOf(path, advance.Type.IsMultiOblivious) {
		return " -- Oblivious: Aggressive!"
	}
	if anyOf(path, advance.Type.IsMultiAggressive) {
		return ""
	}
	return " -- Single Advances!"
}

// shinyMark is " <rolls> *" for a shiny, with a square for xor 0.
func shinyMark(e types.EntityResult) string {
	if !e.IsShiny {
		return ""
	}
	mark := "*"
	if e.ShinyXor == 0 {
		mark = "■"
	}
	return fmt.Sprintf(" %2d %s", e.RollCountUsed, mark)
}

func alphaMark(e types.EntityResult) string {
	if e.IsAlpha {
		return "α-"
	}
	return " "
}

func genderSuffix(g uint8) string {
	switch g {
	case types.GenderGenderless:
		return ""
	case types.GenderFemale:
		return " (F)"
	}
	return " (M)"
}

func genderLetter(g uint8) string {
	switch g {
	case types.GenderMale:
		return "M"
	case types.GenderFemale:
		return "F"
	}
	return "-"
}

func ivs(e types.EntityResult) string {
	parts := make([]string, len(e.IVs))
	for i, iv := range e.IVs {
		parts[i] = fmt.Sprintf("%02d", iv)
	}
	return strings.Join(parts, "/")
}

// Summary is the one-line entity description used in result lines.
func Summary(e types.EntityResult) string {
	notAlpha := ""
	if !e.IsAlpha {
		notAlpha = " -- NOT ALPHA"
	}
	return fmt.Sprintf("%s%s%s:%s %s %-8s%s",
		alphaMark(e), e.Slot.Name, genderSuffix(e.Gender), shinyMark(e), ivs(e), spawn.NatureName(e.Nature), notAlpha)
}

// Detail lists everything generated for the entity, seeds included.
func Detail(e types.EntityResult) []string {
	return []string{
		shinyMark(e) + alphaMark(e) + e.Slot.Name,
		fmt.Sprintf("Group Seed: %016X", e.GroupSeed),
		fmt.Sprintf("Alpha Move Seed: %016X", e.AlphaSeed),
		fmt.Sprintf("Slot Seed: %016X", e.SlotSeed),
		fmt.Sprintf("Slot: %.5f", e.SlotRoll),
		fmt.Sprintf("Level: %d", e.Level),
		fmt.Sprintf("Gen Seed: %016X", e.GenSeed),
		fmt.Sprintf("  EC: %08X", e.EC),
		fmt.Sprintf("  PID: %08X", e.PID),
		fmt.Sprintf("  Flawless IVs: %d", e.Slot.FlawlessIVs),
		fmt.Sprintf("  IVs: %s", ivs(e)),
		fmt.Sprintf("  Ability: %d", e.Ability),
		fmt.Sprintf("  Gender: %s", genderLetter(e.Gender)),
		fmt.Sprintf("  Nature: %s", spawn.NatureName(e.Nature)),
		fmt.Sprintf("  %d | %d", e.Height, e.Weight),
	}
}
