package report

import (
	"fmt"

	"github.com/nathoo/permutemmo/engine"
	"github.com/nathoo/permutemmo/engine/session"
	"github.com/nathoo/permutemmo/structure"
)

// Searcher runs one search of a spawner's session from seed.
type Searcher func(g *session.Graph, seed uint64) (*engine.Meta, error)

// Namer returns the display name of a species id.
type Namer func(species uint16) string

func spawnerReport(g *session.Graph, seed uint64, m *engine.Meta, raw bool) []string {
	lines := g.Summary("Parameters: ")
	lines = append(lines, fmt.Sprintf("Seed: %d", seed))
	lines = append(lines, Lines(m, raw)...)
	return append(lines, "")
}

// MassiveOutbreaks searches every revealed spawner of every active area.
func MassiveOutbreaks(set structure.MassiveSet, search Searcher, name Namer, raw bool) ([]string, error) {
	lines := []string{"Permuting Mass Outbreaks."}
	for _, area := range set {
		areaName := AreaName(area.AreaHash)
		if !area.Active {
			lines = append(lines, "No outbreak in "+areaName)
			continue
		}

		found := false
		for j, sp := range area.Spawners {
			if sp.Status == structure.StatusNone {
				continue
			}
			g := sp.Graph()
			m, err := search(g, sp.GroupSeed)
			if err != nil {
				return lines, fmt.Errorf("%s spawner %d: %w", areaName, j+1, err)
			}
			if !m.HasResults() {
				continue
			}
			if !found {
				lines = append(lines, fmt.Sprintf("Found paths for Massive mass Outbreaks in %s.", areaName), "==========")
				found = true
			}
			lines = append(lines, fmt.Sprintf("Spawner %d at (%.1f,%.1f,%v) shows %s", j+1, sp.X, sp.Y, sp.Z, name(sp.Species)))
			lines = append(lines, spawnerReport(g, sp.GroupSeed, m, raw)...)
		}

		if found {
			lines = append(lines, "Done permuting area.", "==========")
		} else {
			lines = append(lines, "Found no results for any Massive Mass Outbreak in "+areaName)
		}
	}
	return lines, nil
}

// MassOutbreaks searches the mass outbreak of every area that has one.
func MassOutbreaks(set structure.MassSet, search Searcher, name Namer, raw bool) ([]string, error) {
	lines := []string{"Permuting mass Outbreaks."}
	for _, sp := range set {
		areaName := AreaName(sp.AreaHash)
		if !sp.HasOutbreak() {
			lines = append(lines, "No outbreak in "+areaName)
			continue
		}

		species := name(sp.Species)
		g := sp.Graph()
		m, err := search(g, sp.GroupSeed)
		if err != nil {
			return lines, fmt.Errorf("%s outbreak: %w", areaName, err)
		}
		if !m.HasResults() {
			lines = append(lines, fmt.Sprintf("Found no paths for %s Mass Outbreak in %s", species, areaName))
			continue
		}
		lines = append(lines,
			fmt.Sprintf("Found paths for %s Mass Outbreak in %s:", species, areaName),
			"==========",
			fmt.Sprintf("Spawner at (%.1f, %.1f, %v) shows %s", sp.X, sp.Y, sp.Z, species),
		)
		lines = append(lines, spawnerReport(g, sp.GroupSeed, m, raw)...)
	}
	return append(lines, "Done permuting Mass Outbreaks.", "=========="), nil
}
