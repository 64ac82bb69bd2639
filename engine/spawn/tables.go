package spawn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/permutemmo/types"
)

// MaxSpeciesTable is the largest table id treated as a species id.
// Mass outbreaks use the displayed species in place of a table hash.
const MaxSpeciesTable = 1000

const speciesBasculin = 550

// Tables resolves a table id to its weighted slots.
type Tables interface {
	Slots(table uint64) []types.SlotDetail
}

// Catalog holds the species catalog and the loaded slot tables.
// It is read-only once loading finishes.
type Catalog struct {
	species map[uint16]types.Species
	byName  map[string]uint16
	tables  map[uint64][]types.SlotDetail
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		species: map[uint16]types.Species{},
		byName:  map[string]uint16{},
		tables:  map[uint64][]types.SlotDetail{},
	}
}

// AddSpecies registers a species. A later entry with the same id replaces
// the earlier one.
func (c *Catalog) AddSpecies(s types.Species) {
	c.species[s.ID] = s
	c.byName[normalizeName(s.Name)] = s.ID
}

// AddTable registers a slot table.
func (c *Catalog) AddTable(table uint64, slots []types.SlotDetail) {
	c.tables[table] = slots
}

// Species looks up a species by id.
func (c *Catalog) Species(id uint16) (types.Species, bool) {
	s, ok := c.species[id]
	return s, ok
}

// SpeciesByName looks up a species by display name.
func (c *Catalog) SpeciesByName(name string) (types.Species, bool) {
	id, ok := c.byName[normalizeName(name)]
	if !ok {
		return types.Species{}, false
	}
	return c.species[id], true
}

// HasTable reports whether a table is known. Species tables are always
// known when the species is.
func (c *Catalog) HasTable(table uint64) bool {
	if table <= MaxSpeciesTable {
		_, ok := c.species[uint16(table)]
		return ok
	}
	_, ok := c.tables[table]
	return ok
}

// TableIDs returns the ids of every loaded hash table.
func (c *Catalog) TableIDs() []uint64 {
	ids := make([]uint64, 0, len(c.tables))
	for id := range c.tables {
		ids = append(ids, id)
	}
	return ids
}

// SpeciesCount returns the number of catalogued species.
func (c *Catalog) SpeciesCount() int {
	return len(c.species)
}

// Slots implements Tables. Unknown tables yield no slots.
func (c *Catalog) Slots(table uint64) []types.SlotDetail {
	if table <= MaxSpeciesTable {
		sp, ok := c.species[uint16(table)]
		if !ok {
			return nil
		}
		return FakeOutbreak(sp)
	}
	return c.tables[table]
}

// Resolve fills species, form, gender ratio and behavior of a slot from
// its name, written as "Name" or "Name-<form>".
func (c *Catalog) Resolve(slot types.SlotDetail) (types.SlotDetail, error) {
	// Hyphenated species names such as "Porygon-Z" match whole.
	if sp, ok := c.SpeciesByName(slot.Name); ok {
		slot.Species, slot.Form = sp.ID, 0
		slot.GenderRatio, slot.Behavior = sp.GenderRatio, sp.Behavior
		return slot, nil
	}
	name, form, err := ParseSlotName(slot.Name)
	if err != nil {
		return slot, err
	}
	sp, ok := c.SpeciesByName(name)
	if !ok {
		return slot, fmt.Errorf("no species named %q", name)
	}
	slot.Species = sp.ID
	slot.Form = form
	slot.GenderRatio = sp.GenderRatio
	slot.Behavior = sp.Behavior
	return slot, nil
}

// FakeOutbreak builds the two-slot table of a mass outbreak of one species.
func FakeOutbreak(sp types.Species) []types.SlotDetail {
	var form uint16
	name := sp.Name
	if sp.ID == speciesBasculin {
		form = 2
		name += "-2"
	}
	base := types.SlotDetail{
		Rate:        100,
		Name:        name,
		MinLevel:    0,
		MaxLevel:    1,
		Species:     sp.ID,
		Form:        form,
		GenderRatio: sp.GenderRatio,
		Behavior:    sp.Behavior,
	}
	alpha := base
	alpha.Rate = 1
	alpha.IsAlpha = true
	alpha.FlawlessIVs = 3
	return []types.SlotDetail{base, alpha}
}

// ParseSlotName splits "Name-<form>" and applies the data file's
// spelling fixes.
func ParseSlotName(s string) (name string, form uint16, err error) {
	name = s
	if dash := strings.IndexByte(s, '-'); dash >= 0 {
		f, err := strconv.ParseUint(s[dash+1:], 10, 16)
		if err != nil {
			return "", 0, fmt.Errorf("invalid form in slot name %q", s)
		}
		name, form = s[:dash], uint16(f)
	}
	switch name {
	case "MimeJr.":
		name = "Mime Jr."
	case "Mr.Mime":
		name = "Mr. Mime"
	}
	return name, form, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
