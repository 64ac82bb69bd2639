// Package filter turns declarative conditions into search criteria.
package filter

import (
	"fmt"
	"strings"

	"github.com/nathoo/permutemmo/engine"
	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/types"
)

// Match evaluates a single condition against an entity and the path that
// produced it. Unknown condition types never match.
func Match(c types.Condition, e types.EntityResult, path []advance.Advance) bool {
	switch c.Type {
	case "always":
		return true

	case "shiny":
		if square, _ := c.Params["square"].(bool); square {
			return e.IsShiny && e.ShinyXor == 0
		}
		return e.IsShiny

	case "alpha":
		return e.IsAlpha

	case "species":
		switch v := c.Params["species"].(type) {
		case string:
			return strings.EqualFold(e.Slot.Name, v) || strings.EqualFold(speciesName(e.Slot.Name), v)
		default:
			return int(e.Species) == toInt(v)
		}

	case "nature":
		n, ok := natureParam(c.Params["nature"])
		return ok && e.Nature == n

	case "flawless":
		return flawless(e) >= toInt(c.Params["count"])

	case "gender":
		g, ok := genderParam(c.Params["gender"])
		return ok && e.Gender == g

	case "max_rolls":
		return e.IsShiny && e.RollCountUsed <= toInt(c.Params["rolls"])

	case "index":
		return e.Index == toInt(c.Params["index"])

	case "wave":
		return waveOf(path) == toInt(c.Params["wave"])

	case "all":
		for _, child := range c.Children {
			if !Match(child, e, path) {
				return false
			}
		}
		return true

	case "any":
		for _, child := range c.Children {
			if Match(child, e, path) {
				return true
			}
		}
		return false

	case "not":
		if c.Inner == nil {
			return true
		}
		return !Match(*c.Inner, e, path)

	default:
		return false
	}
}

// Validate checks that every condition in the tree is known and carries
// usable parameters.
func Validate(c types.Condition) error {
	switch c.Type {
	case "always", "shiny", "alpha":
		return nil
	case "species":
		if _, ok := c.Params["species"]; !ok {
			return fmt.Errorf("species: missing species")
		}
	case "nature":
		if _, ok := natureParam(c.Params["nature"]); !ok {
			return fmt.Errorf("nature: unknown nature %v", c.Params["nature"])
		}
	case "flawless":
		if n := toInt(c.Params["count"]); n < 0 || n > 6 {
			return fmt.Errorf("flawless: count %d out of range 0..6", n)
		}
	case "gender":
		if _, ok := genderParam(c.Params["gender"]); !ok {
			return fmt.Errorf("gender: unknown gender %v", c.Params["gender"])
		}
	case "max_rolls":
		if toInt(c.Params["rolls"]) < 1 {
			return fmt.Errorf("max_rolls: rolls must be at least 1")
		}
	case "index":
		if n := toInt(c.Params["index"]); n < 1 || n > 4 {
			return fmt.Errorf("index: %d out of range 1..4", n)
		}
	case "wave":
		if toInt(c.Params["wave"]) < 0 {
			return fmt.Errorf("wave: must not be negative")
		}
	case "all", "any":
		for i, child := range c.Children {
			if err := Validate(child); err != nil {
				return fmt.Errorf("%s[%d]: %w", c.Type, i, err)
			}
		}
	case "not":
		if c.Inner == nil {
			return fmt.Errorf("not: missing condition")
		}
		if err := Validate(*c.Inner); err != nil {
			return fmt.Errorf("not: %w", err)
		}
	default:
		return fmt.Errorf("unknown condition %q", c.Type)
	}
	return nil
}

// Compile validates c and returns it as search criteria.
func Compile(c types.Condition) (engine.Criteria, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return func(e types.EntityResult, path []advance.Advance) bool {
		return Match(c, e, path)
	}, nil
}

// Describe renders a condition in the Lua helper syntax.
func Describe(c types.Condition) string {
	switch c.Type {
	case "always":
		return "Always()"
	case "shiny":
		if square, _ := c.Params["square"].(bool); square {
			return "Shiny(true)"
		}
		return "Shiny()"
	case "alpha":
		return "Alpha()"
	case "species":
		if s, ok := c.Params["species"].(string); ok {
			return fmt.Sprintf("IsSpecies(%q)", s)
		}
		return fmt.Sprintf("IsSpecies(%d)", toInt(c.Params["species"]))
	case "nature":
		n, _ := natureParam(c.Params["nature"])
		return fmt.Sprintf("Nature(%q)", spawn.NatureName(n))
	case "flawless":
		return fmt.Sprintf("MinFlawless(%d)", toInt(c.Params["count"]))
	case "gender":
		g, _ := genderParam(c.Params["gender"])
		return fmt.Sprintf("Gender(%q)", genderNames[g])
	case "max_rolls":
		return fmt.Sprintf("MaxRolls(%d)", toInt(c.Params["rolls"]))
	case "index":
		return fmt.Sprintf("Index(%d)", toInt(c.Params["index"]))
	case "wave":
		return fmt.Sprintf("Wave(%d)", toInt(c.Params["wave"]))
	case "all", "any":
		parts := make([]string, len(c.Children))
		for i, child := range c.Children {
			parts[i] = Describe(child)
		}
		name := "All"
		if c.Type == "any" {
			name = "Any"
		}
		return name + "{" + strings.Join(parts, ", ") + "}"
	case "not":
		if c.Inner == nil {
			return "Not()"
		}
		return "Not(" + Describe(*c.Inner) + ")"
	}
	return c.Type
}

var genderNames = map[uint8]string{
	types.GenderMale:       "male",
	types.GenderFemale:     "female",
	types.GenderGenderless: "genderless",
}

// speciesName drops a numeric form suffix from a slot name.
func speciesName(slot string) string {
	name, _, err := spawn.ParseSlotName(slot)
	if err != nil {
		return slot
	}
	return name
}

func flawless(e types.EntityResult) int {
	n := 0
	for _, iv := range e.IVs {
		if iv == 31 {
			n++
		}
	}
	return n
}

func waveOf(path []advance.Advance) int {
	n := 0
	for _, a := range path {
		if a.Type == advance.CR {
			n++
		}
	}
	return n
}

func natureParam(v any) (uint8, bool) {
	if s, ok := v.(string); ok {
		return spawn.NatureIndex(s)
	}
	n := toInt(v)
	if v == nil || n < 0 || n >= len(spawn.Natures) {
		return 0, false
	}
	return uint8(n), true
}

func genderParam(v any) (uint8, bool) {
	if s, ok := v.(string); ok {
		for g, name := range genderNames {
			if strings.EqualFold(name, s) {
				return g, true
			}
		}
		return 0, false
	}
	n := toInt(v)
	if v == nil || n < 0 || n > int(types.GenderGenderless) {
		return 0, false
	}
	return uint8(n), true
}

// toInt converts an any value to int, handling float64 from JSON/Lua.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
