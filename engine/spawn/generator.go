// Package spawn derives spawned entities from seeds. Draw order matches
// the host game exactly; reordering any draw breaks reproducibility.
package spawn

import (
	"github.com/nathoo/permutemmo/engine/rng"
	"github.com/nathoo/permutemmo/types"
)

// Gender ratio sentinels.
const (
	RatioMale       = 0
	RatioFemale     = 254
	RatioGenderless = 255
)

// ShinyRolls returns the PID attempt budget for a spawner kind.
func ShinyRolls(k types.Kind) int {
	switch k {
	case types.KindMMO:
		return 19
	case types.KindOutbreak:
		return 32
	default:
		return 7
	}
}

// Generate derives one entity from its slot seed. It reports false when
// the usable slots carry no weight.
func Generate(groupSeed uint64, index int, seed, alphaSeed uint64, slots []types.SlotDetail, kind types.Kind, noAlpha bool) (types.EntityResult, bool) {
	slotRNG := rng.New(seed)

	sum := slotSum(slots, noAlpha)
	if sum == 0 {
		return types.EntityResult{}, false
	}

	roll := slotRNG.NextFloat(sum, 0)
	slot := pickSlot(slots, roll, noAlpha)
	genSeed := slotRNG.Next()
	level := rollLevel(slot, slotRNG)

	e := types.EntityResult{
		Slot:      slot,
		GroupSeed: groupSeed,
		Index:     index,
		SlotSeed:  seed,
		SlotRoll:  roll,
		GenSeed:   genSeed,
		AlphaSeed: alphaSeed,
		Species:   slot.Species,
		Form:      slot.Form,
		Level:     level,
		IsAlpha:   slot.IsAlpha,
	}
	generateEntity(&e, genSeed, ShinyRolls(kind), slot.FlawlessIVs, slot.GenderRatio)
	return e, true
}

func slotSum(slots []types.SlotDetail, noAlpha bool) float32 {
	var total float32
	for _, s := range slots {
		if noAlpha && s.IsAlpha {
			continue
		}
		total = float32(total + float32(s.Rate))
	}
	return total
}

func pickSlot(slots []types.SlotDetail, roll float32, noAlpha bool) types.SlotDetail {
	for _, s := range slots {
		if noAlpha && s.IsAlpha {
			continue
		}
		roll = float32(roll - float32(s.Rate))
		if roll <= 0 {
			return s
		}
	}
	panic("spawn: slot roll out of range of slot values")
}

// rollLevel draws from a copy of the slot generator positioned after the
// gen seed draw.
func rollLevel(slot types.SlotDetail, r rng.Xoroshiro) int {
	level := slot.MinLevel
	if delta := slot.MaxLevel - slot.MinLevel; delta != 0 {
		level += int(r.NextMax(uint64(delta + 1)))
	}
	return level
}

func generateEntity(e *types.EntityResult, seed uint64, shinyRolls, flawless, genderRatio int) {
	r := rng.New(seed)
	e.EC = uint32(r.NextMax(0xFFFFFFFF))
	e.FakeTID = uint32(r.NextMax(0xFFFFFFFF))

	var pid uint32
	for ctr := 1; ; ctr++ {
		pid = uint32(r.NextMax(0xFFFFFFFF))
		if xor := ShinyXor(pid, e.FakeTID); xor < 16 {
			e.IsShiny = true
			e.ShinyXor = xor
			e.RollCountUsed = ctr
			e.RollCountAllowed = shinyRolls
			break
		}
		if ctr >= shinyRolls {
			break
		}
	}
	e.PID = pid

	for i := 0; i < flawless; i++ {
		idx := r.NextMax(6)
		for e.IVs[idx] != 0 {
			idx = r.NextMax(6)
		}
		e.IVs[idx] = 31
	}
	for i := range e.IVs {
		if e.IVs[i] == 0 {
			e.IVs[i] = uint8(r.NextMax(32))
		}
	}

	e.Ability = uint8(r.NextMax(2))

	switch genderRatio {
	case RatioGenderless:
		e.Gender = types.GenderGenderless
	case RatioFemale:
		e.Gender = types.GenderFemale
	case RatioMale:
		e.Gender = types.GenderMale
	default:
		if int(r.NextMax(253))+1 < genderRatio {
			e.Gender = types.GenderFemale
		} else {
			e.Gender = types.GenderMale
		}
	}

	e.Nature = uint8(r.NextMax(25))

	if e.IsAlpha {
		e.Height, e.Weight = 0xFF, 0xFF
		return
	}
	e.Height = uint8(r.NextMax(0x81) + r.NextMax(0x80))
	e.Weight = uint8(r.NextMax(0x81) + r.NextMax(0x80))
}

// ShinyXor folds a PID against a trainer id. Values below 16 are shiny;
// zero is a square shiny.
func ShinyXor(pid, tid uint32) uint32 {
	x := pid ^ tid
	return (x ^ (x >> 16)) & 0xFFFF
}

func IsOblivious(e types.EntityResult) bool {
	return e.Slot.Behavior == types.BehaviorOblivious
}

func IsSkittish(e types.EntityResult) bool {
	return e.Slot.Behavior == types.BehaviorSkittish
}

// IsAggressive reports whether knockouts treat e as aggressive. Alphas
// always are.
func IsAggressive(e types.EntityResult) bool {
	return e.IsAlpha || !(IsSkittish(e) || IsOblivious(e))
}
