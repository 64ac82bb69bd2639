package spawn_test

import (
	"testing"

	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/enginetest"
	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/types"
)

const rootSeed = 0x8ff34785799e5cbd

func TestGenerateSeed(t *testing.T) {
	slot, alpha := spawn.GenerateSeed(rootSeed, 1)
	if slot != 0x1295f8fa9c3bc718 || alpha != 0xdf3f10717aa9a3ac {
		t.Errorf("index 1: got (%#x, %#x)", slot, alpha)
	}
	slot, alpha = spawn.GenerateSeed(rootSeed, 2)
	if slot != 0xa8847543985eb168 || alpha != 0x4da4e7e530c6862b {
		t.Errorf("index 2: got (%#x, %#x)", slot, alpha)
	}
}

func TestGenerateSeed_ZeroIndexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for spawn index 0")
		}
	}()
	spawn.GenerateSeed(rootSeed, 0)
}

func TestGroupSeed(t *testing.T) {
	if got := spawn.GroupSeed(rootSeed, 0); got != 0x1295f8fa9c3bc718 {
		t.Errorf("GroupSeed(0): got %#x", got)
	}
	if got := spawn.GroupSeed(rootSeed, 3); got != 0x16d3797b905b0277 {
		t.Errorf("GroupSeed(3): got %#x", got)
	}
	if got := spawn.GroupSeed(rootSeed, 4); got != 0xbe212c5ea3b6ffd0 {
		t.Errorf("GroupSeed(4): got %#x", got)
	}
}

func TestGroupSeedFromAdvances(t *testing.T) {
	path := []advance.Advance{{Type: advance.A1}, {Type: advance.S2}}
	if got := spawn.GroupSeedFromAdvances(rootSeed, path); got != 0xdf2f008af7e511fa {
		t.Errorf("got %#x", got)
	}
}

func TestGenerate_KnownEntity(t *testing.T) {
	c := enginetest.Catalog()
	slot, alpha := spawn.GenerateSeed(rootSeed, 1)
	e, ok := spawn.Generate(rootSeed, 1, slot, alpha, c.Slots(enginetest.BaseTable), types.KindMMO, false)
	if !ok {
		t.Fatal("expected an entity")
	}
	if e.Slot.Name != "Bidoof" || e.IsAlpha || e.Level != 11 {
		t.Errorf("unexpected slot: %s alpha=%v level=%d", e.Slot.Name, e.IsAlpha, e.Level)
	}
	if e.SlotRoll != 116.57893371582031 {
		t.Errorf("slot roll: got %v", e.SlotRoll)
	}
	if e.GenSeed != 0xf7fa756012e06ab2 || e.EC != 0x357dd50d || e.FakeTID != 0x2d7c7d42 || e.PID != 0xb8f3b937 {
		t.Errorf("seeds: gen=%#x ec=%#x tid=%#x pid=%#x", e.GenSeed, e.EC, e.FakeTID, e.PID)
	}
	if e.IsShiny || e.RollCountUsed != 0 {
		t.Errorf("expected non-shiny with no rolls recorded, got shiny=%v used=%d", e.IsShiny, e.RollCountUsed)
	}
	if e.IVs != [6]uint8{10, 18, 31, 1, 25, 0} {
		t.Errorf("IVs: got %v", e.IVs)
	}
	if e.Ability != 0 || e.Gender != types.GenderMale || e.Nature != 20 || e.Height != 164 || e.Weight != 155 {
		t.Errorf("attributes: ability=%d gender=%d nature=%d size=%d/%d", e.Ability, e.Gender, e.Nature, e.Height, e.Weight)
	}
	if e.GroupSeed != rootSeed || e.Index != 1 || e.SlotSeed != slot || e.AlphaSeed != alpha {
		t.Errorf("provenance not recorded: %+v", e)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	c := enginetest.Catalog()
	slots := c.Slots(enginetest.BonusTable)
	for i := 1; i <= 4; i++ {
		slot, alpha := spawn.GenerateSeed(rootSeed, i)
		a, _ := spawn.Generate(rootSeed, i, slot, alpha, slots, types.KindMMO, false)
		b, _ := spawn.Generate(rootSeed, i, slot, alpha, slots, types.KindMMO, false)
		if a != b {
			t.Fatalf("index %d: entities differ", i)
		}
		if spawn.EntitySeed(rootSeed, i) != a.GenSeed {
			t.Errorf("index %d: EntitySeed disagrees with generated gen seed", i)
		}
	}
}

func TestGenerate_NoAlphaExcludesAlphaSlots(t *testing.T) {
	c := enginetest.Catalog()
	slot, alpha := spawn.GenerateSeed(rootSeed, 1)
	e, ok := spawn.Generate(rootSeed, 1, slot, alpha, c.Slots(enginetest.BaseTable), types.KindMMO, true)
	if !ok {
		t.Fatal("expected an entity")
	}
	if e.SlotRoll != 104.9210433959961 || e.Slot.Name != "Bidoof" {
		t.Errorf("got roll %v slot %s", e.SlotRoll, e.Slot.Name)
	}
}

func TestGenerate_Shiny(t *testing.T) {
	c := enginetest.Catalog()
	const seed = 0x11dc30e7a79adcc9
	e, _ := spawn.Generate(0, 1, seed, 0, c.Slots(enginetest.BaseTable), types.KindMMO, false)
	if !e.IsShiny || e.PID != 0x8ba790aa || e.FakeTID != 0xe90ef202 {
		t.Fatalf("expected shiny pid 0x8ba790aa, got shiny=%v pid=%#x", e.IsShiny, e.PID)
	}
	if e.ShinyXor != 1 || e.RollCountUsed != 2 || e.RollCountAllowed != 19 {
		t.Errorf("shiny accounting: xor=%d used=%d allowed=%d", e.ShinyXor, e.RollCountUsed, e.RollCountAllowed)
	}
	if e.ShinyXor != spawn.ShinyXor(e.PID, e.FakeTID) {
		t.Error("recorded xor does not match pid and tid")
	}
	if e.IVs != [6]uint8{18, 0, 26, 0, 25, 15} || e.Level != 12 || e.Gender != types.GenderFemale || e.Nature != 23 {
		t.Errorf("attributes: ivs=%v level=%d gender=%d nature=%d", e.IVs, e.Level, e.Gender, e.Nature)
	}
}

func TestGenerate_ShinyRuleHolds(t *testing.T) {
	c := enginetest.Catalog()
	slots := c.Slots(enginetest.BonusTable)
	seed := uint64(rootSeed)
	for i := 0; i < 2000; i++ {
		seed = spawn.GroupSeed(seed, 0)
		for _, kind := range []types.Kind{types.KindRegular, types.KindMMO, types.KindOutbreak} {
			e, _ := spawn.Generate(0, 1, seed, 0, slots, kind, false)
			shiny := spawn.ShinyXor(e.PID, e.FakeTID) < 16
			if shiny != e.IsShiny {
				t.Fatalf("seed %#x: IsShiny=%v but xor says %v", seed, e.IsShiny, shiny)
			}
			if e.RollCountUsed > spawn.ShinyRolls(kind) {
				t.Fatalf("seed %#x: used %d rolls, budget %d", seed, e.RollCountUsed, spawn.ShinyRolls(kind))
			}
		}
	}
}

func TestGenerate_Alpha(t *testing.T) {
	c := enginetest.Catalog()
	const seed = 0x7b81aa0a297c35a7
	e, ok := spawn.Generate(0, 1, seed, 0, c.Slots(enginetest.PonytaTable), types.KindOutbreak, false)
	if !ok || !e.IsAlpha {
		t.Fatalf("expected alpha Ponyta, got %+v", e)
	}
	if e.Height != 255 || e.Weight != 255 {
		t.Errorf("alpha size must be maxed, got %d/%d", e.Height, e.Weight)
	}
	flawless := 0
	for _, iv := range e.IVs {
		if iv == 31 {
			flawless++
		}
	}
	if flawless < 3 {
		t.Errorf("expected at least 3 flawless IVs, got %v", e.IVs)
	}
	if e.IVs != [6]uint8{31, 31, 3, 27, 19, 31} || e.Level != 1 {
		t.Errorf("ivs=%v level=%d", e.IVs, e.Level)
	}
}

func TestGenerate_ZeroWeight(t *testing.T) {
	slots := []types.SlotDetail{{Rate: 5, Name: "Starly", IsAlpha: true}}
	if _, ok := spawn.Generate(0, 1, 1, 0, slots, types.KindMMO, true); ok {
		t.Error("expected no entity when only alpha slots remain")
	}
	if _, ok := spawn.Generate(0, 1, 1, 0, nil, types.KindMMO, false); ok {
		t.Error("expected no entity for an empty table")
	}
}

func TestGender_Sentinels(t *testing.T) {
	for _, tt := range []struct {
		ratio int
		want  uint8
	}{
		{spawn.RatioGenderless, types.GenderGenderless},
		{spawn.RatioFemale, types.GenderFemale},
		{spawn.RatioMale, types.GenderMale},
	} {
		slots := []types.SlotDetail{{Rate: 1, Name: "X", GenderRatio: tt.ratio}}
		e, _ := spawn.Generate(0, 1, rootSeed, 0, slots, types.KindMMO, false)
		if e.Gender != tt.want {
			t.Errorf("ratio %d: got gender %d, want %d", tt.ratio, e.Gender, tt.want)
		}
	}
}

func TestRespawn_Batch(t *testing.T) {
	c := enginetest.Catalog()
	var seen []types.EntityResult
	b := spawn.Respawn(rootSeed, 4, 0, 0, false, c.Slots(enginetest.BaseTable), types.KindMMO, func(e types.EntityResult) {
		seen = append(seen, e)
	})
	if b.Seed != 0xbe212c5ea3b6ffd0 {
		t.Errorf("next seed: got %#x", b.Seed)
	}
	if b.Alpha != 0 || b.Aggressive != 2 || b.Beta != 0 || b.Oblivious != 2 {
		t.Errorf("tally: %+v", b)
	}
	want := []struct {
		name  string
		level int
		pid   uint32
	}{
		{"Bidoof", 11, 0xb8f3b937},
		{"Starly", 12, 0x598b4d4d},
		{"Starly", 13, 0x3ac85039},
		{"Bidoof", 12, 0x361dde8e},
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d entities, got %d", len(want), len(seen))
	}
	for i, w := range want {
		if seen[i].Slot.Name != w.name || seen[i].Level != w.level || seen[i].PID != w.pid || seen[i].Index != i+1 {
			t.Errorf("entity %d: got %s lv%d pid %#x index %d", i+1, seen[i].Slot.Name, seen[i].Level, seen[i].PID, seen[i].Index)
		}
	}
}

func TestRespawn_GhostsConsumeSeeds(t *testing.T) {
	c := enginetest.Catalog()
	var idx []int
	b := spawn.Respawn(rootSeed, 4, 3, 0, false, c.Slots(enginetest.BaseTable), types.KindMMO, func(e types.EntityResult) {
		idx = append(idx, e.Index)
	})
	if len(idx) != 1 || idx[0] != 4 {
		t.Errorf("expected only index 4 to spawn, got %v", idx)
	}
	if b.Seed != 0xbe212c5ea3b6ffd0 {
		t.Errorf("ghosts must not change the next seed, got %#x", b.Seed)
	}
}

func TestFakeOutbreak(t *testing.T) {
	slots := spawn.FakeOutbreak(types.Species{ID: 550, Name: "Basculin", GenderRatio: 127})
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Rate != 100 || slots[0].IsAlpha || slots[0].FlawlessIVs != 0 {
		t.Errorf("base slot: %+v", slots[0])
	}
	if slots[1].Rate != 1 || !slots[1].IsAlpha || slots[1].FlawlessIVs != 3 {
		t.Errorf("alpha slot: %+v", slots[1])
	}
	if slots[0].Form != 2 {
		t.Errorf("Basculin outbreaks use form 2, got %d", slots[0].Form)
	}
	for _, s := range slots {
		if s.Name != "Basculin-2" {
			t.Errorf("expected slot name Basculin-2, got %q", s.Name)
		}
	}
	if n := spawn.FakeOutbreak(types.Species{ID: 77, Name: "Ponyta"})[0].Name; n != "Ponyta" {
		t.Errorf("expected slot name Ponyta, got %q", n)
	}
}

func TestParseSlotName(t *testing.T) {
	tests := []struct {
		in   string
		name string
		form uint16
	}{
		{"Starly", "Starly", 0},
		{"Basculin-2", "Basculin", 2},
		{"MimeJr.", "Mime Jr.", 0},
		{"Mr.Mime-1", "Mr. Mime", 1},
	}
	for _, tt := range tests {
		name, form, err := spawn.ParseSlotName(tt.in)
		if err != nil || name != tt.name || form != tt.form {
			t.Errorf("ParseSlotName(%q) = (%q, %d, %v)", tt.in, name, form, err)
		}
	}
	if _, _, err := spawn.ParseSlotName("Zorua-x"); err == nil {
		t.Error("expected error for non-numeric form")
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c := enginetest.Catalog()
	c.AddSpecies(types.Species{ID: 474, Name: "Porygon-Z", GenderRatio: spawn.RatioGenderless})
	s, err := c.Resolve(types.SlotDetail{Name: "Porygon-Z"})
	if err != nil || s.Species != 474 || s.Form != 0 {
		t.Errorf("whole-name match: %+v %v", s, err)
	}
	s, err = c.Resolve(types.SlotDetail{Name: "shinx"})
	if err != nil || s.Species != 403 || s.Behavior != types.BehaviorSkittish {
		t.Errorf("case-insensitive match: %+v %v", s, err)
	}
	if _, err := c.Resolve(types.SlotDetail{Name: "Missingno"}); err == nil {
		t.Error("expected error for unknown species")
	}
	if !c.HasTable(enginetest.BaseTable) || !c.HasTable(77) || c.HasTable(12) || c.HasTable(0xDEAD0000DEAD) {
		t.Error("HasTable reported wrong membership")
	}
}
