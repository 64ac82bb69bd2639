package loader

import (
	"testing"

	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/types"
)

const (
	testBase  uint64 = 0x1A2B3C4D5E6F7081
	testBonus uint64 = 0x0F1E2D3C4B5A6978
)

// validData returns a minimal valid Data for testing.
func validData() *Data {
	cat := spawn.NewCatalog()
	cat.AddSpecies(types.Species{ID: 396, Name: "Starly", GenderRatio: 127})
	slots := []types.SlotDetail{
		{Rate: 100, Name: "Starly", MinLevel: 10, MaxLevel: 14, Species: 396},
		{Rate: 20, Name: "Starly", IsAlpha: true, MinLevel: 18, MaxLevel: 20, FlawlessIVs: 3, Species: 396},
	}
	cat.AddTable(testBase, slots)
	cat.AddTable(testBonus, slots)
	return &Data{
		Settings: types.Settings{Depth: 15, LogLevel: "info", Criteria: DefaultCriteria()},
		Catalog:  cat,
		Sessions: []types.SessionDef{
			{Name: "mmo", Kind: types.KindMMO, Table: testBase, Count: 8, Bonus: testBonus, BonusCount: 5, Seed: 1},
			{Name: "mo", Kind: types.KindOutbreak, Table: 396, Count: 10, Seed: 1},
			{Name: "loop", Kind: types.KindRegular, Table: testBase, MaxAlive: 4, Seed: 1},
		},
	}
}

func TestValidate_ValidData(t *testing.T) {
	data := validData()
	if err := validate(data); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(data.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", data.Warnings)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Data)
		want   string
	}{
		{"negative depth", func(d *Data) { d.Settings.Depth = -2 }, "depth must not be negative"},
		{"log level", func(d *Data) { d.Settings.LogLevel = "trace" }, "log_level"},
		{"bad criteria", func(d *Data) {
			d.Settings.Criteria = &types.Condition{Type: "glitter"}
		}, "unknown condition"},
		{"negative rate", func(d *Data) {
			d.Catalog.AddTable(0xAAAA, []types.SlotDetail{{Rate: -1, Name: "Starly", IsAlpha: true}})
		}, "negative rate"},
		{"inverted levels", func(d *Data) {
			d.Catalog.AddTable(0xAAAA, []types.SlotDetail{{Rate: 1, Name: "Starly", MinLevel: 9, MaxLevel: 3, IsAlpha: true}})
		}, "inverted"},
		{"flawless", func(d *Data) {
			d.Catalog.AddTable(0xAAAA, []types.SlotDetail{{Rate: 1, Name: "Starly", FlawlessIVs: 7, IsAlpha: true}})
		}, "7 flawless IVs"},
		{"duplicate session", func(d *Data) {
			d.Sessions = append(d.Sessions, types.SessionDef{Name: "MMO", Kind: types.KindOutbreak, Table: 396, Count: 1, Seed: 1})
		}, `duplicate session name "MMO"`},
		{"missing base", func(d *Data) { d.Sessions[0].Table = 0xBEEF }, "undefined base table"},
		{"missing bonus", func(d *Data) { d.Sessions[0].Bonus = 0xBEEF }, "undefined bonus table"},
		{"base count", func(d *Data) { d.Sessions[0].Count = 0 }, "positive base_count"},
		{"bonus count", func(d *Data) { d.Sessions[0].BonusCount = 0 }, "positive bonus_count"},
		{"outbreak species", func(d *Data) { d.Sessions[1].Table = 25 }, "undefined species 25"},
		{"outbreak count", func(d *Data) { d.Sessions[1].Count = 0 }, "positive count"},
		{"loop table", func(d *Data) { d.Sessions[2].Table = 0xBEEF }, "undefined table"},
		{"loop alive", func(d *Data) { d.Sessions[2].MaxAlive = 5 }, "invalid alive range"},
		{"compile error", func(d *Data) { d.errs = []string{"table 0x1: boom"} }, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validData()
			tt.mutate(data)
			err := validate(data)
			if err == nil {
				t.Fatal("expected error")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			assertContains(t, ve.Errors, tt.want)
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Data)
		want   string
	}{
		{"zero rate", func(d *Data) {
			d.Catalog.AddTable(0xAAAA, []types.SlotDetail{{Rate: 0, Name: "Starly", IsAlpha: true}})
		}, "can never be picked"},
		{"no alpha", func(d *Data) {
			d.Catalog.AddTable(0xAAAA, []types.SlotDetail{{Rate: 1, Name: "Starly"}})
		}, "no alpha slot"},
		{"empty table", func(d *Data) { d.Catalog.AddTable(0xAAAA, nil) }, "has no slots"},
		{"no seed", func(d *Data) { d.Sessions[0].Seed = 0 }, "has no seed"},
		{"ranged count", func(d *Data) { d.Sessions[2].MinAlive = 2 }, "without count_seed"},
		{"compile warning", func(d *Data) { d.Warnings = []string{"table defined more than once"} }, "more than once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validData()
			tt.mutate(data)
			if err := validate(data); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			assertContains(t, data.Warnings, tt.want)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []string{"a", "b"}}
	want := "validation failed with 2 error(s):\n  a\n  b"
	if ve.Error() != want {
		t.Errorf("Error() = %q, want %q", ve.Error(), want)
	}
}
