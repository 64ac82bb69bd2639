package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/permutemmo/engine"
	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/session"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "basic", name))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestLoadJSON(t *testing.T) {
	data, err := LoadJSON(quiet(), readFixture(t, "bonus.json"), readFixture(t, "species.json"))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}

	if len(data.Sessions) != 0 {
		t.Errorf("got %d sessions, want none", len(data.Sessions))
	}
	if data.Settings.Depth != DefaultDepth || data.Settings.Criteria == nil {
		t.Errorf("settings = %+v, want defaults", data.Settings)
	}

	slots := data.Catalog.Slots(0x0F1E2D3C4B5A6978)
	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4", len(slots))
	}
	if slots[3].Name != "Eevee" || !slots[3].IsAlpha || slots[3].FlawlessIVs != 3 {
		t.Errorf("slot 4 = %+v", slots[3])
	}
	if sp, ok := data.Catalog.Species(81); !ok || sp.GenderRatio != 255 {
		t.Errorf("Magnemite = %+v, %v", sp, ok)
	}
}

func TestLoadJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		docs []string
		want string
	}{
		{"invalid json", []string{`{"0x1234ABCD": [`}, "document 1: invalid JSON"},
		{"unknown species", []string{`{"0x1234ABCD": [{"slot": 1, "name": "Ponyta", "level": [1, 2]}]}`}, `no species named "Ponyta"`},
		{"bad behavior", []string{`[{"id": 1, "name": "X", "behavior": "sleepy"}]`}, "sleepy"},
		{"bad hash", []string{`[]`, `{"zz": []}`}, "invalid hex value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := make([][]byte, len(tt.docs))
			for i, d := range tt.docs {
				docs[i] = []byte(d)
			}
			_, err := LoadJSON(quiet(), docs...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

// loadReference reads the game's slot tables and species catalog. The
// files are not redistributed; tests using them skip when absent.
func loadReference(t *testing.T) *Data {
	t.Helper()
	var docs [][]byte
	for _, name := range []string{"species.json", "mmo_es.json"} {
		b, err := os.ReadFile(filepath.Join("testdata", "reference", name))
		if os.IsNotExist(err) {
			t.Skipf("reference data missing: %s", name)
		}
		if err != nil {
			t.Fatal(err)
		}
		docs = append(docs, b)
	}
	data, err := LoadJSON(quiet(), docs...)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	return data
}

func TestReference_SearchFindsKnownAlpha(t *testing.T) {
	data := loadReference(t)
	const seed = 0xA5D779D8831721FD
	g := session.NewMMO(0x7FA3A1DE69BD271E, 10, 0x44182B854CD3745D, 6)

	m, err := engine.TryPermute(g, data.Catalog, seed, 15, nil)
	if err != nil {
		t.Fatal(err)
	}
	var found *engine.Result
	for i := range m.Results {
		if m.Results[i].Entity.PID == 0x6F4EDFF0 {
			found = &m.Results[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("no result with pid 6F4EDFF0 among %d", len(m.Results))
	}
	if !engine.Verify(g, data.Catalog, seed, *found) {
		t.Errorf("replaying %s does not reproduce the result", advance.Join(found.Advances, "|"))
	}
}

func TestReference_ReplayFindsShiny(t *testing.T) {
	data := loadReference(t)
	g := session.NewMMO(0xECBF77B8F7302126, 9, 0x9D713CCF138FD43C, 7)
	path, err := advance.ParsePath("A1|A1|A2|A4|CR|A2|A2")
	if err != nil {
		t.Fatal(err)
	}

	m, _, err := engine.TryReplay(g, data.Catalog, 1911689355633755303, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, ok := m.Find(path, 2)
	if !ok {
		t.Fatal("no spawn at index 2 after the full path")
	}
	if !r.Entity.IsShiny {
		t.Errorf("spawn 2 (%s) is not shiny", r.Entity.Slot.Name)
	}
}
