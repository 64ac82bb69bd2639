package shell

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nathoo/permutemmo/engine/enginetest"
	"github.com/nathoo/permutemmo/loader"
	"github.com/nathoo/permutemmo/types"
)

const seedA = 0x8ff34785799e5cbd

func testData() *loader.Data {
	return &loader.Data{
		Settings: types.Settings{Depth: 8, LogLevel: "info", Raw: true, Criteria: loader.DefaultCriteria()},
		Catalog:  enginetest.Catalog(),
		Sessions: []types.SessionDef{
			{Name: "fieldlands", Kind: types.KindMMO, Table: enginetest.BaseTable, Count: 8, Bonus: enginetest.BonusTable, BonusCount: 5, Seed: seedA},
			{Name: "ponyta", Kind: types.KindOutbreak, Table: 77, Count: 10, Seed: seedA},
		},
	}
}

func newTestShell(t *testing.T) *Shell {
	t.Helper()
	s, err := New(testData(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SaveDir = t.TempDir()
	return s
}

func joined(r Result) string {
	return strings.Join(r.Output, "\n")
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestNew_SelectsFirstSession(t *testing.T) {
	s := newTestShell(t)
	st := s.Status()
	if st.Session != "fieldlands" || st.Kind != "MMO" || st.Seed != seedA || st.Depth != 8 {
		t.Errorf("status = %+v", st)
	}
	if st.Criteria != "All{Shiny(), Alpha()}" {
		t.Errorf("criteria = %q", st.Criteria)
	}
	if st.Searched {
		t.Error("no search has run yet")
	}
}

func TestNew_NoSessions(t *testing.T) {
	d := testData()
	d.Sessions = nil
	s, err := New(d, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if got := joined(s.Step("search")); !strings.Contains(got, "no session selected") {
		t.Errorf("search without session = %q", got)
	}
}

func TestStep_Search(t *testing.T) {
	var logs strings.Builder
	s, err := New(testData(), log.New(&logs))
	if err != nil {
		t.Fatal(err)
	}

	r := s.Step("search")
	if r.Quit {
		t.Fatal("search must not quit")
	}
	if r.Output[0] != "Parameters: MMO table 0x1A2B3C4D5E6F7081 total 8 alive 4" {
		t.Errorf("first line = %q", r.Output[0])
	}
	if !strings.Contains(joined(r), "Seed: 8FF34785799E5CBD") {
		t.Error("missing seed line")
	}
	if n := countPrefix(r.Output, "* "); n != 31 {
		t.Errorf("got %d result lines, want 31", n)
	}
	if last := r.Output[len(r.Output)-1]; last != "31 results, 8580 spawns generated." {
		t.Errorf("last line = %q", last)
	}

	st := s.Status()
	if !st.Searched || st.Results != 31 {
		t.Errorf("status after search = %+v", st)
	}
	if !strings.Contains(logs.String(), "search done") || !strings.Contains(logs.String(), "results=31") {
		t.Errorf("log = %q", logs.String())
	}
}

func TestStep_SearchNoResults(t *testing.T) {
	s := newTestShell(t)
	s.Step("criteria Not(Always())")
	r := s.Step("search")
	if !strings.Contains(joined(r), "No results.") {
		t.Errorf("output = %q", r.Output)
	}
	if last := r.Output[len(r.Output)-1]; !strings.HasPrefix(last, "0 results, ") {
		t.Errorf("last line = %q", last)
	}
}

func TestStep_CriteriaAndDepth(t *testing.T) {
	s := newTestShell(t)

	if got := joined(s.Step("criteria Any{Shiny(), Alpha()}")); got != "Criteria: Any{Shiny(), Alpha()}" {
		t.Errorf("criteria = %q", got)
	}
	if got := joined(s.Step("criteria All{")); !strings.HasPrefix(got, "Error: ") {
		t.Errorf("bad criteria = %q", got)
	}
	if got := joined(s.Step("criteria")); got != "Criteria: Any{Shiny(), Alpha()}" {
		t.Errorf("criteria kept after error = %q", got)
	}

	if got := joined(s.Step("depth 3")); got != "Depth: 3" {
		t.Errorf("depth = %q", got)
	}
	for _, bad := range []string{"depth -1", "depth x"} {
		if got := joined(s.Step(bad)); !strings.HasPrefix(got, "Error: ") {
			t.Errorf("%s = %q", bad, got)
		}
	}
}

func TestStep_Seed(t *testing.T) {
	s := newTestShell(t)
	s.Step("search")

	if got := joined(s.Step("seed 0xfa8cfc37711c2db9")); got != "Seed: 0xFA8CFC37711C2DB9" {
		t.Errorf("seed = %q", got)
	}
	if s.Meta() != nil {
		t.Error("changing the seed must drop the last search")
	}
	if got := joined(s.Step("seed nope")); !strings.HasPrefix(got, "Error: ") {
		t.Errorf("bad seed = %q", got)
	}
	if got := joined(s.Step("seed")); got != "Seed: 0xFA8CFC37711C2DB9" {
		t.Errorf("seed = %q", got)
	}
}

func TestStep_ShowAndDump(t *testing.T) {
	s := newTestShell(t)

	if got := joined(s.Step("show 1")); !strings.Contains(got, "Run search first") {
		t.Errorf("show before search = %q", got)
	}
	if got := joined(s.Step("dump")); !strings.Contains(got, "Run search first") {
		t.Errorf("dump before search = %q", got)
	}

	s.Step("search")
	r := s.Step("show 1")
	if len(r.Output) != 16 {
		t.Fatalf("show: got %d lines, want 16", len(r.Output))
	}
	if !strings.HasPrefix(r.Output[0], "* A1|O2|A1|CR|A1") || r.Output[9] != "  PID: 4A52BAC6" {
		t.Errorf("show 1 = %q", r.Output)
	}
	for _, bad := range []string{"show 0", "show 32", "show x"} {
		if got := joined(s.Step(bad)); !strings.HasPrefix(got, "Error: ") {
			t.Errorf("%s = %q", bad, got)
		}
	}

	d := s.Step("dump")
	if countPrefix(d.Output, "Group Seed: ") != 31 {
		t.Errorf("dump lists %d entities, want 31", countPrefix(d.Output, "Group Seed: "))
	}
}

func TestStep_Replay(t *testing.T) {
	s := newTestShell(t)

	r := s.Step("replay")
	if r.Output[0] != "RG AAOO 4 BE212C5EA3B6FFD0 0000000000000000" {
		t.Errorf("first step = %q", r.Output[0])
	}
	if n := countPrefix(r.Output, "* "); n != 4 {
		t.Errorf("empty replay: got %d spawns, want 4", n)
	}

	r = s.Step("replay A1 O2 A1 CR A1")
	if n := countPrefix(r.Output, "* "); n != 13 {
		t.Errorf("got %d spawns, want 13", n)
	}
	if last := r.Output[len(r.Output)-1]; !strings.Contains(last, ">>> Bonus Spawn") {
		t.Errorf("last spawn = %q, want a bonus wave spawn", last)
	}

	if got := joined(s.Step("replay A9")); !strings.HasPrefix(got, "Error: ") {
		t.Errorf("bad path = %q", got)
	}
}

func TestStep_Raw(t *testing.T) {
	s := newTestShell(t)
	if got := joined(s.Step("raw")); got != "Showing advance names." {
		t.Errorf("raw = %q", got)
	}
	r := s.Step("search")
	if !strings.Contains(joined(r), "* 1 Aggressive|1 Oblivious + 1 Aggressive|") {
		t.Errorf("expected long advance names, got %q", r.Output[2])
	}
}

func TestStep_SessionsAndUse(t *testing.T) {
	s := newTestShell(t)

	r := s.Step("sessions")
	if len(r.Output) != 2 || !strings.HasPrefix(r.Output[0], "* fieldlands") || !strings.HasPrefix(r.Output[1], "  ponyta") {
		t.Errorf("sessions = %q", r.Output)
	}

	r = s.Step("use PONYTA")
	if !strings.HasPrefix(joined(r), "Selected ponyta: Outbreak table 0x000000000000004D") {
		t.Errorf("use = %q", r.Output)
	}
	if st := s.Status(); st.Session != "ponyta" || st.Kind != "Outbreak" {
		t.Errorf("status = %+v", st)
	}
	for _, bad := range []string{"use", "use nowhere"} {
		if got := joined(s.Step(bad)); !strings.HasPrefix(got, "Error: ") {
			t.Errorf("%s = %q", bad, got)
		}
	}
}

func TestStep_SaveLoadVerify(t *testing.T) {
	s := newTestShell(t)

	if got := joined(s.Step("/save")); !strings.Contains(got, "Run search first") {
		t.Errorf("save before search = %q", got)
	}

	s.Step("search")
	if got := joined(s.Step("/save run1")); !strings.HasPrefix(got, "Saved 31 results") {
		t.Fatalf("save = %q", got)
	}
	if _, err := os.Stat(filepath.Join(s.SaveDir, "run1.json")); err != nil {
		t.Fatal(err)
	}

	if got := joined(s.Step("/verify run1")); got != "All 31 results reproduce." {
		t.Errorf("verify = %q", got)
	}

	other := newTestShell(t)
	other.SaveDir = s.SaveDir
	other.Step("use ponyta")
	other.Step("depth 2")
	other.Step("criteria shiny")
	r := other.Step("/load run1")
	if r.Output[0] != "Loaded fieldlands: 31 results from 8580 spawns." || len(r.Output) != 32 {
		t.Errorf("load = %q", r.Output[:1])
	}
	st := other.Status()
	if st.Session != "fieldlands" || st.Seed != seedA || st.Depth != 8 || st.Criteria != "All{Shiny(), Alpha()}" {
		t.Errorf("status after load = %+v", st)
	}

	if got := joined(s.Step("/load missing")); !strings.HasPrefix(got, "Error: load failed") {
		t.Errorf("load missing = %q", got)
	}
	if got := joined(s.Step("/verify missing")); !strings.HasPrefix(got, "Error: verify failed") {
		t.Errorf("verify missing = %q", got)
	}
}

func TestStep_VerifyTampered(t *testing.T) {
	s := newTestShell(t)
	s.Step("search")
	s.Step("/save")

	path := filepath.Join(s.SaveDir, "quicksave.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// 0x4a52bac6 is the first result's PID.
	tampered := strings.Replace(string(data), `"pid": 1246935750`, `"pid": 1`, 1)
	if tampered == string(data) {
		t.Fatal("pid not found in save")
	}
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatal(err)
	}

	r := s.Step("/verify")
	if r.Output[0] != "1 of 31 results do not reproduce:" {
		t.Errorf("verify = %q", r.Output)
	}
}

func TestStep_MetaCommands(t *testing.T) {
	s := newTestShell(t)

	if r := s.Step("/quit"); !r.Quit || joined(r) != "Goodbye." {
		t.Errorf("/quit = %+v", r)
	}
	if r := s.Step("/exit"); !r.Quit {
		t.Error("/exit must quit")
	}
	if got := joined(s.Step("/help")); !strings.Contains(got, "replay <path>") {
		t.Errorf("help = %q", got)
	}
	if got := joined(s.Step("frobnicate")); !strings.HasPrefix(got, "Unknown command: frobnicate") {
		t.Errorf("unknown = %q", got)
	}
	if r := s.Step("   "); len(r.Output) != 0 || r.Quit {
		t.Errorf("blank = %+v", r)
	}
}
