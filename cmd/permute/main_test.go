package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nathoo/permutemmo/loader"
	"github.com/nathoo/permutemmo/shell"
	"github.com/nathoo/permutemmo/structure"
)

func testShell(t *testing.T, opts options) *shell.Shell {
	t.Helper()
	logger := log.New(io.Discard)
	data, err := loader.Load(filepath.Join("..", "..", "loader", "testdata", "basic"), logger)
	if err != nil {
		t.Fatal(err)
	}
	sh, err := newShell(data, logger, opts)
	if err != nil {
		t.Fatal(err)
	}
	return sh
}

func TestNewShell_Overrides(t *testing.T) {
	sh := testShell(t, options{session: "grove", seed: "0x10", depth: 3, criteria: "shiny"})
	st := sh.Status()
	if st.Session != "grove" || st.Seed != 0x10 || st.Depth != 3 || st.Criteria != "Shiny()" {
		t.Errorf("status = %+v", st)
	}

	logger := log.New(io.Discard)
	data, err := loader.Load(filepath.Join("..", "..", "loader", "testdata", "basic"), logger)
	if err != nil {
		t.Fatal(err)
	}
	for _, bad := range []options{
		{depth: -1, session: "nowhere"},
		{depth: -1, seed: "xyz"},
		{depth: -1, criteria: "All{"},
	} {
		if _, err := newShell(data, logger, bad); err == nil {
			t.Errorf("newShell(%+v) should fail", bad)
		}
	}
}

func TestRunBatch_JSON(t *testing.T) {
	sh := testShell(t, options{depth: -1})
	var out bytes.Buffer
	if err := runBatch(sh, options{json: true}, &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, `"seed": "0x8FF34785799E5CBD"`) || !strings.Contains(got, `"generated": 8580`) {
		t.Errorf("unexpected export:\n%s", got)
	}
}

func TestRunBatch_Dump(t *testing.T) {
	sh := testShell(t, options{depth: -1})
	var out bytes.Buffer
	if err := runBatch(sh, options{dump: true}, &out); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "Group Seed: "); n != 31 {
		t.Errorf("dump lists %d entities, want 31", n)
	}
}

func TestRunBlocks(t *testing.T) {
	sh := testShell(t, options{depth: -1})
	dir := t.TempDir()

	empty := filepath.Join(dir, "mass.bin")
	if err := os.WriteFile(empty, make([]byte, structure.MassSetSize), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := runBlocks(sh, empty, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "Permuting mass Outbreaks.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	odd := filepath.Join(dir, "odd.bin")
	if err := os.WriteFile(odd, make([]byte, 12), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runBlocks(sh, odd, &out); err == nil || !strings.Contains(err.Error(), "neither") {
		t.Errorf("expected a size error, got %v", err)
	}
}
