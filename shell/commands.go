package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/save"
	"github.com/nathoo/permutemmo/engine/session"
	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/report"
)

// Step runs one command line.
func (s *Shell) Step(input string) Result {
	c := parseCommand(input)
	if c.Verb == "" {
		return Result{}
	}
	cmd, arg := c.Verb, c.Arg

	switch cmd {
	case "/quit", "/exit":
		return Result{Output: []string{"Goodbye."}, Quit: true}
	case "/help", "help":
		return out(help()...)
	case "/save":
		return s.cmdSave(arg)
	case "/load":
		return s.cmdLoad(arg)
	case "/verify":
		return s.cmdVerify(arg)
	case "search":
		return s.cmdSearch()
	case "replay":
		return s.cmdReplay(arg)
	case "dump":
		return s.cmdDump()
	case "show":
		return s.cmdShow(arg)
	case "sessions":
		return s.cmdSessions()
	case "use":
		return s.cmdUse(arg)
	case "criteria":
		return s.cmdCriteria(arg)
	case "depth":
		return s.cmdDepth(arg)
	case "seed":
		return s.cmdSeed(arg)
	case "raw":
		s.raw = !s.raw
		if s.raw {
			return out("Showing advance codes.")
		}
		return out("Showing advance names.")
	}
	return out(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
}

func out(lines ...string) Result {
	return Result{Output: lines}
}

func fail(format string, args ...any) Result {
	return out("Error: " + fmt.Sprintf(format, args...))
}

func help() []string {
	return []string{
		"Search:",
		"  search               Search the selected session",
		"  replay <path>        Follow one path, e.g. replay A1|O2|CR",
		"  dump                 Detail every result, grouped by step",
		"  show <n>             Detail result n",
		"",
		"Setup:",
		"  sessions             List sessions",
		"  use <name>           Select a session",
		"  seed [hex]           Show or set the group seed",
		"  depth [n]            Show or set the wave depth bound",
		"  criteria [expr]      Show or set the criteria, e.g. All{Shiny(), Alpha()}",
		"  raw                  Toggle advance codes and names",
		"",
		"System:",
		"  /save [name]         Save the last search (default: quicksave)",
		"  /load [name]         Load a saved search",
		"  /verify [name]       Replay every result of a save",
		"  /help                Show this help",
		"  /quit                Exit",
	}
}

func (s *Shell) cmdSearch() Result {
	m, err := s.Search()
	if err != nil {
		return fail("%v", err)
	}
	lines := s.graph.Summary("Parameters: ")
	lines = append(lines, fmt.Sprintf("Seed: %016X", s.seed))
	if !m.HasResults() {
		lines = append(lines, "No results.")
	} else {
		lines = append(lines, report.Lines(m, s.raw)...)
	}
	return out(append(lines, fmt.Sprintf("%d results, %d spawns generated.", len(m.Results), m.Generated))...)
}

func (s *Shell) cmdReplay(arg string) Result {
	path, err := advance.ParsePath(arg)
	if err != nil {
		return fail("%v", err)
	}
	m, steps, err := s.Replay(path)
	if err != nil {
		return fail("%v", err)
	}
	lines := make([]string, 0, len(steps)+len(m.Results)+1)
	for _, st := range steps {
		lines = append(lines, st.Summary())
	}
	lines = append(lines, "")
	lines = append(lines, report.Lines(m, s.raw)...)
	return out(lines...)
}

func (s *Shell) cmdDump() Result {
	if s.meta == nil {
		return out("Nothing to dump. Run search first.")
	}
	return out(report.Dump(s.meta)...)
}

func (s *Shell) cmdShow(arg string) Result {
	if s.meta == nil {
		return out("Nothing to show. Run search first.")
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(s.meta.Results) {
		return fail("show needs a result number from 1 to %d", len(s.meta.Results))
	}
	lines := []string{report.Line(s.meta, n-1, s.raw)}
	return out(append(lines, report.Detail(s.meta.Results[n-1].Entity)...)...)
}

func (s *Shell) cmdSessions() Result {
	if len(s.Data.Sessions) == 0 {
		return out("No sessions defined.")
	}
	var lines []string
	for _, def := range s.Data.Sessions {
		mark := " "
		if strings.EqualFold(def.Name, s.def.Name) {
			mark = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %-16s %-8s table 0x%016X seed 0x%016X", mark, def.Name, session.KindName(def.Kind), def.Table, def.Seed))
	}
	return out(lines...)
}

func (s *Shell) cmdUse(arg string) Result {
	if arg == "" {
		return fail("use needs a session name")
	}
	if err := s.Use(arg); err != nil {
		return fail("%v", err)
	}
	return out(s.graph.Summary(fmt.Sprintf("Selected %s: ", s.def.Name))...)
}

func (s *Shell) cmdCriteria(arg string) Result {
	if arg == "" {
		return out("Criteria: " + s.expr)
	}
	if err := s.SetCriteria(arg); err != nil {
		return fail("%v", err)
	}
	return out("Criteria: " + s.expr)
}

func (s *Shell) cmdDepth(arg string) Result {
	if arg == "" {
		return out(fmt.Sprintf("Depth: %d", s.depth))
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fail("invalid depth %q", arg)
	}
	if err := s.SetDepth(n); err != nil {
		return fail("%v", err)
	}
	return out(fmt.Sprintf("Depth: %d", s.depth))
}

func (s *Shell) cmdSeed(arg string) Result {
	if arg == "" {
		return out(fmt.Sprintf("Seed: 0x%016X", s.seed))
	}
	seed, err := spawn.ParseHash(arg)
	if err != nil {
		return fail("%v", err)
	}
	s.SetSeed(seed)
	return out(fmt.Sprintf("Seed: 0x%016X", s.seed))
}

func (s *Shell) savePath(name string) string {
	if name == "" {
		name = "quicksave"
	}
	return filepath.Join(s.SaveDir, name+".json")
}

func (s *Shell) cmdSave(name string) Result {
	if s.meta == nil {
		return out("Nothing to save. Run search first.")
	}
	data, err := s.Export()
	if err != nil {
		return fail("save failed: %v", err)
	}
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return fail("save failed: %v", err)
	}
	if err := os.WriteFile(s.savePath(name), data, 0o644); err != nil {
		return fail("save failed: %v", err)
	}
	return out(fmt.Sprintf("Saved %d results to %s.", len(s.meta.Results), s.savePath(name)))
}

func (s *Shell) readSave(name string) (*save.SaveData, error) {
	data, err := os.ReadFile(s.savePath(name))
	if err != nil {
		return nil, err
	}
	return save.Load(data)
}

// cmdLoad restores the session, seed, depth and criteria of a save and
// lists its results. The search itself is not rerun.
func (s *Shell) cmdLoad(name string) Result {
	sd, err := s.readSave(name)
	if err != nil {
		return fail("load failed: %v", err)
	}
	def, err := sd.Def()
	if err != nil {
		return fail("load failed: %v", err)
	}
	if err := s.SetSession(def); err != nil {
		return fail("load failed: %v", err)
	}
	if err := s.SetDepth(sd.Depth); err != nil {
		return fail("load failed: %v", err)
	}
	if sd.Criteria != "" {
		if err := s.SetCriteria(sd.Criteria); err != nil {
			return fail("load failed: %v", err)
		}
	}

	lines := []string{fmt.Sprintf("Loaded %s: %d results from %d spawns.", def.Name, len(sd.Results), sd.Generated)}
	for i, r := range sd.Results {
		lines = append(lines, fmt.Sprintf("%3d. %-37s Spawn %d = %s PID %08X", i+1, r.Path, r.Index, r.Name, r.PID))
	}
	return out(lines...)
}

func (s *Shell) cmdVerify(name string) Result {
	sd, err := s.readSave(name)
	if err != nil {
		return fail("verify failed: %v", err)
	}
	bad, err := save.Verify(sd, s.Data.Catalog)
	if err != nil {
		return fail("verify failed: %v", err)
	}
	if len(bad) == 0 {
		return out(fmt.Sprintf("All %d results reproduce.", len(sd.Results)))
	}
	lines := []string{fmt.Sprintf("%d of %d results do not reproduce:", len(bad), len(sd.Results))}
	for _, m := range bad {
		lines = append(lines, "  "+m.String())
	}
	return out(lines...)
}
