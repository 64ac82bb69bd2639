// Package shell interprets the search commands shared by the line CLI and
// the TUI. A Shell holds the selected session, seed, depth and criteria,
// and the last search.
package shell

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nathoo/permutemmo/engine"
	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/filter"
	"github.com/nathoo/permutemmo/engine/save"
	"github.com/nathoo/permutemmo/engine/session"
	"github.com/nathoo/permutemmo/loader"
	"github.com/nathoo/permutemmo/types"
)

// Shell is the search state behind a command line.
type Shell struct {
	Data    *loader.Data
	Logger  *log.Logger
	SaveDir string

	def      types.SessionDef
	graph    *session.Graph
	seed     uint64
	depth    int
	raw      bool
	criteria engine.Criteria
	expr     string // criteria as Lua, for saves and the status bar
	meta     *engine.Meta
}

// Result is the output of one command.
type Result struct {
	Output []string
	Quit   bool
}

// Status summarizes the shell for a status bar.
type Status struct {
	Session  string
	Kind     string
	Seed     uint64
	Depth    int
	Criteria string
	Results  int
	Searched bool
}

// New returns a shell using the data directory's settings. The first
// session, if any, is selected.
func New(data *loader.Data, logger *log.Logger) (*Shell, error) {
	if logger == nil {
		logger = log.Default()
	}
	home, _ := os.UserHomeDir()
	s := &Shell{
		Data:    data,
		Logger:  logger,
		SaveDir: filepath.Join(home, ".permute", "saves"),
		depth:   data.Settings.Depth,
		raw:     data.Settings.Raw,
	}

	cond := loader.DefaultCriteria()
	if data.Settings.Criteria != nil {
		cond = data.Settings.Criteria
	}
	if err := s.setCondition(*cond); err != nil {
		return nil, err
	}

	if len(data.Sessions) > 0 {
		if err := s.SetSession(data.Sessions[0]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetSession selects a session and its configured seed.
func (s *Shell) SetSession(def types.SessionDef) error {
	g, err := session.FromDef(def)
	if err != nil {
		return err
	}
	s.def, s.graph, s.seed, s.meta = def, g, def.Seed, nil
	return nil
}

// Use selects a session of the data directory by name.
func (s *Shell) Use(name string) error {
	def, ok := s.Data.Session(name)
	if !ok {
		return fmt.Errorf("no session named %q", name)
	}
	return s.SetSession(def)
}

// SetSeed sets the group seed the next search starts from.
func (s *Shell) SetSeed(seed uint64) {
	s.seed, s.meta = seed, nil
}

// Depth returns the wave depth bound.
func (s *Shell) Depth() int { return s.depth }

// SetDepth sets the wave depth bound.
func (s *Shell) SetDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("depth must not be negative, got %d", depth)
	}
	s.depth, s.meta = depth, nil
	return nil
}

// SetCriteria compiles a criteria expression such as "All{Shiny(), Alpha()}".
func (s *Shell) SetCriteria(expr string) error {
	c, err := loader.CompileCriteria(expr)
	if err != nil {
		return err
	}
	return s.setCondition(c)
}

func (s *Shell) setCondition(c types.Condition) error {
	crit, err := filter.Compile(c)
	if err != nil {
		return err
	}
	s.criteria, s.expr, s.meta = crit, filter.Describe(c), nil
	return nil
}

// Selected describes the selected session, one line per wave.
func (s *Shell) Selected() []string {
	if s.graph == nil {
		return []string{"No session selected."}
	}
	return s.graph.Summary(fmt.Sprintf("Session %s: ", s.def.Name))
}

// Meta returns the last search, or nil.
func (s *Shell) Meta() *engine.Meta {
	return s.meta
}

// Status reports the current selection.
func (s *Shell) Status() Status {
	st := Status{
		Session:  s.def.Name,
		Seed:     s.seed,
		Depth:    s.depth,
		Criteria: s.expr,
	}
	if s.graph != nil {
		st.Kind = session.KindName(s.def.Kind)
	}
	if s.meta != nil {
		st.Searched, st.Results = true, len(s.meta.Results)
	}
	return st
}

// Search runs a search of the selected session.
func (s *Shell) Search() (*engine.Meta, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("no session selected")
	}
	m, err := engine.TryPermute(s.graph, s.Data.Catalog, s.seed, s.depth, s.criteria)
	if err != nil {
		return nil, err
	}
	s.meta = m
	s.Logger.Info("search done",
		"session", s.def.Name,
		"seed", fmt.Sprintf("0x%016X", s.seed),
		"results", len(m.Results),
		"generated", m.Generated)
	return m, nil
}

// SearchGraph searches a graph the data directory does not define, such as
// one decoded from an outbreak block, with the current depth and criteria.
func (s *Shell) SearchGraph(g *session.Graph, seed uint64) (*engine.Meta, error) {
	return engine.TryPermute(g, s.Data.Catalog, seed, s.depth, s.criteria)
}

// Raw reports whether advances print as short codes.
func (s *Shell) Raw() bool {
	return s.raw
}

// Export serializes the last search as a save file.
func (s *Shell) Export() ([]byte, error) {
	if s.meta == nil {
		return nil, fmt.Errorf("no search to export")
	}
	return save.Save(save.Run{
		Session:  s.def,
		Seed:     s.seed,
		Depth:    s.depth,
		Criteria: s.expr,
		Meta:     s.meta,
	})
}

// Replay follows one path from the current seed, keeping every entity.
func (s *Shell) Replay(path []advance.Advance) (*engine.Meta, []engine.SpawnStep, error) {
	if s.graph == nil {
		return nil, nil, fmt.Errorf("no session selected")
	}
	return engine.TryReplay(s.graph, s.Data.Catalog, s.seed, path, nil)
}
