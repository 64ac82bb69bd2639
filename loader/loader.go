package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/types"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	settings *lua.LTable
	species  []rawSpecies
	tables   []rawTable
	sessions []rawSession
	json     []jsonFile
}

// Data is everything a data directory defines.
type Data struct {
	Settings types.Settings
	Catalog  *spawn.Catalog
	Sessions []types.SessionDef // source order
	Warnings []string

	errs []string // compile problems reported by validate
}

// Session looks up a session by name, ignoring case.
func (d *Data) Session(name string) (types.SessionDef, bool) {
	for _, s := range d.Sessions {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return types.SessionDef{}, false
}

// Load reads all .lua and .json files from dir, compiles them into a
// species catalog, slot tables and sessions, and validates references.
// Warnings go to logger; a nil logger uses the default one. The Lua VM is
// discarded after loading.
func Load(dir string, logger *log.Logger) (*Data, error) {
	if logger == nil {
		logger = log.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory %s: %w", dir, err)
	}

	var luaFiles, jsonFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".lua":
			luaFiles = append(luaFiles, e.Name())
		case ".json":
			jsonFiles = append(jsonFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 && len(jsonFiles) == 0 {
		return nil, fmt.Errorf("no .lua or .json files found in %s", dir)
	}

	// Sort: settings.lua first, rest alphabetical.
	luaFiles = sortedFiles(luaFiles, "settings.lua")
	jsonFiles = sortedFiles(jsonFiles, "")

	coll := &collector{}

	for _, f := range jsonFiles {
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		coll.json = append(coll.json, jsonFile{name: f, data: data})
	}

	L := newSandbox()
	defer L.Close()
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	return build(coll, logger)
}

// LoadJSON compiles JSON documents the way Load treats the .json files of a
// data directory: an array is a species list, an object maps table hashes
// to slots. Settings take their defaults and no sessions are defined.
func LoadJSON(logger *log.Logger, docs ...[]byte) (*Data, error) {
	if logger == nil {
		logger = log.Default()
	}
	coll := &collector{}
	for i, d := range docs {
		coll.json = append(coll.json, jsonFile{name: fmt.Sprintf("document %d", i+1), data: d})
	}
	return build(coll, logger)
}

func build(coll *collector, logger *log.Logger) (*Data, error) {
	data, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling data: %w", err)
	}

	err = validate(data)
	for _, w := range data.Warnings {
		logger.Warn(w)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// newSandbox returns a VM with only the safe libraries open.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	return L
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
