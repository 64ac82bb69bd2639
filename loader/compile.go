// Package loader loads Lua and JSON spawn data into Go structs at load
// time. The Lua VM is discarded after loading.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/types"
)

// rawSpecies holds a species table before compilation.
type rawSpecies struct {
	name  string
	table *lua.LTable
}

// rawTable holds a slot table before compilation.
type rawTable struct {
	id    string
	table *lua.LTable
}

// rawSession holds an MMO, Outbreak or Loop table before compilation.
type rawSession struct {
	kind  string
	name  string
	table *lua.LTable
}

// jsonFile is a data file read alongside the Lua sources.
type jsonFile struct {
	name string
	data []byte
}

// Defaults used when Settings{} is absent or leaves a field out.
const (
	DefaultDepth    = 15
	DefaultLogLevel = "info"
)

// DefaultCriteria keeps shiny alphas.
func DefaultCriteria() *types.Condition {
	return &types.Condition{Type: "all", Children: []types.Condition{
		{Type: "shiny", Params: map[string]any{}},
		{Type: "alpha", Params: map[string]any{}},
	}}
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getIntOr returns an int field, or def when the field is missing.
func getIntOr(tbl *lua.LTable, key string, def int) int {
	if _, ok := tbl.RawGetString(key).(lua.LNumber); !ok {
		return def
	}
	return getInt(tbl, key)
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getHash reads a 64-bit hash or seed. Hashes do not fit a Lua number, so
// they are written as hex strings; small numbers are taken as is.
func getHash(tbl *lua.LTable, key string) (uint64, error) {
	switch v := tbl.RawGetString(key).(type) {
	case lua.LString:
		h, err := spawn.ParseHash(string(v))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return h, nil
	case lua.LNumber:
		if v < 0 {
			return 0, fmt.Errorf("%s: negative value %v", key, v)
		}
		return uint64(v), nil
	case *lua.LNilType:
		return 0, nil
	default:
		return 0, fmt.Errorf("%s: expected a hex string, got %s", key, v.Type())
	}
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// ParseBehavior reads a behavior name.
func ParseBehavior(s string) (types.Behavior, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "aggressive":
		return types.BehaviorAggressive, nil
	case "skittish":
		return types.BehaviorSkittish, nil
	case "oblivious":
		return types.BehaviorOblivious, nil
	}
	return 0, fmt.Errorf("unknown behavior %q", s)
}

// compile converts all collected Lua and JSON data into Data. Problems
// that validation should report together are kept in errs.
func compile(coll *collector) (*Data, error) {
	data := &Data{Catalog: spawn.NewCatalog()}
	c := &compiler{data: data}

	settings, err := compileSettings(coll.settings)
	if err != nil {
		return nil, fmt.Errorf("compiling settings: %w", err)
	}
	data.Settings = settings

	// Species first: slots and outbreaks resolve against them.
	var tables []jsonFile
	for _, f := range coll.json {
		if !gjson.ValidBytes(f.data) {
			return nil, fmt.Errorf("%s: invalid JSON", f.name)
		}
		if gjson.ParseBytes(f.data).IsArray() {
			if err := c.jsonSpecies(f); err != nil {
				return nil, err
			}
			continue
		}
		tables = append(tables, f)
	}
	for _, raw := range coll.species {
		sp, err := compileSpecies(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling species %s: %w", raw.name, err)
		}
		c.addSpecies(sp)
	}

	for _, f := range tables {
		c.jsonTables(f)
	}
	for _, raw := range coll.tables {
		id, err := spawn.ParseHash(raw.id)
		if err != nil {
			return nil, fmt.Errorf("compiling table: %w", err)
		}
		var slots []types.SlotDetail
		raw.table.ForEach(func(k, v lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				return
			}
			if tbl, ok := v.(*lua.LTable); ok {
				slots = append(slots, compileSlot(tbl))
			}
		})
		c.addTable(fmt.Sprintf("table 0x%016X", id), id, slots)
	}

	for _, raw := range coll.sessions {
		def, err := c.compileSession(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling %s %s: %w", raw.kind, raw.name, err)
		}
		data.Sessions = append(data.Sessions, def)
	}

	data.errs = c.errs
	return data, nil
}

// compiler carries the catalog under construction and the problems met
// while resolving slot names.
type compiler struct {
	data *Data
	errs []string
}

func (c *compiler) addSpecies(sp types.Species) {
	if prev, ok := c.data.Catalog.Species(sp.ID); ok && prev.Name != sp.Name {
		c.errs = append(c.errs, fmt.Sprintf("species id %d defined as both %q and %q", sp.ID, prev.Name, sp.Name))
	}
	c.data.Catalog.AddSpecies(sp)
}

func (c *compiler) addTable(label string, id uint64, slots []types.SlotDetail) {
	if id <= spawn.MaxSpeciesTable {
		c.errs = append(c.errs, fmt.Sprintf("%s: id is reserved for species outbreaks", label))
		return
	}
	if c.data.Catalog.HasTable(id) {
		c.data.Warnings = append(c.data.Warnings, fmt.Sprintf("%s defined more than once; last definition wins", label))
	}
	resolved := make([]types.SlotDetail, 0, len(slots))
	for i, s := range slots {
		r, err := c.data.Catalog.Resolve(s)
		if err != nil {
			c.errs = append(c.errs, fmt.Sprintf("%s slot %d: %v", label, i+1, err))
			continue
		}
		resolved = append(resolved, r)
	}
	c.data.Catalog.AddTable(id, resolved)
}

// jsonSpecies reads a species list: [{"id":396,"name":"Starly","gender":127,"behavior":"aggressive"}].
func (c *compiler) jsonSpecies(f jsonFile) error {
	var err error
	gjson.ParseBytes(f.data).ForEach(func(_, v gjson.Result) bool {
		b, berr := ParseBehavior(v.Get("behavior").String())
		if berr != nil {
			err = fmt.Errorf("%s: species %q: %w", f.name, v.Get("name").String(), berr)
			return false
		}
		gender := 127
		if g := v.Get("gender"); g.Exists() {
			gender = int(g.Int())
		}
		c.addSpecies(types.Species{
			ID:          uint16(v.Get("id").Uint()),
			Name:        v.Get("name").String(),
			GenderRatio: gender,
			Behavior:    b,
		})
		return true
	})
	return err
}

// jsonTables reads slot tables keyed by hash:
// {"0x<hash>": [{"slot":100,"name":"Starly","alpha":false,"level":[10,14],"ivs":0}]}.
func (c *compiler) jsonTables(f jsonFile) {
	gjson.ParseBytes(f.data).ForEach(func(k, v gjson.Result) bool {
		label := fmt.Sprintf("%s table %s", f.name, k.String())
		id, err := spawn.ParseHash(k.String())
		if err != nil {
			c.errs = append(c.errs, fmt.Sprintf("%s: %v", label, err))
			return true
		}
		var slots []types.SlotDetail
		v.ForEach(func(_, s gjson.Result) bool {
			slot := types.SlotDetail{
				Rate:        int(s.Get("slot").Int()),
				Name:        s.Get("name").String(),
				IsAlpha:     s.Get("alpha").Bool(),
				FlawlessIVs: int(s.Get("ivs").Int()),
			}
			if lv := readIntSlice(s.Get("level")); len(lv) == 2 {
				slot.MinLevel, slot.MaxLevel = lv[0], lv[1]
			}
			slots = append(slots, slot)
			return true
		})
		c.addTable(label, id, slots)
		return true
	})
}

func readIntSlice(v gjson.Result) []int {
	if !v.Exists() || !v.IsArray() {
		return nil
	}
	arr := v.Array()
	out := make([]int, len(arr))
	for i, item := range arr {
		out[i] = int(item.Int())
	}
	return out
}

func compileSettings(tbl *lua.LTable) (types.Settings, error) {
	s := types.Settings{
		Depth:    DefaultDepth,
		Criteria: DefaultCriteria(),
		LogLevel: DefaultLogLevel,
		Raw:      true,
	}
	if tbl == nil {
		return s, nil
	}
	s.Depth = getIntOr(tbl, "depth", DefaultDepth)
	if lvl := getString(tbl, "log_level"); lvl != "" {
		s.LogLevel = lvl
	}
	s.Raw = getBool(tbl, "raw", true)

	switch v := tbl.RawGetString("criteria").(type) {
	case *lua.LTable:
		c := compileCondition(v)
		s.Criteria = &c
	case lua.LString:
		c, err := CompileCriteria(string(v))
		if err != nil {
			return s, err
		}
		s.Criteria = &c
	}
	return s, nil
}

func compileSpecies(raw rawSpecies) (types.Species, error) {
	b, err := ParseBehavior(getString(raw.table, "behavior"))
	if err != nil {
		return types.Species{}, err
	}
	return types.Species{
		ID:          uint16(getInt(raw.table, "id")),
		Name:        raw.name,
		GenderRatio: getIntOr(raw.table, "gender", 127),
		Behavior:    b,
	}, nil
}

func compileSlot(tbl *lua.LTable) types.SlotDetail {
	s := types.SlotDetail{
		Rate:        getIntOr(tbl, "rate", getInt(tbl, "slot")),
		Name:        getString(tbl, "name"),
		IsAlpha:     getBool(tbl, "alpha", false),
		FlawlessIVs: getInt(tbl, "ivs"),
	}
	if lv := getTable(tbl, "level"); lv != nil {
		s.MinLevel = int(lua.LVAsNumber(lv.RawGetInt(1)))
		s.MaxLevel = int(lua.LVAsNumber(lv.RawGetInt(2)))
	}
	return s
}

func (c *compiler) compileSession(raw rawSession) (types.SessionDef, error) {
	tbl := raw.table
	def := types.SessionDef{Name: raw.name}
	var err error
	if def.Seed, err = getHash(tbl, "seed"); err != nil {
		return def, err
	}

	switch raw.kind {
	case "MMO":
		def.Kind = types.KindMMO
		if def.Table, err = getHash(tbl, "base"); err != nil {
			return def, err
		}
		if def.Bonus, err = getHash(tbl, "bonus"); err != nil {
			return def, err
		}
		def.Count = getInt(tbl, "base_count")
		def.BonusCount = getInt(tbl, "bonus_count")

	case "Outbreak":
		def.Kind = types.KindOutbreak
		def.Count = getInt(tbl, "count")
		switch v := tbl.RawGetString("species").(type) {
		case lua.LString:
			sp, ok := c.data.Catalog.SpeciesByName(string(v))
			if !ok {
				return def, fmt.Errorf("unknown species %q", string(v))
			}
			def.Table = uint64(sp.ID)
		default:
			def.Table = uint64(getInt(tbl, "species"))
		}

	case "Loop":
		def.Kind = types.KindRegular
		if def.Table, err = getHash(tbl, "table"); err != nil {
			return def, err
		}
		if def.CountSeed, err = getHash(tbl, "count_seed"); err != nil {
			return def, err
		}
		def.MaxAlive = getIntOr(tbl, "max", 4)
		def.MinAlive = getInt(tbl, "min")
	}
	return def, nil
}

// compileCondition converts a condition table built by the helpers.
func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")

	if condType == "not" {
		if innerTbl := getTable(tbl, "inner"); innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{
				Type:   "not",
				Negate: true,
				Inner:  &inner,
			}
		}
	}

	params := map[string]any{}
	var children []types.Condition
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		switch key := string(ks); key {
		case "type", "inner":
		case "children":
			if ct, ok := v.(*lua.LTable); ok {
				children = compileConditions(ct)
			}
		default:
			params[key] = toGoValue(v)
		}
	})

	return types.Condition{
		Type:     condType,
		Params:   params,
		Children: children,
	}
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	var conditions []types.Condition
	for i := 1; i <= tbl.MaxN(); i++ {
		if condTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			conditions = append(conditions, compileCondition(condTbl))
		}
	}
	return conditions
}

// sortedFiles returns files sorted alphabetically, with first leading
// when present.
func sortedFiles(files []string, first string) []string {
	var lead []string
	var others []string
	for _, f := range files {
		if f == first {
			lead = append(lead, f)
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	return append(lead, others...)
}
