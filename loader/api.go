package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
}

// named registers a curried constructor: Name "id" { ... }.
func named(L *lua.LState, name string, add func(id string, tbl *lua.LTable)) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(id, L.CheckTable(1))
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Settings { depth = 15, criteria = All{ Shiny(), Alpha() } }
	L.SetGlobal("Settings", L.NewFunction(func(L *lua.LState) int {
		coll.settings = L.CheckTable(1)
		return 0
	}))

	// Species "Starly" { id = 396, gender = 127, behavior = "aggressive" }
	named(L, "Species", func(name string, tbl *lua.LTable) {
		coll.species = append(coll.species, rawSpecies{name: name, table: tbl})
	})

	// Table "0x1A2B..." { Slot{...}, Slot{...} }
	named(L, "Table", func(id string, tbl *lua.LTable) {
		coll.tables = append(coll.tables, rawTable{id: id, table: tbl})
	})

	// Slot { rate = 100, name = "Starly", level = {10, 14} }, returned as is.
	L.SetGlobal("Slot", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))

	for _, kind := range []string{"MMO", "Outbreak", "Loop"} {
		kind := kind
		named(L, kind, func(name string, tbl *lua.LTable) {
			coll.sessions = append(coll.sessions, rawSession{kind: kind, name: name, table: tbl})
		})
	}
}

// condition builds a condition table of the given type.
func condition(L *lua.LState, typ string, fields ...any) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	for i := 0; i+1 < len(fields); i += 2 {
		tbl.RawSetString(fields[i].(string), fields[i+1].(lua.LValue))
	}
	return tbl
}

func registerConditionHelpers(L *lua.LState) {
	// Always()
	L.SetGlobal("Always", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "always"))
		return 1
	}))

	// Shiny() or Shiny(true) for square shinies only.
	L.SetGlobal("Shiny", L.NewFunction(func(L *lua.LState) int {
		square := L.OptBool(1, false)
		L.Push(condition(L, "shiny", "square", lua.LBool(square)))
		return 1
	}))

	// Alpha()
	L.SetGlobal("Alpha", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "alpha"))
		return 1
	}))

	// IsSpecies(396) or IsSpecies("Starly")
	L.SetGlobal("IsSpecies", L.NewFunction(func(L *lua.LState) int {
		v := L.CheckAny(1)
		L.Push(condition(L, "species", "species", v))
		return 1
	}))

	// Nature("Jolly") or Nature(13)
	L.SetGlobal("Nature", L.NewFunction(func(L *lua.LState) int {
		v := L.CheckAny(1)
		L.Push(condition(L, "nature", "nature", v))
		return 1
	}))

	// MinFlawless(3)
	L.SetGlobal("MinFlawless", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckNumber(1)
		L.Push(condition(L, "flawless", "count", n))
		return 1
	}))

	// Gender("female") or Gender(1)
	L.SetGlobal("Gender", L.NewFunction(func(L *lua.LState) int {
		v := L.CheckAny(1)
		L.Push(condition(L, "gender", "gender", v))
		return 1
	}))

	// MaxRolls(5)
	L.SetGlobal("MaxRolls", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckNumber(1)
		L.Push(condition(L, "max_rolls", "rolls", n))
		return 1
	}))

	// Index(1)
	L.SetGlobal("Index", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckNumber(1)
		L.Push(condition(L, "index", "index", n))
		return 1
	}))

	// Wave(1)
	L.SetGlobal("Wave", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckNumber(1)
		L.Push(condition(L, "wave", "wave", n))
		return 1
	}))

	// All{ cond, cond, ... }
	L.SetGlobal("All", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "all", "children", L.CheckTable(1)))
		return 1
	}))

	// Any{ cond, cond, ... }
	L.SetGlobal("Any", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "any", "children", L.CheckTable(1)))
		return 1
	}))

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "not", "inner", L.CheckTable(1)))
		return 1
	}))
}
