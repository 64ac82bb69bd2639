package loader

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/permutemmo/engine/filter"
	"github.com/nathoo/permutemmo/types"
)

// CompileCriteria evaluates a criteria expression such as
// "All{Shiny(), Alpha()}" in a fresh sandbox. The bare words shiny, alpha
// and any are accepted, and an empty expression means shiny alphas.
func CompileCriteria(expr string) (types.Condition, error) {
	expr = strings.TrimSpace(expr)
	switch strings.ToLower(expr) {
	case "":
		return *DefaultCriteria(), nil
	case "shiny":
		return types.Condition{Type: "shiny", Params: map[string]any{}}, nil
	case "alpha":
		return types.Condition{Type: "alpha", Params: map[string]any{}}, nil
	case "any", "always":
		return types.Condition{Type: "always", Params: map[string]any{}}, nil
	}

	L := newSandbox()
	defer L.Close()
	registerConditionHelpers(L)

	if err := L.DoString("return " + expr); err != nil {
		return types.Condition{}, fmt.Errorf("criteria %q: %w", expr, err)
	}
	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return types.Condition{}, fmt.Errorf("criteria %q: expected a condition, got %s", expr, L.Get(-1).Type())
	}
	c := compileCondition(tbl)
	if err := filter.Validate(c); err != nil {
		return types.Condition{}, fmt.Errorf("criteria %q: %w", expr, err)
	}
	return c, nil
}
