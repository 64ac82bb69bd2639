package spawn

import (
	"github.com/nathoo/permutemmo/engine/rng"
	"github.com/nathoo/permutemmo/types"
)

// Batch tallies the categories spawned by one respawn event.
// Aggressive includes the alphas.
type Batch struct {
	Seed       uint64 // group seed of the following respawn
	Alpha      int
	Aggressive int
	Beta       int
	Oblivious  int
}

// Respawn fills count slots from a group seed. The first ghosts slots
// consume their seeds but spawn nothing. When oneAlpha is set, a second
// alpha cannot spawn while one is alive. visit sees every generated
// entity in slot order.
func Respawn(seed uint64, count, ghosts, aliveAlpha int, oneAlpha bool, slots []types.SlotDetail, kind types.Kind, visit func(types.EntityResult)) Batch {
	var b Batch
	aggressive := 0
	r := rng.New(seed)
	for i := 1; i <= count; i++ {
		sub := r.Next()
		alphaSeed := r.Next()
		if i <= ghosts {
			continue
		}

		noAlpha := oneAlpha && aliveAlpha+b.Alpha != 0
		e, ok := Generate(seed, i, sub, alphaSeed, slots, kind, noAlpha)
		if !ok {
			continue
		}
		switch {
		case e.IsAlpha:
			b.Alpha++
		case IsOblivious(e):
			b.Oblivious++
		case IsSkittish(e):
			b.Beta++
		default:
			aggressive++
		}
		if visit != nil {
			visit(e)
		}
	}
	b.Seed = r.Next()
	b.Aggressive = aggressive + b.Alpha
	return b
}
