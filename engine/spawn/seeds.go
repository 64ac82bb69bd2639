package spawn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/permutemmo/engine/advance"
	"github.com/nathoo/permutemmo/engine/rng"
)

// GroupSeed skips count slot pairs and returns the next group seed.
func GroupSeed(seed uint64, count int) uint64 {
	r := rng.New(seed)
	for i := 0; i < count; i++ {
		r.Next()
		r.Next()
	}
	return r.Next()
}

// GroupSeedFromAdvances walks a full first respawn of four, then one
// respawn per advance sized by the advance count.
func GroupSeedFromAdvances(seed uint64, path []advance.Advance) uint64 {
	seed = GroupSeed(seed, 4)
	for _, a := range path {
		seed = GroupSeed(seed, a.Type.Count())
	}
	return seed
}

// GenerateSeed returns the slot seed and alpha move seed of the 1-based
// spawn index.
func GenerateSeed(groupSeed uint64, index int) (slot, alpha uint64) {
	if index <= 0 {
		panic("spawn: spawn index must not be 0")
	}
	r := rng.New(groupSeed)
	for i := 1; ; i++ {
		slot, alpha = r.Next(), r.Next()
		if i == index {
			return slot, alpha
		}
	}
}

// EntitySeed returns the gen seed of the 1-based spawn index.
func EntitySeed(groupSeed uint64, index int) uint64 {
	slot, _ := GenerateSeed(groupSeed, index)
	r := rng.New(slot)
	r.Next()
	return r.Next()
}

// ParseHash reads a seed or table hash written in hex, with or without a
// 0x prefix.
func ParseHash(s string) (uint64, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex value %q", s)
	}
	return v, nil
}
