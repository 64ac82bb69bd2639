// Package rng implements the Xoroshiro128+ generator used for every
// spawn-related draw. Output must be bit-identical to the host game.
package rng

import "math/bits"

const initialS1 = 0x82A2B175229D6A5B

// scale maps a 64-bit draw into [0, 1).
const scale float32 = 5.421e-20

// Xoroshiro is a value type. Copying it forks the sequence.
type Xoroshiro struct {
	s0, s1 uint64
}

// New creates a generator from a seed.
func New(seed uint64) Xoroshiro {
	return Xoroshiro{s0: seed, s1: initialS1}
}

// Next returns the next 64-bit draw.
func (x *Xoroshiro) Next() uint64 {
	s0, s1 := x.s0, x.s1
	result := s0 + s1

	s1 ^= s0
	x.s0 = bits.RotateLeft64(s0, 24) ^ s1 ^ (s1 << 16)
	x.s1 = bits.RotateLeft64(s1, 37)
	return result
}

// NextMax returns a draw in [0, max) by masking and rejection.
// max must be non-zero.
func (x *Xoroshiro) NextMax(max uint64) uint64 {
	if max == 0 {
		panic("rng: NextMax bound must be non-zero")
	}
	mask := bitmask(max - 1)
	for {
		if r := x.Next() & mask; r < max {
			return r
		}
	}
}

// NextFloat returns a draw in [bias, bias+span).
// Every step is rounded to float32 so the result matches the host.
func (x *Xoroshiro) NextFloat(span, bias float32) float32 {
	v := float32(x.Next())
	v = float32(v * scale)
	v = float32(span * v)
	return float32(v + bias)
}

// bitmask spreads the highest set bit down. The host stops at a 16-bit
// shift, so bounds above 32 bits are not fully masked.
func bitmask(x uint64) uint64 {
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	return x
}
