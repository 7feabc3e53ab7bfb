// Package rng implements the badge's 32-bit LCG and the nibble-sized
// extraction the hardware exposes through SFR Random. There is no teacher
// analogue for a PRNG; this package is grounded directly on
// original_source/rng.c and spec.md §4.7.
package rng

import (
	"crypto/rand"

	"nibbler/mask"
)

// LCG constants, matching original_source/rng.c (RNG_A, RNG_C).
const (
	multiplier uint32 = 0x41C64E6D
	increment  uint32 = 0x6073
)

// UseEntropySeed is the nibble value (0xf) that, when written to SFR
// Random, instructs the PRNG to redraw 32 fresh bits from the OS entropy
// source instead of replicating the nibble.
const UseEntropySeed = 0xf

// State holds the 32-bit LCG seed.
type State struct {
	seed uint32
}

// Seed sets the raw 32-bit seed directly.
func (s *State) Seed(seed uint32) { s.seed = seed }

// Next advances the LCG and returns the new 32-bit state.
func (s *State) Next() uint32 {
	s.seed = multiplier*s.seed + increment
	return s.seed
}

// Peek returns the current 32-bit state without advancing it.
func (s *State) Peek() uint32 { return s.seed }

// InitFromEntropy seeds the generator from the OS entropy source.
func InitFromEntropy() (State, error) {
	var s State
	seed, err := entropy32()
	if err != nil {
		return s, err
	}
	s.seed = seed
	return s, nil
}

// entropy32 draws 32 bits from the OS CSPRNG.
func entropy32() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

// SeedFromNibble implements the "nibble seeding" rule of spec.md §4.7:
// a 4-bit seed is expanded to 32 bits by replicating it eight times, except
// the sentinel value 0xf, which draws 32 fresh bits from the OS entropy
// source instead.
func (s *State) SeedFromNibble(n byte) error {
	if n&0xf == UseEntropySeed {
		seed, err := entropy32()
		if err != nil {
			return err
		}
		s.seed = seed
		return nil
	}
	s.seed = mask.ReplicateNibble(n)
	return nil
}

// Nibble folds a 32-bit state down to the 4-bit value the hardware actually
// returns from SFR Random: XOR the two 16-bit halves, add the two resulting
// 8-bit halves (masked to 8 bits), then XOR the two resulting nibbles.
func Nibble(state uint32) byte { return mask.FoldTo4(state) }
