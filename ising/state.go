// Package ising provides the immutable BQM instance and the mutable spin
// state that PT-ICM samples over.
package ising

import "math/rand/v2"

// State is an ordered vector of N spins in {-1,+1} with a cached scalar
// energy. The cache is only valid when Valid is true; callers that mutate
// Spins directly (bulk swaps) must invalidate it.
type State struct {
	Spins  []int8
	Energy float32
	Valid  bool
}

// NewState returns a State of length n with all spins +1 and an invalid cache.
func NewState(n int) *State {
	s := &State{Spins: make([]int8, n)}
	for i := range s.Spins {
		s.Spins[i] = 1
	}
	return s
}

// NewRandomState returns a State of length n with i.i.d. uniform +-1 spins,
// matching original_source/src/ising.rs's rand_ising_state: every replica
// starts from an independent random draw rather than a shared fixed point.
func NewRandomState(n int, r *rand.Rand) *State {
	s := &State{Spins: make([]int8, n)}
	for i := range s.Spins {
		if r.Float64() < 0.5 {
			s.Spins[i] = -1
		} else {
			s.Spins[i] = 1
		}
	}
	return s
}

// NewStateFrom copies spins into a new State with an invalid cache.
func NewStateFrom(spins []int8) *State {
	s := &State{Spins: make([]int8, len(spins))}
	copy(s.Spins, spins)
	return s
}

// Clone returns a deep copy, preserving the energy cache.
func (s *State) Clone() *State {
	c := &State{Spins: make([]int8, len(s.Spins)), Energy: s.Energy, Valid: s.Valid}
	copy(c.Spins, s.Spins)
	return c
}

// Flip negates spin i and invalidates nothing by itself; callers apply the
// returned delta energy to s.Energy themselves (see Instance.DeltaEnergy).
func (s *State) Flip(i int) {
	s.Spins[i] = -s.Spins[i]
}

// Invalidate marks the energy cache stale, forcing the next Instance.Energy
// call to recompute from scratch.
func (s *State) Invalidate() {
	s.Valid = false
}

// N returns the number of spins.
func (s *State) N() int {
	return len(s.Spins)
}

// SwapWith exchanges spin i between s and o. It leaves both energy caches
// untouched; the Houdayer move swaps an entire cluster one index at a time
// and then invalidates both states itself.
func (s *State) SwapWith(o *State, i int) {
	s.Spins[i], o.Spins[i] = o.Spins[i], s.Spins[i]
}

// AsBytes packs spins 8 to a byte, +1->bit 0, -1->bit 1, LSB = lowest index
// within the byte. Trailing bits in the final byte are zero.
func (s *State) AsBytes() []byte {
	nbytes := (len(s.Spins) + 7) / 8
	out := make([]byte, nbytes)
	for i, v := range s.Spins {
		if v == -1 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// AsU64Vec packs spins 64 to a word, +1->0, -1->1, LSB = lowest index within
// the word.
func (s *State) AsU64Vec() []uint64 {
	nwords := (len(s.Spins) + 63) / 64
	out := make([]uint64, nwords)
	for i, v := range s.Spins {
		if v == -1 {
			out[i/64] |= 1 << uint(i%64)
		}
	}
	return out
}

// FromBytes decodes the AsBytes convention into a fresh State of length n.
func FromBytes(b []byte, n int) *State {
	s := NewState(n)
	for i := range s.Spins {
		bit := (b[i/8] >> uint(i%8)) & 1
		if bit == 1 {
			s.Spins[i] = -1
		} else {
			s.Spins[i] = 1
		}
	}
	return s
}

// FromU64Vec decodes the AsU64Vec convention into a fresh State of length n.
func FromU64Vec(words []uint64, n int) *State {
	s := NewState(n)
	for i := range s.Spins {
		bit := (words[i/64] >> uint(i%64)) & 1
		if bit == 1 {
			s.Spins[i] = -1
		} else {
			s.Spins[i] = 1
		}
	}
	return s
}
