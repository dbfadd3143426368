package ising

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_AsBytes_RoundTrip(t *testing.T) {
	s := NewStateFrom([]int8{1, -1, 1, 1, -1, -1, 1, -1, 1})
	b := s.AsBytes()
	got := FromBytes(b, s.N())
	assert.Equal(t, s.Spins, got.Spins)
}

func TestState_AsU64Vec_RoundTrip(t *testing.T) {
	spins := make([]int8, 130)
	for i := range spins {
		if i%3 == 0 {
			spins[i] = -1
		} else {
			spins[i] = 1
		}
	}
	s := NewStateFrom(spins)
	words := s.AsU64Vec()
	got := FromU64Vec(words, s.N())
	assert.Equal(t, s.Spins, got.Spins)
}

func TestState_AsBytes_Convention(t *testing.T) {
	// +1 -> bit 0, -1 -> bit 1, LSB = lowest index.
	s := NewStateFrom([]int8{-1, 1, 1, 1, 1, 1, 1, 1})
	b := s.AsBytes()
	assert.Equal(t, []byte{0x01}, b)
}

func TestState_Flip_Negates(t *testing.T) {
	s := NewState(3)
	s.Flip(1)
	assert.Equal(t, int8(-1), s.Spins[1])
	assert.Equal(t, int8(1), s.Spins[0])
}
