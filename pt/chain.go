// Package pt implements the parallel-tempering replica chain: a ladder of
// states at increasing inverse temperatures, the adjacent-pair swap pass,
// and the round-trip/diffusion bookkeeping the ladder optimizer consumes.
package pt

import (
	"github.com/latticemc/ptic/ising"
	"github.com/latticemc/ptic/rng"
)

// Tag marks which endpoint a configuration has most recently visited, for
// round-trip counting and diffusion statistics.
type Tag uint8

const (
	Unseen Tag = iota
	TowardMin
	TowardMax
)

// Chain is one independent Markov chain: one ising.State per rung of the
// shared beta ladder, plus per-rung PT bookkeeping.
type Chain struct {
	States []*ising.State

	Accepts    []int64   // per-beta-index PT swap acceptance counts
	Diffusion  [][2]int64 // per-beta-index [towardMin, towardMax] counts
	Tags       []Tag      // per-beta-index current tag of the resident state
	RoundTrips int64
}

// NewChain allocates a chain of length T (one state per beta), with Unseen
// tags and every rung independently randomized from streams -- chainIdx
// identifies this chain so each (chain, beta) rung draws from its own
// stream, matching original_source/src/ising.rs's rand_ising_state (spec.md
// §3: M independent Markov chains, not M copies of one fixed point).
func NewChain(n, t, chainIdx int, streams *rng.Streams) *Chain {
	c := &Chain{
		States:    make([]*ising.State, t),
		Accepts:   make([]int64, t-1),
		Diffusion: make([][2]int64, t),
		Tags:      make([]Tag, t),
	}
	for betaIdx := range c.States {
		c.States[betaIdx] = ising.NewRandomState(n, streams.For(chainIdx, betaIdx))
	}
	return c
}

// ResetTags clears tags and round-trip/diffusion bookkeeping between ladder
// optimizer iterations, while keeping the states themselves (the optimizer
// reuses final states as the next iteration's initial states).
func (c *Chain) ResetTags() {
	for i := range c.Tags {
		c.Tags[i] = Unseen
		c.Diffusion[i] = [2]int64{}
	}
	c.RoundTrips = 0
	for i := range c.Accepts {
		c.Accepts[i] = 0
	}
}

// MarkEndpoints retags the state at beta-index 0 as TowardMax and the state
// at the last beta-index as TowardMin, and advances the round-trip counter
// whenever that flips a tag that had previously gone the other way.
func (c *Chain) MarkEndpoints() {
	last := len(c.Tags) - 1
	if c.Tags[0] == TowardMin {
		c.RoundTrips++
	}
	c.Tags[0] = TowardMax
	if c.Tags[last] == TowardMax {
		c.RoundTrips++
	}
	c.Tags[last] = TowardMin
}

// RecordDiffusion increments, for every beta-index, the histogram column
// matching the state currently occupying that rung. Unseen tags contribute
// to neither column.
func (c *Chain) RecordDiffusion() {
	for i, tag := range c.Tags {
		switch tag {
		case TowardMin:
			c.Diffusion[i][0]++
		case TowardMax:
			c.Diffusion[i][1]++
		}
	}
}
