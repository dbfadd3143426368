package pt

import (
	"fmt"

	"github.com/latticemc/ptic/rng"
)

// Group is an ordered collection of M independent replica chains sharing a
// beta ladder and instance. ICM pairs chains (0,1), (2,3), ...; that
// requires M even, enforced at construction when icmEnabled is true.
type Group struct {
	Chains []*Chain
	Beta   []float32
}

// NewGroup allocates m chains of length len(beta) over n spins, each
// randomized independently from streams. If icmEnabled is true, m must be
// even (Houdayer pairs consecutive chains).
func NewGroup(n int, beta []float32, m int, icmEnabled bool, streams *rng.Streams) (*Group, error) {
	if icmEnabled && m%2 != 0 {
		return nil, fmt.Errorf("pt: num_replica_chains must be even when icm is enabled, got %d", m)
	}
	g := &Group{Chains: make([]*Chain, m), Beta: append([]float32(nil), beta...)}
	for i := range g.Chains {
		g.Chains[i] = NewChain(n, len(beta), i, streams)
	}
	return g, nil
}

// Pairs returns the fixed ICM chain pairing (0,1), (2,3), ...
func (g *Group) Pairs() [][2]int {
	pairs := make([][2]int, 0, len(g.Chains)/2)
	for i := 0; i+1 < len(g.Chains); i += 2 {
		pairs = append(pairs, [2]int{i, i + 1})
	}
	return pairs
}

// ResetTags resets round-trip/diffusion/tag bookkeeping for every chain,
// between ladder-optimizer iterations; states themselves are left alone.
func (g *Group) ResetTags() {
	for _, c := range g.Chains {
		c.ResetTags()
	}
}
