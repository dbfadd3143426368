package pt

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/latticemc/ptic/ising"
	"github.com/latticemc/ptic/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSpin(t *testing.T) *ising.Instance {
	t.Helper()
	inst, err := ising.NewInstance(2, 0, []float32{0, 0}, [][]ising.Coupling{
		{{Neighbor: 1, J: 1}},
		{{Neighbor: 0, J: 1}},
	})
	require.NoError(t, err)
	return inst
}

func TestSwapPass_PreservesEnergyMultiset(t *testing.T) {
	inst := twoSpin(t)
	beta := []float32{0.1, 5.0}
	c := NewChain(2, 2, 0, rng.NewStreams(1))
	c.States[0] = ising.NewStateFrom([]int8{1, -1})
	c.States[1] = ising.NewStateFrom([]int8{1, 1})
	before := []float32{inst.Energy(c.States[0]), inst.Energy(c.States[1])}

	r := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 100; i++ {
		SwapPass(c, inst, beta, r)
	}
	after := []float32{inst.Energy(c.States[0]), inst.Energy(c.States[1])}

	sort.Slice(before, func(i, j int) bool { return before[i] < before[j] })
	sort.Slice(after, func(i, j int) bool { return after[i] < after[j] })
	assert.Equal(t, before, after)
}

func TestChain_MarkEndpoints_CountsRoundTrips(t *testing.T) {
	c := NewChain(2, 3, 0, rng.NewStreams(1))
	c.MarkEndpoints() // first call: unseen -> tagged, no round trip yet
	assert.EqualValues(t, 0, c.RoundTrips)
	assert.Equal(t, TowardMax, c.Tags[0])
	assert.Equal(t, TowardMin, c.Tags[2])

	// Simulate the tag having traveled to the far endpoint via swaps: force
	// Tags[2] = TowardMax (as if a toward-max replica reached the top) and
	// re-mark.
	c.Tags[2] = TowardMax
	c.MarkEndpoints()
	assert.EqualValues(t, 1, c.RoundTrips)
}

func TestGroup_NewGroup_RejectsOddMWithICM(t *testing.T) {
	_, err := NewGroup(4, []float32{0.1, 1.0}, 3, true, rng.NewStreams(1))
	assert.Error(t, err)
}

func TestGroup_Pairs(t *testing.T) {
	g, err := NewGroup(4, []float32{0.1, 1.0}, 4, true, rng.NewStreams(1))
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 1}, {2, 3}}, g.Pairs())
}
