package icm

import (
	"math/rand/v2"
	"testing"

	"github.com/latticemc/ptic/ising"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainInstance(t *testing.T, n int) *ising.Instance {
	t.Helper()
	adj := make([][]ising.Coupling, n)
	for i := 0; i < n-1; i++ {
		adj[i] = append(adj[i], ising.Coupling{Neighbor: i + 1, J: -1})
		adj[i+1] = append(adj[i+1], ising.Coupling{Neighbor: i, J: -1})
	}
	inst, err := ising.NewInstance(n, 0, make([]float32, n), adj)
	require.NoError(t, err)
	return inst
}

func TestMove_NoOpWhenIdentical(t *testing.T) {
	inst := chainInstance(t, 5)
	g := inst.ToGraph()
	s1 := ising.NewStateFrom([]int8{1, -1, 1, -1, 1})
	s2 := s1.Clone()
	r := rand.New(rand.NewPCG(1, 1))
	res := Move(s1, s2, g, r)
	assert.False(t, res.Applied)
	assert.Equal(t, s1.Spins, s2.Spins)
}

func TestMove_SwappedSitesStayOverlapMinusOne(t *testing.T) {
	inst := chainInstance(t, 6)
	g := inst.ToGraph()
	s1 := ising.NewStateFrom([]int8{1, 1, 1, 1, 1, 1})
	s2 := ising.NewStateFrom([]int8{1, -1, -1, 1, 1, 1})
	r := rand.New(rand.NewPCG(2, 2))
	res := Move(s1, s2, g, r)
	require.True(t, res.Applied)
	for i := range s1.Spins {
		if s1.Spins[i] != s2.Spins[i] {
			// overlap was -1 here both before and after the swap.
			assert.Equal(t, -s1.Spins[i], s2.Spins[i])
		}
	}
	assert.False(t, s1.Valid)
	assert.False(t, s2.Valid)
}

func TestMove_ClusterIsConnected(t *testing.T) {
	// Two disjoint disagreement sites far apart in a chain graph: the
	// cluster swapped must be exactly one of them (the seed's component),
	// not both, since they are not connected through agreeing sites.
	inst := chainInstance(t, 10)
	g := inst.ToGraph()
	s1 := ising.NewStateFrom([]int8{1, 1, 1, 1, 1, 1, 1, 1, 1, 1})
	s2 := s1.Clone()
	s2.Spins[1] = -1
	s2.Spins[8] = -1
	r := rand.New(rand.NewPCG(3, 3))
	res := Move(s1, s2, g, r)
	require.True(t, res.Applied)
	assert.Equal(t, 1, res.ClusterSize)
}
