package ising

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSpinAntiferro(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance(2, 0, []float32{0, 0}, [][]Coupling{
		{{Neighbor: 1, J: 1}},
		{{Neighbor: 0, J: 1}},
	})
	require.NoError(t, err)
	return inst
}

func TestInstance_EnergyRef_TwoSpin(t *testing.T) {
	inst := twoSpinAntiferro(t)
	s := NewStateFrom([]int8{1, -1})
	assert.Equal(t, float32(-1), inst.EnergyRef(s))
	s2 := NewStateFrom([]int8{1, 1})
	assert.Equal(t, float32(1), inst.EnergyRef(s2))
}

func TestInstance_Energy_CacheMatchesRef(t *testing.T) {
	inst := twoSpinAntiferro(t)
	s := NewStateFrom([]int8{1, -1})
	ref := inst.EnergyRef(s)
	cached := inst.Energy(s)
	assert.Equal(t, ref, cached)
	assert.True(t, s.Valid)
}

func TestInstance_DeltaEnergy_MatchesRecompute(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 6
	adj := make([][]Coupling, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < 0.5 {
				continue
			}
			jij := float32(rng.NormFloat64())
			adj[i] = append(adj[i], Coupling{Neighbor: j, J: jij})
			adj[j] = append(adj[j], Coupling{Neighbor: i, J: jij})
		}
	}
	h := make([]float32, n)
	for i := range h {
		h[i] = float32(rng.NormFloat64())
	}
	inst, err := NewInstance(n, 0, h, adj)
	require.NoError(t, err)

	spins := make([]int8, n)
	for i := range spins {
		if rng.Float64() < 0.5 {
			spins[i] = -1
		} else {
			spins[i] = 1
		}
	}
	s := NewStateFrom(spins)

	for i := 0; i < n; i++ {
		before := inst.EnergyRef(s)
		delta := inst.DeltaEnergy(s, i)
		s.Flip(i)
		after := inst.EnergyRef(s)
		assert.InDelta(t, float64(after-before), float64(delta), 1e-4)
		s.Flip(i) // restore
	}
}

func TestInstance_EnergyViaMatrix_AgreesWithAdjacency(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n := 8
	adj := make([][]Coupling, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < 0.5 {
				continue
			}
			jij := float32(rng.NormFloat64())
			adj[i] = append(adj[i], Coupling{Neighbor: j, J: jij})
			adj[j] = append(adj[j], Coupling{Neighbor: i, J: jij})
		}
	}
	h := make([]float32, n)
	for i := range h {
		h[i] = float32(rng.NormFloat64())
	}
	inst, err := NewInstance(n, 0, h, adj)
	require.NoError(t, err)

	spins := make([]int8, n)
	for i := range spins {
		if rng.Float64() < 0.5 {
			spins[i] = -1
		} else {
			spins[i] = 1
		}
	}
	s := NewStateFrom(spins)

	assert.Equal(t, inst.EnergyRef(s), inst.EnergyViaMatrix(s))
}

func TestInstance_ToGraph_MatchesAdjacencyPattern(t *testing.T) {
	inst := twoSpinAntiferro(t)
	g := inst.ToGraph()
	assert.Equal(t, 2, g.Nodes().Len())
	assert.True(t, g.HasEdgeBetween(0, 1))
}

func TestInstance_SelfLoopRejected(t *testing.T) {
	_, err := NewInstance(2, 0, []float32{0, 0}, [][]Coupling{
		{{Neighbor: 0, J: 1}},
		{},
	})
	assert.Error(t, err)
}

func TestInstance_Suscept(t *testing.T) {
	inst := twoSpinAntiferro(t)
	inst.SusceptRows = [][]float64{{0.5, 0.5}}
	chi := inst.Suscept([]float64{1, -1}, 0)
	assert.InDelta(t, 0.0, chi, 1e-9)
}
