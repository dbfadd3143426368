package sampler

import (
	"math/rand/v2"
	"testing"

	"github.com/latticemc/ptic/ising"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_Sweep_EnergyCacheMatchesRecompute(t *testing.T) {
	inst, err := ising.NewInstance(2, 0, []float32{0, 0}, [][]ising.Coupling{
		{{Neighbor: 1, J: 1}},
		{{Neighbor: 0, J: 1}},
	})
	require.NoError(t, err)

	s := ising.NewStateFrom([]int8{1, -1})
	inst.Energy(s)
	smp := New(inst, 10)
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		smp.Sweep(s, r)
	}
	assert.InDelta(t, float64(inst.EnergyRef(s)), float64(s.Energy), 1e-3)
}

func TestSampler_GroundStateReachableAtLowTemperature(t *testing.T) {
	// Two-spin antiferromagnet, exact GS energy -1.
	inst, err := ising.NewInstance(2, 0, []float32{0, 0}, [][]ising.Coupling{
		{{Neighbor: 1, J: 1}},
		{{Neighbor: 0, J: 1}},
	})
	require.NoError(t, err)

	s := ising.NewState(2) // starts at [+1, +1], energy +1
	inst.Energy(s)
	smp := New(inst, 50) // beta large enough that downhill moves dominate
	r := rand.New(rand.NewPCG(3, 4))
	best := inst.Energy(s)
	for i := 0; i < 200; i++ {
		smp.Sweep(s, r)
		if e := inst.Energy(s); e < best {
			best = e
		}
	}
	assert.LessOrEqual(t, float64(best), -1+1e-6)
}
