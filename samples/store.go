// Package samples implements the thermal sample store: a capacity-bounded,
// per-beta recorder of observables (energy, overlap, susceptibility) and,
// subject to a compression tier, packed spin states.
package samples

import (
	"github.com/latticemc/ptic/ising"
	"github.com/latticemc/ptic/pt"
)

// Tier selects how much state-sample history is retained per measurement.
type Tier uint8

const (
	// TierAll keeps packed states at every beta.
	TierAll Tier = 0
	// TierColdHalf keeps only the coldest T/2 beta, index 0 = coldest.
	TierColdHalf Tier = 1
	// TierColdest keeps only the single coldest beta, in one bucket.
	TierColdest Tier = 2
)

// Store accumulates observables and (optionally) packed states across a
// run. E, Q and Chi grow one entry per (beta, measurement, chain-or-pair);
// States grows one entry per (state-bucket, state-sample, chain), where the
// number of buckets depends on Tier.
type Store struct {
	Beta []float32
	N    int
	Tier Tier

	E      [][]float32   // [betaIdx][sample*chain]
	Q      [][]int32     // [betaIdx][sample*pair]
	Chi    [][][]float32 // [betaIdx][chiIdx][sample*pair]
	States [][][]byte    // [bucket][sample*chain]

	numChi int
}

// NewStore allocates a Store. capObs and capStates are used only to
// preallocate backing slices (append still grows them as needed); numChi is
// the number of susceptibility coefficient rows the instance carries.
func NewStore(beta []float32, n int, capObs, capStates int, numChi int, tier Tier) *Store {
	t := len(beta)
	st := &Store{
		Beta:   append([]float32(nil), beta...),
		N:      n,
		Tier:   tier,
		numChi: numChi,
		E:      make([][]float32, t),
		Q:      make([][]int32, t),
		Chi:    make([][][]float32, t),
	}
	for i := 0; i < t; i++ {
		st.E[i] = make([]float32, 0, capObs)
		st.Q[i] = make([]int32, 0, capObs)
		st.Chi[i] = make([][]float32, numChi)
		for k := 0; k < numChi; k++ {
			st.Chi[i][k] = make([]float32, 0, capObs)
		}
	}

	buckets := stateBuckets(t, tier)
	st.States = make([][][]byte, buckets)
	for i := range st.States {
		st.States[i] = make([][]byte, 0, capStates)
	}
	return st
}

func stateBuckets(t int, tier Tier) int {
	switch tier {
	case TierColdHalf:
		return t / 2
	case TierColdest:
		return 1
	default:
		return t
	}
}

// Measure appends one observation per beta-per-chain energy, and one
// overlap (and, if the instance carries susceptibility rows, one
// susceptibility per row) per beta-per-adjacent-chain-pair.
func (st *Store) Measure(g *pt.Group, inst *ising.Instance) {
	t := len(st.Beta)
	for betaIdx := 0; betaIdx < t; betaIdx++ {
		for _, c := range g.Chains {
			st.E[betaIdx] = append(st.E[betaIdx], inst.Energy(c.States[betaIdx]))
		}
	}

	pairs := g.Pairs()
	overlap := make([]float64, inst.N)
	for betaIdx := 0; betaIdx < t; betaIdx++ {
		for _, p := range pairs {
			s1 := g.Chains[p[0]].States[betaIdx]
			s2 := g.Chains[p[1]].States[betaIdx]
			var q int32
			for i := 0; i < inst.N; i++ {
				ov := int32(s1.Spins[i]) * int32(s2.Spins[i])
				q += ov
				overlap[i] = float64(ov)
			}
			st.Q[betaIdx] = append(st.Q[betaIdx], q)
			for k := 0; k < len(inst.SusceptRows); k++ {
				st.Chi[betaIdx][k] = append(st.Chi[betaIdx][k], float32(inst.Suscept(overlap, k)))
			}
		}
	}
}

// SampleStates records packed spin states according to the configured
// compression tier.
func (st *Store) SampleStates(g *pt.Group) {
	t := len(st.Beta)
	switch st.Tier {
	case TierColdHalf:
		half := t / 2
		for out := 0; out < half; out++ {
			betaIdx := t - 1 - out // coldest first
			for _, c := range g.Chains {
				st.States[out] = append(st.States[out], c.States[betaIdx].AsBytes())
			}
		}
	case TierColdest:
		betaIdx := t - 1
		for _, c := range g.Chains {
			st.States[0] = append(st.States[0], c.States[betaIdx].AsBytes())
		}
	default:
		for betaIdx := 0; betaIdx < t; betaIdx++ {
			for _, c := range g.Chains {
				st.States[betaIdx] = append(st.States[betaIdx], c.States[betaIdx].AsBytes())
			}
		}
	}
}
