// Package sampler implements the single-site Metropolis update the PT-ICM
// runner drives once per chain per beta per sweep.
package sampler

import (
	"math"
	"math/rand/v2"

	"github.com/latticemc/ptic/ising"
)

// Sampler is bound to one inverse temperature and one instance. It holds no
// mutable state of its own; all state lives in the ising.State it is handed.
type Sampler struct {
	Beta float32
	Inst *ising.Instance
}

// New returns a Sampler for the given instance and inverse temperature.
func New(inst *ising.Instance, beta float32) *Sampler {
	return &Sampler{Beta: beta, Inst: inst}
}

// Advance proposes flipping a single, uniformly chosen site and accepts it
// under the standard Metropolis criterion, updating s in place including its
// energy cache.
func (smp *Sampler) Advance(s *ising.State, r *rand.Rand) {
	i := r.IntN(s.N())
	smp.tryFlip(s, i, r)
}

// Sweep visits every site in index order exactly once, applying the same
// accept test. The deterministic visit order amortizes RNG draws and keeps
// access to each sparse row sequential.
func (smp *Sampler) Sweep(s *ising.State, r *rand.Rand) {
	n := s.N()
	for i := 0; i < n; i++ {
		smp.tryFlip(s, i, r)
	}
}

func (smp *Sampler) tryFlip(s *ising.State, i int, r *rand.Rand) {
	smp.Inst.Energy(s) // ensure cache valid before incremental updates
	delta := smp.Inst.DeltaEnergy(s, i)
	if delta <= 0 || r.Float64() < math.Exp(-float64(smp.Beta)*float64(delta)) {
		s.Flip(i)
		s.Energy += delta
	}
}
