package ising

import "fmt"

// Coupling is one entry of a sparse adjacency row: J_{i,Neighbor} = J.
type Coupling struct {
	Neighbor int
	J        float32
}

// Instance is an immutable sparse Ising-form BQM:
//
//	H(s) = Offset + sum_i H[i]*s[i] + sum_{i<j} J[i][j]*s[i]*s[j]
//
// Couplings are stored twice: as a CSR matrix (rowPtr/colIdx/vals), used to
// build the connectivity graph the Houdayer move walks, and as a per-row
// adjacency list, used on the hot energy/delta-energy path. Both views are
// built once at construction and never mutated.
type Instance struct {
	N      int
	Offset float32
	H      []float32
	Adj    [][]Coupling

	rowPtr []int32
	colIdx []int32
	vals   []float32

	SusceptRows [][]float64 // optional, K rows of length N
}

// NewInstance builds an Instance from a symmetric sparse coupling map and a
// bias vector. adj[i] must list every (j, J_ij) with J_ij != 0 for row i;
// the caller (instanceio) is responsible for symmetrizing J_ij == J_ji.
// Returns an error for non-square input or (for zero-bias instances) a
// nonzero diagonal snuck into adj, per spec: diagonal entries must arrive
// pre-folded into h.
func NewInstance(n int, offset float32, h []float32, adj [][]Coupling) (*Instance, error) {
	if len(h) != n {
		return nil, fmt.Errorf("ising: bias vector length %d != N %d", len(h), n)
	}
	if len(adj) != n {
		return nil, fmt.Errorf("ising: adjacency has %d rows, want %d", len(adj), n)
	}
	for i, row := range adj {
		for _, c := range row {
			if c.Neighbor == i {
				return nil, fmt.Errorf("ising: self-loop J[%d][%d] is not allowed; fold diagonal entries into h", i, i)
			}
			if c.Neighbor < 0 || c.Neighbor >= n {
				return nil, fmt.Errorf("ising: adjacency row %d references out-of-range neighbor %d", i, c.Neighbor)
			}
		}
	}

	inst := &Instance{
		N:      n,
		Offset: offset,
		H:      append([]float32(nil), h...),
		Adj:    adj,
	}
	inst.buildCSR()
	return inst, nil
}

func (inst *Instance) buildCSR() {
	n := inst.N
	inst.rowPtr = make([]int32, n+1)
	for i := 0; i < n; i++ {
		inst.rowPtr[i+1] = inst.rowPtr[i] + int32(len(inst.Adj[i]))
	}
	total := inst.rowPtr[n]
	inst.colIdx = make([]int32, total)
	inst.vals = make([]float32, total)
	for i := 0; i < n; i++ {
		base := inst.rowPtr[i]
		for k, c := range inst.Adj[i] {
			inst.colIdx[int(base)+k] = int32(c.Neighbor)
			inst.vals[int(base)+k] = c.J
		}
	}
}

// EnergyRef recomputes H(s) from scratch, halving off-diagonal contributions
// so each edge counts once. Used to validate the cache, never on the hot
// path itself.
func (inst *Instance) EnergyRef(s *State) float32 {
	var e float32 = inst.Offset
	for i := 0; i < inst.N; i++ {
		si := float32(s.Spins[i])
		e += inst.H[i] * si
		var rowSum float32
		for _, c := range inst.Adj[i] {
			rowSum += c.J * float32(s.Spins[c.Neighbor])
		}
		e += 0.5 * si * rowSum
	}
	return e
}

// EnergyViaMatrix recomputes H(s) walking the CSR matrix instead of the
// per-row adjacency list. It exists to verify the invariant spec.md §3/§8
// requires: energies computed via adjacency and via matrix must agree.
// Never used on the hot path; EnergyRef/Energy/DeltaEnergy always use Adj.
func (inst *Instance) EnergyViaMatrix(s *State) float32 {
	var e float32 = inst.Offset
	for i := 0; i < inst.N; i++ {
		si := float32(s.Spins[i])
		e += inst.H[i] * si
		var rowSum float32
		start, end := inst.rowPtr[i], inst.rowPtr[i+1]
		for k := start; k < end; k++ {
			rowSum += inst.vals[k] * float32(s.Spins[inst.colIdx[k]])
		}
		e += 0.5 * si * rowSum
	}
	return e
}

// Energy returns the cached energy if valid, otherwise recomputes and caches it.
func (inst *Instance) Energy(s *State) float32 {
	if s.Valid {
		return s.Energy
	}
	s.Energy = inst.EnergyRef(s)
	s.Valid = true
	return s.Energy
}

// DeltaEnergy returns H(..., -s[i], ...) - H(s) without mutating s. The
// caller applies the flip and adds the delta to the cached energy
// themselves, matching the Metropolis accept/reject contract.
func (inst *Instance) DeltaEnergy(s *State, i int) float32 {
	si := float32(s.Spins[i])
	var coupledSum float32
	for _, c := range inst.Adj[i] {
		coupledSum += c.J * float32(s.Spins[c.Neighbor])
	}
	return -2 * si * (inst.H[i] + coupledSum)
}

// Suscept computes the scalar observable chi_k = sum_i w[k][i]*overlap[i] in
// double precision.
func (inst *Instance) Suscept(overlap []float64, k int) float64 {
	w := inst.SusceptRows[k]
	var chi float64
	for i, wi := range w {
		chi += wi * overlap[i]
	}
	return chi
}
