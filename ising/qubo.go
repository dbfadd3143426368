package ising

// QUBOBuilder accumulates an Ising-form instance from QUBO entries. A
// diagonal entry maps x_i = 1 to s_i = +1. An off-diagonal entry K at (i,j) contributes
// offset += K/8, J_ij += K/4, h_i += K/4, h_j += K/4 (split by row below); a
// diagonal entry K contributes offset += K/2, h_i += K/2.
type QUBOBuilder struct {
	N      int
	Offset float32
	H      []float32
	J      map[[2]int]float32 // keyed (min,max) index pair
}

// NewQUBOBuilder allocates a builder for n binary variables.
func NewQUBOBuilder(n int) *QUBOBuilder {
	return &QUBOBuilder{N: n, H: make([]float32, n), J: make(map[[2]int]float32)}
}

// AddEntry folds one QUBO matrix entry Q[i][j] = k into the running Ising
// coefficients. Off-diagonal entries are expected once per unordered pair;
// either ordering of (i,j) folds into the same coefficients, but each call
// adds its share, so supplying both orderings counts the pair twice.
func (b *QUBOBuilder) AddEntry(i, j int, k float32) {
	if i == j {
		b.Offset += k / 2
		b.H[i] += k / 2
		return
	}
	b.Offset += k / 8
	b.H[i] += k / 4
	b.H[j] += k / 4
	lo, hi := i, j
	if lo > hi {
		lo, hi = hi, lo
	}
	b.J[[2]int{lo, hi}] += k / 4
}

// Build assembles the accumulated coefficients into adjacency rows and
// constructs the Instance.
func (b *QUBOBuilder) Build() (*Instance, error) {
	adj := make([][]Coupling, b.N)
	for pair, j := range b.J {
		lo, hi := pair[0], pair[1]
		adj[lo] = append(adj[lo], Coupling{Neighbor: hi, J: j})
		adj[hi] = append(adj[hi], Coupling{Neighbor: lo, J: j})
	}
	return NewInstance(b.N, b.Offset, b.H, adj)
}
