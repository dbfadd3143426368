// Package icm implements the Houdayer isoenergetic cluster move: swap a
// connected cluster of disagreeing spins between two replicas at the same
// beta, leaving total pair energy unchanged.
package icm

import (
	"math/rand/v2"

	"github.com/latticemc/ptic/ising"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Result reports what Move did, for callers that want to log or measure
// cluster sizes.
type Result struct {
	Applied     bool
	ClusterSize int
}

// Move computes the overlap q_i = s1_i * s2_i, and if any site disagrees
// (q_i == -1), picks one such site uniformly as a BFS seed, walks the
// induced subgraph of g restricted to disagreeing sites, and swaps every
// spin in the discovered cluster between s1 and s2. Both energy caches are
// invalidated since a bulk swap was applied. Returns Result{Applied: false}
// as a no-op when s1 and s2 agree everywhere.
func Move(s1, s2 *ising.State, g *simple.UndirectedGraph, r *rand.Rand) Result {
	n := s1.N()
	disagree := make([]bool, n)
	var seeds []int
	for i := 0; i < n; i++ {
		if s1.Spins[i] != s2.Spins[i] {
			disagree[i] = true
			seeds = append(seeds, i)
		}
	}
	if len(seeds) == 0 {
		return Result{Applied: false}
	}

	seed := seeds[r.IntN(len(seeds))]
	sub := &overlapSubgraph{g: g, keep: disagree}

	var bf traverse.BreadthFirst
	bf.Walk(sub, sub.Node(int64(seed)), func(graph.Node, int) bool { return false })

	size := 0
	for i := 0; i < n; i++ {
		if disagree[i] && bf.Visited(simple.Node(int64(i))) {
			s1.SwapWith(s2, i)
			size++
		}
	}
	s1.Invalidate()
	s2.Invalidate()
	return Result{Applied: true, ClusterSize: size}
}

// overlapSubgraph is a read-only view of g restricted to nodes where
// keep[id] is true -- the induced subgraph of disagreeing sites the BFS
// walks to find one connected cluster.
type overlapSubgraph struct {
	g    *simple.UndirectedGraph
	keep []bool
}

func (s *overlapSubgraph) Node(id int64) graph.Node {
	if id < 0 || int(id) >= len(s.keep) || !s.keep[id] {
		return nil
	}
	return s.g.Node(id)
}

func (s *overlapSubgraph) Nodes() graph.Nodes {
	var nodes []graph.Node
	it := s.g.Nodes()
	for it.Next() {
		n := it.Node()
		if s.keep[n.ID()] {
			nodes = append(nodes, n)
		}
	}
	return iterator.NewOrderedNodes(nodes)
}

func (s *overlapSubgraph) From(id int64) graph.Nodes {
	if !s.keep[id] {
		return iterator.NewOrderedNodes(nil)
	}
	var nodes []graph.Node
	it := s.g.From(id)
	for it.Next() {
		n := it.Node()
		if s.keep[n.ID()] {
			nodes = append(nodes, n)
		}
	}
	return iterator.NewOrderedNodes(nodes)
}

func (s *overlapSubgraph) HasEdgeBetween(xid, yid int64) bool {
	if int(xid) >= len(s.keep) || int(yid) >= len(s.keep) || !s.keep[xid] || !s.keep[yid] {
		return false
	}
	return s.g.HasEdgeBetween(xid, yid)
}

func (s *overlapSubgraph) Edge(uid, vid int64) graph.Edge {
	if !s.HasEdgeBetween(uid, vid) {
		return nil
	}
	return s.g.Edge(uid, vid)
}
