package ising

import (
	"gonum.org/v1/gonum/graph/simple"
)

// ToGraph builds the undirected connectivity graph over spin indices implied
// by J's non-zero pattern, walking the CSR matrix (spec.md §3/§4.1: "build
// ... from J's non-zero pattern" off the CSR view). Each call builds a new
// graph; runner.New calls it once and every chain's Houdayer move shares
// that graph read-only.
func (inst *Instance) ToGraph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := 0; i < inst.N; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for i := 0; i < inst.N; i++ {
		start, end := inst.rowPtr[i], inst.rowPtr[i+1]
		for k := start; k < end; k++ {
			j := int(inst.colIdx[k])
			if j > i {
				g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
			}
		}
	}
	return g
}
