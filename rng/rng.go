// Package rng provides deterministic, isolated RNG streams per (chain, beta)
// pair, following the pack's PartitionedRNG convention (see
// github.com/inference-sim/inference-sim sim/rng.go) but built on
// math/rand/v2's PCG, a splittable counter-based generator: a stream is
// fully determined by a (seed, sequence) pair, which is exactly the "jump a
// counter-based generator by a fixed offset per stream" policy spec.md's
// design notes call for.
package rng

import (
	"hash/fnv"
	"math/rand/v2"
)

// Streams lazily derives and caches one *rand.Rand per (chain, beta) pair
// from a single master seed. For inserts into a shared map on the first use
// of a key, so concurrent calls are safe only for keys that already exist,
// and each *rand.Rand is itself not safe for concurrent use. Distinct keys
// are independent by construction, so once its keys exist a worker pool
// that assigns one chain per goroutine never shares a generator.
type Streams struct {
	masterSeed int64
	byKey      map[streamKey]*rand.Rand
}

type streamKey struct {
	chain, beta int
}

// NewStreams creates a stream source from a master seed.
func NewStreams(masterSeed int64) *Streams {
	return &Streams{masterSeed: masterSeed, byKey: make(map[streamKey]*rand.Rand)}
}

// For returns the RNG for (chainIdx, betaIdx), creating it on first use.
// Repeated calls with the same pair return the same *rand.Rand instance.
func (s *Streams) For(chainIdx, betaIdx int) *rand.Rand {
	key := streamKey{chainIdx, betaIdx}
	if r, ok := s.byKey[key]; ok {
		return r
	}
	seed, seq := s.derive(chainIdx, betaIdx)
	r := rand.New(rand.NewPCG(seed, seq))
	s.byKey[key] = r
	return r
}

// derive turns (chainIdx, betaIdx) into a PCG (seed, sequence) pair. The
// sequence parameter is what makes PCG streams independent for the same
// seed, so the master seed is reused verbatim and only the sequence is
// hashed from the pair -- equivalent to "one jump per chain x beta".
func (s *Streams) derive(chainIdx, betaIdx int) (seed, seq uint64) {
	h := fnv.New64a()
	var buf [8]byte
	putInt(buf[:], chainIdx)
	h.Write(buf[:])
	putInt(buf[:], betaIdx)
	h.Write(buf[:])
	return uint64(s.masterSeed), h.Sum64()
}

func putInt(buf []byte, v int) {
	u := uint64(int64(v))
	for i := 0; i < 8; i++ {
		buf[i] = byte(u >> (8 * i))
	}
}
