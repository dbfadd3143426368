package runner

import (
	"sync"

	"github.com/latticemc/ptic/pt"
	"github.com/latticemc/ptic/rng"
	"github.com/latticemc/ptic/sampler"
)

// stepChains runs the Metropolis+PT step of one sweep for every chain in
// group. With threads <= 1 it runs serially on the calling goroutine
// (deterministic single-threaded mode, spec.md §5); otherwise it scatters
// chains across a bounded worker pool and joins before returning, following
// the batch-dispatch + WaitGroup pattern used elsewhere in the pack for
// independent per-unit parallel work (no inter-chain communication is
// needed during a sweep, so a plain fork/join suffices).
func stepChains(group *pt.Group, samplers []*sampler.Sampler, beta []float32, streams *rng.Streams, threads int) {
	n := len(group.Chains)
	if threads <= 1 || n <= 1 {
		for idx, c := range group.Chains {
			chainStep(c, samplers, beta, streams, idx)
		}
		return
	}

	if threads > n {
		threads = n
	}
	// Create every stream chainStep uses before the fan-out, so the workers
	// only read the shared stream map.
	for idx := range group.Chains {
		for betaIdx := 0; betaIdx <= len(beta); betaIdx++ {
			streams.For(idx, betaIdx)
		}
	}
	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup
	wg.Add(n)
	for idx, c := range group.Chains {
		sem <- struct{}{}
		go func(idx int, c *pt.Chain) {
			defer wg.Done()
			defer func() { <-sem }()
			chainStep(c, samplers, beta, streams, idx)
		}(idx, c)
	}
	wg.Wait()
}

// chainStep performs the per-beta Metropolis sweep followed by the one PT
// swap pass for a single chain; these two steps are never reordered (spec.md
// §5's ordering guarantee).
func chainStep(c *pt.Chain, samplers []*sampler.Sampler, beta []float32, streams *rng.Streams, chainIdx int) {
	for betaIdx, smp := range samplers {
		smp.Sweep(c.States[betaIdx], streams.For(chainIdx, betaIdx))
	}
	pt.SwapPass(c, samplers[0].Inst, beta, streams.For(chainIdx, len(beta)))
}
