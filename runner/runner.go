// Package runner implements the PT-ICM orchestration loop: per sweep it runs
// the Houdayer cluster move between paired chains, the per-chain
// Metropolis+PT step (optionally in parallel across chains), and the
// measurement / ground-state-tracking pass.
package runner

import (
	"math"
	"time"

	"github.com/latticemc/ptic/config"
	"github.com/latticemc/ptic/icm"
	"github.com/latticemc/ptic/ising"
	"github.com/latticemc/ptic/pt"
	"github.com/latticemc/ptic/resultio"
	"github.com/latticemc/ptic/rng"
	"github.com/latticemc/ptic/samples"
	"github.com/latticemc/ptic/sampler"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/graph/simple"
)

// Runner binds one instance and one run configuration to a replica group.
type Runner struct {
	Inst   *ising.Instance
	Params config.Params
	Beta   []float32
	Graph  *simple.UndirectedGraph

	LoBetaIdx int
	MeasInit  int
}

// New validates params against inst, resolves the beta ladder and the
// lo_beta cutoff (snapping out-of-range values to the coldest rung with a
// warning, per spec.md §7), and builds the connectivity graph the Houdayer
// move walks.
func New(inst *ising.Instance, params config.Params) (*Runner, error) {
	beta, err := params.Beta.Resolve()
	if err != nil {
		return nil, err
	}

	loBeta := float32(1.0)
	if params.LoBeta != nil {
		loBeta = *params.LoBeta
	}
	loBetaIdx := len(beta) - 1
	found := false
	for i, b := range beta {
		if b >= loBeta {
			loBetaIdx = i
			found = true
			break
		}
	}
	if !found {
		logrus.Warnf("runner: lo_beta=%v is out of bounds for ladder max %v; snapping to the largest beta", loBeta, beta[len(beta)-1])
	}

	warmupFraction := 0.5
	if params.WarmupFraction != nil {
		warmupFraction = *params.WarmupFraction
	}
	measInit := int(warmupFraction * float64(params.NumSweeps))

	return &Runner{
		Inst:      inst,
		Params:    params,
		Beta:      beta,
		Graph:     inst.ToGraph(),
		LoBetaIdx: loBetaIdx,
		MeasInit:  measInit,
	}, nil
}

// NewGroup allocates a fresh replica group sized for this runner, with every
// chain's initial state drawn independently from streams.
func (rn *Runner) NewGroup(streams *rng.Streams) (*pt.Group, error) {
	return pt.NewGroup(rn.Inst.N, rn.Beta, int(rn.Params.NumReplicaChains), rn.Params.ICM, streams)
}

// Result bundles everything produced by one Run call.
type Result struct {
	GS    *resultio.GSRecord
	Store *samples.Store
	Group *pt.Group // final states, reusable as the next iteration's initial states
}

// Run executes num_sweeps sweeps over group, mutating it in place, and
// returns the ground-state log and thermal sample store. group's states are
// used as the initial configuration, so callers that want a fresh run
// should pass a group from NewGroup(); callers refining a beta ladder
// (ladder.Optimize) pass the previous iteration's final group after
// resetting its tags.
func (rn *Runner) Run(group *pt.Group, streams *rng.Streams) (*Result, error) {
	n := int(rn.Params.NumSweeps)
	threads := int(rn.Params.Threads)
	if threads <= 0 {
		threads = 1
	}

	samplers := make([]*sampler.Sampler, len(rn.Beta))
	for i, b := range rn.Beta {
		samplers[i] = sampler.New(rn.Inst, b)
	}

	sampleStride := intOr(rn.Params.Sample, 1)
	sampleStatesStride := intOr(rn.Params.SampleStates, 1)
	capObs := n / sampleStride
	capStates := n / sampleStatesStride
	tier := samples.Tier(0)
	if rn.Params.SampleLimiting != nil {
		tier = samples.Tier(*rn.Params.SampleLimiting)
	}
	store := samples.NewStore(rn.Beta, rn.Inst.N, capObs+1, capStates+1, len(rn.Inst.SusceptRows), tier)

	gs := &resultio.GSRecord{
		Params:       rn.Params,
		InstanceSize: rn.Inst.N,
	}
	var bestEnergy float32 = float32(math.Inf(1))
	haveBest := false

	start := time.Now()
	for i := 0; i < n; i++ {
		if rn.Params.ICM {
			for _, pr := range group.Pairs() {
				for betaIdx := rn.LoBetaIdx; betaIdx < len(rn.Beta); betaIdx++ {
					icm.Move(group.Chains[pr[0]].States[betaIdx], group.Chains[pr[1]].States[betaIdx], rn.Graph, streams.For(pr[0], betaIdx))
				}
			}
		}

		stepChains(group, samplers, rn.Beta, streams, threads)

		for _, c := range group.Chains {
			c.MarkEndpoints()
		}

		if i >= rn.MeasInit {
			isLast := i == n-1
			if (i-rn.MeasInit)%sampleStride == 0 || isLast {
				store.Measure(group, rn.Inst)
				for _, c := range group.Chains {
					c.RecordDiffusion()
				}
				gs.NumMeasurements++
			}
			if (i-rn.MeasInit)%sampleStatesStride == 0 || isLast {
				store.SampleStates(group)
			}

			minE, minState := minEnergy(group, rn.Inst)
			if !haveBest || minE < bestEnergy {
				bestEnergy = minE
				haveBest = true
				gs.GSTimeSteps = append(gs.GSTimeSteps, int64(i))
				gs.GSEnergies = append(gs.GSEnergies, minE)
				gs.GSStates = append(gs.GSStates, minState.AsU64Vec())
			}
		}
	}
	gs.TimingMicros = time.Since(start).Microseconds()
	gs.AcceptanceCounts = aggregateAcceptances(group, len(rn.Beta))

	return &Result{GS: gs, Store: store, Group: group}, nil
}

func intOr(p *uint32, def int) int {
	if p == nil || *p == 0 {
		return def
	}
	return int(*p)
}

// minEnergy finds the minimum energy across every (chain, beta) position,
// reading each state through the instance's cache-aware Energy call, which
// recomputes only where the cache is stale (spec.md §4.5, "always recompute
// per-beta energies and track the minimum").
func minEnergy(group *pt.Group, inst *ising.Instance) (float32, *ising.State) {
	var best float32 = float32(math.Inf(1))
	var bestState *ising.State
	for _, c := range group.Chains {
		for _, s := range c.States {
			e := inst.Energy(s)
			if e < best {
				best = e
				bestState = s
			}
		}
	}
	return best, bestState
}

func aggregateAcceptances(group *pt.Group, t int) []int64 {
	out := make([]int64, t-1)
	for _, c := range group.Chains {
		for k, a := range c.Accepts {
			out[k] += a
		}
	}
	return out
}
