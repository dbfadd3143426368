// Package ladder implements the adaptive beta-ladder optimizer: it runs the
// runner repeatedly over an ensemble of instances, turns the measured
// diffusion statistics into a target density over beta, and refines the
// ladder towards that density with a log-space momentum update.
package ladder

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/latticemc/ptic/config"
	"github.com/latticemc/ptic/ising"
	"github.com/latticemc/ptic/pt"
	"github.com/latticemc/ptic/rng"
	"github.com/latticemc/ptic/runner"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/integrate"
)

// Options controls the optimizer's iteration budget and momentum schedule.
type Options struct {
	NumIters       int
	AlphaInit      float64 // default 0.2
	AlphaEnd       float64 // default 0.2
	ConvergenceTol float64 // default 2e-2, mean |log10(beta_new/beta_prev)|
}

// DefaultOptions matches the original implementation's defaults.
func DefaultOptions() Options {
	return Options{NumIters: 5, AlphaInit: 0.2, AlphaEnd: 0.2, ConvergenceTol: 2e-2}
}

const momentumDecay = 0.85 // weight on the running log-space momentum term
const momentumNew = 0.15   // weight on the freshly inverted beta

// Optimize runs params.Beta's ladder over every instance for opts.NumIters
// iterations (or until convergence), reshaping the interior beta values
// from the aggregated diffusion statistics. Endpoints beta_min/beta_max are
// held fixed throughout; only the T-2 interior values move.
func Optimize(instances []*ising.Instance, params config.Params, opts Options, masterSeed int64) ([]float32, error) {
	beta, err := params.Beta.Resolve()
	if err != nil {
		return nil, err
	}
	if len(beta) < 3 {
		return append([]float32(nil), beta...), nil
	}

	runners := make([]*runner.Runner, len(instances))
	groups := make([]*pt.Group, len(instances))
	streams := make([]*rng.Streams, len(instances))
	for i, inst := range instances {
		p := params
		rn, err := runner.New(inst, p)
		if err != nil {
			return nil, fmt.Errorf("ladder: instance %d: %w", i, err)
		}
		runners[i] = rn
		streams[i] = rng.NewStreams(masterSeed + int64(i))
		g, err := rn.NewGroup(streams[i])
		if err != nil {
			return nil, fmt.Errorf("ladder: instance %d: %w", i, err)
		}
		groups[i] = g
	}

	momentum := append([]float64(nil), float64sOf(beta)...)

	for iter := 0; iter < opts.NumIters; iter++ {
		alpha := annealAlpha(opts, iter)

		diffSum := make([]float64, len(beta))
		haveAny := false

		var wg sync.WaitGroup
		results := make([]*runner.Result, len(instances))
		wg.Add(len(instances))
		for i := range instances {
			// Reuse the previous iteration's final states but reset
			// round-trip/diffusion/tag bookkeeping (spec.md §4.7 step 1).
			groups[i].ResetTags()
			i := i
			go func() {
				defer wg.Done()
				res, err := runners[i].Run(groups[i], streams[i])
				if err == nil {
					results[i] = res
					groups[i] = res.Group
				}
			}()
		}
		wg.Wait()

		for i, res := range results {
			if res == nil {
				continue
			}
			f := aggregateDiffusion(res.Group)
			tau := roundTripTime(res.Group, params, len(beta))
			df := centralDifference(beta, f)
			for k := range diffSum {
				diffSum[k] += tau * df[k]
			}
			if tau > 0 {
				haveAny = true
			}
		}

		if !haveAny {
			logrus.Warnf("ladder: iteration %d produced no round trips on any instance; keeping the ladder unchanged", iter)
			continue
		}

		weights := quadratureWeights(beta)
		eta := make([]float64, len(beta))
		for k := range eta {
			v := diffSum[k] / weights[k]
			if v < 0 {
				v = 0
			}
			eta[k] = math.Sqrt(v)
		}

		segArea, total := trapezoidSegments(beta, eta)
		if total < floatEpsilon(len(beta)) {
			logrus.Warnf("ladder: iteration %d has degenerate diffusion statistics (eta sum %.3g); skipping", iter, total)
			continue
		}
		// integrate.Trapezoidal cross-checks the same total mass via an
		// independent routine (gonum, not our per-segment accumulation).
		betaF64 := float64sOf(beta)
		crossCheck := integrate.Trapezoidal(betaF64, eta)
		if math.Abs(crossCheck-total) > 1e-6*math.Max(1, total) {
			logrus.Warnf("ladder: trapezoid cross-check mismatch (%.6g vs %.6g)", crossCheck, total)
		}

		cdf := cumulativeCDF(segArea, total)

		newBeta := append([]float32(nil), beta...)
		for j := 1; j < len(beta)-1; j++ {
			target := float64(j) / float64(len(beta)-1)
			invBeta := invertCDF(betaF64, cdf, target)

			m := math.Exp(momentumDecay*math.Log(momentum[j]) + momentumNew*math.Log(invBeta))
			momentum[j] = m
			stepped := math.Exp(alpha*math.Log(m) + (1-alpha)*math.Log(float64(beta[j])))
			newBeta[j] = float32(stepped)
		}

		meanDelta := meanAbsLog10Ratio(beta, newBeta)
		beta = newBeta
		for i := range instances {
			rebuildRunnerBeta(runners[i], groups[i], beta, params)
		}

		if meanDelta < opts.ConvergenceTol {
			break
		}
	}

	return beta, nil
}

// rebuildRunnerBeta installs a refined beta ladder into rn and g in place,
// re-snapping LoBetaIdx the same way New does (spec.md §7's lo_beta
// cutoff is a threshold on beta values, so it must be recomputed whenever
// the ladder moves).
func rebuildRunnerBeta(rn *runner.Runner, g *pt.Group, beta []float32, params config.Params) {
	rn.Beta = append([]float32(nil), beta...)
	g.Beta = append([]float32(nil), beta...)

	loBeta := float32(1.0)
	if params.LoBeta != nil {
		loBeta = *params.LoBeta
	}
	loBetaIdx := len(beta) - 1
	for i, b := range beta {
		if b >= loBeta {
			loBetaIdx = i
			break
		}
	}
	rn.LoBetaIdx = loBetaIdx
}

func annealAlpha(opts Options, iter int) float64 {
	if opts.NumIters <= 1 {
		return opts.AlphaInit
	}
	t := float64(iter) / float64(opts.NumIters-1)
	return opts.AlphaInit + t*(opts.AlphaEnd-opts.AlphaInit)
}

// aggregateDiffusion sums the diffusion histogram across every chain in the
// group and returns f(beta) = n_max / (n_min + n_max) per beta-index.
func aggregateDiffusion(g *pt.Group) []float64 {
	t := len(g.Beta)
	nMin := make([]int64, t)
	nMax := make([]int64, t)
	for _, c := range g.Chains {
		for k, d := range c.Diffusion {
			nMin[k] += d[0]
			nMax[k] += d[1]
		}
	}
	f := make([]float64, t)
	for k := range f {
		denom := nMin[k] + nMax[k]
		if denom == 0 {
			continue
		}
		f[k] = float64(nMax[k]) / float64(denom)
	}
	return f
}

// roundTripTime computes tau = num_sweeps / (round_trips / (M*T)), or 0 if
// no round trips were observed (spec.md §4.7 step 3).
func roundTripTime(g *pt.Group, params config.Params, t int) float64 {
	var totalTrips int64
	for _, c := range g.Chains {
		totalTrips += c.RoundTrips
	}
	if totalTrips == 0 {
		return 0
	}
	m := float64(len(g.Chains))
	rate := float64(totalTrips) / (m * float64(t))
	return float64(params.NumSweeps) / rate
}

func centralDifference(beta []float32, f []float64) []float64 {
	n := len(beta)
	df := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case n == 1:
			df[i] = 0
		case i == 0:
			df[i] = (f[1] - f[0]) / float64(beta[1]-beta[0])
		case i == n-1:
			df[i] = (f[n-1] - f[n-2]) / float64(beta[n-1]-beta[n-2])
		default:
			df[i] = (f[i+1] - f[i-1]) / float64(beta[i+1]-beta[i-1])
		}
	}
	return df
}

// quadratureWeights returns the standard trapezoidal quadrature weight per
// grid point: half the sum of the two adjacent segment lengths.
func quadratureWeights(beta []float32) []float64 {
	n := len(beta)
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case i == 0:
			w[i] = float64(beta[1]-beta[0]) / 2
		case i == n-1:
			w[i] = float64(beta[n-1]-beta[n-2]) / 2
		default:
			w[i] = float64(beta[i+1]-beta[i-1]) / 2
		}
	}
	return w
}

// trapezoidSegments returns the per-segment trapezoid areas between
// adjacent grid points and their sum.
func trapezoidSegments(beta []float32, y []float64) ([]float64, float64) {
	n := len(beta)
	seg := make([]float64, n-1)
	var total float64
	for i := 0; i < n-1; i++ {
		seg[i] = 0.5 * (y[i] + y[i+1]) * float64(beta[i+1]-beta[i])
		total += seg[i]
	}
	return seg, total
}

// cumulativeCDF turns per-segment areas into a normalized, non-decreasing
// CDF sampled at the same grid points as beta.
func cumulativeCDF(seg []float64, total float64) []float64 {
	cdf := make([]float64, len(seg)+1)
	acc := 0.0
	for i, s := range seg {
		acc += s
		cdf[i+1] = acc / total
	}
	cdf[len(cdf)-1] = 1.0
	return cdf
}

// invertCDF finds beta such that CDF(beta) == target via monotonic
// bisection (sort.Search over the non-decreasing cdf array) followed by
// linear interpolation within the bracketing segment.
func invertCDF(beta, cdf []float64, target float64) float64 {
	idx := sort.Search(len(cdf), func(i int) bool { return cdf[i] >= target })
	if idx <= 0 {
		return beta[0]
	}
	if idx >= len(cdf) {
		return beta[len(beta)-1]
	}
	lo, hi := idx-1, idx
	span := cdf[hi] - cdf[lo]
	if span <= 0 {
		return beta[lo]
	}
	frac := (target - cdf[lo]) / span
	return beta[lo] + frac*(beta[hi]-beta[lo])
}

func meanAbsLog10Ratio(oldBeta, newBeta []float32) float64 {
	if len(oldBeta) <= 2 {
		return 0
	}
	var sum float64
	n := 0
	for j := 1; j < len(oldBeta)-1; j++ {
		sum += math.Abs(math.Log10(float64(newBeta[j]) / float64(oldBeta[j])))
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func floatEpsilon(n int) float64 {
	return float64(n) * 1e-7
}

func float64sOf(beta []float32) []float64 {
	out := make([]float64, len(beta))
	for i, b := range beta {
		out[i] = float64(b)
	}
	return out
}
