// Package config loads and validates the method file: the YAML record that
// selects the solver method and its run parameters (spec.md §6, "Method
// file"). Mirrors the original Rust implementation's `Method::PT(PtIcmParams)`
// enum, serialized as a single-key YAML map.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// GeometricBeta describes a log-spaced beta ladder from beta_min to
// beta_max inclusive with num_beta points.
type GeometricBeta struct {
	BetaMin float32 `yaml:"beta_min"`
	BetaMax float32 `yaml:"beta_max"`
	NumBeta int     `yaml:"num_beta"`
}

// BetaSpec is the method file's beta field: either a geometric ladder
// description or an explicit, already-sorted array.
type BetaSpec struct {
	Geometric *GeometricBeta `yaml:"Geometric,omitempty"`
	Arr       []float32      `yaml:"Arr,omitempty"`
}

// Resolve expands the spec into a concrete, non-decreasing beta ladder.
func (b BetaSpec) Resolve() ([]float32, error) {
	switch {
	case b.Geometric != nil:
		g := b.Geometric
		if g.NumBeta < 2 {
			return nil, fmt.Errorf("config: Geometric.num_beta must be >= 2, got %d", g.NumBeta)
		}
		if g.BetaMin <= 0 || g.BetaMax < g.BetaMin {
			return nil, fmt.Errorf("config: Geometric beta_min/beta_max invalid (%v, %v)", g.BetaMin, g.BetaMax)
		}
		out := make([]float32, g.NumBeta)
		lnMin, lnMax := math.Log(float64(g.BetaMin)), math.Log(float64(g.BetaMax))
		for i := 0; i < g.NumBeta; i++ {
			t := float64(i) / float64(g.NumBeta-1)
			out[i] = float32(math.Exp(lnMin + t*(lnMax-lnMin)))
		}
		return out, nil
	case len(b.Arr) > 0:
		for i := 1; i < len(b.Arr); i++ {
			if b.Arr[i] < b.Arr[i-1] {
				return nil, fmt.Errorf("config: explicit beta array must be non-decreasing")
			}
		}
		return append([]float32(nil), b.Arr...), nil
	default:
		return nil, fmt.Errorf("config: beta field must set either Geometric or Arr")
	}
}

// Params holds the run parameters recognized under the PT method (spec.md
// §3 "Run parameters" / §6 "Parameters"). WarmupFraction and LoBeta are
// pointers, like Sample/SampleStates/SampleLimiting: both have a spec-legal
// explicit zero value (warmup_fraction: 0 means "measure from sweep 0";
// lo_beta: 0 means "run ICM at every rung"), so a plain zero-valued field
// could not tell "omitted" from "explicitly set to zero" during default
// merging.
type Params struct {
	NumSweeps        uint32   `yaml:"num_sweeps"`
	WarmupFraction   *float64 `yaml:"warmup_fraction"`
	Beta             BetaSpec `yaml:"beta"`
	LoBeta           *float32 `yaml:"lo_beta"`
	ICM              bool     `yaml:"icm"`
	NumReplicaChains uint32   `yaml:"num_replica_chains"`
	Threads          uint32   `yaml:"threads"`
	Sample           *uint32  `yaml:"sample"`
	SampleStates     *uint32  `yaml:"sample_states"`
	SampleLimiting   *uint8   `yaml:"sample_limiting"`
	// Seed is not in spec.md's parameter list; supplemented from
	// original_source/src/lib.rs's Prog/Params handling for reproducible
	// runs (see SPEC_FULL.md §8.1). Nil means the CLI picks one.
	Seed *int64 `yaml:"seed"`
}

// Default returns the original implementation's documented defaults
// (original_source/src/ising.rs, PtIcmParams::default).
func Default() Params {
	warmup := 0.5
	loBeta := float32(1.0)
	limiting := uint8(0)
	return Params{
		WarmupFraction:   &warmup,
		LoBeta:           &loBeta,
		NumReplicaChains: 2,
		SampleLimiting:   &limiting,
	}
}

// Method is the top-level method-file document: a single-variant selector,
// matching the original's `Method::PT(PtIcmParams)` enum.
type Method struct {
	PT *Params `yaml:"PT"`
}

// Load reads and strictly parses the method file at path. Unknown fields are
// rejected (spec.md §7: method-file parse failures are fatal and must
// include the underlying reason).
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening method file %q: %w", path, err)
	}

	method := Method{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&method); err != nil {
		return nil, fmt.Errorf("config: parsing method file %q: %w", path, err)
	}
	if method.PT == nil {
		return nil, fmt.Errorf("config: method file %q does not select the PT method", path)
	}

	p := mergeDefaults(*method.PT)
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid parameters in %q: %w", path, err)
	}
	return &p, nil
}

// mergeDefaults fills zero-valued optional fields from Default(). NumSweeps
// has no sensible default and is left to Validate to reject if unset.
func mergeDefaults(p Params) Params {
	d := Default()
	if p.WarmupFraction == nil {
		p.WarmupFraction = d.WarmupFraction
	}
	if p.LoBeta == nil {
		p.LoBeta = d.LoBeta
	}
	if p.NumReplicaChains == 0 {
		p.NumReplicaChains = d.NumReplicaChains
	}
	if p.SampleLimiting == nil {
		p.SampleLimiting = d.SampleLimiting
	}
	if p.Threads == 0 {
		p.Threads = 1
	}
	return p
}

// Validate checks the runtime invariants spec.md §7 requires at
// construction time.
func (p Params) Validate() error {
	if p.NumSweeps == 0 {
		return fmt.Errorf("num_sweeps must be positive")
	}
	if p.WarmupFraction != nil && (*p.WarmupFraction < 0 || *p.WarmupFraction >= 1) {
		return fmt.Errorf("warmup_fraction must be in [0,1), got %v", *p.WarmupFraction)
	}
	if p.ICM && p.NumReplicaChains%2 != 0 {
		return fmt.Errorf("num_replica_chains must be even when icm is true, got %d", p.NumReplicaChains)
	}
	if p.SampleLimiting != nil && *p.SampleLimiting > 2 {
		return fmt.Errorf("sample_limiting must be 0, 1, or 2, got %d", *p.SampleLimiting)
	}
	return nil
}
