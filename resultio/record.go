// Package resultio defines the two structured output records spec.md §6
// describes and serializes them the way the original implementation does:
// the ground-state record as YAML (serde_yaml in the original), the thermal
// samples as a compact binary blob (bincode in the original; encoding/gob
// here, its closest Go stdlib analogue).
package resultio

import (
	"github.com/latticemc/ptic/config"
	"github.com/latticemc/ptic/samples"
)

// GSRecord is Output 1 (spec.md §6): the ground-state log plus run metadata,
// appended to only when a new global minimum is found.
type GSRecord struct {
	Params           config.Params `yaml:"params"`
	TimingMicros     int64         `yaml:"timing_us"`
	InstanceSize     int           `yaml:"instance_size"`
	NumMeasurements  int           `yaml:"num_measurements"`
	AcceptanceCounts []int64       `yaml:"acceptance_counts"`
	GSTimeSteps      []int64       `yaml:"gs_time_steps"`
	GSEnergies       []float32     `yaml:"gs_energies"`
	GSStates         [][]uint64    `yaml:"gs_states"`
}

// ThermalSamples is Output 2 (spec.md §6): per-beta observable and state
// recordings, subject to the sample store's compression tier.
type ThermalSamples struct {
	CompressionLevel uint8
	InstanceSize     uint64
	BetaArr          []float32
	Samples          [][][]byte
	E                [][]float32
	Q                [][]int32
	Suscept          [][][]float32
}

// FromStore copies a samples.Store into the wire-format ThermalSamples
// record.
func FromStore(st *samples.Store, instanceSize int) *ThermalSamples {
	return &ThermalSamples{
		CompressionLevel: uint8(st.Tier),
		InstanceSize:     uint64(instanceSize),
		BetaArr:          append([]float32(nil), st.Beta...),
		Samples:          st.States,
		E:                st.E,
		Q:                st.Q,
		Suscept:          st.Chi,
	}
}
