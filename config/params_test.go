package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetaSpec_Resolve_Geometric(t *testing.T) {
	spec := BetaSpec{Geometric: &GeometricBeta{BetaMin: 0.1, BetaMax: 10.0, NumBeta: 3}}
	got, err := spec.Resolve()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 0.1, got[0], 1e-6)
	assert.InDelta(t, 10.0, got[2], 1e-6)
	assert.InDelta(t, 1.0, got[1], 1e-5)
}

func TestBetaSpec_Resolve_Arr_RejectsDecreasing(t *testing.T) {
	spec := BetaSpec{Arr: []float32{1.0, 0.5, 2.0}}
	_, err := spec.Resolve()
	assert.Error(t, err)
}

func TestLoad_StrictFieldChecking(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "method.yaml")
	content := `
PT:
  num_sweeps: 100
  typo_field: true
  beta:
    Arr: [0.1, 1.0]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidMethodFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "method.yaml")
	content := `
PT:
  num_sweeps: 200
  icm: true
  num_replica_chains: 2
  beta:
    Geometric:
      beta_min: 0.1
      beta_max: 10.0
      num_beta: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	p, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 200, p.NumSweeps)
	require.NotNil(t, p.WarmupFraction)
	assert.Equal(t, 0.5, *p.WarmupFraction)
	assert.True(t, p.ICM)
}

// TestLoad_ExplicitZeroSurvivesMerge guards against mergeDefaults treating an
// explicitly-set zero the same as an omitted field: warmup_fraction: 0 means
// "measure from sweep 0" and lo_beta: 0 means "run ICM at every rung", both
// spec-legal and distinct from their non-zero defaults.
func TestLoad_ExplicitZeroSurvivesMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "method.yaml")
	content := `
PT:
  num_sweeps: 200
  warmup_fraction: 0
  lo_beta: 0
  beta:
    Arr: [0.1, 1.0]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	p, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, p.WarmupFraction)
	require.NotNil(t, p.LoBeta)
	assert.Equal(t, 0.0, *p.WarmupFraction)
	assert.Equal(t, float32(0), *p.LoBeta)
}

func TestValidate_OddChainsWithICM(t *testing.T) {
	p := Default()
	p.NumSweeps = 10
	p.ICM = true
	p.NumReplicaChains = 3
	assert.Error(t, p.Validate())
}
