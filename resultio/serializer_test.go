package resultio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGSRecord_RoundTripsAsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")
	rec := &GSRecord{
		InstanceSize: 2,
		GSEnergies:   []float32{-1},
		GSTimeSteps:  []int64{5},
	}
	require.NoError(t, WriteGSRecord(path, rec))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "instance_size")
}

func TestWriteThermalSamples_WritesBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "samples.bin")
	ts := &ThermalSamples{CompressionLevel: 0, InstanceSize: 2, BetaArr: []float32{0.1, 1.0}}
	require.NoError(t, WriteThermalSamples(path, ts))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
