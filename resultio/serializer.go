package resultio

import (
	"encoding/gob"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteGSRecord writes rec to path as YAML.
func WriteGSRecord(path string, rec *GSRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("resultio: creating output file %q: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("resultio: writing %q: %w", path, err)
	}
	return nil
}

// WriteThermalSamples writes ts to path as a gob-encoded binary blob.
func WriteThermalSamples(path string, ts *ThermalSamples) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("resultio: creating sample output file %q: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(ts); err != nil {
		return fmt.Errorf("resultio: writing %q: %w", path, err)
	}
	return nil
}
