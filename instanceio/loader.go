// Package instanceio is the (out-of-core, per spec.md §1) instance and
// susceptibility file reader: a thin text-format adapter that hands the
// core a ready-to-use *ising.Instance.
package instanceio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/latticemc/ptic/ising"
	"github.com/sirupsen/logrus"
)

type entry struct {
	i, j int
	k    float32
}

// LoadInstance reads the adjacency-list instance file: each line "i j K"
// sets J_ij = J_ji = K for i != j, or h_i = K for i == j. In qubo mode every
// line is instead folded through the QUBO->Ising conversion (spec.md §3).
func LoadInstance(path string, qubo bool) (*ising.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instanceio: opening instance file %q: %w", path, err)
	}
	defer f.Close()

	entries, n, err := parseEntries(f, path)
	if err != nil {
		return nil, err
	}

	if qubo {
		b := ising.NewQUBOBuilder(n)
		for _, e := range entries {
			b.AddEntry(e.i, e.j, e.k)
		}
		inst, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("instanceio: building qubo instance from %q: %w", path, err)
		}
		return inst, nil
	}

	h := make([]float32, n)
	adj := make([][]ising.Coupling, n)
	for _, e := range entries {
		if e.i == e.j {
			h[e.i] += e.k
			continue
		}
		adj[e.i] = append(adj[e.i], ising.Coupling{Neighbor: e.j, J: e.k})
		adj[e.j] = append(adj[e.j], ising.Coupling{Neighbor: e.i, J: e.k})
	}
	inst, err := ising.NewInstance(n, 0, h, adj)
	if err != nil {
		return nil, fmt.Errorf("instanceio: building instance from %q: %w", path, err)
	}
	return inst, nil
}

func parseEntries(f *os.File, path string) ([]entry, int, error) {
	var entries []entry
	maxIdx := -1
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, 0, fmt.Errorf("instanceio: %s:%d: expected 3 fields, got %d", path, lineNo, len(fields))
		}
		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, 0, fmt.Errorf("instanceio: %s:%d: bad row index: %w", path, lineNo, err)
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, 0, fmt.Errorf("instanceio: %s:%d: bad column index: %w", path, lineNo, err)
		}
		k, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return nil, 0, fmt.Errorf("instanceio: %s:%d: bad coefficient: %w", path, lineNo, err)
		}
		entries = append(entries, entry{i: i, j: j, k: float32(k)})
		if i > maxIdx {
			maxIdx = i
		}
		if j > maxIdx {
			maxIdx = j
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("instanceio: reading %q: %w", path, err)
	}
	return entries, maxIdx + 1, nil
}

// LoadSusceptibility reads a susceptibility coefficient vector: one
// floating-point value per line. Per spec.md §7, a wrong-length file is
// recoverable -- it is skipped with a warning, not a fatal error.
func LoadSusceptibility(path string, n int) ([]float64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Warnf("instanceio: could not read susceptibility file %q: %v; skipping", path, err)
		return nil, false
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	vec := make([]float64, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			logrus.Warnf("instanceio: susceptibility file %q has a non-numeric line; skipping", path)
			return nil, false
		}
		vec = append(vec, v)
	}
	if len(vec) != n {
		logrus.Warnf("instanceio: susceptibility file %q has length %d, want %d; skipping", path, len(vec), n)
		return nil, false
	}
	return vec, true
}
