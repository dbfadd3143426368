// cmd/root.go
package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/latticemc/ptic/config"
	"github.com/latticemc/ptic/instanceio"
	"github.com/latticemc/ptic/resultio"
	"github.com/latticemc/ptic/rng"
	"github.com/latticemc/ptic/runner"
)

var (
	logLevel     string
	suscepts     []string
	sampleOutput string
	qubo         bool
	seedOverride int64
)

var rootCmd = &cobra.Command{
	Use:   "ptic method_file instance_file output_file",
	Short: "Monte Carlo PT-ICM solver for Ising-form binary quadratic models",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		methodFile, instanceFile, outputFile := args[0], args[1], args[2]

		params, err := config.Load(methodFile)
		if err != nil {
			logrus.Fatal(err)
		}
		if cmd.Flags().Changed("seed") {
			params.Seed = &seedOverride
		}
		masterSeed := resolveSeed(params.Seed)

		inst, err := instanceio.LoadInstance(instanceFile, qubo)
		if err != nil {
			logrus.Fatal(err)
		}
		for _, path := range suscepts {
			if vec, ok := instanceio.LoadSusceptibility(path, inst.N); ok {
				inst.SusceptRows = append(inst.SusceptRows, vec)
			}
		}

		logrus.Infof("starting PT-ICM run: n=%d, num_sweeps=%d, replica_chains=%d, icm=%v",
			inst.N, params.NumSweeps, params.NumReplicaChains, params.ICM)

		rn, err := runner.New(inst, *params)
		if err != nil {
			logrus.Fatal(err)
		}
		streams := rng.NewStreams(masterSeed)
		group, err := rn.NewGroup(streams)
		if err != nil {
			logrus.Fatal(err)
		}

		res, err := rn.Run(group, streams)
		if err != nil {
			logrus.Fatal(err)
		}

		if err := resultio.WriteGSRecord(outputFile, res.GS); err != nil {
			logrus.Fatal(err)
		}
		ts := resultio.FromStore(res.Store, inst.N)
		if err := resultio.WriteThermalSamples(sampleOutput, ts); err != nil {
			logrus.Fatal(err)
		}

		best := float32(0)
		if n := len(res.GS.GSEnergies); n > 0 {
			best = res.GS.GSEnergies[n-1]
		}
		logrus.Infof("run complete: sweeps=%d best_energy=%v wall_time=%s",
			params.NumSweeps, best, time.Duration(res.GS.TimingMicros)*time.Microsecond)
	},
}

// resolveSeed returns the configured seed, or a time-derived one chosen
// once per run when the method file and --seed flag both leave it unset
// (original_source/src/lib.rs picks a fresh seed the same way; see
// SPEC_FULL.md §8.1).
func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringArrayVar(&suscepts, "suscepts", nil, "Path to a susceptibility coefficient file (repeatable)")
	rootCmd.Flags().StringVar(&sampleOutput, "sample-output", "samples.bin", "Path to write the thermal sample output")
	rootCmd.Flags().BoolVar(&qubo, "qubo", false, "Interpret the instance file as a QUBO matrix")
	rootCmd.Flags().Int64Var(&seedOverride, "seed", 0, "RNG master seed (overrides the method file's seed field)")
}
