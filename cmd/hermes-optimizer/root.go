// Package main is the hermes-optimizer CLI entrypoint: a "solve" command
// that reads a problem JSON file and an optional YAML params file, runs
// the ALNS solver to one of spec §6's termination conditions, and prints
// the resulting solution.Output as JSON, following the teacher's
// cmd/root.go flag-registration-in-init() shape generalized from one
// fixed run to a configurable one.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hermesrouting/hermes-optimizer/internal/config"
	"github.com/hermesrouting/hermes-optimizer/internal/constraint"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
	"github.com/hermesrouting/hermes-optimizer/internal/solver"
)

var (
	problemPath string
	paramsPath  string
	outputPath  string
	logLevel    string

	seed             int64
	threadsKind      string
	threadsCount     int
	terminationKind  string
	terminationValue float64

	acceptorStrategy string
	selectorStrategy string

	populationSize     int
	eliteSize          int
	populationNClosest int

	noiseLevel       float64
	noiseProbability float64
	blinkProbability float64

	tabuSize       int
	tabuIterations int

	intensifyProbability   float64
	intensifyMaxIterations int

	recreateSortMethod string
	regretK            int
)

var rootCmd = &cobra.Command{
	Use:   "hermes-optimizer",
	Short: "Adaptive Large Neighborhood Search solver for vehicle routing with time windows",
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a VRPTW problem instance and print the resulting solution",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		params, err := loadParams()
		if err != nil {
			logrus.Fatalf("loading params: %v", err)
		}
		applyFlagOverrides(&params)

		p, err := loadProblem(problemPath, params)
		if err != nil {
			logrus.Fatalf("loading problem: %v", err)
		}

		logrus.WithFields(logrus.Fields{
			"jobs":     p.NumJobs(),
			"vehicles": len(p.Vehicles),
			"threads":  params.Threads.Resolve(),
		}).Info("hermes-optimizer: starting solve")

		mgr := solver.NewManager()
		jobID := mgr.CreateJob(p, params)
		mgr.Start(jobID)
		mgr.Wait(jobID)

		handle, _ := mgr.Solver(jobID)
		best := handle.Best()
		if best == nil {
			logrus.Fatal("solver produced no solution")
		}

		framework := constraint.NewFramework(params.WaitingThreshold)
		_, breakdown := framework.ComputeScore(p, best.Solution)
		out := solution.BuildOutput(p, best.Solution, best.Score, breakdown)

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			logrus.Fatalf("encoding output: %v", err)
		}
		if outputPath == "" {
			fmt.Println(string(data))
			return
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			logrus.Fatalf("writing output: %v", err)
		}
		logrus.WithField("path", outputPath).Info("hermes-optimizer: wrote solution")
	},
}

// Execute runs the CLI, exiting with status 1 on any command error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func init() {
	solveCmd.Flags().StringVar(&problemPath, "problem", "", "Path to a problem intake JSON file (required)")
	solveCmd.Flags().StringVar(&paramsPath, "params", "", "Path to a YAML solver params file (defaults to config.Default())")
	solveCmd.Flags().StringVar(&outputPath, "output", "", "Path to write the solution JSON (stdout if empty)")
	solveCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	solveCmd.MarkFlagRequired("problem")

	solveCmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 keeps the params file's value)")
	solveCmd.Flags().StringVar(&threadsKind, "threads-kind", "", "Threads kind: single, auto, multi")
	solveCmd.Flags().IntVar(&threadsCount, "threads-count", 0, "Thread count when threads-kind=multi")
	solveCmd.Flags().StringVar(&terminationKind, "termination-kind", "", "Termination kind: duration, iterations, iterations-without-improvement, score, vehicles-and-costs")
	solveCmd.Flags().Float64Var(&terminationValue, "termination-value", 0, "Termination threshold: seconds, iteration count, or cost, matching termination-kind")

	solveCmd.Flags().StringVar(&acceptorStrategy, "acceptor", "", "Acceptance strategy: greedy, any, schrimpf, simulated-annealing")
	solveCmd.Flags().StringVar(&selectorStrategy, "selector", "", "Source-solution selector: select-best, select-random, select-weighted")

	solveCmd.Flags().IntVar(&populationSize, "population-size", 0, "Population size (0 keeps the params file's value)")
	solveCmd.Flags().IntVar(&eliteSize, "elite-size", 0, "Elite size for biased-fitness ranking")
	solveCmd.Flags().IntVar(&populationNClosest, "population-n-closest", 0, "Neighbor count for diversity ranking")

	solveCmd.Flags().Float64Var(&noiseLevel, "noise-level", -1, "Insertion-score noise amplitude (negative keeps the params file's value)")
	solveCmd.Flags().Float64Var(&noiseProbability, "noise-probability", -1, "Probability of applying noise during a recreate pass")
	solveCmd.Flags().Float64Var(&blinkProbability, "blink-probability", -1, "Blinking probability for best-insertion strategies")

	solveCmd.Flags().IntVar(&tabuSize, "tabu-size", 0, "Tabu ring capacity")
	solveCmd.Flags().IntVar(&tabuIterations, "tabu-iterations", 0, "Tabu entry lifetime in iterations")

	solveCmd.Flags().Float64Var(&intensifyProbability, "intensify-probability", -1, "Probability of running local search after a recreate pass")
	solveCmd.Flags().IntVar(&intensifyMaxIterations, "intensify-max-iterations", 0, "Local search descent iteration cap")

	solveCmd.Flags().StringVar(&recreateSortMethod, "recreate-sort", "", "Recreate insertion order: random, demand, far, close, time-window")
	solveCmd.Flags().IntVar(&regretK, "regret-k", 0, "k for regret-k insertion (0 keeps the params file's value)")

	rootCmd.AddCommand(solveCmd)
}
