// Package config defines the solver's configuration surface: SolverParams
// groups every numeric knob and strategy-name selection spec.md §6 lists
// under "Configuration enumeration", loaded from YAML the way the
// teacher's sim.ModelHardwareConfig/WorkloadConfig grouping structs are
// (plain struct, doc comment per field, yaml tags).
package config

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hermesrouting/hermes-optimizer/internal/score"
)

// TerminationKind selects which of the five §6 termination conditions a
// Termination value carries.
type TerminationKind int

const (
	TerminationDuration TerminationKind = iota
	TerminationIterations
	TerminationIterationsWithoutImprovement
	TerminationScore
	TerminationVehiclesAndCosts
)

// Termination is a tagged union over spec §6's Termination enum. Only the
// field(s) relevant to Kind are read.
type Termination struct {
	Kind       TerminationKind `yaml:"kind"`
	Duration   time.Duration   `yaml:"duration,omitempty"`
	Iterations int             `yaml:"iterations,omitempty"`
	Score      score.Score     `yaml:"score,omitempty"`
	Vehicles   int             `yaml:"vehicles,omitempty"`
	Costs      float64         `yaml:"costs,omitempty"`
}

// Met reports whether this termination condition has fired. Checks happen
// at iteration boundaries only (spec §7: "terminations are advisory... the
// solver may run slightly past a duration").
func (t Termination) Met(elapsed time.Duration, iteration, iterationsSinceImprovement, numVehicles int, best score.Score) bool {
	switch t.Kind {
	case TerminationDuration:
		return elapsed >= t.Duration
	case TerminationIterations:
		return iteration >= t.Iterations
	case TerminationIterationsWithoutImprovement:
		return iterationsSinceImprovement >= t.Iterations
	case TerminationScore:
		return !t.Score.Less(best)
	case TerminationVehiclesAndCosts:
		return numVehicles <= t.Vehicles && best.Soft <= t.Costs
	default:
		return false
	}
}

// ThreadsKind selects one of spec §6's Threads enum variants.
type ThreadsKind int

const (
	ThreadsSingle ThreadsKind = iota
	ThreadsAuto
	ThreadsMulti
)

// Threads configures how many search threads the ALNS driver runs (spec
// §6, §5).
type Threads struct {
	Kind  ThreadsKind `yaml:"kind"`
	Count int         `yaml:"count,omitempty"`
}

// Resolve returns the concrete thread count: 1 for Single, runtime.
// NumCPU() for Auto, the configured count for Multi (floored at 1).
func (t Threads) Resolve() int {
	switch t.Kind {
	case ThreadsAuto:
		return runtime.NumCPU()
	case ThreadsMulti:
		if t.Count <= 0 {
			return 1
		}
		return t.Count
	default:
		return 1
	}
}

// SolverParams groups every knob the ALNS driver, its operators, and its
// control surface read (spec §6 "Configuration enumeration"). Field names
// mirror spec.md's terminology directly so a YAML file reads as a
// transcription of the spec.
type SolverParams struct {
	Seed        int64       `yaml:"seed"`
	Threads     Threads     `yaml:"threads"`
	Termination Termination `yaml:"termination"`

	AcceptorStrategy string  `yaml:"acceptor_strategy"`
	AcceptorT0       float64 `yaml:"acceptor_t0"`
	AcceptorAlpha    float64 `yaml:"acceptor_alpha"`
	SelectorStrategy string  `yaml:"selector_strategy"`

	PopulationSize     int `yaml:"population_size"`
	EliteSize          int `yaml:"elite_size"`
	PopulationNClosest int `yaml:"population_n_closest"`

	NoiseLevel       float64 `yaml:"noise_level"`
	NoiseProbability float64 `yaml:"noise_probability"`
	BlinkProbability float64 `yaml:"blink_probability"`

	ALNSReactionFactor                     float64 `yaml:"alns_reaction_factor"`
	ALNSBestFactor                         float64 `yaml:"alns_best_factor"`
	ALNSImprovementFactor                  float64 `yaml:"alns_improvement_factor"`
	ALNSAcceptedWorstFactor                float64 `yaml:"alns_accepted_worst_factor"`
	ALNSSegmentIterations                  int     `yaml:"alns_segment_iterations"`
	ALNSIterationsWithoutImprovementReset   int     `yaml:"alns_iterations_without_improvement_reset"`

	TabuSize       int `yaml:"tabu_size"`
	TabuIterations int `yaml:"tabu_iterations"`

	IntensifyProbability   float64 `yaml:"intensify_probability"`
	IntensifyMaxIterations int     `yaml:"intensify_max_iterations"`

	MinJobsToRemoveFraction float64 `yaml:"min_jobs_to_remove_fraction"`
	MaxJobsToRemoveFraction float64 `yaml:"max_jobs_to_remove_fraction"`
	RuinDeterminism         float64 `yaml:"ruin_determinism"`

	RecreateSortMethod string `yaml:"recreate_sort_method"`
	RegretK            int    `yaml:"regret_k"`

	WaitingThreshold float64 `yaml:"waiting_threshold"`

	ThreadsSyncIterationsInterval int `yaml:"threads_sync_iterations_interval"`

	InsertionConcurrency int `yaml:"insertion_concurrency"`
}

// Default returns the solver's built-in defaults, parallel to the
// teacher's cmd/default_config.go defaults file.
func Default() SolverParams {
	return SolverParams{
		Seed:        1,
		Threads:     Threads{Kind: ThreadsSingle},
		Termination: Termination{Kind: TerminationIterations, Iterations: 10000},

		AcceptorStrategy: "greedy",
		AcceptorT0:        0.01,
		AcceptorAlpha:     0.05,
		SelectorStrategy: "select-best",

		PopulationSize:     20,
		EliteSize:          4,
		PopulationNClosest: 5,

		NoiseLevel:       0.1,
		NoiseProbability: 1.0,
		BlinkProbability: 0.01,

		ALNSReactionFactor:                     0.1,
		ALNSBestFactor:                         10,
		ALNSImprovementFactor:                  5,
		ALNSAcceptedWorstFactor:                1,
		ALNSSegmentIterations:                  100,
		ALNSIterationsWithoutImprovementReset:  1000,

		TabuSize:       10,
		TabuIterations: 50,

		IntensifyProbability:   0.2,
		IntensifyMaxIterations: 1000,

		MinJobsToRemoveFraction: 0.1,
		MaxJobsToRemoveFraction: 0.3,
		RuinDeterminism:         0.3,

		RecreateSortMethod: "random",
		RegretK:            3,

		WaitingThreshold: 0,

		ThreadsSyncIterationsInterval: 200,
		InsertionConcurrency:          runtime.NumCPU(),
	}
}

// Load reads and strictly decodes a YAML params file on top of Default(),
// following the teacher's cmd.GetDefaultSpecs strict-parsing pattern
// (KnownFields(true): a typo'd key is an error, not silently ignored).
func Load(path string) (SolverParams, error) {
	params := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("config: reading %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&params); err != nil {
		return params, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return params, nil
}
