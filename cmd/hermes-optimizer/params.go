package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hermesrouting/hermes-optimizer/internal/config"
	"github.com/hermesrouting/hermes-optimizer/internal/matrixprovider"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
)

// loadParams returns the YAML params file's contents if one was given, else
// the built-in defaults (spec §6 "Configuration enumeration" is all-optional
// at the CLI boundary).
func loadParams() (config.SolverParams, error) {
	if paramsPath == "" {
		return config.Default(), nil
	}
	return config.Load(paramsPath)
}

// applyFlagOverrides layers any explicitly-set CLI flags on top of params,
// following the teacher's practice of flags taking precedence over a config
// file. Flags left at their zero/sentinel default leave params untouched.
func applyFlagOverrides(params *config.SolverParams) {
	if seed != 0 {
		params.Seed = seed
	}
	if threadsKind != "" {
		params.Threads.Kind = parseThreadsKind(threadsKind)
	}
	if threadsCount != 0 {
		params.Threads.Count = threadsCount
	}
	if terminationKind != "" {
		params.Termination = terminationFromFlag(terminationKind, terminationValue)
	}
	if acceptorStrategy != "" {
		params.AcceptorStrategy = acceptorStrategy
	}
	if selectorStrategy != "" {
		params.SelectorStrategy = selectorStrategy
	}
	if populationSize != 0 {
		params.PopulationSize = populationSize
	}
	if eliteSize != 0 {
		params.EliteSize = eliteSize
	}
	if populationNClosest != 0 {
		params.PopulationNClosest = populationNClosest
	}
	if noiseLevel >= 0 {
		params.NoiseLevel = noiseLevel
	}
	if noiseProbability >= 0 {
		params.NoiseProbability = noiseProbability
	}
	if blinkProbability >= 0 {
		params.BlinkProbability = blinkProbability
	}
	if tabuSize != 0 {
		params.TabuSize = tabuSize
	}
	if tabuIterations != 0 {
		params.TabuIterations = tabuIterations
	}
	if intensifyProbability >= 0 {
		params.IntensifyProbability = intensifyProbability
	}
	if intensifyMaxIterations != 0 {
		params.IntensifyMaxIterations = intensifyMaxIterations
	}
	if recreateSortMethod != "" {
		params.RecreateSortMethod = recreateSortMethod
	}
	if regretK != 0 {
		params.RegretK = regretK
	}
}

func parseThreadsKind(s string) config.ThreadsKind {
	switch s {
	case "auto":
		return config.ThreadsAuto
	case "multi":
		return config.ThreadsMulti
	default:
		return config.ThreadsSingle
	}
}

func terminationFromFlag(kind string, value float64) config.Termination {
	switch kind {
	case "duration":
		return config.Termination{Kind: config.TerminationDuration, Duration: time.Duration(value * float64(time.Second))}
	case "iterations-without-improvement":
		return config.Termination{Kind: config.TerminationIterationsWithoutImprovement, Iterations: int(value)}
	case "score":
		return config.Termination{Kind: config.TerminationScore, Score: scoreFromCost(value)}
	case "vehicles-and-costs":
		return config.Termination{Kind: config.TerminationVehiclesAndCosts, Vehicles: int(value)}
	default:
		return config.Termination{Kind: config.TerminationIterations, Iterations: int(value)}
	}
}

// scoreFromCost builds a zero-hard-violation score threshold from a bare
// soft-cost flag value; the solver only ever compares TerminationScore
// against already-feasible bests in practice (spec §8 property 6).
func scoreFromCost(cost float64) score.Score {
	return score.Score{Soft: cost}
}

// loadProblem reads and parses a problem intake JSON file, resolving every
// vehicle profile's travel matrices via loadCustomMatrices before handing
// off to Intake.Build.
func loadProblem(path string, _ config.SolverParams) (*problem.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	intake, err := problem.ParseIntake(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	customMatrices, err := loadCustomMatrices(intake)
	if err != nil {
		return nil, err
	}
	return intake.Build(customMatrices)
}

// loadCustomMatrices resolves every vehicle profile's cost-provider kind
// into a concrete TravelMatrices. "Custom" providers require a sibling
// "<profile-id>.matrices.json" file (a flattened {n, cost, distance, time}
// triple); "AsTheCrowFlies" providers are computed directly via
// matrixprovider.CrowFlies over the intake's own locations — no network
// call needed. "GraphHopperApi"/"Osrm" providers have no in-module
// implementation (spec §1 scopes routing-engine HTTP clients out as an
// external collaborator) and are rejected here with a clear error rather
// than silently falling back to crow-flies.
func loadCustomMatrices(intake problem.Intake) (map[string]problem.TravelMatrices, error) {
	points := make([]matrixprovider.Point, len(intake.Locations))
	for i, l := range intake.Locations {
		points[i] = matrixprovider.Point{Lon: l.Lon, Lat: l.Lat}
	}

	out := make(map[string]problem.TravelMatrices)
	for _, vp := range intake.VehicleProfiles {
		switch vp.Provider.Kind {
		case "", "Custom":
			m, err := loadMatricesFile(vp.ID + ".matrices.json")
			if err != nil {
				return nil, fmt.Errorf("reading custom matrices for profile %q: %w", vp.ID, err)
			}
			out[vp.ID] = m
		case "AsTheCrowFlies":
			fetched, err := matrixprovider.CrowFlies{}.FetchMatrix(points, matrixprovider.Provider{
				Kind:     problem.CostProviderAsTheCrowFlies,
				SpeedKMH: vp.Provider.SpeedKMH,
			})
			if err != nil {
				return nil, fmt.Errorf("computing crow-flies matrices for profile %q: %w", vp.ID, err)
			}
			cost := fetched.Costs
			if cost == nil {
				cost = fetched.Distances
			}
			m, err := problem.NewTravelMatrices(len(points), cost, fetched.Distances, fetched.Times)
			if err != nil {
				return nil, fmt.Errorf("building crow-flies matrices for profile %q: %w", vp.ID, err)
			}
			out[vp.ID] = m
		default:
			return nil, fmt.Errorf("vehicle profile %q: cost_provider kind %q has no built-in fetch client (spec §1 scopes routing-engine HTTP clients out of this module); supply pre-fetched matrices as a Custom provider instead", vp.ID, vp.Provider.Kind)
		}
	}
	return out, nil
}

func loadMatricesFile(path string) (problem.TravelMatrices, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return problem.TravelMatrices{}, err
	}
	var flat struct {
		N        int       `json:"n"`
		Cost     []float64 `json:"cost"`
		Distance []float64 `json:"distance"`
		Time     []float64 `json:"time"`
	}
	if err := json.Unmarshal(data, &flat); err != nil {
		return problem.TravelMatrices{}, err
	}
	return problem.NewTravelMatrices(flat.N, flat.Cost, flat.Distance, flat.Time)
}
