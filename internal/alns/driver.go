package alns

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hermesrouting/hermes-optimizer/internal/acceptor"
	"github.com/hermesrouting/hermes-optimizer/internal/config"
	"github.com/hermesrouting/hermes-optimizer/internal/constraint"
	"github.com/hermesrouting/hermes-optimizer/internal/localsearch"
	"github.com/hermesrouting/hermes-optimizer/internal/population"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/recreate"
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/ruin"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// ruinStrategyNames and recreateStrategyNames are the fixed rosters every
// Driver's adaptive weights choose among (spec §4.2, §4.3).
var (
	ruinStrategyNames     = []string{"random", "radial", "worst", "string", "time-related", "cluster", "route"}
	recreateStrategyNames = []string{"best-insertion", "construction-best-insertion", "regret-insertion"}
)

// Driver owns one search thread's full state: its own working solution
// lineage, population, adaptive weights, and tabu ring (spec §4.3, §5:
// "each search thread owns a WorkingSolution, a local population, and
// local adaptive-weight state; there is no data race on the per-thread
// state").
type Driver struct {
	Problem   *problem.Problem
	Framework constraint.Framework
	Params    config.SolverParams

	RNG        *rng.PartitionedRNG
	Population *population.Population

	RuinWeights     *AdaptiveWeights
	RecreateWeights *AdaptiveWeights
	Tabu            *rng.TabuRing

	Acceptor acceptor.Acceptor
	Selector acceptor.Selector
	Search   localsearch.Search
	Stats    *Statistics

	ruinStrategies     map[string]ruin.Strategy
	recreateStrategies map[string]recreate.Strategy

	// OnBestSolution fires on every strict global-best improvement (spec
	// §6 "a user callback fires on strict improvement").
	OnBestSolution func(*population.AcceptedSolution)

	iteration int
	best      *population.AcceptedSolution
	stop      bool
}

// NewDriver builds a Driver over p with its own partitioned RNG rooted at
// seed, seeding the population from an empty solution built by
// construction-best-insertion (spec §4.3).
func NewDriver(p *problem.Problem, params config.SolverParams, seed int64) *Driver {
	d := &Driver{
		Problem:         p,
		Framework:       constraint.NewFramework(params.WaitingThreshold),
		Params:          params,
		RNG:             rng.NewPartitionedRNG(seed),
		Population:      population.New(params.PopulationSize, params.EliteSize, params.PopulationNClosest),
		RuinWeights:     NewAdaptiveWeights(ruinStrategyNames),
		RecreateWeights: NewAdaptiveWeights(recreateStrategyNames),
		Tabu:            rng.NewTabuRing(params.TabuSize, params.TabuIterations),
		Acceptor:        acceptor.NewAcceptor(params.AcceptorStrategy, params.AcceptorT0, params.AcceptorAlpha),
		Selector:        acceptor.NewSelector(params.SelectorStrategy),
		Search:          localsearch.NewSearch(params.IntensifyMaxIterations),
		Stats:           NewStatistics(),
	}
	d.ruinStrategies = make(map[string]ruin.Strategy, len(ruinStrategyNames))
	for _, n := range ruinStrategyNames {
		d.ruinStrategies[n] = ruin.NewStrategy(n)
	}
	d.recreateStrategies = make(map[string]recreate.Strategy, len(recreateStrategyNames))
	for _, n := range recreateStrategyNames {
		sortMethod := recreate.SortRandom
		if n == "best-insertion" {
			sortMethod = sortMethodFromName(params.RecreateSortMethod)
		}
		d.recreateStrategies[n] = recreate.NewStrategy(n, sortMethod, params.BlinkProbability, params.RegretK)
	}

	d.seedPopulation()
	return d
}

func sortMethodFromName(name string) recreate.SortMethod {
	switch name {
	case "demand":
		return recreate.SortDemand
	case "far":
		return recreate.SortFar
	case "close":
		return recreate.SortClose
	case "time-window":
		return recreate.SortTimeWindow
	default:
		return recreate.SortRandom
	}
}

func (d *Driver) seedPopulation() {
	ws := solution.NewWorkingSolution(d.Problem)
	ctx := &recreate.Context{
		Problem:         d.Problem,
		Framework:       d.Framework,
		RNG:             d.RNG,
		InsertOnFailure: true,
		Concurrency:     d.concurrency(),
	}
	recreate.ConstructionBestInsertion{}.Recreate(ctx, ws)
	s, breakdown := d.Framework.ComputeScore(d.Problem, ws)
	candidate := population.NewAcceptedSolution(ws, s, breakdown)
	d.Population.Add(candidate)
	d.best = candidate
}

func (d *Driver) concurrency() int {
	if d.Params.InsertionConcurrency > 0 {
		return d.Params.InsertionConcurrency
	}
	return 1
}

// Stop flips the cooperative stop flag; idempotent, checked between
// iterations (spec §5 "Cancellation").
func (d *Driver) Stop() {
	d.stop = true
}

// Run executes iterations until term fires or Stop is called, returning
// the best AcceptedSolution found.
func (d *Driver) Run(term config.Termination) *population.AcceptedSolution {
	start := time.Now()
	for {
		if d.stop {
			logrus.Info("alns: driver stopped by request")
			break
		}
		if term.Met(time.Since(start), d.iteration, d.Stats.IterationsSinceImprovement(), d.best.Solution.NumRoutes(), d.best.Score) {
			break
		}
		d.runIteration()

		if d.Params.ALNSSegmentIterations > 0 && d.iteration%d.Params.ALNSSegmentIterations == 0 {
			d.RuinWeights.UpdateSegment(d.Params.ALNSReactionFactor, d.Params.ALNSSegmentIterations)
			d.RecreateWeights.UpdateSegment(d.Params.ALNSReactionFactor, d.Params.ALNSSegmentIterations)
		}
		if d.Params.ALNSIterationsWithoutImprovementReset > 0 &&
			d.Stats.IterationsSinceImprovement() > 0 &&
			d.Stats.IterationsSinceImprovement()%d.Params.ALNSIterationsWithoutImprovementReset == 0 {
			logrus.Debug("alns: resetting adaptive weights and tabu after a stagnant stretch")
			d.RuinWeights.Reset()
			d.RecreateWeights.Reset()
			d.Tabu.Clear()
		}
	}
	return d.best
}

// runIteration performs one full select/ruin/recreate/intensify/accept
// cycle (spec §4.3 "Single iteration").
func (d *Driver) runIteration() {
	d.iteration++

	selectorRNG := d.RNG.ForSubsystem(rng.SubsystemSelector)
	source := d.Selector.Select(d.Population, selectorRNG)
	if source == nil {
		source = d.best
	}

	ruinRNG := d.RNG.ForSubsystem(rng.SubsystemRuin)
	ruinName, recreateName := d.pickStrategyPair(ruinRNG)

	ws := source.Solution.Clone()
	numToRemove := d.numJobsToRemove(ruinRNG)

	d.ruinStrategies[ruinName].Ruin(&ruin.Context{
		Problem:         d.Problem,
		RNG:             d.RNG,
		NumJobsToRemove: numToRemove,
		Determinism:     d.Params.RuinDeterminism,
	}, ws)

	noiseAmount := 0.0
	if d.RNG.ForSubsystem(rng.SubsystemRecreate).Float64() < d.Params.NoiseProbability {
		noiseAmount = d.Params.NoiseLevel
	}
	d.recreateStrategies[recreateName].Recreate(&recreate.Context{
		Problem:     d.Problem,
		Framework:   d.Framework,
		RNG:         d.RNG,
		Iteration:   d.iteration,
		NoiseAmount: noiseAmount,
		BlinkRate:   d.Params.BlinkProbability,
		Concurrency: d.concurrency(),
	}, ws)

	if d.RNG.ForSubsystem(rng.SubsystemRecreate).Float64() < d.Params.IntensifyProbability {
		d.Search.Run(d.Problem, ws)
	}
	ws.PruneEmptyRoutes()

	candidateScore, breakdown := d.Framework.ComputeScore(d.Problem, ws)

	acceptorRNG := d.RNG.ForSubsystem(rng.SubsystemAcceptor)
	accepted := d.Acceptor.Accept(acceptor.Context{
		Candidate:       candidateScore,
		Source:          source.Score,
		Worst:           d.worstScore(),
		PopulationFull:  d.Population.Full(),
		Iteration:       d.iteration,
		TotalIterations: d.Params.Termination.Iterations,
		RNG:             acceptorRNG,
	})

	newBest := false
	if accepted {
		candidate := population.NewAcceptedSolution(ws, candidateScore, breakdown)
		d.Population.Add(candidate)
		if candidateScore.Less(d.best.Score) {
			d.best = candidate
			newBest = true
			logrus.WithField("score", candidateScore.String()).Info("alns: new global best")
			if d.OnBestSolution != nil {
				d.OnBestSolution(candidate)
			}
		}
	}

	d.recordStrategyOutcome(ruinName, recreateName, candidateScore, source.Score, newBest, accepted)
	d.Tabu.Push(rng.StrategyPair{Ruin: ruinName, Recreate: recreateName}, d.iteration)
	d.Stats.RecordIteration(accepted, newBest, d.best.Score)
}

func (d *Driver) pickStrategyPair(rngSrc *rand.Rand) (ruinName, recreateName string) {
	excludeRuin := func(string) bool { return false }
	ruinName = d.RuinWeights.Pick(rngSrc, excludeRuin)
	excludeRecreate := func(name string) bool {
		return d.Tabu.IsTabu(rng.StrategyPair{Ruin: ruinName, Recreate: name}, d.iteration)
	}
	recreateName = d.RecreateWeights.Pick(rngSrc, excludeRecreate)
	return ruinName, recreateName
}

func (d *Driver) numJobsToRemove(rngSrc *rand.Rand) int {
	total := d.Problem.NumJobs()
	if total == 0 {
		return 0
	}
	lo := d.Params.MinJobsToRemoveFraction
	hi := d.Params.MaxJobsToRemoveFraction
	if hi < lo {
		hi = lo
	}
	frac := lo + rngSrc.Float64()*(hi-lo)
	n := int(frac * float64(total))
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	return n
}

func (d *Driver) worstScore() score.Score {
	if w := d.Population.Worst(); w != nil {
		return w.Score
	}
	return score.Score{}
}

// recordStrategyOutcome assigns this iteration's score to the (ruin,
// recreate) pair used: best_factor on a new global best, else
// improvement_factor if strictly better than the source, else
// accepted_worst_factor if merely accepted, else 0 (spec §4.3 step 10).
func (d *Driver) recordStrategyOutcome(ruinName, recreateName string, candidate, source score.Score, newBest, accepted bool) {
	var outcome float64
	switch {
	case newBest:
		outcome = d.Params.ALNSBestFactor
	case candidate.Less(source):
		outcome = d.Params.ALNSImprovementFactor
	case accepted:
		outcome = d.Params.ALNSAcceptedWorstFactor
	default:
		outcome = 0
	}
	d.RuinWeights.RecordUsage(ruinName, outcome)
	d.RecreateWeights.RecordUsage(recreateName, outcome)
}

// Best returns the best AcceptedSolution found so far.
func (d *Driver) Best() *population.AcceptedSolution {
	return d.best
}
