// Package acceptor implements the ALNS driver's accept/reject decision and
// its population-selection counterpart (spec §4.3, §4.6, grounded on the
// teacher's sim/policy.NewAdmissionPolicy factory-by-name convention,
// reused here for NewAcceptor/NewSelector).
package acceptor

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hermesrouting/hermes-optimizer/internal/population"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
)

// Context carries everything an Acceptor needs to decide on one candidate
// (spec §4.3).
type Context struct {
	Candidate       score.Score
	Source          score.Score
	Worst           score.Score
	PopulationFull  bool
	Iteration       int
	TotalIterations int
	RNG             *rand.Rand
}

// Acceptor decides whether a newly built solution replaces a population
// member (spec §4.3).
type Acceptor interface {
	Accept(ctx Context) bool
}

// NewAcceptor builds an Acceptor by name. t0/alpha parameterize the
// threshold-decay strategies; ignored by Greedy and Any. Empty string
// defaults to "greedy".
func NewAcceptor(name string, t0, alpha float64) Acceptor {
	switch name {
	case "", "greedy":
		return Greedy{}
	case "schrimpf":
		return Schrimpf{T0: t0, Alpha: alpha}
	case "simulated-annealing":
		return SimulatedAnnealing{T0: t0, Alpha: alpha}
	case "any":
		return Any{}
	default:
		panic(fmt.Sprintf("acceptor: unknown strategy %q", name))
	}
}

// Greedy accepts iff the candidate is strictly better than the current
// population worst, or the population is not yet full (spec §4.3).
type Greedy struct{}

func (Greedy) Accept(ctx Context) bool {
	if !ctx.PopulationFull {
		return true
	}
	return ctx.Candidate.Less(ctx.Worst)
}

// Any always accepts, the no-op acceptor used for pure exploration runs
// (spec §4.3, §6 SolverAcceptorStrategy.Any).
type Any struct{}

func (Any) Accept(Context) bool {
	return true
}

// Schrimpf accepts within an exponentially decaying threshold added to the
// population worst: T(i) = T0 * exp(-ln(2) * (i/total) / alpha) (spec
// §4.3).
type Schrimpf struct {
	T0    float64
	Alpha float64
}

func (s Schrimpf) Accept(ctx Context) bool {
	if !ctx.PopulationFull {
		return true
	}
	return thresholdAccept(ctx.Candidate, ctx.Worst, s.threshold(ctx.Iteration, ctx.TotalIterations))
}

func (s Schrimpf) threshold(iteration, total int) float64 {
	if total <= 0 || s.Alpha <= 0 {
		return 0
	}
	frac := float64(iteration) / float64(total)
	return s.T0 * math.Exp(-math.Ln2*frac/s.Alpha)
}

// SimulatedAnnealing always accepts an improvement over the source
// solution; otherwise accepts with probability exp(-delta/T(i)), where
// T(i) cools exponentially from T0 over the run (spec §4.3).
type SimulatedAnnealing struct {
	T0    float64
	Alpha float64
}

func (s SimulatedAnnealing) Accept(ctx Context) bool {
	if ctx.Candidate.Less(ctx.Source) {
		return true
	}
	t := s.temperature(ctx.Iteration, ctx.TotalIterations)
	if t <= 0 {
		return false
	}
	delta := deltaOf(ctx.Candidate, ctx.Source)
	if math.IsInf(delta, 1) {
		return false
	}
	p := math.Exp(-delta / t)
	return ctx.RNG.Float64() < p
}

func (s SimulatedAnnealing) temperature(iteration, total int) float64 {
	if total <= 0 || s.Alpha <= 0 {
		return s.T0
	}
	frac := float64(iteration) / float64(total)
	return s.T0 * math.Exp(-frac/s.Alpha)
}

// thresholdAccept applies a soft-score threshold only once hard scores tie
// — a candidate with a strictly lower hard score is always preferred
// regardless of threshold, matching the score's lexicographic ordering
// (spec §3 Score).
func thresholdAccept(candidate, worst score.Score, threshold float64) bool {
	if candidate.Hard != worst.Hard {
		return candidate.Hard < worst.Hard
	}
	return candidate.Soft < worst.Soft+threshold
}

// deltaOf returns the scalar worsening of candidate relative to source: an
// infinite penalty if candidate carries more hard violations, otherwise
// the soft-score difference (spec §4.3's "Δ" in exp(-Δ/T(i))).
func deltaOf(candidate, source score.Score) float64 {
	if candidate.Hard > source.Hard {
		return math.Inf(1)
	}
	return candidate.Soft - source.Soft
}

// Selector picks a source AcceptedSolution from the population for the
// next ALNS iteration to ruin-and-recreate (spec §4.3 step 1).
type Selector interface {
	Select(pop *population.Population, rng *rand.Rand) *population.AcceptedSolution
}

// NewSelector builds a Selector by name. Empty string defaults to
// "select-best".
func NewSelector(name string) Selector {
	switch name {
	case "", "select-best":
		return SelectBest{}
	case "select-random":
		return SelectRandom{}
	case "select-weighted":
		return SelectWeighted{}
	default:
		panic(fmt.Sprintf("acceptor: unknown selector %q", name))
	}
}

// SelectBest always picks the current population best.
type SelectBest struct{}

func (SelectBest) Select(pop *population.Population, _ *rand.Rand) *population.AcceptedSolution {
	return pop.Best()
}

// SelectRandom picks uniformly among all population members.
type SelectRandom struct{}

func (SelectRandom) Select(pop *population.Population, rng *rand.Rand) *population.AcceptedSolution {
	members := pop.Members()
	if len(members) == 0 {
		return nil
	}
	return members[rng.Intn(len(members))]
}

// SelectWeighted biases the pick toward population members ranked better
// by (|unassigned|, score) — members are already kept in that order, so
// the member at rank i gets weight 1/(i+2): the current best gets 1/2,
// each later member a smaller share, and no member's weight is ever zero.
type SelectWeighted struct{}

func (SelectWeighted) Select(pop *population.Population, rng *rand.Rand) *population.AcceptedSolution {
	members := pop.Members()
	n := len(members)
	if n == 0 {
		return nil
	}
	weights := make([]float64, n)
	total := 0.0
	for i := range members {
		weights[i] = 1.0 / float64(i+2)
		total += weights[i]
	}
	r := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r <= cum {
			return members[i]
		}
	}
	return members[n-1]
}
