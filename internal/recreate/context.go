// Package recreate implements the "recreate" half of ALNS: strategies
// that take a working solution with some jobs ruined out and reinsert
// them, guided by the constraint framework's insertion-delta scoring
// (spec §4.3, grounded on
// original_source/.../solver/recreate/{best_insertion,
// construction_best_insertion,regret_insertion}.rs).
package recreate

import (
	"math"

	"github.com/hermesrouting/hermes-optimizer/internal/constraint"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Context bundles everything a recreate strategy needs to score and
// commit insertions: the constraint framework, the reproducible RNG, and
// the knobs that make construction an exploration tool rather than a
// pure greedy pass (spec §4.3, §4.6).
type Context struct {
	Problem         *problem.Problem
	Framework       constraint.Framework
	RNG             *rng.PartitionedRNG
	Iteration       int
	NoiseAmount     float64
	BlinkRate       float64
	InsertOnFailure bool
	Concurrency     int
}

// noiserFor derives this context's per-(iteration, job) noise source —
// reproducible regardless of which goroutine scores the candidate first
// (spec §9).
func (c *Context) noiserFor(jobIdx int) *rng.Noiser {
	id := c.Problem.Job(jobIdx).ExternalID
	if id == "" {
		id = itoa(jobIdx)
	}
	return rng.NewNoiser(c.RNG.JobNoiser(c.Iteration, id), c.NoiseAmount)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// scoreInsertion computes ins's constraint delta with the early-exit
// threshold bestKnown, or with no threshold when bestKnown is nil (spec
// §4.6). Whenever NoiseAmount > 0 the soft part is perturbed by the job's
// noiser, whether or not bestKnown is nil.
func (c *Context) scoreInsertion(ws *solution.WorkingSolution, ins solution.Insertion, bestKnown *score.Score) score.Score {
	threshold := math.Inf(1)
	if bestKnown != nil {
		threshold = bestKnown.Hard
	}
	ctx := constraint.NewInsertionContext(c.Problem, ws, ins)
	s := c.Framework.ComputeInsertionScore(ctx, threshold)
	if c.NoiseAmount > 0 {
		s.Soft = c.noiserFor(ins.JobIdx).Perturb(s.Soft)
	}
	return s
}

// shouldInsert reports whether a candidate of this score is acceptable to
// commit: insert-on-failure mode accepts anything, otherwise only
// hard-feasible candidates qualify (spec §4.3).
func (c *Context) shouldInsert(s score.Score) bool {
	if c.InsertOnFailure {
		return true
	}
	return !s.IsFailure()
}
