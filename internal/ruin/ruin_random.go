package ruin

import (
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Random removes a uniformly chosen handful of assigned jobs. The
// retrieval pack's original_source/ drops ruin_random.rs as trivial; this
// is built from the same RuinContext/RuinSolution shape the other six
// strategies use, not ported from a source file (spec §4.2).
type Random struct{}

func (Random) Ruin(ctx *Context, ws *solution.WorkingSolution) {
	jobs := assignedJobs(ws)
	r := ctx.RNG.ForSubsystem(rng.SubsystemRuin)
	r.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })

	n := ctx.NumJobsToRemove
	if n > len(jobs) {
		n = len(jobs)
	}
	for _, jobIdx := range jobs[:n] {
		ws.RemoveJob(jobIdx)
	}
}
