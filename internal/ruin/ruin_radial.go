package ruin

import (
	"sort"

	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Radial picks one random location, then removes the jobs whose own
// location is nearest to it, closest first — a cheap proxy for Shaw
// removal's "related by geography" criterion (spec §4.2, grounded on
// original_source/.../ruin/ruin_radial.rs).
type Radial struct{}

func (Radial) Ruin(ctx *Context, ws *solution.WorkingSolution) {
	jobs := assignedJobs(ws)
	if len(jobs) == 0 {
		return
	}
	r := ctx.RNG.ForSubsystem(rng.SubsystemRuin)
	target := jobLocation(ctx.Problem, jobs[r.Intn(len(jobs))])

	matrices := defaultMatrices(ctx.Problem)
	sort.Slice(jobs, func(i, j int) bool {
		di := matrices.DistanceBetween(target, jobLocation(ctx.Problem, jobs[i]))
		dj := matrices.DistanceBetween(target, jobLocation(ctx.Problem, jobs[j]))
		return di < dj
	})

	remaining := ctx.NumJobsToRemove
	for _, jobIdx := range jobs {
		if remaining == 0 {
			break
		}
		if ws.RemoveJob(jobIdx) {
			remaining--
		}
	}
}
