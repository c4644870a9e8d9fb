package ruin

import (
	"math"
	"sort"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Worst repeatedly removes the job whose presence costs the route the
// most — the travel cost "saved" by excising it — biased by
// Context.Determinism toward always picking the single worst candidate
// rather than a uniform random one among all removable jobs (spec §4.2,
// grounded on original_source/.../ruin/ruin_worst.rs).
type Worst struct{}

type worstCandidate struct {
	jobIdx  int
	savings float64
}

// computeSavings is the travel-cost delta of excising the activity at
// index within route: the cost of its incoming and outgoing legs, minus
// the cost of the new direct leg that replaces them. A missing incoming
// or outgoing leg (route start with no depot, route end with no
// depot-return) simply drops from the sum.
func computeSavings(p *problem.Problem, route *solution.Route, index int) float64 {
	v := p.Vehicle(route.VehicleIdx)
	matrices := p.Matrices(route.VehicleIdx)
	cur := activityLocation(p, route.Activities[index].ID)

	hasPrev, prevLoc := false, problem.LocationIndex(0)
	if index > 0 {
		hasPrev, prevLoc = true, activityLocation(p, route.Activities[index-1].ID)
	} else if v.HasDepot {
		hasPrev, prevLoc = true, v.DepotLocation
	}

	hasNext, nextLoc := false, problem.LocationIndex(0)
	if index < len(route.Activities)-1 {
		hasNext, nextLoc = true, activityLocation(p, route.Activities[index+1].ID)
	} else if v.ShouldReturnToDepot && v.HasDepot {
		hasNext, nextLoc = true, v.DepotLocation
	}

	var oldCost, newCost float64
	if hasPrev {
		oldCost += matrices.CostBetween(prevLoc, cur)
	}
	if hasNext {
		oldCost += matrices.CostBetween(cur, nextLoc)
	}
	if hasPrev && hasNext {
		newCost = matrices.CostBetween(prevLoc, nextLoc)
	}
	return oldCost - newCost
}

func activityLocation(p *problem.Problem, id problem.ActivityID) problem.LocationIndex {
	job := p.Job(id.JobIdx)
	loc, _, _ := job.LocationFor(id.Kind)
	return loc
}

func (Worst) Ruin(ctx *Context, ws *solution.WorkingSolution) {
	r := ctx.RNG.ForSubsystem(rng.SubsystemRuin)
	p := ctx.Determinism

	for remaining := ctx.NumJobsToRemove; remaining > 0; remaining-- {
		var candidates []worstCandidate
		for _, route := range ws.NonEmptyRoutes() {
			for i, a := range route.Activities {
				candidates = append(candidates, worstCandidate{jobIdx: a.ID.JobIdx, savings: computeSavings(ctx.Problem, route, i)})
			}
		}
		if len(candidates) == 0 {
			break
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].savings > candidates[j].savings })

		y := r.Float64()
		idx := int(math.Floor(math.Pow(y, p) * float64(len(candidates))))
		if idx >= len(candidates) {
			idx = len(candidates) - 1
		}
		ws.RemoveJob(candidates[idx].jobIdx)
	}
}
