package ruin

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Route removes whole routes at a time, weighted toward routes that
// either are redundant (their load would fit inside another route) or
// are expensive to run (long duration, long waiting), so the recreate
// step gets a genuinely different vehicle assignment to work with (spec
// §4.2, grounded on original_source/.../ruin/ruin_route.rs).
type Route struct{}

func canFitInOtherRoute(p *problem.Problem, r1, r2 *solution.Route) bool {
	if r1 == r2 {
		return false
	}
	spare := p.Vehicle(r2.VehicleIdx).Capacity.Sub(r2.InitialLoad)
	return r1.InitialLoad.LessEqual(spare)
}

func (Route) Ruin(ctx *Context, ws *solution.WorkingSolution) {
	r := ctx.RNG.ForSubsystem(rng.SubsystemRuin)
	remaining := ctx.NumJobsToRemove

	for remaining > 0 {
		routes := ws.NonEmptyRoutes()
		if len(routes) == 0 {
			break
		}

		fits := make([]bool, len(routes))
		anyFits, allFit := false, true
		for i, r1 := range routes {
			for _, r2 := range routes {
				if canFitInOtherRoute(ctx.Problem, r1, r2) {
					fits[i] = true
					break
				}
			}
			if fits[i] {
				anyFits = true
			} else {
				allFit = false
			}
		}
		noFit := !anyFits

		weights := make([]float64, len(routes))
		for i, route := range routes {
			v := ctx.Problem.Vehicle(route.VehicleIdx)
			fullWeight := 1.0
			if v.HasMaxActivities && len(route.Activities) >= v.MaxActivities {
				fullWeight = 2.0
			}

			var w float64
			if noFit || allFit {
				w = (route.EndTime-route.StartTime)*0.7 + route.WaitingDuration*0.3
			} else if fits[i] {
				w = 10.0
			} else {
				w = 1.0
			}
			weights[i] = fullWeight * w
		}

		idx, ok := weightedChoice(r, weights)
		if !ok {
			break
		}
		route := routes[idx]
		jobs := assignedJobsOf(route)
		ws.RemoveRoute(routeIndex(ws, route))
		remaining -= len(jobs)
	}
}

func assignedJobsOf(route *solution.Route) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, a := range route.Activities {
		if _, ok := seen[a.ID.JobIdx]; ok {
			continue
		}
		seen[a.ID.JobIdx] = struct{}{}
		out = append(out, a.ID.JobIdx)
	}
	return out
}

func routeIndex(ws *solution.WorkingSolution, route *solution.Route) int {
	for i, r := range ws.Routes() {
		if r == route {
			return i
		}
	}
	return -1
}

// weightedChoice picks an index with probability proportional to
// weights[i]; returns false if every weight is zero or weights is empty.
func weightedChoice(r interface{ Float64() float64 }, weights []float64) (int, bool) {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0, false
	}
	target := r.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if target < cum {
			return i, true
		}
	}
	return len(weights) - 1, true
}
