package ruin

import (
	"sort"

	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// TimeRelated picks one random activity and removes the jobs most
// related to it in arrival time and travel distance — jobs clustered
// together in both dimensions are natural candidates to relocate as a
// group (spec §4.2, grounded on
// original_source/.../ruin/ruin_time_related.rs).
type TimeRelated struct{}

type timeRelatedCandidate struct {
	jobIdx   int
	time     float64
	distance float64
}

func (TimeRelated) Ruin(ctx *Context, ws *solution.WorkingSolution) {
	routes := ws.NonEmptyRoutes()
	if len(routes) == 0 {
		return
	}
	r := ctx.RNG.ForSubsystem(rng.SubsystemRuin)

	targetRoute := routes[r.Intn(len(routes))]
	targetIdx := r.Intn(len(targetRoute.Activities))
	target := targetRoute.Activities[targetIdx]
	targetLoc := activityLocation(ctx.Problem, target.ID)
	matrices := defaultMatrices(ctx.Problem)

	var candidates []timeRelatedCandidate
	var maxTime, maxDistance float64
	for _, route := range routes {
		for i, a := range route.Activities {
			if route == targetRoute && i == targetIdx {
				continue
			}
			timeDiff := target.Arrival - a.Arrival
			if timeDiff < 0 {
				timeDiff = -timeDiff
			}
			dist := matrices.DistanceBetween(targetLoc, activityLocation(ctx.Problem, a.ID))
			candidates = append(candidates, timeRelatedCandidate{jobIdx: a.ID.JobIdx, time: timeDiff, distance: dist})
			if timeDiff > maxTime {
				maxTime = timeDiff
			}
			if dist > maxDistance {
				maxDistance = dist
			}
		}
	}

	relatedness := func(c timeRelatedCandidate) float64 {
		var timeRel, distRel float64
		if maxTime > 0 {
			timeRel = c.time / maxTime
		}
		if maxDistance > 0 {
			distRel = c.distance / maxDistance
		}
		return 10.0*timeRel + distRel
	}
	sort.Slice(candidates, func(i, j int) bool { return relatedness(candidates[i]) < relatedness(candidates[j]) })

	removed := make(map[int]struct{})
	remaining := ctx.NumJobsToRemove
	for _, c := range candidates {
		if remaining == 0 {
			break
		}
		if _, ok := removed[c.jobIdx]; ok {
			continue
		}
		if ws.RemoveJob(c.jobIdx) {
			removed[c.jobIdx] = struct{}{}
			remaining--
		}
	}
}
