package constraint

import (
	"math"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Shift is the Route-level hard constraint bounding a vehicle's route end
// against its shift's latest-end (spec §4.2).
type Shift struct{}

func (Shift) Name() string { return "shift" }
func (Shift) Level() Level { return Hard }

func (Shift) ComputeRouteScore(p *problem.Problem, r *solution.Route) score.Score {
	v := p.Vehicle(r.VehicleIdx)
	if !v.HasShift || !v.Shift.HasLatestEnd || len(r.Activities) == 0 {
		return score.Zero
	}
	return score.Score{Hard: math.Max(0, r.EndTime-v.Shift.LatestEnd)}
}

// ComputeInsertionScore compares the four (old OK, new OK) x (old
// violating, new violating) cases (spec §4.2): the delta is simply
// newViolation - oldViolation, which is exactly
// ComputeRouteScore(after).Hard - ComputeRouteScore(before).Hard since both
// reduce to the same max(0, end-latest_end) expression. When a reordering
// shrinks a standing violation without clearing it, this delta is negative
// by construction, matching the full recompute (spec §8 property 3); it
// must not be clamped to non-negative, since a route can legitimately
// improve its hard score while remaining in violation.
func (Shift) ComputeInsertionScore(ctx InsertionContext) score.Score {
	v := ctx.Problem.Vehicle(ctx.Insertion.VehicleIdx)
	if !v.HasShift || !v.Shift.HasLatestEnd {
		return score.Zero
	}

	oldEnd := 0.0
	if ctx.routeWasNonEmpty() {
		oldEnd = ctx.Route.EndTime
	}
	newEnd := ctx.NewEnd

	oldViolation := math.Max(0, oldEnd-v.Shift.LatestEnd)
	newViolation := math.Max(0, newEnd-v.Shift.LatestEnd)

	return score.Score{Hard: newViolation - oldViolation}
}
