package constraint

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// MaxActivities is the Route-level hard constraint bounding the number of
// activities a vehicle may carry; purely cardinality (spec §4.2).
type MaxActivities struct{}

func (MaxActivities) Name() string { return "max_activities" }
func (MaxActivities) Level() Level { return Hard }

func (MaxActivities) ComputeRouteScore(p *problem.Problem, r *solution.Route) score.Score {
	v := p.Vehicle(r.VehicleIdx)
	if !v.HasMaxActivities {
		return score.Zero
	}
	if len(r.Activities) > v.MaxActivities {
		return score.Score{Hard: 1}
	}
	return score.Zero
}

// ComputeInsertionScore is +1 when the insertion pushes the route over the
// limit, 0 otherwise (spec §4.2: "insertion delta is +hard(1) when
// exceeding, 0 otherwise").
func (MaxActivities) ComputeInsertionScore(ctx InsertionContext) score.Score {
	v := ctx.Problem.Vehicle(ctx.Insertion.VehicleIdx)
	if !v.HasMaxActivities {
		return score.Zero
	}
	oldLen := 0
	if ctx.routeWasNonEmpty() {
		oldLen = len(ctx.Route.Activities)
	}
	added := 1
	if ctx.Insertion.IsShipment {
		added = 2
	}
	newLen := oldLen + added

	oldExceeds := oldLen > v.MaxActivities
	newExceeds := newLen > v.MaxActivities
	switch {
	case !oldExceeds && newExceeds:
		return score.Score{Hard: 1}
	case oldExceeds && !newExceeds:
		return score.Score{Hard: -1}
	default:
		return score.Zero
	}
}
