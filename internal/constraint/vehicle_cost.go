package constraint

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// VehicleCost is the Route-level soft constraint contributing a per-route
// fixed invocation cost once the route is non-empty (spec §4.2).
type VehicleCost struct{}

func (VehicleCost) Name() string { return "vehicle_cost" }
func (VehicleCost) Level() Level { return Soft }

func (VehicleCost) ComputeRouteScore(p *problem.Problem, r *solution.Route) score.Score {
	v := p.Vehicle(r.VehicleIdx)
	if !v.HasFixedCost || len(r.Activities) == 0 {
		return score.Zero
	}
	return score.Score{Soft: v.FixedCost}
}

// ComputeInsertionScore adds the fixed cost iff the target route
// transitions from empty to non-empty (spec §4.2).
func (VehicleCost) ComputeInsertionScore(ctx InsertionContext) score.Score {
	v := ctx.Problem.Vehicle(ctx.Insertion.VehicleIdx)
	if !v.HasFixedCost || ctx.routeWasNonEmpty() {
		return score.Zero
	}
	return score.Score{Soft: v.FixedCost}
}
