package constraint

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Capacity is the Route-level hard constraint: cumulative load must never
// exceed the vehicle's capacity vector at any position (spec §4.2).
type Capacity struct{}

func (Capacity) Name() string { return "capacity" }
func (Capacity) Level() Level { return Hard }

// ComputeRouteScore walks cumulative loads, summing the over-capacity
// contribution at every position.
func (Capacity) ComputeRouteScore(p *problem.Problem, r *solution.Route) score.Score {
	v := p.Vehicle(r.VehicleIdx)
	if len(v.Capacity) == 0 {
		return score.Zero
	}
	var hard float64
	for _, a := range r.Activities {
		hard += a.Load.OverCapacity(v.Capacity)
	}
	return score.Score{Hard: hard}
}

// ComputeInsertionScore is the over-capacity contribution the candidate
// insertion would add or remove across the updated suffix (spec §4.2:
// "delta at insertion is the over-capacity contribution of the new
// max_load_until_end at the insertion point", generalized here across the
// whole propagated suffix so it stays exact under §8 property 3).
func (c Capacity) ComputeInsertionScore(ctx InsertionContext) score.Score {
	v := ctx.Problem.Vehicle(ctx.Insertion.VehicleIdx)
	if len(v.Capacity) == 0 {
		return score.Zero
	}
	var delta float64
	for _, u := range ctx.Updates {
		newOver := u.Load.OverCapacity(v.Capacity)
		var oldOver float64
		if old, ok := ctx.oldActivity(u); ok {
			oldOver = old.Load.OverCapacity(v.Capacity)
		}
		delta += newOver - oldOver
	}
	return score.Score{Hard: delta}
}
