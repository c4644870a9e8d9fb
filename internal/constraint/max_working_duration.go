package constraint

import (
	"math"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// MaxWorkingDuration is the Route-level hard constraint bounding
// route.End - route.Start against the vehicle's configured maximum
// working duration (spec §4.2, identical pattern to Shift).
type MaxWorkingDuration struct{}

func (MaxWorkingDuration) Name() string { return "max_working_duration" }
func (MaxWorkingDuration) Level() Level { return Hard }

func (MaxWorkingDuration) ComputeRouteScore(p *problem.Problem, r *solution.Route) score.Score {
	v := p.Vehicle(r.VehicleIdx)
	if !v.HasShift || !v.Shift.HasMaxWorkingDur || len(r.Activities) == 0 {
		return score.Zero
	}
	return score.Score{Hard: math.Max(0, (r.EndTime-r.StartTime)-v.Shift.MaxWorkingDuration)}
}

func (MaxWorkingDuration) ComputeInsertionScore(ctx InsertionContext) score.Score {
	v := ctx.Problem.Vehicle(ctx.Insertion.VehicleIdx)
	if !v.HasShift || !v.Shift.HasMaxWorkingDur {
		return score.Zero
	}

	oldStart, oldEnd := 0.0, 0.0
	if ctx.routeWasNonEmpty() {
		oldStart, oldEnd = ctx.Route.StartTime, ctx.Route.EndTime
	}
	newStart, newEnd := ctx.NewStart, ctx.NewEnd

	oldViolation := math.Max(0, (oldEnd-oldStart)-v.Shift.MaxWorkingDuration)
	newViolation := math.Max(0, (newEnd-newStart)-v.Shift.MaxWorkingDuration)

	return score.Score{Hard: newViolation - oldViolation}
}
