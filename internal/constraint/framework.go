package constraint

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Framework is the fixed, compile-time-known set of constraints the
// solver scores every solution and candidate insertion against. Named
// fields dispatch directly rather than through a slice of an interface,
// keeping the Global/Route/Activity kinds a closed set (spec §9).
type Framework struct {
	Capacity           Capacity
	Shift              Shift
	MaxWorkingDuration MaxWorkingDuration
	Waiting            Waiting
	VehicleCost        VehicleCost
	MaxActivities      MaxActivities
	TimeWindow         TimeWindow
	TransportCost      TransportCost
}

// NewFramework builds the default framework: a hard time-window
// constraint and the given waiting-duration threshold (spec §4.2).
func NewFramework(waitingThreshold float64) Framework {
	return Framework{
		Waiting:    Waiting{AcceptableThreshold: waitingThreshold},
		TimeWindow: TimeWindow{Lvl: Hard},
	}
}

// ComputeScore fully re-evaluates ws: Route constraints iterate every
// non-empty route, the Activity constraint iterates every activity in
// every route, and the Global constraint scores the whole solution at
// once (spec §4.2).
func (f Framework) ComputeScore(p *problem.Problem, ws *solution.WorkingSolution) (score.Score, score.Breakdown) {
	breakdown := score.Breakdown{}
	for _, r := range ws.NonEmptyRoutes() {
		breakdown[f.Capacity.Name()] = breakdown[f.Capacity.Name()].Add(f.Capacity.ComputeRouteScore(p, r))
		breakdown[f.Shift.Name()] = breakdown[f.Shift.Name()].Add(f.Shift.ComputeRouteScore(p, r))
		breakdown[f.MaxWorkingDuration.Name()] = breakdown[f.MaxWorkingDuration.Name()].Add(f.MaxWorkingDuration.ComputeRouteScore(p, r))
		breakdown[f.Waiting.Name()] = breakdown[f.Waiting.Name()].Add(f.Waiting.ComputeRouteScore(p, r))
		breakdown[f.VehicleCost.Name()] = breakdown[f.VehicleCost.Name()].Add(f.VehicleCost.ComputeRouteScore(p, r))
		breakdown[f.MaxActivities.Name()] = breakdown[f.MaxActivities.Name()].Add(f.MaxActivities.ComputeRouteScore(p, r))
		breakdown[f.TimeWindow.Name()] = breakdown[f.TimeWindow.Name()].Add(f.TimeWindow.ComputeRouteScore(p, r))
	}
	breakdown[f.TransportCost.Name()] = f.TransportCost.ComputeScore(p, ws)

	return breakdown.Total(), breakdown
}

// ComputeInsertionScore sums every constraint's delta for ctx, stopping
// early once the accumulated hard score exceeds bestKnownHard — there is
// no need to keep scoring a candidate that is already worse than the
// best one found so far (spec §4.6).
func (f Framework) ComputeInsertionScore(ctx InsertionContext, bestKnownHard float64) score.Score {
	total := score.Zero

	add := func(s score.Score) bool {
		total = total.Add(s)
		return total.Hard > bestKnownHard
	}

	if add(f.Capacity.ComputeInsertionScore(ctx)) {
		return total
	}
	if add(f.Shift.ComputeInsertionScore(ctx)) {
		return total
	}
	if add(f.MaxWorkingDuration.ComputeInsertionScore(ctx)) {
		return total
	}
	if add(f.MaxActivities.ComputeInsertionScore(ctx)) {
		return total
	}
	if add(f.TimeWindow.ComputeInsertionScore(ctx)) {
		return total
	}
	add(f.Waiting.ComputeInsertionScore(ctx))
	add(f.VehicleCost.ComputeInsertionScore(ctx))
	add(f.TransportCost.ComputeInsertionScore(ctx))
	return total
}
