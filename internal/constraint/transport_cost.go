package constraint

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// TransportCost is the Global soft constraint: the sum of every route's
// travel cost (spec §4.2). Unlike Route/Activity constraints it scores
// the whole solution at once rather than one route at a time.
type TransportCost struct{}

func (TransportCost) Name() string { return "transport_cost" }
func (TransportCost) Level() Level { return Soft }

// ComputeScore sums TransportCost across every non-empty route.
func (TransportCost) ComputeScore(_ *problem.Problem, ws *solution.WorkingSolution) score.Score {
	var total float64
	for _, r := range ws.NonEmptyRoutes() {
		total += r.TransportCost
	}
	return score.Score{Soft: total}
}

// ComputeInsertionScore uses the O(1) edge-difference shortcut for a
// Service insertion, and an exact full recompute for a Shipment
// insertion since its two-point splice has no simple boundary-edge
// formula (spec §4.1, §4.2).
func (TransportCost) ComputeInsertionScore(ctx InsertionContext) score.Score {
	if !ctx.Insertion.IsShipment && ctx.routeWasNonEmpty() {
		id := problem.ActivityID{Kind: problem.ActivityService, JobIdx: ctx.Insertion.JobIdx}
		delta := solution.TransportCostDeltaUpdate(ctx.Problem, ctx.Route, ctx.Insertion.Position, ctx.Insertion.Position, []problem.ActivityID{id})
		return score.Score{Soft: delta}
	}

	// Shipments (two-point splice) and insertions opening a fresh route
	// fall back to an exact recompute.
	oldCost := 0.0
	if ctx.routeWasNonEmpty() {
		oldCost = ctx.Route.TransportCost
	}
	newIDs := solution.FullSequenceAfterInsertion(ctx.Route, ctx.Insertion)
	newCost := solution.TransportCostForSequence(ctx.Problem, ctx.Insertion.VehicleIdx, newIDs)
	return score.Score{Soft: newCost - oldCost}
}
