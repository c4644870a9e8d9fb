package solution

import "github.com/hermesrouting/hermes-optimizer/internal/problem"

// FullSequenceAfterInsertion returns the activity-id sequence route r (nil
// for a fresh route) would carry after committing ins, without mutating
// anything. Used by constraints that need an exact recompute rather than
// an edge-difference shortcut (e.g. transport cost for a two-position
// shipment insertion, spec §4.2).
func FullSequenceAfterInsertion(r *Route, ins Insertion) []problem.ActivityID {
	var existing []RouteActivity
	if r != nil {
		existing = r.Activities
	}

	if !ins.IsShipment {
		id := problem.ActivityID{Kind: problem.ActivityService, JobIdx: ins.JobIdx}
		out := make([]problem.ActivityID, 0, len(existing)+1)
		out = append(out, idsOf(existing[:ins.Position])...)
		out = append(out, id)
		out = append(out, idsOf(existing[ins.Position:])...)
		return out
	}

	pickup := problem.ActivityID{Kind: problem.ActivityShipmentPickup, JobIdx: ins.JobIdx}
	delivery := problem.ActivityID{Kind: problem.ActivityShipmentDelivery, JobIdx: ins.JobIdx}
	out := make([]problem.ActivityID, 0, len(existing)+2)
	out = append(out, idsOf(existing[:ins.PickupPos])...)
	out = append(out, pickup)
	out = append(out, idsOf(existing[ins.PickupPos:ins.DeliveryPos-1])...)
	out = append(out, delivery)
	out = append(out, idsOf(existing[ins.DeliveryPos-1:])...)
	return out
}

// TransportCostForSequence sums the travel cost of visiting ids in order
// with vehicleIdx's matrices, including depot legs at both ends when the
// vehicle has a depot (and a return leg when it returns to it).
func TransportCostForSequence(p *problem.Problem, vehicleIdx int, ids []problem.ActivityID) float64 {
	if len(ids) == 0 {
		return 0
	}
	v := p.Vehicle(vehicleIdx)
	matrices := p.Matrices(vehicleIdx)

	var total float64
	prevLoc, hasPrev := func() (problem.LocationIndex, bool) {
		if v.HasDepot {
			return v.DepotLocation, true
		}
		return 0, false
	}()

	for _, id := range ids {
		loc, _, _ := p.Job(id.JobIdx).LocationFor(id.Kind)
		if hasPrev {
			total += matrices.CostBetween(prevLoc, loc)
		}
		prevLoc, hasPrev = loc, true
	}
	if v.HasDepot && v.ShouldReturnToDepot {
		total += matrices.CostBetween(prevLoc, v.DepotLocation)
	}
	return total
}
