package solution

import "github.com/hermesrouting/hermes-optimizer/internal/problem"

// PreviewInsertion computes, without mutating anything, the sequence of
// UpdatedActivity records an Insertion would produce if committed: a
// single-position splice for a Service, or the two-position splice for a
// Shipment's pickup and delivery. route may be nil (fresh route for a new
// vehicle), in which case an ephemeral empty route is used for the
// preview. This is the concrete "InsertionContext...lazy iterator over
// updated activity data" from spec §4.2.
func PreviewInsertion(p *problem.Problem, route *Route, ins Insertion) []UpdatedActivity {
	r := route
	if r == nil {
		r = NewRoute(ins.VehicleIdx)
	}

	if !ins.IsShipment {
		id := problem.ActivityID{Kind: problem.ActivityService, JobIdx: ins.JobIdx}
		return routeUpdateIterator(p, r, ins.Position, ins.Position, []problem.ActivityID{id}, true)
	}

	pickup := problem.ActivityID{Kind: problem.ActivityShipmentPickup, JobIdx: ins.JobIdx}
	delivery := problem.ActivityID{Kind: problem.ActivityShipmentDelivery, JobIdx: ins.JobIdx}

	newIDs := make([]problem.ActivityID, 0, len(r.Activities)+2)
	newIDs = append(newIDs, idsOf(r.Activities[:ins.PickupPos])...)
	newIDs = append(newIDs, pickup)
	newIDs = append(newIDs, idsOf(r.Activities[ins.PickupPos:ins.DeliveryPos-1])...)
	newIDs = append(newIDs, delivery)
	newIDs = append(newIDs, idsOf(r.Activities[ins.DeliveryPos-1:])...)

	return PreviewSequence(p, r, newIDs, ins.PickupPos, true)
}

// NewVehicleTimestamps computes the start/end timestamps a route would
// carry after committing updates (the last entries' departure plus any
// return-to-depot leg), the "helper to compute the new vehicle start and
// end timestamps" from spec §4.2's InsertionContext.
func NewVehicleTimestamps(p *problem.Problem, route *Route, ins Insertion, updates []UpdatedActivity) (start, end float64) {
	v := p.Vehicle(ins.VehicleIdx)
	matrices := p.Matrices(ins.VehicleIdx)

	if len(updates) == 0 {
		if route != nil && len(route.Activities) > 0 {
			return route.StartTime, route.EndTime
		}
		return 0, 0
	}

	first := updates[0]
	firstPos := ins.Position
	if ins.IsShipment {
		firstPos = ins.PickupPos
	}
	if route != nil && firstPos > 0 {
		// The route's start is unaffected unless the first activity of
		// the whole route changed.
		start = route.StartTime
	} else {
		firstLoc, _, _ := p.Job(first.ID.JobIdx).LocationFor(first.ID.Kind)
		start = first.Arrival
		if v.HasDepot {
			start -= matrices.TimeBetween(v.DepotLocation, firstLoc) + v.DepotDuration
		}
	}

	last := updates[len(updates)-1]
	end = last.Departure
	if v.HasDepot && v.ShouldReturnToDepot {
		lastLoc, _, _ := p.Job(last.ID.JobIdx).LocationFor(last.ID.Kind)
		end += matrices.TimeBetween(lastLoc, v.DepotLocation) + v.ReturnDepotDuration
	}
	return start, end
}
