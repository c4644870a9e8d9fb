package solution

import "github.com/hermesrouting/hermes-optimizer/internal/problem"

// TransportCostDeltaUpdate computes the change in transport cost implied
// by substituting route r's [start,end) slice with replacement, without
// mutating r. Local-search operators use this to decide acceptance before
// committing (spec §4.1).
func TransportCostDeltaUpdate(p *problem.Problem, r *Route, start, end int, replacement []problem.ActivityID) float64 {
	oldCost := segmentCost(p, r, start, end)
	newCost := replacementCost(p, r, start, end, replacement)
	return newCost - oldCost
}

// segmentCost sums the travel cost of edges touching [start,end): the
// edge into start (from start-1, or depot) through the edge leaving the
// last activity before end (to the activity at end, or depot on return).
func segmentCost(p *problem.Problem, r *Route, start, end int) float64 {
	v := p.Vehicle(r.VehicleIdx)
	matrices := p.Matrices(r.VehicleIdx)

	var total float64
	prevLoc, hasPrev := boundaryLocation(p, r, start-1, v)
	for i := start; i < end; i++ {
		loc, _, _ := p.Job(r.Activities[i].ID.JobIdx).LocationFor(r.Activities[i].ID.Kind)
		if hasPrev {
			total += matrices.CostBetween(prevLoc, loc)
		}
		prevLoc, hasPrev = loc, true
	}
	if nextLoc, ok := boundaryLocation(p, r, end, v); ok && hasPrev {
		total += matrices.CostBetween(prevLoc, nextLoc)
	}
	return total
}

// replacementCost sums the travel cost of edges from the activity before
// start, through replacement, to the activity at end.
func replacementCost(p *problem.Problem, r *Route, start, end int, replacement []problem.ActivityID) float64 {
	v := p.Vehicle(r.VehicleIdx)
	matrices := p.Matrices(r.VehicleIdx)

	var total float64
	prevLoc, hasPrev := boundaryLocation(p, r, start-1, v)
	for _, id := range replacement {
		loc, _, _ := p.Job(id.JobIdx).LocationFor(id.Kind)
		if hasPrev {
			total += matrices.CostBetween(prevLoc, loc)
		}
		prevLoc, hasPrev = loc, true
	}
	if nextLoc, ok := boundaryLocation(p, r, end, v); ok && hasPrev {
		total += matrices.CostBetween(prevLoc, nextLoc)
	}
	return total
}

// boundaryLocation resolves the location at route position idx, treating
// idx==-1 as the depot (if any) and idx>=len(Activities) as the depot
// (return leg) if the vehicle returns there. ok is false when there is no
// boundary (e.g. no depot at an open route's start/end).
func boundaryLocation(p *problem.Problem, r *Route, idx int, v *problem.Vehicle) (problem.LocationIndex, bool) {
	if idx >= 0 && idx < len(r.Activities) {
		loc, _, _ := p.Job(r.Activities[idx].ID.JobIdx).LocationFor(r.Activities[idx].ID.Kind)
		return loc, true
	}
	if idx < 0 {
		if v.HasDepot {
			return v.DepotLocation, true
		}
		return 0, false
	}
	// idx >= len(Activities): the return leg.
	if v.HasDepot && v.ShouldReturnToDepot {
		return v.DepotLocation, true
	}
	return 0, false
}

// WaitingDurationChangeDelta computes the change in total waiting penalty
// implied by substituting route r's [start,end) slice with replacement,
// without mutating r (spec §4.1).
func WaitingDurationChangeDelta(p *problem.Problem, r *Route, start, end int, replacement []problem.ActivityID) float64 {
	var oldWaiting float64
	for i := start; i < end; i++ {
		oldWaiting += r.Activities[i].Waiting
	}
	// The suffix after `end` may also shift if timing changes; a
	// conservative but correct accounting recomputes the waiting of every
	// activity from `start` to the end of the route, old vs new.
	for i := end; i < len(r.Activities); i++ {
		oldWaiting += r.Activities[i].Waiting
	}

	var newWaiting float64
	for _, u := range routeUpdateIterator(p, r, start, end, replacement, false) {
		newWaiting += u.Waiting
	}

	return newWaiting - oldWaiting
}
