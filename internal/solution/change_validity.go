package solution

import "github.com/hermesrouting/hermes-optimizer/internal/problem"

// UpdatedActivity is one record yielded by routeUpdateIterator: the new
// timestamps a prospective activity would carry, plus its previous
// position in the route (-1 for a brand new activity) so constraints can
// compute per-activity deltas without re-deriving "what was here before"
// themselves (spec §9 design note on the prospective-route iterator).
type UpdatedActivity struct {
	ID        problem.ActivityID
	Arrival   float64
	Departure float64
	Waiting   float64
	Load      problem.Capacity // nil when the caller requested the lightweight variant
	PrevPos   int
}

// routeUpdateIterator produces the synthetic sequence prefix([0,start)) +
// replacement + suffix([end,len)) and returns, for every activity from
// start onward, its new propagated timestamps — without mutating r (spec
// §4.1 "is_valid_change", design note on the prospective-route iterator).
// withLoad controls whether cumulative load is also computed (the
// lightweight is_valid_tw_change path skips it).
func routeUpdateIterator(p *problem.Problem, r *Route, start, end int, replacement []problem.ActivityID, withLoad bool) []UpdatedActivity {
	newIDs := make([]problem.ActivityID, 0, len(r.Activities)-(end-start)+len(replacement))
	newIDs = append(newIDs, idsOf(r.Activities[:start])...)
	newIDs = append(newIDs, replacement...)
	newIDs = append(newIDs, idsOf(r.Activities[end:])...)
	return PreviewSequence(p, r, newIDs, start, withLoad)
}

// PreviewSequence propagates timestamps (and, if withLoad, cumulative
// load) for newIDs — the full prospective activity list for the route —
// starting at position computeFrom, without mutating r. Positions before
// computeFrom are assumed unaffected and are read directly from r's
// current cached state. Used directly by non-contiguous changes (a
// shipment's pickup and delivery land at two different positions) where
// the simple "replace one contiguous slice" framing of
// routeUpdateIterator does not apply (spec §9 design note).
func PreviewSequence(p *problem.Problem, r *Route, newIDs []problem.ActivityID, computeFrom int, withLoad bool) []UpdatedActivity {
	v := p.Vehicle(r.VehicleIdx)
	matrices := p.Matrices(r.VehicleIdx)
	start := computeFrom

	prevPos := make(map[problem.ActivityID]int, len(r.posOf))
	for k, pos := range r.posOf {
		prevPos[k] = pos
	}

	out := make([]UpdatedActivity, 0, len(newIDs)-start)

	var prevLoc problem.LocationIndex
	var prevDeparture float64
	hasPrev := false

	if start > 0 {
		prev := r.Activities[start-1]
		job := p.Job(prev.ID.JobIdx)
		prevLoc, _, _ = job.LocationFor(prev.ID.Kind)
		prevDeparture = prev.Departure
		hasPrev = true
	} else if v.HasDepot {
		prevLoc = v.DepotLocation
		hasPrev = true
	}

	var prevLoad problem.Capacity
	if withLoad {
		if start > 0 {
			prevLoad = r.Activities[start-1].Load.Clone()
		} else {
			initialLoad := problem.NewCapacity(p.CapacityDim)
			for _, id := range newIDs {
				job := p.Job(id.JobIdx)
				if id.Kind != problem.ActivityShipmentPickup {
					initialLoad = initialLoad.Add(job.DeliveryDemand())
				}
			}
			prevLoad = initialLoad
		}
	}

	for i := start; i < len(newIDs); i++ {
		id := newIDs[i]
		job := p.Job(id.JobIdx)
		loc, duration, windows := job.LocationFor(id.Kind)

		var travelTime float64
		if hasPrev {
			travelTime = matrices.TimeBetween(prevLoc, loc)
		}

		var arrival float64
		if i == 0 {
			depotDeparture := v.EarliestStart()
			if v.HasDepot {
				depotDeparture += v.DepotDuration
			}
			arrival = depotDeparture + travelTime
		} else {
			arrival = prevDeparture + travelTime
		}

		wait, _ := problem.EarliestAdmissible(windows, arrival)
		// Same first-activity rule as recompute: the route start is pushed
		// back so the first stop is reached at its window open, with no wait.
		if i == 0 {
			arrival += wait
			wait = 0
		}
		departure := arrival + wait + duration

		rec := UpdatedActivity{
			ID: id, Arrival: arrival, Departure: departure, Waiting: wait,
		}
		if pos, ok := prevPos[id]; ok {
			rec.PrevPos = pos
		} else {
			rec.PrevPos = -1
		}

		if withLoad {
			load := prevLoad.Clone()
			switch id.Kind {
			case problem.ActivityShipmentPickup:
				load = load.Add(job.DeliveryDemand())
			case problem.ActivityService, problem.ActivityShipmentDelivery:
				load = load.Sub(job.DeliveryDemand())
			}
			rec.Load = load
			prevLoad = load
		}

		out = append(out, rec)

		prevLoc = loc
		prevDeparture = departure
		hasPrev = true
	}

	return out
}

func idsOf(acts []RouteActivity) []problem.ActivityID {
	out := make([]problem.ActivityID, len(acts))
	for i, a := range acts {
		out[i] = a.ID
	}
	return out
}

// IsValidTWChange checks only time-window admissibility of replacing
// [start,end) with replacement, without materializing load vectors (the
// lightweight variant from spec §4.1).
func IsValidTWChange(p *problem.Problem, r *Route, start, end int, replacement []problem.ActivityID) bool {
	updates := routeUpdateIterator(p, r, start, end, replacement, false)
	for _, u := range updates {
		job := p.Job(u.ID.JobIdx)
		_, _, windows := job.LocationFor(u.ID.Kind)
		if len(windows) == 0 {
			continue
		}
		if _, ok := problem.EarliestAdmissible(windows, u.Arrival); !ok {
			return false
		}
	}
	return true
}

// IsValidChange is the full variant of IsValidTWChange: it also reports
// false when the change would exceed vehicle capacity at any position
// (spec §4.1).
func IsValidChange(p *problem.Problem, r *Route, start, end int, replacement []problem.ActivityID) bool {
	v := p.Vehicle(r.VehicleIdx)
	updates := routeUpdateIterator(p, r, start, end, replacement, true)
	for _, u := range updates {
		job := p.Job(u.ID.JobIdx)
		_, _, windows := job.LocationFor(u.ID.Kind)
		if len(windows) > 0 {
			if _, ok := problem.EarliestAdmissible(windows, u.Arrival); !ok {
				return false
			}
		}
		if len(v.Capacity) > 0 && !u.Load.LessEqual(v.Capacity) {
			return false
		}
	}
	return true
}
