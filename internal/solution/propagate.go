package solution

import "github.com/hermesrouting/hermes-optimizer/internal/problem"

// recompute walks the whole route from scratch, recomputing arrival,
// departure, waiting, cumulative load, max-load-to-end, cached aggregates,
// and bounding box (spec §3 invariants 3-5, §4.1 resync). Local search and
// insertion call narrower incremental recompute helpers below, but every
// path ultimately agrees with this one (spec §8 property 2).
func recompute(p *problem.Problem, r *Route) {
	v := p.Vehicle(r.VehicleIdx)
	matrices := p.Matrices(r.VehicleIdx)

	if len(r.Activities) == 0 {
		r.TransportCost = 0
		r.WaitingDuration = 0
		r.InitialLoad = problem.NewCapacity(p.CapacityDim)
		r.StartTime = 0
		r.EndTime = 0
		r.BBox = problem.EmptyBoundingBox()
		r.rebuildIndex()
		return
	}

	initialLoad := problem.NewCapacity(p.CapacityDim)
	for _, a := range r.Activities {
		job := p.Job(a.ID.JobIdx)
		if a.ID.Kind != problem.ActivityShipmentPickup {
			initialLoad = initialLoad.Add(job.DeliveryDemand())
		}
	}
	r.InitialLoad = initialLoad

	var transportCost, waitingDuration float64
	bbox := problem.EmptyBoundingBox()
	prevLoc := v.DepotLocation
	hasPrev := v.HasDepot

	var prevDeparture float64

	for i := range r.Activities {
		a := &r.Activities[i]
		job := p.Job(a.ID.JobIdx)
		loc, duration, windows := job.LocationFor(a.ID.Kind)
		bbox = bbox.Extend(p.Location(loc))

		var travelTime, travelCost float64
		if hasPrev {
			travelTime = matrices.TimeBetween(prevLoc, loc)
			travelCost = matrices.CostBetween(prevLoc, loc)
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

		// The first activity's arrival absorbs its own wait: the vehicle's
		// depot departure is delayed so it reaches the first stop exactly at
		// the window open, charging zero waiting there (spec §3 invariant
		// 3; original_source's compute_first_activity_arrival_time /
		// compute_vehicle_start). Every later activity charges the wait
		// normally, since only the route start can be pushed back.
		if i == 0 {
			arrival += wait
			wait = 0
		}
		departure := arrival + wait + duration

		a.Arrival = arrival
		a.Departure = departure
		a.Waiting = wait

		waitingDuration += wait
		if hasPrev {
			transportCost += travelCost
		}

		// Cumulative load: initial load minus deliveries completed so far
		// plus pickups completed so far (spec §3 invariant 4).
		var load problem.Capacity
		if i == 0 {
			load = r.InitialLoad.Clone()
		} else {
			load = r.Activities[i-1].Load.Clone()
		}
		switch a.ID.Kind {
		case problem.ActivityShipmentPickup:
			load = load.Add(job.DeliveryDemand())
		case problem.ActivityService, problem.ActivityShipmentDelivery:
			load = load.Sub(job.DeliveryDemand())
		}
		a.Load = load

		prevLoc = loc
		hasPrev = true
		prevDeparture = departure
	}

	// max_load_until_end backward pass.
	n := len(r.Activities)
	r.Activities[n-1].MaxLoadToEnd = r.Activities[n-1].Load.Clone()
	for i := n - 2; i >= 0; i-- {
		r.Activities[i].MaxLoadToEnd = r.Activities[i].Load.Max(r.Activities[i+1].MaxLoadToEnd)
	}

	endTime := r.Activities[n-1].Departure
	if v.HasDepot && v.ShouldReturnToDepot {
		transportCost += matrices.CostBetween(prevLoc, v.DepotLocation)
		endTime += matrices.TimeBetween(prevLoc, v.DepotLocation) + v.ReturnDepotDuration
	}

	r.TransportCost = transportCost
	r.WaitingDuration = waitingDuration
	r.EndTime = endTime

	// Route start is back-propagated from the first activity's arrival
	// (spec §3 invariant 3).
	firstLoc, _, _ := p.Job(r.Activities[0].ID.JobIdx).LocationFor(r.Activities[0].ID.Kind)
	r.StartTime = r.Activities[0].Arrival
	if v.HasDepot {
		r.StartTime -= matrices.TimeBetween(v.DepotLocation, firstLoc) + v.DepotDuration
	}
	r.BBox = bbox
	r.rebuildIndex()
}
