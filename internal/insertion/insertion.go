// Package insertion enumerates every feasible (route, position) — or, for
// shipments, (route, pickup position, delivery position) — candidate a
// job could be inserted at, for recreate strategies and local search to
// score and pick from (spec §4.3, grounded on
// original_source/.../solver/insertion.rs).
package insertion

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// ForEachJobInsertion calls f once per candidate insertion of jobIdx
// across every vehicle: every position of every vehicle's existing route,
// plus one fresh-route candidate per vehicle that has none yet. Vehicles
// whose skills don't cover the job, or whose route is already at its
// activity cap, are skipped without generating a candidate — the
// compile-time-cheap pruning the original does before even considering a
// delta score.
func ForEachJobInsertion(ws *solution.WorkingSolution, jobIdx int, f func(solution.Insertion)) {
	p := ws.Problem
	job := p.Job(jobIdx)

	for vehicleIdx := 0; vehicleIdx < len(p.Vehicles); vehicleIdx++ {
		v := p.Vehicle(vehicleIdx)
		if !v.Skills.Subset(job.Skills) {
			continue
		}

		route, ok := ws.RouteAt(vehicleIdx)
		if !ok {
			forEachFreshRouteInsertion(job, jobIdx, vehicleIdx, f)
			continue
		}
		if v.HasMaxActivities && len(route.Activities) >= v.MaxActivities {
			continue
		}
		// RouteIdx -1 resolves through VehicleIdx (solution.WorkingSolution
		// keeps routes dense and reindexes on removal, so callers that
		// don't already have the slice position use this form).
		forEachInsertionAtRoute(job, jobIdx, vehicleIdx, -1, route, f)
	}
}

// ForEachRouteInsertion is the single-route variant of ForEachJobInsertion,
// used when a caller (e.g. regret-k recreate, or a local-search operator
// relocating within one route) already knows which route it wants to try.
func ForEachRouteInsertion(p *problem.Problem, routeIdx int, route *solution.Route, jobIdx int, f func(solution.Insertion)) {
	job := p.Job(jobIdx)
	v := p.Vehicle(route.VehicleIdx)
	if !v.Skills.Subset(job.Skills) {
		return
	}
	if v.HasMaxActivities && len(route.Activities) >= v.MaxActivities {
		return
	}
	forEachInsertionAtRoute(job, jobIdx, route.VehicleIdx, routeIdx, route, f)
}

func forEachInsertionAtRoute(job *problem.Job, jobIdx, vehicleIdx, routeIdx int, route *solution.Route, f func(solution.Insertion)) {
	n := route.Len()
	if job.Variant == problem.JobShipment {
		for pickupPos := 0; pickupPos <= n; pickupPos++ {
			for deliveryPos := pickupPos + 1; deliveryPos <= n+1; deliveryPos++ {
				f(solution.Insertion{
					JobIdx: jobIdx, VehicleIdx: vehicleIdx, RouteIdx: routeIdx,
					IsShipment: true, PickupPos: pickupPos, DeliveryPos: deliveryPos,
				})
			}
		}
		return
	}
	for pos := 0; pos <= n; pos++ {
		f(solution.Insertion{JobIdx: jobIdx, VehicleIdx: vehicleIdx, RouteIdx: routeIdx, Position: pos})
	}
}

// forEachFreshRouteInsertion handles the case where vehicleIdx has no
// route yet: the only possible positions are 0 (service) or pickup=0,
// delivery=1 (shipment), since the route starts empty.
func forEachFreshRouteInsertion(job *problem.Job, jobIdx, vehicleIdx int, f func(solution.Insertion)) {
	if job.Variant == problem.JobShipment {
		f(solution.Insertion{
			JobIdx: jobIdx, VehicleIdx: vehicleIdx, RouteIdx: -1,
			IsShipment: true, PickupPos: 0, DeliveryPos: 1,
		})
		return
	}
	f(solution.Insertion{JobIdx: jobIdx, VehicleIdx: vehicleIdx, RouteIdx: -1, Position: 0})
}
