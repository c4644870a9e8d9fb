package solution

import (
	"fmt"
	"sort"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
)

// WorkingSolution is the central mutable structure the ALNS driver ruins
// and recreates: a dense vector of non-empty routes plus the set of job
// indices assigned to none of them (spec §3).
type WorkingSolution struct {
	Problem *problem.Problem

	routes       []*Route
	byVehicle    map[int]int // vehicle idx -> index into routes
	unassigned   map[int]struct{}
}

// NewWorkingSolution creates an empty solution over p with every job
// unassigned.
func NewWorkingSolution(p *problem.Problem) *WorkingSolution {
	ws := &WorkingSolution{
		Problem:    p,
		byVehicle:  make(map[int]int),
		unassigned: make(map[int]struct{}, p.NumJobs()),
	}
	for i := 0; i < p.NumJobs(); i++ {
		ws.unassigned[i] = struct{}{}
	}
	return ws
}

// Clone produces an independent deep copy, cheap because routes are dense
// vectors of plain-old-data activity entries (spec §9).
func (ws *WorkingSolution) Clone() *WorkingSolution {
	out := &WorkingSolution{
		Problem:    ws.Problem,
		byVehicle:  make(map[int]int, len(ws.byVehicle)),
		unassigned: make(map[int]struct{}, len(ws.unassigned)),
		routes:     make([]*Route, len(ws.routes)),
	}
	for i, r := range ws.routes {
		out.routes[i] = r.Clone()
	}
	for k, v := range ws.byVehicle {
		out.byVehicle[k] = v
	}
	for k := range ws.unassigned {
		out.unassigned[k] = struct{}{}
	}
	return out
}

// NonEmptyRoutes returns every route currently holding at least one
// activity (spec §4.1: "iterator skipping empty routes" — routes here are
// never actually empty by construction, since RemoveJob deletes emptied
// routes, but the method name and contract are preserved for callers
// migrating from the reference implementation's lazy-empty model).
func (ws *WorkingSolution) NonEmptyRoutes() []*Route {
	out := make([]*Route, 0, len(ws.routes))
	for _, r := range ws.routes {
		if len(r.Activities) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// Routes returns every route in the solution.
func (ws *WorkingSolution) Routes() []*Route {
	return ws.routes
}

// NumRoutes returns the number of (non-empty) routes.
func (ws *WorkingSolution) NumRoutes() int {
	return len(ws.routes)
}

// Unassigned returns the set of job indices assigned to no route.
func (ws *WorkingSolution) Unassigned() map[int]struct{} {
	return ws.unassigned
}

// RouteOf returns the route currently serving jobIdx, or nil if
// unassigned. It probes each route's position index in turn, so it is
// linear in the number of routes.
func (ws *WorkingSolution) RouteOf(jobIdx int) *Route {
	job := ws.Problem.Job(jobIdx)
	for _, id := range job.Activities() {
		for _, r := range ws.routes {
			if _, ok := r.PositionOf(id); ok {
				return r
			}
		}
	}
	return nil
}

// RouteAt returns the route bound to the given vehicle, or nil if that
// vehicle has no non-empty route yet.
func (ws *WorkingSolution) RouteAt(vehicleIdx int) (*Route, bool) {
	idx, ok := ws.byVehicle[vehicleIdx]
	if !ok {
		return nil, false
	}
	return ws.routes[idx], true
}

// Insert commits ins, creating a fresh route if ins.RouteIdx == -1. Panics
// on a positional violation since insertions must come from the
// enumerator, which never produces an invalid one (spec §4.1).
func (ws *WorkingSolution) Insert(ins Insertion) {
	route := ws.routeForInsert(ins)
	job := ws.Problem.Job(ins.JobIdx)

	if ins.IsShipment {
		if ins.DeliveryPos <= ins.PickupPos {
			panic(fmt.Sprintf("solution: shipment delivery position %d must be after pickup position %d", ins.DeliveryPos, ins.PickupPos))
		}
		pickup := RouteActivity{ID: problem.ActivityID{Kind: problem.ActivityShipmentPickup, JobIdx: ins.JobIdx}}
		delivery := RouteActivity{ID: problem.ActivityID{Kind: problem.ActivityShipmentDelivery, JobIdx: ins.JobIdx}}
		insertAt(route, ins.PickupPos, pickup)
		insertAt(route, ins.DeliveryPos, delivery)
	} else {
		act := RouteActivity{ID: problem.ActivityID{Kind: problem.ActivityService, JobIdx: ins.JobIdx}}
		insertAt(route, ins.Position, act)
	}

	delete(ws.unassigned, ins.JobIdx)
	recompute(ws.Problem, route)
	_ = job
}

func (ws *WorkingSolution) routeForInsert(ins Insertion) *Route {
	if ins.RouteIdx >= 0 {
		return ws.routes[ins.RouteIdx]
	}
	if idx, ok := ws.byVehicle[ins.VehicleIdx]; ok {
		return ws.routes[idx]
	}
	r := NewRoute(ins.VehicleIdx)
	ws.routes = append(ws.routes, r)
	ws.byVehicle[ins.VehicleIdx] = len(ws.routes) - 1
	return r
}

func insertAt(r *Route, pos int, act RouteActivity) {
	r.Activities = append(r.Activities, RouteActivity{})
	copy(r.Activities[pos+1:], r.Activities[pos:])
	r.Activities[pos] = act
}

// RemoveJob removes jobIdx from wherever it is, deleting the route if it
// becomes empty, and reports whether a removal occurred (spec §4.1).
func (ws *WorkingSolution) RemoveJob(jobIdx int) bool {
	job := ws.Problem.Job(jobIdx)
	var route *Route
	var routeIdx int
	positions := make([]int, 0, 2)

	for ri, r := range ws.routes {
		found := false
		for _, id := range job.Activities() {
			if p, ok := r.PositionOf(id); ok {
				positions = append(positions, p)
				found = true
			}
		}
		if found {
			route = r
			routeIdx = ri
			break
		}
	}
	if route == nil {
		return false
	}

	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	for _, p := range positions {
		route.Activities = append(route.Activities[:p], route.Activities[p+1:]...)
	}
	ws.unassigned[jobIdx] = struct{}{}

	if len(route.Activities) == 0 {
		ws.removeRouteAt(routeIdx)
		return true
	}
	recompute(ws.Problem, route)
	return true
}

// RemoveService is an alias kept for parity with spec §4.1's naming of a
// separate single-activity removal entry point; Service jobs only ever
// have one activity, so it behaves identically to RemoveJob for them.
func (ws *WorkingSolution) RemoveService(jobIdx int) bool {
	return ws.RemoveJob(jobIdx)
}

// RemoveRoute empties and deletes the route at routeIdx, unassigning every
// job it carried, and reports whether a removal occurred.
func (ws *WorkingSolution) RemoveRoute(routeIdx int) bool {
	if routeIdx < 0 || routeIdx >= len(ws.routes) {
		return false
	}
	r := ws.routes[routeIdx]
	for _, a := range r.Activities {
		ws.unassigned[a.ID.JobIdx] = struct{}{}
	}
	ws.removeRouteAt(routeIdx)
	return true
}

// PruneEmptyRoutes drops any route that local-search mutation left with
// zero activities, unassigning nothing (a route only goes empty by moving
// its last activity elsewhere, never by deletion) and keeping byVehicle
// consistent. Operators in internal/localsearch splice Activities
// directly rather than going through RemoveJob, so they call this after
// every apply instead of duplicating RemoveJob's empty-route bookkeeping.
func (ws *WorkingSolution) PruneEmptyRoutes() {
	for i := len(ws.routes) - 1; i >= 0; i-- {
		if len(ws.routes[i].Activities) == 0 {
			ws.removeRouteAt(i)
		}
	}
}

func (ws *WorkingSolution) removeRouteAt(routeIdx int) {
	vehicleIdx := ws.routes[routeIdx].VehicleIdx
	ws.routes = append(ws.routes[:routeIdx], ws.routes[routeIdx+1:]...)
	delete(ws.byVehicle, vehicleIdx)
	for v, idx := range ws.byVehicle {
		if idx > routeIdx {
			ws.byVehicle[v] = idx - 1
		}
	}
}

// Resync recomputes arrival/departure/load caches across every route.
// Invoked after a bulk mutation and at the end of each local-search move
// for safety (spec §4.1).
func (ws *WorkingSolution) Resync() {
	for _, r := range ws.routes {
		recompute(ws.Problem, r)
	}
}

// BrokenPairsDistance counts activity-adjacencies present in exactly one
// of ws and other — the diversity metric the population uses (spec §4.1,
// §4.5, §8 property 9).
func (ws *WorkingSolution) BrokenPairsDistance(other *WorkingSolution) int {
	a := adjacencySet(ws)
	b := adjacencySet(other)
	broken := 0
	for pair := range a {
		if _, ok := b[pair]; !ok {
			broken++
		}
	}
	for pair := range b {
		if _, ok := a[pair]; !ok {
			broken++
		}
	}
	return broken
}

type activityPair struct {
	a, b problem.ActivityID
}

func adjacencySet(ws *WorkingSolution) map[activityPair]struct{} {
	set := make(map[activityPair]struct{})
	for _, r := range ws.routes {
		for i := 0; i+1 < len(r.Activities); i++ {
			set[activityPair{r.Activities[i].ID, r.Activities[i+1].ID}] = struct{}{}
		}
	}
	return set
}
