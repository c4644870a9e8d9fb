// Package solution implements the Working Solution: the mutable routes +
// unassigned set the ALNS driver ruins and recreates, with arrival/
// departure/load/slack propagation maintained as an explicit invariant
// rather than recomputed lazily at read time (spec §3, §4.1).
package solution

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
)

// RouteActivity is one visit within a route, carrying the propagated
// timing and load state that depends on everything before it (spec §3).
type RouteActivity struct {
	ID             problem.ActivityID
	Arrival        float64
	Departure      float64
	Waiting        float64
	Load           problem.Capacity
	MaxLoadToEnd   problem.Capacity
}

// Route is an ordered sequence of activities served by one vehicle, plus
// the cached aggregates spec §3 lists: transport cost, waiting duration,
// initial load, start/end timestamps, and a bounding box.
type Route struct {
	VehicleIdx int
	Activities []RouteActivity

	posOf map[problem.ActivityID]int

	TransportCost   float64
	WaitingDuration float64
	InitialLoad     problem.Capacity
	StartTime       float64
	EndTime         float64
	BBox            problem.BoundingBox
}

// NewRoute creates an empty route bound to vehicleIdx.
func NewRoute(vehicleIdx int) *Route {
	return &Route{
		VehicleIdx: vehicleIdx,
		posOf:      make(map[problem.ActivityID]int),
		BBox:       problem.EmptyBoundingBox(),
	}
}

// Len returns the number of activities on the route.
func (r *Route) Len() int {
	return len(r.Activities)
}

// PositionOf returns the position of id within the route, or (-1, false)
// if absent. Constant-expected per the route's reverse map (spec §4.1).
func (r *Route) PositionOf(id problem.ActivityID) (int, bool) {
	p, ok := r.posOf[id]
	return p, ok
}

// Clone deep-copies the route; used when the WorkingSolution is cloned for
// a new search iteration (spec §9: cheap clone, ownership shared with the
// population until frozen).
func (r *Route) Clone() *Route {
	out := &Route{
		VehicleIdx:      r.VehicleIdx,
		Activities:      make([]RouteActivity, len(r.Activities)),
		posOf:           make(map[problem.ActivityID]int, len(r.posOf)),
		TransportCost:   r.TransportCost,
		WaitingDuration: r.WaitingDuration,
		InitialLoad:     r.InitialLoad.Clone(),
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		BBox:            r.BBox,
	}
	for i, a := range r.Activities {
		out.Activities[i] = RouteActivity{
			ID: a.ID, Arrival: a.Arrival, Departure: a.Departure, Waiting: a.Waiting,
			Load: a.Load.Clone(), MaxLoadToEnd: a.MaxLoadToEnd.Clone(),
		}
	}
	for k, v := range r.posOf {
		out.posOf[k] = v
	}
	return out
}

// rebuildIndex recomputes posOf after a structural edit.
func (r *Route) rebuildIndex() {
	for k := range r.posOf {
		delete(r.posOf, k)
	}
	for i, a := range r.Activities {
		r.posOf[a.ID] = i
	}
}

// ReplaceActivities splices replacement in place of r.Activities[start:end]
// and re-propagates the whole route. Local-search operators use this as
// their single mutation primitive instead of hand-rolling slice surgery
// per move kind (spec §4.1's "is_valid_change"/apply pairing, grounded on
// the teacher's route.replace_activities idiom).
func (r *Route) ReplaceActivities(p *problem.Problem, start, end int, replacement []problem.ActivityID) {
	newActs := make([]RouteActivity, 0, len(r.Activities)-(end-start)+len(replacement))
	newActs = append(newActs, r.Activities[:start]...)
	for _, id := range replacement {
		newActs = append(newActs, RouteActivity{ID: id})
	}
	newActs = append(newActs, r.Activities[end:]...)
	r.Activities = newActs
	recompute(p, r)
}
