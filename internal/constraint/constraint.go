// Package constraint implements the tiered hard/soft scoring model: each
// constraint computes both a stateless full score and a delta for a
// candidate insertion (spec §4.2). The three constraint kinds — Global,
// Route, Activity — form a closed, compile-time-known set dispatched by
// the concrete named fields on Framework, not by an open interface
// hierarchy (spec §9: "dispatched by a tagged-variant enum, not by
// runtime polymorphism").
package constraint

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Level tags whether a constraint contributes to the hard or soft score.
type Level int

const (
	Hard Level = iota
	Soft
)

// InsertionContext is the read-only view a constraint's delta computation
// gets: the solution being peeked at, the candidate insertion, the
// affected route (nil when inserting into a fresh route), the lazily
// propagated suffix the insertion would produce, and the resulting
// vehicle start/end timestamps (spec §4.2).
type InsertionContext struct {
	Problem   *problem.Problem
	Solution  *solution.WorkingSolution
	Insertion solution.Insertion
	Route     *solution.Route
	Updates   []solution.UpdatedActivity
	NewStart  float64
	NewEnd    float64
}

// NewInsertionContext builds the preview for ins against ws without
// mutating it.
func NewInsertionContext(p *problem.Problem, ws *solution.WorkingSolution, ins solution.Insertion) InsertionContext {
	var route *solution.Route
	if ins.RouteIdx >= 0 {
		route = ws.Routes()[ins.RouteIdx]
	} else if r, ok := ws.RouteAt(ins.VehicleIdx); ok {
		route = r
	}
	updates := solution.PreviewInsertion(p, route, ins)
	start, end := solution.NewVehicleTimestamps(p, route, ins, updates)
	return InsertionContext{
		Problem: p, Solution: ws, Insertion: ins, Route: route,
		Updates: updates, NewStart: start, NewEnd: end,
	}
}

// oldActivity returns the route activity a given update previously was,
// if any (PrevPos == -1 for brand new activities).
func (ctx InsertionContext) oldActivity(u solution.UpdatedActivity) (solution.RouteActivity, bool) {
	if ctx.Route == nil || u.PrevPos < 0 {
		return solution.RouteActivity{}, false
	}
	return ctx.Route.Activities[u.PrevPos], true
}

// routeWasNonEmpty reports whether the affected route already had
// activities before this insertion.
func (ctx InsertionContext) routeWasNonEmpty() bool {
	return ctx.Route != nil && len(ctx.Route.Activities) > 0
}
