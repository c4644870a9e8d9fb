package localsearch

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// TwoOpt reverses the activities between From and To (inclusive),
// eliminating a crossing pair of edges within one route (grounded on
// original_source/.../intensify/two_opt.rs). From must be < To.
type TwoOpt struct {
	RouteIdx int
	From, To int
}

func (m TwoOpt) newIDs(r *solution.Route) []problem.ActivityID {
	ids := routeIDs(r)
	out := make([]problem.ActivityID, len(ids))
	copy(out, ids)
	copy(out[m.From:m.To+1], reversed(ids[m.From:m.To+1]))
	return out
}

func (m TwoOpt) Name() string { return "two-opt" }
func (m TwoOpt) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	return intraDelta(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}
func (m TwoOpt) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	return intraValid(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}
func (m TwoOpt) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	intraApply(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}

// Relocate moves the single activity at From to position To within the
// same route (grounded on .../intensify/relocate.rs).
type Relocate struct {
	RouteIdx int
	From, To int
}

func (m Relocate) newIDs(r *solution.Route) []problem.ActivityID {
	return moveElement(routeIDs(r), m.From, m.To)
}

func (m Relocate) Name() string { return "relocate" }
func (m Relocate) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	return intraDelta(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}
func (m Relocate) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	return intraValid(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}
func (m Relocate) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	intraApply(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}

// Swap exchanges the activities at First and Second within the same
// route (grounded on .../intensify/swap.rs). First must be != Second.
type Swap struct {
	RouteIdx      int
	First, Second int
}

func (m Swap) newIDs(r *solution.Route) []problem.ActivityID {
	ids := routeIDs(r)
	out := make([]problem.ActivityID, len(ids))
	copy(out, ids)
	out[m.First], out[m.Second] = out[m.Second], out[m.First]
	return out
}

func (m Swap) Name() string { return "swap" }
func (m Swap) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	return intraDelta(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}
func (m Swap) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	return intraValid(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}
func (m Swap) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	intraApply(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}

// OrOpt relocates the Count-length chain starting at From to sit
// immediately before the activity originally at position To, preserving the chain's internal order (grounded on
// .../intensify/or_opt.rs). Count must be >= 2 and the [From,From+Count)
// and To windows must not overlap.
type OrOpt struct {
	RouteIdx int
	From, To int
	Count    int
}

func (m OrOpt) newIDs(r *solution.Route) []problem.ActivityID {
	ids := routeIDs(r)
	chain := append([]problem.ActivityID(nil), ids[m.From:m.From+m.Count]...)

	rest := make([]problem.ActivityID, 0, len(ids)-m.Count)
	rest = append(rest, ids[:m.From]...)
	rest = append(rest, ids[m.From+m.Count:]...)

	// To is expressed in the original (pre-removal) index space; shift it
	// down by Count when it falls after the removed chain.
	insertAt := m.To
	if m.To > m.From {
		insertAt -= m.Count
	}

	out := make([]problem.ActivityID, 0, len(ids))
	out = append(out, rest[:insertAt]...)
	out = append(out, chain...)
	out = append(out, rest[insertAt:]...)
	return out
}

func (m OrOpt) Name() string { return "or-opt" }
func (m OrOpt) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	return intraDelta(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}
func (m OrOpt) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	return intraValid(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}
func (m OrOpt) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	intraApply(p, ws, m.RouteIdx, m.newIDs(ws.Routes()[m.RouteIdx]))
}
