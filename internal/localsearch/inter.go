package localsearch

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// removeJobIDs drops every activity belonging to jobIdx from ids.
func removeJobIDs(ids []problem.ActivityID, jobIdx int) []problem.ActivityID {
	out := make([]problem.ActivityID, 0, len(ids))
	for _, id := range ids {
		if id.JobIdx != jobIdx {
			out = append(out, id)
		}
	}
	return out
}

// insertJobIDs splices jobIdx's activities into ids (already stripped of
// jobIdx, if it was present) at pos1 (single-activity jobs) or pos1/pos2
// (shipments: pickup then delivery, pos1 <= pos2).
func insertJobIDs(p *problem.Problem, ids []problem.ActivityID, jobIdx, pos1, pos2 int) []problem.ActivityID {
	job := p.Job(jobIdx)
	if job.Variant != problem.JobShipment {
		out := make([]problem.ActivityID, 0, len(ids)+1)
		out = append(out, ids[:pos1]...)
		out = append(out, problem.ActivityID{Kind: problem.ActivityService, JobIdx: jobIdx})
		out = append(out, ids[pos1:]...)
		return out
	}

	out := make([]problem.ActivityID, 0, len(ids)+2)
	out = append(out, ids[:pos1]...)
	out = append(out, problem.ActivityID{Kind: problem.ActivityShipmentPickup, JobIdx: jobIdx})
	out = append(out, ids[pos1:pos2]...)
	out = append(out, problem.ActivityID{Kind: problem.ActivityShipmentDelivery, JobIdx: jobIdx})
	out = append(out, ids[pos2:]...)
	return out
}

func interDelta(p *problem.Problem, ws *solution.WorkingSolution, r1Idx, r2Idx int, ids1, ids2 []problem.ActivityID) float64 {
	r1, r2 := ws.Routes()[r1Idx], ws.Routes()[r2Idx]
	return solution.TransportCostDeltaUpdate(p, r1, 0, len(r1.Activities), ids1) +
		solution.TransportCostDeltaUpdate(p, r2, 0, len(r2.Activities), ids2)
}

func interValid(p *problem.Problem, ws *solution.WorkingSolution, r1Idx, r2Idx int, ids1, ids2 []problem.ActivityID) bool {
	r1, r2 := ws.Routes()[r1Idx], ws.Routes()[r2Idx]
	if len(ids1) > 0 && !solution.IsValidChange(p, r1, 0, len(r1.Activities), ids1) {
		return false
	}
	if len(ids2) > 0 && !solution.IsValidChange(p, r2, 0, len(r2.Activities), ids2) {
		return false
	}
	return true
}

func interApply(p *problem.Problem, ws *solution.WorkingSolution, r1Idx, r2Idx int, ids1, ids2 []problem.ActivityID) {
	r1, r2 := ws.Routes()[r1Idx], ws.Routes()[r2Idx]
	r1.ReplaceActivities(p, 0, len(r1.Activities), ids1)
	r2.ReplaceActivities(p, 0, len(r2.Activities), ids2)
	ws.PruneEmptyRoutes()
}

// InterRelocate moves JobIdx out of FromRouteIdx and into ToRouteIdx,
// landing at ToPos (a Service) or ToPickupPos/ToDeliveryPos (a Shipment,
// carried atomically — original_source's intensify_search.rs skips
// shipments here entirely; this port extends the operator to cover them,
// matching how shipments are handled atomically everywhere else in this
// solver). Grounded on .../intensify/inter_relocate.rs.
type InterRelocate struct {
	FromRouteIdx, ToRouteIdx   int
	JobIdx                     int
	ToPos                      int
	ToPickupPos, ToDeliveryPos int
}

func (m InterRelocate) ids(p *problem.Problem, ws *solution.WorkingSolution) (fromIDs, toIDs []problem.ActivityID) {
	fromIDs = removeJobIDs(routeIDs(ws.Routes()[m.FromRouteIdx]), m.JobIdx)

	pos1 := m.ToPos
	if p.Job(m.JobIdx).Variant == problem.JobShipment {
		pos1 = m.ToPickupPos
	}
	toIDs = insertJobIDs(p, routeIDs(ws.Routes()[m.ToRouteIdx]), m.JobIdx, pos1, m.ToDeliveryPos)
	return
}

func (m InterRelocate) Name() string { return "inter-relocate" }
func (m InterRelocate) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	fromIDs, toIDs := m.ids(p, ws)
	return interDelta(p, ws, m.FromRouteIdx, m.ToRouteIdx, fromIDs, toIDs)
}
func (m InterRelocate) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	fromIDs, toIDs := m.ids(p, ws)
	return interValid(p, ws, m.FromRouteIdx, m.ToRouteIdx, fromIDs, toIDs)
}
func (m InterRelocate) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	fromIDs, toIDs := m.ids(p, ws)
	interApply(p, ws, m.FromRouteIdx, m.ToRouteIdx, fromIDs, toIDs)
}

// InterOrOpt relocates a whole job the same way InterRelocate does; kept
// as a distinct named operator (rather than folded into InterRelocate)
// because original_source keeps them separate enum variants (spec §4.4).
type InterOrOpt struct {
	InterRelocate
}

func (m InterOrOpt) Name() string { return "inter-or-opt" }

// InterSwap exchanges the activity at First in FirstRouteIdx with the one
// at Second in SecondRouteIdx. Refuses shipment activities on either side
// (DESIGN.md Open Question #3): swapping one leg of a shipment alone
// would break its pickup-before-delivery ordering invariant. Grounded on
// .../intensify/inter_swap.rs.
type InterSwap struct {
	FirstRouteIdx, SecondRouteIdx int
	First, Second                 int
}

func (m InterSwap) Name() string { return "inter-swap" }

func (m InterSwap) activities(ws *solution.WorkingSolution) (first, second problem.ActivityID) {
	r1, r2 := ws.Routes()[m.FirstRouteIdx], ws.Routes()[m.SecondRouteIdx]
	return r1.Activities[m.First].ID, r2.Activities[m.Second].ID
}

func (m InterSwap) ids(ws *solution.WorkingSolution) (ids1, ids2 []problem.ActivityID) {
	first, second := m.activities(ws)
	ids1 = routeIDs(ws.Routes()[m.FirstRouteIdx])
	ids2 = routeIDs(ws.Routes()[m.SecondRouteIdx])
	ids1[m.First] = second
	ids2[m.Second] = first
	return
}

func (m InterSwap) refusesShipment(ws *solution.WorkingSolution) bool {
	first, second := m.activities(ws)
	return first.IsShipment() || second.IsShipment()
}

func (m InterSwap) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	ids1, ids2 := m.ids(ws)
	return interDelta(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}
func (m InterSwap) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	if m.refusesShipment(ws) {
		return false
	}
	ids1, ids2 := m.ids(ws)
	return interValid(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}
func (m InterSwap) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	ids1, ids2 := m.ids(ws)
	interApply(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}

// InterTwoOptStar swaps the tails of two routes after FirstFrom and
// SecondFrom respectively, preserving each tail's internal order
// (grounded on .../intensify/inter_two_opt_star.rs). Shipments are
// carried atomically: IsValid refuses a tail cut that would separate a
// shipment's pickup from its delivery (see tailCutSplitsShipment in
// localsearch.go).
type InterTwoOptStar struct {
	FirstRouteIdx, SecondRouteIdx int
	FirstFrom, SecondFrom         int
}

func (m InterTwoOptStar) Name() string { return "inter-two-opt-star" }

func (m InterTwoOptStar) ids(ws *solution.WorkingSolution) (ids1, ids2 []problem.ActivityID) {
	r1, r2 := ws.Routes()[m.FirstRouteIdx], ws.Routes()[m.SecondRouteIdx]
	ids1Full, ids2Full := routeIDs(r1), routeIDs(r2)

	ids1 = append(append([]problem.ActivityID{}, ids1Full[:m.FirstFrom+1]...), ids2Full[m.SecondFrom+1:]...)
	ids2 = append(append([]problem.ActivityID{}, ids2Full[:m.SecondFrom+1]...), ids1Full[m.FirstFrom+1:]...)
	return
}

func (m InterTwoOptStar) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	ids1, ids2 := m.ids(ws)
	return interDelta(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}
func (m InterTwoOptStar) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	r1, r2 := ws.Routes()[m.FirstRouteIdx], ws.Routes()[m.SecondRouteIdx]
	if tailCutSplitsShipment(routeIDs(r1), m.FirstFrom+1) || tailCutSplitsShipment(routeIDs(r2), m.SecondFrom+1) {
		return false
	}
	ids1, ids2 := m.ids(ws)
	return interValid(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}
func (m InterTwoOptStar) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	ids1, ids2 := m.ids(ws)
	interApply(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}

// InterReverseTwoOpt cuts both routes after FirstFrom/SecondFrom like
// InterTwoOptStar, but splices each tail in *reversed* order instead of
// preserving it (spec.md §4.4: "cut both routes; swap reversed head/tail
// pairs"), grounded on
// .../intensify/inter_reverse_two_opt.rs. Refuses a cut whose spliced
// tail contains a shipment activity: reversing would put that shipment's
// delivery before its pickup even though neither tail cut splits it
// across routes (DESIGN.md Open Question #3).
type InterReverseTwoOpt struct {
	FirstRouteIdx, SecondRouteIdx int
	FirstFrom, SecondFrom         int
}

func (m InterReverseTwoOpt) Name() string { return "inter-reverse-two-opt" }

func (m InterReverseTwoOpt) ids(ws *solution.WorkingSolution) (ids1, ids2 []problem.ActivityID) {
	r1, r2 := ws.Routes()[m.FirstRouteIdx], ws.Routes()[m.SecondRouteIdx]
	ids1Full, ids2Full := routeIDs(r1), routeIDs(r2)

	ids1 = append(append([]problem.ActivityID{}, ids1Full[:m.FirstFrom+1]...), reversed(ids2Full[m.SecondFrom+1:])...)
	ids2 = append(append([]problem.ActivityID{}, ids2Full[:m.SecondFrom+1]...), reversed(ids1Full[m.FirstFrom+1:])...)
	return
}

func (m InterReverseTwoOpt) tailsContainShipment(ws *solution.WorkingSolution) bool {
	r1, r2 := ws.Routes()[m.FirstRouteIdx], ws.Routes()[m.SecondRouteIdx]
	for _, id := range routeIDs(r1)[m.FirstFrom+1:] {
		if id.IsShipment() {
			return true
		}
	}
	for _, id := range routeIDs(r2)[m.SecondFrom+1:] {
		if id.IsShipment() {
			return true
		}
	}
	return false
}

func (m InterReverseTwoOpt) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	ids1, ids2 := m.ids(ws)
	return interDelta(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}
func (m InterReverseTwoOpt) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	if m.tailsContainShipment(ws) {
		return false
	}
	ids1, ids2 := m.ids(ws)
	return interValid(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}
func (m InterReverseTwoOpt) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	ids1, ids2 := m.ids(ws)
	interApply(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}

// CrossExchange swaps the [FirstStart,FirstEnd) sub-sequence of
// FirstRouteIdx with the [SecondStart,SecondEnd) sub-sequence of
// SecondRouteIdx. IsValid refuses any exchange whose segments contain a
// shipment activity (DESIGN.md Open Question #3). Grounded on
// .../intensify/cross_exchange.rs, whose own is_valid/apply were left
// unimplemented (todo!()) — both are completed here on top of
// ReplaceActivities/IsValidChange.
type CrossExchange struct {
	FirstRouteIdx, SecondRouteIdx int
	FirstStart, FirstEnd          int
	SecondStart, SecondEnd        int
}

func (m CrossExchange) Name() string { return "cross-exchange" }

func (m CrossExchange) segments(ws *solution.WorkingSolution) (seg1, seg2 []problem.ActivityID) {
	r1, r2 := ws.Routes()[m.FirstRouteIdx], ws.Routes()[m.SecondRouteIdx]
	seg1 = routeIDs(r1)[m.FirstStart:m.FirstEnd]
	seg2 = routeIDs(r2)[m.SecondStart:m.SecondEnd]
	return
}

func (m CrossExchange) ids(ws *solution.WorkingSolution) (ids1, ids2 []problem.ActivityID) {
	r1, r2 := ws.Routes()[m.FirstRouteIdx], ws.Routes()[m.SecondRouteIdx]
	ids1Full, ids2Full := routeIDs(r1), routeIDs(r2)
	seg1, seg2 := m.segments(ws)

	ids1 = append(append(append([]problem.ActivityID{}, ids1Full[:m.FirstStart]...), seg2...), ids1Full[m.FirstEnd:]...)
	ids2 = append(append(append([]problem.ActivityID{}, ids2Full[:m.SecondStart]...), seg1...), ids2Full[m.SecondEnd:]...)
	return
}

func (m CrossExchange) splitsShipment(ws *solution.WorkingSolution) bool {
	seg1, seg2 := m.segments(ws)
	for _, seg := range [][]problem.ActivityID{seg1, seg2} {
		for _, id := range seg {
			if id.IsShipment() {
				return true
			}
		}
	}
	return false
}

func (m CrossExchange) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	ids1, ids2 := m.ids(ws)
	return interDelta(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}
func (m CrossExchange) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	if m.splitsShipment(ws) {
		return false
	}
	ids1, ids2 := m.ids(ws)
	return interValid(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}
func (m CrossExchange) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	ids1, ids2 := m.ids(ws)
	interApply(p, ws, m.FirstRouteIdx, m.SecondRouteIdx, ids1, ids2)
}

// InterMixedExchange exchanges a single activity at Position in
// FromRouteIdx with a SegmentLength-long (>=2) segment starting at
// SegmentStart in ToRouteIdx — an asymmetric exchange for routes of
// uneven density (grounded on
// original_source/crates/.../ls/inter_mixed_exchange.rs). Refuses
// shipment activities on either side, same rationale as InterSwap.
type InterMixedExchange struct {
	FromRouteIdx, ToRouteIdx int
	Position                 int
	SegmentStart             int
	SegmentLength            int
}

func (m InterMixedExchange) Name() string { return "inter-mixed-exchange" }

func (m InterMixedExchange) pieces(ws *solution.WorkingSolution) (node problem.ActivityID, segment []problem.ActivityID) {
	fromIDs := routeIDs(ws.Routes()[m.FromRouteIdx])
	toIDs := routeIDs(ws.Routes()[m.ToRouteIdx])
	node = fromIDs[m.Position]
	segment = toIDs[m.SegmentStart : m.SegmentStart+m.SegmentLength]
	return
}

func (m InterMixedExchange) refusesShipment(ws *solution.WorkingSolution) bool {
	node, segment := m.pieces(ws)
	if node.IsShipment() {
		return true
	}
	for _, id := range segment {
		if id.IsShipment() {
			return true
		}
	}
	return false
}

func (m InterMixedExchange) ids(ws *solution.WorkingSolution) (fromIDs, toIDs []problem.ActivityID) {
	node, segment := m.pieces(ws)
	fromFull := routeIDs(ws.Routes()[m.FromRouteIdx])
	toFull := routeIDs(ws.Routes()[m.ToRouteIdx])

	fromIDs = append(append(append([]problem.ActivityID{}, fromFull[:m.Position]...), segment...), fromFull[m.Position+1:]...)
	toIDs = append(append(append([]problem.ActivityID{}, toFull[:m.SegmentStart]...), node), toFull[m.SegmentStart+m.SegmentLength:]...)
	return
}

func (m InterMixedExchange) Delta(p *problem.Problem, ws *solution.WorkingSolution) float64 {
	fromIDs, toIDs := m.ids(ws)
	return interDelta(p, ws, m.FromRouteIdx, m.ToRouteIdx, fromIDs, toIDs)
}
func (m InterMixedExchange) IsValid(p *problem.Problem, ws *solution.WorkingSolution) bool {
	if m.refusesShipment(ws) {
		return false
	}
	fromIDs, toIDs := m.ids(ws)
	return interValid(p, ws, m.FromRouteIdx, m.ToRouteIdx, fromIDs, toIDs)
}
func (m InterMixedExchange) Apply(p *problem.Problem, ws *solution.WorkingSolution) {
	fromIDs, toIDs := m.ids(ws)
	interApply(p, ws, m.FromRouteIdx, m.ToRouteIdx, fromIDs, toIDs)
}
