package localsearch

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// maxOrOptChainLength bounds how long an Or-Opt chain (and the segment an
// InterMixedExchange borrows from the other route) can be; original_source
// leaves this unbounded, but without it the move count for a route of
// length n is O(n^3) instead of O(n^2) for no practical benefit on the
// routes this solver sizes for.
const maxOrOptChainLength = 3

// Search runs repeated best-improvement descent over the closed operator
// set until a round finds no improving move or MaxIterations is reached
// (grounded on
// original_source/.../intensify/intensify_search.rs's run_iteration loop;
// simplified to regenerate every candidate move each round rather than
// caching a best-move-per-route-pair table, since this solver's route
// sizes don't call for that incremental bookkeeping).
type Search struct {
	MaxIterations int
}

func NewSearch(maxIterations int) Search {
	return Search{MaxIterations: maxIterations}
}

// Run applies improving moves to ws in place and returns how many were
// committed.
func (s Search) Run(p *problem.Problem, ws *solution.WorkingSolution) int {
	applied := 0
	for i := 0; i < s.MaxIterations; i++ {
		move, delta := bestMove(p, ws)
		if move == nil || delta >= 0 {
			break
		}
		move.Apply(p, ws)
		applied++
	}
	return applied
}

func bestMove(p *problem.Problem, ws *solution.WorkingSolution) (Move, float64) {
	var best Move
	bestDelta := 0.0

	consider := func(m Move) {
		if !m.IsValid(p, ws) {
			return
		}
		if d := m.Delta(p, ws); d < bestDelta {
			bestDelta = d
			best = m
		}
	}

	for _, m := range generateIntraMoves(ws) {
		consider(m)
	}
	for _, m := range generateInterMoves(p, ws) {
		consider(m)
	}
	return best, bestDelta
}

func generateIntraMoves(ws *solution.WorkingSolution) []Move {
	var moves []Move
	for ri, r := range ws.Routes() {
		n := len(r.Activities)

		for from := 0; from < n; from++ {
			for to := from + 2; to < n; to++ {
				moves = append(moves, TwoOpt{RouteIdx: ri, From: from, To: to})
			}
		}

		for from := 0; from < n; from++ {
			for to := 0; to <= n; to++ {
				if to == from || to == from+1 {
					continue
				}
				moves = append(moves, Relocate{RouteIdx: ri, From: from, To: to})
			}
		}

		for first := 0; first < n; first++ {
			for second := first + 1; second < n; second++ {
				moves = append(moves, Swap{RouteIdx: ri, First: first, Second: second})
			}
		}

		for count := 2; count <= maxOrOptChainLength && count < n; count++ {
			for from := 0; from+count <= n; from++ {
				for to := 0; to <= n; to++ {
					if to >= from && to <= from+count {
						continue
					}
					moves = append(moves, OrOpt{RouteIdx: ri, From: from, To: to, Count: count})
				}
			}
		}
	}
	return moves
}

func generateInterMoves(p *problem.Problem, ws *solution.WorkingSolution) []Move {
	var moves []Move
	routes := ws.Routes()

	for i, r1 := range routes {
		for j, r2 := range routes {
			if i == j {
				continue
			}
			if !r1.BBox.Intersects(r2.BBox) {
				continue
			}
			moves = append(moves, interRouteMoves(p, i, j, r1, r2)...)
		}
	}
	return moves
}

func interRouteMoves(p *problem.Problem, i, j int, r1, r2 *solution.Route) []Move {
	var moves []Move

	seenJob := make(map[int]bool)
	for _, a := range r1.Activities {
		if seenJob[a.ID.JobIdx] {
			continue
		}
		seenJob[a.ID.JobIdx] = true
		job := p.Job(a.ID.JobIdx)

		for to := 0; to <= len(r2.Activities); to++ {
			if job.Variant == problem.JobShipment {
				for toDelivery := to + 1; toDelivery <= len(r2.Activities)+1; toDelivery++ {
					base := InterRelocate{
						FromRouteIdx: i, ToRouteIdx: j, JobIdx: a.ID.JobIdx,
						ToPickupPos: to, ToDeliveryPos: toDelivery,
					}
					moves = append(moves, base, InterOrOpt{InterRelocate: base})
				}
			} else {
				base := InterRelocate{FromRouteIdx: i, ToRouteIdx: j, JobIdx: a.ID.JobIdx, ToPos: to}
				moves = append(moves, base, InterOrOpt{InterRelocate: base})
			}
		}
	}

	if i < j {
		for first := 0; first < len(r1.Activities); first++ {
			for second := 0; second < len(r2.Activities); second++ {
				moves = append(moves, InterSwap{FirstRouteIdx: i, SecondRouteIdx: j, First: first, Second: second})
			}
		}

		for firstFrom := 0; firstFrom < len(r1.Activities); firstFrom++ {
			for secondFrom := 0; secondFrom < len(r2.Activities); secondFrom++ {
				moves = append(moves, InterTwoOptStar{FirstRouteIdx: i, SecondRouteIdx: j, FirstFrom: firstFrom, SecondFrom: secondFrom})
				moves = append(moves, InterReverseTwoOpt{FirstRouteIdx: i, SecondRouteIdx: j, FirstFrom: firstFrom, SecondFrom: secondFrom})
			}
		}

		for firstStart := 0; firstStart < len(r1.Activities); firstStart++ {
			for firstEnd := firstStart + 1; firstEnd <= len(r1.Activities); firstEnd++ {
				for secondStart := 0; secondStart < len(r2.Activities); secondStart++ {
					for secondEnd := secondStart + 1; secondEnd <= len(r2.Activities); secondEnd++ {
						moves = append(moves, CrossExchange{
							FirstRouteIdx: i, SecondRouteIdx: j,
							FirstStart: firstStart, FirstEnd: firstEnd,
							SecondStart: secondStart, SecondEnd: secondEnd,
						})
					}
				}
			}
		}
	}

	for position := 0; position < len(r1.Activities); position++ {
		for length := 2; length <= maxOrOptChainLength; length++ {
			for start := 0; start+length <= len(r2.Activities); start++ {
				moves = append(moves, InterMixedExchange{
					FromRouteIdx: i, ToRouteIdx: j,
					Position: position, SegmentStart: start, SegmentLength: length,
				})
			}
		}
	}

	return moves
}
