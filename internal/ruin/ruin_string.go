package ruin

import (
	"sort"

	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// String implements Slack Induction by String Removals (Christiaens &
// Vanden Berghe): it excises a handful of contiguous route segments
// ("strings"), optionally preserving a short run in the middle of a
// longer segment, seeded by a random job and chained to nearby jobs in
// other routes (spec §4.2, grounded on
// original_source/.../ruin/ruin_string.rs).
//
// Unlike the original, which removes one activity at a time, this port
// always removes a string's jobs whole — a Shipment's pickup and
// delivery never split across "removed" and "kept" — matching the
// atomic-shipment invariant the rest of this codebase holds.
type String struct {
	KMin, KMax int
	LMin, LMax int
}

// NewString returns the default parameterization from the original paper.
func NewString() String {
	return String{KMin: 1, KMax: 6, LMin: 3, LMax: 20}
}

func (s String) Ruin(ctx *Context, ws *solution.WorkingSolution) {
	jobs := assignedJobs(ws)
	if len(jobs) == 0 {
		return
	}
	r := ctx.RNG.ForSubsystem(rng.SubsystemRuin)

	k := randIntRange(r, s.KMin, s.KMax)
	if k > ws.NumRoutes() {
		k = ws.NumRoutes()
	}

	ruinedRoutes := make(map[*solution.Route]struct{})
	seed := jobs[r.Intn(len(jobs))]

	for len(ruinedRoutes) < k {
		if route := ws.RouteOf(seed); route != nil {
			if r.Float64() < 0.5 {
				s.ruinString(ctx, ws, route)
			} else {
				s.ruinSplitString(ctx, ws, route)
			}
			ruinedRoutes[route] = struct{}{}
		}

		next, ok := nearestJobInOtherRoute(ctx, ws, seed, ruinedRoutes)
		if !ok {
			break
		}
		seed = next
	}
}

func (s String) ruinString(ctx *Context, ws *solution.WorkingSolution, route *solution.Route) {
	n := route.Len()
	if n == 0 {
		return
	}
	r := ctx.RNG.ForSubsystem(rng.SubsystemRuin)
	stringLength := min(randIntRange(r, s.LMin, s.LMax), n)

	randomActivity := r.Intn(n)
	starts := computePossibleStringStart(stringLength, randomActivity, n)
	if len(starts) == 0 {
		return
	}
	start := starts[r.Intn(len(starts))]

	for _, jobIdx := range jobsInRange(route, start, start+stringLength) {
		ws.RemoveJob(jobIdx)
	}
}

func (s String) ruinSplitString(ctx *Context, ws *solution.WorkingSolution, route *solution.Route) {
	n := route.Len()
	if n == 0 {
		return
	}
	r := ctx.RNG.ForSubsystem(rng.SubsystemRuin)
	stringLength := min(randIntRange(r, s.LMin, s.LMax), n)
	preservedLength := computePreservedLength(stringLength, n, r)
	totalLength := stringLength + preservedLength

	randomActivity := r.Intn(n)
	starts := computePossibleStringStart(totalLength, randomActivity, n)
	if len(starts) == 0 {
		return
	}
	start := starts[r.Intn(len(starts))]
	preservedStart := randIntRange(r, 0, stringLength-1)

	var toRemove []int
	for i := 0; i < totalLength; i++ {
		if i >= preservedStart && i < preservedStart+preservedLength {
			continue
		}
		toRemove = append(toRemove, start+i)
	}
	for _, jobIdx := range jobsAt(route, toRemove) {
		ws.RemoveJob(jobIdx)
	}
}

// computePossibleStringStart mirrors the source's enumeration of every
// start index that places a string of stringLength activities somewhere
// inside [0,routeLength) while covering index.
func computePossibleStringStart(stringLength, index, routeLength int) []int {
	var starts []int
	for i := 1; i <= stringLength; i++ {
		lower := index - (stringLength - i)
		upper := index + (i - 1)
		if lower >= 0 && upper < routeLength {
			starts = append(starts, lower)
		}
	}
	return starts
}

// computePreservedLength picks how many activities in the middle of a
// longer segment survive removal, growing the candidate length by one
// with 99% probability each step until it no longer fits.
func computePreservedLength(stringLength, routeLength int, r interface{ Float64() float64 }) int {
	if stringLength == routeLength {
		return 0
	}
	preserved := 1
	for stringLength+preserved < routeLength {
		if r.Float64() < 0.01 {
			return preserved
		}
		preserved++
	}
	return preserved
}

func randIntRange(r interface{ Intn(int) int }, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

func jobsInRange(route *solution.Route, start, end int) []int {
	seen := make(map[int]struct{})
	var out []int
	for i := start; i < end && i < len(route.Activities); i++ {
		j := route.Activities[i].ID.JobIdx
		if _, ok := seen[j]; ok {
			continue
		}
		seen[j] = struct{}{}
		out = append(out, j)
	}
	return out
}

func jobsAt(route *solution.Route, positions []int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, i := range positions {
		if i < 0 || i >= len(route.Activities) {
			continue
		}
		j := route.Activities[i].ID.JobIdx
		if _, ok := seen[j]; ok {
			continue
		}
		seen[j] = struct{}{}
		out = append(out, j)
	}
	return out
}

// nearestJobInOtherRoute returns the assigned job nearest seed whose
// route isn't already in ruinedRoutes, chaining string removals across
// spatially close routes the way the original chains seed_service
// (spec §4.2).
func nearestJobInOtherRoute(ctx *Context, ws *solution.WorkingSolution, seed int, ruinedRoutes map[*solution.Route]struct{}) (int, bool) {
	jobs := assignedJobs(ws)
	matrices := defaultMatrices(ctx.Problem)
	seedLoc := jobLocation(ctx.Problem, seed)

	sort.Slice(jobs, func(i, j int) bool {
		return matrices.DistanceBetween(seedLoc, jobLocation(ctx.Problem, jobs[i])) <
			matrices.DistanceBetween(seedLoc, jobLocation(ctx.Problem, jobs[j]))
	})

	for _, jobIdx := range jobs {
		route := ws.RouteOf(jobIdx)
		if route == nil {
			continue
		}
		if _, ruined := ruinedRoutes[route]; ruined {
			continue
		}
		return jobIdx, true
	}
	return 0, false
}
