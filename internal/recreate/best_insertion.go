package recreate

import (
	"math"
	"sort"

	"github.com/hermesrouting/hermes-optimizer/internal/insertion"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// SortMethod orders unassigned jobs before a single-threaded best
// insertion pass — construction order matters for a greedy heuristic
// (spec §4.3).
type SortMethod int

const (
	SortRandom SortMethod = iota
	SortDemand
	SortFar
	SortClose
	SortTimeWindow
)

func (m SortMethod) String() string {
	switch m {
	case SortDemand:
		return "demand"
	case SortFar:
		return "far"
	case SortClose:
		return "close"
	case SortTimeWindow:
		return "time-window"
	default:
		return "random"
	}
}

// BestInsertion reinserts unassigned jobs one at a time, each at its
// cheapest feasible position across the whole solution, in an order
// chosen by SortMethod. BlinkRate randomly skips a fraction of candidate
// positions to diversify an otherwise deterministic greedy pass (spec
// §4.3, grounded on original_source/.../recreate/best_insertion.rs).
type BestInsertion struct {
	SortMethod SortMethod
	BlinkRate  float64
}

func (b BestInsertion) Recreate(ctx *Context, ws *solution.WorkingSolution) {
	unassigned := sortedUnassigned(ctx.Problem, ws, b.SortMethod, ctx.RNG)

	for _, jobIdx := range unassigned {
		if _, stillUnassigned := ws.Unassigned()[jobIdx]; !stillUnassigned {
			continue
		}

		var best *solution.Insertion
		bestScore := score.Score{Hard: math.Inf(1), Soft: math.Inf(1)}
		blinkSource := ctx.noiserFor(jobIdx)

		insertion.ForEachJobInsertion(ws, jobIdx, func(ins solution.Insertion) {
			if b.BlinkRate > 0 && blinkSource.Blink(b.BlinkRate) {
				return
			}
			s := ctx.scoreInsertion(ws, ins, &bestScore)
			if s.Less(bestScore) {
				bestScore = s
				cp := ins
				best = &cp
			}
		})

		if best == nil {
			continue
		}
		if !ctx.shouldInsert(bestScore) {
			continue
		}
		ws.Insert(*best)
	}
}

// sortedUnassigned returns ws's unassigned job indices ordered per
// method; SortRandom shuffles with the recreate subsystem's RNG so
// construction order is reproducible under a fixed master seed
// (original_source/.../recreate/best_insertion.rs's
// sort_unassigned_services).
func sortedUnassigned(p *problem.Problem, ws *solution.WorkingSolution, method SortMethod, prng *rng.PartitionedRNG) []int {
	jobs := make([]int, 0, len(ws.Unassigned()))
	for idx := range ws.Unassigned() {
		jobs = append(jobs, idx)
	}
	// Stable base order so only the chosen method's criterion varies the
	// result between runs with the same master seed.
	sort.Ints(jobs)

	switch method {
	case SortDemand:
		sort.SliceStable(jobs, func(i, j int) bool {
			return firstDemand(p, jobs[i]) < firstDemand(p, jobs[j])
		})
	case SortFar:
		sort.SliceStable(jobs, func(i, j int) bool {
			return averageDepotDistance(p, jobs[i]) > averageDepotDistance(p, jobs[j])
		})
	case SortClose:
		sort.SliceStable(jobs, func(i, j int) bool {
			return averageDepotDistance(p, jobs[i]) < averageDepotDistance(p, jobs[j])
		})
	case SortTimeWindow:
		sort.SliceStable(jobs, func(i, j int) bool {
			return latestWindowEnd(p, jobs[i]) < latestWindowEnd(p, jobs[j])
		})
	default:
		r := prng.ForSubsystem(rng.SubsystemRecreate)
		r.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })
	}
	return jobs
}

func firstDemand(p *problem.Problem, jobIdx int) float64 {
	d := p.Job(jobIdx).Demand
	if len(d) == 0 {
		return 0
	}
	return d[0]
}

// averageDepotDistance is the mean travel distance from every vehicle's
// depot to the job's (service, or shipment pickup) location.
func averageDepotDistance(p *problem.Problem, jobIdx int) float64 {
	job := p.Job(jobIdx)
	loc, _, _ := job.LocationFor(problem.ActivityService)
	if job.Variant == problem.JobShipment {
		loc, _, _ = job.LocationFor(problem.ActivityShipmentPickup)
	}

	var total float64
	var n int
	for i := 0; i < len(p.Vehicles); i++ {
		v := p.Vehicle(i)
		if !v.HasDepot {
			continue
		}
		total += p.Matrices(i).DistanceBetween(v.DepotLocation, loc)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func latestWindowEnd(p *problem.Problem, jobIdx int) float64 {
	job := p.Job(jobIdx)
	windows := job.ServiceWindows
	if job.Variant == problem.JobShipment {
		windows = job.DeliveryWindows
	}
	if len(windows) == 0 {
		return math.Inf(1)
	}
	max := windows[0].End
	for _, w := range windows[1:] {
		if w.End > max {
			max = w.End
		}
	}
	return max
}
