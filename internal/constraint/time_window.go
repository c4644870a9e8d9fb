package constraint

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// TimeWindow is the Activity-level constraint penalizing arrivals past an
// admissible window's end. Hard by default; Soft may be configured for
// instances that prefer a penalty over outright infeasibility (spec
// §4.2).
type TimeWindow struct {
	Lvl Level
}

func (t TimeWindow) Name() string { return "time_window" }
func (t TimeWindow) Level() Level { return t.Lvl }

func (t TimeWindow) ComputeRouteScore(p *problem.Problem, r *solution.Route) score.Score {
	var total float64
	for _, a := range r.Activities {
		job := p.Job(a.ID.JobIdx)
		_, _, windows := job.LocationFor(a.ID.Kind)
		total += problem.Overtime(windows, a.Arrival)
	}
	return t.wrap(total)
}

// ComputeInsertionScore sums the overtime delta of every activity the
// insertion's preview touches. When no update carries any overtime at
// all, the route stays within its windows and the delta is exactly
// zero — the common case for insertions into slack-rich routes (spec
// §4.2).
func (t TimeWindow) ComputeInsertionScore(ctx InsertionContext) score.Score {
	var delta float64
	for _, u := range ctx.Updates {
		job := ctx.Problem.Job(u.ID.JobIdx)
		_, _, windows := job.LocationFor(u.ID.Kind)
		newOvertime := problem.Overtime(windows, u.Arrival)

		oldOvertime := 0.0
		if old, ok := ctx.oldActivity(u); ok {
			oldJob := ctx.Problem.Job(old.ID.JobIdx)
			_, _, oldWindows := oldJob.LocationFor(old.ID.Kind)
			oldOvertime = problem.Overtime(oldWindows, old.Arrival)
		}
		delta += newOvertime - oldOvertime
	}
	return t.wrap(delta)
}

func (t TimeWindow) wrap(v float64) score.Score {
	if t.Lvl == Soft {
		return score.Score{Soft: v}
	}
	return score.Score{Hard: v}
}
