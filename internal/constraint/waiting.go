package constraint

import (
	"math"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Waiting is the Route-level soft constraint: total waiting time above a
// per-problem acceptable threshold (spec §4.2).
type Waiting struct {
	// AcceptableThreshold is the per-problem waiting budget below which
	// no penalty accrues.
	AcceptableThreshold float64
}

func (Waiting) Name() string { return "waiting_duration" }
func (Waiting) Level() Level { return Soft }

func (w Waiting) ComputeRouteScore(_ *problem.Problem, r *solution.Route) score.Score {
	return score.Score{Soft: math.Max(0, r.WaitingDuration-w.AcceptableThreshold)}
}

// ComputeInsertionScore adds the waiting change of each updated activity
// minus the waiting it had before, then reapplies the threshold clip
// against the route total (spec §4.2).
func (w Waiting) ComputeInsertionScore(ctx InsertionContext) score.Score {
	oldTotal := 0.0
	if ctx.routeWasNonEmpty() {
		oldTotal = ctx.Route.WaitingDuration
	}

	rawDelta := 0.0
	for _, u := range ctx.Updates {
		oldWaiting := 0.0
		if old, ok := ctx.oldActivity(u); ok {
			oldWaiting = old.Waiting
		}
		rawDelta += u.Waiting - oldWaiting
	}
	newTotal := oldTotal + rawDelta

	oldPenalty := math.Max(0, oldTotal-w.AcceptableThreshold)
	newPenalty := math.Max(0, newTotal-w.AcceptableThreshold)
	return score.Score{Soft: newPenalty - oldPenalty}
}
