package recreate

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/hermesrouting/hermes-optimizer/internal/insertion"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// ConstructionBestInsertion builds a solution from scratch, repeatedly
// scoring every unassigned job's every candidate insertion concurrently
// and committing only the single globally cheapest one per round (spec
// §4.3, grounded on
// original_source/.../recreate/construction_best_insertion.rs's
// rayon par_iter, generalized to golang.org/x/sync/errgroup).
type ConstructionBestInsertion struct{}

func (ConstructionBestInsertion) Recreate(ctx *Context, ws *solution.WorkingSolution) {
	for len(ws.Unassigned()) > 0 {
		jobs := make([]int, 0, len(ws.Unassigned()))
		for idx := range ws.Unassigned() {
			jobs = append(jobs, idx)
		}

		type candidate struct {
			ins   solution.Insertion
			score score.Score
			found bool
		}
		results := make([]candidate, len(jobs))

		g, _ := errgroup.WithContext(context.Background())
		limit := ctx.Concurrency
		if limit <= 0 {
			limit = 1
		}
		g.SetLimit(limit)

		for i, jobIdx := range jobs {
			i, jobIdx := i, jobIdx
			g.Go(func() error {
				bestScore := score.Score{Hard: math.Inf(1), Soft: math.Inf(1)}
				var best solution.Insertion
				found := false

				insertion.ForEachJobInsertion(ws, jobIdx, func(ins solution.Insertion) {
					s := ctx.scoreInsertion(ws, ins, &bestScore)
					if s.Less(bestScore) {
						bestScore = s
						best = ins
						found = true
					}
				})

				results[i] = candidate{ins: best, score: bestScore, found: found}
				return nil
			})
		}
		_ = g.Wait()

		bestScore := score.Score{Hard: math.Inf(1), Soft: math.Inf(1)}
		var best solution.Insertion
		found := false
		for _, c := range results {
			if c.found && c.score.Less(bestScore) {
				bestScore = c.score
				best = c.ins
				found = true
			}
		}

		if !found || !ctx.shouldInsert(bestScore) {
			break
		}
		ws.Insert(best)
	}
}
