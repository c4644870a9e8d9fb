package recreate

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hermesrouting/hermes-optimizer/internal/insertion"
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// RegretInsertion prioritizes the unassigned job with the largest regret,
// the summed gap between each of its 2nd..K-th best insertion costs and
// its best one — the job that is "hardest to place
// later" — rather than simply the job with the single cheapest insertion
// right now (spec §4.3, grounded on
// original_source/.../recreate/regret_insertion.rs).
type RegretInsertion struct {
	// K is the number of top insertion candidates summed into the regret
	// value; must be at least 2.
	K int
}

// NewRegretInsertion validates k, matching the original's panic on an
// unusable configuration.
func NewRegretInsertion(k int) RegretInsertion {
	if k < 2 {
		panic(fmt.Sprintf("recreate: regret-k heuristic requires k >= 2, got %d", k))
	}
	return RegretInsertion{K: k}
}

func (r RegretInsertion) Recreate(ctx *Context, ws *solution.WorkingSolution) {
	for len(ws.Unassigned()) > 0 {
		jobs := make([]int, 0, len(ws.Unassigned()))
		for idx := range ws.Unassigned() {
			jobs = append(jobs, idx)
		}

		type candidate struct {
			best   solution.Insertion
			score  score.Score
			regret score.Score
			found  bool
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
				var scored []struct {
					ins solution.Insertion
					s   score.Score
				}
				insertion.ForEachJobInsertion(ws, jobIdx, func(ins solution.Insertion) {
					s := ctx.scoreInsertion(ws, ins, nil)
					scored = append(scored, struct {
						ins solution.Insertion
						s   score.Score
					}{ins, s})
				})
				if len(scored) == 0 {
					return nil
				}
				sort.Slice(scored, func(a, b int) bool { return scored[a].s.Less(scored[b].s) })

				best := scored[0]
				limit := r.K
				if limit > len(scored) {
					limit = len(scored)
				}
				var regret score.Score
				for _, c := range scored[1:limit] {
					regret = regret.Add(c.s.Sub(best.s))
				}
				results[i] = candidate{best: best.ins, score: best.s, regret: regret, found: true}
				return nil
			})
		}
		_ = g.Wait()

		maxRegretIdx := -1
		for i, c := range results {
			if !c.found {
				continue
			}
			if maxRegretIdx == -1 || results[maxRegretIdx].regret.Less(c.regret) {
				maxRegretIdx = i
			} else if c.regret.Equal(results[maxRegretIdx].regret) {
				if ctx.RNG.ForSubsystem(rng.SubsystemRecreate).Float64() < 0.5 {
					maxRegretIdx = i
				}
			}
		}

		if maxRegretIdx == -1 {
			break
		}
		chosen := results[maxRegretIdx]
		if !ctx.shouldInsert(chosen.score) {
			break
		}
		ws.Insert(chosen.best)
	}
}
