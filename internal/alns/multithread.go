package alns

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hermesrouting/hermes-optimizer/internal/config"
	"github.com/hermesrouting/hermes-optimizer/internal/population"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
)

// Coordinator runs config.Threads.Resolve() independent Drivers over the
// same problem, each with its own RNG partition (seeded by master seed XOR
// (thread index × 2654435761) so threads never share a random stream), syncing the global
// best across them every ThreadsSyncIterationsInterval iterations (spec §4.3
// "Multi-threaded coordination", §5: "each search thread owns a
// WorkingSolution, a local population, and local adaptive-weight state;
// coordination is limited to a periodic best-solution broadcast").
type Coordinator struct {
	drivers []*Driver

	mu   sync.RWMutex
	best *population.AcceptedSolution

	OnBestSolution func(*population.AcceptedSolution)
}

// NewCoordinator builds a Driver per resolved thread, wiring each driver's
// OnBestSolution into the coordinator's shared best slot.
func NewCoordinator(p *problem.Problem, params config.SolverParams) *Coordinator {
	n := params.Threads.Resolve()
	if n < 1 {
		n = 1
	}
	c := &Coordinator{drivers: make([]*Driver, n)}
	for i := 0; i < n; i++ {
		d := NewDriver(p, params, params.Seed^int64(i*2654435761))
		d.OnBestSolution = c.observe
		c.drivers[i] = d
	}
	c.best = c.drivers[0].Best()
	return c
}

func (c *Coordinator) observe(candidate *population.AcceptedSolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.best == nil || candidate.Score.Less(c.best.Score) {
		c.best = candidate
		if c.OnBestSolution != nil {
			c.OnBestSolution(candidate)
		}
	}
}

// Best returns the best AcceptedSolution observed across every thread so
// far.
func (c *Coordinator) Best() *population.AcceptedSolution {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.best
}

// Statistics returns the coordinating thread's iteration/acceptance
// counters (spec §6: "solver(jobId) — a handle for querying best and
// statistics"). Single-threaded runs (the common case) get an exact
// picture; multi-threaded runs report thread 0's counters as a
// representative sample rather than an aggregate, since segment weight
// state is already per-thread and summing acceptance rates across threads
// would misrepresent each one's convergence behavior.
func (c *Coordinator) Statistics() *Statistics {
	return c.drivers[0].Stats
}

// Stop asks every thread to halt at its next iteration boundary.
func (c *Coordinator) Stop() {
	for _, d := range c.drivers {
		d.Stop()
	}
}

// Run launches every thread under an errgroup.Group and blocks until all
// have terminated (on term, or Stop), reinjecting the cross-thread best into
// each thread's population every ThreadsSyncIterationsInterval iterations so
// no thread wanders far from the others' progress (spec §4.3).
func (c *Coordinator) Run(term config.Termination) *population.AcceptedSolution {
	g, _ := errgroup.WithContext(context.Background())

	for i, d := range c.drivers {
		d := d
		idx := i
		g.Go(func() error {
			interval := d.Params.ThreadsSyncIterationsInterval
			if interval <= 0 {
				d.Run(term)
				return nil
			}
			segmentTerm := config.Termination{Kind: config.TerminationIterations, Iterations: interval}
			for {
				if d.stop {
					return nil
				}
				d.runSegment(segmentTerm)
				c.syncBest(d)
				logrus.WithField("thread", idx).WithField("best", d.Best().Score.String()).Debug("alns: thread synced")
				if term.Met(d.Stats.Elapsed(), d.iteration, d.Stats.IterationsSinceImprovement(), d.Best().Solution.NumRoutes(), d.Best().Score) {
					return nil
				}
			}
		})
	}

	_ = g.Wait()
	return c.Best()
}

// runSegment runs d for at most segmentTerm's iteration count (a relative
// budget, not an absolute one — the driver's own Run loop checks iteration
// counts from its own start, so the coordinator instead drives individual
// iterations directly here to keep the sync cadence exact).
func (d *Driver) runSegment(segmentTerm config.Termination) {
	for i := 0; i < segmentTerm.Iterations; i++ {
		if d.stop {
			return
		}
		d.runIteration()
	}
	if d.Params.ALNSSegmentIterations > 0 {
		d.RuinWeights.UpdateSegment(d.Params.ALNSReactionFactor, d.Params.ALNSSegmentIterations)
		d.RecreateWeights.UpdateSegment(d.Params.ALNSReactionFactor, d.Params.ALNSSegmentIterations)
	}
}

// syncBest pushes the coordinator's cross-thread best into d's population
// if it is better than d's own best (spec §4.3: "a thread that has fallen
// behind adopts the global best at the next sync point").
func (c *Coordinator) syncBest(d *Driver) {
	c.mu.Lock()
	if c.best == nil || d.Best().Score.Less(c.best.Score) {
		c.best = d.Best()
		c.mu.Unlock()
		return
	}
	globalBest := c.best
	c.mu.Unlock()

	if d.Population.Add(globalBest) {
		if globalBest.Score.Less(d.best.Score) {
			d.best = globalBest
		}
	}
}
