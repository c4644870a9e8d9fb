package recreate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesrouting/hermes-optimizer/internal/constraint"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// buildStarProblem gives every job a distinct location so greedy
// insertion order is observable, with one depot-returning vehicle.
func buildStarProblem(t *testing.T, numJobs int) *problem.Problem {
	t.Helper()
	n := numJobs + 1 // location 0 is the depot
	locs := make([]problem.Location, n)
	for i := range locs {
		locs[i] = problem.Location{Lon: float64(i)}
	}
	cost := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := float64(i - j)
			if d < 0 {
				d = -d
			}
			cost[i*n+j] = d
		}
	}
	matrices, err := problem.NewTravelMatrices(n, cost, cost, cost)
	require.NoError(t, err)

	jobs := make([]problem.Job, numJobs)
	for i := range jobs {
		jobs[i] = problem.Job{Idx: i, Demand: problem.Capacity{1}, ServiceLocation: problem.LocationIndex(i + 1)}
	}
	profile := problem.VehicleProfile{Matrices: matrices}
	vehicle := problem.Vehicle{
		Idx: 0, Capacity: problem.Capacity{10},
		HasDepot: true, DepotLocation: 0, ShouldReturnToDepot: true,
	}
	p, err := problem.Build(locs, jobs, []problem.VehicleProfile{profile}, []problem.Vehicle{vehicle})
	require.NoError(t, err)
	return p
}

func newContext(p *problem.Problem) *Context {
	return &Context{
		Problem:     p,
		Framework:   constraint.NewFramework(0),
		RNG:         rng.NewPartitionedRNG(1),
		Concurrency: 4,
	}
}

func TestBestInsertion_AssignsEveryJob(t *testing.T) {
	p := buildStarProblem(t, 4)
	ws := solution.NewWorkingSolution(p)
	ctx := newContext(p)

	BestInsertion{SortMethod: SortRandom}.Recreate(ctx, ws)

	assert.Empty(t, ws.Unassigned())
}

func TestConstructionBestInsertion_AssignsEveryJob(t *testing.T) {
	p := buildStarProblem(t, 4)
	ws := solution.NewWorkingSolution(p)
	ctx := newContext(p)

	ConstructionBestInsertion{}.Recreate(ctx, ws)

	assert.Empty(t, ws.Unassigned())
}

func TestRegretInsertion_AssignsEveryJob(t *testing.T) {
	p := buildStarProblem(t, 5)
	ws := solution.NewWorkingSolution(p)
	ctx := newContext(p)

	NewRegretInsertion(2).Recreate(ctx, ws)

	assert.Empty(t, ws.Unassigned())
}

func TestRegretInsertion_PanicsOnKBelowTwo(t *testing.T) {
	assert.Panics(t, func() { NewRegretInsertion(1) })
}

func TestNewStrategy_UnknownNamePanics(t *testing.T) {
	assert.Panics(t, func() { NewStrategy("nonexistent", SortRandom, 0, 2) })
}

func TestBestInsertion_DeterministicUnderFixedSeed(t *testing.T) {
	p := buildStarProblem(t, 6)

	run := func() *solution.WorkingSolution {
		ws := solution.NewWorkingSolution(p)
		ctx := newContext(p)
		BestInsertion{SortMethod: SortRandom}.Recreate(ctx, ws)
		return ws
	}

	a, b := run(), run()
	assert.Equal(t, a.NumRoutes(), b.NumRoutes())
	for _, r := range a.Routes() {
		route, ok := b.RouteAt(r.VehicleIdx)
		require.True(t, ok)
		assert.Equal(t, len(r.Activities), len(route.Activities))
	}
}
