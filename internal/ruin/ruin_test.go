package ruin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// buildTwoVehicleStarProblem gives every job a distinct location radiating
// from a shared depot, with two depot-returning vehicles so route-level
// strategies have more than one route to choose among.
func buildTwoVehicleStarProblem(t *testing.T, numJobs int) *problem.Problem {
	t.Helper()
	n := numJobs + 1
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
	vehicles := []problem.Vehicle{
		{Idx: 0, Capacity: problem.Capacity{10}, HasDepot: true, DepotLocation: 0, ShouldReturnToDepot: true},
		{Idx: 1, Capacity: problem.Capacity{10}, HasDepot: true, DepotLocation: 0, ShouldReturnToDepot: true},
	}
	p, err := problem.Build(locs, jobs, []problem.VehicleProfile{profile}, vehicles)
	require.NoError(t, err)
	return p
}

// fullyAssigned splits numJobs evenly between the problem's two vehicles,
// each inserted at the end of its route in job-index order.
func fullyAssigned(t *testing.T, p *problem.Problem, numJobs int) *solution.WorkingSolution {
	t.Helper()
	ws := solution.NewWorkingSolution(p)
	for i := 0; i < numJobs; i++ {
		vehicleIdx := i % 2
		route, ok := ws.RouteAt(vehicleIdx)
		pos := 0
		if ok {
			pos = route.Len()
		}
		ws.Insert(solution.Insertion{JobIdx: i, VehicleIdx: vehicleIdx, RouteIdx: -1, Position: pos})
	}
	return ws
}

func assertConsistent(t *testing.T, p *problem.Problem, ws *solution.WorkingSolution) {
	t.Helper()
	seen := make(map[int]int)
	for _, r := range ws.Routes() {
		for _, a := range r.Activities {
			seen[a.ID.JobIdx]++
		}
	}
	for i := 0; i < p.NumJobs(); i++ {
		_, unassigned := ws.Unassigned()[i]
		count := seen[i]
		job := p.Job(i)
		wantAssigned := len(job.Activities())
		if unassigned {
			assert.Zero(t, count, "job %d marked unassigned but still has activities on a route", i)
		} else {
			assert.Equal(t, wantAssigned, count, "job %d should have exactly %d activities placed", i, wantAssigned)
		}
	}
}

func newRuinContext(p *problem.Problem, removeCount int) *Context {
	return &Context{
		Problem:         p,
		RNG:             rng.NewPartitionedRNG(7),
		NumJobsToRemove: removeCount,
		Determinism:     3,
	}
}

func TestRandom_RemovesRequestedCount(t *testing.T) {
	p := buildTwoVehicleStarProblem(t, 6)
	ws := fullyAssigned(t, p, 6)
	ctx := newRuinContext(p, 2)

	Random{}.Ruin(ctx, ws)

	assert.Len(t, ws.Unassigned(), 2)
	assertConsistent(t, p, ws)
}

func TestRadial_RemovesRequestedCount(t *testing.T) {
	p := buildTwoVehicleStarProblem(t, 6)
	ws := fullyAssigned(t, p, 6)
	ctx := newRuinContext(p, 3)

	Radial{}.Ruin(ctx, ws)

	assert.Len(t, ws.Unassigned(), 3)
	assertConsistent(t, p, ws)
}

func TestWorst_RemovesRequestedCount(t *testing.T) {
	p := buildTwoVehicleStarProblem(t, 6)
	ws := fullyAssigned(t, p, 6)
	ctx := newRuinContext(p, 2)

	Worst{}.Ruin(ctx, ws)

	assert.Len(t, ws.Unassigned(), 2)
	assertConsistent(t, p, ws)
}

func TestString_RemovesAtLeastOneJob(t *testing.T) {
	p := buildTwoVehicleStarProblem(t, 8)
	ws := fullyAssigned(t, p, 8)
	ctx := newRuinContext(p, 100) // unbounded: strings remove whatever they cut

	NewString().Ruin(ctx, ws)

	assert.NotEmpty(t, ws.Unassigned())
	assertConsistent(t, p, ws)
}

func TestTimeRelated_RemovesRequestedCount(t *testing.T) {
	p := buildTwoVehicleStarProblem(t, 6)
	ws := fullyAssigned(t, p, 6)
	ctx := newRuinContext(p, 3)

	TimeRelated{}.Ruin(ctx, ws)

	assert.Len(t, ws.Unassigned(), 3)
	assertConsistent(t, p, ws)
}

func TestCluster_RemovesAtLeastOneJob(t *testing.T) {
	p := buildTwoVehicleStarProblem(t, 8)
	ws := fullyAssigned(t, p, 8)
	ctx := newRuinContext(p, 3)

	Cluster{}.Ruin(ctx, ws)

	assert.NotEmpty(t, ws.Unassigned())
	assertConsistent(t, p, ws)
}

func TestRoute_RemovesWholeRoutes(t *testing.T) {
	p := buildTwoVehicleStarProblem(t, 6)
	ws := fullyAssigned(t, p, 6)
	ctx := newRuinContext(p, 2)

	Route{}.Ruin(ctx, ws)

	assert.NotEmpty(t, ws.Unassigned())
	assertConsistent(t, p, ws)
	assert.Less(t, ws.NumRoutes(), 2)
}

func TestNewStrategy_UnknownNamePanics(t *testing.T) {
	assert.Panics(t, func() { NewStrategy("nonexistent") })
}

func TestNewStrategy_BuildsEveryKnownName(t *testing.T) {
	for _, name := range []string{"", "random", "radial", "worst", "string", "time-related", "cluster", "route"} {
		assert.NotPanics(t, func() { NewStrategy(name) }, name)
	}
}
