package alns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesrouting/hermes-optimizer/internal/config"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
)

// lineProblem builds a small, deterministic VRP instance: a depot at
// location 0 and n service jobs strung out along a line, one vehicle with
// capacity large enough to serve everything on a single route.
func lineProblem(t *testing.T, n int) *problem.Problem {
	t.Helper()

	locs := make([]problem.Location, n+1)
	for i := 0; i <= n; i++ {
		locs[i] = problem.Location{Lon: float64(i), Lat: 0}
	}

	size := n + 1
	cost := make([]float64, size*size)
	dist := make([]float64, size*size)
	tm := make([]float64, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			d := float64(i - j)
			if d < 0 {
				d = -d
			}
			cost[i*size+j] = d
			dist[i*size+j] = d
			tm[i*size+j] = d
		}
	}
	matrices, err := problem.NewTravelMatrices(size, cost, dist, tm)
	require.NoError(t, err)

	jobs := make([]problem.Job, n)
	for i := 0; i < n; i++ {
		jobs[i] = problem.Job{
			Idx:             i,
			Variant:         problem.JobService,
			ServiceLocation: problem.LocationIndex(i + 1),
			Demand:          problem.Capacity{1},
		}
	}

	profiles := []problem.VehicleProfile{{Matrices: matrices}}
	vehicles := []problem.Vehicle{
		{
			Idx:      0,
			Profile:  0,
			Capacity: problem.Capacity{float64(n)},
			HasDepot: true,
		},
	}

	p, err := problem.Build(locs, jobs, profiles, vehicles)
	require.NoError(t, err)
	return p
}

func testParams() config.SolverParams {
	p := config.Default()
	p.Termination = config.Termination{Kind: config.TerminationIterations, Iterations: 50}
	p.PopulationSize = 5
	p.EliteSize = 1
	p.PopulationNClosest = 2
	p.ALNSSegmentIterations = 10
	p.TabuSize = 3
	p.TabuIterations = 2
	return p
}

func TestDriver_SeedsFeasiblePopulation(t *testing.T) {
	p := lineProblem(t, 5)
	d := NewDriver(p, testParams(), 1)

	best := d.Best()
	require.NotNil(t, best)
	assert.Equal(t, 0, best.Unassigned)
}

func TestDriver_RunImprovesOrHoldsBest(t *testing.T) {
	p := lineProblem(t, 6)
	params := testParams()
	d := NewDriver(p, params, 7)
	initial := d.Best().Score

	best := d.Run(params.Termination)

	require.NotNil(t, best)
	assert.False(t, initial.Less(best.Score), "best score should never regress")
}

func TestDriver_DeterministicUnderSameSeed(t *testing.T) {
	p1 := lineProblem(t, 6)
	p2 := lineProblem(t, 6)
	params := testParams()

	d1 := NewDriver(p1, params, 42)
	d2 := NewDriver(p2, params, 42)

	best1 := d1.Run(params.Termination)
	best2 := d2.Run(params.Termination)

	assert.Equal(t, best1.Score, best2.Score)
	assert.Equal(t, best1.Unassigned, best2.Unassigned)
}

func TestDriver_StopHaltsBeforeTermination(t *testing.T) {
	p := lineProblem(t, 6)
	params := testParams()
	params.Termination = config.Termination{Kind: config.TerminationDuration, Duration: time.Hour}
	d := NewDriver(p, params, 3)

	d.Stop()
	d.Run(params.Termination)
	assert.LessOrEqual(t, d.iteration, 1)
}

func TestCoordinator_MultiThreadConverges(t *testing.T) {
	p := lineProblem(t, 6)
	params := testParams()
	params.Threads = config.Threads{Kind: config.ThreadsMulti, Count: 2}
	params.ThreadsSyncIterationsInterval = 5

	c := NewCoordinator(p, params)
	best := c.Run(params.Termination)

	require.NotNil(t, best)
	assert.Equal(t, 0, best.Unassigned)
}
