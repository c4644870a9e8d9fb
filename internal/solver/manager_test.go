package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesrouting/hermes-optimizer/internal/config"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
)

func tinyProblem(t *testing.T) *problem.Problem {
	t.Helper()
	locs := []problem.Location{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 2, Lat: 0}}
	z := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := float64(i - j)
			if d < 0 {
				d = -d
			}
			z[i*3+j] = d
		}
	}
	matrices, err := problem.NewTravelMatrices(3, z, z, z)
	require.NoError(t, err)
	jobs := []problem.Job{
		{Idx: 0, Variant: problem.JobService, ServiceLocation: 1, Demand: problem.Capacity{1}},
		{Idx: 1, Variant: problem.JobService, ServiceLocation: 2, Demand: problem.Capacity{1}},
	}
	vehicles := []problem.Vehicle{{Idx: 0, Profile: 0, Capacity: problem.Capacity{10}, HasDepot: true}}
	p, err := problem.Build(locs, jobs, []problem.VehicleProfile{{Matrices: matrices}}, vehicles)
	require.NoError(t, err)
	return p
}

func testParams() config.SolverParams {
	p := config.Default()
	p.Termination = config.Termination{Kind: config.TerminationIterations, Iterations: 20}
	p.PopulationSize = 3
	p.EliteSize = 1
	p.PopulationNClosest = 1
	return p
}

func TestManager_StatusUnknownJob(t *testing.T) {
	m := NewManager()
	_, ok := m.Status("does-not-exist")
	assert.False(t, ok)
}

func TestManager_LifecyclePendingRunningCompleted(t *testing.T) {
	m := NewManager()
	id := m.CreateJob(tinyProblem(t), testParams())

	status, ok := m.Status(id)
	require.True(t, ok)
	assert.Equal(t, Pending, status)

	assert.True(t, m.Start(id))
	assert.False(t, m.Start(id), "starting twice should fail")

	assert.True(t, m.Wait(id))
	status, ok = m.Status(id)
	require.True(t, ok)
	assert.Equal(t, Completed, status)
}

func TestManager_SolverHandleReportsBest(t *testing.T) {
	m := NewManager()
	id := m.CreateJob(tinyProblem(t), testParams())

	h, ok := m.Solver(id)
	require.True(t, ok)
	require.NotNil(t, h.Best())

	m.Start(id)
	m.Wait(id)
	assert.Equal(t, 0, h.Best().Unassigned)
}

func TestManager_StopUnknownJobReturnsFalse(t *testing.T) {
	m := NewManager()
	assert.False(t, m.Stop("nope"))
}
