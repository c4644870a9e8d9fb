package insertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

func buildTwoVehicleProblem(t *testing.T) *problem.Problem {
	t.Helper()
	locs := []problem.Location{{Lon: 0}, {Lon: 1}, {Lon: 2}}
	n := 3
	cost := make([]float64, n*n)
	matrices, err := problem.NewTravelMatrices(n, cost, cost, cost)
	require.NoError(t, err)

	jobs := []problem.Job{
		{Idx: 0, Demand: problem.Capacity{1}, ServiceLocation: 1},
		{Idx: 1, Variant: problem.JobShipment, Demand: problem.Capacity{1}, PickupLocation: 1, DeliveryLocation: 2},
	}
	profile := problem.VehicleProfile{Matrices: matrices}
	vehicles := []problem.Vehicle{
		{Idx: 0, Capacity: problem.Capacity{10}},
		{Idx: 1, Capacity: problem.Capacity{10}, HasMaxActivities: true, MaxActivities: 1},
	}
	p, err := problem.Build(locs, jobs, []problem.VehicleProfile{profile}, vehicles)
	require.NoError(t, err)
	return p
}

func TestForEachJobInsertion_ServiceCoversEveryFreshVehicle(t *testing.T) {
	p := buildTwoVehicleProblem(t)
	ws := solution.NewWorkingSolution(p)

	var got []solution.Insertion
	ForEachJobInsertion(ws, 0, func(ins solution.Insertion) { got = append(got, ins) })

	assert.Len(t, got, 2) // one fresh-route candidate per vehicle
	for _, ins := range got {
		assert.Equal(t, -1, ins.RouteIdx)
		assert.False(t, ins.IsShipment)
		assert.Equal(t, 0, ins.Position)
	}
}

func TestForEachJobInsertion_GrowsWithExistingRoute(t *testing.T) {
	p := buildTwoVehicleProblem(t)
	ws := solution.NewWorkingSolution(p)
	ws.Insert(solution.Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})

	var got []solution.Insertion
	ForEachJobInsertion(ws, 0, func(ins solution.Insertion) {
		if ins.VehicleIdx == 0 {
			got = append(got, ins)
		}
	})

	// One route of length 1 now accepts position 0 or 1.
	assert.Len(t, got, 2)
}

func TestForEachJobInsertion_SkipsRouteAtMaxActivities(t *testing.T) {
	p := buildTwoVehicleProblem(t)
	ws := solution.NewWorkingSolution(p)
	ws.Insert(solution.Insertion{JobIdx: 0, VehicleIdx: 1, RouteIdx: -1, Position: 0})

	var got []solution.Insertion
	ForEachJobInsertion(ws, 0, func(ins solution.Insertion) {
		if ins.VehicleIdx == 1 {
			got = append(got, ins)
		}
	})
	assert.Empty(t, got, "vehicle 1's route is already at its one-activity cap")
}

func TestForEachJobInsertion_ShipmentEnumeratesOrderedPairs(t *testing.T) {
	p := buildTwoVehicleProblem(t)
	ws := solution.NewWorkingSolution(p)
	ws.Insert(solution.Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})

	var got []solution.Insertion
	ForEachJobInsertion(ws, 1, func(ins solution.Insertion) {
		if ins.VehicleIdx == 0 {
			got = append(got, ins)
		}
	})

	// Route has length 1: pickup in {0,1}, delivery in {pickup+1,...,2}.
	assert.Len(t, got, 3)
	for _, ins := range got {
		assert.True(t, ins.IsShipment)
		assert.Greater(t, ins.DeliveryPos, ins.PickupPos)
	}
}
