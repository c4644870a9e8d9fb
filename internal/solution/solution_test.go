package solution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
)

// buildLineProblem mirrors spec §8 scenario S1: three colinear locations,
// one vehicle returning to depot, two unit-demand services with no
// windows.
func buildLineProblem(t *testing.T) *problem.Problem {
	t.Helper()
	locs := []problem.Location{{Lon: 0}, {Lon: 1}, {Lon: 2}}
	n := 3
	cost := make([]float64, n*n)
	dist := make([]float64, n*n)
	tm := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := float64(i - j)
			if d < 0 {
				d = -d
			}
			cost[i*n+j], dist[i*n+j], tm[i*n+j] = d, d, d
		}
	}
	matrices, err := problem.NewTravelMatrices(n, cost, dist, tm)
	require.NoError(t, err)

	jobs := []problem.Job{
		{Idx: 0, Demand: problem.Capacity{1}, ServiceLocation: 1},
		{Idx: 1, Demand: problem.Capacity{1}, ServiceLocation: 2},
	}
	profile := problem.VehicleProfile{Matrices: matrices}
	vehicles := []problem.Vehicle{{
		Idx: 0, Profile: 0, Capacity: problem.Capacity{10},
		HasDepot: true, DepotLocation: 0, ShouldReturnToDepot: true,
	}}
	p, err := problem.Build(locs, jobs, []problem.VehicleProfile{profile}, vehicles)
	require.NoError(t, err)
	return p
}

func TestInsertThenRemove_PreservesPartition(t *testing.T) {
	p := buildLineProblem(t)
	ws := NewWorkingSolution(p)

	ws.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})
	ws.Insert(Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1})

	assert.Empty(t, ws.Unassigned())
	assert.Equal(t, 1, ws.NumRoutes())

	ws.RemoveJob(0)
	_, stillUnassigned := ws.Unassigned()[0]
	assert.True(t, stillUnassigned)
	assert.Len(t, ws.Unassigned(), 1)
}

func TestRemoveLastJob_DeletesRoute(t *testing.T) {
	p := buildLineProblem(t)
	ws := NewWorkingSolution(p)
	ws.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})

	ws.RemoveJob(0)
	assert.Equal(t, 0, ws.NumRoutes())
}

func TestPropagation_MatchesScenarioS1(t *testing.T) {
	p := buildLineProblem(t)
	ws := NewWorkingSolution(p)
	ws.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})
	ws.Insert(Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1})

	route, ok := ws.RouteAt(0)
	require.True(t, ok)
	assert.InDelta(t, 4.0, route.TransportCost, 1e-9, "depot(0)->1->2->depot(0) must cost 1+1+2=4")
}

func TestResync_MatchesFreshRecompute(t *testing.T) {
	p := buildLineProblem(t)
	ws := NewWorkingSolution(p)
	ws.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})
	ws.Insert(Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1})

	before, _ := ws.RouteAt(0)
	wantCost := before.TransportCost
	wantEnd := before.EndTime

	ws.Resync()
	after, _ := ws.RouteAt(0)
	assert.Equal(t, wantCost, after.TransportCost)
	assert.Equal(t, wantEnd, after.EndTime)
}

func TestBrokenPairsDistance_SymmetricAndZeroForSelf(t *testing.T) {
	p := buildLineProblem(t)
	a := NewWorkingSolution(p)
	a.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})
	a.Insert(Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1})

	b := NewWorkingSolution(p)
	b.Insert(Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: -1, Position: 0})
	b.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: 0, Position: 1})

	assert.Equal(t, 0, a.BrokenPairsDistance(a))
	assert.Equal(t, a.BrokenPairsDistance(b), b.BrokenPairsDistance(a))
}

func TestShipmentInsertion_PickupPrecedesDelivery(t *testing.T) {
	p := buildLineProblem(t)
	ws := NewWorkingSolution(p)
	// Reuse job 0 slot conceptually by building a fresh shipment problem
	// inline: pickup at loc1, delivery at loc2.
	shipmentJobs := append([]problem.Job{}, p.Jobs...)
	shipmentJobs[0].Variant = problem.JobShipment
	shipmentJobs[0].PickupLocation = 1
	shipmentJobs[0].DeliveryLocation = 2
	p2, err := problem.Build(p.Locations, shipmentJobs, p.Profiles, p.Vehicles)
	require.NoError(t, err)

	ws = NewWorkingSolution(p2)
	ws.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, IsShipment: true, PickupPos: 0, DeliveryPos: 1})

	route, _ := ws.RouteAt(0)
	pickupPos, _ := route.PositionOf(problem.ActivityID{Kind: problem.ActivityShipmentPickup, JobIdx: 0})
	deliveryPos, _ := route.PositionOf(problem.ActivityID{Kind: problem.ActivityShipmentDelivery, JobIdx: 0})
	assert.Less(t, pickupPos, deliveryPos)
}

func TestRecompute_FirstActivityAbsorbsWaitIntoRouteStart(t *testing.T) {
	p := buildLineProblem(t)
	// Job 0 sits one time unit from the depot but can't be served before
	// t=10; the vehicle should depart late enough to arrive exactly at
	// t=10 with zero waiting there, not depart at t=0 and wait 9 units.
	p.Jobs[0].ServiceWindows = []problem.TimeWindow{{Start: 10, End: 20}}

	ws := NewWorkingSolution(p)
	ws.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})

	route, _ := ws.RouteAt(0)
	assert.Equal(t, 10.0, route.Activities[0].Arrival)
	assert.Equal(t, 0.0, route.Activities[0].Waiting)
	assert.Equal(t, 0.0, route.WaitingDuration)
	assert.Equal(t, 9.0, route.StartTime) // 10 - travelTime(depot->loc1)
}

func TestIsValidTWChange_RejectsUnreachableWindow(t *testing.T) {
	p := buildLineProblem(t)
	// Tighten job 1's window to something unreachable after a late insert.
	p.Jobs[1].ServiceWindows = []problem.TimeWindow{{Start: 0, End: 0.5}}

	ws := NewWorkingSolution(p)
	ws.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})

	route, _ := ws.RouteAt(0)
	replacement := []problem.ActivityID{
		route.Activities[0].ID,
		{Kind: problem.ActivityService, JobIdx: 1},
	}
	assert.False(t, IsValidTWChange(p, route, 0, 1, replacement))
}
