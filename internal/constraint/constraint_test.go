package constraint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// buildLineProblem is a three-colinear-location instance (mirrors spec
// §8 scenario S1) with a single vehicle profile shared by every test in
// this file; individual tests tune vehicle/job fields for the constraint
// under test.
func buildLineProblem(t *testing.T, vehicle problem.Vehicle, jobs []problem.Job) *problem.Problem {
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

	vehicle.Profile = 0
	profile := problem.VehicleProfile{Matrices: matrices}
	p, err := problem.Build(locs, jobs, []problem.VehicleProfile{profile}, []problem.Vehicle{vehicle})
	require.NoError(t, err)
	return p
}

// deltaMatchesFullRecompute asserts spec §8 property 3: the full score
// after committing an insertion minus the full score before it exactly
// equals the insertion's own delta score.
func deltaMatchesFullRecompute(t *testing.T, f Framework, p *problem.Problem, ws *solution.WorkingSolution, ins solution.Insertion) {
	t.Helper()
	before, _ := f.ComputeScore(p, ws)
	ctx := NewInsertionContext(p, ws, ins)
	delta := f.ComputeInsertionScore(ctx, math.Inf(1))

	ws.Insert(ins)
	after, _ := f.ComputeScore(p, ws)

	got := after.Sub(before)
	assert.InDelta(t, got.Hard, delta.Hard, 1e-9, "hard delta mismatch")
	assert.InDelta(t, got.Soft, delta.Soft, 1e-9, "soft delta mismatch")
}

func TestFramework_ServiceInsertionDeltaMatchesFullRecompute(t *testing.T) {
	vehicle := problem.Vehicle{
		Idx: 0, Capacity: problem.Capacity{10},
		HasDepot: true, DepotLocation: 0, ShouldReturnToDepot: true,
		HasFixedCost: true, FixedCost: 5,
	}
	jobs := []problem.Job{
		{Idx: 0, Demand: problem.Capacity{1}, ServiceLocation: 1},
		{Idx: 1, Demand: problem.Capacity{1}, ServiceLocation: 2},
	}
	p := buildLineProblem(t, vehicle, jobs)
	ws := solution.NewWorkingSolution(p)
	f := NewFramework(0)

	deltaMatchesFullRecompute(t, f, p, ws, solution.Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})
	deltaMatchesFullRecompute(t, f, p, ws, solution.Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1})
}

func TestFramework_ShipmentInsertionDeltaMatchesFullRecompute(t *testing.T) {
	vehicle := problem.Vehicle{
		Idx: 0, Capacity: problem.Capacity{10},
		HasDepot: true, DepotLocation: 0, ShouldReturnToDepot: true,
	}
	jobs := []problem.Job{
		{
			Idx: 0, Variant: problem.JobShipment, Demand: problem.Capacity{1},
			PickupLocation: 1, DeliveryLocation: 2,
		},
	}
	p := buildLineProblem(t, vehicle, jobs)
	ws := solution.NewWorkingSolution(p)
	f := NewFramework(0)

	deltaMatchesFullRecompute(t, f, p, ws, solution.Insertion{
		JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, IsShipment: true, PickupPos: 0, DeliveryPos: 1,
	})
}

func TestCapacity_RouteScoreFlagsOverload(t *testing.T) {
	vehicle := problem.Vehicle{Idx: 0, Capacity: problem.Capacity{1}}
	jobs := []problem.Job{
		{Idx: 0, Variant: problem.JobShipment, Demand: problem.Capacity{2},
			PickupLocation: 1, DeliveryLocation: 2},
	}
	p := buildLineProblem(t, vehicle, jobs)
	ws := solution.NewWorkingSolution(p)
	ws.Insert(solution.Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, IsShipment: true, PickupPos: 0, DeliveryPos: 1})

	route := ws.Routes()[0]
	got := Capacity{}.ComputeRouteScore(p, route)
	assert.Greater(t, got.Hard, 0.0)
}

func TestShift_DeltaStaysNonNegativeWhenInsertionOnlyGrowsTheRoute(t *testing.T) {
	vehicle := problem.Vehicle{
		Idx: 0, Capacity: problem.Capacity{10},
		HasShift: true, Shift: problem.Shift{HasLatestEnd: true, LatestEnd: -1},
	}
	jobs := []problem.Job{
		{Idx: 0, Demand: problem.Capacity{1}, ServiceLocation: 1},
		{Idx: 1, Demand: problem.Capacity{1}, ServiceLocation: 2},
	}
	p := buildLineProblem(t, vehicle, jobs)
	ws := solution.NewWorkingSolution(p)
	ws.Insert(solution.Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})

	ins := solution.Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1}
	ctx := NewInsertionContext(p, ws, ins)
	delta := Shift{}.ComputeInsertionScore(ctx)
	assert.GreaterOrEqual(t, delta.Hard, 0.0, "appending an activity can only grow the route end, so the violation can only grow too")
}

// TestShift_DeltaMatchesFullRecomputeWhenViolationShrinks cross-checks
// ComputeInsertionScore against two direct ComputeRouteScore calls for a
// route end that moves from one latest_end violation to a smaller one
// (without clearing it) — the case the growing-route regression above
// never exercises, and the case an unconditional max(0, delta) clamp would
// get wrong.
func TestShift_DeltaMatchesFullRecomputeWhenViolationShrinks(t *testing.T) {
	v := problem.Vehicle{
		Idx: 0, Capacity: problem.Capacity{10},
		HasShift: true, Shift: problem.Shift{HasLatestEnd: true, LatestEnd: 100},
	}
	p, err := problem.Build(
		[]problem.Location{{}},
		[]problem.Job{{Idx: 0, Demand: problem.Capacity{1}, ServiceLocation: 0}},
		[]problem.VehicleProfile{{}},
		[]problem.Vehicle{v},
	)
	require.NoError(t, err)

	before := solution.NewRoute(0)
	before.Activities = []solution.RouteActivity{{ID: problem.ActivityID{Kind: problem.ActivityService, JobIdx: 0}}}
	before.EndTime = 150 // violates by 50

	after := solution.NewRoute(0)
	after.Activities = before.Activities
	after.EndTime = 120 // still violates, but only by 20

	ctx := InsertionContext{Problem: p, Route: before, NewEnd: after.EndTime}
	delta := Shift{}.ComputeInsertionScore(ctx)

	fullDelta := Shift{}.ComputeRouteScore(p, after).Hard - Shift{}.ComputeRouteScore(p, before).Hard
	assert.Equal(t, fullDelta, delta.Hard)
	assert.Less(t, delta.Hard, 0.0, "a shrinking violation must be allowed to look cheaper, not get clamped to 0")
}

func TestVehicleCost_OnlyChargedOnFirstActivity(t *testing.T) {
	vehicle := problem.Vehicle{Idx: 0, Capacity: problem.Capacity{10}, HasFixedCost: true, FixedCost: 7}
	jobs := []problem.Job{
		{Idx: 0, Demand: problem.Capacity{1}, ServiceLocation: 1},
		{Idx: 1, Demand: problem.Capacity{1}, ServiceLocation: 2},
	}
	p := buildLineProblem(t, vehicle, jobs)
	ws := solution.NewWorkingSolution(p)

	first := solution.Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0}
	ctx := NewInsertionContext(p, ws, first)
	assert.Equal(t, 7.0, VehicleCost{}.ComputeInsertionScore(ctx).Soft)
	ws.Insert(first)

	second := solution.Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1}
	ctx = NewInsertionContext(p, ws, second)
	assert.Equal(t, 0.0, VehicleCost{}.ComputeInsertionScore(ctx).Soft)
}

func TestMaxActivities_FlagsOnlyWhenCrossingLimit(t *testing.T) {
	vehicle := problem.Vehicle{Idx: 0, Capacity: problem.Capacity{10}, HasMaxActivities: true, MaxActivities: 1}
	jobs := []problem.Job{
		{Idx: 0, Demand: problem.Capacity{1}, ServiceLocation: 1},
		{Idx: 1, Demand: problem.Capacity{1}, ServiceLocation: 2},
	}
	p := buildLineProblem(t, vehicle, jobs)
	ws := solution.NewWorkingSolution(p)
	ws.Insert(solution.Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})

	ins := solution.Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1}
	ctx := NewInsertionContext(p, ws, ins)
	assert.Equal(t, 1.0, MaxActivities{}.ComputeInsertionScore(ctx).Hard)
}

func TestTimeWindow_PenalizesLateArrival(t *testing.T) {
	vehicle := problem.Vehicle{
		Idx: 0, Capacity: problem.Capacity{10},
		HasDepot: true, DepotLocation: 0,
	}
	jobs := []problem.Job{
		{Idx: 0, Demand: problem.Capacity{1}, ServiceLocation: 2,
			ServiceWindows: []problem.TimeWindow{{Start: 0, End: 0}}},
	}
	p := buildLineProblem(t, vehicle, jobs)
	ws := solution.NewWorkingSolution(p)

	ins := solution.Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0}
	ctx := NewInsertionContext(p, ws, ins)
	delta := TimeWindow{Lvl: Hard}.ComputeInsertionScore(ctx)
	assert.Greater(t, delta.Hard, 0.0)
}

func TestTransportCost_MatchesRouteTotalAfterCommit(t *testing.T) {
	vehicle := problem.Vehicle{
		Idx: 0, Capacity: problem.Capacity{10},
		HasDepot: true, DepotLocation: 0, ShouldReturnToDepot: true,
	}
	jobs := []problem.Job{
		{Idx: 0, Demand: problem.Capacity{1}, ServiceLocation: 1},
		{Idx: 1, Demand: problem.Capacity{1}, ServiceLocation: 2},
	}
	p := buildLineProblem(t, vehicle, jobs)
	ws := solution.NewWorkingSolution(p)
	ws.Insert(solution.Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})

	ins := solution.Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1}
	ctx := NewInsertionContext(p, ws, ins)
	delta := TransportCost{}.ComputeInsertionScore(ctx)

	before := TransportCost{}.ComputeScore(p, ws)
	ws.Insert(ins)
	after := TransportCost{}.ComputeScore(p, ws)

	assert.InDelta(t, after.Soft-before.Soft, delta.Soft, 1e-9)
}
