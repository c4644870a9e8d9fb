package solution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
)

func TestPreviewInsertion_MatchesCommittedState(t *testing.T) {
	p := buildLineProblem(t)
	ws := NewWorkingSolution(p)
	ws.Insert(Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0})

	route, _ := ws.RouteAt(0)
	ins := Insertion{JobIdx: 1, VehicleIdx: 0, RouteIdx: 0, Position: 1}
	preview := PreviewInsertion(p, route, ins)
	require.Len(t, preview, 1)

	ws.Insert(ins)
	committed, _ := ws.RouteAt(0)
	got := committed.Activities[1]

	assert.Equal(t, got.Arrival, preview[0].Arrival)
	assert.Equal(t, got.Departure, preview[0].Departure)
}

func TestPreviewInsertion_NewRoute(t *testing.T) {
	p := buildLineProblem(t)
	ins := Insertion{JobIdx: 0, VehicleIdx: 0, RouteIdx: -1, Position: 0}
	preview := PreviewInsertion(p, nil, ins)
	require.Len(t, preview, 1)
	assert.Equal(t, problem.ActivityID{Kind: problem.ActivityService, JobIdx: 0}, preview[0].ID)
}
