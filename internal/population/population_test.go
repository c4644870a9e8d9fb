package population

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

func emptySolution(t *testing.T) *solution.WorkingSolution {
	t.Helper()
	locs := []problem.Location{{Lon: 0, Lat: 0}}
	p, err := problem.Build(locs, nil, []problem.VehicleProfile{{Matrices: flatMatrices(1)}}, nil)
	assert.NoError(t, err)
	return solution.NewWorkingSolution(p)
}

func flatMatrices(n int) problem.TravelMatrices {
	z := make([]float64, n*n)
	m, _ := problem.NewTravelMatrices(n, z, z, z)
	return m
}

func TestPopulation_AddOrdersByUnassignedThenScore(t *testing.T) {
	pop := New(10, 1, 2)
	worse := NewAcceptedSolution(emptySolution(t), score.Score{Soft: 10}, nil)
	better := NewAcceptedSolution(emptySolution(t), score.Score{Soft: 5}, nil)

	assert.True(t, pop.Add(worse))
	assert.True(t, pop.Add(better))

	assert.Equal(t, better.ID, pop.Best().ID)
	assert.Equal(t, worse.ID, pop.Worst().ID)
}

func TestPopulation_DedupIdenticalStructureAndScore(t *testing.T) {
	pop := New(10, 1, 2)
	ws := emptySolution(t)
	a := NewAcceptedSolution(ws, score.Score{Soft: 5}, nil)
	b := NewAcceptedSolution(ws.Clone(), score.Score{Soft: 5}, nil)

	assert.True(t, pop.Add(a))
	assert.False(t, pop.Add(b))
	assert.Equal(t, 1, pop.Len())
}

func TestPopulation_CapacityEnforced(t *testing.T) {
	pop := New(3, 1, 2)
	for i := 0; i < 10; i++ {
		pop.Add(NewAcceptedSolution(emptySolution(t), score.Score{Soft: float64(i)}, nil))
	}
	assert.LessOrEqual(t, pop.Len(), 3)
}

func TestPopulation_BestNeverEvicted(t *testing.T) {
	pop := New(3, 1, 2)
	best := NewAcceptedSolution(emptySolution(t), score.Score{Soft: -1000}, nil)
	pop.Add(best)
	for i := 0; i < 20; i++ {
		pop.Add(NewAcceptedSolution(emptySolution(t), score.Score{Soft: float64(i)}, nil))
	}
	assert.Equal(t, best.ID, pop.Best().ID)
}
