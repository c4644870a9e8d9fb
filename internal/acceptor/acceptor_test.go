package acceptor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hermesrouting/hermes-optimizer/internal/score"
)

func TestGreedy_AcceptsWhenPopulationNotFull(t *testing.T) {
	g := Greedy{}
	assert.True(t, g.Accept(Context{Candidate: score.Score{Soft: 100}, PopulationFull: false}))
}

func TestGreedy_RejectsWorseThanWorstWhenFull(t *testing.T) {
	g := Greedy{}
	ctx := Context{Candidate: score.Score{Soft: 10}, Worst: score.Score{Soft: 5}, PopulationFull: true}
	assert.False(t, g.Accept(ctx))
}

func TestGreedy_AcceptsBetterThanWorstWhenFull(t *testing.T) {
	g := Greedy{}
	ctx := Context{Candidate: score.Score{Soft: 1}, Worst: score.Score{Soft: 5}, PopulationFull: true}
	assert.True(t, g.Accept(ctx))
}

func TestAny_AlwaysAccepts(t *testing.T) {
	assert.True(t, Any{}.Accept(Context{Candidate: score.Score{Hard: 100}, Worst: score.Score{}, PopulationFull: true}))
}

func TestSchrimpf_ThresholdShrinksOverIterations(t *testing.T) {
	s := Schrimpf{T0: 10, Alpha: 1}
	early := s.threshold(0, 100)
	late := s.threshold(99, 100)
	assert.Greater(t, early, late)
}

func TestSchrimpf_HardScoreDominates(t *testing.T) {
	s := Schrimpf{T0: 1000, Alpha: 1}
	ctx := Context{
		Candidate: score.Score{Hard: 1, Soft: 0}, Worst: score.Score{Hard: 0, Soft: 1000},
		PopulationFull: true, Iteration: 0, TotalIterations: 100,
	}
	assert.False(t, s.Accept(ctx), "a hard-infeasible candidate must never beat a feasible worst regardless of threshold")
}

func TestSimulatedAnnealing_AlwaysAcceptsImprovement(t *testing.T) {
	sa := SimulatedAnnealing{T0: 0.0001, Alpha: 1}
	ctx := Context{
		Candidate: score.Score{Soft: 1}, Source: score.Score{Soft: 10},
		Iteration: 50, TotalIterations: 100, RNG: rand.New(rand.NewSource(1)),
	}
	assert.True(t, sa.Accept(ctx))
}

func TestSimulatedAnnealing_RejectsWorseHardScore(t *testing.T) {
	sa := SimulatedAnnealing{T0: 1000, Alpha: 1}
	ctx := Context{
		Candidate: score.Score{Hard: 1}, Source: score.Score{Hard: 0},
		Iteration: 0, TotalIterations: 100, RNG: rand.New(rand.NewSource(1)),
	}
	assert.False(t, sa.Accept(ctx))
}

func TestNewSelector_BuildsSelectBest(t *testing.T) {
	assert.Equal(t, SelectBest{}, NewSelector("select-best"))
}

func TestNewAcceptor_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { NewAcceptor("bogus", 0, 0) })
}

func TestNewSelector_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { NewSelector("bogus") })
}
