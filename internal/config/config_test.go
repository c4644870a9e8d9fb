package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hermesrouting/hermes-optimizer/internal/score"
)

func TestDefault_FieldsPopulated(t *testing.T) {
	p := Default()
	assert.Positive(t, p.PopulationSize)
	assert.Positive(t, p.Termination.Iterations)
	assert.Equal(t, "greedy", p.AcceptorStrategy)
}

func TestThreads_ResolveSingle(t *testing.T) {
	assert.Equal(t, 1, Threads{Kind: ThreadsSingle}.Resolve())
}

func TestThreads_ResolveMultiFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1, Threads{Kind: ThreadsMulti, Count: 0}.Resolve())
	assert.Equal(t, 4, Threads{Kind: ThreadsMulti, Count: 4}.Resolve())
}

func TestTermination_Iterations(t *testing.T) {
	term := Termination{Kind: TerminationIterations, Iterations: 100}
	assert.False(t, term.Met(0, 99, 0, 0, score.Score{}))
	assert.True(t, term.Met(0, 100, 0, 0, score.Score{}))
}

func TestTermination_Duration(t *testing.T) {
	term := Termination{Kind: TerminationDuration, Duration: time.Second}
	assert.False(t, term.Met(500*time.Millisecond, 0, 0, 0, score.Score{}))
	assert.True(t, term.Met(time.Second, 0, 0, 0, score.Score{}))
}

func TestTermination_Score(t *testing.T) {
	term := Termination{Kind: TerminationScore, Score: score.Score{Soft: 100}}
	assert.False(t, term.Met(0, 0, 0, 0, score.Score{Soft: 200}))
	assert.True(t, term.Met(0, 0, 0, 0, score.Score{Soft: 100}))
	assert.True(t, term.Met(0, 0, 0, 0, score.Score{Soft: 50}))
}

func TestTermination_VehiclesAndCosts(t *testing.T) {
	term := Termination{Kind: TerminationVehiclesAndCosts, Vehicles: 3, Costs: 100}
	assert.False(t, term.Met(0, 0, 0, 5, score.Score{Soft: 50}))
	assert.True(t, term.Met(0, 0, 0, 2, score.Score{Soft: 50}))
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := t.TempDir() + "/params.yaml"
	assert.NoError(t, os.WriteFile(path, []byte("seed: 5\nbogus_field: 1\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := t.TempDir() + "/params.yaml"
	assert.NoError(t, os.WriteFile(path, []byte("seed: 42\n"), 0o644))
	p, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), p.Seed)
	assert.Equal(t, Default().PopulationSize, p.PopulationSize)
}
