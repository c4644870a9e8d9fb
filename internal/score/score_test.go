package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_LexicographicOrdering(t *testing.T) {
	better := Score{Hard: 0, Soft: 100}
	worse := Score{Hard: 1, Soft: 0}
	assert.True(t, better.Less(worse), "lower hard must always win regardless of soft")
}

func TestScore_SoftBreaksTies(t *testing.T) {
	a := Score{Hard: 0, Soft: 10}
	b := Score{Hard: 0, Soft: 20}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestScore_AddSubRoundTrip(t *testing.T) {
	a := Score{Hard: 2, Soft: 5}
	delta := Score{Hard: 1, Soft: -3}
	assert.Equal(t, a, a.Add(delta).Sub(delta))
}

func TestScore_IsFailure(t *testing.T) {
	assert.True(t, Score{Hard: 0.01}.IsFailure())
	assert.False(t, Score{Hard: 0}.IsFailure())
}

func TestBreakdown_TotalMatchesSum(t *testing.T) {
	b := Breakdown{
		"capacity":  {Hard: 1, Soft: 0},
		"transport": {Hard: 0, Soft: 42},
	}
	assert.Equal(t, Score{Hard: 1, Soft: 42}, b.Total())
}
