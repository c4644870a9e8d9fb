package matrixprovider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrowFlies_ZeroDiagonal(t *testing.T) {
	points := []Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 2, Lat: -1}}
	m, err := CrowFlies{}.FetchMatrix(points, Provider{SpeedKMH: 60})
	assert.NoError(t, err)
	n := len(points)
	for i := 0; i < n; i++ {
		assert.Zero(t, m.Distances[i*n+i])
		assert.Zero(t, m.Times[i*n+i])
	}
}

func TestCrowFlies_TimeIsDistanceOverSpeed(t *testing.T) {
	points := []Point{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 1}}
	speed := 36.0 // 10 m/s
	m, err := CrowFlies{}.FetchMatrix(points, Provider{SpeedKMH: speed})
	assert.NoError(t, err)
	dist := m.Distances[1]
	wantTime := dist / (speed / 3.6)
	assert.InDelta(t, wantTime, m.Times[1], 1e-9)
}

func TestCrowFlies_Symmetric(t *testing.T) {
	points := []Point{{Lon: 0, Lat: 0}, {Lon: 3, Lat: 4}}
	m, err := CrowFlies{}.FetchMatrix(points, Provider{SpeedKMH: 60})
	assert.NoError(t, err)
	assert.InDelta(t, m.Distances[0*2+1], m.Distances[1*2+0], 1e-9)
}

func TestInMemoryCache_RoundTrip(t *testing.T) {
	c := NewInMemoryCache()
	points := []Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}
	provider := Provider{SpeedKMH: 50}

	_, ok := c.GetCached(provider, points)
	assert.False(t, ok)

	want := Matrices{Times: []float64{0, 1, 1, 0}, Distances: []float64{0, 10, 10, 0}}
	c.Cache(provider, points, want)

	got, ok := c.GetCached(provider, points)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestInMemoryCache_DistinctProvidersDoNotCollide(t *testing.T) {
	c := NewInMemoryCache()
	points := []Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}

	c.Cache(Provider{SpeedKMH: 50}, points, Matrices{Times: []float64{0, 1, 1, 0}})
	_, ok := c.GetCached(Provider{SpeedKMH: 60}, points)
	assert.False(t, ok)
}
