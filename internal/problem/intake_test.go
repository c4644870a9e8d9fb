package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIntakeJSON() []byte {
	return []byte(`{
		"locations": [{"lon": 0, "lat": 0}, {"lon": 1, "lat": 0}, {"lon": 2, "lat": 0}],
		"services": [
			{"id": "s1", "location_id": 1, "demand": [1], "type": "Delivery"},
			{"id": "s2", "location_id": 2, "demand": [1],
			 "time_windows": [{"start": "2026-01-01T08:00:00Z", "end": "2026-01-01T18:00:00Z"}]}
		],
		"vehicle_profiles": [{"id": "p1", "cost_provider": {"kind": "Custom"}}],
		"vehicles": [{"id": "v1", "profile": "p1", "capacity": [10], "depot_location_id": 0}]
	}`)
}

func TestParseIntake_RoundTrips(t *testing.T) {
	in, err := ParseIntake(sampleIntakeJSON())
	require.NoError(t, err)
	assert.Len(t, in.Locations, 3)
	assert.Len(t, in.Services, 2)
}

func TestIntake_BuildProducesValidProblem(t *testing.T) {
	in, err := ParseIntake(sampleIntakeJSON())
	require.NoError(t, err)

	m := flatMatrices(3, 1)
	p, err := in.Build(map[string]TravelMatrices{"p1": m})
	require.NoError(t, err)

	assert.Equal(t, 2, p.NumJobs())
	assert.Len(t, p.Vehicles, 1)
	assert.True(t, p.Vehicles[0].HasDepot)
	assert.Len(t, p.Jobs[1].ServiceWindows, 1)
}

func TestIntake_BuildRejectsMissingMatrices(t *testing.T) {
	in, err := ParseIntake(sampleIntakeJSON())
	require.NoError(t, err)

	_, err = in.Build(nil)
	assert.Error(t, err)
}

func TestIntake_BuildRejectsUnknownVehicleProfile(t *testing.T) {
	data := []byte(`{
		"locations": [{"lon": 0, "lat": 0}],
		"vehicle_profiles": [{"id": "p1", "cost_provider": {"kind": "Custom"}}],
		"vehicles": [{"id": "v1", "profile": "missing"}]
	}`)
	in, err := ParseIntake(data)
	require.NoError(t, err)

	_, err = in.Build(map[string]TravelMatrices{"p1": flatMatrices(1, 1)})
	assert.Error(t, err)
}
