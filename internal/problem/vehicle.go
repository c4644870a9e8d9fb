package problem

// Shift bounds a vehicle's working period (spec §3).
type Shift struct {
	EarliestStart          float64
	LatestStart            float64
	HasLatestStart         bool
	LatestEnd              float64
	HasLatestEnd           bool
	MaxTransportDuration   float64
	HasMaxTransportDur     bool
	MaxWorkingDuration     float64
	HasMaxWorkingDur       bool
}

// Vehicle carries everything about one fleet member: identity, profile,
// capacity, optional depot, shift, skills, and cost knobs (spec §3).
type Vehicle struct {
	Idx        int // position in Problem.Vehicles; identity
	ExternalID string
	Profile    int // index into Problem.Profiles

	Capacity Capacity
	Skills   SkillSet

	HasDepot           bool
	DepotLocation      LocationIndex
	DepotDuration      float64
	ShouldReturnToDepot bool
	ReturnDepotDuration float64

	HasShift bool
	Shift    Shift

	HasMaxActivities bool
	MaxActivities    int

	HasFixedCost bool
	FixedCost    float64
}

// EarliestStart returns the vehicle's configured earliest start time, 0 if
// no shift is configured.
func (v *Vehicle) EarliestStart() float64 {
	if v.HasShift {
		return v.Shift.EarliestStart
	}
	return 0
}
