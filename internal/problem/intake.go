package problem

import (
	"encoding/json"
	"fmt"
	"time"
)

// Intake mirrors spec.md §6's "Problem intake" JSON shape: a structured
// object with locations, services, shipments, vehicle profiles, and
// vehicles, every numeric/time field expressed the way an API client would
// naturally send it (RFC 3339 timestamps, ISO 8601 durations) rather than
// the solver's internal float-seconds representation.
type Intake struct {
	ID             string                  `json:"id,omitempty"`
	Locations      []IntakeLocation        `json:"locations"`
	Services       []IntakeService         `json:"services,omitempty"`
	Shipments      []IntakeShipment        `json:"shipments,omitempty"`
	VehicleProfiles []IntakeVehicleProfile `json:"vehicle_profiles"`
	Vehicles       []IntakeVehicle         `json:"vehicles"`
}

// IntakeLocation is one coordinate pair, read from a JSON object with
// `lon` and `lat` fields; a bare `[lon, lat]` array is not accepted.
type IntakeLocation struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// IntakeTimeWindow is an admissible RFC 3339 interval.
type IntakeTimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IntakeServiceType distinguishes a pickup-style service from a
// delivery-style one for schema completeness (spec §6 "type ∈ {Pickup,
// Delivery}"). The solver's Capacity constraint accumulates every
// activity's demand identically regardless of this tag — see
// DESIGN.md's note on this simplification.
type IntakeServiceType string

const (
	IntakeServicePickup   IntakeServiceType = "Pickup"
	IntakeServiceDelivery IntakeServiceType = "Delivery"
)

// IntakeService is one single-visit job.
type IntakeService struct {
	ID          string             `json:"id"`
	LocationID  int                `json:"location_id"`
	Duration    string             `json:"duration,omitempty"`
	Demand      []float64          `json:"demand,omitempty"`
	Skills      []string           `json:"skills,omitempty"`
	TimeWindows []IntakeTimeWindow `json:"time_windows,omitempty"`
	Type        IntakeServiceType  `json:"type,omitempty"`
}

// IntakeShipmentLeg is one half (pickup or delivery) of a shipment.
type IntakeShipmentLeg struct {
	LocationID  int                `json:"location_id"`
	Duration    string             `json:"duration,omitempty"`
	TimeWindows []IntakeTimeWindow `json:"time_windows,omitempty"`
}

// IntakeShipment is a two-visit job: pickup then delivery, same vehicle.
type IntakeShipment struct {
	ID       string            `json:"id"`
	Pickup   IntakeShipmentLeg `json:"pickup"`
	Delivery IntakeShipmentLeg `json:"delivery"`
	Demand   []float64         `json:"demand,omitempty"`
	Skills   []string          `json:"skills,omitempty"`
}

// IntakeCostProvider selects a vehicle profile's travel-matrix source (spec
// §6: "{GraphHopperApi{gh_profile}, Osrm{}, AsTheCrowFlies{speed_kmh},
// Custom{matrices}}").
type IntakeCostProvider struct {
	Kind      string    `json:"kind"`
	GHProfile string    `json:"gh_profile,omitempty"`
	SpeedKMH  float64   `json:"speed_kmh,omitempty"`
	Cost      []float64 `json:"cost,omitempty"`
	Distance  []float64 `json:"distance,omitempty"`
	Time      []float64 `json:"time,omitempty"`
}

// IntakeVehicleProfile names a travel-matrix source shared by every vehicle
// referencing it.
type IntakeVehicleProfile struct {
	ID       string             `json:"id"`
	Provider IntakeCostProvider `json:"cost_provider"`
}

// IntakeShift bounds a vehicle's working period, every field optional.
type IntakeShift struct {
	EarliestStart            string `json:"earliest_start,omitempty"`
	LatestStart              string `json:"latest_start,omitempty"`
	LatestEnd                string `json:"latest_end,omitempty"`
	MaximumTransportDuration string `json:"maximum_transport_duration,omitempty"`
	MaximumWorkingDuration   string `json:"maximum_working_duration,omitempty"`
}

// IntakeVehicle is one fleet member.
type IntakeVehicle struct {
	ID                  string       `json:"id"`
	Profile             string       `json:"profile"`
	Shift               *IntakeShift `json:"shift,omitempty"`
	Capacity            []float64    `json:"capacity,omitempty"`
	DepotLocationID     *int         `json:"depot_location_id,omitempty"`
	DepotDuration       string       `json:"depot_duration,omitempty"`
	ShouldReturnToDepot bool         `json:"should_return_to_depot,omitempty"`
	ReturnDepotDuration string       `json:"return_depot_duration,omitempty"`
	Skills              []string     `json:"skills,omitempty"`
	MaximumActivities   *int         `json:"maximum_activities,omitempty"`
}

// ParseIntake decodes raw JSON into an Intake.
func ParseIntake(data []byte) (Intake, error) {
	var in Intake
	if err := json.Unmarshal(data, &in); err != nil {
		return Intake{}, fmt.Errorf("problem: parsing intake JSON: %w", err)
	}
	return in, nil
}

// Build converts an Intake into a validated Problem, resolving every
// vehicle profile's cost provider via customMatrices (profile id -> already
// fetched/custom TravelMatrices) — GraphHopper/OSRM fetches and the
// crow-flies fallback are the caller's responsibility through
// internal/matrixprovider before calling this (spec §1's external
// collaborator boundary).
func (in Intake) Build(customMatrices map[string]TravelMatrices) (*Problem, error) {
	locations := make([]Location, len(in.Locations))
	for i, l := range in.Locations {
		locations[i] = Location{Lon: l.Lon, Lat: l.Lat}
	}

	profileIdx := make(map[string]int, len(in.VehicleProfiles))
	profiles := make([]VehicleProfile, len(in.VehicleProfiles))
	for i, pr := range in.VehicleProfiles {
		m, ok := customMatrices[pr.ID]
		if !ok {
			return nil, fmt.Errorf("problem: no travel matrices supplied for vehicle profile %q", pr.ID)
		}
		kind, err := parseCostProviderKind(pr.Provider.Kind)
		if err != nil {
			return nil, err
		}
		profiles[i] = VehicleProfile{Idx: i, ID: pr.ID, Provider: kind, Matrices: m}
		profileIdx[pr.ID] = i
	}

	var jobs []Job
	for _, s := range in.Services {
		windows, err := parseWindows(s.TimeWindows)
		if err != nil {
			return nil, fmt.Errorf("problem: service %q: %w", s.ID, err)
		}
		duration, err := parseOptionalDuration(s.Duration)
		if err != nil {
			return nil, fmt.Errorf("problem: service %q: %w", s.ID, err)
		}
		jobs = append(jobs, Job{
			Idx:             len(jobs),
			ExternalID:      s.ID,
			Variant:         JobService,
			Demand:          Capacity(s.Demand),
			Skills:          NewSkillSet(s.Skills),
			ServiceLocation: LocationIndex(s.LocationID),
			ServiceDuration: duration,
			ServiceWindows:  windows,
		})
	}
	for _, sh := range in.Shipments {
		pickupWindows, err := parseWindows(sh.Pickup.TimeWindows)
		if err != nil {
			return nil, fmt.Errorf("problem: shipment %q pickup: %w", sh.ID, err)
		}
		deliveryWindows, err := parseWindows(sh.Delivery.TimeWindows)
		if err != nil {
			return nil, fmt.Errorf("problem: shipment %q delivery: %w", sh.ID, err)
		}
		pickupDuration, err := parseOptionalDuration(sh.Pickup.Duration)
		if err != nil {
			return nil, fmt.Errorf("problem: shipment %q pickup: %w", sh.ID, err)
		}
		deliveryDuration, err := parseOptionalDuration(sh.Delivery.Duration)
		if err != nil {
			return nil, fmt.Errorf("problem: shipment %q delivery: %w", sh.ID, err)
		}
		jobs = append(jobs, Job{
			Idx:              len(jobs),
			ExternalID:       sh.ID,
			Variant:          JobShipment,
			Demand:           Capacity(sh.Demand),
			Skills:           NewSkillSet(sh.Skills),
			PickupLocation:   LocationIndex(sh.Pickup.LocationID),
			PickupDuration:   pickupDuration,
			PickupWindows:    pickupWindows,
			DeliveryLocation: LocationIndex(sh.Delivery.LocationID),
			DeliveryDuration: deliveryDuration,
			DeliveryWindows:  deliveryWindows,
		})
	}

	vehicles := make([]Vehicle, len(in.Vehicles))
	for i, v := range in.Vehicles {
		idx, ok := profileIdx[v.Profile]
		if !ok {
			return nil, fmt.Errorf("problem: vehicle %q references unknown profile %q", v.ID, v.Profile)
		}
		vehicle := Vehicle{
			Idx:                 i,
			ExternalID:          v.ID,
			Profile:             idx,
			Capacity:            Capacity(v.Capacity),
			Skills:              NewSkillSet(v.Skills),
			ShouldReturnToDepot: v.ShouldReturnToDepot,
		}
		if v.DepotLocationID != nil {
			vehicle.HasDepot = true
			vehicle.DepotLocation = LocationIndex(*v.DepotLocationID)
			d, err := parseOptionalDuration(v.DepotDuration)
			if err != nil {
				return nil, fmt.Errorf("problem: vehicle %q: %w", v.ID, err)
			}
			vehicle.DepotDuration = d
		}
		if v.ShouldReturnToDepot {
			d, err := parseOptionalDuration(v.ReturnDepotDuration)
			if err != nil {
				return nil, fmt.Errorf("problem: vehicle %q: %w", v.ID, err)
			}
			vehicle.ReturnDepotDuration = d
		}
		if v.MaximumActivities != nil {
			vehicle.HasMaxActivities = true
			vehicle.MaxActivities = *v.MaximumActivities
		}
		if v.Shift != nil {
			shift, err := parseShift(*v.Shift)
			if err != nil {
				return nil, fmt.Errorf("problem: vehicle %q shift: %w", v.ID, err)
			}
			vehicle.HasShift = true
			vehicle.Shift = shift
		}
		vehicles[i] = vehicle
	}

	return Build(locations, jobs, profiles, vehicles)
}

func parseCostProviderKind(kind string) (CostProviderKind, error) {
	switch kind {
	case "", "Custom":
		return CostProviderCustom, nil
	case "GraphHopperApi":
		return CostProviderGraphHopperAPI, nil
	case "Osrm":
		return CostProviderOSRM, nil
	case "AsTheCrowFlies":
		return CostProviderAsTheCrowFlies, nil
	default:
		return 0, fmt.Errorf("problem: unknown cost_provider kind %q", kind)
	}
}

func parseWindows(in []IntakeTimeWindow) ([]TimeWindow, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]TimeWindow, len(in))
	for i, w := range in {
		start, err := time.Parse(time.RFC3339, w.Start)
		if err != nil {
			return nil, fmt.Errorf("time_windows[%d].start: %w", i, err)
		}
		end, err := time.Parse(time.RFC3339, w.End)
		if err != nil {
			return nil, fmt.Errorf("time_windows[%d].end: %w", i, err)
		}
		out[i] = TimeWindow{Start: float64(start.Unix()), End: float64(end.Unix())}
	}
	return out, nil
}

func parseOptionalDuration(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	d, err := ParseISO8601Duration(s)
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}

func parseShift(in IntakeShift) (Shift, error) {
	var s Shift
	if in.EarliestStart != "" {
		t, err := time.Parse(time.RFC3339, in.EarliestStart)
		if err != nil {
			return s, fmt.Errorf("earliest_start: %w", err)
		}
		s.EarliestStart = float64(t.Unix())
	}
	if in.LatestStart != "" {
		t, err := time.Parse(time.RFC3339, in.LatestStart)
		if err != nil {
			return s, fmt.Errorf("latest_start: %w", err)
		}
		s.HasLatestStart = true
		s.LatestStart = float64(t.Unix())
	}
	if in.LatestEnd != "" {
		t, err := time.Parse(time.RFC3339, in.LatestEnd)
		if err != nil {
			return s, fmt.Errorf("latest_end: %w", err)
		}
		s.HasLatestEnd = true
		s.LatestEnd = float64(t.Unix())
	}
	if in.MaximumTransportDuration != "" {
		d, err := ParseISO8601Duration(in.MaximumTransportDuration)
		if err != nil {
			return s, fmt.Errorf("maximum_transport_duration: %w", err)
		}
		s.HasMaxTransportDur = true
		s.MaxTransportDuration = d.Seconds()
	}
	if in.MaximumWorkingDuration != "" {
		d, err := ParseISO8601Duration(in.MaximumWorkingDuration)
		if err != nil {
			return s, fmt.Errorf("maximum_working_duration: %w", err)
		}
		s.HasMaxWorkingDur = true
		s.MaxWorkingDuration = d.Seconds()
	}
	return s, nil
}
