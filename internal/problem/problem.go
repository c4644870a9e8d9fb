package problem

import "fmt"

// Problem is the immutable VRP instance shared by reference among every
// concurrent search thread and insertion task (spec §9: "model it as an
// immutable arc-counted handle and clone the handle, not the data"). Go's
// garbage collector plus passing *Problem around is that handle: nothing
// in this package ever mutates a Problem after Build returns it.
type Problem struct {
	ID        string
	Locations []Location
	Jobs      []Job
	Profiles  []VehicleProfile
	Vehicles  []Vehicle

	// Derived indices, computed once in Build.
	CapacityDim int
}

// Build validates raw, loosely-typed intake data and produces an immutable
// Problem, or an *InvalidProblemError naming the first offending field
// (spec §6, §7). Construction is the only place field-path validation
// happens; everything downstream assumes a built Problem is coherent.
func Build(locations []Location, jobs []Job, profiles []VehicleProfile, vehicles []Vehicle) (*Problem, error) {
	n := len(locations)

	for i, p := range profiles {
		if p.Matrices.N != 0 && p.Matrices.N != n {
			return nil, &InvalidProblemError{
				Field:   fmt.Sprintf("vehicle_profiles[%d].matrices", i),
				Message: fmt.Sprintf("matrix dimension %d does not match %d locations", p.Matrices.N, n),
			}
		}
	}

	dim := -1
	for i, j := range jobs {
		if dim == -1 {
			dim = len(j.Demand)
		} else if len(j.Demand) != dim {
			return nil, &InvalidProblemError{
				Field:   fmt.Sprintf("jobs[%d].demand", i),
				Message: "demand vector dimension mismatch across jobs",
			}
		}
		switch j.Variant {
		case JobService:
			if int(j.ServiceLocation) < 0 || int(j.ServiceLocation) >= n {
				return nil, &InvalidProblemError{
					Field:   fmt.Sprintf("jobs[%d].location_id", i),
					Message: "dangling location id",
				}
			}
		case JobShipment:
			if int(j.PickupLocation) < 0 || int(j.PickupLocation) >= n {
				return nil, &InvalidProblemError{
					Field:   fmt.Sprintf("jobs[%d].pickup.location_id", i),
					Message: "dangling location id",
				}
			}
			if int(j.DeliveryLocation) < 0 || int(j.DeliveryLocation) >= n {
				return nil, &InvalidProblemError{
					Field:   fmt.Sprintf("jobs[%d].delivery.location_id", i),
					Message: "dangling location id",
				}
			}
		default:
			return nil, &InvalidProblemError{
				Field:   fmt.Sprintf("jobs[%d]", i),
				Message: "job must be a service or a shipment",
			}
		}
	}
	if dim == -1 {
		dim = 0
	}

	for i, v := range vehicles {
		if v.Profile < 0 || v.Profile >= len(profiles) {
			return nil, &InvalidProblemError{
				Field:   fmt.Sprintf("vehicles[%d].profile", i),
				Message: "unknown vehicle profile",
			}
		}
		if len(v.Capacity) != 0 && len(v.Capacity) != dim {
			return nil, &InvalidProblemError{
				Field:   fmt.Sprintf("vehicles[%d].capacity", i),
				Message: "capacity vector dimension mismatch against job demands",
			}
		}
		if v.HasDepot && (int(v.DepotLocation) < 0 || int(v.DepotLocation) >= n) {
			return nil, &InvalidProblemError{
				Field:   fmt.Sprintf("vehicles[%d].depot_location_id", i),
				Message: "dangling location id",
			}
		}
	}

	return &Problem{
		Locations:   locations,
		Jobs:        jobs,
		Profiles:    profiles,
		Vehicles:    vehicles,
		CapacityDim: dim,
	}, nil
}

// Job returns the job at idx.
func (p *Problem) Job(idx int) *Job {
	return &p.Jobs[idx]
}

// Vehicle returns the vehicle at idx.
func (p *Problem) Vehicle(idx int) *Vehicle {
	return &p.Vehicles[idx]
}

// Matrices returns the travel matrices for the given vehicle's profile.
func (p *Problem) Matrices(vehicleIdx int) TravelMatrices {
	return p.Profiles[p.Vehicles[vehicleIdx].Profile].Matrices
}

// Location returns the location at idx.
func (p *Problem) Location(idx LocationIndex) Location {
	return p.Locations[idx]
}

// NumJobs returns the number of jobs in the instance.
func (p *Problem) NumJobs() int {
	return len(p.Jobs)
}
