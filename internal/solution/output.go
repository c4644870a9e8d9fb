package solution

import (
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/score"
)

// OutputActivity is one visit in a RouteOutput, tagged by variant the way
// spec §6 lists them: Start, Service, End.
type OutputActivity struct {
	Variant   string  `json:"variant"`
	JobID     string  `json:"job_id,omitempty"`
	Arrival   float64 `json:"arrival"`
	Departure float64 `json:"departure"`
	Waiting   float64 `json:"waiting,omitempty"`
}

// RouteOutput is one route's reporting shape (spec §6 "Solution output...
// Per route").
type RouteOutput struct {
	VehicleID       string           `json:"vehicle_id"`
	Distance        float64          `json:"distance"`
	TransportTime   float64          `json:"transport_duration"`
	TotalDuration   float64          `json:"total_duration"`
	WaitingDuration float64          `json:"waiting_duration"`
	TotalDemand     problem.Capacity `json:"total_demand"`
	MaxLoad         problem.Capacity `json:"vehicle_maximum_load"`
	Activities      []OutputActivity `json:"activities"`
}

// Output is the top-level reporting shape (spec §6: "Top level: list of
// routes, aggregated duration, score, score breakdown, list of unassigned
// job ids").
type Output struct {
	Routes           []RouteOutput   `json:"routes"`
	AggregatedDuration float64       `json:"aggregated_duration"`
	Score            score.Score     `json:"score"`
	ScoreBreakdown   score.Breakdown `json:"score_breakdown"`
	UnassignedJobIDs []string        `json:"unassigned_job_ids"`
}

// BuildOutput renders ws into the reporting shape, given the score and
// breakdown a constraint.Framework already computed for it (this package
// has no constraint dependency of its own, so the caller passes those in
// rather than recomputing them here).
func BuildOutput(p *problem.Problem, ws *WorkingSolution, s score.Score, breakdown score.Breakdown) Output {
	out := Output{
		Score:          s,
		ScoreBreakdown: breakdown,
	}

	for _, r := range ws.Routes() {
		if len(r.Activities) == 0 {
			continue
		}
		ro := buildRouteOutput(p, r)
		out.Routes = append(out.Routes, ro)
		out.AggregatedDuration += ro.TotalDuration
	}

	for jobIdx := range ws.Unassigned() {
		out.UnassignedJobIDs = append(out.UnassignedJobIDs, p.Job(jobIdx).ExternalID)
	}
	return out
}

func buildRouteOutput(p *problem.Problem, r *Route) RouteOutput {
	v := p.Vehicle(r.VehicleIdx)
	ro := RouteOutput{
		VehicleID:       v.ExternalID,
		TransportTime:   r.TransportCost,
		WaitingDuration: r.WaitingDuration,
		TotalDemand:     r.InitialLoad,
		MaxLoad:         v.Capacity,
	}

	matrices := p.Matrices(r.VehicleIdx)
	var distance, transportTime float64
	loc := startLocation(v)
	ro.Activities = append(ro.Activities, OutputActivity{
		Variant:   "Start",
		Arrival:   r.StartTime,
		Departure: r.StartTime,
	})

	prev := loc
	for _, a := range r.Activities {
		actLoc, _, _ := p.Job(a.ID.JobIdx).LocationFor(a.ID.Kind)
		distance += matrices.DistanceBetween(prev, actLoc)
		transportTime += matrices.TimeBetween(prev, actLoc)
		prev = actLoc

		ro.Activities = append(ro.Activities, OutputActivity{
			Variant:   a.ID.Kind.String(),
			JobID:     p.Job(a.ID.JobIdx).ExternalID,
			Arrival:   a.Arrival,
			Departure: a.Departure,
			Waiting:   a.Waiting,
		})
	}

	if v.ShouldReturnToDepot && v.HasDepot {
		distance += matrices.DistanceBetween(prev, v.DepotLocation)
		transportTime += matrices.TimeBetween(prev, v.DepotLocation)
	}
	ro.Distance = distance
	ro.TransportTime = transportTime
	ro.TotalDuration = r.EndTime - r.StartTime

	ro.Activities = append(ro.Activities, OutputActivity{
		Variant:   "End",
		Arrival:   r.EndTime,
		Departure: r.EndTime,
	})
	return ro
}

func startLocation(v *problem.Vehicle) problem.LocationIndex {
	if v.HasDepot {
		return v.DepotLocation
	}
	return 0
}
