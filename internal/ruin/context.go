// Package ruin implements the "ruin" half of ALNS: strategies that remove a
// handful of jobs from a working solution so a recreate.Strategy can
// reinsert them differently (spec §4.2, grounded on
// original_source/.../solver/ruin/*.rs).
package ruin

import (
	"fmt"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
	"github.com/hermesrouting/hermes-optimizer/internal/rng"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Context carries everything a Strategy needs to decide what to remove.
// Unlike recreate.Context it never scores insertions, so it has no
// constraint.Framework dependency.
type Context struct {
	Problem *problem.Problem
	RNG     *rng.PartitionedRNG

	// NumJobsToRemove is the removal budget of a single Ruin call. Random,
	// Radial, Worst, TimeRelated and Cluster stop once it is spent, or
	// earlier if the solution runs out of removable jobs; Route removes
	// whole routes until at least this many jobs are gone, so it can remove
	// more; String does not read it and sizes its strings from its own
	// parameters.
	NumJobsToRemove int

	// Determinism is RuinWorst's bias exponent p: candidates are sorted by
	// savings, worst-placed first, and index floor(y^p * n) is taken for a
	// uniform y. p = 1 gives a uniform pick, larger values concentrate the
	// pick on the worst-placed jobs, and values below 1 skew it toward the
	// jobs whose removal saves the least.
	Determinism float64
}

// Strategy removes jobs from ws, mutating it in place. Like
// recreate.Strategy this is a genuinely open, user-selectable interface —
// not the constraint package's closed tagged union — because new ruin
// heuristics are meant to be added without touching every call site (spec
// §4.2).
type Strategy interface {
	Ruin(ctx *Context, ws *solution.WorkingSolution)
}

// NewStrategy builds a Strategy by name, mirroring recreate.NewStrategy's
// factory-by-name convention. Empty string defaults to "random".
func NewStrategy(name string) Strategy {
	switch name {
	case "", "random":
		return Random{}
	case "radial":
		return Radial{}
	case "worst":
		return Worst{}
	case "string":
		return NewString()
	case "time-related":
		return TimeRelated{}
	case "cluster":
		return Cluster{}
	case "route":
		return Route{}
	default:
		panic(fmt.Sprintf("ruin: unknown strategy %q", name))
	}
}

// assignedJobs returns the distinct job indices currently on some route,
// deduplicating a Shipment's two activities into one entry.
func assignedJobs(ws *solution.WorkingSolution) []int {
	seen := make(map[int]struct{})
	var jobs []int
	for _, r := range ws.NonEmptyRoutes() {
		for _, a := range r.Activities {
			if _, ok := seen[a.ID.JobIdx]; ok {
				continue
			}
			seen[a.ID.JobIdx] = struct{}{}
			jobs = append(jobs, a.ID.JobIdx)
		}
	}
	return jobs
}

// jobLocation returns the location a job's relatedness/distance
// calculations key off: a Service's location, or a Shipment's pickup
// location.
func jobLocation(p *problem.Problem, jobIdx int) problem.LocationIndex {
	job := p.Job(jobIdx)
	if job.Variant == problem.JobShipment {
		return job.PickupLocation
	}
	return job.ServiceLocation
}

// defaultMatrices picks the travel matrices used for job-to-job
// relatedness measures that aren't tied to one specific route's vehicle —
// profile 0, the same simplification the original makes when it asks
// "vehicle 0" for a distance irrespective of who ultimately serves a job.
func defaultMatrices(p *problem.Problem) problem.TravelMatrices {
	return p.Profiles[0].Matrices
}
