// Package solver implements the SolverManager control surface (spec §6):
// create a job over a Problem, start/stop it, and query its status or its
// running best solution, generalizing the teacher's single-process
// cmd/root.go "build one simulator, run it, print its metrics" shape to
// many concurrently tracked jobs addressed by id.
package solver

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hermesrouting/hermes-optimizer/internal/alns"
	"github.com/hermesrouting/hermes-optimizer/internal/config"
	"github.com/hermesrouting/hermes-optimizer/internal/population"
	"github.com/hermesrouting/hermes-optimizer/internal/problem"
)

// Status is one of spec §6's three job lifecycle states.
type Status int

const (
	Pending Status = iota
	Running
	Completed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "pending"
	}
}

// Handle exposes a running or finished job's best solution and statistics
// without exposing mutable internals (spec §6 "solver(jobId) — a handle for
// querying best and statistics").
type Handle struct {
	coordinator *alns.Coordinator
}

// Best returns the best AcceptedSolution observed so far, or nil before the
// first candidate is seeded.
func (h *Handle) Best() *population.AcceptedSolution {
	return h.coordinator.Best()
}

// Statistics returns the job's running iteration/acceptance counters (spec
// §6 "a handle for querying best and statistics").
func (h *Handle) Statistics() *alns.Statistics {
	return h.coordinator.Statistics()
}

// job is one SolverManager-tracked unit of work.
type job struct {
	mu          sync.Mutex
	status      Status
	coordinator *alns.Coordinator
	params      config.SolverParams
	done        chan struct{}
}

// Manager tracks every job created through CreateJob, addressed by a
// uuid.NewString() id (spec §6 SolverManager).
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*job
}

// NewManager creates an empty job tracker.
func NewManager() *Manager {
	return &Manager{jobs: make(map[string]*job)}
}

// CreateJob builds a Coordinator over p and params, registers it under a
// fresh id, and returns that id without starting the search (spec §6
// "create_job(problem) → jobId").
func (m *Manager) CreateJob(p *problem.Problem, params config.SolverParams) string {
	id := uuid.NewString()
	j := &job{
		status:      Pending,
		coordinator: alns.NewCoordinator(p, params),
		params:      params,
		done:        make(chan struct{}),
	}

	m.mu.Lock()
	m.jobs[id] = j
	m.mu.Unlock()

	logrus.WithField("job_id", id).Info("solver: job created")
	return id
}

// Start launches jobID's search in a background goroutine, returning false
// if the id is unknown or the job has already been started (spec §6
// "start(jobId) → bool").
func (m *Manager) Start(jobID string) bool {
	j, ok := m.get(jobID)
	if !ok {
		return false
	}

	j.mu.Lock()
	if j.status != Pending {
		j.mu.Unlock()
		return false
	}
	j.status = Running
	j.mu.Unlock()

	go func() {
		logrus.WithField("job_id", jobID).Info("solver: job started")
		j.coordinator.Run(j.params.Termination)
		j.mu.Lock()
		j.status = Completed
		j.mu.Unlock()
		close(j.done)
		logrus.WithField("job_id", jobID).Info("solver: job completed")
	}()
	return true
}

// Stop asks jobID's search threads to halt at their next iteration
// boundary, returning false if the id is unknown (spec §6 "stop(jobId) →
// bool"). Idempotent: stopping an already-stopped or not-yet-started job is
// not an error.
func (m *Manager) Stop(jobID string) bool {
	j, ok := m.get(jobID)
	if !ok {
		return false
	}
	j.coordinator.Stop()
	return true
}

// Status reports jobID's lifecycle state, and false if the id is unknown
// (spec §6 "status(jobId) → {Pending, Running, Completed}"; spec §7
// "solver not found").
func (m *Manager) Status(jobID string) (Status, bool) {
	j, ok := m.get(jobID)
	if !ok {
		return Pending, false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, true
}

// Solver returns jobID's query handle, and false if the id is unknown.
func (m *Manager) Solver(jobID string) (*Handle, bool) {
	j, ok := m.get(jobID)
	if !ok {
		return nil, false
	}
	return &Handle{coordinator: j.coordinator}, true
}

// Wait blocks until jobID's search has completed, returning false if the id
// is unknown. Used by the CLI's synchronous "solve" command; the
// asynchronous job-oriented API above never calls it itself.
func (m *Manager) Wait(jobID string) bool {
	j, ok := m.get(jobID)
	if !ok {
		return false
	}
	<-j.done
	return true
}

func (m *Manager) get(jobID string) (*job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[jobID]
	return j, ok
}
