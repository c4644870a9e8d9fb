package problem

import "fmt"

// InvalidProblemError reports a structurally invalid problem instance at
// build time: a missing required field, a dangling location id, or an
// incoherent shipment (spec §7). Field names the offending path (e.g.
// "vehicles[2].depot_location_id") so callers can surface it directly.
type InvalidProblemError struct {
	Field   string
	Message string
}

func (e *InvalidProblemError) Error() string {
	return fmt.Sprintf("invalid problem: %s: %s", e.Field, e.Message)
}

// CollaboratorError wraps a failure from an external collaborator (matrix
// provider HTTP/parse/timeout errors) surfaced as a single problem-build
// error per spec §7.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("matrix provider collaborator failed during %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
