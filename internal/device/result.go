package device

import (
	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/postproc"
)

// ResultStatus tells whether a result carries values.
type ResultStatus string

const (
	// StatusPending means the job has not finished; only JobID is set.
	StatusPending ResultStatus = "PENDING"
	// StatusDone means the values are available.
	StatusDone ResultStatus = "DONE"
)

// Result is the outcome of a measurement request.
type Result struct {
	Status ResultStatus `json:"status"`
	JobID  string       `json:"job_id,omitempty"`

	// Values holds one number per requested wire (Expval, Var).
	Values []float64 `json:"values,omitempty"`

	// Samples holds one column per requested wire (Sample).
	Samples [][]float64 `json:"samples,omitempty"`

	// Probabilities is set by Probability.
	Probabilities *postproc.ProbabilityTable `json:"probabilities,omitempty"`
}

// Pending reports whether the job is still running.
func (r Result) Pending() bool {
	return r.Status == StatusPending
}

// Value returns the single value of a one-wire query.
func (r Result) Value() (float64, error) {
	if r.Pending() {
		return 0, ir.Errorf(ir.ErrCodeInvalidState, "job %s not finished", r.JobID)
	}
	if len(r.Values) != 1 {
		return 0, ir.Errorf(ir.ErrCodeInvalidArgument, "result has %d values, want 1", len(r.Values))
	}
	return r.Values[0], nil
}

func pending(jobID string) Result {
	return Result{Status: StatusPending, JobID: jobID}
}
