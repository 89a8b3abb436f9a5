package device

import (
	"context"

	"github.com/roach88/synqs/internal/job"
	"github.com/roach88/synqs/internal/remote"
)

// Submission is what a device records when a job is accepted.
type Submission struct {
	JobID       string
	RunID       string
	Device      string
	URL         string
	PayloadHash string
	Payload     job.Payload
}

// Journal records the lifecycle of submitted jobs.
//
// Journal failures are logged by the device and never fail the circuit.
type Journal interface {
	RecordSubmission(ctx context.Context, s Submission) error
	RecordStatus(ctx context.Context, jobID string, status remote.Status, detail string) error
	RecordResult(ctx context.Context, jobID string, memory []string) error
}

// ResultReader is implemented by journals that can return a stored result.
// A device resuming a job decodes a stored result instead of polling.
type ResultReader interface {
	ReadResult(ctx context.Context, jobID string) ([]string, error)
}
