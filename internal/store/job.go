package store

import (
	"github.com/roach88/synqs/internal/job"
	"github.com/roach88/synqs/internal/remote"
)

// Job is one journaled submission.
type Job struct {
	JobID       string        `json:"job_id"`
	RunID       string        `json:"run_id"`
	Device      string        `json:"device"`
	URL         string        `json:"url"`
	PayloadHash string        `json:"payload_hash"`
	Payload     job.Payload   `json:"payload"`
	Status      remote.Status `json:"status"`
	Detail      string        `json:"detail,omitempty"`
	Seq         int64         `json:"seq"`
}
