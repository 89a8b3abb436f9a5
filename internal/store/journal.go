package store

import (
	"context"
	"errors"

	"github.com/roach88/synqs/internal/device"
	"github.com/roach88/synqs/internal/remote"
)

var _ device.Journal = (*Store)(nil)

// RecordSubmission journals an accepted submission as QUEUED.
func (s *Store) RecordSubmission(ctx context.Context, sub device.Submission) error {
	return s.WriteJob(ctx, Job{
		JobID:       sub.JobID,
		RunID:       sub.RunID,
		Device:      sub.Device,
		URL:         sub.URL,
		PayloadHash: sub.PayloadHash,
		Payload:     sub.Payload,
		Status:      remote.StatusQueued,
	})
}

// RecordStatus updates the status of a journaled job. Jobs submitted
// elsewhere and resumed by id are not journaled and are skipped.
func (s *Store) RecordStatus(ctx context.Context, jobID string, status remote.Status, detail string) error {
	err := s.UpdateStatus(ctx, jobID, status, detail)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// RecordResult stores the fetched memory of a journaled job.
func (s *Store) RecordResult(ctx context.Context, jobID string, memory []string) error {
	err := s.WriteResult(ctx, jobID, memory)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
