package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/synqs/internal/remote"
)

// WriteJob inserts a job record. The seq is assigned here.
// Uses ON CONFLICT(job_id) DO NOTHING for idempotency - a job written twice
// keeps its first record.
func (s *Store) WriteJob(ctx context.Context, j Job) error {
	payload, err := json.Marshal(j.Payload)
	if err != nil {
		return fmt.Errorf("write job: marshal payload: %w", err)
	}
	status := j.Status
	if status == "" {
		status = remote.StatusQueued
	}

	// WHERE true keeps SQLite from parsing ON CONFLICT as a join clause.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO jobs
		(job_id, run_id, device, url, payload_hash, payload, num_wires, shots, status, detail, seq)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1 FROM jobs WHERE true
		ON CONFLICT(job_id) DO NOTHING
	`,
		j.JobID,
		j.RunID,
		j.Device,
		j.URL,
		j.PayloadHash,
		string(payload),
		j.Payload.NumWires,
		j.Payload.Shots,
		string(status),
		j.Detail,
	)
	if err != nil {
		return fmt.Errorf("write job: %w", err)
	}
	return nil
}

// UpdateStatus sets the last known status of a job.
// Returns ErrNotFound if the job is not journaled.
func (s *Store) UpdateStatus(ctx context.Context, jobID string, status remote.Status, detail string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, detail = ? WHERE job_id = ?
	`, string(status), detail, jobID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update status %s: %w", jobID, ErrNotFound)
	}
	return nil
}

// WriteResult stores the memory records of a journaled job.
// Uses ON CONFLICT DO NOTHING for idempotency - the first result wins.
// Returns ErrNotFound if the job is not journaled.
func (s *Store) WriteResult(ctx context.Context, jobID string, memory []string) error {
	if memory == nil {
		memory = []string{}
	}
	data, err := json.Marshal(memory)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO results (job_id, memory)
		SELECT job_id, ? FROM jobs WHERE job_id = ?
		ON CONFLICT(job_id) DO NOTHING
	`, string(data), jobID)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if n == 0 {
		if _, err := s.ReadJob(ctx, jobID); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}
