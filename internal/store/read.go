package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/synqs/internal/remote"
)

const jobColumns = `job_id, run_id, device, url, payload_hash, payload, status, detail, seq`

// ReadJob returns the journaled job with the given id.
func (s *Store) ReadJob(ctx context.Context, jobID string) (Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE job_id = ?`, jobID)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, fmt.Errorf("read job %s: %w", jobID, ErrNotFound)
	}
	if err != nil {
		return Job{}, fmt.Errorf("read job %s: %w", jobID, err)
	}
	return j, nil
}

// ReadResult returns the stored memory records of a job.
// Returns ErrNotFound if no result has been stored.
func (s *Store) ReadResult(ctx context.Context, jobID string) ([]string, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT memory FROM results WHERE job_id = ?`, jobID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read result %s: %w", jobID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read result %s: %w", jobID, err)
	}

	var memory []string
	if err := json.Unmarshal([]byte(data), &memory); err != nil {
		return nil, fmt.Errorf("read result %s: unmarshal: %w", jobID, err)
	}
	return memory, nil
}

// ListJobs returns journaled jobs ordered by seq. An empty device lists
// every device.
//
// Returns an empty slice (not nil) if no jobs exist.
func (s *Store) ListJobs(ctx context.Context, device string) ([]Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE ? = '' OR device = ?
		ORDER BY seq ASC, job_id COLLATE BINARY ASC
	`, device, device)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (Job, error) {
	var (
		j       Job
		payload string
		status  string
	)
	if err := row.Scan(&j.JobID, &j.RunID, &j.Device, &j.URL, &j.PayloadHash, &payload, &status, &j.Detail, &j.Seq); err != nil {
		return Job{}, err
	}
	if err := json.Unmarshal([]byte(payload), &j.Payload); err != nil {
		return Job{}, fmt.Errorf("unmarshal payload of %s: %w", j.JobID, err)
	}
	j.Status = remote.Status(status)
	return j, nil
}
