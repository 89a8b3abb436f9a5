package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/job"
	"github.com/roach88/synqs/internal/remote"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestJob creates a job measuring every wire of a small payload.
func createTestJob(id, device string) Job {
	acc := job.New(2, 10)
	_ = acc.Append(ir.NewInstruction("load", []int{0}, nil))
	_ = acc.Measure([]int{0, 1})
	p := acc.Payload()
	hash, _ := ir.PayloadHash(device, p.Instructions, p.NumWires, p.Shots)
	return Job{
		JobID:       id,
		RunID:       "run-" + id,
		Device:      device,
		URL:         "http://example.org/fermions/",
		PayloadHash: hash,
		Payload:     p,
		Status:      remote.StatusQueued,
	}
}
