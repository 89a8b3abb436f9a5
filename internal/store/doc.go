// Package store provides the SQLite journal of submitted simulator jobs.
//
// The journal has two tables:
//   - jobs: one row per accepted submission, with the exact payload sent,
//     its content hash, the run id and the last known status
//   - results: the per-shot memory records fetched for a job
//
// # Patterns
//
// Idempotent writes
//   - WriteJob and WriteResult use ON CONFLICT DO NOTHING
//   - Re-recording a job or its result is a no-op
//
// Logical ordering
//   - jobs.seq is assigned on insert and increases monotonically
//   - ListJobs orders by seq ASC, job_id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: results reference jobs
package store
