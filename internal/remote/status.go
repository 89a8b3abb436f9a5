package remote

// Handle is the opaque job id returned by the service.
type Handle string

// String returns the job id.
func (h Handle) String() string { return string(h) }

// Status is the remote job status.
type Status string

const (
	StatusQueued  Status = "QUEUED"
	StatusRunning Status = "RUNNING"
	StatusDone    Status = "DONE"
	StatusError   Status = "ERROR"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusDone, StatusError:
		return true
	}
	return false
}

// Terminal reports whether no further status change is expected.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}
