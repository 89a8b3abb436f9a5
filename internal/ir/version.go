package ir

// Version constants for the payload format and the client.
const (
	// ClientVersion is the synqs client version reported by the CLI.
	ClientVersion = "0.2.0"

	// ExperimentKey is the single experiment slot used in every payload.
	ExperimentKey = "experiment_0"
)
