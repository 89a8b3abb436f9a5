// Package device adapts the remote simulators to a circuit-execution
// lifecycle.
//
// One generic Device is parameterized by a Kind: the single-qudit,
// multi-qudit and fermionic simulators differ only in their catalog, wire
// limits, endpoint and metadata. A Device moves through
//
//	IDLE -> ACCUMULATING -> PENDING -> DONE -> IDLE
//
// PreApply allocates a payload, Apply appends instructions, PreMeasure
// measures every device wire and submits. Expval, Var, Sample and
// Probability fetch and decode the result exactly once per job and report
// a Pending result while a non-blocking job is unfinished.
package device
