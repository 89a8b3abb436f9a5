// Package postproc turns raw per-shot memory into observable estimates.
//
// The remote service returns one whitespace-separated record per shot, one
// integer per measured wire, in measurement order. Decode builds a
// SampleMatrix whose columns keep that wire order; every reduction
// resolves wires through the matrix, never by raw column index.
//
// Reductions:
//   - Expectation / Variance: column mean / population variance of the
//     transformed samples (Identity short-circuits to 1.0 / 0.0)
//   - Samples: the transformed per-shot columns
//   - Probabilities: empirical distribution over all base^n patterns
package postproc
