// Package ir provides the shared data model for synqs devices.
//
// This package contains the instruction tuple sent to the remote
// simulators, angle normalization helpers, canonical JSON for payload
// identity, and the error taxonomy used by every other internal package.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Instructions are immutable once built (constructors copy slices)
//   - Wire lists and parameter lists encode as [] and never as null
//   - Angle parameters are stored reduced to [0, 2π)
//   - All JSON tags use snake_case
package ir
