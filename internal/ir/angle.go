package ir

import "math"

// TwoPi is the period used for all angle-like gate parameters.
const TwoPi = 2 * math.Pi

// NormalizeAngle reduces theta modulo 2π into [0, 2π).
// Negative angles wrap upwards, so -π/2 becomes 3π/2.
func NormalizeAngle(theta float64) float64 {
	r := math.Mod(theta, TwoPi)
	if r < 0 {
		r += TwoPi
	}
	// r + 2π can round up to exactly 2π for tiny negative r.
	if r >= TwoPi {
		r = 0
	}
	return r
}

// HalfAngle returns (theta/2) mod 2π.
//
// The tunneling gate of the fermionic simulator is parameterized by half
// of the requested angle; the remote service expects this convention.
func HalfAngle(theta float64) float64 {
	return NormalizeAngle(theta / 2)
}

// IsFinite reports whether f is neither NaN nor ±Inf.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
