package postproc

import (
	"fmt"

	"github.com/roach88/synqs/internal/ir"
)

// Kind selects how raw samples are transformed before reduction.
type Kind int

const (
	// KindIdentity always measures 1.
	KindIdentity Kind = iota
	// KindRaw passes samples through (particle number, atom number).
	KindRaw
	// KindSignFlip maps s to 1 - 2s (PauliZ).
	KindSignFlip
	// KindCentered maps s to s - d/2 (Lz).
	KindCentered
	// KindCenteredSquared maps s to (s - d/2)^2 (Lz^2).
	KindCenteredSquared
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindRaw:
		return "raw"
	case KindSignFlip:
		return "sign_flip"
	case KindCentered:
		return "centered"
	case KindCenteredSquared:
		return "centered_squared"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Transform applies the kind's per-sample map. quditDim is only used by
// the centered kinds.
func Transform(kind Kind, s int, quditDim int) float64 {
	v := float64(s)
	switch kind {
	case KindIdentity:
		return 1
	case KindSignFlip:
		return 1 - 2*v
	case KindCentered:
		return v - float64(quditDim)/2
	case KindCenteredSquared:
		c := v - float64(quditDim)/2
		return c * c
	default:
		return v
	}
}

// Samples returns the transformed samples, one column per requested wire.
func Samples(m *SampleMatrix, kind Kind, wires []int, quditDim int) ([][]float64, error) {
	if m == nil {
		return nil, ir.Errorf(ir.ErrCodeInvalidState, "no samples available")
	}
	out := make([][]float64, len(wires))
	for i, w := range wires {
		col, err := m.Column(w)
		if err != nil {
			return nil, err
		}
		values := make([]float64, len(col))
		for shot, s := range col {
			values[shot] = Transform(kind, s, quditDim)
		}
		out[i] = values
	}
	return out, nil
}

// Expectation returns the mean of the transformed samples per wire.
// The identity observable is 1.0 per wire and never touches the matrix.
func Expectation(m *SampleMatrix, kind Kind, wires []int, quditDim int) ([]float64, error) {
	if kind == KindIdentity {
		return constant(len(wires), 1), nil
	}
	cols, err := Samples(m, kind, wires, quditDim)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cols))
	for i, col := range cols {
		out[i] = mean(col)
	}
	return out, nil
}

// Variance returns the population variance of the transformed samples per wire.
// The identity observable has variance 0.0 and never touches the matrix.
func Variance(m *SampleMatrix, kind Kind, wires []int, quditDim int) ([]float64, error) {
	if kind == KindIdentity {
		return constant(len(wires), 0), nil
	}
	cols, err := Samples(m, kind, wires, quditDim)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cols))
	for i, col := range cols {
		out[i] = variance(col)
	}
	return out, nil
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mu := mean(values)
	var sum float64
	for _, v := range values {
		d := v - mu
		sum += d * d
	}
	return sum / float64(len(values))
}
