package postproc

import (
	"fmt"
	"strings"

	"github.com/roach88/synqs/internal/ir"
)

// MaxTableEntries caps the size of a probability table.
const MaxTableEntries = 1 << 20

// ProbabilityEntry is the empirical probability of one outcome pattern.
type ProbabilityEntry struct {
	// Pattern holds one digit per wire; the first wire is the most
	// significant digit.
	Pattern     []int   `json:"pattern"`
	Probability float64 `json:"probability"`
}

// ProbabilityTable is the full distribution over every pattern in range,
// ordered by big-endian index: pattern 0...0 first, the maximal pattern last.
type ProbabilityTable struct {
	Wires   []int              `json:"wires"`
	Base    int                `json:"base"`
	Entries []ProbabilityEntry `json:"entries"`
}

// Probabilities builds the probability table of the given wires.
//
// Rows of the matrix restricted to wires are grouped and counted; every
// one of base^len(wires) patterns appears, zero counts included.
// Sample values outside [0, base) fail with RESULT_DECODE_FAILED.
func Probabilities(m *SampleMatrix, wires []int, base int) (*ProbabilityTable, error) {
	if m == nil {
		return nil, ir.Errorf(ir.ErrCodeInvalidState, "no samples available")
	}
	if base < 2 {
		return nil, ir.Errorf(ir.ErrCodeInvalidArgument, "probability base must be at least 2, got %d", base)
	}
	size, err := tableSize(base, len(wires))
	if err != nil {
		return nil, err
	}

	rows, err := m.Restrict(wires)
	if err != nil {
		return nil, err
	}

	counts := make([]int, size)
	for shot, row := range rows {
		idx := 0
		for _, digit := range row {
			if digit < 0 || digit >= base {
				return nil, ir.Errorf(ir.ErrCodeDecode,
					"shot %d: value %d outside [0, %d)", shot, digit, base)
			}
			idx = idx*base + digit
		}
		counts[idx]++
	}

	table := &ProbabilityTable{
		Wires:   append([]int(nil), wires...),
		Base:    base,
		Entries: make([]ProbabilityEntry, size),
	}
	total := float64(len(rows))
	for idx := range counts {
		p := 0.0
		if total > 0 {
			p = float64(counts[idx]) / total
		}
		table.Entries[idx] = ProbabilityEntry{
			Pattern:     PatternOf(idx, base, len(wires)),
			Probability: p,
		}
	}
	return table, nil
}

func tableSize(base, digits int) (int, error) {
	size := 1
	for i := 0; i < digits; i++ {
		size *= base
		if size > MaxTableEntries {
			return 0, ir.Errorf(ir.ErrCodeInvalidArgument,
				"probability table over %d wires with base %d exceeds %d entries", digits, base, MaxTableEntries)
		}
	}
	return size, nil
}

// PatternOf returns the big-endian digits of idx.
func PatternOf(idx, base, digits int) []int {
	pattern := make([]int, digits)
	for i := digits - 1; i >= 0; i-- {
		pattern[i] = idx % base
		idx /= base
	}
	return pattern
}

// IndexOf returns the big-endian index of a pattern, or -1 if out of range.
func IndexOf(pattern []int, base int) int {
	idx := 0
	for _, d := range pattern {
		if d < 0 || d >= base {
			return -1
		}
		idx = idx*base + d
	}
	return idx
}

// Lookup returns the probability of a pattern.
func (t *ProbabilityTable) Lookup(pattern []int) (float64, bool) {
	if len(pattern) != len(t.Wires) {
		return 0, false
	}
	idx := IndexOf(pattern, t.Base)
	if idx < 0 || idx >= len(t.Entries) {
		return 0, false
	}
	return t.Entries[idx].Probability, true
}

// Values returns the probabilities in table order.
func (t *ProbabilityTable) Values() []float64 {
	out := make([]float64, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Probability
	}
	return out
}

// Map returns the table keyed by pattern string ("0110"; digits are
// separated by commas when base > 10).
func (t *ProbabilityTable) Map() map[string]float64 {
	out := make(map[string]float64, len(t.Entries))
	for _, e := range t.Entries {
		out[PatternKey(e.Pattern, t.Base)] = e.Probability
	}
	return out
}

// PatternKey renders a pattern as a map key.
func PatternKey(pattern []int, base int) string {
	var b strings.Builder
	for i, d := range pattern {
		if base > 10 && i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", d)
	}
	return b.String()
}
