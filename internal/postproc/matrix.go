package postproc

import (
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/synqs/internal/ir"
)

// SampleMatrix holds one row per shot and one column per measured wire.
type SampleMatrix struct {
	// Wires lists the wire label of each column, in measurement order.
	Wires []int

	// Rows holds the per-shot values; every row has len(Wires) entries.
	Rows [][]int
}

// Decode parses per-shot memory records into a SampleMatrix.
//
// A positive shots requires exactly that many records; zero accepts any
// non-empty result. Each record must hold exactly len(wires) integers. A
// malformed record invalidates the whole result; nothing is truncated or
// padded.
func Decode(records []string, wires []int, shots int) (*SampleMatrix, error) {
	switch {
	case len(records) == 0:
		return nil, ir.Errorf(ir.ErrCodeDecode, "result holds no shot records")
	case shots > 0 && len(records) != shots:
		return nil, ir.Errorf(ir.ErrCodeDecode, "expected %d shot records, got %d", shots, len(records))
	}

	m := &SampleMatrix{
		Wires: slices.Clone(wires),
		Rows:  make([][]int, len(records)),
	}

	for shot, record := range records {
		tokens := strings.Fields(record)
		if len(tokens) != len(wires) {
			return nil, ir.Errorf(ir.ErrCodeDecode,
				"shot %d: expected %d values, got %d in %q", shot, len(wires), len(tokens), record)
		}
		row := make([]int, len(tokens))
		for i, tok := range tokens {
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, ir.Wrap(ir.ErrCodeDecode, err, "shot %d: value %d is not an integer", shot, i)
			}
			row[i] = v
		}
		m.Rows[shot] = row
	}

	return m, nil
}

// Shots returns the number of rows.
func (m *SampleMatrix) Shots() int {
	return len(m.Rows)
}

// columnIndex resolves a wire label to its column.
func (m *SampleMatrix) columnIndex(wire int) (int, error) {
	idx := slices.Index(m.Wires, wire)
	if idx < 0 {
		return 0, ir.Errorf(ir.ErrCodeInvalidArgument, "wire %d was not measured (measured %v)", wire, m.Wires)
	}
	return idx, nil
}

// Column returns the raw samples of one wire.
func (m *SampleMatrix) Column(wire int) ([]int, error) {
	idx, err := m.columnIndex(wire)
	if err != nil {
		return nil, err
	}
	col := make([]int, len(m.Rows))
	for shot, row := range m.Rows {
		col[shot] = row[idx]
	}
	return col, nil
}

// Restrict returns the per-shot rows restricted to wires, in the given order.
func (m *SampleMatrix) Restrict(wires []int) ([][]int, error) {
	idx := make([]int, len(wires))
	for i, w := range wires {
		c, err := m.columnIndex(w)
		if err != nil {
			return nil, err
		}
		idx[i] = c
	}

	out := make([][]int, len(m.Rows))
	for shot, row := range m.Rows {
		r := make([]int, len(idx))
		for i, c := range idx {
			r[i] = row[c]
		}
		out[shot] = r
	}
	return out, nil
}
