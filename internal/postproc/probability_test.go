package postproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/synqs/internal/ir"
)

func TestProbabilitiesAllShotsSamePattern(t *testing.T) {
	records := make([]string, 50)
	for i := range records {
		records[i] = "0 0 1 1 0 0 0 0"
	}
	m, err := Decode(records, []int{0, 1, 2, 3, 4, 5, 6, 7}, len(records))
	require.NoError(t, err)

	table, err := Probabilities(m, []int{0, 1, 2, 3}, 2)
	require.NoError(t, err)

	require.Len(t, table.Entries, 16)
	for idx, e := range table.Entries {
		if idx == 3 {
			assert.Equal(t, []int{0, 0, 1, 1}, e.Pattern)
			assert.Equal(t, 1.0, e.Probability)
			continue
		}
		assert.Equal(t, 0.0, e.Probability, "pattern %v", e.Pattern)
	}

	keys := table.Map()
	assert.Len(t, keys, 16)
	assert.Equal(t, 1.0, keys["0011"])
	assert.Equal(t, 0.0, keys["1100"])
}

func TestProbabilitiesOrderingIsBigEndian(t *testing.T) {
	m, err := Decode([]string{"0 1", "1 0", "1 0", "1 1"}, []int{0, 1}, 4)
	require.NoError(t, err)

	table, err := Probabilities(m, []int{0, 1}, 2)
	require.NoError(t, err)

	patterns := make([][]int, len(table.Entries))
	for i, e := range table.Entries {
		patterns[i] = e.Pattern
	}
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, patterns)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.25}, table.Values())
}

func TestProbabilitiesSingleWire(t *testing.T) {
	m, err := Decode([]string{"0 0 1 1", "0 0 1 1"}, []int{0, 1, 2, 3}, 2)
	require.NoError(t, err)

	table, err := Probabilities(m, []int{3}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, table.Values())
}

func TestProbabilitiesFollowRequestedWireOrder(t *testing.T) {
	m, err := Decode([]string{"1 0"}, []int{0, 1}, 1)
	require.NoError(t, err)

	table, err := Probabilities(m, []int{1, 0}, 2)
	require.NoError(t, err)

	p, ok := table.Lookup([]int{0, 1})
	require.True(t, ok)
	assert.Equal(t, 1.0, p)
}

func TestProbabilitiesQuditBase(t *testing.T) {
	m, err := Decode([]string{"2 0", "0 1"}, []int{0, 1}, 2)
	require.NoError(t, err)

	table, err := Probabilities(m, []int{0, 1}, 3)
	require.NoError(t, err)
	require.Len(t, table.Entries, 9)

	p, ok := table.Lookup([]int{2, 0})
	require.True(t, ok)
	assert.Equal(t, 0.5, p)
	assert.Equal(t, 0.5, table.Entries[1].Probability)
}

func TestProbabilitiesRejectsOutOfRangeValues(t *testing.T) {
	m, err := Decode([]string{"2 0"}, []int{0, 1}, 1)
	require.NoError(t, err)

	_, err = Probabilities(m, []int{0, 1}, 2)
	assert.True(t, ir.IsDecode(err))
}

func TestProbabilitiesRejectsHugeTables(t *testing.T) {
	m, err := Decode([]string{"0"}, []int{0}, 1)
	require.NoError(t, err)

	wires := make([]int, 21)
	_, err = Probabilities(m, wires, 2)
	assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument))

	_, err = Probabilities(m, []int{0}, 1)
	assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument))
}

func TestPatternHelpers(t *testing.T) {
	assert.Equal(t, []int{1, 0, 1}, PatternOf(5, 2, 3))
	assert.Equal(t, 5, IndexOf([]int{1, 0, 1}, 2))
	assert.Equal(t, -1, IndexOf([]int{2}, 2))
	assert.Equal(t, "101", PatternKey([]int{1, 0, 1}, 2))
	assert.Equal(t, "10,0,3", PatternKey([]int{10, 0, 3}, 51))
}

func TestLookupRejectsWrongWidth(t *testing.T) {
	m, err := Decode([]string{"1"}, []int{0}, 1)
	require.NoError(t, err)
	table, err := Probabilities(m, []int{0}, 2)
	require.NoError(t, err)

	_, ok := table.Lookup([]int{1, 0})
	assert.False(t, ok)
}
