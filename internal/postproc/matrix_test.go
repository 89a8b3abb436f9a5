package postproc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/synqs/internal/ir"
)

func TestDecode(t *testing.T) {
	m, err := Decode([]string{"1 1 0 0", "0 1 0 1", " 1  0 0 0 "}, []int{0, 1, 2, 3}, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Shots())
	assert.Equal(t, []int{0, 1, 2, 3}, m.Wires)
	assert.Equal(t, [][]int{{1, 1, 0, 0}, {0, 1, 0, 1}, {1, 0, 0, 0}}, m.Rows)
}

func TestDecodeShapeIsAlwaysShotsByWires(t *testing.T) {
	for shots := 1; shots < 5; shots++ {
		for width := 1; width < 5; width++ {
			records := make([]string, shots)
			wires := make([]int, width)
			for i := range wires {
				wires[i] = i
			}
			for s := range records {
				for w := 0; w < width; w++ {
					if w > 0 {
						records[s] += " "
					}
					records[s] += fmt.Sprintf("%d", (s+w)%2)
				}
			}

			m, err := Decode(records, wires, len(records))
			require.NoError(t, err)
			require.Len(t, m.Rows, shots)
			for _, row := range m.Rows {
				assert.Len(t, row, width)
			}
		}
	}
}

func TestDecodeRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []string
	}{
		{"too few tokens", []string{"1 0 0 0", "1 0 0"}},
		{"too many tokens", []string{"1 0 0 0 1"}},
		{"empty record", []string{""}},
		{"non numeric", []string{"1 0 x 0"}},
		{"float token", []string{"1 0 0.5 0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(tt.records, []int{0, 1, 2, 3}, len(tt.records))
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, ir.IsDecode(err), "got %v", err)
		})
	}
}

func TestDecodeChecksShotCount(t *testing.T) {
	tests := []struct {
		name    string
		records []string
		shots   int
	}{
		{"empty result", nil, 50},
		{"empty result of unknown count", []string{}, 0},
		{"short result", []string{"1 0", "0 1"}, 50},
		{"long result", []string{"1 0", "0 1", "1 1"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(tt.records, []int{0, 1}, tt.shots)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, ir.IsDecode(err), "got %v", err)
		})
	}
}

func TestDecodeUnknownShotCountTakesAllRecords(t *testing.T) {
	m, err := Decode([]string{"1 0", "0 1", "1 1"}, []int{0, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Shots())
}

func TestColumnResolvesWireLabels(t *testing.T) {
	m, err := Decode([]string{"5 7", "6 8"}, []int{3, 1}, 2)
	require.NoError(t, err)

	col, err := m.Column(1)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, col)

	_, err = m.Column(0)
	assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument))
}

func TestRestrict(t *testing.T) {
	m, err := Decode([]string{"1 2 3", "4 5 6"}, []int{0, 1, 2}, 2)
	require.NoError(t, err)

	rows, err := m.Restrict([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{3, 1}, {6, 4}}, rows)
}
