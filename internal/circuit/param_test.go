package circuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseParam(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"1.5", 1.5},
		{"-2", -2},
		{"pi", math.Pi},
		{"-pi", -math.Pi},
		{"2*pi", 2 * math.Pi},
		{"pi/2", math.Pi / 2},
		{"3*pi/4", 3 * math.Pi / 4},
		{"-pi/4", -math.Pi / 4},
		{" pi / 3 ", math.Pi / 3},
		{"pi*0.5", math.Pi * 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseParam(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseParamRejects(t *testing.T) {
	for _, in := range []string{"", "tau", "pi*pi", "pi/0", "pi/x", "2*x", "NaN", "Inf", "e"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseParam(in)
			assert.Error(t, err)
		})
	}
}

func TestParamUnmarshalYAML(t *testing.T) {
	var out struct {
		Params []Param `yaml:"params"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("params: [pi/2, 0.25, -1]"), &out))
	assert.InDeltaSlice(t, []float64{math.Pi / 2, 0.25, -1}, floats(out.Params), 1e-12)

	err := yaml.Unmarshal([]byte("params: [[1]]"), &out)
	assert.Error(t, err)
}
