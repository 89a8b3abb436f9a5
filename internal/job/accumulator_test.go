package job

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/synqs/internal/ir"
)

func TestAccumulatorKeepsCallOrder(t *testing.T) {
	acc := New(8, 50)

	require.NoError(t, acc.Append(ir.NewInstruction("load", []int{0}, nil)))
	require.NoError(t, acc.Append(
		ir.NewInstruction("load", []int{1}, nil),
		ir.NewInstruction("hop", []int{0, 1, 2, 3}, []float64{math.Pi / 2}),
	))
	require.NoError(t, acc.Measure([]int{3, 1}))

	p := acc.Payload()
	assert.Equal(t, 8, p.NumWires)
	assert.Equal(t, 50, p.Shots)

	opcodes := make([]string, len(p.Instructions))
	for i, in := range p.Instructions {
		opcodes[i] = in.Opcode
	}
	assert.Equal(t, []string{"load", "load", "hop", "measure", "measure"}, opcodes)
	assert.Equal(t, []int{3, 1}, p.MeasuredWires())
}

func TestAccumulatorFreezesOnMeasure(t *testing.T) {
	acc := New(1, 10)
	require.NoError(t, acc.Append(ir.NewInstruction("rlx", []int{0}, []float64{1})))
	require.NoError(t, acc.Measure([]int{0}))
	assert.True(t, acc.Frozen())

	before := acc.Payload()

	assert.ErrorIs(t, acc.Append(ir.NewInstruction("rlz", []int{0}, []float64{1})), ErrFrozen)
	assert.ErrorIs(t, acc.Measure([]int{0}), ErrFrozen)
	assert.Equal(t, before, acc.Payload())
	assert.Equal(t, 2, acc.Len())
}

func TestPayloadIsADeepCopy(t *testing.T) {
	acc := New(1, 10)
	require.NoError(t, acc.Append(ir.NewInstruction("rlx", []int{0}, []float64{1})))

	p := acc.Payload()
	p.Instructions[0].Params[0] = 99
	p.Instructions = append(p.Instructions, ir.Measure(0))

	again := acc.Payload()
	require.Len(t, again.Instructions, 1)
	assert.Equal(t, []float64{1}, again.Instructions[0].Params)
}

func TestAppendCopiesCallerSlices(t *testing.T) {
	wires := []int{0}
	in := ir.Instruction{Opcode: "load", Wires: wires, Params: []float64{}}

	acc := New(8, 1)
	require.NoError(t, acc.Append(in))
	wires[0] = 7

	assert.Equal(t, []int{0}, acc.Payload().Instructions[0].Wires)
}

func TestPayloadJSONShape(t *testing.T) {
	acc := New(8, 50)
	require.NoError(t, acc.Append(
		ir.NewInstruction("load", []int{0}, nil),
		ir.NewInstruction("load", []int{1}, nil),
		ir.NewInstruction("hop", []int{0, 1, 2, 3}, []float64{math.Pi / 2}),
	))
	require.NoError(t, acc.Measure([]int{0, 1, 2, 3}))

	data, err := json.Marshal(acc.Payload())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "fermion_hop_payload", append(data, '\n'))
}

func TestEmptyPayloadEncodesEmptyList(t *testing.T) {
	data, err := json.Marshal(Payload{NumWires: 1, Shots: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"experiment_0":{"instructions":[],"num_wires":1,"shots":3}}`, string(data))
}

func TestPayloadUnmarshal(t *testing.T) {
	var p Payload
	err := json.Unmarshal([]byte(`{"experiment_0":{"instructions":[["load",[0],[50]],["measure",[0],[]]],"num_wires":1,"shots":20}}`), &p)
	require.NoError(t, err)

	assert.Equal(t, 1, p.NumWires)
	assert.Equal(t, 20, p.Shots)
	require.Len(t, p.Instructions, 2)
	assert.True(t, p.Instructions[0].Equal(ir.NewInstruction("load", []int{0}, []float64{50})))
	assert.Equal(t, []int{0}, p.MeasuredWires())

	err = json.Unmarshal([]byte(`{"experiment_1":{}}`), &p)
	assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument))
}

func TestPayloadHashIsStable(t *testing.T) {
	build := func() Payload {
		acc := New(8, 50)
		require.NoError(t, acc.Append(ir.NewInstruction("load", []int{0}, nil)))
		require.NoError(t, acc.Measure([]int{0}))
		return acc.Payload()
	}

	h1, err := build().Hash("synqs.fs")
	require.NoError(t, err)
	h2, err := build().Hash("synqs.fs")
	require.NoError(t, err)
	h3, err := build().Hash("synqs.mqs")
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}
