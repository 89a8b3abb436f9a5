package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/postproc"
)

func TestOperationNames(t *testing.T) {
	tests := []struct {
		name string
		cat  *Catalog
		want []string
	}{
		{"single qudit", SingleQudit(), []string{"Load", "RLX", "RLZ", "RLZ2"}},
		{"multi qudit", MultiQudit(), []string{"Load", "RLX", "RLXLY", "RLZ", "RLZ2", "RLZLZ"}},
		{"fermion", Fermion(), []string{
			"ChemicalPotential", "HartreeFock", "Hop", "Inter",
			"Load", "OnSiteInteraction", "Phase", "Tunneling",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cat.Operations())
		})
	}
}

func TestObservableNames(t *testing.T) {
	assert.Equal(t, []string{"Identity", "LZ", "LZ2", "ZObs"}, SingleQudit().Observables())
	assert.Equal(t, []string{"Identity", "LZ", "LZ2", "ZObs"}, MultiQudit().Observables())
	assert.Equal(t, []string{"Identity", "ParticleNumber", "PauliZ"}, Fermion().Observables())
}

func TestObservableKinds(t *testing.T) {
	tests := []struct {
		cat  *Catalog
		name string
		want postproc.Kind
	}{
		{Fermion(), "ParticleNumber", postproc.KindRaw},
		{Fermion(), "PauliZ", postproc.KindSignFlip},
		{Fermion(), "Identity", postproc.KindIdentity},
		{SingleQudit(), "ZObs", postproc.KindRaw},
		{SingleQudit(), "LZ", postproc.KindCentered},
		{MultiQudit(), "LZ2", postproc.KindCenteredSquared},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := tt.cat.Observable(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, obs.Kind)
		})
	}
}

func TestAngleGatesWrapModuloTwoPi(t *testing.T) {
	cat := MultiQudit()
	for _, name := range []string{"RLX", "RLZ", "RLZ2"} {
		for _, theta := range []float64{0, math.Pi, 3 * math.Pi, -math.Pi / 2, 100} {
			instrs, err := cat.Build(name, []int{0}, []float64{theta})
			require.NoError(t, err)
			require.Len(t, instrs, 1)

			got := instrs[0].Params[0]
			assert.InDelta(t, ir.NormalizeAngle(theta), got, 1e-12, "%s(%v)", name, theta)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, ir.TwoPi)
		}
	}
}

func TestTwoQuditGates(t *testing.T) {
	cat := MultiQudit()

	instrs, err := cat.Build("RLXLY", []int{0, 1}, []float64{5 * math.Pi})
	require.NoError(t, err)
	assert.Equal(t, "rlxly", instrs[0].Opcode)
	assert.Equal(t, []int{0, 1}, instrs[0].Wires)
	assert.InDelta(t, math.Pi, instrs[0].Params[0], 1e-9)

	instrs, err = cat.Build("RLZLZ", []int{1, 2}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, "rlzlz", instrs[0].Opcode)
}

func TestHopUsesHalfAngle(t *testing.T) {
	cat := Fermion()
	for _, name := range []string{"Hop", "Tunneling"} {
		instrs, err := cat.Build(name, []int{0, 1, 2, 3}, []float64{math.Pi})
		require.NoError(t, err)
		require.Len(t, instrs, 1)
		assert.Equal(t, "hop", instrs[0].Opcode)
		assert.Equal(t, []int{0, 1, 2, 3}, instrs[0].Wires)
		assert.InDelta(t, math.Pi/2, instrs[0].Params[0], 1e-12)
	}

	instrs, err := cat.Build("Hop", []int{0, 1, 2, 3}, []float64{6 * math.Pi})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, instrs[0].Params[0], 1e-9)
}

func TestFermionGates(t *testing.T) {
	cat := Fermion()

	instrs, err := cat.Build("Load", []int{3}, nil)
	require.NoError(t, err)
	assert.True(t, ir.NewInstruction("load", []int{3}, nil).Equal(instrs[0]))

	instrs, err = cat.Build("OnSiteInteraction", []int{0, 1, 2, 3, 4, 5, 6, 7}, []float64{-math.Pi})
	require.NoError(t, err)
	assert.Equal(t, "int", instrs[0].Opcode)
	assert.InDelta(t, math.Pi, instrs[0].Params[0], 1e-12)

	instrs, err = cat.Build("ChemicalPotential", []int{0, 1}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, "phase", instrs[0].Opcode)
}

func TestQuditLoad(t *testing.T) {
	op, err := SingleQudit().Operation("Load")
	require.NoError(t, err)
	assert.Equal(t, 51, op.QuditDim([]float64{50}))

	instrs, err := SingleQudit().Build("Load", []int{0}, []float64{50})
	require.NoError(t, err)
	assert.Equal(t, `(load, [0], [50])`, instrs[0].String())

	_, err = MultiQudit().Build("Load", []int{0}, []float64{2.5})
	assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument))

	_, err = MultiQudit().Build("Load", []int{0}, []float64{-1})
	assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument))
}

func TestQuditLoadIsBounded(t *testing.T) {
	instrs, err := MultiQudit().Build("Load", []int{0}, []float64{MaxQuditAtoms})
	require.NoError(t, err)
	assert.Equal(t, []float64{MaxQuditAtoms}, instrs[0].Params)

	for _, n := range []float64{MaxQuditAtoms + 1, 1e300} {
		_, err = MultiQudit().Build("Load", []int{0}, []float64{n})
		assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument), "load %v: got %v", n, err)
	}
}

func TestMultiQuditLoadKeepsWire(t *testing.T) {
	instrs, err := MultiQudit().Build("Load", []int{2}, []float64{5})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, instrs[0].Wires)
}

func TestSingleQuditPinsWireZero(t *testing.T) {
	instrs, err := SingleQudit().Build("RLX", []int{0}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, instrs[0].Wires)
}

func TestHartreeFock(t *testing.T) {
	wires := []int{0, 1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name   string
		params []float64
		want   [][]int
	}{
		{"empty", []float64{0, 0}, nil},
		{"one each", []float64{1, 1}, [][]int{{0}, {1}}},
		{"two alpha one beta", []float64{2, 1}, [][]int{{0}, {2}, {1}}},
		{"full", []float64{4, 4}, [][]int{{0}, {2}, {4}, {6}, {1}, {3}, {5}, {7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instrs, err := Fermion().Build("HartreeFock", wires, tt.params)
			require.NoError(t, err)
			require.Len(t, instrs, len(tt.want))
			for i, in := range instrs {
				assert.Equal(t, "load", in.Opcode)
				assert.Equal(t, tt.want[i], in.Wires)
				assert.Empty(t, in.Params)
			}
		})
	}
}

func TestHartreeFockUsesGivenWireOrder(t *testing.T) {
	instrs, err := HartreeFockLoads([]int{4, 5, 6, 7}, 2, 1)
	require.NoError(t, err)
	require.Len(t, instrs, 3)
	assert.Equal(t, []int{4}, instrs[0].Wires)
	assert.Equal(t, []int{6}, instrs[1].Wires)
	assert.Equal(t, []int{5}, instrs[2].Wires)
}

func TestHartreeFockRejectsOverfilling(t *testing.T) {
	_, err := Fermion().Build("HartreeFock", []int{0, 1, 2, 3}, []float64{3, 0})
	require.Error(t, err)
	assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument))

	_, err = Fermion().Build("HartreeFock", []int{0, 1, 2}, []float64{0, 2})
	assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument))

	_, err = Fermion().Build("HartreeFock", []int{0, 1}, []float64{0.5, 0})
	assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument))
}

func TestUnsupportedNames(t *testing.T) {
	_, err := Fermion().Build("CNOT", []int{0, 1}, nil)
	require.Error(t, err)
	assert.True(t, ir.IsUnsupported(err))

	_, err = Fermion().Observable("LZ")
	assert.True(t, ir.IsUnsupported(err))

	_, err = SingleQudit().Operation("RLXLY")
	assert.True(t, ir.IsUnsupported(err))
}

func TestArityChecks(t *testing.T) {
	cat := Fermion()
	tests := []struct {
		name   string
		op     string
		wires  []int
		params []float64
	}{
		{"hop needs four wires", "Hop", []int{0, 1}, []float64{1}},
		{"hop needs a parameter", "Hop", []int{0, 1, 2, 3}, nil},
		{"load takes no parameter", "Load", []int{0}, []float64{1}},
		{"phase needs two wires", "Phase", []int{0}, []float64{1}},
		{"inter needs a wire", "Inter", nil, []float64{1}},
		{"negative wire", "Load", []int{-1}, nil},
		{"duplicate wire", "Phase", []int{1, 1}, []float64{1}},
		{"nan parameter", "Hop", []int{0, 1, 2, 3}, []float64{math.NaN()}},
		{"inf parameter", "Inter", []int{0}, []float64{math.Inf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cat.Build(tt.op, tt.wires, tt.params)
			require.Error(t, err)
			assert.True(t, ir.HasCode(err, ir.ErrCodeInvalidArgument), "got %v", err)
		})
	}
}

func TestObservableCheckWires(t *testing.T) {
	obs, err := Fermion().Observable("ParticleNumber")
	require.NoError(t, err)
	assert.NoError(t, obs.CheckWires([]int{0, 1, 2, 3}))
	assert.Error(t, obs.CheckWires(nil))
	assert.Error(t, obs.CheckWires([]int{0, 0}))
}

func TestNewPanicsOnDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		New([]OperationSpec{fermionLoad(), fermionLoad()}, nil)
	})
	assert.Panics(t, func() {
		New(nil, []ObservableSpec{{Name: "Z"}, {Name: "Z"}})
	})
}
