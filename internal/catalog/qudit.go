package catalog

import (
	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/postproc"
)

// DefaultQuditDim is the qudit dimension assumed before any Load.
const DefaultQuditDim = 2

// MaxQuditAtoms caps the atom count of a qudit Load so that the one-wire
// probability table stays within 2^20 levels.
const MaxQuditAtoms = 1<<20 - 1

// SingleQudit returns the catalog of the single-qudit simulator.
//
// The device has exactly one wire, so every instruction targets wire 0.
func SingleQudit() *Catalog {
	return New(
		[]OperationSpec{
			quditLoad(true),
			singleWire(angleGate("RLX", "rlx", 1)),
			singleWire(angleGate("RLZ", "rlz", 1)),
			singleWire(angleGate("RLZ2", "rlz2", 1)),
		},
		quditObservables(),
	)
}

// MultiQudit returns the catalog of the multi-qudit simulator.
func MultiQudit() *Catalog {
	return New(
		[]OperationSpec{
			quditLoad(false),
			angleGate("RLX", "rlx", 1),
			angleGate("RLZ", "rlz", 1),
			angleGate("RLZ2", "rlz2", 1),
			angleGate("RLXLY", "rlxly", 2),
			angleGate("RLZLZ", "rlzlz", 2),
		},
		quditObservables(),
	)
}

// quditLoad fills a qudit with N atoms; the qudit then has N+1 levels.
func quditLoad(pinToWireZero bool) OperationSpec {
	return OperationSpec{
		Name:      "Load",
		Opcode:    "load",
		NumWires:  1,
		NumParams: 1,
		Build: func(wires []int, params []float64) ([]ir.Instruction, error) {
			if params[0] > MaxQuditAtoms {
				return nil, ir.Errorf(ir.ErrCodeInvalidArgument,
					"operation %q loads at most %d atoms, got %v", "Load", MaxQuditAtoms, params[0])
			}
			n, err := count("Load", params[0])
			if err != nil {
				return nil, err
			}
			target := wires
			if pinToWireZero {
				target = []int{0}
			}
			return []ir.Instruction{ir.NewInstruction("load", target, []float64{float64(n)})}, nil
		},
		QuditDim: func(params []float64) int {
			return int(params[0]) + 1
		},
	}
}

// singleWire pins a one-wire gate to wire 0.
func singleWire(op OperationSpec) OperationSpec {
	build := op.Build
	op.Build = func(_ []int, params []float64) ([]ir.Instruction, error) {
		return build([]int{0}, params)
	}
	return op
}

func quditObservables() []ObservableSpec {
	return []ObservableSpec{
		{Name: "ZObs", Kind: postproc.KindRaw, NumWires: AnyWires},
		{Name: "LZ", Kind: postproc.KindCentered, NumWires: AnyWires},
		{Name: "LZ2", Kind: postproc.KindCenteredSquared, NumWires: AnyWires},
		{Name: "Identity", Kind: postproc.KindIdentity, NumWires: AnyWires},
	}
}
