package catalog

import (
	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/postproc"
)

// Fermion returns the catalog of the fermionic tweezer simulator.
//
// Wires come in spin pairs: even positions hold the alpha species and odd
// positions the beta species of the same tweezer.
func Fermion() *Catalog {
	hop := angleGateWith("Hop", "hop", 4, ir.HalfAngle)
	inter := angleGate("Inter", "int", AnyWires)
	phase := angleGate("Phase", "phase", 2)

	return New(
		[]OperationSpec{
			fermionLoad(),
			hop,
			alias("Tunneling", hop),
			inter,
			alias("OnSiteInteraction", inter),
			phase,
			alias("ChemicalPotential", phase),
			hartreeFock(),
		},
		[]ObservableSpec{
			{Name: "ParticleNumber", Kind: postproc.KindRaw, NumWires: AnyWires},
			{Name: "PauliZ", Kind: postproc.KindSignFlip, NumWires: AnyWires},
			{Name: "Identity", Kind: postproc.KindIdentity, NumWires: AnyWires},
		},
	)
}

func fermionLoad() OperationSpec {
	return OperationSpec{
		Name:      "Load",
		Opcode:    "load",
		NumWires:  1,
		NumParams: 0,
		Build: func(wires []int, _ []float64) ([]ir.Instruction, error) {
			return []ir.Instruction{ir.NewInstruction("load", wires, nil)}, nil
		},
	}
}

// hartreeFock loads n_alpha atoms on the even slots of wires and n_beta
// atoms on the odd slots, lowest slots first.
func hartreeFock() OperationSpec {
	return OperationSpec{
		Name:      "HartreeFock",
		Opcode:    "load",
		NumWires:  AnyWires,
		NumParams: 2,
		Build: func(wires []int, params []float64) ([]ir.Instruction, error) {
			nAlpha, err := count("HartreeFock", params[0])
			if err != nil {
				return nil, err
			}
			nBeta, err := count("HartreeFock", params[1])
			if err != nil {
				return nil, err
			}
			return HartreeFockLoads(wires, nAlpha, nBeta)
		},
	}
}

// HartreeFockLoads expands a Hartree-Fock preparation into load instructions.
func HartreeFockLoads(wires []int, nAlpha, nBeta int) ([]ir.Instruction, error) {
	alphaSlots := (len(wires) + 1) / 2
	betaSlots := len(wires) / 2
	if nAlpha > alphaSlots || nBeta > betaSlots {
		return nil, ir.Errorf(ir.ErrCodeInvalidArgument,
			"HartreeFock: %d alpha and %d beta particles do not fit %d wires (%d alpha, %d beta slots)",
			nAlpha, nBeta, len(wires), alphaSlots, betaSlots)
	}

	loads := make([]ir.Instruction, 0, nAlpha+nBeta)
	for i := 0; i < nAlpha; i++ {
		loads = append(loads, ir.NewInstruction("load", []int{wires[2*i]}, nil))
	}
	for i := 0; i < nBeta; i++ {
		loads = append(loads, ir.NewInstruction("load", []int{wires[2*i+1]}, nil))
	}
	return loads, nil
}
