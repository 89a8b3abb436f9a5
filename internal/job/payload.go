package job

import (
	"encoding/json"

	"github.com/roach88/synqs/internal/ir"
)

// Payload is one experiment as submitted to the remote service.
type Payload struct {
	Instructions []ir.Instruction
	NumWires     int
	Shots        int
}

// experiment is the wire shape of a single experiment.
type experiment struct {
	Instructions []ir.Instruction `json:"instructions"`
	NumWires     int              `json:"num_wires"`
	Shots        int              `json:"shots"`
}

// MarshalJSON encodes the payload wrapped under the experiment key:
// {"experiment_0": {"instructions": [...], "num_wires": n, "shots": s}}.
func (p Payload) MarshalJSON() ([]byte, error) {
	instrs := p.Instructions
	if instrs == nil {
		instrs = []ir.Instruction{}
	}
	return json.Marshal(map[string]experiment{
		ir.ExperimentKey: {
			Instructions: instrs,
			NumWires:     p.NumWires,
			Shots:        p.Shots,
		},
	})
}

// UnmarshalJSON decodes the wrapped form produced by MarshalJSON.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var wrapped map[string]experiment
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	exp, ok := wrapped[ir.ExperimentKey]
	if !ok {
		return ir.Errorf(ir.ErrCodeInvalidArgument, "payload has no %q entry", ir.ExperimentKey)
	}
	p.Instructions = exp.Instructions
	if p.Instructions == nil {
		p.Instructions = []ir.Instruction{}
	}
	p.NumWires = exp.NumWires
	p.Shots = exp.Shots
	return nil
}

// Clone returns a deep copy of the payload.
func (p Payload) Clone() Payload {
	out := Payload{
		Instructions: make([]ir.Instruction, len(p.Instructions)),
		NumWires:     p.NumWires,
		Shots:        p.Shots,
	}
	for i, in := range p.Instructions {
		out.Instructions[i] = in.Clone()
	}
	return out
}

// MeasuredWires returns the wires of the trailing measure instructions,
// in order.
func (p Payload) MeasuredWires() []int {
	var wires []int
	for _, in := range p.Instructions {
		if in.Opcode == ir.OpcodeMeasure && len(in.Wires) == 1 {
			wires = append(wires, in.Wires[0])
		}
	}
	return wires
}

// Hash returns the content-addressed identity of the payload for a device.
func (p Payload) Hash(device string) (string, error) {
	return ir.PayloadHash(device, p.Instructions, p.NumWires, p.Shots)
}
