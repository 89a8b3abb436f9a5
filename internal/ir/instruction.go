package ir

import (
	"encoding/json"
	"fmt"
	"slices"
)

// OpcodeMeasure is the opcode of the per-wire measurement instruction.
const OpcodeMeasure = "measure"

// Instruction is one (opcode, wires, parameters) tuple of an experiment.
//
// On the wire an instruction is the 3-element array
// ["opcode", [wire, ...], [param, ...]].
type Instruction struct {
	Opcode string
	Wires  []int
	Params []float64
}

// NewInstruction builds an instruction, copying wires and params so the
// caller cannot mutate it afterwards.
func NewInstruction(opcode string, wires []int, params []float64) Instruction {
	return Instruction{
		Opcode: opcode,
		Wires:  cloneInts(wires),
		Params: cloneFloats(params),
	}
}

// Measure returns the measurement instruction for a single wire.
func Measure(wire int) Instruction {
	return NewInstruction(OpcodeMeasure, []int{wire}, nil)
}

// Clone returns a deep copy of the instruction.
func (in Instruction) Clone() Instruction {
	return NewInstruction(in.Opcode, in.Wires, in.Params)
}

// Equal reports whether two instructions are identical.
func (in Instruction) Equal(other Instruction) bool {
	return in.Opcode == other.Opcode &&
		slices.Equal(in.Wires, other.Wires) &&
		slices.Equal(in.Params, other.Params)
}

// String renders the instruction the way it appears in logs.
func (in Instruction) String() string {
	return fmt.Sprintf("(%s, %v, %v)", in.Opcode, in.Wires, in.Params)
}

// MarshalJSON encodes the instruction as a 3-element array.
func (in Instruction) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{in.Opcode, cloneInts(in.Wires), cloneFloats(in.Params)})
}

// UnmarshalJSON decodes the 3-element array form.
func (in *Instruction) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("instruction: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("instruction: expected 3 elements, got %d", len(raw))
	}

	var decoded Instruction
	if err := json.Unmarshal(raw[0], &decoded.Opcode); err != nil {
		return fmt.Errorf("instruction opcode: %w", err)
	}
	if err := json.Unmarshal(raw[1], &decoded.Wires); err != nil {
		return fmt.Errorf("instruction wires: %w", err)
	}
	if err := json.Unmarshal(raw[2], &decoded.Params); err != nil {
		return fmt.Errorf("instruction params: %w", err)
	}

	*in = NewInstruction(decoded.Opcode, decoded.Wires, decoded.Params)
	return nil
}

// canonicalValue converts the instruction to the generic form accepted by
// MarshalCanonical.
func (in Instruction) canonicalValue() []any {
	wires := make([]any, len(in.Wires))
	for i, w := range in.Wires {
		wires[i] = w
	}
	params := make([]any, len(in.Params))
	for i, p := range in.Params {
		params[i] = p
	}
	return []any{in.Opcode, wires, params}
}

// cloneInts copies a slice, returning an empty non-nil slice for nil input.
func cloneInts(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	return out
}

func cloneFloats(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
