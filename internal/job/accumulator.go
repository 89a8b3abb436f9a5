package job

import (
	"errors"

	"github.com/roach88/synqs/internal/ir"
)

// ErrFrozen is returned when an accumulator is modified after measurement.
var ErrFrozen = errors.New("job: payload is frozen")

// Accumulator builds a Payload instruction by instruction.
// Not safe for concurrent use.
type Accumulator struct {
	payload Payload
	frozen  bool
}

// New starts an empty payload for numWires wires and shots shots.
func New(numWires, shots int) *Accumulator {
	return &Accumulator{
		payload: Payload{
			Instructions: []ir.Instruction{},
			NumWires:     numWires,
			Shots:        shots,
		},
	}
}

// Append adds instructions in call order.
func (a *Accumulator) Append(instrs ...ir.Instruction) error {
	if a.frozen {
		return ErrFrozen
	}
	for _, in := range instrs {
		a.payload.Instructions = append(a.payload.Instructions, in.Clone())
	}
	return nil
}

// Measure appends one measure instruction per wire, in the given order,
// and freezes the payload.
func (a *Accumulator) Measure(wires []int) error {
	if a.frozen {
		return ErrFrozen
	}
	for _, w := range wires {
		a.payload.Instructions = append(a.payload.Instructions, ir.Measure(w))
	}
	a.frozen = true
	return nil
}

// Frozen reports whether Measure has been called.
func (a *Accumulator) Frozen() bool {
	return a.frozen
}

// Len returns the number of instructions accumulated so far.
func (a *Accumulator) Len() int {
	return len(a.payload.Instructions)
}

// Payload returns a deep copy of the current payload.
func (a *Accumulator) Payload() Payload {
	return a.payload.Clone()
}
