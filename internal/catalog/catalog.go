package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/postproc"
)

// AnyWires marks an operation or observable that accepts any number of wires.
const AnyWires = -1

// BuildFunc maps wires and parameters to one or more instructions.
// Implementations are pure; they never touch a payload.
type BuildFunc func(wires []int, params []float64) ([]ir.Instruction, error)

// OperationSpec describes one gate the device accepts.
type OperationSpec struct {
	// Name is the operation name used by circuit descriptions.
	Name string

	// Opcode is the instruction name sent to the remote service.
	Opcode string

	// NumWires is the exact wire count, or AnyWires.
	NumWires int

	// NumParams is the exact parameter count.
	NumParams int

	// Build produces the instructions.
	Build BuildFunc

	// QuditDim reports the qudit dimension implied by the parameters,
	// or 0 when the operation does not change it.
	QuditDim func(params []float64) int
}

// ObservableSpec describes one observable the device can measure.
type ObservableSpec struct {
	// Name is the observable name used by circuit descriptions.
	Name string

	// Kind selects the post-processing transform.
	Kind postproc.Kind

	// NumWires is the exact wire count, or AnyWires.
	NumWires int
}

// Catalog maps operation and observable names to their specs.
type Catalog struct {
	operations  map[string]OperationSpec
	observables map[string]ObservableSpec
}

// New creates a catalog from operation and observable specs.
// Panics on duplicate names; catalogs are static tables.
func New(ops []OperationSpec, obs []ObservableSpec) *Catalog {
	c := &Catalog{
		operations:  make(map[string]OperationSpec, len(ops)),
		observables: make(map[string]ObservableSpec, len(obs)),
	}
	for _, op := range ops {
		if _, dup := c.operations[op.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate operation %q", op.Name))
		}
		c.operations[op.Name] = op
	}
	for _, o := range obs {
		if _, dup := c.observables[o.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate observable %q", o.Name))
		}
		c.observables[o.Name] = o
	}
	return c
}

// Operation returns the spec registered under name.
func (c *Catalog) Operation(name string) (OperationSpec, error) {
	op, ok := c.operations[name]
	if !ok {
		return OperationSpec{}, ir.NewUnsupportedError("operation", name)
	}
	return op, nil
}

// Observable returns the spec registered under name.
func (c *Catalog) Observable(name string) (ObservableSpec, error) {
	obs, ok := c.observables[name]
	if !ok {
		return ObservableSpec{}, ir.NewUnsupportedError("observable", name)
	}
	return obs, nil
}

// Build looks up name, validates arity and builds its instructions.
func (c *Catalog) Build(name string, wires []int, params []float64) ([]ir.Instruction, error) {
	op, err := c.Operation(name)
	if err != nil {
		return nil, err
	}
	if err := op.CheckArity(wires, params); err != nil {
		return nil, err
	}
	return op.Build(wires, params)
}

// CheckArity validates wire and parameter counts and values.
func (op OperationSpec) CheckArity(wires []int, params []float64) error {
	if err := checkWires(op.Name, op.NumWires, wires); err != nil {
		return err
	}
	if len(params) != op.NumParams {
		return ir.Errorf(ir.ErrCodeInvalidArgument,
			"operation %q takes %d parameter(s), got %d", op.Name, op.NumParams, len(params))
	}
	for i, p := range params {
		if !ir.IsFinite(p) {
			return ir.Errorf(ir.ErrCodeInvalidArgument,
				"operation %q parameter %d is not finite: %v", op.Name, i, p)
		}
	}
	return nil
}

// CheckWires validates the wire list of an observable.
func (o ObservableSpec) CheckWires(wires []int) error {
	return checkWires(o.Name, o.NumWires, wires)
}

func checkWires(name string, want int, wires []int) error {
	if want != AnyWires && len(wires) != want {
		return ir.Errorf(ir.ErrCodeInvalidArgument,
			"%q acts on %d wire(s), got %d", name, want, len(wires))
	}
	if want == AnyWires && len(wires) == 0 {
		return ir.Errorf(ir.ErrCodeInvalidArgument, "%q needs at least one wire", name)
	}
	seen := make(map[int]bool, len(wires))
	for _, w := range wires {
		if w < 0 {
			return ir.Errorf(ir.ErrCodeInvalidArgument, "%q: negative wire %d", name, w)
		}
		if seen[w] {
			return ir.Errorf(ir.ErrCodeInvalidArgument, "%q: duplicate wire %d", name, w)
		}
		seen[w] = true
	}
	return nil
}

// Operations returns the sorted operation names.
func (c *Catalog) Operations() []string {
	names := make([]string, 0, len(c.operations))
	for name := range c.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Observables returns the sorted observable names.
func (c *Catalog) Observables() []string {
	names := make([]string, 0, len(c.observables))
	for name := range c.observables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// angleGate builds a gate whose single parameter is reduced modulo 2π.
func angleGate(name, opcode string, numWires int) OperationSpec {
	return angleGateWith(name, opcode, numWires, ir.NormalizeAngle)
}

func angleGateWith(name, opcode string, numWires int, normalize func(float64) float64) OperationSpec {
	return OperationSpec{
		Name:      name,
		Opcode:    opcode,
		NumWires:  numWires,
		NumParams: 1,
		Build: func(wires []int, params []float64) ([]ir.Instruction, error) {
			return []ir.Instruction{
				ir.NewInstruction(opcode, wires, []float64{normalize(params[0])}),
			}, nil
		},
	}
}

// alias registers an existing spec under another name.
func alias(name string, op OperationSpec) OperationSpec {
	op.Name = name
	return op
}

// count converts a float parameter to a non-negative integer count.
func count(name string, p float64) (int, error) {
	if p < 0 || p != math.Trunc(p) {
		return 0, ir.Errorf(ir.ErrCodeInvalidArgument,
			"operation %q expects a non-negative integer, got %v", name, p)
	}
	return int(p), nil
}
