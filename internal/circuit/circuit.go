package circuit

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/synqs/internal/catalog"
	"github.com/roach88/synqs/internal/device"
)

// Circuit is one circuit description.
type Circuit struct {
	// Name identifies the circuit in reports.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// Device is the short name of the target device, e.g. "synqs.fs".
	Device string `yaml:"device"`

	// Shots and Wires override the device configuration when set.
	Shots int `yaml:"shots,omitempty"`
	Wires int `yaml:"wires,omitempty"`

	Operations   []Operation   `yaml:"operations"`
	Measurements []Measurement `yaml:"measurements"`
}

// Operation applies one gate.
type Operation struct {
	Op     string  `yaml:"op"`
	Wires  []int   `yaml:"wires"`
	Params []Param `yaml:"params,omitempty"`
}

// Measurement requests one reduction. Exactly one of Expval, Var, Sample
// or Probs is set.
type Measurement struct {
	Expval string `yaml:"expval,omitempty"`
	Var    string `yaml:"var,omitempty"`
	Sample string `yaml:"sample,omitempty"`
	Probs  []int  `yaml:"probs,omitempty"`

	// Wires lists the wires of an observable measurement.
	Wires []int `yaml:"wires,omitempty"`
}

// Measurement kinds.
const (
	KindExpval = "expval"
	KindVar    = "var"
	KindSample = "sample"
	KindProbs  = "probs"
)

// Kind returns the measurement kind and observable name, or "" if the
// measurement sets none or several kinds.
func (m Measurement) Kind() (kind, observable string) {
	set := 0
	if m.Expval != "" {
		kind, observable = KindExpval, m.Expval
		set++
	}
	if m.Var != "" {
		kind, observable = KindVar, m.Var
		set++
	}
	if m.Sample != "" {
		kind, observable = KindSample, m.Sample
		set++
	}
	if len(m.Probs) > 0 {
		kind, observable = KindProbs, ""
		set++
	}
	if set != 1 {
		return "", ""
	}
	return kind, observable
}

// Load reads and parses a circuit file.
func Load(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read circuit file: %w", err)
	}
	return Parse(data)
}

// Parse parses a circuit description. Unknown fields are rejected.
func Parse(data []byte) (*Circuit, error) {
	var c Circuit
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateStructure(&c); err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}
	return &c, nil
}

func validateStructure(c *Circuit) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Device == "" {
		return fmt.Errorf("device is required")
	}
	if _, err := device.Lookup(c.Device); err != nil {
		return err
	}
	if c.Shots < 0 {
		return fmt.Errorf("shots must not be negative")
	}
	if c.Wires < 0 {
		return fmt.Errorf("wires must not be negative")
	}
	for i, op := range c.Operations {
		if op.Op == "" {
			return fmt.Errorf("operations[%d]: op is required", i)
		}
	}
	if len(c.Measurements) == 0 {
		return fmt.Errorf("measurements list is required and must be non-empty")
	}
	for i, m := range c.Measurements {
		kind, _ := m.Kind()
		if kind == "" {
			return fmt.Errorf("measurements[%d]: exactly one of expval, var, sample or probs is required", i)
		}
		if kind != KindProbs && len(m.Wires) == 0 {
			return fmt.Errorf("measurements[%d]: wires is required", i)
		}
		if kind == KindProbs && len(m.Wires) > 0 {
			return fmt.Errorf("measurements[%d]: probs lists its wires itself", i)
		}
	}
	return nil
}

// Validate checks every operation and observable against a catalog.
func (c *Circuit) Validate(cat *catalog.Catalog) error {
	for i, op := range c.Operations {
		spec, err := cat.Operation(op.Op)
		if err != nil {
			return fmt.Errorf("operations[%d]: %w", i, err)
		}
		if err := spec.CheckArity(op.Wires, floats(op.Params)); err != nil {
			return fmt.Errorf("operations[%d]: %w", i, err)
		}
	}
	for i, m := range c.Measurements {
		kind, name := m.Kind()
		if kind == KindProbs {
			continue
		}
		spec, err := cat.Observable(name)
		if err != nil {
			return fmt.Errorf("measurements[%d]: %w", i, err)
		}
		if err := spec.CheckWires(m.Wires); err != nil {
			return fmt.Errorf("measurements[%d]: %w", i, err)
		}
	}
	return nil
}
