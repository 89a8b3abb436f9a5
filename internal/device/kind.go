package device

import (
	"sort"

	"github.com/roach88/synqs/internal/catalog"
	"github.com/roach88/synqs/internal/ir"
)

// Kind is the static configuration of one simulator.
type Kind struct {
	ShortName string
	Name      string
	Version   string
	Author    string

	// Model is reported through Capabilities.
	Model string

	Catalog *catalog.Catalog

	// DefaultWires is used when no wire count is configured.
	DefaultWires int

	// MaxWires is the hard wire limit; 0 means unlimited.
	MaxWires int

	DefaultURL string

	// Qudit kinds track a qudit dimension set by Load; probability
	// tables use it as the digit base. Other kinds use base 2.
	Qudit bool
}

// Capabilities describes what a device supports.
type Capabilities struct {
	Model                     string `json:"model"`
	SupportsFiniteShots       bool   `json:"supports_finite_shots"`
	SupportsTensorObservables bool   `json:"supports_tensor_observables"`
	ReturnsProbs              bool   `json:"returns_probs"`
}

// Capabilities returns the capability record of the kind.
func (k Kind) Capabilities() Capabilities {
	return Capabilities{
		Model:                     k.Model,
		SupportsFiniteShots:       true,
		SupportsTensorObservables: true,
		ReturnsProbs:              false,
	}
}

var (
	// SingleQudit is the single-qudit simulator; it has exactly one wire.
	SingleQudit = Kind{
		ShortName:    "synqs.sqs",
		Name:         "Single Qudit Quantum Simulator Simulator plugin",
		Version:      "0.0.1",
		Author:       "Fred Jendrzejewski",
		Model:        "qudit",
		Catalog:      catalog.SingleQudit(),
		DefaultWires: 1,
		MaxWires:     1,
		DefaultURL:   "http://qsimsim.synqs.org/api/singlequdit/",
		Qudit:        true,
	}

	// MultiQudit is the multi-qudit simulator.
	MultiQudit = Kind{
		ShortName:    "synqs.mqs",
		Name:         "Multi Qudit Quantum Simulator plugin",
		Version:      "0.0.1",
		Author:       "Fred Jendrzejewski",
		Model:        "qudit",
		Catalog:      catalog.MultiQudit(),
		DefaultWires: 1,
		DefaultURL:   "http://qsimsim.synqs.org/api/multiqudit/",
		Qudit:        true,
	}

	// Fermion is the fermionic tweezer simulator with at most eight wires.
	Fermion = Kind{
		ShortName:    "synqs.fs",
		Name:         "Fermion Quantum Simulator Simulator plugin",
		Version:      "0.2.0",
		Author:       "Rohit P. Bhatt, Christian Gogolin, Fred Jendrzejewski, Valentin Kasper",
		Model:        "fermions",
		Catalog:      catalog.Fermion(),
		DefaultWires: 8,
		MaxWires:     8,
		DefaultURL:   "http://qsimsim.synqs.org/fermions/",
	}
)

var registry = map[string]Kind{
	SingleQudit.ShortName: SingleQudit,
	MultiQudit.ShortName:  MultiQudit,
	Fermion.ShortName:     Fermion,
}

// Lookup returns the kind registered under a short name.
func Lookup(shortName string) (Kind, error) {
	k, ok := registry[shortName]
	if !ok {
		return Kind{}, ir.Errorf(ir.ErrCodeConfiguration, "unknown device %q (known: %v)", shortName, ShortNames())
	}
	return k, nil
}

// ShortNames returns the registered short names, sorted.
func ShortNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns the registered kinds ordered by short name.
func Kinds() []Kind {
	names := ShortNames()
	out := make([]Kind, len(names))
	for i, name := range names {
		out[i] = registry[name]
	}
	return out
}
