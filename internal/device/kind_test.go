package device

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/synqs/internal/ir"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"synqs.sqs", "synqs.mqs", "synqs.fs"} {
		k, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.ShortName)
	}

	_, err := Lookup("synqs.nali")
	assert.True(t, ir.IsConfiguration(err))
}

func TestShortNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"synqs.fs", "synqs.mqs", "synqs.sqs"}, ShortNames())
	assert.Len(t, Kinds(), 3)
	assert.Equal(t, "synqs.fs", Kinds()[0].ShortName)
}

func TestFermionOperations(t *testing.T) {
	d, err := New(Fermion, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ChemicalPotential", "HartreeFock", "Hop", "Inter",
		"Load", "OnSiteInteraction", "Phase", "Tunneling",
	}, d.Operations())
	assert.Equal(t, []string{"Identity", "ParticleNumber", "PauliZ"}, d.Observables())
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, Capabilities{
		Model:                     "fermions",
		SupportsFiniteShots:       true,
		SupportsTensorObservables: true,
	}, Fermion.Capabilities())
	assert.Equal(t, "qudit", MultiQudit.Capabilities().Model)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ACCUMULATING", StateAccumulating.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
