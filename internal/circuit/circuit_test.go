package circuit

import (
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/synqs/internal/catalog"
	"github.com/roach88/synqs/internal/device"
	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/remote"
	"github.com/roach88/synqs/internal/testutil"
)

func newDevice(t *testing.T, fake *testutil.FakeSimulator, c *Circuit, opts device.Options) *device.Device {
	t.Helper()
	kind, err := device.Lookup(c.Device)
	require.NoError(t, err)
	opts.Shots = c.Shots
	opts.URL = fake.URL()
	d, err := device.New(kind, opts,
		device.WithClientOptions(remote.WithSleeper(&testutil.RecordingSleeper{})))
	require.NoError(t, err)
	return d
}

func TestLoad(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "hop.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "hop", c.Name)
	assert.Equal(t, "synqs.fs", c.Device)
	assert.Equal(t, 2, c.Shots)
	require.Len(t, c.Operations, 3)
	assert.Equal(t, "Hop", c.Operations[2].Op)
	assert.InDelta(t, math.Pi, float64(c.Operations[2].Params[0]), 1e-12)
	require.Len(t, c.Measurements, 4)

	kind, obs := c.Measurements[0].Kind()
	assert.Equal(t, KindExpval, kind)
	assert.Equal(t, "ParticleNumber", obs)
	kind, _ = c.Measurements[3].Kind()
	assert.Equal(t, KindProbs, kind)

	require.NoError(t, c.Validate(catalog.Fermion()))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read circuit file")
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: a\ndevice: synqs.fs\nextra: 1\nmeasurements: [{probs: [0]}]", "field extra not found"},
		{"no name", "device: synqs.fs\nmeasurements: [{probs: [0]}]", "name is required"},
		{"no device", "name: a\nmeasurements: [{probs: [0]}]", "device is required"},
		{"unknown device", "name: a\ndevice: synqs.xx\nmeasurements: [{probs: [0]}]", "synqs.xx"},
		{"negative shots", "name: a\ndevice: synqs.fs\nshots: -1\nmeasurements: [{probs: [0]}]", "shots must not be negative"},
		{"missing op", "name: a\ndevice: synqs.fs\noperations: [{wires: [0]}]\nmeasurements: [{probs: [0]}]", "operations[0]: op is required"},
		{"no measurements", "name: a\ndevice: synqs.fs", "measurements list is required"},
		{"two kinds", "name: a\ndevice: synqs.fs\nmeasurements: [{expval: PauliZ, var: PauliZ, wires: [0]}]", "exactly one of"},
		{"observable without wires", "name: a\ndevice: synqs.fs\nmeasurements: [{expval: PauliZ}]", "wires is required"},
		{"probs with wires", "name: a\ndevice: synqs.fs\nmeasurements: [{probs: [0], wires: [1]}]", "probs lists its wires"},
		{"bad param", "name: a\ndevice: synqs.fs\noperations: [{op: Hop, wires: [0,1,2,3], params: [tau]}]\nmeasurements: [{probs: [0]}]", "tau"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateAgainstCatalog(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code ir.ErrorCode
		want string
	}{
		{"unknown op", "name: a\ndevice: synqs.fs\noperations: [{op: rX, wires: [0]}]\nmeasurements: [{probs: [0]}]",
			ir.ErrCodeUnsupported, "operations[0]"},
		{"wrong arity", "name: a\ndevice: synqs.fs\noperations: [{op: Hop, wires: [0, 1], params: [pi]}]\nmeasurements: [{probs: [0]}]",
			ir.ErrCodeInvalidArgument, "operations[0]"},
		{"unknown observable", "name: a\ndevice: synqs.fs\nmeasurements: [{expval: Lz, wires: [0]}]",
			ir.ErrCodeUnsupported, "measurements[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			err = c.Validate(catalog.Fermion())
			require.Error(t, err)
			assert.Equal(t, tt.code, ir.CodeOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExecuteGolden(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "hop.yaml"))
	require.NoError(t, err)

	fake := testutil.NewFakeSimulator(t, testutil.ModelFermion)
	d := newDevice(t, fake, c, device.Options{})

	report, err := Execute(context.Background(), d, c)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Count(testutil.EndpointSubmit))
	assert.Equal(t, 1, fake.Count(testutil.EndpointResult))

	got, err := json.MarshalIndent(report, "", "  ")
	require.NoError(t, err)
	got = append(got, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "hop_report", got)
}

func TestExecuteNoWaitReturnsPending(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "hop.yaml"))
	require.NoError(t, err)

	fake := testutil.NewFakeSimulator(t, testutil.ModelFermion, testutil.WithPendingStatuses("QUEUED"))
	d := newDevice(t, fake, c, device.Options{NoWait: true})
	ctx := context.Background()

	report, err := Execute(ctx, d, c)
	require.NoError(t, err)
	assert.Equal(t, device.StatusPending, report.Status)
	assert.Equal(t, "job-1", report.JobID)
	assert.Empty(t, report.Measurements)
	assert.Equal(t, 0, fake.Count(testutil.EndpointStatus))

	report, err = Collect(ctx, d, c.Name, c.Measurements)
	require.NoError(t, err)
	assert.Equal(t, device.StatusPending, report.Status)

	report, err = Collect(ctx, d, c.Name, c.Measurements)
	require.NoError(t, err)
	assert.Equal(t, device.StatusDone, report.Status)
	require.Len(t, report.Measurements, 4)
	assert.Equal(t, []float64{0, 0, 1, 1}, report.Measurements[0].Values)
}

func TestExecuteRejectsDeviceMismatch(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "hop.yaml"))
	require.NoError(t, err)

	fake := testutil.NewFakeSimulator(t, testutil.ModelQudit)
	kind, err := device.Lookup("synqs.mqs")
	require.NoError(t, err)
	d, err := device.New(kind, device.Options{URL: fake.URL()})
	require.NoError(t, err)

	_, err = Execute(context.Background(), d, c)
	assert.ErrorContains(t, err, "targets synqs.fs")
	assert.Empty(t, fake.Requests())
}

func TestExecuteStopsAtUnsupportedOperation(t *testing.T) {
	c, err := Parse([]byte("name: a\ndevice: synqs.fs\noperations: [{op: rX, wires: [0]}]\nmeasurements: [{probs: [0]}]"))
	require.NoError(t, err)

	fake := testutil.NewFakeSimulator(t, testutil.ModelFermion)
	d := newDevice(t, fake, c, device.Options{})

	_, err = Execute(context.Background(), d, c)
	require.Error(t, err)
	assert.True(t, ir.IsUnsupported(err))
	assert.Empty(t, fake.Requests())
}
