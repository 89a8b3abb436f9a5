package device

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/synqs/internal/catalog"
	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/job"
	"github.com/roach88/synqs/internal/postproc"
	"github.com/roach88/synqs/internal/remote"
)

// State is the lifecycle state of a Device.
type State int

const (
	StateIdle State = iota
	StateAccumulating
	StatePending
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateAccumulating:
		return "ACCUMULATING"
	case StatePending:
		return "PENDING"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Device runs circuits on one remote simulator.
//
// A Device is not safe for concurrent use.
type Device struct {
	kind       Kind
	opts       Options
	wires      []int
	client     *remote.Client
	clientOpts []remote.Option
	logger     *zap.Logger
	journal    Journal
	runIDs     RunIDGenerator

	state    State
	acc      *job.Accumulator
	handle   remote.Handle
	measured []int
	matrix   *postproc.SampleMatrix
	quditDim int

	// expected is the record count the result must hold; zero when a
	// resumed job was opened without a shot count.
	expected int
	resumed  bool
}

// New creates a device. Invalid options fail with CONFIGURATION_INVALID
// before any network call.
func New(kind Kind, opts Options, options ...Option) (*Device, error) {
	resolved, err := opts.resolve(kind)
	if err != nil {
		return nil, err
	}

	d := &Device{
		kind:     kind,
		opts:     resolved,
		logger:   zap.NewNop(),
		runIDs:   UUIDv7Generator{},
		quditDim: catalog.DefaultQuditDim,
	}
	for _, opt := range options {
		opt(d)
	}
	d.logger = d.logger.With(zap.String("device", kind.ShortName))

	d.wires = make([]int, resolved.Wires)
	for i := range d.wires {
		d.wires[i] = i
	}

	clientOpts := append([]remote.Option{remote.WithLogger(d.logger)}, d.clientOpts...)
	d.client = remote.New(resolved.URL, remote.Credentials{
		Username: resolved.Username,
		Password: resolved.Password,
	}, clientOpts...)

	if resolved.JobID != "" {
		d.handle = remote.Handle(resolved.JobID)
		d.expected = opts.Shots
		d.resumed = true
		d.measured = d.Wires()
		d.state = StatePending
		if resolved.QuditDim > 0 {
			d.quditDim = resolved.QuditDim
		}
		d.logger.Debug("resuming job", zap.String("job_id", resolved.JobID))
	}
	return d, nil
}

// Kind returns the device kind.
func (d *Device) Kind() Kind { return d.kind }

// ShortName returns the registry name of the device.
func (d *Device) ShortName() string { return d.kind.ShortName }

// NumWires returns the configured wire count.
func (d *Device) NumWires() int { return len(d.wires) }

// Wires returns the device wires in declared order.
func (d *Device) Wires() []int { return append([]int(nil), d.wires...) }

// Shots returns the configured shot count.
func (d *Device) Shots() int { return d.opts.Shots }

// URL returns the remote endpoint prefix.
func (d *Device) URL() string { return d.client.BaseURL() }

// State returns the current lifecycle state.
func (d *Device) State() State { return d.state }

// JobID returns the id of the submitted job, or "".
func (d *Device) JobID() string { return string(d.handle) }

// QuditDim returns the qudit dimension used by centered observables.
func (d *Device) QuditDim() int { return d.quditDim }

// Operations returns the supported operation names.
func (d *Device) Operations() []string { return d.kind.Catalog.Operations() }

// Observables returns the supported observable names.
func (d *Device) Observables() []string { return d.kind.Catalog.Observables() }

// Capabilities returns the capability record.
func (d *Device) Capabilities() Capabilities { return d.kind.Capabilities() }

// Payload returns a copy of the payload being accumulated.
func (d *Device) Payload() (job.Payload, bool) {
	if d.acc == nil {
		return job.Payload{}, false
	}
	return d.acc.Payload(), true
}

// Reset discards the payload, job handle, samples and qudit dimension.
func (d *Device) Reset() {
	d.state = StateIdle
	d.acc = nil
	d.handle = ""
	d.measured = nil
	d.matrix = nil
	d.quditDim = catalog.DefaultQuditDim
	d.expected = 0
	d.resumed = false
}

// PreApply resets the device and starts a new payload.
func (d *Device) PreApply() {
	d.Reset()
	d.acc = job.New(len(d.wires), d.opts.Shots)
	d.expected = d.opts.Shots
	d.state = StateAccumulating
}

// Apply appends the instructions of one operation. On error the payload is
// unchanged.
func (d *Device) Apply(op string, wires []int, params []float64) error {
	if d.state != StateAccumulating {
		return ir.Errorf(ir.ErrCodeInvalidState, "apply %q in state %s", op, d.state)
	}
	spec, err := d.kind.Catalog.Operation(op)
	if err != nil {
		return err
	}
	instrs, err := d.kind.Catalog.Build(op, wires, params)
	if err != nil {
		return err
	}
	for _, in := range instrs {
		if err := d.checkWires(in.Wires); err != nil {
			return err
		}
	}
	if err := d.acc.Append(instrs...); err != nil {
		return ir.Wrap(ir.ErrCodeInvalidState, err, "apply %q", op)
	}
	if spec.QuditDim != nil {
		if dim := spec.QuditDim(params); dim > 0 {
			d.quditDim = dim
		}
	}
	return nil
}

// PreMeasure measures all device wires and submits the job. With NoWait it
// returns a Pending result right after submission; otherwise it waits for
// the job and decodes its samples.
func (d *Device) PreMeasure(ctx context.Context) (Result, error) {
	if d.state != StateAccumulating {
		return Result{}, ir.Errorf(ir.ErrCodeInvalidState, "pre-measure in state %s", d.state)
	}
	if err := d.submit(ctx); err != nil {
		return Result{}, err
	}
	if d.opts.NoWait {
		return pending(d.JobID()), nil
	}
	ok, err := d.ensureSamples(ctx)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return pending(d.JobID()), nil
	}
	return Result{Status: StatusDone, JobID: d.JobID()}, nil
}

// Expval returns the per-wire expectation value of an observable.
func (d *Device) Expval(ctx context.Context, obs string, wires []int, params []float64) (Result, error) {
	return d.reduce(ctx, obs, wires, postproc.Expectation)
}

// Var returns the per-wire population variance of an observable.
func (d *Device) Var(ctx context.Context, obs string, wires []int, params []float64) (Result, error) {
	return d.reduce(ctx, obs, wires, postproc.Variance)
}

// Sample returns the transformed per-shot samples of an observable, one
// column per wire.
func (d *Device) Sample(ctx context.Context, obs string, wires []int, params []float64) (Result, error) {
	spec, err := d.observable(obs, wires)
	if err != nil {
		return Result{}, err
	}
	ok, err := d.ensureSamples(ctx)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return pending(d.JobID()), nil
	}
	samples, err := postproc.Samples(d.matrix, spec.Kind, wires, d.quditDim)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: StatusDone, JobID: d.JobID(), Samples: samples}, nil
}

// Probability returns the probability table over wires; nil selects all
// measured wires. Qudit devices use the qudit dimension as digit base.
func (d *Device) Probability(ctx context.Context, wires []int) (Result, error) {
	if wires != nil {
		if err := d.checkWires(wires); err != nil {
			return Result{}, err
		}
	}
	ok, err := d.ensureSamples(ctx)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return pending(d.JobID()), nil
	}
	if wires == nil {
		wires = append([]int(nil), d.measured...)
	}
	base := 2
	if d.kind.Qudit {
		base = d.quditDim
	}
	table, err := postproc.Probabilities(d.matrix, wires, base)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: StatusDone, JobID: d.JobID(), Probabilities: table}, nil
}

type reduction func(m *postproc.SampleMatrix, kind postproc.Kind, wires []int, quditDim int) ([]float64, error)

func (d *Device) reduce(ctx context.Context, obs string, wires []int, fn reduction) (Result, error) {
	spec, err := d.observable(obs, wires)
	if err != nil {
		return Result{}, err
	}
	if spec.Kind == postproc.KindIdentity {
		values, err := fn(nil, spec.Kind, wires, d.quditDim)
		return Result{Status: StatusDone, JobID: d.JobID(), Values: values}, err
	}
	ok, err := d.ensureSamples(ctx)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return pending(d.JobID()), nil
	}
	values, err := fn(d.matrix, spec.Kind, wires, d.quditDim)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: StatusDone, JobID: d.JobID(), Values: values}, nil
}

func (d *Device) observable(name string, wires []int) (catalog.ObservableSpec, error) {
	spec, err := d.kind.Catalog.Observable(name)
	if err != nil {
		return spec, err
	}
	if err := spec.CheckWires(wires); err != nil {
		return spec, err
	}
	return spec, d.checkWires(wires)
}

func (d *Device) checkWires(wires []int) error {
	for _, w := range wires {
		if w < 0 || w >= len(d.wires) {
			return ir.Errorf(ir.ErrCodeInvalidArgument,
				"wire %d out of range for %d-wire device %s", w, len(d.wires), d.kind.ShortName)
		}
	}
	return nil
}

// submit measures all device wires and posts the payload. A payload left
// frozen by a failed submission is posted again without re-measuring.
func (d *Device) submit(ctx context.Context) error {
	if !d.acc.Frozen() {
		if err := d.acc.Measure(d.wires); err != nil {
			return ir.Wrap(ir.ErrCodeInvalidState, err, "measure")
		}
	}
	payload := d.acc.Payload()

	h, err := d.client.Submit(ctx, payload)
	if err != nil {
		return err
	}
	d.handle = h
	d.measured = payload.MeasuredWires()
	d.state = StatePending
	d.logger.Debug("job submitted", zap.String("job_id", string(h)), zap.Int("instructions", d.acc.Len()))

	if d.journal != nil {
		s := Submission{
			JobID:   string(h),
			RunID:   d.runIDs.Generate(),
			Device:  d.kind.ShortName,
			URL:     d.client.BaseURL(),
			Payload: payload,
		}
		if s.PayloadHash, err = payload.Hash(d.kind.ShortName); err != nil {
			d.logger.Warn("payload hash failed", zap.String("job_id", s.JobID), zap.Error(err))
		}
		if err := d.journal.RecordSubmission(ctx, s); err != nil {
			d.logger.Warn("journal submission failed", zap.String("job_id", s.JobID), zap.Error(err))
		}
	}
	return nil
}

// ensureSamples makes the sample matrix available. It submits an
// accumulating circuit first. It reports false while a NoWait job is
// unfinished.
func (d *Device) ensureSamples(ctx context.Context) (bool, error) {
	switch d.state {
	case StateIdle:
		return false, ir.Errorf(ir.ErrCodeInvalidState, "no circuit to measure")
	case StateDone:
		return true, nil
	case StateAccumulating:
		if err := d.submit(ctx); err != nil {
			return false, err
		}
	}

	if memory, ok := d.journaledResult(ctx); ok {
		if err := d.decode(ctx, memory, false); err != nil {
			return false, err
		}
		return true, nil
	}

	var (
		status remote.Status
		err    error
	)
	if d.opts.NoWait {
		status, err = d.client.PollStatus(ctx, d.handle)
	} else {
		status, err = d.client.AwaitCompletion(ctx, d.handle)
	}
	d.recordStatus(ctx, status, err)
	if err != nil {
		return false, err
	}
	if status != remote.StatusDone {
		return false, nil
	}

	memory, err := d.client.FetchResult(ctx, d.handle)
	if err != nil {
		return false, err
	}
	if err := d.decode(ctx, memory, true); err != nil {
		return false, err
	}
	return true, nil
}

// decode turns memory into the sample matrix and moves to DONE. Fetched
// memory is journaled once it decodes.
func (d *Device) decode(ctx context.Context, memory []string, fetched bool) error {
	m, err := postproc.Decode(memory, d.measured, d.expected)
	if err != nil {
		return &ir.Error{Code: ir.CodeOf(err), Message: "decode result", JobID: string(d.handle), Err: err}
	}
	if fetched && d.journal != nil {
		if err := d.journal.RecordResult(ctx, string(d.handle), memory); err != nil {
			d.logger.Warn("journal result failed", zap.String("job_id", string(d.handle)), zap.Error(err))
		}
	}

	d.matrix = m
	d.state = StateDone
	d.logger.Debug("samples decoded", zap.String("job_id", string(d.handle)), zap.Int("shots", m.Shots()), zap.Bool("journaled", !fetched))
	return nil
}

// journaledResult returns the stored result of a resumed job.
func (d *Device) journaledResult(ctx context.Context) ([]string, bool) {
	r, ok := d.journal.(ResultReader)
	if !d.resumed || !ok {
		return nil, false
	}
	memory, err := r.ReadResult(ctx, string(d.handle))
	if err != nil {
		d.logger.Debug("no journaled result", zap.String("job_id", string(d.handle)), zap.Error(err))
		return nil, false
	}
	return memory, true
}

// recordStatus journals a status the service actually reported.
func (d *Device) recordStatus(ctx context.Context, status remote.Status, err error) {
	if d.journal == nil || status == "" {
		return
	}
	var detail string
	var e *ir.Error
	if errors.As(err, &e) {
		detail = e.Detail
	}
	if err := d.journal.RecordStatus(ctx, string(d.handle), status, detail); err != nil {
		d.logger.Warn("journal status failed", zap.String("job_id", string(d.handle)), zap.Error(err))
	}
}
