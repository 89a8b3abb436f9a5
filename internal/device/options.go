package device

import (
	"net/url"

	"go.uber.org/zap"

	"github.com/roach88/synqs/internal/catalog"
	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/remote"
)

// DefaultShots is used when Options.Shots is zero.
const DefaultShots = 1

// Options mirrors the device constructor options.
type Options struct {
	// Wires is the wire count; zero selects the kind default.
	Wires int

	// Shots is the shot count; zero selects DefaultShots. With JobID it is
	// also the record count the result must hold, and zero accepts any
	// non-empty result.
	Shots int

	// URL is the endpoint prefix; empty selects the kind default.
	URL string

	Username string
	Password string

	// JobID resumes a job submitted earlier. The device starts PENDING
	// with every device wire as the measured layout.
	JobID string

	// QuditDim is the qudit dimension of a resumed job; zero keeps the
	// default of 2. Ignored without JobID.
	QuditDim int

	// NoWait makes PreMeasure return right after submission and measurement
	// calls poll once instead of waiting for completion.
	NoWait bool
}

// resolve applies kind defaults and validates the options.
func (o Options) resolve(k Kind) (Options, error) {
	if o.Wires == 0 {
		o.Wires = k.DefaultWires
	}
	if o.Wires < 1 {
		return o, ir.Errorf(ir.ErrCodeConfiguration, "%s: wire count must be positive, got %d", k.ShortName, o.Wires)
	}
	if k.MaxWires > 0 && o.Wires > k.MaxWires {
		return o, ir.Errorf(ir.ErrCodeConfiguration, "%s: number of wires may be at most %d, got %d", k.ShortName, k.MaxWires, o.Wires)
	}

	if o.Shots == 0 {
		o.Shots = DefaultShots
	}
	if o.Shots < 1 {
		return o, ir.Errorf(ir.ErrCodeConfiguration, "%s: shot count must be positive, got %d", k.ShortName, o.Shots)
	}

	if o.QuditDim < 0 || o.QuditDim > catalog.MaxQuditAtoms+1 {
		return o, ir.Errorf(ir.ErrCodeConfiguration, "%s: qudit dimension must be between 0 and %d, got %d", k.ShortName, catalog.MaxQuditAtoms+1, o.QuditDim)
	}

	if o.URL == "" {
		o.URL = k.DefaultURL
	}
	u, err := url.Parse(o.URL)
	if err != nil {
		return o, ir.Wrap(ir.ErrCodeConfiguration, err, "%s: invalid url %q", k.ShortName, o.URL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return o, ir.Errorf(ir.ErrCodeConfiguration, "%s: url %q must be an absolute http(s) url", k.ShortName, o.URL)
	}
	return o, nil
}

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the logger. The device adds a "device" field.
func WithLogger(l *zap.Logger) Option {
	return func(d *Device) { d.logger = l }
}

// WithJournal records submissions, statuses and results.
func WithJournal(j Journal) Option {
	return func(d *Device) { d.journal = j }
}

// WithRunIDGenerator sets the run id source. Defaults to UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(d *Device) { d.runIDs = g }
}

// WithClientOptions passes options to the remote client.
func WithClientOptions(opts ...remote.Option) Option {
	return func(d *Device) { d.clientOpts = append(d.clientOpts, opts...) }
}
