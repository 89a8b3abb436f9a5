package cli

import (
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/synqs/internal/config"
	"github.com/roach88/synqs/internal/device"
	"github.com/roach88/synqs/internal/remote"
	"github.com/roach88/synqs/internal/store"
)

// session holds what one command invocation shares: config, journal,
// logger and metrics.
type session struct {
	opts     *RootOptions
	cfg      *config.Config
	store    *store.Store
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *remote.Metrics
}

// deviceOverrides are command-line values that win over the config file.
type deviceOverrides struct {
	URL    string
	Shots  int
	Wires  int
	JobID  string
	NoWait bool
}

// newLogger writes console-encoded logs to w. Verbose enables debug level.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// openSession loads the config. The journal is opened only when
// withStore is set.
func openSession(opts *RootOptions, cmd *cobra.Command, withStore bool) (*session, error) {
	cfg, err := config.LoadOptional(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	s := &session{
		opts:     opts,
		cfg:      cfg,
		logger:   newLogger(opts.Verbose, cmd.ErrOrStderr()),
		registry: registry,
		metrics:  remote.NewMetrics(registry),
	}

	if withStore {
		path := opts.Database
		if path == "" {
			path = cfg.StorePath()
		}
		s.logger.Debug("opening journal", zap.String("path", path))
		st, err := store.Open(path)
		if err != nil {
			return nil, withCode(ErrCodeStore, err)
		}
		s.store = st
	}
	return s, nil
}

// Close writes the metrics file and closes the journal.
func (s *session) Close() error {
	var errs []error
	if s.opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(s.opts.MetricsFile, s.registry); err != nil {
			errs = append(errs, err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = s.logger.Sync()
	return errors.Join(errs...)
}

// deviceOptions merges config values and overrides.
func (s *session) deviceOptions(shortName string, o deviceOverrides) (device.Options, error) {
	opts, err := s.cfg.DeviceOptions(shortName)
	if err != nil {
		return device.Options{}, err
	}
	if o.URL != "" {
		opts.URL = o.URL
	}
	if o.Shots != 0 {
		opts.Shots = o.Shots
	}
	if o.Wires != 0 {
		opts.Wires = o.Wires
	}
	if o.NoWait {
		opts.NoWait = true
	}
	opts.JobID = o.JobID
	return opts, nil
}

// clientOptions returns the remote client options of a device.
func (s *session) clientOptions(shortName string) ([]remote.Option, error) {
	policy, err := s.cfg.PollPolicy(shortName)
	if err != nil {
		return nil, err
	}
	opts := []remote.Option{remote.WithMetrics(s.metrics), remote.WithPollPolicy(policy)}
	if s.opts.Sleeper != nil {
		opts = append(opts, remote.WithSleeper(s.opts.Sleeper))
	}
	return opts, nil
}

// newDevice builds a device wired to the session's journal, logger and
// metrics.
func (s *session) newDevice(shortName string, opts device.Options) (*device.Device, error) {
	kind, err := device.Lookup(shortName)
	if err != nil {
		return nil, err
	}
	clientOpts, err := s.clientOptions(shortName)
	if err != nil {
		return nil, err
	}

	options := []device.Option{
		device.WithLogger(s.logger),
		device.WithClientOptions(clientOpts...),
	}
	if s.store != nil {
		options = append(options, device.WithJournal(s.store))
	}
	if s.opts.RunIDs != nil {
		options = append(options, device.WithRunIDGenerator(s.opts.RunIDs))
	}
	return device.New(kind, opts, options...)
}
