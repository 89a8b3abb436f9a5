package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/synqs/internal/device"
	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/remote"
)

//go:embed schema.cue
var schemaCUE string

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "synqs.cue"

// DefaultStorePath is the journal location when neither the file nor
// SYNQS_DB names one.
const DefaultStorePath = "synqs.db"

// Environment variables consulted when the file leaves a value unset.
const (
	EnvUsername     = "SYNQS_USERNAME"
	EnvPassword     = "SYNQS_PASSWORD"
	EnvStore        = "SYNQS_DB"
	EnvPollInterval = "SYNQS_POLL_INTERVAL"
)

// Error codes of configuration failures.
const (
	ErrCodeLoadFailed  = "E004" // file could not be read
	ErrCodeNotFound    = "E005" // file not found
	ErrCodeBuildFailed = "E006" // CUE syntax error
	ErrCodeSchema      = "E201" // value violates the schema
	ErrCodeUnknownKind = "E202" // device section names no known device
)

// LoadError is a configuration failure, positioned when CUE knows where.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Config is the decoded configuration file.
type Config struct {
	Store   string                  `json:"store,omitempty"`
	Devices map[string]DeviceConfig `json:"devices,omitempty"`
}

// DeviceConfig holds the settings of one device, keyed by short name.
type DeviceConfig struct {
	URL          string `json:"url,omitempty"`
	Wires        int    `json:"wires,omitempty"`
	Shots        int    `json:"shots,omitempty"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	Blocking     *bool  `json:"blocking,omitempty"`
	PollInterval string `json:"poll_interval,omitempty"`
	BackoffMax   string `json:"backoff_max,omitempty"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading config: %v", err)}
	}
	return Parse(data, path)
}

// LoadOptional is Load, except a missing file yields an empty Config.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	var le *LoadError
	if errors.As(err, &le) && le.Code == ErrCodeNotFound {
		return &Config{}, nil
	}
	return cfg, err
}

// Parse validates CUE source against the embedded schema and decodes it.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config: embedded schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchema, err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, cueLoadError(ErrCodeSchema, err)
	}

	for _, name := range cfg.deviceNames() {
		if _, err := device.Lookup(name); err != nil {
			pos := value.LookupPath(cue.MakePath(cue.Str("devices"), cue.Str(name))).Pos()
			return nil, &LoadError{Code: ErrCodeUnknownKind, Message: err.Error(), Pos: pos}
		}
		dc := cfg.Devices[name]
		for _, d := range []string{dc.PollInterval, dc.BackoffMax} {
			if d == "" {
				continue
			}
			if _, err := time.ParseDuration(d); err != nil {
				return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("devices.%q: %v", name, err)}
			}
		}
	}
	return &cfg, nil
}

func cueLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Message = errs[0].Error()
		le.Pos = errs[0].Position()
	}
	return le
}

func (c *Config) deviceNames() []string {
	names := make([]string, 0, len(c.Devices))
	for name := range c.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StorePath returns the journal path: the file value, then SYNQS_DB, then
// DefaultStorePath.
func (c *Config) StorePath() string {
	return firstNonEmpty(c.Store, os.Getenv(EnvStore), DefaultStorePath)
}

// DeviceOptions merges file values and environment fallbacks into device
// options. Unset values stay zero so the device applies its kind defaults.
func (c *Config) DeviceOptions(shortName string) (device.Options, error) {
	if _, err := device.Lookup(shortName); err != nil {
		return device.Options{}, err
	}
	dc := c.Devices[shortName]
	return device.Options{
		Wires:    dc.Wires,
		Shots:    dc.Shots,
		URL:      dc.URL,
		Username: firstNonEmpty(dc.Username, os.Getenv(EnvUsername)),
		Password: firstNonEmpty(dc.Password, os.Getenv(EnvPassword)),
		NoWait:   dc.Blocking != nil && !*dc.Blocking,
	}, nil
}

// PollPolicy returns the poll policy of a device: a fixed interval, or an
// exponential backoff from the interval up to backoff_max when set.
func (c *Config) PollPolicy(shortName string) (remote.PollPolicy, error) {
	dc := c.Devices[shortName]

	interval := remote.DefaultPollInterval
	if s := firstNonEmpty(dc.PollInterval, os.Getenv(EnvPollInterval)); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return nil, ir.Errorf(ir.ErrCodeConfiguration, "%s: invalid poll interval %q", shortName, s)
		}
		interval = d
	}

	if dc.BackoffMax == "" {
		return remote.FixedInterval(interval), nil
	}
	maxDelay, err := time.ParseDuration(dc.BackoffMax)
	if err != nil {
		return nil, ir.Errorf(ir.ErrCodeConfiguration, "%s: invalid backoff_max %q", shortName, dc.BackoffMax)
	}
	return remote.ExponentialBackoff(interval, maxDelay), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
