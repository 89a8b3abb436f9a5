package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/synqs/internal/config"
	"github.com/roach88/synqs/internal/device"
	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/remote"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigPath  string
	Database    string
	MetricsFile string

	// Sleeper overrides the poll sleeper (for testing).
	Sleeper remote.Sleeper

	// RunIDs overrides the run id generator (for testing).
	// If nil, devices use UUIDv7Generator.
	RunIDs device.RunIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the synqs CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "synqs",
		Version: ir.ClientVersion,
		Short:   "synqs - remote cold-atom simulators",
		Long: `Submit circuits to the remote cold-atom simulators (synqs.sqs,
synqs.mqs, synqs.fs), poll their jobs and post-process the results.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath, "path to CUE configuration")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the job journal (default from config)")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "write client metrics to this file on exit")

	cmd.AddCommand(NewDevicesCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewResultCommand(opts))
	cmd.AddCommand(NewJobsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
