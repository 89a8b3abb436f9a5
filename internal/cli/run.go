package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/synqs/internal/circuit"
	"github.com/roach88/synqs/internal/device"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	URL    string
	Shots  int
	NoWait bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <circuit.yaml>",
		Short: "Execute a circuit on a remote simulator",
		Long: `Submit a circuit to its device, wait for the job and print every
requested measurement. The job is recorded in the journal.

With --no-wait the command returns right after submission and prints the
job id; fetch the outcome later with "synqs result".

Example:
  synqs run hop.yaml
  synqs run --shots 500 --no-wait hop.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCircuit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "endpoint prefix (overrides config)")
	cmd.Flags().IntVar(&opts.Shots, "shots", 0, "shot count (overrides circuit and config)")
	cmd.Flags().BoolVar(&opts.NoWait, "no-wait", false, "return after submission")

	return cmd
}

func runCircuit(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	c, _, err := loadCircuit(path)
	if err != nil {
		return formatter.Fail("invalid circuit", err)
	}

	s, err := openSession(opts.RootOptions, cmd, true)
	if err != nil {
		return formatter.Fail("failed to start", err)
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			s.logger.Error("error closing session", zap.Error(closeErr))
		}
	}()

	shots := opts.Shots
	if shots == 0 {
		shots = c.Shots
	}
	devOpts, err := s.deviceOptions(c.Device, deviceOverrides{
		URL:    opts.URL,
		Shots:  shots,
		Wires:  c.Wires,
		NoWait: opts.NoWait,
	})
	if err != nil {
		return formatter.Fail("invalid device options", err)
	}
	dev, err := s.newDevice(c.Device, devOpts)
	if err != nil {
		return formatter.Fail("invalid device options", err)
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	s.logger.Info("running circuit", zap.String("circuit", c.Name), zap.String("device", c.Device))
	report, err := circuit.Execute(ctx, dev, c)
	if err != nil {
		return formatter.Fail("circuit failed", err)
	}
	return formatter.Success(report, func(w io.Writer) { writeReport(w, report) })
}

// signalContext cancels on SIGINT or SIGTERM. Uses the command's context
// if set (for testing).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func writeReport(w io.Writer, r *circuit.Report) {
	if r.Status == device.StatusPending {
		fmt.Fprintf(w, "%s on %s: job %s is still running\n", r.Circuit, r.Device, r.JobID)
		fmt.Fprintf(w, "fetch it with: synqs result %s --device %s\n", r.JobID, r.Device)
		return
	}

	fmt.Fprintf(w, "%s on %s (job %s)\n", r.Circuit, r.Device, r.JobID)
	for _, m := range r.Measurements {
		label := m.Kind
		if m.Observable != "" {
			label += " " + m.Observable
		}
		switch {
		case m.Probabilities != nil:
			fmt.Fprintf(w, "  %s %v:\n", label, m.Wires)
			for _, key := range slices.Sorted(maps.Keys(m.Probabilities)) {
				if p := m.Probabilities[key]; p > 0 {
					fmt.Fprintf(w, "    %s  %g\n", key, p)
				}
			}
		case m.Samples != nil:
			fmt.Fprintf(w, "  %s %v:\n", label, m.Wires)
			for i, column := range m.Samples {
				fmt.Fprintf(w, "    wire %d: %s\n", m.Wires[i], formatFloats(column))
			}
		default:
			fmt.Fprintf(w, "  %s %v: %s\n", label, m.Wires, formatFloats(m.Values))
		}
	}
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, " ")
}
