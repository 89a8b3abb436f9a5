package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/synqs/internal/circuit"
	"github.com/roach88/synqs/internal/job"
)

// ResultOptions holds flags for the result command.
type ResultOptions struct {
	*RootOptions
	Device   string
	Wires    []int
	Shots    int
	QuditDim int
	NoWait   bool
}

// NewResultCommand creates the result command.
func NewResultCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "result <job-id>",
		Short: "Fetch and decode the result of a job",
		Long: `Wait for a job, fetch its per-shot records and print the probability
table over the selected wires (all measured wires by default). Journaled
jobs carry their shot count and qudit dimension; for other jobs pass
--shots and --qudit-dim.

Example:
  synqs result job-42
  synqs result job-42 --device synqs.fs --wires 0,1
  synqs result job-7 --device synqs.mqs --shots 100 --qudit-dim 4`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Device, "device", "", "device short name (default from journal)")
	cmd.Flags().IntSliceVar(&opts.Wires, "wires", nil, "wires of the probability table")
	cmd.Flags().IntVar(&opts.Shots, "shots", 0, "expected shot count (default from journal, else any)")
	cmd.Flags().IntVar(&opts.QuditDim, "qudit-dim", 0, "qudit dimension (default from journal, else 2)")
	cmd.Flags().BoolVar(&opts.NoWait, "no-wait", false, "poll once instead of waiting")

	return cmd
}

func runResult(opts *ResultOptions, jobID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	s, err := openSession(opts.RootOptions, cmd, true)
	if err != nil {
		return formatter.Fail("failed to start", err)
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			s.logger.Error("error closing session", zap.Error(closeErr))
		}
	}()

	ctx, stop := signalContext(cmd)
	defer stop()

	target, err := s.resolveJob(ctx, jobID, opts.Device)
	if err != nil {
		return formatter.Fail("unknown job", err)
	}
	overrides := deviceOverrides{URL: target.url, JobID: jobID, NoWait: opts.NoWait}
	if target.journaled {
		overrides.Wires = target.job.Payload.NumWires
	}
	devOpts, err := s.deviceOptions(target.device, overrides)
	if err != nil {
		return formatter.Fail("invalid device options", err)
	}
	devOpts.Shots, devOpts.QuditDim = opts.Shots, opts.QuditDim
	if target.journaled {
		if devOpts.Shots == 0 {
			devOpts.Shots = target.job.Payload.Shots
		}
		if devOpts.QuditDim == 0 {
			devOpts.QuditDim = quditDimOf(target.job.Payload)
		}
	}
	dev, err := s.newDevice(target.device, devOpts)
	if err != nil {
		return formatter.Fail("invalid device options", err)
	}

	wires := opts.Wires
	if len(wires) == 0 {
		wires = dev.Wires()
	}
	report, err := circuit.Collect(ctx, dev, jobID, []circuit.Measurement{{Probs: wires}})
	if err != nil {
		return formatter.Fail("result failed", err)
	}
	return formatter.Success(report, func(w io.Writer) { writeReport(w, report) })
}

// quditDimOf returns the qudit dimension set by the last load of a
// payload, or 0 when the payload loads nothing.
func quditDimOf(p job.Payload) int {
	dim := 0
	for _, in := range p.Instructions {
		if in.Opcode == "load" && len(in.Params) == 1 {
			dim = int(in.Params[0]) + 1
		}
	}
	return dim
}
