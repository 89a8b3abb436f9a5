package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/synqs/internal/device"
	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/remote"
	"github.com/roach88/synqs/internal/store"
)

// JobStatus is the outcome of one status poll.
type JobStatus struct {
	JobID  string        `json:"job_id"`
	Device string        `json:"device"`
	Status remote.Status `json:"status"`
	Detail string        `json:"detail,omitempty"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	var shortName string

	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Poll the status of a job once",
		Long: `Ask the remote service for the status of a job and record it in the
journal. Jobs missing from the journal need --device.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, args[0], shortName, cmd)
		},
	}

	cmd.Flags().StringVar(&shortName, "device", "", "device short name (default from journal)")

	return cmd
}

func runStatus(opts *RootOptions, jobID, shortName string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	s, err := openSession(opts, cmd, true)
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

	target, err := s.resolveJob(ctx, jobID, shortName)
	if err != nil {
		return formatter.Fail("unknown job", err)
	}
	devOpts, err := s.deviceOptions(target.device, deviceOverrides{URL: target.url})
	if err != nil {
		return formatter.Fail("invalid device options", err)
	}
	if devOpts.URL == "" {
		devOpts.URL = target.kind.DefaultURL
	}
	clientOpts, err := s.clientOptions(target.device)
	if err != nil {
		return formatter.Fail("invalid device options", err)
	}
	logger := s.logger.With(zap.String("device", target.device))
	client := remote.New(devOpts.URL, remote.Credentials{
		Username: devOpts.Username,
		Password: devOpts.Password,
	}, append(clientOpts, remote.WithLogger(logger))...)

	status, pollErr := client.PollStatus(ctx, remote.Handle(jobID))
	result := JobStatus{JobID: jobID, Device: target.device, Status: status}
	var irErr *ir.Error
	if errors.As(pollErr, &irErr) {
		result.Detail = irErr.Detail
	}
	if status != "" {
		if err := s.store.RecordStatus(ctx, jobID, status, result.Detail); err != nil {
			logger.Warn("journal status failed", zap.String("job_id", jobID), zap.Error(err))
		}
	}
	if pollErr != nil {
		return formatter.Fail("job failed", pollErr)
	}

	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "job %s on %s: %s\n", result.JobID, result.Device, result.Status)
	})
}

// jobTarget says where a job lives.
type jobTarget struct {
	device string
	kind   device.Kind
	url    string

	// journaled is set when the journal knows the job.
	journaled bool
	job       store.Job
}

// resolveJob finds a job in the journal, falling back to the device flag.
// The device must be registered either way.
func (s *session) resolveJob(ctx context.Context, jobID, shortName string) (jobTarget, error) {
	j, err := s.store.ReadJob(ctx, jobID)
	switch {
	case err == nil:
		if shortName != "" && shortName != j.Device {
			return jobTarget{}, ir.Errorf(ir.ErrCodeConfiguration,
				"job %s ran on %s, not %s", jobID, j.Device, shortName)
		}
		kind, err := device.Lookup(j.Device)
		if err != nil {
			return jobTarget{}, err
		}
		return jobTarget{device: j.Device, kind: kind, url: j.URL, journaled: true, job: j}, nil
	case !errors.Is(err, store.ErrNotFound):
		return jobTarget{}, withCode(ErrCodeStore, err)
	case shortName == "":
		return jobTarget{}, withCode(ErrCodeStore,
			fmt.Errorf("job %s is not in the journal; pass --device", jobID))
	}
	kind, err := device.Lookup(shortName)
	if err != nil {
		return jobTarget{}, err
	}
	return jobTarget{device: shortName, kind: kind}, nil
}
