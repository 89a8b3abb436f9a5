package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/synqs/internal/store"
)

// JobEntry is one journal row.
type JobEntry struct {
	JobID       string `json:"job_id"`
	RunID       string `json:"run_id"`
	Device      string `json:"device"`
	Status      string `json:"status"`
	Detail      string `json:"detail,omitempty"`
	Shots       int    `json:"shots"`
	PayloadHash string `json:"payload_hash"`
}

// NewJobsCommand creates the jobs command.
func NewJobsCommand(rootOpts *RootOptions) *cobra.Command {
	var shortName string

	cmd := &cobra.Command{
		Use:           "jobs",
		Short:         "List journaled jobs",
		Long:          `List the jobs recorded in the journal in submission order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobs(rootOpts, shortName, cmd)
		},
	}

	cmd.Flags().StringVar(&shortName, "device", "", "only list jobs of this device")

	return cmd
}

func runJobs(opts *RootOptions, shortName string, cmd *cobra.Command) error {
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

	jobs, err := s.store.ListJobs(ctx, shortName)
	if err != nil {
		return formatter.Fail("failed to read journal", withCode(ErrCodeStore, err))
	}
	entries := make([]JobEntry, 0, len(jobs))
	for _, j := range jobs {
		entries = append(entries, jobEntry(j))
	}

	return formatter.Success(entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "no jobs")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "JOB\tDEVICE\tSTATUS\tSHOTS\tHASH")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.12s\n", e.JobID, e.Device, e.Status, e.Shots, e.PayloadHash)
		}
		_ = tw.Flush()
	})
}

func jobEntry(j store.Job) JobEntry {
	return JobEntry{
		JobID:       j.JobID,
		RunID:       j.RunID,
		Device:      j.Device,
		Status:      string(j.Status),
		Detail:      j.Detail,
		Shots:       j.Payload.Shots,
		PayloadHash: j.PayloadHash,
	}
}
