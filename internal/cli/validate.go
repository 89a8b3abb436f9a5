package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/synqs/internal/circuit"
	"github.com/roach88/synqs/internal/device"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool   `json:"valid"`
	Circuit      string `json:"circuit"`
	Device       string `json:"device"`
	Operations   int    `json:"operations"`
	Measurements int    `json:"measurements"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <circuit.yaml>",
		Short: "Validate a circuit without submitting it",
		Long: `Parse a circuit file and check every operation and observable
against the catalog of its device. Nothing is sent to the remote service.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	c, kind, err := loadCircuit(path)
	if err != nil {
		return formatter.Fail("invalid circuit", err)
	}

	result := ValidationResult{
		Valid:        true,
		Circuit:      c.Name,
		Device:       kind.ShortName,
		Operations:   len(c.Operations),
		Measurements: len(c.Measurements),
	}
	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ circuit %s is valid for %s (%d operations, %d measurements)\n",
			result.Circuit, result.Device, result.Operations, result.Measurements)
	})
}

// loadCircuit parses a circuit file and validates it against its device.
func loadCircuit(path string) (*circuit.Circuit, device.Kind, error) {
	c, err := circuit.Load(path)
	if err != nil {
		return nil, device.Kind{}, withCode(ErrCodeCircuit, err)
	}
	kind, err := device.Lookup(c.Device)
	if err != nil {
		return nil, device.Kind{}, err
	}
	if err := c.Validate(kind.Catalog); err != nil {
		return nil, device.Kind{}, err
	}
	return c, kind, nil
}
