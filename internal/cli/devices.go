package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/synqs/internal/device"
)

// DeviceInfo describes one device kind.
type DeviceInfo struct {
	ShortName    string              `json:"short_name"`
	Name         string              `json:"name"`
	Version      string              `json:"version"`
	Author       string              `json:"author"`
	DefaultWires int                 `json:"default_wires"`
	MaxWires     int                 `json:"max_wires,omitempty"`
	DefaultURL   string              `json:"default_url"`
	Operations   []string            `json:"operations"`
	Observables  []string            `json:"observables"`
	Capabilities device.Capabilities `json:"capabilities"`
}

// NewDevicesCommand creates the devices command.
func NewDevicesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the supported devices",
		Long: `List every device kind with its wire limits, endpoint, operations,
observables and capabilities.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			infos := deviceInfos()
			return formatter.Success(infos, func(w io.Writer) { writeDevices(w, infos) })
		},
	}
}

func deviceInfos() []DeviceInfo {
	kinds := device.Kinds()
	infos := make([]DeviceInfo, 0, len(kinds))
	for _, k := range kinds {
		infos = append(infos, DeviceInfo{
			ShortName:    k.ShortName,
			Name:         k.Name,
			Version:      k.Version,
			Author:       k.Author,
			DefaultWires: k.DefaultWires,
			MaxWires:     k.MaxWires,
			DefaultURL:   k.DefaultURL,
			Operations:   k.Catalog.Operations(),
			Observables:  k.Catalog.Observables(),
			Capabilities: k.Capabilities(),
		})
	}
	return infos
}

func writeDevices(w io.Writer, infos []DeviceInfo) {
	for i, d := range infos {
		if i > 0 {
			fmt.Fprintln(w)
		}
		wires := fmt.Sprintf("%d", d.DefaultWires)
		if d.MaxWires > 0 {
			wires = fmt.Sprintf("%d (max %d)", d.DefaultWires, d.MaxWires)
		}
		fmt.Fprintf(w, "%s  %s %s\n", d.ShortName, d.Name, d.Version)
		fmt.Fprintf(w, "  model:       %s\n", d.Capabilities.Model)
		fmt.Fprintf(w, "  wires:       %s\n", wires)
		fmt.Fprintf(w, "  url:         %s\n", d.DefaultURL)
		fmt.Fprintf(w, "  operations:  %s\n", strings.Join(d.Operations, ", "))
		fmt.Fprintf(w, "  observables: %s\n", strings.Join(d.Observables, ", "))
	}
}
