package cli

import (
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-stream/control"
)

var probeSettle time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe [uri]",
	Short: "Connect, then dump the stream debug probes as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStream(cmd.Context(), args)
		if err != nil {
			return err
		}
		defer s.Close()

		probes := control.NewDebugProbes()
		control.RegisterPlatformProbes(probes)
		s.RegisterProbes(probes)

		if probeSettle > 0 {
			select {
			case <-time.After(probeSettle):
			case <-cmd.Context().Done():
			}
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(probes.DumpState())
	},
}

func init() {
	probeCmd.Flags().DurationVar(&probeSettle, "settle", 0, "wait before sampling the probes")
	rootCmd.AddCommand(probeCmd)
}
