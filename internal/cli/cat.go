package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var catLinger time.Duration

var catCmd = &cobra.Command{
	Use:   "cat [uri]",
	Short: "Bridge stdin and stdout to a stream",
	Long: `Sends everything read from stdin to the stream and prints every byte
received from it. After stdin ends the command keeps printing until the stream
is quiet for --linger or the peer closes it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStream(cmd.Context(), args)
		if err != nil {
			return err
		}
		defer s.Close()
		return bridge(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout(), settings.PollInterval, catLinger)
	},
}

func init() {
	catCmd.Flags().DurationVar(&catLinger, "linger", time.Second, "keep reading this long after stdin ends")
	rootCmd.AddCommand(catCmd)
}
