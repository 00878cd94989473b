package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/momentics/hioload-stream/api"
)

var (
	sendCRLF bool
	sendWait time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send <uri> <text>...",
	Short: "Send a line of text and print the reply",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStream(cmd.Context(), args[:1])
		if err != nil {
			return err
		}
		defer s.Close()

		text := strings.Join(args[1:], " ")
		if sendCRLF {
			_, err = api.Println(s, text)
		} else {
			_, err = api.WriteString(s, text)
		}
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
		if sendWait <= 0 {
			return nil
		}

		// the reply may arrive in several frames; collect until quiet
		deadline := time.Now().Add(sendWait)
		buf := make([]byte, 4096)
		for time.Now().Before(deadline) {
			if s.Available() == 0 {
				if !s.IsOpen() {
					break
				}
				waitInbound(s, settings.PollInterval)
				continue
			}
			n, _ := s.Read(buf)
			if _, err := cmd.OutOrStdout().Write(buf[:n]); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().BoolVar(&sendCRLF, "crlf", false, "terminate the text with CR LF")
	sendCmd.Flags().DurationVar(&sendWait, "wait", 500*time.Millisecond, "how long to collect the reply, 0 to skip")
	rootCmd.AddCommand(sendCmd)
}
