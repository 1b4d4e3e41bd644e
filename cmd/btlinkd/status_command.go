package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"btlinkd/internal/ipc"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			client, err := ipc.Dial(cfg.Paths.SocketPath)
			if err != nil {
				return fmt.Errorf("daemon not reachable at %s: %w", cfg.Paths.SocketPath, err)
			}
			defer client.Close()

			status, err := client.Status()
			if err != nil {
				return fmt.Errorf("status call: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := isatty.IsTerminal(os.Stdout.Fd())

			state := "stopped"
			color := ansiRed
			if status.Running {
				state = "running"
				color = ansiGreen
			}
			if colorize {
				fmt.Fprintf(out, "btlinkd: %s%s%s (pid %d, session %s)\n", color, state, ansiReset, status.PID, status.SessionID)
			} else {
				fmt.Fprintf(out, "btlinkd: %s (pid %d, session %s)\n", state, status.PID, status.SessionID)
			}

			fmt.Fprintf(out, "  device:            %s\n", status.DeviceAddress)
			fmt.Fprintf(out, "  auto connect:      %t\n", status.AutoConnect)
			fmt.Fprintf(out, "  idle timeout:      %s\n", time.Duration(status.IdleTimeoutSeconds)*time.Second)
			fmt.Fprintf(out, "  last activity:     %ds ago\n", status.SecondsSinceActivity)
			fmt.Fprintf(out, "  consecutive errors: %d\n", status.ConsecutiveErrors)
			fmt.Fprintf(out, "  connects issued:   %d\n", status.ConnectsIssued)
			fmt.Fprintf(out, "  disconnects issued: %d\n", status.DisconnectsIssued)
			fmt.Fprintf(out, "  policy file:       %s\n", status.PolicyPath)
			fmt.Fprintf(out, "  journal:           %s\n", status.JournalPath)
			return nil
		},
	}
}
