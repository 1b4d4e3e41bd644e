package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"btlinkd/internal/config"
	"btlinkd/internal/policy"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(cctx))
	configCmd.AddCommand(newConfigValidateCommand(cctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample settings file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if overwrite {
				if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("remove existing config: %w", err)
				}
			}

			if err := config.WriteSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample settings to %s\n", target)
			fmt.Fprintln(out, "Edit paths.policy_file and create a policy with a real device address before running btlinkd.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the settings file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing settings file")
	return cmd
}

func newConfigShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Settings file: %s", cctx.resolved)
			if !cctx.exists {
				fmt.Fprint(out, " (missing, defaults in effect)")
			}
			fmt.Fprintln(out)

			rows := [][]string{
				{"paths.policy_file", cfg.Paths.PolicyFile},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"paths.journal_path", cfg.Paths.JournalPath},
				{"paths.socket_path", cfg.Paths.SocketPath},
				{"logging.level", cfg.Logging.Level},
				{"logging.format", cfg.Logging.Format},
				{"monitor.tick_seconds", fmt.Sprintf("%d", cfg.Monitor.TickSeconds)},
				{"monitor.failure_threshold", fmt.Sprintf("%d", cfg.Monitor.FailureThreshold)},
				{"monitor.backoff_seconds", fmt.Sprintf("%d", cfg.Monitor.BackoffSeconds)},
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows))
			return nil
		},
	}
}

func newConfigValidateCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate settings and the policy file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Settings file: %s\n", cctx.resolved)
			if !cctx.exists {
				fmt.Fprintln(out, "Settings file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Settings valid")

			p, err := policy.Load(cfg.Paths.PolicyFile)
			switch {
			case errors.Is(err, policy.ErrIO):
				fmt.Fprintf(out, "Policy file %s is missing; the daemon will start with defaults\n", cfg.Paths.PolicyFile)
			case err != nil:
				return fmt.Errorf("policy file %s: %w", cfg.Paths.PolicyFile, err)
			default:
				fmt.Fprintf(out, "Policy valid: device %s, auto connect %t, idle timeout %s\n",
					p.DeviceAddress, p.AutoConnect, p.IdleTimeout)
			}
			return nil
		},
	}
}
