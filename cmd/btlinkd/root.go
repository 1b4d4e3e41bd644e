package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"btlinkd/internal/config"
)

// commandContext carries flag values and lazily-resolved settings shared by
// subcommands.
type commandContext struct {
	configFlag *string

	cfg      *config.Config
	resolved string
	exists   bool
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, resolved, exists, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	c.resolved = resolved
	c.exists = exists
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := &commandContext{configFlag: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "btlinkd",
		Short:         "Bluetooth audio link manager",
		Long:          "btlinkd connects a paired Bluetooth device's hands-free link while audio is playing and tears it down after a configurable idle period.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Settings file path")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newEventsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
