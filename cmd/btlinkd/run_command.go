package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"btlinkd/internal/audio"
	"btlinkd/internal/bluetooth"
	"btlinkd/internal/daemon"
	"btlinkd/internal/ipc"
	"btlinkd/internal/logging"
)

func newRunCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			// SIGINT/SIGTERM is the stop signal; failing to register it would
			// leave no way to shut down, so it aborts startup.
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stdout", cfg.LogPath()},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			sensor := audio.NewMPRISSensor()
			defer sensor.Close()
			actuator := bluetooth.NewBlueZActuator(logger)
			defer actuator.Close()

			d, err := daemon.New(cfg, sensor, actuator, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			defer d.Close()

			ipcServer, err := ipc.NewServer(signalCtx, cfg.Paths.SocketPath, d, logger)
			if err != nil {
				return fmt.Errorf("start IPC server: %w", err)
			}
			defer ipcServer.Close()
			ipcServer.Serve()

			if err := d.Start(signalCtx); err != nil {
				return fmt.Errorf("start daemon: %w", err)
			}

			<-signalCtx.Done()
			logger.Info("shutdown signal received")
			d.Stop()
			return nil
		},
	}
}
