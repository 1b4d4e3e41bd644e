package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"btlinkd/internal/ipc"
	"btlinkd/internal/journal"
)

func newEventsCommand(cctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent journal events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			events, err := fetchEvents(cmd, cfg.Paths.SocketPath, cfg.Paths.JournalPath, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No events recorded")
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, e := range events {
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					e.CreatedAt,
					e.Kind,
					e.Device,
					e.Detail,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Time", "Kind", "Device", "Detail"}, rows, 0))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events to show")
	return cmd
}

// fetchEvents prefers the live daemon; when the socket is not reachable it
// reads the journal database directly so history stays inspectable while the
// daemon is down.
func fetchEvents(cmd *cobra.Command, socketPath, journalPath string, limit int) ([]ipc.EventRecord, error) {
	client, err := ipc.Dial(socketPath)
	if err == nil {
		defer client.Close()
		resp, callErr := client.Events(limit)
		if callErr != nil {
			return nil, fmt.Errorf("events call: %w", callErr)
		}
		return resp.Events, nil
	}

	store, err := journal.Open(journalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", journalPath, err)
	}
	defer store.Close()

	recent, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	records := make([]ipc.EventRecord, 0, len(recent))
	for _, e := range recent {
		records = append(records, ipc.EventRecord{
			ID:        e.ID,
			SessionID: e.SessionID,
			Kind:      e.Kind,
			Device:    e.Device,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return records, nil
}
