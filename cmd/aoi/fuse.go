package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aoidb/aoi"
	"github.com/aoidb/aoi/internal/log"
)

func fuseCmd() *cobra.Command {
	var (
		envFile string
		eventID int64
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "fuse",
		Short: "Fuse unfused events",
		Long: `Run the fusion pipeline over events that have not been fused yet.

By default a single scanner pass runs and a summary is printed. With
--event-id only that event is fused. With --watch passes repeat every
SCAN_INTERVAL until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFuse(cmd.Context(), cmd.OutOrStdout(), envFile, eventID, watch)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().Int64Var(&eventID, "event-id", 0, "Fuse a single event by id")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep scanning until interrupted")

	return cmd
}

func runFuse(ctx context.Context, out io.Writer, envFile string, eventID int64, watch bool) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	logger := log.Configure(cfg)

	client, err := aoi.New(clientOptions(cfg, logger, false)...)
	if err != nil {
		return fmt.Errorf("create aoi client: %w", err)
	}
	defer closeClient(client, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(out)

	if eventID != 0 {
		detail, err := client.Events.Get(ctx, eventID)
		if err != nil {
			return err
		}
		result, err := client.Fusion.FuseEvent(ctx, detail.Event)
		if err != nil {
			return err
		}
		return enc.Encode(result)
	}

	for {
		result, err := client.Scanner.ScanOnce(ctx)
		if err != nil {
			if watch && ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := enc.Encode(result); err != nil {
			return err
		}
		if !watch {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(cfg.Scanner().Interval()):
		}
	}
}
