package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aoidb/aoi"
	v1 "github.com/aoidb/aoi/infrastructure/api/v1"
	"github.com/aoidb/aoi/infrastructure/api/v1/dto"
	"github.com/aoidb/aoi/internal/log"
)

const maxIngestLine = 4 << 20

func ingestCmd() *cobra.Command {
	var (
		envFile string
		fuse    bool
	)

	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Load events from JSON lines",
		Long: `Load events from a JSON lines file, or stdin when no file is given.

Each line is an event object with the same fields as POST /api/v1/events.
Blank lines are skipped. The first invalid line stops the load.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}
			return runIngest(cmd.Context(), in, cmd.OutOrStdout(), envFile, fuse)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().BoolVar(&fuse, "fuse", false, "Fuse each event as it is stored")

	return cmd
}

type ingestSummary struct {
	Stored int `json:"stored"`
	Fused  int `json:"fused"`
}

func runIngest(ctx context.Context, in io.Reader, out io.Writer, envFile string, fuse bool) error {
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

	summary, err := ingestLines(ctx, client, in, fuse)
	if err != nil {
		return err
	}
	return json.NewEncoder(out).Encode(summary)
}

func ingestLines(ctx context.Context, client *aoi.Client, in io.Reader, fuse bool) (ingestSummary, error) {
	var summary ingestSummary

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxIngestLine)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var body dto.EventCreateRequest
		if err := json.Unmarshal(raw, &body); err != nil {
			return summary, fmt.Errorf("line %d: %w", line, err)
		}

		e, err := client.Events.Ingest(ctx, v1.IngestRequest(body))
		if err != nil {
			return summary, fmt.Errorf("line %d: %w", line, err)
		}
		summary.Stored++

		if !fuse {
			continue
		}
		if _, err := client.Fusion.FuseEvent(ctx, e); err != nil {
			return summary, fmt.Errorf("line %d: fuse event %d: %w", line, e.ID(), err)
		}
		summary.Fused++
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read input: %w", err)
	}
	return summary, nil
}
