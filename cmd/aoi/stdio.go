package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aoidb/aoi"
	"github.com/aoidb/aoi/internal/log"
	"github.com/aoidb/aoi/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants query entities, events and graph neighbourhoods.
Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// stdout carries the protocol.
	logger := log.NewWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())
	slog.SetDefault(logger)

	logger.Info("starting MCP server",
		slog.String("version", aoi.Version),
		slog.String("data_dir", cfg.DataDir()),
	)

	client, err := aoi.New(clientOptions(cfg, logger, false)...)
	if err != nil {
		return fmt.Errorf("create aoi client: %w", err)
	}
	defer closeClient(client, logger)

	return mcp.NewServer(client.Graph, client.Entities, client.Events, aoi.Version, logger).ServeStdio()
}
