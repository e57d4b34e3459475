// Package main is the entry point for the aoi CLI.
//
//	@title			AOI entity graph API
//	@description	Fused entities, their relations, and two-hop neighbourhoods over incident events.
//	@host			localhost:8080
//	@BasePath		/api/v1
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aoidb/aoi/internal/config"
)

// Build information set via ldflags.
var (
	commit = "unknown"
	date   = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aoi",
		Short: "Entity fusion and relation graph for incident events",
		Long: `aoi extracts people, organisations, places and vessel identifiers from
incident events, merges them into canonical entities, records relations
between them, and serves two-hop neighbourhood queries over the result.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(fuseCmd())
	cmd.AddCommand(ingestCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(downloadModelCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
