package main

import (
	"log/slog"

	"github.com/aoidb/aoi"
	"github.com/aoidb/aoi/internal/config"
)

// clientOptions derives aoi.Options from AppConfig. Only serve runs the
// background scanner; other entrypoints drive fusion themselves.
func clientOptions(cfg config.AppConfig, logger *slog.Logger, scan bool) []aoi.Option {
	opts := []aoi.Option{
		aoi.WithAppConfig(cfg),
		aoi.WithLogger(logger),
	}
	if !scan {
		opts = append(opts, aoi.WithScannerConfig(cfg.Scanner().WithEnabled(false)))
	}
	return opts
}

// closeClient closes c, logging any failure.
func closeClient(c *aoi.Client, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close aoi client", slog.Any("error", err))
	}
}
