package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aoidb/aoi"
	"github.com/aoidb/aoi/infrastructure/api"
	"github.com/aoidb/aoi/infrastructure/api/middleware"
	"github.com/aoidb/aoi/internal/config"
	"github.com/aoidb/aoi/internal/log"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
		noScan  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server and the fusion scanner",
		Long: `Start the HTTP API server and the background unfused-event scanner.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                     Server host to bind to (default: 0.0.0.0)
  PORT                     Server port to listen on (default: 8080)
  DATA_DIR                 Data directory (default: ~/.aoi)
  DB_URL                   Database URL (default: sqlite:///{data_dir}/aoi.db)
  LOG_LEVEL                Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT               Log format: pretty, json (default: pretty)
  CORS_ORIGINS             Comma-separated list of allowed origins

  NER_BACKEND              Recognizer: hugot, prose, pattern, openai (default: hugot)
  NER_MODEL_DIR            Token classification model (default: {data_dir}/models)
  NER_OPENAI_API_KEY       API key for the openai backend
  NER_OPENAI_BASE_URL      OpenAI-compatible endpoint
  NER_OPENAI_MODEL         Chat model (default: gpt-4o-mini)
  NER_OPENAI_TIMEOUT       Request timeout (default: 30s)
  NER_OPENAI_MAX_RETRIES   Retry attempts (default: 3)
  NER_OPENAI_CACHE_DIR     Directory for cached recognizer responses

  GAZETTEER_FILE           YAML place table replacing the built-in one

  SCAN_ENABLED             Run the unfused-event scanner (default: true)
  SCAN_INTERVAL            Sleep between scanner passes (default: 10s)
  SCAN_BATCH_SIZE          Events fetched per query (default: 100)

  GRAPH_MAX_RESULTS        Default neighbourhood event cap (default: 200)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile, host, port, noScan)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")
	cmd.Flags().BoolVar(&noScan, "no-scan", false, "Do not run the background scanner")

	return cmd
}

func runServe(ctx context.Context, envFile, host string, port int, noScan bool) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port, noScan)

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)
	attrs := append([]slog.Attr{slog.String("version", aoi.Version)}, cfg.LogAttrs()...)
	logger.LogAttrs(ctx, slog.LevelInfo, "starting aoi", attrs...)

	client, err := aoi.New(clientOptions(cfg, logger, true)...)
	if err != nil {
		return fmt.Errorf("create aoi client: %w", err)
	}
	defer closeClient(client, logger)

	apiServer := api.NewAPIServer(client, cfg.CORSOrigins())
	router := apiServer.Router()
	apiServer.MountRoutes()

	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"name":    "aoi",
			"version": aoi.Version,
		})
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.ListenAndServe(cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int, noScan bool) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}
	if noScan {
		opts = append(opts, config.WithScannerConfig(cfg.Scanner().WithEnabled(false)))
	}

	return cfg.Apply(opts...)
}
