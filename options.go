package aoi

import (
	"errors"
	"log/slog"

	"github.com/aoidb/aoi/application/service"
	"github.com/aoidb/aoi/domain/fusion"
	"github.com/aoidb/aoi/internal/config"
)

// ErrNoDatabase is returned by New when no database was configured.
var ErrNoDatabase = errors.New("aoi: no database configured")

// ErrClientClosed is returned when using a closed client.
var ErrClientClosed = service.ErrClientClosed

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dbURL         string
	dataDir       string
	logger        *slog.Logger
	ner           config.NERConfig
	recognizer    fusion.Recognizer
	gazetteer     fusion.Gazetteer
	gazetteerFile string
	scanner       config.ScannerConfig
	pool          config.PoolConfig
	graphMax      int
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// The scanner is disabled until a configuration enables it.
func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:  config.DefaultDataDir(),
		ner:      config.NewNERConfig(),
		scanner:  config.NewScannerConfig().WithEnabled(false),
		pool:     config.NewPoolConfig(),
		graphMax: config.DefaultGraphMaxResults,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures a SQLite database file.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithPostgres configures a PostgreSQL database from a DSN URL.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.dbURL = dsn
	}
}

// WithDatabaseURL configures the database from a sqlite:// or postgres:// URL.
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithDataDir sets the data directory, used for the default model location.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithNERConfig selects and configures the recognizer backend.
func WithNERConfig(ner config.NERConfig) Option {
	return func(c *clientConfig) {
		c.ner = ner
	}
}

// WithRecognizer supplies a recognizer directly, bypassing backend selection.
func WithRecognizer(r fusion.Recognizer) Option {
	return func(c *clientConfig) {
		c.recognizer = r
	}
}

// WithGazetteer supplies the place table used for location enrichment.
func WithGazetteer(g fusion.Gazetteer) Option {
	return func(c *clientConfig) {
		c.gazetteer = g
	}
}

// WithGazetteerFile loads the place table from a YAML file.
func WithGazetteerFile(path string) Option {
	return func(c *clientConfig) {
		c.gazetteerFile = path
	}
}

// WithScannerConfig configures the background unfused-event scanner.
func WithScannerConfig(s config.ScannerConfig) Option {
	return func(c *clientConfig) {
		c.scanner = s
	}
}

// WithPoolConfig bounds the postgres connection pool.
func WithPoolConfig(p config.PoolConfig) Option {
	return func(c *clientConfig) {
		c.pool = p
	}
}

// WithGraphMaxResults sets the default neighbourhood event cap.
func WithGraphMaxResults(n int) Option {
	return func(c *clientConfig) {
		c.graphMax = n
	}
}

// WithAppConfig applies database, connection pool, data directory,
// recognizer, gazetteer, scanner and graph settings from an application
// configuration.
func WithAppConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.dbURL = cfg.DBURL()
		c.dataDir = cfg.DataDir()
		c.ner = cfg.NER()
		c.gazetteerFile = cfg.GazetteerFile()
		c.scanner = cfg.Scanner()
		c.pool = cfg.Pool()
		c.graphMax = cfg.GraphMaxResults()
	}
}
