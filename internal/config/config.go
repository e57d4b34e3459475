// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 8080
	DefaultLogLevel         = "INFO"
	DefaultDBFile           = "aoi.db"
	DefaultNERBackend       = "hugot"
	DefaultOpenAIModel      = "gpt-4o-mini"
	DefaultOpenAITimeout    = 30 * time.Second
	DefaultOpenAIMaxRetries = 3
	DefaultScanInterval     = 10 * time.Second
	DefaultScanBatchSize    = 100
	DefaultGraphMaxResults  = 200
	DefaultDBMaxOpenConns   = 10
	DefaultDBMaxIdleConns   = 5
	DefaultDBConnLifetime   = 30 * time.Minute
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// ScannerConfig configures the unfused-event scanner.
type ScannerConfig struct {
	enabled   bool
	interval  time.Duration
	batchSize int
}

// NewScannerConfig creates a new ScannerConfig with defaults.
func NewScannerConfig() ScannerConfig {
	return ScannerConfig{
		enabled:   true,
		interval:  DefaultScanInterval,
		batchSize: DefaultScanBatchSize,
	}
}

// Enabled returns whether the scanner runs in the background.
func (s ScannerConfig) Enabled() bool { return s.enabled }

// Interval returns the sleep between scanner passes.
func (s ScannerConfig) Interval() time.Duration { return s.interval }

// BatchSize returns how many events each query fetches.
func (s ScannerConfig) BatchSize() int { return s.batchSize }

// WithEnabled returns a copy with the enabled flag set.
func (s ScannerConfig) WithEnabled(enabled bool) ScannerConfig {
	s.enabled = enabled
	return s
}

// WithInterval returns a copy with the interval set. Non-positive values
// are ignored.
func (s ScannerConfig) WithInterval(d time.Duration) ScannerConfig {
	if d > 0 {
		s.interval = d
	}
	return s
}

// WithBatchSize returns a copy with the batch size set. Non-positive values
// are ignored.
func (s ScannerConfig) WithBatchSize(n int) ScannerConfig {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// PoolConfig bounds the database connection pool. Only postgres uses it.
type PoolConfig struct {
	maxOpen  int
	maxIdle  int
	lifetime time.Duration
}

// NewPoolConfig creates a new PoolConfig with defaults.
func NewPoolConfig() PoolConfig {
	return PoolConfig{
		maxOpen:  DefaultDBMaxOpenConns,
		maxIdle:  DefaultDBMaxIdleConns,
		lifetime: DefaultDBConnLifetime,
	}
}

// MaxOpen returns the maximum number of open connections.
func (p PoolConfig) MaxOpen() int { return p.maxOpen }

// MaxIdle returns the maximum number of idle connections.
func (p PoolConfig) MaxIdle() int { return p.maxIdle }

// Lifetime returns how long a connection may be reused.
func (p PoolConfig) Lifetime() time.Duration { return p.lifetime }

// WithMaxOpen returns a copy with the open connection limit set.
// Non-positive values are ignored.
func (p PoolConfig) WithMaxOpen(n int) PoolConfig {
	if n > 0 {
		p.maxOpen = n
	}
	return p
}

// WithMaxIdle returns a copy with the idle connection limit set.
// Negative values are ignored.
func (p PoolConfig) WithMaxIdle(n int) PoolConfig {
	if n >= 0 {
		p.maxIdle = n
	}
	return p
}

// WithLifetime returns a copy with the connection lifetime set.
// Non-positive values are ignored.
func (p PoolConfig) WithLifetime(d time.Duration) PoolConfig {
	if d > 0 {
		p.lifetime = d
	}
	return p
}

// NERConfig selects the named-entity recognizer.
type NERConfig struct {
	backend          string
	modelDir         string
	openAIAPIKey     string
	openAIBaseURL    string
	openAIModel      string
	openAITimeout    time.Duration
	openAIMaxRetries int
	openAICacheDir   string
}

// NEROption is a functional option for NERConfig.
type NEROption func(*NERConfig)

// NewNERConfig creates a new NERConfig with defaults.
func NewNERConfig() NERConfig {
	return NERConfig{
		backend:          DefaultNERBackend,
		openAIModel:      DefaultOpenAIModel,
		openAITimeout:    DefaultOpenAITimeout,
		openAIMaxRetries: DefaultOpenAIMaxRetries,
	}
}

// NewNERConfigWithOptions creates a NERConfig with functional options.
func NewNERConfigWithOptions(opts ...NEROption) NERConfig {
	n := NewNERConfig()
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// Backend returns the recognizer backend name.
func (n NERConfig) Backend() string { return n.backend }

// ModelDir returns the local model directory for the hugot backend.
func (n NERConfig) ModelDir() string { return n.modelDir }

// OpenAIAPIKey returns the API key for the openai backend.
func (n NERConfig) OpenAIAPIKey() string { return n.openAIAPIKey }

// OpenAIBaseURL returns the endpoint for the openai backend.
func (n NERConfig) OpenAIBaseURL() string { return n.openAIBaseURL }

// OpenAIModel returns the chat model for the openai backend.
func (n NERConfig) OpenAIModel() string { return n.openAIModel }

// OpenAITimeout returns the request timeout for the openai backend.
func (n NERConfig) OpenAITimeout() time.Duration { return n.openAITimeout }

// OpenAIMaxRetries returns the retry budget for the openai backend.
func (n NERConfig) OpenAIMaxRetries() int { return n.openAIMaxRetries }

// OpenAICacheDir returns the response cache directory for the openai backend.
func (n NERConfig) OpenAICacheDir() string { return n.openAICacheDir }

// WithBackend sets the backend.
func WithBackend(b string) NEROption {
	return func(n *NERConfig) { n.backend = strings.ToLower(strings.TrimSpace(b)) }
}

// WithModelDir sets the model directory.
func WithModelDir(dir string) NEROption {
	return func(n *NERConfig) { n.modelDir = dir }
}

// WithOpenAIAPIKey sets the openai API key.
func WithOpenAIAPIKey(key string) NEROption {
	return func(n *NERConfig) { n.openAIAPIKey = key }
}

// WithOpenAIBaseURL sets the openai endpoint.
func WithOpenAIBaseURL(url string) NEROption {
	return func(n *NERConfig) { n.openAIBaseURL = url }
}

// WithOpenAICacheDir enables the on-disk response cache for the openai backend.
func WithOpenAICacheDir(dir string) NEROption {
	return func(n *NERConfig) { n.openAICacheDir = dir }
}

// WithOpenAIModel sets the openai chat model.
func WithOpenAIModel(model string) NEROption {
	return func(n *NERConfig) {
		if model != "" {
			n.openAIModel = model
		}
	}
}

// WithOpenAITimeout sets the openai request timeout.
func WithOpenAITimeout(d time.Duration) NEROption {
	return func(n *NERConfig) {
		if d > 0 {
			n.openAITimeout = d
		}
	}
}

// WithOpenAIMaxRetries sets the openai retry budget.
func WithOpenAIMaxRetries(retries int) NEROption {
	return func(n *NERConfig) {
		if retries >= 0 {
			n.openAIMaxRetries = retries
		}
	}
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host            string
	port            int
	dataDir         string
	dbURL           string
	logLevel        string
	logFormat       LogFormat
	ner             NERConfig
	gazetteerFile   string
	scanner         ScannerConfig
	pool            PoolConfig
	graphMaxResults int
	corsOrigins     []string
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aoi"
	}
	return filepath.Join(home, ".aoi")
}

// DefaultLogger returns the default slog logger for library consumers.
func DefaultLogger() *slog.Logger {
	return slog.Default()
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:            DefaultHost,
		port:            DefaultPort,
		dataDir:         dataDir,
		dbURL:           defaultDBURL(dataDir),
		logLevel:        DefaultLogLevel,
		logFormat:       LogFormatPretty,
		ner:             NewNERConfig(),
		scanner:         NewScannerConfig(),
		pool:            NewPoolConfig(),
		graphMaxResults: DefaultGraphMaxResults,
		corsOrigins:     []string{},
	}
}

func defaultDBURL(dataDir string) string {
	return "sqlite:///" + filepath.Join(dataDir, DefaultDBFile)
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the server address (host:port).
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// NER returns the recognizer configuration.
func (c AppConfig) NER() NERConfig { return c.ner }

// GazetteerFile returns the YAML gazetteer path, empty for the built-in table.
func (c AppConfig) GazetteerFile() string { return c.gazetteerFile }

// Scanner returns the scanner configuration.
func (c AppConfig) Scanner() ScannerConfig { return c.scanner }

// Pool returns the database connection pool configuration.
func (c AppConfig) Pool() PoolConfig { return c.pool }

// GraphMaxResults returns the default neighbourhood result cap.
func (c AppConfig) GraphMaxResults() int { return c.graphMaxResults }

// CORSOrigins returns the allowed CORS origins.
func (c AppConfig) CORSOrigins() []string {
	result := make([]string, len(c.corsOrigins))
	copy(result, c.corsOrigins)
	return result
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory. A database URL still pointing at the
// old default location follows it.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		if c.dbURL == defaultDBURL(c.dataDir) {
			c.dbURL = defaultDBURL(dir)
		}
		c.dataDir = dir
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithNERConfig sets the recognizer configuration.
func WithNERConfig(n NERConfig) AppConfigOption {
	return func(c *AppConfig) { c.ner = n }
}

// WithGazetteerFile sets the gazetteer file.
func WithGazetteerFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.gazetteerFile = path }
}

// WithScannerConfig sets the scanner configuration.
func WithScannerConfig(s ScannerConfig) AppConfigOption {
	return func(c *AppConfig) { c.scanner = s }
}

// WithPoolConfig sets the database connection pool configuration.
func WithPoolConfig(p PoolConfig) AppConfigOption {
	return func(c *AppConfig) { c.pool = p }
}

// WithGraphMaxResults sets the default neighbourhood result cap.
func WithGraphMaxResults(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.graphMaxResults = n
		}
	}
}

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins []string) AppConfigOption {
	return func(c *AppConfig) {
		c.corsOrigins = make([]string, len(origins))
		copy(c.corsOrigins, origins)
	}
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Credentials are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("data_dir", c.dataDir),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.String("ner_backend", c.ner.backend),
		slog.String("ner_model_dir", orDefault(c.ner.modelDir, filepath.Join(c.dataDir, "models"))),
		slog.Bool("ner_openai_key_set", c.ner.openAIAPIKey != ""),
		slog.String("gazetteer_file", orDefault(c.gazetteerFile, "(built-in)")),
		slog.Bool("scan_enabled", c.scanner.enabled),
		slog.Duration("scan_interval", c.scanner.interval),
		slog.Int("scan_batch_size", c.scanner.batchSize),
		slog.Int("db_max_open_conns", c.pool.maxOpen),
		slog.Int("db_max_idle_conns", c.pool.maxIdle),
		slog.Duration("db_conn_max_lifetime", c.pool.lifetime),
		slog.Int("graph_max_results", c.graphMaxResults),
		slog.Int("cors_origins_count", len(c.corsOrigins)),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// ParseList parses a comma-separated list, dropping blank entries.
func ParseList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
