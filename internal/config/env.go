package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use an underscore delimiter (e.g., NER_MODEL_DIR).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.aoi
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/aoi.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// DB configures the database connection pool.
	DB DBEnv `envconfig:"DB"`

	// NER configures the named-entity recognizer.
	NER NEREnv `envconfig:"NER"`

	// GazetteerFile is a YAML place table replacing the built-in one.
	// Env: GAZETTEER_FILE
	GazetteerFile string `envconfig:"GAZETTEER_FILE"`

	// Scan configures the unfused-event scanner.
	Scan ScanEnv `envconfig:"SCAN"`

	// GraphMaxResults is the default neighbourhood result cap.
	// Env: GRAPH_MAX_RESULTS (default: 200)
	GraphMaxResults int `envconfig:"GRAPH_MAX_RESULTS" default:"200"`

	// CORSOrigins is a comma-separated list of allowed origins.
	// Env: CORS_ORIGINS
	CORSOrigins string `envconfig:"CORS_ORIGINS"`
}

// NEREnv holds environment configuration for the recognizer.
type NEREnv struct {
	// Backend is one of hugot, prose, pattern, openai.
	// Env: NER_BACKEND (default: hugot)
	Backend string `envconfig:"BACKEND" default:"hugot"`

	// ModelDir is a local token-classification model directory.
	// Env: NER_MODEL_DIR
	ModelDir string `envconfig:"MODEL_DIR"`

	// OpenAIAPIKey authenticates the openai backend.
	// Env: NER_OPENAI_API_KEY
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// OpenAIBaseURL points the openai backend at a compatible endpoint.
	// Env: NER_OPENAI_BASE_URL
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	// OpenAIModel is the chat model.
	// Env: NER_OPENAI_MODEL (default: gpt-4o-mini)
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// OpenAITimeout is the request timeout.
	// Env: NER_OPENAI_TIMEOUT (default: 30s)
	OpenAITimeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`

	// OpenAIMaxRetries is the maximum number of retries.
	// Env: NER_OPENAI_MAX_RETRIES (default: 3)
	OpenAIMaxRetries int `envconfig:"OPENAI_MAX_RETRIES" default:"3"`

	// OpenAICacheDir stores responses on disk so identical text is only
	// sent once.
	// Env: NER_OPENAI_CACHE_DIR
	OpenAICacheDir string `envconfig:"OPENAI_CACHE_DIR"`
}

// DBEnv holds environment configuration for the connection pool.
// Only postgres honours these; sqlite always uses one connection.
type DBEnv struct {
	// MaxOpenConns is the maximum number of open connections.
	// Env: DB_MAX_OPEN_CONNS (default: 10)
	MaxOpenConns int `envconfig:"MAX_OPEN_CONNS" default:"10"`

	// MaxIdleConns is the maximum number of idle connections.
	// Env: DB_MAX_IDLE_CONNS (default: 5)
	MaxIdleConns int `envconfig:"MAX_IDLE_CONNS" default:"5"`

	// ConnMaxLifetime is how long a connection may be reused.
	// Env: DB_CONN_MAX_LIFETIME (default: 30m)
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"30m"`
}

// ScanEnv holds environment configuration for the scanner.
type ScanEnv struct {
	// Enabled controls whether the scanner runs under serve.
	// Env: SCAN_ENABLED (default: true)
	Enabled bool `envconfig:"ENABLED" default:"true"`

	// Interval is the sleep between passes.
	// Env: SCAN_INTERVAL (default: 10s)
	Interval time.Duration `envconfig:"INTERVAL" default:"10s"`

	// BatchSize is the number of events fetched per query.
	// Env: SCAN_BATCH_SIZE (default: 100)
	BatchSize int `envconfig:"BATCH_SIZE" default:"100"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvWithPrefix("")
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "AOI" would require AOI_DB_URL instead of DB_URL.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Normalize trims whitespace and canonicalises case on free-form fields.
func (e EnvConfig) Normalize() EnvConfig {
	e.Host = strings.TrimSpace(e.Host)
	e.DataDir = strings.TrimSpace(e.DataDir)
	e.DBURL = strings.TrimSpace(e.DBURL)
	e.LogLevel = strings.ToUpper(strings.TrimSpace(e.LogLevel))
	e.LogFormat = strings.ToLower(strings.TrimSpace(e.LogFormat))
	e.NER.Backend = strings.ToLower(strings.TrimSpace(e.NER.Backend))
	e.GazetteerFile = strings.TrimSpace(e.GazetteerFile)
	return e
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}

	cfg = applyOption(cfg, WithNERConfig(e.NER.ToNERConfig()))

	if e.GazetteerFile != "" {
		cfg = applyOption(cfg, WithGazetteerFile(e.GazetteerFile))
	}

	cfg = applyOption(cfg, WithScannerConfig(e.Scan.ToScannerConfig()))
	cfg = applyOption(cfg, WithPoolConfig(e.DB.ToPoolConfig()))
	cfg = applyOption(cfg, WithGraphMaxResults(e.GraphMaxResults))

	if e.CORSOrigins != "" {
		cfg = applyOption(cfg, WithCORSOrigins(ParseList(e.CORSOrigins)))
	}

	return cfg
}

func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// ToNERConfig converts NEREnv to NERConfig.
func (n NEREnv) ToNERConfig() NERConfig {
	opts := []NEROption{
		WithOpenAIModel(n.OpenAIModel),
		WithOpenAITimeout(n.OpenAITimeout),
		WithOpenAIMaxRetries(n.OpenAIMaxRetries),
	}
	if n.Backend != "" {
		opts = append(opts, WithBackend(n.Backend))
	}
	if n.ModelDir != "" {
		opts = append(opts, WithModelDir(n.ModelDir))
	}
	if n.OpenAIAPIKey != "" {
		opts = append(opts, WithOpenAIAPIKey(n.OpenAIAPIKey))
	}
	if n.OpenAIBaseURL != "" {
		opts = append(opts, WithOpenAIBaseURL(n.OpenAIBaseURL))
	}
	if n.OpenAICacheDir != "" {
		opts = append(opts, WithOpenAICacheDir(n.OpenAICacheDir))
	}
	return NewNERConfigWithOptions(opts...)
}

// ToScannerConfig converts ScanEnv to ScannerConfig.
func (s ScanEnv) ToScannerConfig() ScannerConfig {
	return NewScannerConfig().
		WithEnabled(s.Enabled).
		WithInterval(s.Interval).
		WithBatchSize(s.BatchSize)
}

// ToPoolConfig converts DBEnv to PoolConfig.
func (d DBEnv) ToPoolConfig() PoolConfig {
	return NewPoolConfig().
		WithMaxOpen(d.MaxOpenConns).
		WithMaxIdle(d.MaxIdleConns).
		WithLifetime(d.ConnMaxLifetime)
}

func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
