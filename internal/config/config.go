package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// LookupFunc resolves one environment variable. Injectable so tests never
// mutate the process environment.
type LookupFunc func(string) (string, bool)

const (
	defaultLLMBaseURL = "http://localhost:11434/v1"
	defaultLLMModel   = "qwen3:4b"
	defaultLLMAPIKey  = "ollama"

	defaultMaxRows      = 10
	defaultSampleRows   = 3
	maxSampleRows       = 5
	defaultQueryTimeout = 30 * time.Second
	defaultLLMTimeout   = 30 * time.Second
)

type Config struct {
	// PostgreSQL connection (all required).
	Host     string
	Port     int
	User     string
	Password string
	Database string

	// Catalog namespace to inspect.
	Schema string

	// Fixed-table variant.
	TargetTable  string
	TargetColumn string

	// Model endpoint.
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	LLMTimeout time.Duration

	// Prompt shaping.
	DomainContext  string
	ContextColumns []string
	MaxRows        int
	SampleRows     int

	// Execution.
	QueryTimeout time.Duration
	TrustModel   bool

	// Local annotation file (optional).
	AnnotationsPath string

	LogLevel slog.Level
}

// Load reads configuration from the given lookup, falling back to
// os.LookupEnv when lookup is nil. All missing required variables are
// reported together.
func Load(lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		Host:            get("POSTGRES_HOST"),
		User:            get("POSTGRES_USER"),
		Password:        get("POSTGRES_PASSWORD"),
		Database:        get("POSTGRES_DB"),
		Schema:          "public",
		TargetTable:     get("TARGET_TABLE"),
		TargetColumn:    get("TARGET_COLUMN"),
		LLMBaseURL:      defaultLLMBaseURL,
		LLMModel:        defaultLLMModel,
		LLMAPIKey:       defaultLLMAPIKey,
		LLMTimeout:      defaultLLMTimeout,
		DomainContext:   get("DOMAIN_CONTEXT"),
		MaxRows:         defaultMaxRows,
		SampleRows:      defaultSampleRows,
		QueryTimeout:    defaultQueryTimeout,
		AnnotationsPath: get("ASKPG_ANNOTATIONS"),
	}

	var missing []string
	for _, req := range []struct{ key, val string }{
		{"POSTGRES_HOST", cfg.Host},
		{"POSTGRES_PORT", get("POSTGRES_PORT")},
		{"POSTGRES_USER", cfg.User},
		{"POSTGRES_PASSWORD", cfg.Password},
		{"POSTGRES_DB", cfg.Database},
	} {
		if req.val == "" {
			missing = append(missing, req.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(get("POSTGRES_PORT"))
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("invalid POSTGRES_PORT value %q: must be a positive integer", get("POSTGRES_PORT"))
	}
	cfg.Port = port

	if v := get("ASKPG_SCHEMA"); v != "" {
		cfg.Schema = v
	}
	if v := get("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := get("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := get("LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}

	if v := get("ASKPG_MAX_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid ASKPG_MAX_ROWS value %q: must be a positive integer", v)
		}
		cfg.MaxRows = n
	}

	if v := get("ASKPG_SAMPLE_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid ASKPG_SAMPLE_ROWS value %q: must be a non-negative integer", v)
		}
		cfg.SampleRows = n
	}
	if cfg.SampleRows > maxSampleRows {
		cfg.SampleRows = maxSampleRows
	}

	if v := get("ASKPG_QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ASKPG_QUERY_TIMEOUT value %q: %w", v, err)
		}
		cfg.QueryTimeout = d
	}

	if v := get("ASKPG_LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ASKPG_LLM_TIMEOUT value %q: %w", v, err)
		}
		cfg.LLMTimeout = d
	}

	if v := get("ASKPG_TRUST_MODEL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ASKPG_TRUST_MODEL value %q: %w", v, err)
		}
		cfg.TrustModel = b
	}

	if v := get("ASKPG_CONTEXT_COLUMNS"); v != "" {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.ContextColumns = append(cfg.ContextColumns, s)
			}
		}
	}

	if v := get("ASKPG_LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// DatabaseURL builds the postgres connection URL.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	return u.String()
}

// ConnectionInfo returns the resolved connection parameters for display.
// The password is never included.
func (c *Config) ConnectionInfo() string {
	return fmt.Sprintf("host=%s port=%d database=%s user=%s schema=%s", c.Host, c.Port, c.Database, c.User, c.Schema)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid ASKPG_LOG_LEVEL value %q: must be debug, info, warn, or error", s)
	}
}
