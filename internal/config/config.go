package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/vbind/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vbind.json"

	// DefaultPrefix is the directive attribute prefix.
	DefaultPrefix = "v-"

	// DefaultAddr is the default live server address.
	DefaultAddr = "localhost:3000"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "vbind"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	defaultReadTimeout  = "60s"
	defaultWriteTimeout = "10s"
)

// Config represents vbind.json.
type Config struct {
	// Prefix is the directive attribute prefix (default "v-").
	Prefix string `json:"prefix,omitempty"`

	// CollapseText makes interpolation updates replace the whole text node
	// instead of re-splicing the value between the surrounding literals.
	CollapseText bool `json:"collapseText,omitempty"`

	// MissingValue is what an undefined key renders as.
	MissingValue string `json:"missingValue,omitempty"`

	Log     LogConfig     `json:"log,omitempty"`
	Serve   ServeConfig   `json:"serve,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty"`
	S3      S3Config      `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// ServeConfig contains live server configuration.
type ServeConfig struct {
	Addr         string   `json:"addr,omitempty"`
	ReadTimeout  string   `json:"readTimeout,omitempty"`
	WriteTimeout string   `json:"writeTimeout,omitempty"`
	Origins      []string `json:"origins,omitempty"`
}

// MetricsConfig contains Prometheus configuration.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// S3Config configures s3:// sources.
type S3Config struct {
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style addressing.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads vbind.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without one to use defaults")
		}
		return nil, errors.New("E100").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E100").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.ReadTimeout == "" {
		c.Serve.ReadTimeout = defaultReadTimeout
	}
	if c.Serve.WriteTimeout == "" {
		c.Serve.WriteTimeout = defaultWriteTimeout
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Prefix) != c.Prefix || c.Prefix == "" {
		return errors.New("E102").
			WithDetailf("prefix %q must be non-empty and contain no whitespace", c.Prefix)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E102").
			WithDetailf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E102").
			WithDetailf("log.format %q must be text or json", c.Log.Format)
	}
	for name, v := range map[string]string{
		"serve.readTimeout":  c.Serve.ReadTimeout,
		"serve.writeTimeout": c.Serve.WriteTimeout,
	} {
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			return errors.New("E102").
				WithDetailf("%s %q is not a valid duration", name, v)
		}
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

// ReadTimeout returns the parsed live server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Serve.ReadTimeout)
	return d
}

// WriteTimeout returns the parsed live server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Serve.WriteTimeout)
	return d
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to the first one holding vbind.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E101").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadOrDefault loads the nearest vbind.json above startDir, or returns the
// defaults when there is none. Other load failures are returned.
func LoadOrDefault(startDir string) (*Config, error) {
	root, err := FindProjectRoot(startDir)
	if err != nil {
		return New(), nil
	}
	return Load(root)
}
